// Package geo computes distance-based delivery fees.
package geo

import (
	"harvest/config"
	"harvest/internal/domain/service"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// haversineQuoter implements DeliveryQuoter with a flat base fee plus an
// optional straight-line distance surcharge.
type haversineQuoter struct {
	baseFee  float64
	perKmFee float64
}

// NewDeliveryQuoter is the constructor for haversineQuoter.
func NewDeliveryQuoter(cfg *config.Config) service.DeliveryQuoter {
	var baseFee, perKmFee float64
	if cfg.Pricing != nil {
		baseFee = cfg.Pricing.DeliveryFee
		perKmFee = cfg.Pricing.PerKmFee
	}

	return &haversineQuoter{
		baseFee:  baseFee,
		perKmFee: perKmFee,
	}
}

// Quote returns the delivery fee for a shipment between two coordinates.
// Ungeocoded endpoints (zero coordinates) and a zero per-km fee both collapse
// to the flat base fee.
func (q *haversineQuoter) Quote(fromLat, fromLng, toLat, toLng float64) float64 {
	if q.perKmFee == 0 {
		return q.baseFee
	}
	if (fromLat == 0 && fromLng == 0) || (toLat == 0 && toLng == 0) {
		return q.baseFee
	}

	meters := orbgeo.DistanceHaversine(
		orb.Point{fromLng, fromLat},
		orb.Point{toLng, toLat},
	)

	return q.baseFee + q.perKmFee*meters/1000
}
