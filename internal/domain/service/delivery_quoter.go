package service

// DeliveryQuoter defines the interface for computing delivery fees.
// Implementations may add a distance surcharge when both endpoints are geocoded.
type DeliveryQuoter interface {
	// Quote returns the delivery fee for a shipment between two coordinates.
	// Zero coordinates mean the point is not geocoded and only the flat fee applies.
	Quote(fromLat, fromLng, toLat, toLng float64) float64
}
