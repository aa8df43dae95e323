package geo

import (
	"testing"

	"harvest/config"

	"github.com/stretchr/testify/assert"
)

func TestQuote_FlatFeeWhenNoSurcharge(t *testing.T) {
	quoter := NewDeliveryQuoter(&config.Config{
		Pricing: &config.PricingConfig{DeliveryFee: 2.00, PerKmFee: 0},
	})

	fee := quoter.Quote(25.0330, 121.5654, 25.0478, 121.5170)

	assert.InDelta(t, 2.00, fee, 1e-9)
}

func TestQuote_FlatFeeForUngeocodedEndpoints(t *testing.T) {
	quoter := NewDeliveryQuoter(&config.Config{
		Pricing: &config.PricingConfig{DeliveryFee: 2.00, PerKmFee: 0.50},
	})

	assert.InDelta(t, 2.00, quoter.Quote(0, 0, 25.0478, 121.5170), 1e-9)
	assert.InDelta(t, 2.00, quoter.Quote(25.0330, 121.5654, 0, 0), 1e-9)
}

func TestQuote_AddsDistanceSurcharge(t *testing.T) {
	quoter := NewDeliveryQuoter(&config.Config{
		Pricing: &config.PricingConfig{DeliveryFee: 2.00, PerKmFee: 0.50},
	})

	// Taipei 101 to Taipei Main Station is roughly 5 km by straight line.
	fee := quoter.Quote(25.0330, 121.5654, 25.0478, 121.5170)

	assert.Greater(t, fee, 2.00)
	assert.Less(t, fee, 2.00+0.50*8)
}
