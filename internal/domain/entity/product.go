// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType distinguishes how a discount value is applied to a price.
type DiscountType string

const (
	// DiscountPercentage reduces the price by value percent.
	DiscountPercentage DiscountType = "PERCENTAGE"
	// DiscountFixed subtracts value from the price directly.
	DiscountFixed DiscountType = "FIXED"
)

// IsValid checks if the DiscountType is a valid value.
func (d DiscountType) IsValid() bool {
	switch d {
	case DiscountPercentage, DiscountFixed:
		return true
	default:
		return false
	}
}

// Discount is a time-bounded price reduction attached to a product.
type Discount struct {
	ID         uuid.UUID    // The unique ID for this discount record.
	ProductID  uuid.UUID    // Links this discount to the product it applies to.
	Type       DiscountType // How the value is interpreted (percentage or fixed amount).
	Value      float64      // Percent (0-100) for percentage discounts, currency amount for fixed ones.
	IsActive   bool         // Manual kill switch; an inactive discount never applies.
	ValidFrom  time.Time    // Start of the validity window, inclusive.
	ValidUntil time.Time    // End of the validity window, inclusive.
	CreatedAt  time.Time    // Timestamp of when this discount was created.
}

// AppliesAt reports whether the discount qualifies at the given instant.
func (d *Discount) AppliesAt(now time.Time) bool {
	return d.IsActive && !now.Before(d.ValidFrom) && !now.After(d.ValidUntil)
}

// Apply returns the price after this discount is applied.
func (d *Discount) Apply(price float64) float64 {
	switch d.Type {
	case DiscountPercentage:
		return price * (1 - d.Value/100)
	case DiscountFixed:
		return price - d.Value
	default:
		return price
	}
}

// Product is a listing offered by a producer, e.g., a crate of tomatoes.
type Product struct {
	ID          uuid.UUID  // The Global Unique Identifier (GUID) for the product.
	SellerID    uuid.UUID  // The producer account that owns this listing.
	Name        string     // The product's display name.
	Description string     // A longer description of the product.
	Price       float64    // The base unit price before any discount.
	Unit        string     // The selling unit, e.g., "kg", "bundle", "crate".
	Stock       int        // Quantity currently offered. Informational; not decremented at checkout.
	ImageURL    string     // Optional URL of the product photo.
	IsAvailable bool       // Whether the listing is visible and purchasable.
	Discounts   []Discount // The discounts attached to this product, loaded on demand.
	CreatedAt   time.Time  // Timestamp of when this listing was created.
	UpdatedAt   time.Time  // Timestamp of the last modification.
}

// PriceQuote is the resolved price of a product at a specific instant.
type PriceQuote struct {
	OriginalPrice  float64   // The base unit price.
	EffectivePrice float64   // The unit price after the winning discount, if any.
	Discount       *Discount // The discount that produced the effective price. Nil when none qualifies.
}

// EffectivePrice resolves the product's unit price as of the given instant.
// Among the discounts that qualify, the one with the largest value wins.
func (p *Product) EffectivePrice(asOf time.Time) PriceQuote {
	quote := PriceQuote{
		OriginalPrice:  p.Price,
		EffectivePrice: p.Price,
	}

	var best *Discount
	for i := range p.Discounts {
		d := &p.Discounts[i]
		if !d.AppliesAt(asOf) {
			continue
		}
		if best == nil || d.Value > best.Value {
			best = d
		}
	}

	if best != nil {
		quote.EffectivePrice = best.Apply(p.Price)
		quote.Discount = best
	}

	return quote
}
