// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Address is the core entity for a physical location owned by a user.
// Consumers use addresses for delivery; producers use them as farm pickup points.
type Address struct {
	ID          uuid.UUID // The Global Unique Identifier (GUID) for the address.
	UserID      uuid.UUID // The ID of the user that owns this address.
	Label       string    // A user-defined label, e.g., "Home", "Farm gate".
	Recipient   string    // The name of the person receiving deliveries at this address.
	Phone       string    // Contact phone number for the recipient.
	FullAddress string    // The full, human-readable street address.
	Latitude    float64   // The geographic latitude. Zero when not geocoded.
	Longitude   float64   // The geographic longitude. Zero when not geocoded.
	IsPrimary   bool      // Indicates if this is the primary address for the owner.
	CreatedAt   time.Time // Timestamp of when this address was created.
	UpdatedAt   time.Time // Timestamp of the last modification.
}
