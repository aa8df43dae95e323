// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
type User struct {
	ID           uuid.UUID  // The Global Unique Identifier (GUID) for the user.
	Email        string     // The user's login identifier, stored lower-cased.
	PasswordHash string     // Stores the bcrypt-hashed password for the email credential.
	Name         string     // The user's display name or real name.
	Phone        string     // Optional contact phone number.
	Role         Role       // The single role this account acts as (consumer, producer, admin).
	AvatarURL    string     // Optional URL of the user's avatar image.
	IsOnline     bool       // Whether the user currently holds an active session.
	LastSeen     *time.Time // Timestamp of the user's last login or logout. Nil before first login.
	CreatedAt    time.Time  // Timestamp of when this user account was created.
	UpdatedAt    time.Time  // Timestamp of the last modification to this user's data.
}
