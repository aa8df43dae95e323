package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressModel mirrors the 'addresses' table. Each row belongs to one user;
// at most one row per user carries is_primary.
type AddressModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Label       string    `gorm:"type:varchar(50)"`
	Recipient   string    `gorm:"type:varchar(100)"`
	Phone       string    `gorm:"type:varchar(30)"`
	FullAddress string    `gorm:"type:text;not null"`
	Latitude    float64   `gorm:"type:decimal(10,8)"`
	Longitude   float64   `gorm:"type:decimal(11,8)"`
	IsPrimary   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}
