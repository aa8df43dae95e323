package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table.
type ProductModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Price       float64   `gorm:"type:decimal(12,2);not null"`
	Unit        string    `gorm:"type:varchar(20);not null"`
	Stock       int       `gorm:"not null;default:0"`
	ImageURL    string    `gorm:"type:varchar(512)"`
	IsAvailable bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Discounts []DiscountModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// DiscountModel mirrors the 'discounts' table. Rows are never deleted when a
// discount lapses; the validity window decides whether one applies.
type DiscountModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(20);not null"`
	Value      float64   `gorm:"type:decimal(12,2);not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	ValidFrom  time.Time `gorm:"not null"`
	ValidUntil time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (DiscountModel) TableName() string {
	return "discounts"
}
