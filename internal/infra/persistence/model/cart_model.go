package model

import (
	"time"

	"github.com/google/uuid"
)

// CartModel mirrors the 'carts' table. One cart per user.
type CartModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CartItemModel `gorm:"foreignKey:CartID"`
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel mirrors the 'cart_items' table. Prices are snapshots taken
// when the product was added, not live catalog values.
type CartItemModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CartID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_items_cart_product"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity      int       `gorm:"not null"`
	UnitPrice     float64   `gorm:"type:decimal(12,2);not null"`
	DiscountPrice float64   `gorm:"type:decimal(12,2);not null"`
	Subtotal      float64   `gorm:"type:decimal(12,2);not null"`
	IsSelected    bool      `gorm:"not null;default:true"`
	Notes         string    `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
