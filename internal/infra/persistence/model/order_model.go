package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. A checkout produces one row per seller.
type OrderModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderNumber   string    `gorm:"type:varchar(20);unique;not null"`
	BuyerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	Subtotal      float64   `gorm:"type:decimal(12,2);not null"`
	DeliveryFee   float64   `gorm:"type:decimal(12,2);not null"`
	ServiceFee    float64   `gorm:"type:decimal(12,2);not null"`
	TotalDiscount float64   `gorm:"type:decimal(12,2);not null"`
	TotalAmount   float64   `gorm:"type:decimal(12,2);not null"`
	DeliveryAddr  string    `gorm:"column:delivery_address;type:text;not null"`
	Notes         string    `gorm:"type:text"`
	PaymentMethod string    `gorm:"type:varchar(30);not null"`
	CancelReason  string    `gorm:"type:text"`
	PaidAt        *time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Product name and prices are
// frozen copies; later catalog edits never touch placed orders.
type OrderItemModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null"`
	ProductName   string    `gorm:"type:varchar(255);not null"`
	ProductImage  string    `gorm:"type:varchar(512)"`
	Unit          string    `gorm:"type:varchar(20)"`
	Quantity      int       `gorm:"not null"`
	UnitPrice     float64   `gorm:"type:decimal(12,2);not null"`
	DiscountPrice float64   `gorm:"type:decimal(12,2);not null"`
	Subtotal      float64   `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
