package service

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GeneratePaymentQR generates a bank-transfer payment QR code for an order.
	// The payload carries the order number and the amount due.
	GeneratePaymentQR(orderNumber string, amount float64) ([]byte, error)
}
