// Package qrcode generates payment QR codes for bank transfer checkout.
package qrcode

import (
	"encoding/json"
	"fmt"

	"harvest/config"
	"harvest/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// PaymentQRData is the payload encoded into a payment QR code.
// Banking apps scan it to prefill the transfer.
type PaymentQRData struct {
	Type        string  `json:"type"`
	OrderNumber string  `json:"order_number"`
	Amount      float64 `json:"amount"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size := defaultQRSize
	correction := ""
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		correction = cfg.QRCode.ErrorCorrectionLevel
	}

	var level qrcode.RecoveryLevel
	switch correction {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GeneratePaymentQR generates a PNG QR code carrying the order number and
// the amount due.
func (s *qrcodeService) GeneratePaymentQR(orderNumber string, amount float64) ([]byte, error) {
	data := PaymentQRData{
		Type:        "payment",
		OrderNumber: orderNumber,
		Amount:      amount,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
