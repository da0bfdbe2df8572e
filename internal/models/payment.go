package models

import "github.com/google/uuid"

// TransactionStatus is the closed set of payment transaction states.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// IsValid reports whether the status is a known value.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSucceeded,
		TransactionStatusFailed, TransactionStatusRefunded,
		TransactionStatusCancelled:
		return true
	}
	return false
}

// PaymentTransaction records one charge attempt against an order.
type PaymentTransaction struct {
	BaseModel
	OrderID         uuid.UUID         `gorm:"type:uuid;index" json:"order_id"`
	TransactionID   string            `gorm:"index" json:"transaction_id"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	Amount          float64           `json:"amount"`
	Currency        string            `json:"currency"`
	Status          TransactionStatus `gorm:"default:pending" json:"status"`
	GatewayResponse []byte            `gorm:"type:jsonb" json:"gateway_response"`
}
