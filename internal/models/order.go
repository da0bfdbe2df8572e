package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment lifecycle, independent of payment state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// IsValid reports whether the status is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusRefunded:
		return true
	}
	return false
}

// PaymentStatus is the payment lifecycle of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethod identifies how an order is settled.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodStripe PaymentMethod = "stripe"
)

// IsValid reports whether the method is a known value.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodStripe
}

// Order is an immutable purchase record. TotalAmount is fixed at creation
// and never recomputed from items afterward.
type Order struct {
	BaseModel
	UserID           uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	User             *User         `json:"user,omitempty"`
	OrderNumber      string        `gorm:"uniqueIndex" json:"order_number"`
	Status           OrderStatus   `gorm:"default:pending" json:"status"`
	PaymentStatus    PaymentStatus `gorm:"default:pending" json:"payment_status"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	PaymentIntentID  string        `json:"payment_intent_id"`
	Subtotal         float64       `json:"subtotal"`
	ShippingFee      float64       `json:"shipping_fee"`
	TotalAmount      float64       `json:"total_amount"`
	Currency         string        `json:"currency"`
	ShippingName     string        `json:"shipping_name"`
	ShippingPhone    string        `json:"shipping_phone"`
	ShippingStreet   string        `json:"shipping_street"`
	ShippingCity     string        `json:"shipping_city"`
	ShippingProvince string        `json:"shipping_province"`
	ShippingZip      string        `json:"shipping_zip"`
	Notes            string        `json:"notes"`
	PaidAt           *time.Time    `json:"paid_at"`
	ShippedAt        *time.Time    `json:"shipped_at"`
	DeliveredAt      *time.Time    `json:"delivered_at"`
	Items            []OrderItem   `json:"items,omitempty"`
}

// OrderItem snapshots a cart line at order time. Product name, image and SKU
// are copied, not referenced, so order history survives product edits.
type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID    *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName  string     `json:"product_name"`
	ProductImage string     `json:"product_image"`
	ProductSKU   string     `json:"product_sku"`
	Size         string     `json:"size"`
	Color        string     `json:"color"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
	Subtotal     float64    `json:"subtotal"`
}
