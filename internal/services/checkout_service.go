package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/events"
	"github.com/example/fitgear/internal/models"
	"github.com/example/fitgear/internal/utils"
)

const orderNumberAttempts = 5

// ValidationError is a user-facing pre-write failure: nothing has been
// persisted when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrOrderNotFound is returned when an order does not exist or belongs to a
// different user. Cross-user lookups fail closed with this same error.
var ErrOrderNotFound = errors.New("order not found")

// ErrPaymentUpdateFailed wraps a failure of the core paid-status write. The
// payment itself may still have succeeded at the processor; callers must
// tell the user to check order history.
type ErrPaymentUpdateFailed struct {
	Err error
}

func (e *ErrPaymentUpdateFailed) Error() string {
	return "failed to record payment: " + e.Err.Error()
}

func (e *ErrPaymentUpdateFailed) Unwrap() error {
	return e.Err
}

// CheckoutService owns the order lifecycle: cart snapshot to order rows,
// and the post-payment confirmation sequence.
type CheckoutService struct {
	db          *gorm.DB
	shippingFee float64
	currency    string
	producer    *events.Producer
	telegram    *TelegramService
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(db *gorm.DB, shippingFee float64, currency string, producer *events.Producer, telegram *TelegramService) *CheckoutService {
	return &CheckoutService{
		db:          db,
		shippingFee: shippingFee,
		currency:    currency,
		producer:    producer,
		telegram:    telegram,
	}
}

// ShippingAddress is the address snapshot captured at order time.
// Name, phone and street are required; the rest is optional.
type ShippingAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
}

// AssembleOrderInput carries everything needed to turn a cart into an order.
type AssembleOrderInput struct {
	Address       ShippingAddress
	PaymentMethod models.PaymentMethod
	Notes         string
}

// AssembleOrder converts the user's current cart into one Order row plus one
// OrderItem row per cart line, in a single transaction. Totals are computed
// here and never recomputed afterward. For COD the order is confirmed and
// the cart cleared immediately; for card payment the order stays pending and
// the cart is kept until payment confirmation.
func (s *CheckoutService) AssembleOrder(ctx context.Context, userID uuid.UUID, input AssembleOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.Address.Name) == "" ||
		strings.TrimSpace(input.Address.Phone) == "" ||
		strings.TrimSpace(input.Address.Street) == "" {
		return nil, &ValidationError{Message: "shipping name, phone and street are required"}
	}

	if !input.PaymentMethod.IsValid() {
		return nil, &ValidationError{Message: "payment method must be cod or stripe"}
	}

	var cart []models.CartItem
	if err := s.db.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).
		Find(&cart).Error; err != nil {
		return nil, err
	}

	if len(cart) == 0 {
		return nil, &ValidationError{Message: "cart is empty"}
	}

	order := models.Order{
		UserID:           userID,
		Status:           models.OrderStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
		PaymentMethod:    input.PaymentMethod,
		ShippingFee:      s.shippingFee,
		Currency:         s.currency,
		ShippingName:     input.Address.Name,
		ShippingPhone:    input.Address.Phone,
		ShippingStreet:   input.Address.Street,
		ShippingCity:     input.Address.City,
		ShippingProvince: input.Address.Province,
		ShippingZip:      input.Address.Zip,
		Notes:            input.Notes,
	}

	var subtotal float64
	for _, line := range cart {
		if line.Product == nil {
			return nil, &ValidationError{Message: "cart references a product that no longer exists"}
		}

		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}

		productID := line.ProductID
		item := models.OrderItem{
			ProductID:    &productID,
			ProductName:  line.Product.Name,
			ProductImage: line.Product.Image,
			ProductSKU:   line.Product.SKU,
			Size:         line.Size,
			Color:        line.Color,
			Quantity:     quantity,
			UnitPrice:    line.Product.Price,
			Subtotal:     line.Product.Price * float64(quantity),
		}

		subtotal += item.Subtotal
		order.Items = append(order.Items, item)
	}

	order.Subtotal = subtotal
	order.TotalAmount = subtotal + order.ShippingFee

	if input.PaymentMethod == models.PaymentMethodCOD {
		order.Status = models.OrderStatusConfirmed
	}

	number, err := s.uniqueOrderNumber(ctx)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}

	if input.PaymentMethod == models.PaymentMethodCOD {
		s.clearCart(ctx, userID)
		s.notifyNewOrder(ctx, order)
	}

	s.producer.Publish(ctx, events.OrderEvent{
		Type:        events.TypeOrderCreated,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      userID.String(),
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	})

	return &order, nil
}

// ConfirmPayment runs the post-payment sequence for a card order. It is
// idempotent on payment_status: an already-paid order is returned untouched,
// so a page reload or duplicate redirect never deducts stock twice.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, userID, orderID uuid.UUID, paymentIntentID string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return &order, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"payment_status":    models.PaymentStatusPaid,
		"status":            models.OrderStatusConfirmed,
		"paid_at":           &now,
		"payment_intent_id": paymentIntentID,
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(updates).Error; err != nil {
		return nil, &ErrPaymentUpdateFailed{Err: err}
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.Status = models.OrderStatusConfirmed
	order.PaymentIntentID = paymentIntentID
	order.PaidAt = &now

	s.recordTransaction(ctx, order, paymentIntentID)
	s.syncStock(ctx, order.Items)
	s.clearCart(ctx, userID)
	s.notifyNewOrder(ctx, order)

	s.producer.Publish(ctx, events.OrderEvent{
		Type:        events.TypeOrderPaid,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      userID.String(),
		Status:      string(models.OrderStatusConfirmed),
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	})

	var final models.Order
	if err := s.db.WithContext(ctx).Preload("Items").
		First(&final, "id = ?", order.ID).Error; err != nil {
		return &order, nil
	}

	return &final, nil
}

// recordTransaction persists the bookkeeping row for a succeeded charge.
// Failure is logged, not returned: stock sync must still proceed.
func (s *CheckoutService) recordTransaction(ctx context.Context, order models.Order, paymentIntentID string) {
	gateway, _ := json.Marshal(map[string]string{"payment_intent": paymentIntentID})

	txn := models.PaymentTransaction{
		OrderID:         order.ID,
		TransactionID:   paymentIntentID,
		PaymentMethod:   models.PaymentMethodStripe,
		Amount:          order.TotalAmount,
		Currency:        order.Currency,
		Status:          models.TransactionStatusSucceeded,
		GatewayResponse: gateway,
	}

	if err := s.db.WithContext(ctx).Create(&txn).Error; err != nil {
		log.Printf("[Checkout] failed to record transaction for order %s: %v", order.ID, err)
	}
}

// syncStock decrements stock per ordered item, floored at zero, and flips
// product status accordingly. Per-item failures are logged and skipped.
func (s *CheckoutService) syncStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}

		var product models.Product
		if err := s.db.WithContext(ctx).First(&product, "id = ?", *item.ProductID).Error; err != nil {
			log.Printf("[Checkout] stock sync: product %s not loaded: %v", *item.ProductID, err)
			continue
		}

		newStock := product.Stock - item.Quantity
		if newStock < 0 {
			newStock = 0
		}

		status := models.ProductStatusActive
		if newStock <= 0 {
			status = models.ProductStatusOutOfStock
		}

		if err := s.db.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{"stock": newStock, "status": status}).Error; err != nil {
			log.Printf("[Checkout] stock sync: product %s update failed: %v", product.ID, err)
		}
	}
}

// clearCart removes all of the user's cart rows, best effort.
func (s *CheckoutService) clearCart(ctx context.Context, userID uuid.UUID) {
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error; err != nil {
		log.Printf("[Checkout] failed to clear cart for user %s: %v", userID, err)
	}
}

func (s *CheckoutService) notifyNewOrder(ctx context.Context, order models.Order) {
	if s.telegram == nil {
		return
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", order.UserID).Error; err != nil {
		log.Printf("[Checkout] notify: user %s not loaded: %v", order.UserID, err)
	}

	items := make([]OrderItemNotification, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemNotification{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	notification := OrderNotification{
		OrderNumber:   order.OrderNumber,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		CustomerName:  user.FullName,
		CustomerPhone: user.Phone,
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
	}

	go func() {
		if err := s.telegram.NotifyNewOrder(notification); err != nil {
			log.Printf("[Checkout] Telegram notification failed for order %s: %v", order.OrderNumber, err)
		}
	}()
}

// uniqueOrderNumber generates an order number and verifies it against the
// unique index, retrying on collision.
func (s *CheckoutService) uniqueOrderNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number, err := utils.GenerateOrderNumber()
		if err != nil {
			return "", err
		}

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Order{}).
			Where("order_number = ?", number).
			Count(&count).Error; err != nil {
			return "", err
		}

		if count == 0 {
			return number, nil
		}
	}

	return "", errors.New("could not generate a unique order number")
}
