package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/models"
	"github.com/example/fitgear/internal/services"
	"github.com/example/fitgear/internal/utils"
)

// PaymentHandler exposes the payment-intent endpoint and transaction history.
type PaymentHandler struct {
	db     *gorm.DB
	stripe *services.StripeService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB, stripe *services.StripeService) *PaymentHandler {
	return &PaymentHandler{db: db, stripe: stripe}
}

type createIntentRequest struct {
	Amount   float64 `json:"amount"`
	OrderID  string  `json:"orderId"`
	Currency string  `json:"currency"`
}

// CreatePaymentIntent implements the serverless-style endpoint contract:
// OPTIONS always answers 200 with permissive CORS headers, POST creates an
// intent, every other method gets 405. Amounts arrive in major currency
// units and are converted to minor units before the processor call.
func (h *PaymentHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	switch c.Method() {
	case fiber.MethodOptions:
		return c.SendStatus(fiber.StatusOK)
	case fiber.MethodPost:
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"error": "Method not allowed",
		})
	}

	var req createIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing amount or orderId",
		})
	}

	if req.Amount <= 0 || strings.TrimSpace(req.OrderID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing amount or orderId",
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	intent, err := h.stripe.CreatePaymentIntent(c.Context(), req.Amount, currency, req.OrderID)
	if err != nil {
		log.Printf("[Payment] intent creation failed for order %s: %v", req.OrderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

// ListTransactions returns payment transaction history, optionally filtered
// (admin only).
func (h *PaymentHandler) ListTransactions(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.PaymentTransaction{})

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !models.TransactionStatus(status).IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
		query = query.Where("status = ?", status)
	}

	if orderID := strings.TrimSpace(c.Query("order_id")); orderID != "" {
		parsed, err := uuid.Parse(orderID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order_id")
		}
		query = query.Where("order_id = ?", parsed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var txns []models.PaymentTransaction
	if err := query.
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&txns).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    txns,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
