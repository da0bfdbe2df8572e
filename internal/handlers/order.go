package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/middleware"
	"github.com/example/fitgear/internal/models"
	"github.com/example/fitgear/internal/services"
	"github.com/example/fitgear/internal/utils"
)

// OrderHandler manages checkout and order history endpoints.
type OrderHandler struct {
	db       *gorm.DB
	checkout *services.CheckoutService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, checkout *services.CheckoutService) *OrderHandler {
	return &OrderHandler{db: db, checkout: checkout}
}

type createOrderRequest struct {
	Address       services.ShippingAddress `json:"address"`
	PaymentMethod string                   `json:"payment_method"`
	Notes         string                   `json:"notes"`
}

// CreateOrder converts the user's cart into an order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.checkout.AssembleOrder(c.Context(), userID, services.AssembleOrderInput{
		Address:       req.Address,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		var validation *services.ValidationError
		if errors.As(err, &validation) {
			return fiber.NewError(fiber.StatusBadRequest, validation.Message)
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// ConfirmPayment finalizes a card order after the processor redirect. The
// redirect carries payment_intent and payment_intent_client_secret query
// parameters; the former correlates the transaction.
func (h *OrderHandler) ConfirmPayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	paymentIntentID := strings.TrimSpace(c.Query("payment_intent"))
	if paymentIntentID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "payment_intent is required")
	}

	order, err := h.checkout.ConfirmPayment(c.Context(), userID, id, paymentIntentID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		var updateErr *services.ErrPaymentUpdateFailed
		if errors.As(err, &updateErr) {
			return fiber.NewError(fiber.StatusInternalServerError,
				"could not record your payment; it may still have succeeded, please check your order history")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns orders for the authenticated user.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", userID).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
