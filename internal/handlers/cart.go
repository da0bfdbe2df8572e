package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/middleware"
	"github.com/example/fitgear/internal/models"
)

// CartHandler manages the authenticated user's cart.
type CartHandler struct {
	db *gorm.DB
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{db: db}
}

// ListCart returns the user's cart with product details.
func (h *CartHandler) ListCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var items []models.CartItem
	if err := h.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// AddToCart inserts a cart row, or increments quantity when the exact
// (product, size, color) variant is already in the cart.
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	item, err := upsertCartItem(h.db, userID, productID, req.Quantity, req.Size, req.Color)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets the quantity of an existing cart row.
func (h *CartHandler) UpdateCartItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Quantity < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be at least 1")
	}

	var item models.CartItem
	if err := h.db.First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "cart item not found")
		}
		return err
	}

	item.Quantity = req.Quantity
	if err := h.db.Save(&item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// RemoveFromCart deletes a single cart row by id.
func (h *CartHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

type removeCartItemsRequest struct {
	IDs []string `json:"ids"`
}

// RemoveCartItems deletes a set of cart rows by id.
func (h *CartHandler) RemoveCartItems(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req removeCartItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id: "+raw)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ids are required")
	}

	if err := h.db.Where("id IN ? AND user_id = ?", ids, userID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// ClearCart removes every cart row for the user.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.db.Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// upsertCartItem is the shared add-to-cart write: increment on exact variant
// match, insert otherwise.
func upsertCartItem(db *gorm.DB, userID, productID uuid.UUID, quantity int, size, color string) (*models.CartItem, error) {
	var item models.CartItem
	err := db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
		userID, productID, size, color).
		First(&item).Error

	switch {
	case err == nil:
		item.Quantity += quantity
		if err := db.Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	case err == gorm.ErrRecordNotFound:
		item = models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			Size:      size,
			Color:     color,
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	default:
		return nil, err
	}
}
