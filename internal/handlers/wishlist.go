package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/middleware"
	"github.com/example/fitgear/internal/models"
)

// WishlistHandler manages the authenticated user's wishlist.
type WishlistHandler struct {
	db *gorm.DB
}

// NewWishlistHandler constructs WishlistHandler.
func NewWishlistHandler(db *gorm.DB) *WishlistHandler {
	return &WishlistHandler{db: db}
}

// ListWishlist returns the user's wishlist with product details.
func (h *WishlistHandler) ListWishlist(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var items []models.WishlistItem
	if err := h.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

type addToWishlistRequest struct {
	ProductID string `json:"product_id"`
}

// AddToWishlist saves a (user, product) pair. Re-adding an existing pair is
// a no-op.
func (h *WishlistHandler) AddToWishlist(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addToWishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var existing models.WishlistItem
	err = h.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&existing).Error
	if err == nil {
		return c.JSON(fiber.Map{"success": true, "data": existing})
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := h.db.Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// RemoveFromWishlist deletes a wishlist row by id.
func (h *WishlistHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.WishlistItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

type moveToCartRequest struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

// MoveToCart converts a wishlist row into a cart row: add-to-cart first,
// then delete the wishlist row. The two writes are independent; a failed
// deletion after a successful cart insert leaves the item in both lists.
func (h *WishlistHandler) MoveToCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req moveToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var wish models.WishlistItem
	if err := h.db.First(&wish, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "wishlist item not found")
		}
		return err
	}

	item, err := upsertCartItem(h.db, userID, wish.ProductID, req.Quantity, req.Size, req.Color)
	if err != nil {
		return err
	}

	if err := h.db.Delete(&models.WishlistItem{}, "id = ?", wish.ID).Error; err != nil {
		log.Printf("[Wishlist] failed to remove item %s after moving to cart: %v", wish.ID, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}
