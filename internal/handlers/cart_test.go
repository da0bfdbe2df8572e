package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/fitgear/internal/middleware"
	"github.com/example/fitgear/internal/models"
)

func setupCartRoutes(env *testEnv) {
	cartHandler := NewCartHandler(env.DB)
	wishlistHandler := NewWishlistHandler(env.DB)

	auth := middleware.AuthMiddleware(env.Cfg)
	env.App.Get("/api/cart", auth, cartHandler.ListCart)
	env.App.Post("/api/cart", auth, cartHandler.AddToCart)
	env.App.Put("/api/cart/:id", auth, cartHandler.UpdateCartItem)
	env.App.Delete("/api/cart/:id", auth, cartHandler.RemoveFromCart)
	env.App.Post("/api/wishlist", auth, wishlistHandler.AddToWishlist)
	env.App.Post("/api/wishlist/:id/move-to-cart", auth, wishlistHandler.MoveToCart)
}

func TestAddToCartIncrementsSameVariant(t *testing.T) {
	env := newTestEnv(t)
	setupCartRoutes(env)
	_, token := env.createUser(models.RoleUser)
	product := env.createProduct("Training Shirt", 250, 10)

	payload := map[string]interface{}{
		"product_id": product.ID.String(),
		"quantity":   2,
		"size":       "M",
		"color":      "black",
	}

	resp := env.doJSON(http.MethodPost, "/api/cart", payload, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Same (product, size, color) tuple increments the existing row.
	resp = env.doJSON(http.MethodPost, "/api/cart", payload, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []models.CartItem
	require.NoError(t, env.DB.Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, 4, items[0].Quantity)
}

func TestAddToCartDifferentSizeCreatesRow(t *testing.T) {
	env := newTestEnv(t)
	setupCartRoutes(env)
	_, token := env.createUser(models.RoleUser)
	product := env.createProduct("Training Shirt", 250, 10)

	resp := env.doJSON(http.MethodPost, "/api/cart", map[string]interface{}{
		"product_id": product.ID.String(),
		"quantity":   1,
		"size":       "M",
		"color":      "black",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.doJSON(http.MethodPost, "/api/cart", map[string]interface{}{
		"product_id": product.ID.String(),
		"quantity":   1,
		"size":       "L",
		"color":      "black",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	setupCartRoutes(env)
	_, token := env.createUser(models.RoleUser)

	resp := env.doJSON(http.MethodPost, "/api/cart", map[string]interface{}{
		"product_id": "6f1e76e2-51a6-4b91-b5b9-6dbb40faa0c8",
		"quantity":   1,
	}, token)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	setupCartRoutes(env)

	resp := env.doJSON(http.MethodGet, "/api/cart", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMoveWishlistItemToCart(t *testing.T) {
	env := newTestEnv(t)
	setupCartRoutes(env)
	user, token := env.createUser(models.RoleUser)
	product := env.createProduct("Running Shoes", 500, 5)

	resp := env.doJSON(http.MethodPost, "/api/wishlist", map[string]interface{}{
		"product_id": product.ID.String(),
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var wish models.WishlistItem
	require.NoError(t, env.DB.First(&wish, "user_id = ?", user.ID).Error)

	resp = env.doJSON(http.MethodPost, "/api/wishlist/"+wish.ID.String()+"/move-to-cart", map[string]interface{}{
		"quantity": 1,
		"size":     "42",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Exactly one cart row, and the wishlist row is gone.
	var cartItems []models.CartItem
	require.NoError(t, env.DB.Find(&cartItems).Error)
	require.Len(t, cartItems, 1)
	require.Equal(t, product.ID, cartItems[0].ProductID)
	require.Equal(t, 1, cartItems[0].Quantity)

	var wishCount int64
	require.NoError(t, env.DB.Model(&models.WishlistItem{}).Count(&wishCount).Error)
	require.EqualValues(t, 0, wishCount)
}

func TestMoveWishlistItemMergesIntoExistingCartRow(t *testing.T) {
	env := newTestEnv(t)
	setupCartRoutes(env)
	user, token := env.createUser(models.RoleUser)
	product := env.createProduct("Running Shoes", 500, 5)

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
		Size:      "42",
	}).Error)
	wish := models.WishlistItem{UserID: user.ID, ProductID: product.ID}
	require.NoError(t, env.DB.Create(&wish).Error)

	resp := env.doJSON(http.MethodPost, "/api/wishlist/"+wish.ID.String()+"/move-to-cart", map[string]interface{}{
		"quantity": 2,
		"size":     "42",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cartItems []models.CartItem
	require.NoError(t, env.DB.Find(&cartItems).Error)
	require.Len(t, cartItems, 1)
	require.Equal(t, 3, cartItems[0].Quantity)
}

func TestUpdateCartItemQuantity(t *testing.T) {
	env := newTestEnv(t)
	setupCartRoutes(env)
	user, token := env.createUser(models.RoleUser)
	product := env.createProduct("Training Shirt", 250, 10)

	item := models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, env.DB.Create(&item).Error)

	resp := env.doJSON(http.MethodPut, "/api/cart/"+item.ID.String(), map[string]interface{}{
		"quantity": 5,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.CartItem
	require.NoError(t, env.DB.First(&updated, "id = ?", item.ID).Error)
	require.Equal(t, 5, updated.Quantity)

	resp = env.doJSON(http.MethodPut, "/api/cart/"+item.ID.String(), map[string]interface{}{
		"quantity": 0,
	}, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	setupCartRoutes(env)
	user, token := env.createUser(models.RoleUser)
	product := env.createProduct("Training Shirt", 250, 10)

	item := models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, env.DB.Create(&item).Error)

	resp := env.doJSON(http.MethodDelete, "/api/cart/"+item.ID.String(), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
