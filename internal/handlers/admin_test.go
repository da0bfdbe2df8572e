package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/fitgear/internal/middleware"
	"github.com/example/fitgear/internal/models"
)

func setupAdminRoutes(env *testEnv) {
	adminHandler := NewAdminHandler(env.DB, nil)

	auth := middleware.AuthMiddleware(env.Cfg)
	adminOnly := middleware.AdminOnly(env.DB)
	env.App.Get("/api/admin/orders", auth, adminOnly, adminHandler.ListAllOrders)
	env.App.Put("/api/admin/orders/:id/status", auth, adminOnly, adminHandler.UpdateOrderStatus)
	env.App.Put("/api/admin/users/:id", auth, adminOnly, adminHandler.UpdateUser)
}

func seedOrder(env *testEnv, user models.User) models.Order {
	order := models.Order{
		UserID:        user.ID,
		OrderNumber:   "FG-2026-" + user.ID.String()[:5],
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodCOD,
		Subtotal:      1000,
		ShippingFee:   150,
		TotalAmount:   1150,
		Currency:      "php",
	}
	require.NoError(env.T, env.DB.Create(&order).Error)
	return order
}

func TestUpdateOrderStatusStampsShippedOnce(t *testing.T) {
	env := newTestEnv(t)
	setupAdminRoutes(env)
	_, adminToken := env.createUser(models.RoleAdmin)
	buyer, _ := env.createUser(models.RoleUser)
	order := seedOrder(env, buyer)

	resp := env.doJSON(http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status",
		map[string]string{"status": "shipped"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var shipped models.Order
	require.NoError(t, env.DB.First(&shipped, "id = ?", order.ID).Error)
	require.Equal(t, models.OrderStatusShipped, shipped.Status)
	require.NotNil(t, shipped.ShippedAt)
	firstStamp := *shipped.ShippedAt

	// Leaving and re-entering shipped must not move the timestamp.
	resp = env.doJSON(http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status",
		map[string]string{"status": "processing"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	time.Sleep(10 * time.Millisecond)
	resp = env.doJSON(http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status",
		map[string]string{"status": "shipped"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, env.DB.First(&shipped, "id = ?", order.ID).Error)
	require.True(t, shipped.ShippedAt.Equal(firstStamp))
}

func TestUpdateOrderStatusStampsDelivered(t *testing.T) {
	env := newTestEnv(t)
	setupAdminRoutes(env)
	_, adminToken := env.createUser(models.RoleAdmin)
	buyer, _ := env.createUser(models.RoleUser)
	order := seedOrder(env, buyer)

	resp := env.doJSON(http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status",
		map[string]string{"status": "delivered"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var delivered models.Order
	require.NoError(t, env.DB.First(&delivered, "id = ?", order.ID).Error)
	require.Equal(t, models.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
}

func TestUpdateOrderStatusAllowsAnyTransition(t *testing.T) {
	env := newTestEnv(t)
	setupAdminRoutes(env)
	_, adminToken := env.createUser(models.RoleAdmin)
	buyer, _ := env.createUser(models.RoleUser)
	order := seedOrder(env, buyer)

	// No transition table: delivered back to pending is accepted.
	for _, status := range []string{"delivered", "pending"} {
		resp := env.doJSON(http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status",
			map[string]string{"status": status}, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	var final models.Order
	require.NoError(t, env.DB.First(&final, "id = ?", order.ID).Error)
	require.Equal(t, models.OrderStatusPending, final.Status)
}

func TestUpdateOrderStatusRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	setupAdminRoutes(env)
	_, adminToken := env.createUser(models.RoleAdmin)
	buyer, _ := env.createUser(models.RoleUser)
	order := seedOrder(env, buyer)

	resp := env.doJSON(http.MethodPut, "/api/admin/orders/"+order.ID.String()+"/status",
		map[string]string{"status": "teleported"}, adminToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	env := newTestEnv(t)
	setupAdminRoutes(env)
	_, userToken := env.createUser(models.RoleUser)

	resp := env.doJSON(http.MethodGet, "/api/admin/orders", nil, userToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminUpdateUserRole(t *testing.T) {
	env := newTestEnv(t)
	setupAdminRoutes(env)
	_, adminToken := env.createUser(models.RoleAdmin)
	target, _ := env.createUser(models.RoleUser)

	resp := env.doJSON(http.MethodPut, "/api/admin/users/"+target.ID.String(),
		map[string]string{"role": "admin", "status": "inactive"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, env.DB.First(&updated, "id = ?", target.ID).Error)
	require.Equal(t, models.RoleAdmin, updated.Role)
	require.Equal(t, models.UserStatusInactive, updated.Status)

	resp = env.doJSON(http.MethodPut, "/api/admin/users/"+target.ID.String(),
		map[string]string{"role": "superuser"}, adminToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
