package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/events"
	"github.com/example/fitgear/internal/models"
	"github.com/example/fitgear/internal/utils"
)

// AdminHandler manages the back-office endpoints.
type AdminHandler struct {
	db       *gorm.DB
	producer *events.Producer
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, producer *events.Producer) *AdminHandler {
	return &AdminHandler{db: db, producer: producer}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	var totalProducts int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var todayRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status != ? AND created_at::date = CURRENT_DATE", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&todayRevenue).Error; err != nil {
		return err
	}

	var recentOrders []models.Order
	if err := h.db.Preload("Items").
		Order("created_at desc").
		Limit(5).
		Find(&recentOrders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":      totalUsers,
			"total_orders":     totalOrders,
			"total_products":   totalProducts,
			"total_revenue":    totalRevenue,
			"today_revenue":    todayRevenue,
			"orders_by_status": ordersByStatus,
			"recent_orders":    recentOrders,
		},
	})
}

// ListAllOrders returns all orders with purchaser and items.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if search := c.Query("search"); search != "" {
		query = query.Where(
			"order_number ILIKE ? OR shipping_name ILIKE ?",
			"%"+search+"%", "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
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

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus sets an order's fulfillment status. Any known status may
// follow any other; entering shipped or delivered stamps the matching
// timestamp once and never overwrites it.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	status := models.OrderStatus(req.Status)
	if !status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{"status": status}

	if status == models.OrderStatusShipped && order.ShippedAt == nil {
		updates["shipped_at"] = &now
	}
	if status == models.OrderStatusDelivered && order.DeliveredAt == nil {
		updates["delivered_at"] = &now
	}

	if err := h.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	h.producer.Publish(c.Context(), events.OrderEvent{
		Type:        events.TypeOrderStatusChanged,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		Status:      string(status),
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	})

	var updated models.Order
	if err := h.db.Preload("Items").First(&updated, "id = ?", order.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": updated})
}

// ListAllUsers returns registered users with order counts and spend.
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		query = query.Where(
			"username ILIKE ? OR full_name ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	type userStats struct {
		UserID     string  `json:"user_id"`
		OrderCount int64   `json:"order_count"`
		TotalSpent float64 `json:"total_spent"`
	}

	var stats []userStats
	h.db.Model(&models.Order{}).
		Select("user_id, count(*) as order_count, COALESCE(SUM(total_amount), 0) as total_spent").
		Group("user_id").
		Scan(&stats)

	statsMap := make(map[string]userStats)
	for _, s := range stats {
		statsMap[s.UserID] = s
	}

	type userResponse struct {
		models.User
		OrderCount int64   `json:"order_count"`
		TotalSpent float64 `json:"total_spent"`
	}

	result := make([]userResponse, len(users))
	for i, u := range users {
		result[i] = userResponse{User: u}
		if s, ok := statsMap[u.ID.String()]; ok {
			result[i].OrderCount = s.OrderCount
			result[i].TotalSpent = s.TotalSpent
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateUserRequest struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

// UpdateUser changes a user's role or account status.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Role != "" {
		if !models.Role(req.Role).IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid role")
		}
		updates["role"] = req.Role
	}
	if req.Status != "" {
		if !models.UserStatus(req.Status).IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
		updates["status"] = req.Status
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	result := h.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{"success": true})
}
