package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/fitgear/internal/models"
	"github.com/example/fitgear/internal/search"
	"github.com/example/fitgear/internal/utils"
)

// ProductHandler manages catalog endpoints and the search index.
type ProductHandler struct {
	db     *gorm.DB
	search *search.Client
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, searchClient *search.Client) *ProductHandler {
	return &ProductHandler{db: db, search: searchClient}
}

// ListProducts returns paginated products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if brand := c.Query("brand"); brand != "" {
		query = query.Where("brand = ?", brand)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if searchTerm := strings.TrimSpace(c.Query("search")); searchTerm != "" {
		q := "%" + searchTerm + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct loads a single product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// SearchProducts runs a fuzzy full-text query via Elasticsearch.
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	if !h.search.Available() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "search is not configured")
	}

	pg := utils.ParsePagination(c)
	total, products, err := h.search.Search(c.Context(), query, pg.Offset, pg.Limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type productRequest struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Image       string   `json:"image"`
}

// CreateProduct adds a catalog entry (admin only).
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Price < 0 || req.Stock < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name is required and price/stock must not be negative")
	}

	status := models.ProductStatusActive
	if req.Stock == 0 {
		status = models.ProductStatusOutOfStock
	}

	product := models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		Status:      status,
		Category:    req.Category,
		Brand:       req.Brand,
		Sizes:       pq.StringArray(req.Sizes),
		Colors:      pq.StringArray(req.Colors),
		Image:       req.Image,
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	h.search.IndexProduct(c.Context(), product)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct edits a catalog entry (admin only).
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Price < 0 || req.Stock < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price/stock must not be negative")
	}

	product.SKU = req.SKU
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Currency = req.Currency
	product.Stock = req.Stock
	product.Category = req.Category
	product.Brand = req.Brand
	product.Sizes = pq.StringArray(req.Sizes)
	product.Colors = pq.StringArray(req.Colors)
	product.Image = req.Image
	product.Status = models.ProductStatusActive
	if product.Stock == 0 {
		product.Status = models.ProductStatusOutOfStock
	}

	if err := h.db.Save(&product).Error; err != nil {
		return err
	}

	h.search.IndexProduct(c.Context(), product)

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a catalog entry (admin only).
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return err
	}

	h.search.DeleteProduct(c.Context(), id.String())

	return c.JSON(fiber.Map{"success": true})
}
