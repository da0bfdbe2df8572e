package models

import "github.com/lib/pq"

// ProductStatus is derived from stock: zero stock means out_of_stock.
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// IsValid reports whether the status is a known value.
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusOutOfStock
}

type Product struct {
	BaseModel
	SKU         string         `gorm:"uniqueIndex" json:"sku"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Currency    string         `json:"currency"`
	Stock       int            `json:"stock"`
	Status      ProductStatus  `gorm:"default:active" json:"status"`
	Category    string         `gorm:"index" json:"category"`
	Brand       string         `gorm:"index" json:"brand"`
	Sizes       pq.StringArray `gorm:"type:text[]" json:"sizes"`
	Colors      pq.StringArray `gorm:"type:text[]" json:"colors"`
	Image       string         `json:"image"`
}
