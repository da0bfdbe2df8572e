package models

import "github.com/google/uuid"

// CartItem is one variant selection in a user's cart. Uniqueness is per
// (user, product, size, color); re-adding the same variant increments
// quantity instead of inserting a duplicate row.
type CartItem struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

// WishlistItem is a saved (user, product) pair with no quantity.
type WishlistItem struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
}
