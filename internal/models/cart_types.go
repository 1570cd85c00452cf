package models

import "time"

// Cart is the model for the 'carts' table.
type Cart struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is the model for the 'cart_items' table. SelectedAddOns holds the
// chosen add-on IDs as a JSON array column; CustomizationData carries the
// personalization fields (names, messages, photos) as a JSON object.
type CartItem struct {
	ID                int64     `json:"id" db:"id"`
	CartID            int64     `json:"cartId" db:"cart_id"`
	ProductID         int64     `json:"productId" db:"product_id"`
	Quantity          int       `json:"quantity" db:"quantity"`
	SelectedAddOns    []int64   `json:"selectedAddOns"`
	CustomizationData string    `json:"customizationData,omitempty" db:"customization_data"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}
