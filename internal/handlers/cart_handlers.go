package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

//
// --- Cart Handlers ---
//

// getOrCreateCart returns the user's cart ID, creating an empty cart on
// first use.
func (h *Handlers) getOrCreateCart(userID int64) (int64, error) {
	var cartID int64
	err := h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	now := time.Now()
	result, err := h.DB.Exec("INSERT INTO carts (user_id, created_at, updated_at) VALUES (?, ?, ?)", userID, now, now)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AddToCartInput is the JSON body for POST /v1/cart/items.
type AddToCartInput struct {
	ProductID         int64   `json:"productId" binding:"required"`
	Quantity          int     `json:"quantity" binding:"required,gt=0"`
	AddOnIDs          []int64 `json:"addOnIds,omitempty"`
	CustomizationData string  `json:"customizationData,omitempty"`
}

// AddToCart is the handler for POST /v1/cart/items.
func (h *Handlers) AddToCart(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	// 1. --- Bind & Validate JSON ---
	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Check the Product Exists and Is Buyable ---
	query := "SELECT" + productColumns + " FROM products WHERE id = ? AND status = 'approved' AND is_active = 1"
	product, err := scanProduct(h.DB.QueryRow(query, input.ProductID))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	if !product.IsMadeToOrder && input.Quantity > product.StockAvailable {
		c.JSON(http.StatusConflict, gin.H{"error": "Requested quantity exceeds available stock"})
		return
	}
	if input.CustomizationData != "" && !product.IsCustomizable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This product does not accept customization"})
		return
	}
	if product.PreviewRequired && input.CustomizationData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This product requires customization details for its design preview"})
		return
	}

	// Reject the request outright if the quantity has no tier rather than
	// letting checkout fail later.
	if _, err := pricing.CalculateTieredPrice(input.Quantity, product.TieredPricing); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	// 3. --- Upsert the Cart Line ---
	cartID, err := h.getOrCreateCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to access cart"})
		return
	}

	addOnsJSON, _ := json.Marshal(input.AddOnIDs)
	now := time.Now()
	insertQuery := `
		INSERT INTO cart_items (cart_id, product_id, quantity, selected_add_ons, customization_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			selected_add_ons = VALUES(selected_add_ons),
			customization_data = VALUES(customization_data),
			updated_at = VALUES(updated_at)`
	if _, err := h.DB.Exec(insertQuery, cartID, input.ProductID, input.Quantity, addOnsJSON, input.CustomizationData, now, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	h.respondWithCart(c, userID, http.StatusCreated)
}

// UpdateCartItemInput is the JSON body for PUT /v1/cart/items/:itemId.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:itemId.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)
	itemID := c.Param("itemId")

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Ownership is enforced in the WHERE clause via the carts join.
	result, err := h.DB.Exec(`
		UPDATE cart_items ci
		JOIN carts ca ON ca.id = ci.cart_id
		SET ci.quantity = ?, ci.updated_at = ?
		WHERE ci.id = ? AND ca.user_id = ?`,
		input.Quantity, time.Now(), itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	h.respondWithCart(c, userID, http.StatusOK)
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:itemId.
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)
	itemID := c.Param("itemId")

	result, err := h.DB.Exec(`
		DELETE ci FROM cart_items ci
		JOIN carts ca ON ca.id = ci.cart_id
		WHERE ci.id = ? AND ca.user_id = ?`,
		itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	h.respondWithCart(c, userID, http.StatusOK)
}

// GetCart is the handler for GET /v1/cart.
func (h *Handlers) GetCart(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	h.respondWithCart(c, userIDRaw.(int64), http.StatusOK)
}

// cartLine is one priced row of the cart view.
type cartLine struct {
	ItemID            int64                 `json:"itemId"`
	ProductID         int64                 `json:"productId"`
	Name              string                `json:"name"`
	Quantity          int                   `json:"quantity"`
	Pricing           pricing.PricingResult `json:"pricing"`
	AddOns            []pricing.QuoteAddOn  `json:"addOns,omitempty"`
	AddOnsTotalPaise  int64                 `json:"addOnsTotal"`
	LineTotalPaise    int64                 `json:"lineTotal"`
	FormattedTotal    string                `json:"formattedTotal"`
	PreviewRequired   bool                  `json:"previewRequired"`
	CustomizationData string                `json:"customizationData,omitempty"`
}

// respondWithCart prices the whole cart and writes the shared cart response.
// Every mutation returns this same shape so the UI never recomputes totals.
func (h *Handlers) respondWithCart(c *gin.Context, userID int64, statusCode int) {
	rows, err := h.DB.Query(`
		SELECT ci.id, ci.product_id, ci.quantity, ci.selected_add_ons, ci.customization_data,
		       p.name, p.tiered_pricing, p.preview_required, p.is_customizable
		FROM cart_items ci
		JOIN carts ca ON ca.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		WHERE ca.user_id = ? AND p.status = 'approved' AND p.is_active = 1
		ORDER BY ci.created_at ASC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	defer rows.Close()

	lines := []cartLine{}
	var subtotal, addOnsTotal int64
	maxQty := 0
	anyCustomizable := false

	for rows.Next() {
		var line cartLine
		var addOnIDsJSON, tiersJSON []byte
		var customization sql.NullString
		var isCustomizable bool
		var tiers []pricing.PricingTier
		var addOnIDs []int64

		if err := rows.Scan(&line.ItemID, &line.ProductID, &line.Quantity, &addOnIDsJSON, &customization,
			&line.Name, &tiersJSON, &line.PreviewRequired, &isCustomizable); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan cart row"})
			return
		}
		if err := json.Unmarshal(tiersJSON, &tiers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Corrupt pricing data for a cart item"})
			return
		}
		_ = json.Unmarshal(addOnIDsJSON, &addOnIDs)
		line.CustomizationData = customization.String

		result, err := pricing.CalculateTieredPrice(line.Quantity, tiers)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "A cart item quantity is no longer purchasable"})
			return
		}
		line.Pricing = result

		if len(addOnIDs) > 0 {
			addOns, err := h.loadAddOns(line.ProductID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load add-ons"})
				return
			}
			for _, wantID := range addOnIDs {
				for _, addOn := range addOns {
					if addOn.ID == wantID {
						line.AddOns = append(line.AddOns, pricing.QuoteAddOn{
							Name:                 addOn.Name,
							PricePaise:           addOn.PricePaise,
							MinimumOrderQuantity: addOn.MinimumOrderQuantity,
						})
						line.AddOnsTotalPaise += addOn.PricePaise * int64(line.Quantity)
					}
				}
			}
		}

		line.LineTotalPaise = result.TotalPrice + line.AddOnsTotalPaise
		line.FormattedTotal = pricing.FormatPrice(line.LineTotalPaise)
		subtotal += result.TotalPrice
		addOnsTotal += line.AddOnsTotalPaise
		if line.Quantity > maxQty {
			maxQty = line.Quantity
		}
		if isCustomizable {
			anyCustomizable = true
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating cart rows"})
		return
	}

	deliveryCfg := h.loadDeliveryFeeConfig()
	deliveryResult, err := pricing.CalculateDeliveryFee(subtotal+addOnsTotal, 0, deliveryCfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute delivery fee"})
		return
	}
	breakdown, err := pricing.GetDeliveryFeeBreakdown(subtotal+addOnsTotal, deliveryCfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute delivery breakdown"})
		return
	}

	c.JSON(statusCode, gin.H{
		"items":             lines,
		"subtotal":          subtotal,
		"addOnsTotal":       addOnsTotal,
		"delivery":          deliveryResult,
		"deliveryMessage":   pricing.DeliveryFeeMessage(deliveryResult),
		"deliveryBreakdown": breakdown,
		"deliveryEstimate":  pricing.DeliveryTimeEstimate(maxQty, 0, anyCustomizable),
		"formattedSubtotal": pricing.FormatPrice(subtotal + addOnsTotal),
	})
}
