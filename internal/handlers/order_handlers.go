package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/models"
	"github.com/wyshkit/wyshkit-golang/internal/orderstatus"
	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

//
// --- Checkout & Customer Order Handlers ---
//

// previewDeadlineHours is how long a partner has to upload a design preview
// after an order lands.
const previewDeadlineHours = 48

// loadCommissionRules reads the active commission rules and vendor overrides.
func (h *Handlers) loadCommissionRules() ([]pricing.CommissionRule, []pricing.VendorCommissionOverride, error) {
	ruleRows, err := h.DB.Query(`
		SELECT id, rule_type, vendor_id, category, order_value_min_paise, order_value_max_paise,
		       commission_percent, is_active, effective_from, effective_until
		FROM commission_rules
		WHERE is_active = 1`)
	if err != nil {
		return nil, nil, err
	}
	defer ruleRows.Close()

	var rules []pricing.CommissionRule
	for ruleRows.Next() {
		var r pricing.CommissionRule
		var vendorID, category sql.NullString
		if err := ruleRows.Scan(&r.ID, &r.RuleType, &vendorID, &category, &r.OrderValueMinPaise,
			&r.OrderValueMaxPaise, &r.CommissionPercent, &r.IsActive, &r.EffectiveFrom, &r.EffectiveUntil); err != nil {
			return nil, nil, err
		}
		r.VendorID = vendorID.String
		r.Category = category.String
		rules = append(rules, r)
	}
	if err := ruleRows.Err(); err != nil {
		return nil, nil, err
	}

	overrideRows, err := h.DB.Query(`
		SELECT id, vendor_id, commission_percent, reason, is_active, effective_from, effective_until
		FROM vendor_commission_overrides
		WHERE is_active = 1`)
	if err != nil {
		return nil, nil, err
	}
	defer overrideRows.Close()

	var overrides []pricing.VendorCommissionOverride
	for overrideRows.Next() {
		var o pricing.VendorCommissionOverride
		var reason sql.NullString
		if err := overrideRows.Scan(&o.ID, &o.VendorID, &o.CommissionPercent, &reason, &o.IsActive, &o.EffectiveFrom, &o.EffectiveUntil); err != nil {
			return nil, nil, err
		}
		o.Reason = reason.String
		overrides = append(overrides, o)
	}
	return rules, overrides, overrideRows.Err()
}

// checkoutItem is one cart row locked for checkout.
type checkoutItem struct {
	CartItemID        int64
	ProductID         int64
	PartnerID         int64
	Name              string
	Category          string
	Quantity          int
	Tiers             []pricing.PricingTier
	AddOnIDs          []int64
	CustomizationData string
	PreviewRequired   bool
	IsMadeToOrder     bool
	StockAvailable    int
}

// CheckoutInput is the JSON body for POST /v1/checkout. Express delivery
// carries the surge-adjusted fee quoted to the customer.
type CheckoutInput struct {
	DistanceKm      float64 `json:"distanceKm" binding:"gte=0"`
	ShippingAddress string  `json:"shippingAddress" binding:"required"`
	Express         bool    `json:"express"`
}

// Checkout is the handler for POST /v1/checkout. All pricing is recomputed
// server-side inside one transaction; the cart becomes one order per partner.
func (h *Handlers) Checkout(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	// 1. --- Bind & Validate JSON ---
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rules, overrides, err := h.loadCommissionRules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load commission configuration"})
		return
	}
	deliveryCfg := h.loadDeliveryFeeConfig()
	platformCfg := h.loadPlatformFeeConfig()

	// 2. --- Start Transaction & Lock the Cart's Products ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT ci.id, ci.product_id, ci.quantity, ci.selected_add_ons, ci.customization_data,
		       p.partner_id, p.name, p.category, p.tiered_pricing, p.preview_required,
		       p.is_made_to_order, p.stock_available
		FROM cart_items ci
		JOIN carts ca ON ca.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		WHERE ca.user_id = ? AND p.status = 'approved' AND p.is_active = 1
		FOR UPDATE`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	var items []checkoutItem
	for rows.Next() {
		var item checkoutItem
		var addOnIDsJSON, tiersJSON []byte
		var customization sql.NullString
		if err := rows.Scan(&item.CartItemID, &item.ProductID, &item.Quantity, &addOnIDsJSON, &customization,
			&item.PartnerID, &item.Name, &item.Category, &tiersJSON, &item.PreviewRequired,
			&item.IsMadeToOrder, &item.StockAvailable); err != nil {
			rows.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan cart row"})
			return
		}
		if err := json.Unmarshal(tiersJSON, &item.Tiers); err != nil {
			rows.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Corrupt pricing data for a cart item"})
			return
		}
		_ = json.Unmarshal(addOnIDsJSON, &item.AddOnIDs)
		item.CustomizationData = customization.String
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating cart rows"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	// 3. --- Stock Check Under Lock ---
	for _, item := range items {
		if !item.IsMadeToOrder && item.Quantity > item.StockAvailable {
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock for " + item.Name})
			return
		}
	}

	// 4. --- Group by Partner & Create Orders ---
	groups := map[int64][]checkoutItem{}
	var partnerOrder []int64
	for _, item := range items {
		if _, seen := groups[item.PartnerID]; !seen {
			partnerOrder = append(partnerOrder, item.PartnerID)
		}
		groups[item.PartnerID] = append(groups[item.PartnerID], item)
	}

	surgeMultiplier := 1.0
	if input.Express {
		surgeMultiplier, _ = h.currentSurge()
	}

	now := time.Now()
	var createdOrders []gin.H

	for _, partnerID := range partnerOrder {
		group := groups[partnerID]
		orderID, quote, err := h.createPartnerOrder(tx, userID, partnerID, group, input, surgeMultiplier, deliveryCfg, platformCfg, rules, overrides, now)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		createdOrders = append(createdOrders, gin.H{
			"orderId":        orderID,
			"total":          quote.TotalPaise,
			"formattedTotal": pricing.FormatPrice(quote.TotalPaise),
			"breakdown":      quote.Breakdown,
		})
	}

	// 5. --- Clear the Cart ---
	if _, err := tx.Exec(`
		DELETE ci FROM cart_items ci
		JOIN carts ca ON ca.id = ci.cart_id
		WHERE ca.user_id = ?`, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"orders":  createdOrders,
	})
}

// createPartnerOrder prices and persists one partner's share of a checkout.
func (h *Handlers) createPartnerOrder(
	tx *sql.Tx,
	userID, partnerID int64,
	group []checkoutItem,
	input CheckoutInput,
	surgeMultiplier float64,
	deliveryCfg pricing.DeliveryFeeConfig,
	platformCfg pricing.PlatformFeeConfig,
	rules []pricing.CommissionRule,
	overrides []pricing.VendorCommissionOverride,
	now time.Time,
) (int64, pricing.OrderQuote, error) {
	// Price the group server-side; cart prices are never trusted.
	quoteItems := make([]pricing.QuoteItem, 0, len(group))
	for _, item := range group {
		quoteItem := pricing.QuoteItem{Name: item.Name, Quantity: item.Quantity, Tiers: item.Tiers}
		if len(item.AddOnIDs) > 0 {
			addOns, err := h.loadAddOnsTx(tx, item.ProductID)
			if err != nil {
				return 0, pricing.OrderQuote{}, err
			}
			for _, wantID := range item.AddOnIDs {
				for _, addOn := range addOns {
					if addOn.ID == wantID {
						quoteItem.AddOns = append(quoteItem.AddOns, pricing.QuoteAddOn{
							Name:                 addOn.Name,
							PricePaise:           addOn.PricePaise,
							MinimumOrderQuantity: addOn.MinimumOrderQuantity,
						})
					}
				}
			}
		}
		quoteItems = append(quoteItems, quoteItem)
	}

	quote, err := pricing.CalculateOrderQuote(quoteItems, input.DistanceKm, surgeMultiplier, deliveryCfg, platformCfg)
	if err != nil {
		return 0, pricing.OrderQuote{}, err
	}

	orderValue := quote.ItemsSubtotalPaise + quote.AddOnsTotalPaise
	commission := pricing.CalculateCommission(orderValue, strconv.FormatInt(partnerID, 10), group[0].Category, now, rules, overrides)

	result, err := tx.Exec(`
		INSERT INTO orders
		(user_id, partner_id, status, subtotal_paise, add_ons_paise, delivery_fee_paise,
		 platform_fee_paise, gst_paise, commission_paise, total_paise, distance_km,
		 shipping_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, partnerID, orderstatus.StatusPlaced,
		quote.ItemsSubtotalPaise, quote.AddOnsTotalPaise, quote.DeliveryFeePaise,
		quote.PlatformFeePaise, quote.GSTPaise, commission.CommissionPaise, quote.TotalPaise,
		input.DistanceKm, input.ShippingAddress, now, now)
	if err != nil {
		return 0, pricing.OrderQuote{}, err
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, pricing.OrderQuote{}, err
	}

	for i, item := range group {
		lineResult, err := pricing.CalculateTieredPrice(item.Quantity, item.Tiers)
		if err != nil {
			return 0, pricing.OrderQuote{}, err
		}
		var addOnsTotal int64
		for _, addOn := range quoteItems[i].AddOns {
			addOnsTotal += addOn.PricePaise * int64(item.Quantity)
		}

		var previewStatus *string
		var previewDeadline *time.Time
		if item.PreviewRequired {
			status := string(orderstatus.PreviewPending)
			deadline := now.Add(previewDeadlineHours * time.Hour)
			previewStatus = &status
			previewDeadline = &deadline
		}

		if _, err := tx.Exec(`
			INSERT INTO order_items
			(order_id, product_id, quantity, unit_price_paise, total_paise, add_ons_paise,
			 customization_data, preview_status, preview_deadline, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orderID, item.ProductID, item.Quantity, lineResult.PricePerItem, lineResult.TotalPrice,
			addOnsTotal, item.CustomizationData, previewStatus, previewDeadline, now); err != nil {
			return 0, pricing.OrderQuote{}, err
		}

		if !item.IsMadeToOrder {
			if _, err := tx.Exec(
				"UPDATE products SET stock_available = stock_available - ?, updated_at = ? WHERE id = ?",
				item.Quantity, now, item.ProductID); err != nil {
				return 0, pricing.OrderQuote{}, err
			}
		}
	}

	message := "New order received worth " + pricing.FormatPrice(quote.TotalPaise)
	if err := addNotification(tx, partnerID, "new_order", message, orderID); err != nil {
		return 0, pricing.OrderQuote{}, err
	}

	return orderID, quote, nil
}

// loadAddOnsTx is loadAddOns inside the checkout transaction.
func (h *Handlers) loadAddOnsTx(tx *sql.Tx, productID int64) ([]models.ProductAddOn, error) {
	rows, err := tx.Query(`
		SELECT id, product_id, name, description, price_paise, minimum_order_quantity, requires_proof, is_active, created_at, updated_at
		FROM product_add_ons
		WHERE product_id = ? AND is_active = 1`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addOns []models.ProductAddOn
	for rows.Next() {
		var a models.ProductAddOn
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Name, &a.Description, &a.PricePaise, &a.MinimumOrderQuantity, &a.RequiresProof, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		addOns = append(addOns, a)
	}
	return addOns, rows.Err()
}

// GetMyOrders is the handler for GET /v1/orders.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	rows, err := h.DB.Query(`
		SELECT id, user_id, partner_id, status, subtotal_paise, add_ons_paise, delivery_fee_paise,
		       platform_fee_paise, gst_paise, total_paise, distance_km, tracking, created_at, updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	orders := []gin.H{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.PartnerID, &o.Status, &o.SubtotalPaise, &o.AddOnsPaise,
			&o.DeliveryFeePaise, &o.PlatformFeePaise, &o.GSTPaise, &o.TotalPaise, &o.DistanceKm,
			&o.Tracking, &o.CreatedAt, &o.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order row"})
			return
		}
		orders = append(orders, gin.H{
			"order":          o,
			"display":        orderstatus.GetDisplay(o.Status),
			"formattedTotal": pricing.FormatPrice(o.TotalPaise),
		})
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating order rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id. It includes each
// item's preview badge so the customer sees which designs still need action.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)
	orderID := c.Param("orderId")

	var o models.Order
	err := h.DB.QueryRow(`
		SELECT id, user_id, partner_id, status, subtotal_paise, add_ons_paise, delivery_fee_paise,
		       platform_fee_paise, gst_paise, total_paise, distance_km, tracking, created_at, updated_at
		FROM orders
		WHERE id = ? AND user_id = ?`, orderID, userID).Scan(
		&o.ID, &o.UserID, &o.PartnerID, &o.Status, &o.SubtotalPaise, &o.AddOnsPaise,
		&o.DeliveryFeePaise, &o.PlatformFeePaise, &o.GSTPaise, &o.TotalPaise, &o.DistanceKm,
		&o.Tracking, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	items, err := h.loadOrderItems(o.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
		return
	}

	itemViews := make([]gin.H, 0, len(items))
	for _, item := range items {
		view := gin.H{
			"item":           item,
			"formattedTotal": pricing.FormatPrice(item.TotalPaise + item.AddOnsPaise),
		}
		if state := item.PreviewState(); state != orderstatus.PreviewNone {
			view["previewBadge"] = orderstatus.GetPreviewBadge(state)
		}
		itemViews = append(itemViews, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"order":          o,
		"display":        orderstatus.GetDisplay(o.Status),
		"items":          itemViews,
		"formattedTotal": pricing.FormatPrice(o.TotalPaise),
	})
}

// loadOrderItems fetches all items of an order.
func (h *Handlers) loadOrderItems(orderID int64) ([]models.OrderItem, error) {
	rows, err := h.DB.Query(`
		SELECT id, order_id, product_id, quantity, unit_price_paise, total_paise, add_ons_paise,
		       customization_data, preview_status, preview_url, preview_deadline, preview_approved_at, created_at
		FROM order_items
		WHERE order_id = ?
		ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		var customization sql.NullString
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPricePaise,
			&item.TotalPaise, &item.AddOnsPaise, &customization, &item.PreviewStatus, &item.PreviewURL,
			&item.PreviewDeadline, &item.PreviewApprovedAt, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.CustomizationData = customization.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// ProcessOverduePreviews nudges partners whose design previews have blown
// their deadline. Run from a background ticker; each overdue item gets one
// notification and a 24h extension so partners are not spammed every tick.
func (h *Handlers) ProcessOverduePreviews() {
	now := time.Now()
	rows, err := h.DB.Query(`
		SELECT oi.id, o.id, o.partner_id
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.preview_status = ? AND oi.preview_deadline < ?
		  AND o.status NOT IN (?, ?)`,
		string(orderstatus.PreviewPending), now,
		orderstatus.StatusCancelled, orderstatus.StatusRefunded)
	if err != nil {
		log.Printf("ERROR: overdue preview scan failed: %v", err)
		return
	}
	defer rows.Close()

	type overdue struct {
		itemID    int64
		orderID   int64
		partnerID int64
	}
	var found []overdue
	for rows.Next() {
		var o overdue
		if err := rows.Scan(&o.itemID, &o.orderID, &o.partnerID); err != nil {
			log.Printf("ERROR: overdue preview scan failed: %v", err)
			return
		}
		found = append(found, o)
	}
	if err := rows.Err(); err != nil {
		log.Printf("ERROR: overdue preview scan failed: %v", err)
		return
	}

	for _, o := range found {
		tx, err := h.DB.Begin()
		if err != nil {
			log.Printf("ERROR: overdue preview tx failed: %v", err)
			return
		}
		newDeadline := now.Add(24 * time.Hour)
		if _, err := tx.Exec("UPDATE order_items SET preview_deadline = ? WHERE id = ?", newDeadline, o.itemID); err != nil {
			tx.Rollback()
			log.Printf("ERROR: overdue preview update failed for item %d: %v", o.itemID, err)
			continue
		}
		message := "A design preview for order #" + strconv.FormatInt(o.orderID, 10) + " is overdue. Please upload it as soon as possible."
		if err := addNotification(tx, o.partnerID, "preview_overdue", message, o.orderID); err != nil {
			tx.Rollback()
			log.Printf("ERROR: overdue preview notification failed for item %d: %v", o.itemID, err)
			continue
		}
		if err := tx.Commit(); err != nil {
			log.Printf("ERROR: overdue preview commit failed for item %d: %v", o.itemID, err)
		}
	}

	if len(found) > 0 {
		log.Printf("Processed %d overdue design previews", len(found))
	}
}
