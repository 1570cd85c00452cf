package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/models"
	"github.com/wyshkit/wyshkit-golang/internal/orderstatus"
	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

//
// --- Partner Order Handlers ---
//

// GetPartnerOrders is the handler for GET /v1/partner/orders. Each order
// carries its items' preview badges and whether it can be accepted yet.
func (h *Handlers) GetPartnerOrders(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)

	rows, err := h.DB.Query(`
		SELECT id, user_id, partner_id, status, subtotal_paise, add_ons_paise, delivery_fee_paise,
		       platform_fee_paise, gst_paise, commission_paise, total_paise, distance_km, tracking,
		       created_at, updated_at
		FROM orders
		WHERE partner_id = ?
		ORDER BY created_at DESC`, partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.PartnerID, &o.Status, &o.SubtotalPaise, &o.AddOnsPaise,
			&o.DeliveryFeePaise, &o.PlatformFeePaise, &o.GSTPaise, &o.CommissionPaise, &o.TotalPaise,
			&o.DistanceKm, &o.Tracking, &o.CreatedAt, &o.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order row"})
			return
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating order rows"})
		return
	}

	views := []gin.H{}
	for _, o := range orders {
		items, err := h.loadOrderItems(o.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
			return
		}

		itemViews := make([]gin.H, 0, len(items))
		statuses := make([]orderstatus.PreviewStatus, 0, len(items))
		for _, item := range items {
			state := item.PreviewState()
			statuses = append(statuses, state)
			view := gin.H{"item": item}
			if state != orderstatus.PreviewNone {
				view["previewBadge"] = orderstatus.GetPreviewBadge(state)
			}
			itemViews = append(itemViews, view)
		}

		orderValue := o.SubtotalPaise + o.AddOnsPaise
		views = append(views, gin.H{
			"order":           o,
			"items":           itemViews,
			"canAccept":       o.Status == orderstatus.StatusPlaced && orderstatus.CanAcceptOrder(statuses),
			"payout":          orderValue - o.CommissionPaise,
			"formattedPayout": pricing.FormatPrice(orderValue - o.CommissionPaise),
			"formattedTotal":  pricing.FormatPrice(o.TotalPaise),
		})
	}

	c.JSON(http.StatusOK, gin.H{"orders": views})
}

// AcceptOrder is the handler for POST /v1/partner/orders/:id/accept.
// Acceptance is gated on preview approvals: a partner cannot commit to
// production while any customized item's design is still unapproved.
func (h *Handlers) AcceptOrder(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)
	orderID := c.Param("orderId")

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var id, customerID int64
	var rawStatus string
	err = tx.QueryRow(
		"SELECT id, user_id, status FROM orders WHERE id = ? AND partner_id = ? FOR UPDATE",
		orderID, partnerID).Scan(&id, &customerID, &rawStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	status, err := orderstatus.Parse(rawStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order has an unrecognized status"})
		return
	}
	if err := orderstatus.ValidateTransition(status, orderstatus.StatusConfirmed); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	ready, err := allPreviewsResolved(tx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check order previews"})
		return
	}
	if !ready {
		c.JSON(http.StatusConflict, gin.H{"error": "All design previews must be approved before accepting this order"})
		return
	}

	if _, err := tx.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		orderstatus.StatusConfirmed, time.Now(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept order"})
		return
	}

	message := "Order #" + strconv.FormatInt(id, 10) + " has been confirmed by the partner"
	if err := addNotification(tx, customerID, "order_confirmed", message, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify customer"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order accepted",
		"status":  orderstatus.StatusConfirmed,
		"display": orderstatus.GetDisplay(orderstatus.StatusConfirmed),
	})
}

// UpdateOrderStatusInput is the JSON body for the partner status update.
type UpdateOrderStatusInput struct {
	Status   string  `json:"status" binding:"required"`
	Tracking *string `json:"tracking,omitempty"`
}

// UpdateOrderStatus is the handler for PUT /v1/partner/orders/:id/status.
// Every move is checked against the lifecycle table; the customer is
// notified with the simplified display label, not the internal tag.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)
	orderID := c.Param("orderId")

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := orderstatus.Parse(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var id, customerID int64
	var rawStatus string
	err = tx.QueryRow(
		"SELECT id, user_id, status FROM orders WHERE id = ? AND partner_id = ? FOR UPDATE",
		orderID, partnerID).Scan(&id, &customerID, &rawStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	current, err := orderstatus.Parse(rawStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order has an unrecognized status"})
		return
	}
	if err := orderstatus.ValidateTransition(current, target); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if input.Tracking != nil {
		_, err = tx.Exec("UPDATE orders SET status = ?, tracking = ?, updated_at = ? WHERE id = ?",
			target, *input.Tracking, time.Now(), id)
	} else {
		_, err = tx.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
			target, time.Now(), id)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	display := orderstatus.GetDisplay(target)
	message := "Order #" + strconv.FormatInt(id, 10) + " update: " + display.Label
	if err := addNotification(tx, customerID, "order_status", message, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify customer"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"status":  target,
		"display": display,
	})
}
