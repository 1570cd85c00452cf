package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/orderstatus"
	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

//
// --- Partner Dashboard ---
//

// GetPartnerDashboard is the handler for GET /v1/partner/dashboard.
// One aggregate call backing the dashboard's stat cards.
func (h *Handlers) GetPartnerDashboard(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)

	var totalOrders, pendingOrders int64
	var lifetimeSalesPaise, lifetimeCommissionPaise int64
	err := h.DB.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(status = ?), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN subtotal_paise + add_ons_paise ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN commission_paise ELSE 0 END), 0)
		FROM orders
		WHERE partner_id = ?`,
		orderstatus.StatusPlaced, orderstatus.StatusDelivered, orderstatus.StatusDelivered,
		partnerID).Scan(&totalOrders, &pendingOrders, &lifetimeSalesPaise, &lifetimeCommissionPaise)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order stats"})
		return
	}

	var activeProducts, pendingProducts int64
	err = h.DB.QueryRow(`
		SELECT COALESCE(SUM(status = 'approved' AND is_active = 1), 0),
		       COALESCE(SUM(status = 'pending_review'), 0)
		FROM products
		WHERE partner_id = ?`, partnerID).Scan(&activeProducts, &pendingProducts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product stats"})
		return
	}

	// Previews the partner owes, the dashboard's most urgent number.
	var previewsDue, previewsOverdue int64
	err = h.DB.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(oi.preview_deadline < ?), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.partner_id = ?
		  AND oi.preview_status IN (?, ?)
		  AND o.status NOT IN (?, ?)`,
		time.Now(), partnerID,
		string(orderstatus.PreviewPending), string(orderstatus.PreviewRevisionRequested),
		orderstatus.StatusCancelled, orderstatus.StatusRefunded).Scan(&previewsDue, &previewsOverdue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preview stats"})
		return
	}

	payout := lifetimeSalesPaise - lifetimeCommissionPaise
	c.JSON(http.StatusOK, gin.H{
		"totalOrders":     totalOrders,
		"pendingOrders":   pendingOrders,
		"activeProducts":  activeProducts,
		"pendingProducts": pendingProducts,
		"previewsDue":     previewsDue,
		"previewsOverdue": previewsOverdue,
		"lifetimeSales":   lifetimeSalesPaise,
		"lifetimePayout":  payout,
		"formattedSales":  pricing.FormatPrice(lifetimeSalesPaise),
		"formattedPayout": pricing.FormatPrice(payout),
	})
}
