package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/orderstatus"
)

//
// --- Design Preview Handlers ---
//

// previewItem is the slice of an order item the preview handlers work on.
type previewItem struct {
	ItemID     int64
	OrderID    int64
	CustomerID int64
	PartnerID  int64
	Status     orderstatus.PreviewStatus
}

// loadPreviewItem fetches one order item with its order's parties.
func loadPreviewItem(tx *sql.Tx, orderID, itemID string) (previewItem, error) {
	var item previewItem
	var status sql.NullString
	err := tx.QueryRow(`
		SELECT oi.id, o.id, o.user_id, o.partner_id, oi.preview_status
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.id = ? AND o.id = ?
		FOR UPDATE`, itemID, orderID).Scan(&item.ItemID, &item.OrderID, &item.CustomerID, &item.PartnerID, &status)
	if err != nil {
		return previewItem{}, err
	}
	item.Status = orderstatus.PreviewStatus(status.String)
	return item, nil
}

// UploadPreviewInput is the JSON body for the partner preview upload.
type UploadPreviewInput struct {
	PreviewURL string `json:"previewUrl" binding:"required,url"`
}

// UploadPreview is the handler for POST /v1/partner/orders/:orderId/items/:itemId/preview.
// Moves the item to preview_ready and notifies the customer.
func (h *Handlers) UploadPreview(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)

	var input UploadPreviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	item, err := loadPreviewItem(tx, c.Param("orderId"), c.Param("itemId"))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order item"})
		return
	}
	if item.PartnerID != partnerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order belongs to another partner"})
		return
	}
	if item.Status == orderstatus.PreviewNone {
		c.JSON(http.StatusConflict, gin.H{"error": "This item does not require a design preview"})
		return
	}
	if err := orderstatus.ValidatePreviewTransition(item.Status, orderstatus.PreviewReady); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if _, err := tx.Exec(`
		UPDATE order_items
		SET preview_status = ?, preview_url = ?
		WHERE id = ?`,
		string(orderstatus.PreviewReady), input.PreviewURL, item.ItemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preview"})
		return
	}

	message := "Your design preview for order #" + strconv.FormatInt(item.OrderID, 10) + " is ready for review"
	if err := addNotification(tx, item.CustomerID, "preview_ready", message, item.OrderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify customer"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Preview uploaded, customer notified",
		"previewStatus": orderstatus.PreviewReady,
		"previewBadge":  orderstatus.GetPreviewBadge(orderstatus.PreviewReady),
	})
}

// ApprovePreview is the handler for POST /v1/orders/:orderId/items/:itemId/preview/approve.
// Customer-side: locks the design in so production can start.
func (h *Handlers) ApprovePreview(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	customerID := userIDRaw.(int64)

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	item, err := loadPreviewItem(tx, c.Param("orderId"), c.Param("itemId"))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order item"})
		return
	}
	if item.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order belongs to another customer"})
		return
	}
	if err := orderstatus.ValidatePreviewTransition(item.Status, orderstatus.PreviewApproved); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE order_items
		SET preview_status = ?, preview_approved_at = ?
		WHERE id = ?`,
		string(orderstatus.PreviewApproved), now, item.ItemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve preview"})
		return
	}

	// Tell the partner when the whole order is unblocked, not per item.
	allResolved, err := allPreviewsResolved(tx, item.OrderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check order previews"})
		return
	}
	message := "A design preview for order #" + strconv.FormatInt(item.OrderID, 10) + " was approved"
	if allResolved {
		message = "All design previews for order #" + strconv.FormatInt(item.OrderID, 10) + " are approved. You can accept the order."
	}
	if err := addNotification(tx, item.PartnerID, "preview_approved", message, item.OrderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify partner"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Preview approved",
		"previewStatus": orderstatus.PreviewApproved,
		"previewBadge":  orderstatus.GetPreviewBadge(orderstatus.PreviewApproved),
		"orderReady":    allResolved,
	})
}

// RequestRevisionInput carries the customer's feedback on a rejected proof.
type RequestRevisionInput struct {
	Feedback string `json:"feedback" binding:"required"`
}

// RequestRevision is the handler for POST /v1/orders/:orderId/items/:itemId/preview/revision.
// Sends the proof back to the partner with feedback. Revisions are unbounded.
func (h *Handlers) RequestRevision(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	customerID := userIDRaw.(int64)

	var input RequestRevisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	item, err := loadPreviewItem(tx, c.Param("orderId"), c.Param("itemId"))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order item"})
		return
	}
	if item.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order belongs to another customer"})
		return
	}
	if err := orderstatus.ValidatePreviewTransition(item.Status, orderstatus.PreviewRevisionRequested); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	// A fresh deadline for the revised proof.
	newDeadline := time.Now().Add(previewDeadlineHours * time.Hour)
	if _, err := tx.Exec(`
		UPDATE order_items
		SET preview_status = ?, preview_deadline = ?
		WHERE id = ?`,
		string(orderstatus.PreviewRevisionRequested), newDeadline, item.ItemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request revision"})
		return
	}

	message := "Revision requested on order #" + strconv.FormatInt(item.OrderID, 10) + ": " + input.Feedback
	if err := addNotification(tx, item.PartnerID, "preview_revision", message, item.OrderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify partner"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Revision requested, partner notified",
		"previewStatus": orderstatus.PreviewRevisionRequested,
		"previewBadge":  orderstatus.GetPreviewBadge(orderstatus.PreviewRevisionRequested),
	})
}

// allPreviewsResolved reports whether every preview on the order has been
// approved (items without a preview never block).
func allPreviewsResolved(tx *sql.Tx, orderID int64) (bool, error) {
	rows, err := tx.Query("SELECT preview_status FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	var statuses []orderstatus.PreviewStatus
	for rows.Next() {
		var status sql.NullString
		if err := rows.Scan(&status); err != nil {
			return false, err
		}
		statuses = append(statuses, orderstatus.PreviewStatus(status.String))
	}
	if err := rows.Err(); err != nil {
		return false, err
	}
	return orderstatus.CanAcceptOrder(statuses), nil
}
