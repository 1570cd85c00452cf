package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/models"
)

//
// --- Notification Handlers ---
//

// addNotification inserts a notification inside a caller-owned transaction so
// the notification commits or rolls back with the action that caused it.
// orderID links the notification to the order detail page; pass 0 for none.
func addNotification(tx *sql.Tx, userID int64, kind, message string, orderID int64) error {
	var link *string
	if orderID > 0 {
		l := "/orders/" + strconv.FormatInt(orderID, 10)
		link = &l
	}
	_, err := tx.Exec(`
		INSERT INTO notifications (user_id, kind, message, link, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		userID, kind, message, link, time.Now())
	return err
}

// GetMyNotifications is the handler for GET /v1/notifications.
func (h *Handlers) GetMyNotifications(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	rows, err := h.DB.Query(`
		SELECT id, user_id, kind, message, link, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 100`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	notifications := []models.Notification{}
	unread := 0
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan notification row"})
			return
		}
		if !n.IsRead {
			unread++
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating notification rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

// MarkNotificationAsRead is the handler for PUT /v1/notifications/:id/read.
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)
	notificationID := c.Param("id")

	result, err := h.DB.Exec(
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?",
		notificationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
