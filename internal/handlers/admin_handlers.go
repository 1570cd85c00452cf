package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyshkit/wyshkit-golang/internal/models"
	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

//
// --- Admin Handlers ---
//

// GetPendingPartners is the handler for GET /v1/admin/partners/pending.
func (h *Handlers) GetPendingPartners(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, email, full_name, phone_number, store_name, created_at
		FROM users
		WHERE role = ? AND status = 'pending'
		ORDER BY created_at ASC`, models.RolePartner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	partners := []gin.H{}
	for rows.Next() {
		var id int64
		var email, fullName, phone string
		var storeName *string
		var createdAt time.Time
		if err := rows.Scan(&id, &email, &fullName, &phone, &storeName, &createdAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan partner row"})
			return
		}
		partners = append(partners, gin.H{
			"id": id, "email": email, "fullName": fullName,
			"phoneNumber": phone, "storeName": storeName, "createdAt": createdAt,
		})
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating partner rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

// setUserStatus moves one user between account statuses.
func (h *Handlers) setUserStatus(c *gin.Context, userID, status, successMessage string) {
	result, err := h.DB.Exec("UPDATE users SET status = ?, updated_at = ? WHERE id = ?", status, time.Now(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": successMessage})
}

// ApprovePartner is the handler for PUT /v1/admin/partners/:id/approve.
func (h *Handlers) ApprovePartner(c *gin.Context) {
	h.setUserStatus(c, c.Param("id"), "active", "Partner account activated")
}

// SuspendUser is the handler for PUT /v1/admin/users/:id/suspend.
func (h *Handlers) SuspendUser(c *gin.Context) {
	h.setUserStatus(c, c.Param("id"), "suspended", "User account suspended")
}

//
// --- Product Moderation ---
//

// GetPendingProducts is the handler for GET /v1/admin/products/pending.
func (h *Handlers) GetPendingProducts(c *gin.Context) {
	query := "SELECT" + productColumns + " FROM products WHERE status = 'pending_review' ORDER BY created_at ASC"
	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product row"})
			return
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating product rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ApproveProduct is the handler for PUT /v1/admin/products/:id/approve.
// Tiers get a final validation pass here so nothing broken reaches the
// storefront even if a partner edit slipped through.
func (h *Handlers) ApproveProduct(c *gin.Context) {
	productID := c.Param("id")

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	query := "SELECT" + productColumns + " FROM products WHERE id = ? AND status = 'pending_review' FOR UPDATE"
	product, err := scanProduct(tx.QueryRow(query, productID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending product with this ID"})
		return
	}
	if problems := pricing.ValidateTiers(product.TieredPricing); len(problems) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Product pricing tiers are invalid", "details": problems})
		return
	}

	if _, err := tx.Exec(
		"UPDATE products SET status = 'approved', rejection_reason = NULL, updated_at = ? WHERE id = ?",
		time.Now(), product.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve product"})
		return
	}

	message := "Your product \"" + product.Name + "\" is now live"
	if err := addNotification(tx, product.PartnerID, "product_approved", message, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify partner"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product approved"})
}

// RejectProductInput is the JSON body for product rejection.
type RejectProductInput struct {
	Reason string `json:"reason" binding:"required"`
	// When true the partner may fix and resubmit; otherwise the listing is
	// rejected outright.
	AllowResubmission bool `json:"allowResubmission"`
}

// RejectProduct is the handler for PUT /v1/admin/products/:id/reject.
func (h *Handlers) RejectProduct(c *gin.Context) {
	productID := c.Param("id")

	var input RejectProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := "rejected"
	if input.AllowResubmission {
		status = "changes_requested"
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var partnerID int64
	var name string
	err = tx.QueryRow("SELECT partner_id, name FROM products WHERE id = ? AND status = 'pending_review' FOR UPDATE", productID).Scan(&partnerID, &name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending product with this ID"})
		return
	}

	if _, err := tx.Exec(
		"UPDATE products SET status = ?, rejection_reason = ?, updated_at = ? WHERE id = ?",
		status, input.Reason, time.Now(), productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject product"})
		return
	}

	message := "Your product \"" + name + "\" was not approved: " + input.Reason
	if err := addNotification(tx, partnerID, "product_rejected", message, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify partner"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product " + status, "status": status})
}

//
// --- Fee Configuration ---
//

// GetFeeSettings is the handler for GET /v1/admin/settings/fees.
func (h *Handlers) GetFeeSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"deliveryFeeConfig": h.loadDeliveryFeeConfig(),
		"platformFeeConfig": h.loadPlatformFeeConfig(),
	})
}

// UpdateDeliveryFeeSettings is the handler for PUT /v1/admin/settings/delivery-fees.
func (h *Handlers) UpdateDeliveryFeeSettings(c *gin.Context) {
	var config pricing.DeliveryFeeConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if config.BaseFeePaise < 0 || config.FreeDeliveryThresholdPaise <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Base fee must be non-negative and the free threshold positive"})
		return
	}

	if err := saveSettingJSON(h.DB, settingDeliveryFeeConfig, config); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save delivery fee settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery fee settings updated", "deliveryFeeConfig": config})
}

// UpdatePlatformFeeSettings is the handler for PUT /v1/admin/settings/platform-fees.
func (h *Handlers) UpdatePlatformFeeSettings(c *gin.Context) {
	var config pricing.PlatformFeeConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if config.FixedFeePaise < 0 || config.PercentFee < 0 || config.PercentFee > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Platform fee values are out of range"})
		return
	}

	if err := saveSettingJSON(h.DB, settingPlatformFeeConfig, config); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save platform fee settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Platform fee settings updated", "platformFeeConfig": config})
}

// UpdateSurgeConditions is the handler for PUT /v1/admin/settings/surge.
// Keeps the live courier conditions current for express delivery pricing.
func (h *Handlers) UpdateSurgeConditions(c *gin.Context) {
	var conditions SurgeConditions
	if err := c.ShouldBindJSON(&conditions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if conditions.Demand < 0 || conditions.Demand > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "demand must be between 0 and 100"})
		return
	}
	if conditions.Weather != "" && conditions.Weather != "rain" && conditions.Weather != "extreme_heat" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weather must be empty, \"rain\" or \"extreme_heat\""})
		return
	}

	if err := saveSettingJSON(h.DB, settingSurgeConditions, conditions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save surge conditions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Surge conditions updated", "surgeConditions": conditions})
}

//
// --- Commission Rules ---
//

// CreateCommissionRuleInput is the JSON body for a new commission rule.
type CreateCommissionRuleInput struct {
	RuleType           string     `json:"ruleType" binding:"required,oneof=default vendor category volume"`
	VendorID           string     `json:"vendorId,omitempty"`
	Category           string     `json:"category,omitempty"`
	OrderValueMinPaise int64      `json:"orderValueMinPaise" binding:"gte=0"`
	OrderValueMaxPaise *int64     `json:"orderValueMaxPaise,omitempty"`
	CommissionPercent  float64    `json:"commissionPercent" binding:"required,gte=0,lte=100"`
	EffectiveFrom      *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveUntil     *time.Time `json:"effectiveUntil,omitempty"`
}

// CreateCommissionRule is the handler for POST /v1/admin/commission-rules.
func (h *Handlers) CreateCommissionRule(c *gin.Context) {
	var input CreateCommissionRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.RuleType == string(pricing.RuleVendor) && input.VendorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vendorId is required for vendor rules"})
		return
	}
	if input.RuleType == string(pricing.RuleCategory) && input.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required for category rules"})
		return
	}
	if input.OrderValueMaxPaise != nil && *input.OrderValueMaxPaise < input.OrderValueMinPaise {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderValueMaxPaise must be at least orderValueMinPaise"})
		return
	}

	effectiveFrom := time.Now()
	if input.EffectiveFrom != nil {
		effectiveFrom = *input.EffectiveFrom
	}

	ruleID := uuid.NewString()
	_, err := h.DB.Exec(`
		INSERT INTO commission_rules
		(id, rule_type, vendor_id, category, order_value_min_paise, order_value_max_paise,
		 commission_percent, is_active, effective_from, effective_until, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		ruleID, input.RuleType, nullIfEmpty(input.VendorID), nullIfEmpty(input.Category),
		input.OrderValueMinPaise, input.OrderValueMaxPaise, input.CommissionPercent,
		effectiveFrom, input.EffectiveUntil, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create commission rule"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Commission rule created", "ruleId": ruleID})
}

// DeactivateCommissionRule is the handler for PUT /v1/admin/commission-rules/:id/deactivate.
func (h *Handlers) DeactivateCommissionRule(c *gin.Context) {
	result, err := h.DB.Exec("UPDATE commission_rules SET is_active = 0 WHERE id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate commission rule"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commission rule not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commission rule deactivated"})
}

// CreateVendorOverrideInput is the JSON body for a negotiated vendor rate.
type CreateVendorOverrideInput struct {
	VendorID          string     `json:"vendorId" binding:"required"`
	CommissionPercent float64    `json:"commissionPercent" binding:"required,gte=0,lte=100"`
	Reason            string     `json:"reason,omitempty"`
	EffectiveFrom     *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveUntil    *time.Time `json:"effectiveUntil,omitempty"`
}

// CreateVendorCommissionOverride is the handler for POST /v1/admin/commission-overrides.
func (h *Handlers) CreateVendorCommissionOverride(c *gin.Context) {
	var input CreateVendorOverrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	effectiveFrom := time.Now()
	if input.EffectiveFrom != nil {
		effectiveFrom = *input.EffectiveFrom
	}

	overrideID := uuid.NewString()
	_, err := h.DB.Exec(`
		INSERT INTO vendor_commission_overrides
		(id, vendor_id, commission_percent, reason, is_active, effective_from, effective_until, created_at)
		VALUES (?, ?, ?, ?, 1, ?, ?, ?)`,
		overrideID, input.VendorID, input.CommissionPercent, nullIfEmpty(input.Reason),
		effectiveFrom, input.EffectiveUntil, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vendor override"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vendor commission override created", "overrideId": overrideID})
}

// PreviewCommissionInput lets an admin dry-run the rule resolution for an
// order value without placing an order.
type PreviewCommissionInput struct {
	OrderValuePaise int64  `json:"orderValuePaise" binding:"required,gt=0"`
	VendorID        string `json:"vendorId" binding:"required"`
	Category        string `json:"category,omitempty"`
}

// PreviewCommission is the handler for POST /v1/admin/commission-preview.
func (h *Handlers) PreviewCommission(c *gin.Context) {
	var input PreviewCommissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rules, overrides, err := h.loadCommissionRules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load commission configuration"})
		return
	}

	result := pricing.CalculateCommission(input.OrderValuePaise, input.VendorID, input.Category, time.Now(), rules, overrides)
	c.JSON(http.StatusOK, gin.H{
		"commission":          result,
		"formattedCommission": pricing.FormatPrice(result.CommissionPaise),
		"formattedPayout":     pricing.FormatPrice(result.VendorPayoutPaise),
	})
}

//
// --- Maintenance Mode ---
//

// SetMaintenanceModeInput toggles the platform-wide maintenance switch.
type SetMaintenanceModeInput struct {
	Enabled bool `json:"enabled"`
}

// SetMaintenanceMode is the handler for PUT /v1/admin/settings/maintenance.
func (h *Handlers) SetMaintenanceMode(c *gin.Context) {
	var input SetMaintenanceModeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The auth middleware reads this raw, so the value is the bare string
	// "true"/"false", not JSON like the fee configs.
	value := strconv.FormatBool(input.Enabled)
	_, err := h.DB.Exec(`
		INSERT INTO settings (setting_key, setting_value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`,
		settingMaintenanceMode, value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance mode"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode set to " + value})
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
