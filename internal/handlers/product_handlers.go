package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/wyshkit/wyshkit-golang/internal/models"
	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

//
// --- Product Handlers ---
//

// CreateProductInput defines the JSON for creating a product listing.
type CreateProductInput struct {
	Name            string                `json:"name" binding:"required"`
	Description     string                `json:"description" binding:"required"`
	ShortDesc       string                `json:"shortDesc,omitempty"`
	ListingType     string                `json:"listingType" binding:"required,oneof=individual hamper service"`
	Category        string                `json:"category" binding:"required"`
	SKU             string                `json:"sku,omitempty"`
	BasePricePaise  int64                 `json:"basePricePaise,omitempty"`
	TieredPricing   []pricing.PricingTier `json:"tieredPricing,omitempty"`
	StockAvailable  int                   `json:"stockAvailable" binding:"gte=0"`
	IsMadeToOrder   bool                  `json:"isMadeToOrder"`
	IsCustomizable  bool                  `json:"isCustomizable"`
	PreviewRequired bool                  `json:"previewRequired"`
	Images          []string              `json:"images,omitempty"`
	WhatsIncluded   []string              `json:"whatsIncluded,omitempty"`
	AddOns          []AddOnInput          `json:"addOns,omitempty"`
}

// AddOnInput defines one add-on attached at product creation.
type AddOnInput struct {
	Name                 string `json:"name" binding:"required"`
	Description          string `json:"description,omitempty"`
	PricePaise           int64  `json:"pricePaise" binding:"required,gt=0"`
	MinimumOrderQuantity int    `json:"minimumOrderQuantity" binding:"gte=0"`
	RequiresProof        bool   `json:"requiresProof"`
}

// CreateProduct is the handler for POST /v1/partner/products.
// New listings start as 'pending_review' until an admin approves them.
func (h *Handlers) CreateProduct(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)

	// 1. --- Bind & Validate JSON ---
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Resolve the Tier Table ---
	// A partner either supplies explicit tiers or a base price from which
	// we build the standard discount ladder.
	tiers := input.TieredPricing
	if len(tiers) == 0 {
		if input.BasePricePaise <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Either tieredPricing or basePricePaise is required"})
			return
		}
		tiers = pricing.DefaultTiers(input.BasePricePaise)
	}
	if problems := pricing.ValidateTiers(tiers); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pricing tiers", "details": problems})
		return
	}

	// Preview-required listings must be customizable, otherwise there is
	// nothing to preview.
	if input.PreviewRequired && !input.IsCustomizable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "previewRequired is only valid for customizable products"})
		return
	}

	tiersJSON, err := json.Marshal(tiers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode pricing tiers"})
		return
	}
	imagesJSON, _ := json.Marshal(input.Images)
	includedJSON, _ := json.Marshal(input.WhatsIncluded)

	// 3. --- Insert Product + Add-ons in One Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	now := time.Now()
	var sku *string
	if input.SKU != "" {
		sku = &input.SKU
	}
	var shortDesc *string
	if input.ShortDesc != "" {
		shortDesc = &input.ShortDesc
	}

	productQuery := `
		INSERT INTO products
		(partner_id, sku, slug, name, description, short_desc, listing_type, category,
		 tiered_pricing, stock_available, is_made_to_order, is_customizable, preview_required,
		 status, is_active, images, whats_included, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending_review', 1, ?, ?, ?, ?)`
	result, err := tx.Exec(productQuery,
		partnerID, sku, slug.Make(input.Name), input.Name, input.Description, shortDesc,
		input.ListingType, input.Category, tiersJSON, input.StockAvailable,
		input.IsMadeToOrder, input.IsCustomizable, input.PreviewRequired,
		imagesJSON, includedJSON, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	productID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read new product ID"})
		return
	}

	addOnQuery := `
		INSERT INTO product_add_ons
		(product_id, name, description, price_paise, minimum_order_quantity, requires_proof, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`
	for _, addOn := range input.AddOns {
		var desc *string
		if addOn.Description != "" {
			desc = &addOn.Description
		}
		if _, err := tx.Exec(addOnQuery, productID, addOn.Name, desc, addOn.PricePaise, addOn.MinimumOrderQuantity, addOn.RequiresProof, now, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save product add-on"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product submitted for review",
		"productId": productID,
		"status":    "pending_review",
	})
}

// productColumns is the shared SELECT list for scanProduct.
const productColumns = `
	id, partner_id, sku, slug, name, description, short_desc, listing_type, category,
	tiered_pricing, stock_available, is_made_to_order, is_customizable, preview_required,
	status, rejection_reason, is_active, images, whats_included, created_at, updated_at`

// scanProduct scans one product row, decoding the JSON columns.
func scanProduct(row interface{ Scan(dest ...interface{}) error }) (*models.Product, error) {
	var p models.Product
	var tiersJSON, imagesJSON, includedJSON []byte
	if err := row.Scan(
		&p.ID, &p.PartnerID, &p.SKU, &p.Slug, &p.Name, &p.Description, &p.ShortDesc,
		&p.ListingType, &p.Category, &tiersJSON, &p.StockAvailable, &p.IsMadeToOrder,
		&p.IsCustomizable, &p.PreviewRequired, &p.Status, &p.RejectionReason, &p.IsActive,
		&imagesJSON, &includedJSON, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tiersJSON, &p.TieredPricing); err != nil {
		return nil, err
	}
	// Media columns may be NULL on legacy rows; that just means no images.
	_ = json.Unmarshal(imagesJSON, &p.Images)
	_ = json.Unmarshal(includedJSON, &p.WhatsIncluded)
	return &p, nil
}

// loadAddOns fetches the active add-ons for a product.
func (h *Handlers) loadAddOns(productID int64) ([]models.ProductAddOn, error) {
	query := `
		SELECT id, product_id, name, description, price_paise, minimum_order_quantity, requires_proof, is_active, created_at, updated_at
		FROM product_add_ons
		WHERE product_id = ? AND is_active = 1
		ORDER BY id ASC`
	rows, err := h.DB.Query(query, productID)
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

// GetProduct is the handler for GET /v1/products/:id.
// Public: returns the product with its tier breakpoints and add-ons.
func (h *Handlers) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	query := "SELECT" + productColumns + " FROM products WHERE id = ? AND status = 'approved' AND is_active = 1"
	product, err := scanProduct(h.DB.QueryRow(query, productID))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	addOns, err := h.loadAddOns(product.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product add-ons"})
		return
	}
	product.AddOns = addOns

	c.JSON(http.StatusOK, gin.H{
		"product":          product,
		"tierBreakpoints":  pricing.TierBreakpoints(product.TieredPricing),
		"deliveryEstimate": pricing.DeliveryTimeEstimate(1, 5, product.IsCustomizable),
	})
}

// SearchProducts is the handler for GET /v1/products/search.
// Public: filters approved, active listings by name and category.
func (h *Handlers) SearchProducts(c *gin.Context) {
	search := c.Query("q")
	category := c.Query("category")

	query := "SELECT" + productColumns + " FROM products WHERE status = 'approved' AND is_active = 1"
	args := []interface{}{}
	if search != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+search+"%")
	}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC LIMIT 50"

	rows, err := h.DB.Query(query, args...)
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

// GetMyProducts is the handler for GET /v1/partner/products.
func (h *Handlers) GetMyProducts(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)

	query := "SELECT" + productColumns + " FROM products WHERE partner_id = ? ORDER BY created_at DESC"
	rows, err := h.DB.Query(query, partnerID)
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

// UpdateProductInput defines the JSON for updating a listing. Only the
// supplied fields change; pricing edits re-enter review.
type UpdateProductInput struct {
	Name           *string               `json:"name,omitempty"`
	Description    *string               `json:"description,omitempty"`
	TieredPricing  []pricing.PricingTier `json:"tieredPricing,omitempty"`
	StockAvailable *int                  `json:"stockAvailable,omitempty"`
	IsActive       *bool                 `json:"isActive,omitempty"`
}

// UpdateProduct is the handler for PUT /v1/partner/products/:id.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)
	productID := c.Param("id")

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Build the SET clause from whichever fields were supplied.
	set := "updated_at = ?"
	args := []interface{}{time.Now()}

	if input.Name != nil {
		set += ", name = ?, slug = ?"
		args = append(args, *input.Name, slug.Make(*input.Name))
	}
	if input.Description != nil {
		set += ", description = ?"
		args = append(args, *input.Description)
	}
	if input.TieredPricing != nil {
		if problems := pricing.ValidateTiers(input.TieredPricing); len(problems) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pricing tiers", "details": problems})
			return
		}
		tiersJSON, err := json.Marshal(input.TieredPricing)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode pricing tiers"})
			return
		}
		// Pricing changes go back through review.
		set += ", tiered_pricing = ?, status = 'pending_review'"
		args = append(args, tiersJSON)
	}
	if input.StockAvailable != nil {
		set += ", stock_available = ?"
		args = append(args, *input.StockAvailable)
	}
	if input.IsActive != nil {
		set += ", is_active = ?"
		args = append(args, *input.IsActive)
	}

	args = append(args, productID, partnerID)
	result, err := h.DB.Exec("UPDATE products SET "+set+" WHERE id = ? AND partner_id = ?", args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or you do not own it"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeleteProduct is the handler for DELETE /v1/partner/products/:id.
// Listings are soft-deleted so existing orders keep their references.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	partnerID := userIDRaw.(int64)
	productID := c.Param("id")

	result, err := h.DB.Exec(
		"UPDATE products SET is_active = 0, updated_at = ? WHERE id = ? AND partner_id = ?",
		time.Now(), productID, partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or you do not own it"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from the catalog"})
}
