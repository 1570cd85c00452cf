package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

//
// --- Price Quote Handlers ---
//

// QuoteRequestItem is one line of a quote request.
type QuoteRequestItem struct {
	ProductID int64   `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	AddOnIDs  []int64 `json:"addOnIds,omitempty"`
}

// QuoteInput is the JSON body for POST /v1/quote. Express delivery applies
// the current surge multiplier to the delivery fee.
type QuoteInput struct {
	Items      []QuoteRequestItem `json:"items" binding:"required,min=1,dive"`
	DistanceKm float64            `json:"distanceKm" binding:"gte=0"`
	Express    bool               `json:"express"`
}

// currentSurge resolves the express-delivery surge multiplier and its
// explanation from the clock plus the admin-maintained conditions.
func (h *Handlers) currentSurge() (float64, string) {
	conditions := h.loadSurgeConditions()
	params := pricing.SurgeParams{
		At:      time.Now(),
		Weather: conditions.Weather,
		Demand:  conditions.Demand,
	}
	multiplier := pricing.CalculateSurgeMultiplier(params)
	return multiplier, pricing.SurgeReason(params, multiplier)
}

// GetQuote is the handler for POST /v1/quote. Public: prices a prospective
// order server-side so the storefront never does money math in the browser.
func (h *Handlers) GetQuote(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Build Quote Lines from the Catalog ---
	quoteItems, maxQty, anyCustomizable, err := h.buildQuoteItems(input.Items)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "One or more products are unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	// 3. --- Price It ---
	surgeMultiplier := 1.0
	surgeReason := ""
	if input.Express {
		surgeMultiplier, surgeReason = h.currentSurge()
	}
	quote, err := pricing.CalculateOrderQuote(quoteItems, input.DistanceKm, surgeMultiplier, h.loadDeliveryFeeConfig(), h.loadPlatformFeeConfig())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"quote":            quote,
		"deliveryMessage":  pricing.DeliveryFeeMessage(quote.Delivery),
		"deliveryEstimate": pricing.DeliveryTimeEstimate(maxQty, input.DistanceKm, anyCustomizable),
		"formattedTotal":   pricing.FormatPrice(quote.TotalPaise),
	}
	if input.Express {
		response["surgeMultiplier"] = surgeMultiplier
		if surgeReason != "" {
			response["surgeReason"] = surgeReason
		}
	}
	c.JSON(http.StatusOK, response)
}

// buildQuoteItems resolves product IDs to priced quote lines. It reports the
// largest line quantity and whether any line is customizable, which drive the
// delivery estimate.
func (h *Handlers) buildQuoteItems(items []QuoteRequestItem) ([]pricing.QuoteItem, int, bool, error) {
	quoteItems := make([]pricing.QuoteItem, 0, len(items))
	maxQty := 0
	anyCustomizable := false

	for _, reqItem := range items {
		query := "SELECT" + productColumns + " FROM products WHERE id = ? AND status = 'approved' AND is_active = 1"
		product, err := scanProduct(h.DB.QueryRow(query, reqItem.ProductID))
		if err != nil {
			return nil, 0, false, err
		}

		quoteItem := pricing.QuoteItem{
			Name:     product.Name,
			Quantity: reqItem.Quantity,
			Tiers:    product.TieredPricing,
		}

		if len(reqItem.AddOnIDs) > 0 {
			addOns, err := h.loadAddOns(product.ID)
			if err != nil {
				return nil, 0, false, err
			}
			for _, wantID := range reqItem.AddOnIDs {
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
		if reqItem.Quantity > maxQty {
			maxQty = reqItem.Quantity
		}
		if product.IsCustomizable {
			anyCustomizable = true
		}
	}

	return quoteItems, maxQty, anyCustomizable, nil
}

// GetProductQuote is the handler for GET /v1/products/:id/quote?quantity=N.
// A lighter single-product view for the product page quantity selector.
func (h *Handlers) GetProductQuote(c *gin.Context) {
	productID := c.Param("id")

	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A positive quantity query parameter is required"})
		return
	}

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

	result, err := pricing.CalculateTieredPrice(quantity, product.TieredPricing)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"pricing":          result,
		"formattedTotal":   pricing.FormatPrice(result.TotalPrice),
		"formattedPerItem": pricing.FormatPrice(result.PricePerItem),
		"deliveryEstimate": pricing.DeliveryTimeEstimate(quantity, 5, product.IsCustomizable),
	}
	if nextTier, ok := pricing.GetNextTierInfo(quantity, product.TieredPricing); ok {
		response["nextTier"] = nextTier
	}

	c.JSON(http.StatusOK, response)
}
