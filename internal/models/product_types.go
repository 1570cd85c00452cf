package models

import (
	"time"

	"github.com/wyshkit/wyshkit-golang/internal/pricing"
)

// ListingType distinguishes the three product shapes on the platform.
const (
	ListingIndividual = "individual"
	ListingHamper     = "hamper"
	ListingService    = "service"
)

// Product is the model for the 'products' table.
// Nullable columns use pointers for clean JSON serialization.
type Product struct {
	ID          int64   `json:"id" db:"id"`
	PartnerID   int64   `json:"partnerId" db:"partner_id"`
	SKU         *string `json:"sku,omitempty" db:"sku"`
	Slug        string  `json:"slug" db:"slug"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	ShortDesc   *string `json:"shortDesc,omitempty" db:"short_desc"`
	ListingType string  `json:"listingType" db:"listing_type"`
	Category    string  `json:"category" db:"category"`

	// --- Pricing & Stock ---
	// The tier table is stored as a JSON column and feeds the tiered
	// pricing calculator directly.
	TieredPricing  []pricing.PricingTier `json:"tieredPricing"`
	StockAvailable int                   `json:"stockAvailable" db:"stock_available"`
	IsMadeToOrder  bool                  `json:"isMadeToOrder" db:"is_made_to_order"`

	// --- Customization / preview flow ---
	IsCustomizable  bool `json:"isCustomizable" db:"is_customizable"`
	PreviewRequired bool `json:"previewRequired" db:"preview_required"`

	// --- Moderation ---
	Status          string  `json:"status" db:"status"` // pending_review, approved, rejected, changes_requested
	RejectionReason *string `json:"rejectionReason,omitempty" db:"rejection_reason"`
	IsActive        bool    `json:"isActive" db:"is_active"`

	// --- Media & Content ---
	Images        []string `json:"images"`
	WhatsIncluded []string `json:"whatsIncluded"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (not in the products table, populated manually)
	AddOns      []ProductAddOn `json:"addOns,omitempty" db:"-"`
	PartnerName string         `json:"partnerName,omitempty" db:"-"`
}

// ProductAddOn is the model for the 'product_add_ons' table.
// Add-ons are priced per item and may carry a minimum order quantity (MOQ)
// before they unlock.
type ProductAddOn struct {
	ID                   int64     `json:"id" db:"id"`
	ProductID            int64     `json:"productId" db:"product_id"`
	Name                 string    `json:"name" db:"name"`
	Description          *string   `json:"description,omitempty" db:"description"`
	PricePaise           int64     `json:"pricePaise" db:"price_paise"`
	MinimumOrderQuantity int       `json:"minimumOrderQuantity" db:"minimum_order_quantity"`
	RequiresProof        bool      `json:"requiresProof" db:"requires_proof"`
	IsActive             bool      `json:"isActive" db:"is_active"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time `json:"updatedAt" db:"updated_at"`
}
