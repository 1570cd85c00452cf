package pricing

import (
	"errors"
	"fmt"
	"math"
)

//
// --- Tiered Pricing Calculator ---
//
// Swiggy/Zomato-style bulk pricing: the per-unit price drops as the ordered
// quantity crosses tier boundaries. All amounts are integers in paise so the
// arithmetic never touches floating point.
//

// Configuration errors. The product catalog is responsible for supplying a
// tier table that covers [1, ∞); hitting one of these means bad catalog data,
// not bad user input.
var (
	ErrNoTiers          = errors.New("pricing: no pricing tiers defined for product")
	ErrNoApplicableTier = errors.New("pricing: no applicable pricing tier for quantity")
)

// Input errors. These map to a 400 at the HTTP layer.
var (
	ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")
	ErrInvalidSubtotal = errors.New("pricing: subtotal must not be negative")
	ErrInvalidDistance = errors.New("pricing: distance must not be negative")
)

// PricingTier is one quantity range of a product's tier table.
// MaxQty == nil means the range is unbounded ("100+").
type PricingTier struct {
	MinQty          int     `json:"minQty"`
	MaxQty          *int    `json:"maxQty"`
	PricePerItem    int64   `json:"pricePerItem"` // paise
	DiscountPercent float64 `json:"discountPercent"`
}

// Contains reports whether the given quantity falls inside this tier's range.
func (t PricingTier) Contains(quantity int) bool {
	if quantity < t.MinQty {
		return false
	}
	return t.MaxQty == nil || quantity <= *t.MaxQty
}

// PricingResult is the outcome of a tiered price calculation.
type PricingResult struct {
	Quantity        int         `json:"quantity"`
	PricePerItem    int64       `json:"pricePerItem"` // paise
	TotalPrice      int64       `json:"totalPrice"`   // paise
	DiscountPercent float64     `json:"discountPercent"`
	AppliedTier     PricingTier `json:"appliedTier"`
	Savings         int64       `json:"savings"` // paise, vs. the base (lowest-minQty) tier
}

// CalculateTieredPrice selects the tier covering the quantity and computes
// the per-unit and total price. Tiers are expected to be ordered by MinQty
// ascending and non-overlapping; if malformed data ever yields multiple
// matches, the first match in list order wins.
//
// The function is pure: it is safe to re-invoke on every quantity change.
func CalculateTieredPrice(quantity int, tiers []PricingTier) (PricingResult, error) {
	if len(tiers) == 0 {
		return PricingResult{}, ErrNoTiers
	}
	if quantity < 1 {
		return PricingResult{}, ErrInvalidQuantity
	}

	applied, ok := findApplicableTier(quantity, tiers)
	if !ok {
		return PricingResult{}, fmt.Errorf("%w: quantity %d", ErrNoApplicableTier, quantity)
	}

	pricePerItem := applied.PricePerItem
	totalPrice := pricePerItem * int64(quantity)

	// Savings are measured against the base tier: the tier with the smallest
	// MinQty, i.e. what a customer would pay without any bulk discount.
	base := baseTier(tiers)
	savings := (base.PricePerItem - pricePerItem) * int64(quantity)
	if savings < 0 {
		savings = 0
	}

	return PricingResult{
		Quantity:        quantity,
		PricePerItem:    pricePerItem,
		TotalPrice:      totalPrice,
		DiscountPercent: applied.DiscountPercent,
		AppliedTier:     applied,
		Savings:         savings,
	}, nil
}

// findApplicableTier returns the first tier whose range contains the quantity.
func findApplicableTier(quantity int, tiers []PricingTier) (PricingTier, bool) {
	for _, tier := range tiers {
		if tier.Contains(quantity) {
			return tier, true
		}
	}
	return PricingTier{}, false
}

// baseTier returns the tier with the smallest MinQty. With well-formed data
// that is tiers[0], but we scan so a shuffled table still yields the true
// single-unit price.
func baseTier(tiers []PricingTier) PricingTier {
	base := tiers[0]
	for _, tier := range tiers[1:] {
		if tier.MinQty < base.MinQty {
			base = tier
		}
	}
	return base
}

// TierBreakpoint is one row of the "Save X% when you order Y+" table shown on
// product pages.
type TierBreakpoint struct {
	MinQty          int     `json:"minQty"`
	MaxQty          *int    `json:"maxQty"`
	PricePerItem    int64   `json:"pricePerItem"`
	DiscountPercent float64 `json:"discountPercent"`
	SavingsMessage  string  `json:"savingsMessage,omitempty"`
}

// TierBreakpoints maps a tier table to its display rows.
func TierBreakpoints(tiers []PricingTier) []TierBreakpoint {
	breakpoints := make([]TierBreakpoint, 0, len(tiers))
	for _, tier := range tiers {
		bp := TierBreakpoint{
			MinQty:          tier.MinQty,
			MaxQty:          tier.MaxQty,
			PricePerItem:    tier.PricePerItem,
			DiscountPercent: tier.DiscountPercent,
		}
		if tier.DiscountPercent > 0 {
			bp.SavingsMessage = fmt.Sprintf("Save %g%% on orders of %d+ items", tier.DiscountPercent, tier.MinQty)
		}
		breakpoints = append(breakpoints, bp)
	}
	return breakpoints
}

// NextTierInfo describes the upsell nudge: "Add N more items to unlock X% discount!".
type NextTierInfo struct {
	HasNextTier    bool         `json:"hasNextTier"`
	NextTier       *PricingTier `json:"nextTier,omitempty"`
	QuantityNeeded int          `json:"quantityNeeded,omitempty"`
	Message        string       `json:"message,omitempty"`
}

// GetNextTierInfo finds the next tier with a deeper discount than the one the
// current quantity sits in. Returns ok=false when the quantity matches no tier.
func GetNextTierInfo(currentQuantity int, tiers []PricingTier) (NextTierInfo, bool) {
	current, ok := findApplicableTier(currentQuantity, tiers)
	if !ok {
		return NextTierInfo{}, false
	}

	for i := range tiers {
		tier := tiers[i]
		if tier.MinQty > currentQuantity && tier.DiscountPercent > current.DiscountPercent {
			needed := tier.MinQty - currentQuantity
			plural := ""
			if needed > 1 {
				plural = "s"
			}
			return NextTierInfo{
				HasNextTier:    true,
				NextTier:       &tiers[i],
				QuantityNeeded: needed,
				Message:        fmt.Sprintf("Add %d more item%s to unlock %g%% discount!", needed, plural, tier.DiscountPercent),
			}, true
		}
	}

	return NextTierInfo{HasNextTier: false}, true
}

// ValidateTiers checks a partner-supplied tier table: the first tier must
// start at quantity 1, ranges must be contiguous and non-overlapping, prices
// must be positive and non-increasing across tiers. Returns all problems
// found rather than stopping at the first.
func ValidateTiers(tiers []PricingTier) []string {
	if len(tiers) == 0 {
		return []string{"at least one pricing tier is required"}
	}

	var errs []string
	if tiers[0].MinQty != 1 {
		errs = append(errs, "first pricing tier must start at quantity 1")
	}

	for i, tier := range tiers {
		if tier.PricePerItem <= 0 {
			errs = append(errs, fmt.Sprintf("tier %d: price must be greater than 0", i+1))
		}
		if tier.MaxQty != nil && *tier.MaxQty < tier.MinQty {
			errs = append(errs, fmt.Sprintf("tier %d: max quantity must not be below min quantity", i+1))
		}

		if i == len(tiers)-1 {
			continue
		}
		next := tiers[i+1]
		if tier.MaxQty == nil {
			errs = append(errs, fmt.Sprintf("tier %d: only the last tier may be unbounded", i+1))
		} else if next.MinQty != *tier.MaxQty+1 {
			errs = append(errs, fmt.Sprintf("gap or overlap between tier %d and tier %d", i+1, i+2))
		}
		if next.PricePerItem >= tier.PricePerItem {
			errs = append(errs, fmt.Sprintf("tier %d: price should be lower than the previous tier", i+2))
		}
	}

	return errs
}

// DefaultTiers builds the standard four-tier table used when a partner lists
// a product without configuring custom tiers: 1-9 at base price, 10-49 at 7%
// off, 50-99 at 13% off, 100+ at 20% off.
func DefaultTiers(basePricePaise int64) []PricingTier {
	return []PricingTier{
		{MinQty: 1, MaxQty: intPtr(9), PricePerItem: basePricePaise, DiscountPercent: 0},
		{MinQty: 10, MaxQty: intPtr(49), PricePerItem: roundPct(basePricePaise, 0.93), DiscountPercent: 7},
		{MinQty: 50, MaxQty: intPtr(99), PricePerItem: roundPct(basePricePaise, 0.87), DiscountPercent: 13},
		{MinQty: 100, MaxQty: nil, PricePerItem: roundPct(basePricePaise, 0.80), DiscountPercent: 20},
	}
}

func roundPct(paise int64, factor float64) int64 {
	return int64(math.Round(float64(paise) * factor))
}

func intPtr(v int) *int { return &v }
