package pricing

import "fmt"

//
// --- Delivery Fee Calculator ---
//
// "Add ₹X more for FREE delivery!" mechanics. The fee comes from an
// order-value tier table plus a distance surcharge band; orders at or above
// the free-delivery threshold always ship free.
//

// ValueTier maps an order-value range (paise) to a flat delivery fee.
// MaxValuePaise == nil means the range is unbounded.
type ValueTier struct {
	MinValuePaise int64  `json:"minValuePaise"`
	MaxValuePaise *int64 `json:"maxValuePaise"`
	FeePaise      int64  `json:"feePaise"`
}

// DistanceBand maps a delivery distance range (km) to an additive surcharge.
// MaxKm == nil means the band is unbounded.
type DistanceBand struct {
	MinKm          float64  `json:"minKm"`
	MaxKm          *float64 `json:"maxKm"`
	SurchargePaise int64    `json:"surchargePaise"`
}

// DeliveryFeeConfig is immutable for the duration of a calculation.
// BaseFeePaise is the flat fallback fee charged when no value tier matches
// (or when the config carries no value tiers at all).
type DeliveryFeeConfig struct {
	BaseFeePaise               int64          `json:"baseFeePaise"`
	FreeDeliveryThresholdPaise int64          `json:"freeDeliveryThresholdPaise"`
	ValueTiers                 []ValueTier    `json:"valueTiers,omitempty"`
	DistanceBands              []DistanceBand `json:"distanceBands,omitempty"`
}

// DeliveryFeeResult is the outcome of a delivery fee calculation.
type DeliveryFeeResult struct {
	FeePaise                 int64 `json:"fee"`
	IsFree                   bool  `json:"isFree"`
	AmountNeededForFreePaise int64 `json:"amountNeededForFree"`
}

// NewDefaultDeliveryFeeConfig returns the platform defaults: free delivery
// from ₹5,000, value tiers of ₹80 (below ₹1,000), ₹50 (₹1,000-2,499) and
// ₹30 (₹2,500-4,999), plus distance surcharges of ₹30 past 5km, ₹70 past
// 10km and ₹150 past 20km.
func NewDefaultDeliveryFeeConfig() DeliveryFeeConfig {
	return DeliveryFeeConfig{
		BaseFeePaise:               5000,
		FreeDeliveryThresholdPaise: 500000,
		ValueTiers: []ValueTier{
			{MinValuePaise: 0, MaxValuePaise: int64Ptr(99900), FeePaise: 8000},
			{MinValuePaise: 100000, MaxValuePaise: int64Ptr(249900), FeePaise: 5000},
			{MinValuePaise: 250000, MaxValuePaise: int64Ptr(499900), FeePaise: 3000},
		},
		DistanceBands: []DistanceBand{
			{MinKm: 0, MaxKm: float64Ptr(5), SurchargePaise: 0},
			{MinKm: 5, MaxKm: float64Ptr(10), SurchargePaise: 3000},
			{MinKm: 10, MaxKm: float64Ptr(20), SurchargePaise: 7000},
			{MinKm: 20, MaxKm: nil, SurchargePaise: 15000},
		},
	}
}

// CalculateDeliveryFee computes the delivery fee for a cart subtotal and
// delivery distance. Deterministic and side-effect free; call sites recompute
// it on every cart mutation.
func CalculateDeliveryFee(subtotalPaise int64, distanceKm float64, config DeliveryFeeConfig) (DeliveryFeeResult, error) {
	if subtotalPaise < 0 {
		return DeliveryFeeResult{}, ErrInvalidSubtotal
	}
	if distanceKm < 0 {
		return DeliveryFeeResult{}, ErrInvalidDistance
	}

	if subtotalPaise >= config.FreeDeliveryThresholdPaise {
		return DeliveryFeeResult{FeePaise: 0, IsFree: true, AmountNeededForFreePaise: 0}, nil
	}

	fee := config.BaseFeePaise
	for _, tier := range config.ValueTiers {
		if subtotalPaise >= tier.MinValuePaise && (tier.MaxValuePaise == nil || subtotalPaise <= *tier.MaxValuePaise) {
			fee = tier.FeePaise
			break
		}
	}
	fee += distanceSurcharge(distanceKm, config.DistanceBands)

	return DeliveryFeeResult{
		FeePaise:                 fee,
		IsFree:                   false,
		AmountNeededForFreePaise: config.FreeDeliveryThresholdPaise - subtotalPaise,
	}, nil
}

// distanceSurcharge returns the surcharge for the band containing distanceKm.
// Bands are half-open (min, max]: a 5km delivery still counts as nearby.
func distanceSurcharge(distanceKm float64, bands []DistanceBand) int64 {
	for _, band := range bands {
		if distanceKm > band.MinKm && (band.MaxKm == nil || distanceKm <= *band.MaxKm) {
			return band.SurchargePaise
		}
		if distanceKm == 0 && band.MinKm == 0 {
			return band.SurchargePaise
		}
	}
	return 0
}

// nearFreeThresholdPaise controls when the banner switches from stating the
// fee to nudging the customer toward free delivery (within ₹1,000 of it).
const nearFreeThresholdPaise = 100000

// DeliveryFeeMessage maps a fee result to the customer-facing banner string.
func DeliveryFeeMessage(result DeliveryFeeResult) string {
	if result.IsFree {
		return "FREE delivery!"
	}
	if result.AmountNeededForFreePaise > 0 && result.AmountNeededForFreePaise <= nearFreeThresholdPaise {
		return fmt.Sprintf("Add %s more for FREE delivery", FormatPrice(result.AmountNeededForFreePaise))
	}
	return fmt.Sprintf("%s delivery fee", FormatPrice(result.FeePaise))
}

// DeliveryTimeEstimate maps quantity, distance and the customization flag to
// a stated ETA band. Larger orders, customization (which adds a preview
// approval round-trip) and long distances only ever push the band out, never
// in.
func DeliveryTimeEstimate(quantity int, distanceKm float64, isCustomizable bool) string {
	var minDays, maxDays int
	switch {
	case quantity <= 9:
		minDays, maxDays = 2, 3
	case quantity <= 49:
		minDays, maxDays = 3, 5
	case quantity <= 199:
		minDays, maxDays = 5, 7
	default:
		minDays, maxDays = 7, 10
	}

	if isCustomizable {
		minDays += 2
		maxDays += 3
	}
	if distanceKm > 20 {
		minDays++
		maxDays++
	}

	return fmt.Sprintf("%d-%d days", minDays, maxDays)
}

// DeliveryFeeBreakdown shows the full tier ladder plus where the current cart
// sits on it, for the progressive-disclosure banner.
type DeliveryFeeBreakdown struct {
	CurrentFeePaise        int64       `json:"currentFee"`
	IsFree                 bool        `json:"isFree"`
	AmountToNextTierPaise  int64       `json:"amountToNextTier"`
	AmountToFreePaise      int64       `json:"amountToFree"`
	Tiers                  []ValueTier `json:"tiers"`
	CurrentTierIndex       int         `json:"currentTierIndex"` // -1 when free or no tier matches
	FreeThresholdPaise     int64       `json:"freeThreshold"`
}

// GetDeliveryFeeBreakdown computes the ladder view for a subtotal. Distance
// surcharges are excluded here; the ladder is about order value only.
func GetDeliveryFeeBreakdown(subtotalPaise int64, config DeliveryFeeConfig) (DeliveryFeeBreakdown, error) {
	if subtotalPaise < 0 {
		return DeliveryFeeBreakdown{}, ErrInvalidSubtotal
	}

	breakdown := DeliveryFeeBreakdown{
		Tiers:              config.ValueTiers,
		CurrentTierIndex:   -1,
		FreeThresholdPaise: config.FreeDeliveryThresholdPaise,
	}

	if subtotalPaise >= config.FreeDeliveryThresholdPaise {
		breakdown.IsFree = true
		return breakdown, nil
	}

	breakdown.CurrentFeePaise = config.BaseFeePaise
	breakdown.AmountToFreePaise = config.FreeDeliveryThresholdPaise - subtotalPaise
	breakdown.AmountToNextTierPaise = breakdown.AmountToFreePaise

	for i, tier := range config.ValueTiers {
		if subtotalPaise >= tier.MinValuePaise && (tier.MaxValuePaise == nil || subtotalPaise <= *tier.MaxValuePaise) {
			breakdown.CurrentFeePaise = tier.FeePaise
			breakdown.CurrentTierIndex = i
			if i+1 < len(config.ValueTiers) {
				breakdown.AmountToNextTierPaise = config.ValueTiers[i+1].MinValuePaise - subtotalPaise
			}
			break
		}
	}

	return breakdown, nil
}

func int64Ptr(v int64) *int64     { return &v }
func float64Ptr(v float64) *float64 { return &v }
