package pricing

import (
	"errors"
	"fmt"
)

//
// --- Order Quote ---
//
// Composes the two calculators plus add-ons, platform fee and GST into the
// full checkout breakdown. Still pure: the cart and checkout views re-quote
// on every mutation.
//

// ErrAddOnMOQNotMet is returned when a selected add-on's minimum order
// quantity exceeds the item quantity it is attached to.
var ErrAddOnMOQNotMet = errors.New("pricing: add-on minimum order quantity not met")

// GSTPercent is the GST rate applied to platform and delivery charges.
const GSTPercent = 18

// PlatformFeeConfig sets the flat platform fee per order plus a percentage of
// the items subtotal.
type PlatformFeeConfig struct {
	FixedFeePaise int64   `json:"fixedFeePaise"`
	PercentFee    float64 `json:"percentFee"`
}

// NewDefaultPlatformFeeConfig returns the platform default: a flat ₹5 fee.
func NewDefaultPlatformFeeConfig() PlatformFeeConfig {
	return PlatformFeeConfig{FixedFeePaise: 500, PercentFee: 0}
}

// QuoteAddOn is one selected add-on for a quote line.
type QuoteAddOn struct {
	Name                 string `json:"name"`
	PricePaise           int64  `json:"pricePaise"`
	MinimumOrderQuantity int    `json:"minimumOrderQuantity"`
}

// QuoteItem is one product line going into a quote.
type QuoteItem struct {
	Name     string        `json:"name"`
	Quantity int           `json:"quantity"`
	Tiers    []PricingTier `json:"tiers"`
	AddOns   []QuoteAddOn  `json:"addOns,omitempty"`
}

// BreakdownLine is a single display row of a quote.
type BreakdownLine struct {
	Item        string `json:"item"`
	AmountPaise int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

// OrderQuote is the complete priced order.
type OrderQuote struct {
	ItemsSubtotalPaise int64             `json:"itemsSubtotal"`
	AddOnsTotalPaise   int64             `json:"addOnsTotal"`
	DeliveryFeePaise   int64             `json:"deliveryFee"`
	PlatformFeePaise   int64             `json:"platformFee"`
	GSTPaise           int64             `json:"gst"`
	TotalPaise         int64             `json:"total"`
	Delivery           DeliveryFeeResult `json:"delivery"`
	Breakdown          []BreakdownLine   `json:"breakdown"`
}

// CalculateOrderQuote prices a set of lines end to end. Each line's unit
// price comes from its tier table; add-ons charge per item and enforce their
// MOQ; the delivery fee is computed on the items+add-ons subtotal and scaled
// by surgeMultiplier (1.0 for standard delivery, free orders stay free); GST
// applies to the platform and delivery charges only (item prices are GST
// inclusive, as partners list them).
func CalculateOrderQuote(
	items []QuoteItem,
	distanceKm float64,
	surgeMultiplier float64,
	deliveryCfg DeliveryFeeConfig,
	platformCfg PlatformFeeConfig,
) (OrderQuote, error) {
	var quote OrderQuote

	for _, item := range items {
		result, err := CalculateTieredPrice(item.Quantity, item.Tiers)
		if err != nil {
			return OrderQuote{}, fmt.Errorf("item %q: %w", item.Name, err)
		}
		quote.ItemsSubtotalPaise += result.TotalPrice
		quote.Breakdown = append(quote.Breakdown, BreakdownLine{
			Item:        item.Name,
			AmountPaise: result.TotalPrice,
			Description: fmt.Sprintf("%d × %s", item.Quantity, FormatPrice(result.PricePerItem)),
		})

		for _, addOn := range item.AddOns {
			if item.Quantity < addOn.MinimumOrderQuantity {
				return OrderQuote{}, fmt.Errorf("%w: %q requires at least %d items", ErrAddOnMOQNotMet, addOn.Name, addOn.MinimumOrderQuantity)
			}
			total := addOn.PricePaise * int64(item.Quantity)
			quote.AddOnsTotalPaise += total
			quote.Breakdown = append(quote.Breakdown, BreakdownLine{
				Item:        addOn.Name,
				AmountPaise: total,
				Description: fmt.Sprintf("Add-on, %d × %s", item.Quantity, FormatPrice(addOn.PricePaise)),
			})
		}
	}

	subtotal := quote.ItemsSubtotalPaise + quote.AddOnsTotalPaise

	delivery, err := CalculateDeliveryFee(subtotal, distanceKm, deliveryCfg)
	if err != nil {
		return OrderQuote{}, err
	}
	if surgeMultiplier > 1.0 && !delivery.IsFree {
		delivery.FeePaise = ApplySurgeToDeliveryFee(delivery.FeePaise, surgeMultiplier)
	}
	quote.Delivery = delivery
	quote.DeliveryFeePaise = delivery.FeePaise
	if delivery.FeePaise > 0 {
		quote.Breakdown = append(quote.Breakdown, BreakdownLine{Item: "Delivery fee", AmountPaise: delivery.FeePaise})
	}

	quote.PlatformFeePaise = platformCfg.FixedFeePaise + pctOf(subtotal, platformCfg.PercentFee)
	if quote.PlatformFeePaise > 0 {
		quote.Breakdown = append(quote.Breakdown, BreakdownLine{Item: "Platform fee", AmountPaise: quote.PlatformFeePaise})
	}

	quote.GSTPaise = pctOf(quote.DeliveryFeePaise+quote.PlatformFeePaise, GSTPercent)
	if quote.GSTPaise > 0 {
		quote.Breakdown = append(quote.Breakdown, BreakdownLine{
			Item:        "GST",
			AmountPaise: quote.GSTPaise,
			Description: fmt.Sprintf("%d%% on fees", GSTPercent),
		})
	}

	quote.TotalPaise = subtotal + quote.DeliveryFeePaise + quote.PlatformFeePaise + quote.GSTPaise
	return quote, nil
}

// pctOf computes percent of an amount in paise, rounding half up.
func pctOf(amountPaise int64, percent float64) int64 {
	if percent == 0 {
		return 0
	}
	// Integer-safe for whole percents; fractional rates fall back to a
	// round through float64.
	whole := int64(percent)
	if float64(whole) == percent {
		return (amountPaise*whole + 50) / 100
	}
	return int64(float64(amountPaise)*percent/100 + 0.5)
}
