package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleTier(pricePaise int64) []PricingTier {
	return []PricingTier{{MinQty: 1, MaxQty: nil, PricePerItem: pricePaise}}
}

func TestCalculateOrderQuote(t *testing.T) {
	deliveryCfg := NewDefaultDeliveryFeeConfig()
	platformCfg := NewDefaultPlatformFeeConfig()

	t.Run("single line with fees and GST", func(t *testing.T) {
		items := []QuoteItem{{Name: "Photo Frame", Quantity: 3, Tiers: singleTier(10000)}}

		quote, err := CalculateOrderQuote(items, 0, 1.0, deliveryCfg, platformCfg)
		require.NoError(t, err)

		assert.Equal(t, int64(30000), quote.ItemsSubtotalPaise)
		assert.Equal(t, int64(8000), quote.DeliveryFeePaise) // first value tier
		assert.Equal(t, int64(500), quote.PlatformFeePaise)
		// 18% of the ₹85 in fees.
		assert.Equal(t, int64(1530), quote.GSTPaise)
		assert.Equal(t, int64(30000+8000+500+1530), quote.TotalPaise)
	})

	t.Run("add-ons charge per item", func(t *testing.T) {
		items := []QuoteItem{{
			Name:     "Mug",
			Quantity: 10,
			Tiers:    singleTier(20000),
			AddOns: []QuoteAddOn{
				{Name: "Gift wrap", PricePaise: 2500, MinimumOrderQuantity: 1},
			},
		}}

		quote, err := CalculateOrderQuote(items, 0, 1.0, deliveryCfg, platformCfg)
		require.NoError(t, err)

		assert.Equal(t, int64(200000), quote.ItemsSubtotalPaise)
		assert.Equal(t, int64(25000), quote.AddOnsTotalPaise)
		// ₹2,250 subtotal lands in the second value tier.
		assert.Equal(t, int64(5000), quote.DeliveryFeePaise)
	})

	t.Run("add-on MOQ is enforced", func(t *testing.T) {
		items := []QuoteItem{{
			Name:     "Mug",
			Quantity: 3,
			Tiers:    singleTier(20000),
			AddOns: []QuoteAddOn{
				{Name: "Engraving", PricePaise: 5000, MinimumOrderQuantity: 5},
			},
		}}

		_, err := CalculateOrderQuote(items, 0, 1.0, deliveryCfg, platformCfg)
		assert.ErrorIs(t, err, ErrAddOnMOQNotMet)
	})

	t.Run("surge scales the delivery fee and its GST", func(t *testing.T) {
		items := []QuoteItem{{Name: "Photo Frame", Quantity: 3, Tiers: singleTier(10000)}}

		quote, err := CalculateOrderQuote(items, 0, 1.5, deliveryCfg, platformCfg)
		require.NoError(t, err)

		assert.Equal(t, int64(12000), quote.DeliveryFeePaise)
		assert.Equal(t, int64(2250), quote.GSTPaise) // 18% of ₹125
		assert.Equal(t, int64(30000+12000+500+2250), quote.TotalPaise)
	})

	t.Run("free delivery stays free under surge", func(t *testing.T) {
		items := []QuoteItem{{Name: "Hamper", Quantity: 5, Tiers: singleTier(100000)}}

		quote, err := CalculateOrderQuote(items, 0, 2.0, deliveryCfg, platformCfg)
		require.NoError(t, err)

		assert.True(t, quote.Delivery.IsFree)
		assert.Equal(t, int64(0), quote.DeliveryFeePaise)
		assert.Equal(t, int64(90), quote.GSTPaise) // 18% of the ₹5 platform fee
		assert.Equal(t, int64(500000+500+90), quote.TotalPaise)
	})

	t.Run("breakdown lines sum to the total", func(t *testing.T) {
		items := []QuoteItem{
			{Name: "Mug", Quantity: 10, Tiers: bulkMugTiers()},
			{
				Name:     "Candle",
				Quantity: 2,
				Tiers:    singleTier(40000),
				AddOns:   []QuoteAddOn{{Name: "Gift wrap", PricePaise: 2500, MinimumOrderQuantity: 1}},
			},
		}

		quote, err := CalculateOrderQuote(items, 12, 1.0, deliveryCfg, platformCfg)
		require.NoError(t, err)

		var sum int64
		for _, line := range quote.Breakdown {
			sum += line.AmountPaise
		}
		assert.Equal(t, quote.TotalPaise, sum)
	})

	t.Run("a bad line fails the whole quote", func(t *testing.T) {
		items := []QuoteItem{{Name: "Broken", Quantity: 1, Tiers: nil}}
		_, err := CalculateOrderQuote(items, 0, 1.0, deliveryCfg, platformCfg)
		assert.ErrorIs(t, err, ErrNoTiers)
	})
}
