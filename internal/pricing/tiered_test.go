package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bulkMugTiers is the standard example table: ₹200 each, ₹180 from 50 and
// ₹150 from 200 units.
func bulkMugTiers() []PricingTier {
	return []PricingTier{
		{MinQty: 1, MaxQty: intPtr(49), PricePerItem: 20000, DiscountPercent: 0},
		{MinQty: 50, MaxQty: intPtr(199), PricePerItem: 18000, DiscountPercent: 10},
		{MinQty: 200, MaxQty: nil, PricePerItem: 15000, DiscountPercent: 25},
	}
}

func TestCalculateTieredPrice(t *testing.T) {
	t.Run("selects the covering tier", func(t *testing.T) {
		result, err := CalculateTieredPrice(75, bulkMugTiers())
		require.NoError(t, err)

		assert.Equal(t, int64(18000), result.PricePerItem)
		assert.Equal(t, int64(75*18000), result.TotalPrice)
		assert.Equal(t, 10.0, result.DiscountPercent)
		assert.Equal(t, 50, result.AppliedTier.MinQty)
	})

	t.Run("single unbounded tier has zero savings", func(t *testing.T) {
		tiers := []PricingTier{{MinQty: 1, MaxQty: nil, PricePerItem: 50000}}
		result, err := CalculateTieredPrice(1, tiers)
		require.NoError(t, err)

		assert.Equal(t, int64(50000), result.PricePerItem)
		assert.Equal(t, int64(0), result.Savings)
	})

	t.Run("savings measured against the base tier", func(t *testing.T) {
		result, err := CalculateTieredPrice(200, bulkMugTiers())
		require.NoError(t, err)

		// 200 units at ₹150 instead of ₹200: ₹50 saved per unit.
		assert.Equal(t, int64(200*(20000-15000)), result.Savings)
	})

	t.Run("boundary quantities land in the right tier", func(t *testing.T) {
		for _, tc := range []struct {
			quantity  int
			wantPrice int64
		}{
			{1, 20000},
			{49, 20000},
			{50, 18000},
			{199, 18000},
			{200, 15000},
			{100000, 15000},
		} {
			result, err := CalculateTieredPrice(tc.quantity, bulkMugTiers())
			require.NoError(t, err, "quantity %d", tc.quantity)
			assert.Equal(t, tc.wantPrice, result.PricePerItem, "quantity %d", tc.quantity)
		}
	})

	t.Run("unit price never increases with quantity", func(t *testing.T) {
		prev := int64(1<<62 - 1)
		for quantity := 1; quantity <= 300; quantity++ {
			result, err := CalculateTieredPrice(quantity, bulkMugTiers())
			require.NoError(t, err)
			assert.LessOrEqual(t, result.PricePerItem, prev, "quantity %d", quantity)
			prev = result.PricePerItem
		}
	})

	t.Run("error cases", func(t *testing.T) {
		_, err := CalculateTieredPrice(5, nil)
		assert.ErrorIs(t, err, ErrNoTiers)

		_, err = CalculateTieredPrice(0, bulkMugTiers())
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		gapped := []PricingTier{{MinQty: 10, MaxQty: intPtr(20), PricePerItem: 10000}}
		_, err = CalculateTieredPrice(5, gapped)
		assert.ErrorIs(t, err, ErrNoApplicableTier)
	})

	t.Run("first match wins on malformed overlapping tiers", func(t *testing.T) {
		overlapping := []PricingTier{
			{MinQty: 1, MaxQty: intPtr(100), PricePerItem: 20000},
			{MinQty: 50, MaxQty: intPtr(200), PricePerItem: 18000},
		}
		result, err := CalculateTieredPrice(75, overlapping)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), result.PricePerItem)
	})
}

func TestGetNextTierInfo(t *testing.T) {
	t.Run("nudges toward the next discount", func(t *testing.T) {
		info, ok := GetNextTierInfo(45, bulkMugTiers())
		require.True(t, ok)
		require.True(t, info.HasNextTier)

		assert.Equal(t, 5, info.QuantityNeeded)
		assert.Equal(t, "Add 5 more items to unlock 10% discount!", info.Message)
	})

	t.Run("singular item wording", func(t *testing.T) {
		info, ok := GetNextTierInfo(49, bulkMugTiers())
		require.True(t, ok)
		assert.Equal(t, "Add 1 more item to unlock 10% discount!", info.Message)
	})

	t.Run("top tier has no next", func(t *testing.T) {
		info, ok := GetNextTierInfo(500, bulkMugTiers())
		require.True(t, ok)
		assert.False(t, info.HasNextTier)
	})

	t.Run("uncovered quantity reports not ok", func(t *testing.T) {
		gapped := []PricingTier{{MinQty: 10, MaxQty: nil, PricePerItem: 10000}}
		_, ok := GetNextTierInfo(5, gapped)
		assert.False(t, ok)
	})
}

func TestTierBreakpoints(t *testing.T) {
	breakpoints := TierBreakpoints(bulkMugTiers())
	require.Len(t, breakpoints, 3)

	assert.Empty(t, breakpoints[0].SavingsMessage)
	assert.Equal(t, "Save 10% on orders of 50+ items", breakpoints[1].SavingsMessage)
	assert.Equal(t, "Save 25% on orders of 200+ items", breakpoints[2].SavingsMessage)
}

func TestValidateTiers(t *testing.T) {
	t.Run("well-formed table passes", func(t *testing.T) {
		assert.Empty(t, ValidateTiers(bulkMugTiers()))
	})

	t.Run("empty table", func(t *testing.T) {
		problems := ValidateTiers(nil)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "at least one pricing tier")
	})

	t.Run("collects every problem", func(t *testing.T) {
		bad := []PricingTier{
			{MinQty: 2, MaxQty: intPtr(10), PricePerItem: 0},
			{MinQty: 15, MaxQty: nil, PricePerItem: 20000},
		}
		problems := ValidateTiers(bad)

		assert.Contains(t, problems, "first pricing tier must start at quantity 1")
		assert.Contains(t, problems, "tier 1: price must be greater than 0")
		assert.Contains(t, problems, "gap or overlap between tier 1 and tier 2")
		assert.Contains(t, problems, "tier 2: price should be lower than the previous tier")
	})

	t.Run("only the last tier may be unbounded", func(t *testing.T) {
		bad := []PricingTier{
			{MinQty: 1, MaxQty: nil, PricePerItem: 20000},
			{MinQty: 50, MaxQty: nil, PricePerItem: 18000},
		}
		problems := ValidateTiers(bad)
		assert.Contains(t, problems, "tier 1: only the last tier may be unbounded")
	})
}

func TestDefaultTiers(t *testing.T) {
	tiers := DefaultTiers(20000)

	require.Empty(t, ValidateTiers(tiers))
	require.Len(t, tiers, 4)

	assert.Equal(t, int64(20000), tiers[0].PricePerItem)
	assert.Equal(t, int64(18600), tiers[1].PricePerItem) // 7% off
	assert.Equal(t, int64(17400), tiers[2].PricePerItem) // 13% off
	assert.Equal(t, int64(16000), tiers[3].PricePerItem) // 20% off
	assert.Nil(t, tiers[3].MaxQty)
}
