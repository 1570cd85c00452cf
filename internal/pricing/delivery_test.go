package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDeliveryFee(t *testing.T) {
	// A flat-fee config with no value tiers, the simplest shape admins can
	// configure: ₹80 below the ₹500 free threshold.
	flatConfig := DeliveryFeeConfig{
		BaseFeePaise:               8000,
		FreeDeliveryThresholdPaise: 50000,
	}

	t.Run("below threshold charges the base fee", func(t *testing.T) {
		result, err := CalculateDeliveryFee(30000, 0, flatConfig)
		require.NoError(t, err)

		assert.False(t, result.IsFree)
		assert.Equal(t, int64(8000), result.FeePaise)
		assert.Equal(t, int64(20000), result.AmountNeededForFreePaise)
	})

	t.Run("exactly at threshold is free", func(t *testing.T) {
		result, err := CalculateDeliveryFee(50000, 0, flatConfig)
		require.NoError(t, err)

		assert.True(t, result.IsFree)
		assert.Equal(t, int64(0), result.FeePaise)
		assert.Equal(t, int64(0), result.AmountNeededForFreePaise)
	})

	t.Run("value tiers step the fee down as the order grows", func(t *testing.T) {
		config := NewDefaultDeliveryFeeConfig()
		for _, tc := range []struct {
			subtotal int64
			wantFee  int64
		}{
			{50000, 8000},   // ₹500 order: ₹80
			{99900, 8000},   // last paisa of the first tier
			{100000, 5000},  // ₹1,000: ₹50
			{250000, 3000},  // ₹2,500: ₹30
			{499900, 3000},  // just under free
			{500000, 0},     // free
			{2500000, 0},    // way past free
		} {
			result, err := CalculateDeliveryFee(tc.subtotal, 0, config)
			require.NoError(t, err, "subtotal %d", tc.subtotal)
			assert.Equal(t, tc.wantFee, result.FeePaise, "subtotal %d", tc.subtotal)
		}
	})

	t.Run("distance bands add a surcharge", func(t *testing.T) {
		config := NewDefaultDeliveryFeeConfig()
		for _, tc := range []struct {
			distanceKm float64
			wantFee    int64
		}{
			{0, 8000},      // doorstep
			{5, 8000},      // still nearby
			{5.1, 11000},   // +₹30
			{10, 11000},
			{15, 15000},    // +₹70
			{20, 15000},
			{35, 23000},    // +₹150
		} {
			result, err := CalculateDeliveryFee(50000, tc.distanceKm, config)
			require.NoError(t, err, "distance %v", tc.distanceKm)
			assert.Equal(t, tc.wantFee, result.FeePaise, "distance %v", tc.distanceKm)
		}
	})

	t.Run("free delivery ignores distance", func(t *testing.T) {
		result, err := CalculateDeliveryFee(600000, 35, NewDefaultDeliveryFeeConfig())
		require.NoError(t, err)
		assert.True(t, result.IsFree)
		assert.Equal(t, int64(0), result.FeePaise)
	})

	t.Run("input validation", func(t *testing.T) {
		_, err := CalculateDeliveryFee(-1, 0, flatConfig)
		assert.ErrorIs(t, err, ErrInvalidSubtotal)

		_, err = CalculateDeliveryFee(1000, -2, flatConfig)
		assert.ErrorIs(t, err, ErrInvalidDistance)
	})
}

func TestDeliveryFeeMessage(t *testing.T) {
	config := NewDefaultDeliveryFeeConfig()

	free, err := CalculateDeliveryFee(500000, 0, config)
	require.NoError(t, err)
	assert.Equal(t, "FREE delivery!", DeliveryFeeMessage(free))

	nearlyFree, err := CalculateDeliveryFee(450000, 0, config)
	require.NoError(t, err)
	assert.Equal(t, "Add ₹500 more for FREE delivery", DeliveryFeeMessage(nearlyFree))

	farFromFree, err := CalculateDeliveryFee(30000, 0, config)
	require.NoError(t, err)
	assert.Equal(t, "₹80 delivery fee", DeliveryFeeMessage(farFromFree))
}

func TestDeliveryTimeEstimate(t *testing.T) {
	t.Run("bands", func(t *testing.T) {
		assert.Equal(t, "2-3 days", DeliveryTimeEstimate(5, 3, false))
		assert.Equal(t, "3-5 days", DeliveryTimeEstimate(25, 3, false))
		assert.Equal(t, "5-7 days", DeliveryTimeEstimate(75, 3, false))
		assert.Equal(t, "7-10 days", DeliveryTimeEstimate(500, 3, false))
	})

	t.Run("customization adds the preview round-trip", func(t *testing.T) {
		assert.Equal(t, "4-6 days", DeliveryTimeEstimate(5, 3, true))
	})

	t.Run("long distance adds a day", func(t *testing.T) {
		assert.Equal(t, "3-4 days", DeliveryTimeEstimate(5, 25, false))
	})

	t.Run("estimate never shrinks as quantity grows", func(t *testing.T) {
		var prevMin, prevMax int
		for quantity := 1; quantity <= 250; quantity++ {
			var minDays, maxDays int
			_, err := fmt.Sscanf(DeliveryTimeEstimate(quantity, 3, false), "%d-%d days", &minDays, &maxDays)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, minDays, prevMin, "quantity %d", quantity)
			assert.GreaterOrEqual(t, maxDays, prevMax, "quantity %d", quantity)
			prevMin, prevMax = minDays, maxDays
		}
	})
}

func TestGetDeliveryFeeBreakdown(t *testing.T) {
	config := NewDefaultDeliveryFeeConfig()

	t.Run("mid-ladder position", func(t *testing.T) {
		breakdown, err := GetDeliveryFeeBreakdown(150000, config)
		require.NoError(t, err)

		assert.False(t, breakdown.IsFree)
		assert.Equal(t, int64(5000), breakdown.CurrentFeePaise)
		assert.Equal(t, 1, breakdown.CurrentTierIndex)
		assert.Equal(t, int64(100000), breakdown.AmountToNextTierPaise)
		assert.Equal(t, int64(350000), breakdown.AmountToFreePaise)
	})

	t.Run("free order", func(t *testing.T) {
		breakdown, err := GetDeliveryFeeBreakdown(500000, config)
		require.NoError(t, err)

		assert.True(t, breakdown.IsFree)
		assert.Equal(t, int64(0), breakdown.CurrentFeePaise)
	})

	t.Run("last tier steps to free", func(t *testing.T) {
		breakdown, err := GetDeliveryFeeBreakdown(400000, config)
		require.NoError(t, err)

		assert.Equal(t, 2, breakdown.CurrentTierIndex)
		assert.Equal(t, breakdown.AmountToFreePaise, breakdown.AmountToNextTierPaise)
	})

	t.Run("negative subtotal rejected", func(t *testing.T) {
		_, err := GetDeliveryFeeBreakdown(-1, config)
		assert.ErrorIs(t, err, ErrInvalidSubtotal)
	})
}
