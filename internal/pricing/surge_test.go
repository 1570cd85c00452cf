package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Calendar anchors: 2 Mar 2026 is a Monday.
func mondayAt(hour int) time.Time {
	return time.Date(2026, time.March, 2, hour, 0, 0, 0, time.UTC)
}

func TestCalculateSurgeMultiplier(t *testing.T) {
	t.Run("calm weekday morning has no surge", func(t *testing.T) {
		m := CalculateSurgeMultiplier(SurgeParams{At: mondayAt(10)})
		assert.Equal(t, 1.0, m)
	})

	t.Run("lunch and evening peaks", func(t *testing.T) {
		assert.Equal(t, 1.5, CalculateSurgeMultiplier(SurgeParams{At: mondayAt(13)}))
		assert.Equal(t, 1.5, CalculateSurgeMultiplier(SurgeParams{At: mondayAt(19)}))
		assert.Equal(t, 1.0, CalculateSurgeMultiplier(SurgeParams{At: mondayAt(15)}))
	})

	t.Run("weekend", func(t *testing.T) {
		saturday := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, 1.4, CalculateSurgeMultiplier(SurgeParams{At: saturday}))
	})

	t.Run("friday evening", func(t *testing.T) {
		fridayLate := time.Date(2026, time.March, 6, 23, 0, 0, 0, time.UTC)
		// Past the peak window but still Friday night.
		assert.Equal(t, 1.3, CalculateSurgeMultiplier(SurgeParams{At: fridayLate}))
	})

	t.Run("bad weather compounds", func(t *testing.T) {
		m := CalculateSurgeMultiplier(SurgeParams{At: mondayAt(10), Weather: "rain"})
		assert.Equal(t, 1.5, m)

		peakAndRain := CalculateSurgeMultiplier(SurgeParams{At: mondayAt(13), Weather: "rain"})
		assert.InDelta(t, 2.25, peakAndRain, 0.0001)
	})

	t.Run("high demand compounds", func(t *testing.T) {
		m := CalculateSurgeMultiplier(SurgeParams{At: mondayAt(10), Demand: 90})
		assert.InDelta(t, 1.2, m, 0.0001)

		everything := CalculateSurgeMultiplier(SurgeParams{At: mondayAt(13), Weather: "extreme_heat", Demand: 95})
		assert.InDelta(t, 2.7, everything, 0.0001)
	})

	t.Run("demand at the boundary does not trigger", func(t *testing.T) {
		m := CalculateSurgeMultiplier(SurgeParams{At: mondayAt(10), Demand: 80})
		assert.Equal(t, 1.0, m)
	})

	t.Run("never exceeds the cap", func(t *testing.T) {
		saturday := time.Date(2026, time.March, 7, 19, 0, 0, 0, time.UTC)
		m := CalculateSurgeMultiplier(SurgeParams{At: saturday, Weather: "rain", Demand: 100})
		assert.LessOrEqual(t, m, 5.0)
		assert.GreaterOrEqual(t, m, 1.0)
	})
}

func TestApplySurgeToDeliveryFee(t *testing.T) {
	assert.Equal(t, int64(8000), ApplySurgeToDeliveryFee(8000, 1.0))
	assert.Equal(t, int64(12000), ApplySurgeToDeliveryFee(8000, 1.5))
	assert.Equal(t, int64(10400), ApplySurgeToDeliveryFee(8000, 1.3))
	// Rounds to the nearest paisa.
	assert.Equal(t, int64(133), ApplySurgeToDeliveryFee(111, 1.2))
}

func TestSurgeReason(t *testing.T) {
	t.Run("empty when no surge", func(t *testing.T) {
		params := SurgeParams{At: mondayAt(10)}
		assert.Empty(t, SurgeReason(params, 1.0))
	})

	t.Run("lists the contributing factors", func(t *testing.T) {
		params := SurgeParams{At: mondayAt(13), Weather: "rain", Demand: 90}
		assert.Equal(t, "Peak hours + Rain + High demand", SurgeReason(params, 2.7))
	})

	t.Run("weekend-only surge has a generic reason", func(t *testing.T) {
		saturday := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, "Surge pricing applied", SurgeReason(SurgeParams{At: saturday}, 1.4))
	})
}
