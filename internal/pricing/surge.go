package pricing

import (
	"math"
	"strings"
	"time"
)

//
// --- Surge Pricing ---
//
// Multiplies the delivery fee during peak demand. Factors: time of day,
// weekends, weather and live demand. The multiplier is capped at 5.0x.
//

// SurgeParams carries everything the multiplier depends on.
type SurgeParams struct {
	At      time.Time
	Weather string // "rain", "extreme_heat" or empty
	Demand  int    // 0-100, percentage of courier capacity in use
}

const maxSurgeMultiplier = 5.0

// CalculateSurgeMultiplier returns a multiplier in [1.0, 5.0].
func CalculateSurgeMultiplier(params SurgeParams) float64 {
	multiplier := 1.0

	hour := params.At.Hour()
	if isPeakHour(hour) {
		multiplier = math.Max(multiplier, 1.5)
	}

	day := params.At.Weekday()
	if day == time.Friday && hour >= 18 {
		multiplier = math.Max(multiplier, 1.3)
	} else if day == time.Saturday || day == time.Sunday {
		multiplier = math.Max(multiplier, 1.4)
	}

	if params.Weather == "rain" || params.Weather == "extreme_heat" {
		multiplier = math.Min(multiplier*1.5, 3.0)
	}

	if params.Demand > 80 {
		multiplier = math.Min(multiplier*1.2, maxSurgeMultiplier)
	}

	return math.Min(multiplier, maxSurgeMultiplier)
}

// Peak hours: lunch (12-2 PM) and evening gifting rush (6-10 PM).
func isPeakHour(hour int) bool {
	return (hour >= 12 && hour < 14) || (hour >= 18 && hour < 22)
}

// ApplySurgeToDeliveryFee scales a delivery fee by the surge multiplier,
// rounding to the nearest paisa.
func ApplySurgeToDeliveryFee(feePaise int64, multiplier float64) int64 {
	return int64(math.Round(float64(feePaise) * multiplier))
}

// SurgeReason renders the human-readable explanation shown next to a surged
// fee. Empty when no surge applies.
func SurgeReason(params SurgeParams, multiplier float64) string {
	if multiplier <= 1.0 {
		return ""
	}

	var reasons []string
	if isPeakHour(params.At.Hour()) {
		reasons = append(reasons, "Peak hours")
	}
	switch params.Weather {
	case "rain":
		reasons = append(reasons, "Rain")
	case "extreme_heat":
		reasons = append(reasons, "Extreme heat")
	}
	if params.Demand > 80 {
		reasons = append(reasons, "High demand")
	}

	if len(reasons) == 0 {
		return "Surge pricing applied"
	}
	return strings.Join(reasons, " + ")
}
