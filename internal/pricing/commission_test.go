package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCommission(t *testing.T) {
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	t.Run("default fallback", func(t *testing.T) {
		result := CalculateCommission(100000, "42", "mugs", now, nil, nil)

		assert.Equal(t, int64(18000), result.CommissionPaise)
		assert.Equal(t, 18.0, result.CommissionPercent)
		assert.Equal(t, int64(82000), result.VendorPayoutPaise)
		assert.Equal(t, "default-fallback", result.AppliedRuleID)
	})

	t.Run("vendor override trumps every rule", func(t *testing.T) {
		rules := []CommissionRule{{
			ID: "vendor-rule", RuleType: RuleVendor, VendorID: "42",
			CommissionPercent: 15, IsActive: true, EffectiveFrom: yesterday,
		}}
		overrides := []VendorCommissionOverride{{
			ID: "negotiated", VendorID: "42", CommissionPercent: 10,
			Reason: "Launch partner", IsActive: true, EffectiveFrom: yesterday,
		}}

		result := CalculateCommission(100000, "42", "mugs", now, rules, overrides)

		assert.Equal(t, int64(10000), result.CommissionPaise)
		assert.Equal(t, "negotiated", result.AppliedRuleID)
		assert.Equal(t, "Vendor Override: Launch partner", result.RuleName)
	})

	t.Run("override for another vendor is ignored", func(t *testing.T) {
		overrides := []VendorCommissionOverride{{
			ID: "other", VendorID: "99", CommissionPercent: 5,
			IsActive: true, EffectiveFrom: yesterday,
		}}

		result := CalculateCommission(100000, "42", "mugs", now, nil, overrides)
		assert.Equal(t, 18.0, result.CommissionPercent)
	})

	t.Run("expired override is ignored", func(t *testing.T) {
		overrides := []VendorCommissionOverride{{
			ID: "expired", VendorID: "42", CommissionPercent: 5,
			IsActive: true, EffectiveFrom: lastWeek, EffectiveUntil: &yesterday,
		}}

		result := CalculateCommission(100000, "42", "mugs", now, nil, overrides)
		assert.Equal(t, 18.0, result.CommissionPercent)
	})

	t.Run("latest of several active overrides wins", func(t *testing.T) {
		overrides := []VendorCommissionOverride{
			{ID: "old", VendorID: "42", CommissionPercent: 12, IsActive: true, EffectiveFrom: lastWeek},
			{ID: "new", VendorID: "42", CommissionPercent: 8, IsActive: true, EffectiveFrom: yesterday},
		}

		result := CalculateCommission(100000, "42", "mugs", now, nil, overrides)
		assert.Equal(t, "new", result.AppliedRuleID)
		assert.Equal(t, 8.0, result.CommissionPercent)
	})

	t.Run("volume rule beats vendor rule", func(t *testing.T) {
		rules := []CommissionRule{
			{
				ID: "vendor-rule", RuleType: RuleVendor, VendorID: "42",
				CommissionPercent: 15, IsActive: true, EffectiveFrom: yesterday,
			},
			{
				ID: "bulk-discount", RuleType: RuleVolume, OrderValueMinPaise: 50000,
				CommissionPercent: 12, IsActive: true, EffectiveFrom: yesterday,
			},
		}

		result := CalculateCommission(100000, "42", "mugs", now, rules, nil)
		assert.Equal(t, "bulk-discount", result.AppliedRuleID)
		assert.Equal(t, 12.0, result.CommissionPercent)
	})

	t.Run("vendor rule beats category rule", func(t *testing.T) {
		rules := []CommissionRule{
			{
				ID: "mugs-rate", RuleType: RuleCategory, Category: "mugs",
				CommissionPercent: 20, IsActive: true, EffectiveFrom: yesterday,
			},
			{
				ID: "vendor-rule", RuleType: RuleVendor, VendorID: "42",
				CommissionPercent: 15, IsActive: true, EffectiveFrom: yesterday,
			},
		}

		result := CalculateCommission(100000, "42", "mugs", now, rules, nil)
		assert.Equal(t, "vendor-rule", result.AppliedRuleID)
	})

	t.Run("order value range gates volume rules", func(t *testing.T) {
		max := int64(50000)
		rules := []CommissionRule{{
			ID: "small-orders", RuleType: RuleVolume, OrderValueMinPaise: 0, OrderValueMaxPaise: &max,
			CommissionPercent: 25, IsActive: true, EffectiveFrom: yesterday,
		}}

		inRange := CalculateCommission(40000, "42", "mugs", now, rules, nil)
		assert.Equal(t, "small-orders", inRange.AppliedRuleID)

		outOfRange := CalculateCommission(100000, "42", "mugs", now, rules, nil)
		assert.Equal(t, "default-fallback", outOfRange.AppliedRuleID)
	})

	t.Run("inactive and future rules are skipped", func(t *testing.T) {
		tomorrow := now.Add(24 * time.Hour)
		rules := []CommissionRule{
			{ID: "off", RuleType: RuleVolume, CommissionPercent: 1, IsActive: false, EffectiveFrom: lastWeek},
			{ID: "future", RuleType: RuleVolume, CommissionPercent: 2, IsActive: true, EffectiveFrom: tomorrow},
		}

		result := CalculateCommission(100000, "42", "mugs", now, rules, nil)
		assert.Equal(t, "default-fallback", result.AppliedRuleID)
	})

	t.Run("commission rounds to the nearest paisa", func(t *testing.T) {
		rules := []CommissionRule{{
			ID: "odd-rate", RuleType: RuleVolume, CommissionPercent: 12.5,
			IsActive: true, EffectiveFrom: yesterday,
		}}

		result := CalculateCommission(999, "42", "mugs", now, rules, nil)
		assert.Equal(t, int64(125), result.CommissionPaise) // 124.875 rounds up
		assert.Equal(t, int64(999-125), result.VendorPayoutPaise)
	})
}
