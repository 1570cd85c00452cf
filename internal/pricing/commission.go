package pricing

import (
	"math"
	"sort"
	"time"
)

//
// --- Commission Calculator ---
//
// Marketplace commission on partner orders. Rule resolution priority:
// vendor override > volume > vendor-specific > category > platform default.
// Admins adjust rules at runtime; the calculator itself stays pure.
//

// DefaultCommissionPercent applies when no rule matches an order.
const DefaultCommissionPercent = 18.0

// CommissionRuleType discriminates how a rule is matched.
type CommissionRuleType string

const (
	RuleDefault  CommissionRuleType = "default"
	RuleVendor   CommissionRuleType = "vendor"
	RuleCategory CommissionRuleType = "category"
	RuleVolume   CommissionRuleType = "volume"
)

// CommissionRule is one configurable commission entry.
type CommissionRule struct {
	ID                 string             `json:"id"`
	RuleType           CommissionRuleType `json:"ruleType"`
	VendorID           string             `json:"vendorId,omitempty"`
	Category           string             `json:"category,omitempty"`
	OrderValueMinPaise int64              `json:"orderValueMinPaise"`
	OrderValueMaxPaise *int64             `json:"orderValueMaxPaise"`
	CommissionPercent  float64            `json:"commissionPercent"`
	IsActive           bool               `json:"isActive"`
	EffectiveFrom      time.Time          `json:"effectiveFrom"`
	EffectiveUntil     *time.Time         `json:"effectiveUntil,omitempty"`
}

// VendorCommissionOverride pins a vendor to a negotiated rate, trumping every
// rule.
type VendorCommissionOverride struct {
	ID                string     `json:"id"`
	VendorID          string     `json:"vendorId"`
	CommissionPercent float64    `json:"commissionPercent"`
	Reason            string     `json:"reason,omitempty"`
	IsActive          bool       `json:"isActive"`
	EffectiveFrom     time.Time  `json:"effectiveFrom"`
	EffectiveUntil    *time.Time `json:"effectiveUntil,omitempty"`
}

// CommissionResult reports what the platform keeps and the vendor receives.
type CommissionResult struct {
	CommissionPaise   int64   `json:"commissionPaise"`
	CommissionPercent float64 `json:"commissionPercent"`
	VendorPayoutPaise int64   `json:"vendorPayoutPaise"`
	AppliedRuleID     string  `json:"appliedRuleId"`
	RuleName          string  `json:"ruleName"`
}

// CalculateCommission resolves the applicable rule for an order and splits
// the order value between platform and vendor.
func CalculateCommission(
	orderValuePaise int64,
	vendorID string,
	category string,
	now time.Time,
	rules []CommissionRule,
	overrides []VendorCommissionOverride,
) CommissionResult {
	if override, ok := findActiveVendorOverride(vendorID, now, overrides); ok {
		name := "Vendor Override"
		if override.Reason != "" {
			name = "Vendor Override: " + override.Reason
		}
		return buildCommissionResult(orderValuePaise, override.CommissionPercent, override.ID, name)
	}

	if rule, ok := findApplicableCommissionRule(orderValuePaise, vendorID, category, now, rules); ok {
		name := string(rule.RuleType) + " rule"
		return buildCommissionResult(orderValuePaise, rule.CommissionPercent, rule.ID, name)
	}

	return buildCommissionResult(orderValuePaise, DefaultCommissionPercent, "default-fallback", "Default Commission (18%)")
}

func buildCommissionResult(orderValuePaise int64, percent float64, ruleID, ruleName string) CommissionResult {
	commission := int64(math.Round(float64(orderValuePaise) * percent / 100))
	return CommissionResult{
		CommissionPaise:   commission,
		CommissionPercent: percent,
		VendorPayoutPaise: orderValuePaise - commission,
		AppliedRuleID:     ruleID,
		RuleName:          ruleName,
	}
}

// findActiveVendorOverride returns the most recently effective active
// override for the vendor, if any.
func findActiveVendorOverride(vendorID string, now time.Time, overrides []VendorCommissionOverride) (VendorCommissionOverride, bool) {
	var active []VendorCommissionOverride
	for _, o := range overrides {
		if o.VendorID != vendorID || !o.IsActive {
			continue
		}
		if o.EffectiveFrom.After(now) {
			continue
		}
		if o.EffectiveUntil != nil && !o.EffectiveUntil.After(now) {
			continue
		}
		active = append(active, o)
	}
	if len(active) == 0 {
		return VendorCommissionOverride{}, false
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].EffectiveFrom.After(active[j].EffectiveFrom)
	})
	return active[0], true
}

// rulePriority: lower sorts first.
func rulePriority(t CommissionRuleType) int {
	switch t {
	case RuleVolume:
		return 0
	case RuleVendor:
		return 1
	case RuleCategory:
		return 2
	default:
		return 3
	}
}

// findApplicableCommissionRule filters rules to those active, in their
// effective window, matching the order value range and vendor/category, then
// picks the highest-priority one.
func findApplicableCommissionRule(orderValuePaise int64, vendorID, category string, now time.Time, rules []CommissionRule) (CommissionRule, bool) {
	var matching []CommissionRule
	for _, r := range rules {
		if !r.IsActive || r.EffectiveFrom.After(now) {
			continue
		}
		if r.EffectiveUntil != nil && !r.EffectiveUntil.After(now) {
			continue
		}
		if orderValuePaise < r.OrderValueMinPaise {
			continue
		}
		if r.OrderValueMaxPaise != nil && orderValuePaise > *r.OrderValueMaxPaise {
			continue
		}
		switch r.RuleType {
		case RuleVendor:
			if r.VendorID != vendorID {
				continue
			}
		case RuleCategory:
			if r.Category != category {
				continue
			}
		}
		matching = append(matching, r)
	}
	if len(matching) == 0 {
		return CommissionRule{}, false
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return rulePriority(matching[i].RuleType) < rulePriority(matching[j].RuleType)
	})
	return matching[0], true
}
