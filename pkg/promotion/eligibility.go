package promotion

import (
	"strings"

	"github.com/shopspring/decimal"
)

// IsEligible reports whether rule applies to the customer and cart. Usage caps
// are not part of eligibility.
func IsEligible(rule Rule, customer Customer, cart []CartLine, subtotal decimal.Decimal) bool {
	return ineligibility(rule, customer, subtotal) == ReasonNone && matchesProducts(rule, cart)
}

// ineligibility returns the first customer or amount condition the rule fails.
func ineligibility(rule Rule, customer Customer, subtotal decimal.Decimal) Reason {
	if len(rule.Segments) > 0 && !containsFold(rule.Segments, customer.Segment) {
		return ReasonWrongSegment
	}
	if rule.Conditions.FirstPurchaseOnly && !customer.IsFirstPurchase {
		return ReasonFirstPurchaseOnly
	}
	if rule.Conditions.MinAmount != nil && subtotal.LessThan(*rule.Conditions.MinAmount) {
		return ReasonBelowMinimum
	}
	return ReasonNone
}

func matchesProducts(rule Rule, cart []CartLine) bool {
	if len(rule.Conditions.IncludedProducts) == 0 {
		return true
	}
	for _, line := range cart {
		if containsFold(rule.Conditions.IncludedProducts, line.Category) ||
			containsFold(rule.Conditions.IncludedProducts, line.Name) {
			return true
		}
	}
	return false
}

func containsFold(list []string, value string) bool {
	needle := strings.TrimSpace(value)
	if needle == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), needle) {
			return true
		}
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// ComputeDiscount returns the monetary effect of rule on subtotal. The result
// never exceeds the subtotal, is never negative, and gifts are worth zero.
func ComputeDiscount(rule Rule, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch rule.Kind {
	case KindPercentage:
		amount = subtotal.Mul(rule.Value).Div(hundred)
	case KindFixedAmount:
		amount = rule.Value
	default:
		return decimal.Zero
	}
	return decimal.Max(decimal.Min(amount, subtotal), decimal.Zero)
}

// worthApplying filters out discounts that would not change the sale. Gifts
// carry a non-monetary benefit and always pass.
func worthApplying(rule Rule, amount decimal.Decimal) bool {
	if rule.Kind == KindGift {
		return true
	}
	return amount.IsPositive()
}
