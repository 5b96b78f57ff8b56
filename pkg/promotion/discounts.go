package promotion

import "github.com/shopspring/decimal"

// Merge attaches next to the active discounts keeping at most one automatic
// discount. Manual and code-entry discounts supersede automatic ones: adding
// one drops any automatic discount, and an automatic discount is not added
// while a manual or code-entry discount is present, whatever its rule. Between
// manual and code-entry discounts, a discount for a rule that is already
// attached replaces the existing entry.
func Merge(active []AppliedDiscount, next AppliedDiscount) []AppliedDiscount {
	if next.Origin == OriginAutomatic {
		for _, d := range active {
			if d.Origin != OriginAutomatic {
				return append([]AppliedDiscount(nil), active...)
			}
		}
	}

	out := make([]AppliedDiscount, 0, len(active)+1)
	for _, d := range active {
		if d.Origin == OriginAutomatic {
			continue
		}
		if next.RuleID != "" && d.RuleID == next.RuleID {
			continue
		}
		out = append(out, d)
	}
	return append(out, next)
}

// Remove drops the discount with id when it is removable.
func Remove(active []AppliedDiscount, id string) ([]AppliedDiscount, bool) {
	out := make([]AppliedDiscount, 0, len(active))
	removed := false
	for _, d := range active {
		if d.ID == id && d.Removable && !removed {
			removed = true
			continue
		}
		out = append(out, d)
	}
	return out, removed
}

// TotalDiscount sums the monetary amount of the discounts.
func TotalDiscount(active []AppliedDiscount) decimal.Decimal {
	total := decimal.Zero
	for _, d := range active {
		total = total.Add(d.Amount)
	}
	return total
}
