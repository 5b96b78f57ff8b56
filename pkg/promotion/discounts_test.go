package promotion_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/promotion"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func discount(id, ruleID string, origin promotion.Origin, amount int64) promotion.AppliedDiscount {
	return promotion.AppliedDiscount{
		ID:        id,
		RuleID:    ruleID,
		Origin:    origin,
		Amount:    testsupport.Money(amount),
		Removable: true,
	}
}

func ids(active []promotion.AppliedDiscount) []string {
	out := make([]string, 0, len(active))
	for _, d := range active {
		out = append(out, d.ID)
	}
	return out
}

func TestMerge_ExplicitSupersedesAutomatic(t *testing.T) {
	auto := discount("a1", "promo-vip", promotion.OriginAutomatic, 27000)
	code := discount("c1", "promo-extra", promotion.OriginCodeEntry, 30000)

	active := promotion.Merge(nil, auto)
	active = promotion.Merge(active, code)
	if diff := cmp.Diff([]string{"c1"}, ids(active)); diff != "" {
		t.Fatalf("active discounts mismatch (-want +got):\n%s", diff)
	}

	active = promotion.Merge(active, discount("a2", "promo-welcome", promotion.OriginAutomatic, 5000))
	if diff := cmp.Diff([]string{"c1"}, ids(active)); diff != "" {
		t.Fatalf("automatic discount must not join an explicit one (-want +got):\n%s", diff)
	}
}

func TestMerge_AutomaticNeverReplacesExplicitSameRule(t *testing.T) {
	for _, origin := range []promotion.Origin{promotion.OriginCodeEntry, promotion.OriginManual} {
		active := promotion.Merge(nil, discount("e1", "promo-vip", origin, 27000))
		active = promotion.Merge(active, discount("a1", "promo-vip", promotion.OriginAutomatic, 27000))
		if diff := cmp.Diff([]string{"e1"}, ids(active)); diff != "" {
			t.Fatalf("%s discount must survive an automatic one for the same rule (-want +got):\n%s", origin, diff)
		}
		if active[0].Origin != origin {
			t.Fatalf("expected origin %s, got %s", origin, active[0].Origin)
		}
	}
}

func TestMerge_SingleAutomatic(t *testing.T) {
	active := promotion.Merge(nil, discount("a1", "promo-vip", promotion.OriginAutomatic, 27000))
	active = promotion.Merge(active, discount("a2", "promo-welcome", promotion.OriginAutomatic, 5000))
	if diff := cmp.Diff([]string{"a2"}, ids(active)); diff != "" {
		t.Fatalf("expected the newer automatic discount only (-want +got):\n%s", diff)
	}
}

func TestMerge_SameRuleReplaces(t *testing.T) {
	active := promotion.Merge(nil, discount("m1", "promo-staff", promotion.OriginManual, 1000))
	active = promotion.Merge(active, discount("c1", "promo-extra", promotion.OriginCodeEntry, 3000))
	active = promotion.Merge(active, discount("m2", "promo-staff", promotion.OriginManual, 1500))
	if diff := cmp.Diff([]string{"c1", "m2"}, ids(active)); diff != "" {
		t.Fatalf("active discounts mismatch (-want +got):\n%s", diff)
	}
	if total := promotion.TotalDiscount(active); !total.Equal(testsupport.Money(4500)) {
		t.Fatalf("expected total 4500, got %s", total)
	}
}

func TestRemove(t *testing.T) {
	fixed := discount("f1", "promo-fixed", promotion.OriginManual, 500)
	fixed.Removable = false
	active := []promotion.AppliedDiscount{
		discount("c1", "promo-extra", promotion.OriginCodeEntry, 3000),
		fixed,
	}

	out, removed := promotion.Remove(active, "f1")
	if removed || len(out) != 2 {
		t.Fatalf("expected non-removable discount to stay, got %v", ids(out))
	}
	out, removed = promotion.Remove(out, "c1")
	if !removed {
		t.Fatalf("expected c1 to be removed")
	}
	if diff := cmp.Diff([]string{"f1"}, ids(out)); diff != "" {
		t.Fatalf("active discounts mismatch (-want +got):\n%s", diff)
	}
	if _, removed := promotion.Remove(out, "missing"); removed {
		t.Fatalf("expected unknown id to report false")
	}
}

func TestManualDiscount(t *testing.T) {
	eval := promotion.NewEvaluator(promotion.NewMemoryStore(), promotion.WithIDGenerator(func() string { return "fixed-id" }))
	rule := testsupport.Rule("promo-staff", "STAFF", promotion.KindFixedAmount, 2000)

	got := eval.ManualDiscount(rule, testsupport.Money(1500))
	want := promotion.AppliedDiscount{
		ID:          "fixed-id",
		RuleID:      "promo-staff",
		Code:        "STAFF",
		Kind:        promotion.KindFixedAmount,
		Value:       testsupport.Money(2000),
		Amount:      testsupport.Money(1500),
		Description: "2000.00 off",
		Origin:      promotion.OriginManual,
		Removable:   true,
	}
	if diff := cmp.Diff(want, got, testsupport.DecimalComparer); diff != "" {
		t.Fatalf("manual discount mismatch (-want +got):\n%s", diff)
	}
}

func TestSubtotal(t *testing.T) {
	lines := []promotion.CartLine{
		{ProductID: "moto-1", UnitPrice: testsupport.Money(90000), Quantity: 2},
		{ProductID: "helmet", UnitPrice: testsupport.Money(150), Quantity: 0},
	}
	if got := promotion.Subtotal(lines); !got.Equal(testsupport.Money(180150)) {
		t.Fatalf("expected 180150, got %s", got)
	}
}
