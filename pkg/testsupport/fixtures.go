package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-formkit/pkg/promotion"
)

// Now is the reference instant used by promotion fixtures.
var Now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Money builds a decimal amount from whole units.
func Money(units int64) decimal.Decimal {
	return decimal.NewFromInt(units)
}

// MoneyPtr is Money returning a pointer, for Conditions.MinAmount.
func MoneyPtr(units int64) *decimal.Decimal {
	m := Money(units)
	return &m
}

// IntPtr returns a pointer to v, for Rule.MaxUses.
func IntPtr(v int) *int {
	return &v
}

// ClockAt returns a mock clock set to at.
func ClockAt(at time.Time) *clock.Mock {
	mock := clock.NewMock()
	mock.Add(at.Sub(mock.Now()))
	return mock
}

// Rule returns a rule valid for a month around Now.
func Rule(id, code string, kind promotion.Kind, value int64) promotion.Rule {
	return promotion.Rule{
		ID:    id,
		Code:  code,
		Kind:  kind,
		Value: Money(value),
		Conditions: promotion.Conditions{
			ValidFrom:  Now.AddDate(0, 0, -15),
			ValidUntil: Now.AddDate(0, 0, 15),
		},
	}
}

// Campaign wraps rule in an active campaign.
func Campaign(id string, rule promotion.Rule) promotion.Campaign {
	rule.CampaignID = id
	return promotion.Campaign{
		ID:        id,
		Name:      "Campaign " + id,
		Status:    promotion.StatusActive,
		Promotion: rule,
	}
}

// MotoCatalog is a small campaign set shaped like a motorcycle dealer's
// promotions.
func MotoCatalog() []promotion.Campaign {
	vip := Rule("promo-vip", "MOTO15", promotion.KindPercentage, 15)
	vip.Segments = []string{"VIP"}
	vip.Conditions.MinAmount = MoneyPtr(50000)
	vip.AutoApply = true
	vip.Description = "15% off for VIP customers"

	welcome := Rule("promo-welcome", "BIENVENIDA", promotion.KindFixedAmount, 5000)
	welcome.Conditions.FirstPurchaseOnly = true
	welcome.AutoApply = true

	helmet := Rule("promo-helmet", "CASCO", promotion.KindGift, 0)
	helmet.Description = "Free helmet with any scooter"
	helmet.Conditions.IncludedProducts = []string{"scooters"}

	limited := Rule("promo-limited", "FLASH", promotion.KindPercentage, 30)
	limited.MaxUses = IntPtr(1)
	limited.UsedCount = 1

	return []promotion.Campaign{
		Campaign("cmp-vip", vip),
		Campaign("cmp-welcome", welcome),
		Campaign("cmp-helmet", helmet),
		Campaign("cmp-flash", limited),
	}
}

// DecimalComparer makes cmp treat equal decimals as equal regardless of
// exponent.
var DecimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

// IgnoreDiscountIDs drops generated ids from AppliedDiscount comparisons.
var IgnoreDiscountIDs = cmpopts.IgnoreFields(promotion.AppliedDiscount{}, "ID")

// WriteFile writes data under a fresh temporary directory and returns its
// path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// MustReadFile reads a fixture and returns its raw bytes.
func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}
