package promotion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the discount shape of a rule.
type Kind string

const (
	KindPercentage  Kind = "percentage"
	KindFixedAmount Kind = "fixed_amount"
	KindGift        Kind = "gift"
)

// Campaign status values. Only active campaigns expose their promotion.
const (
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusDraft    = "draft"
	StatusFinished = "finished"
)

// Origin records how a discount ended up on a sale.
type Origin string

const (
	OriginAutomatic Origin = "automatic"
	OriginManual    Origin = "manual"
	OriginCodeEntry Origin = "code-entry"
)

// Conditions restrict when a rule can be used.
type Conditions struct {
	MinAmount         *decimal.Decimal
	IncludedProducts  []string
	FirstPurchaseOnly bool
	ValidFrom         time.Time
	ValidUntil        time.Time
}

// Rule is a promotional offer.
type Rule struct {
	ID          string
	Code        string
	Kind        Kind
	Value       decimal.Decimal
	Description string
	CampaignID  string
	Conditions  Conditions
	MaxUses     *int
	UsedCount   int
	AutoApply   bool
	Segments    []string
}

// Exhausted reports whether the usage cap has been reached.
func (r Rule) Exhausted() bool {
	return r.MaxUses != nil && r.UsedCount >= *r.MaxUses
}

// ActiveAt reports whether now falls inside the validity window. Zero bounds
// are open.
func (r Rule) ActiveAt(now time.Time) bool {
	if !r.Conditions.ValidFrom.IsZero() && now.Before(r.Conditions.ValidFrom) {
		return false
	}
	if !r.Conditions.ValidUntil.IsZero() && now.After(r.Conditions.ValidUntil) {
		return false
	}
	return true
}

// Campaign groups a promotion with its marketing lifecycle.
type Campaign struct {
	ID        string
	Name      string
	Status    string
	Promotion Rule
}

// Active reports whether the campaign is running.
func (c Campaign) Active() bool {
	return strings.EqualFold(strings.TrimSpace(c.Status), StatusActive)
}

// Customer is the buyer the sale is being prepared for.
type Customer struct {
	ID              string
	Segment         string
	IsFirstPurchase bool
}

// CartLine is a product on the sale.
type CartLine struct {
	ProductID string
	Name      string
	Category  string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total returns the line amount. A non-positive quantity counts as one unit.
func (l CartLine) Total() decimal.Decimal {
	qty := l.Quantity
	if qty <= 0 {
		qty = 1
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// Subtotal sums the cart lines.
func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}
	return total
}

// AppliedDiscount is a discount attached to a sale.
type AppliedDiscount struct {
	ID          string
	RuleID      string
	Code        string
	Kind        Kind
	Value       decimal.Decimal
	Amount      decimal.Decimal
	Description string
	Origin      Origin
	Removable   bool
}

// SellerEntry annotates a rule with whether it applies to the customer.
type SellerEntry struct {
	Rule         Rule
	IsApplicable bool
	Reason       Reason
}
