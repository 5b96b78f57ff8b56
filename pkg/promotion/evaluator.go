package promotion

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock sets the clock used to check validity windows.
func WithClock(c clock.Clock) Option {
	return func(e *Evaluator) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the evaluator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator overrides how applied discount ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Evaluator) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// Evaluator matches customers and carts against the promotions held by a
// Store. It keeps no state between calls; every read reloads the store.
type Evaluator struct {
	store  Store
	clock  clock.Clock
	logger *zap.Logger
	newID  func() string
}

// NewEvaluator builds an evaluator reading from store.
func NewEvaluator(store Store, opts ...Option) *Evaluator {
	e := &Evaluator{
		store:  store,
		clock:  clock.New(),
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// List returns the rules of active campaigns whose validity window contains
// the current time.
func (e *Evaluator) List(ctx context.Context) ([]Rule, error) {
	if e.store == nil {
		return nil, errors.New("promotion: store is not configured")
	}
	campaigns, err := e.store.Campaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("promotion: load campaigns: %w", err)
	}

	now := e.clock.Now()
	rules := make([]Rule, 0, len(campaigns))
	for _, campaign := range campaigns {
		if !campaign.Active() {
			continue
		}
		rule := campaign.Promotion
		if !rule.ActiveAt(now) {
			continue
		}
		if rule.CampaignID == "" {
			rule.CampaignID = campaign.ID
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// FindAutomatic returns the single best auto-apply discount for the sale, or
// nil when none applies. Ties keep the rule listed first.
func (e *Evaluator) FindAutomatic(ctx context.Context, customer Customer, cart []CartLine, subtotal decimal.Decimal) (*AppliedDiscount, error) {
	rules, err := e.List(ctx)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		rule   Rule
		amount decimal.Decimal
	}
	var candidates []candidate
	for _, rule := range rules {
		if !rule.AutoApply || rule.Exhausted() {
			continue
		}
		if !IsEligible(rule, customer, cart, subtotal) {
			continue
		}
		amount := ComputeDiscount(rule, subtotal)
		if !worthApplying(rule, amount) {
			continue
		}
		candidates = append(candidates, candidate{rule: rule, amount: amount})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].amount.GreaterThan(candidates[j].amount)
	})
	best := candidates[0]
	discount := e.applied(best.rule, best.amount, OriginAutomatic)

	e.logger.Debug("promotion: automatic discount selected",
		zap.String("rule_id", best.rule.ID),
		zap.String("code", best.rule.Code),
		zap.String("amount", best.amount.String()),
		zap.Int("candidates", len(candidates)))
	return &discount, nil
}

// ApplyCode validates a code typed by the user. Rejections are returned as
// *Rejection errors; store failures are returned wrapped. Callers must drop
// any automatic discount before attaching the result, see Merge.
func (e *Evaluator) ApplyCode(ctx context.Context, code string, customer Customer, cart []CartLine, subtotal decimal.Decimal) (AppliedDiscount, error) {
	needle := strings.TrimSpace(code)
	rules, err := e.List(ctx)
	if err != nil {
		return AppliedDiscount{}, err
	}

	var (
		rule  Rule
		found bool
	)
	if needle != "" {
		for _, candidate := range rules {
			if strings.EqualFold(strings.TrimSpace(candidate.Code), needle) {
				rule, found = candidate, true
				break
			}
		}
	}
	if !found {
		return AppliedDiscount{}, reject(ReasonNotFound, needle)
	}

	if reason := ineligibility(rule, customer, subtotal); reason != ReasonNone {
		return AppliedDiscount{}, &Rejection{Reason: ReasonNotEligible, Detail: reason, Code: rule.Code}
	}
	if !matchesProducts(rule, cart) {
		return AppliedDiscount{}, &Rejection{Reason: ReasonNotEligible, Detail: ReasonProductsExcluded, Code: rule.Code}
	}
	if rule.Exhausted() {
		return AppliedDiscount{}, reject(ReasonUsageExhausted, rule.Code)
	}

	amount := ComputeDiscount(rule, subtotal)
	if !worthApplying(rule, amount) {
		return AppliedDiscount{}, reject(ReasonZeroValue, rule.Code)
	}

	e.logger.Debug("promotion: code accepted",
		zap.String("rule_id", rule.ID),
		zap.String("code", rule.Code),
		zap.String("amount", amount.String()))
	return e.applied(rule, amount, OriginCodeEntry), nil
}

// ListForSeller returns every loaded rule annotated with whether it applies to
// the customer and, when it does not, why.
func (e *Evaluator) ListForSeller(ctx context.Context, customer Customer, subtotal decimal.Decimal) ([]SellerEntry, error) {
	rules, err := e.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]SellerEntry, 0, len(rules))
	for _, rule := range rules {
		reason := ineligibility(rule, customer, subtotal)
		if reason == ReasonNone && rule.Exhausted() {
			reason = ReasonUsageCapReached
		}
		entries = append(entries, SellerEntry{
			Rule:         rule,
			IsApplicable: reason == ReasonNone,
			Reason:       reason,
		})
	}
	return entries, nil
}

// RecordUsage increments the rule's usage counter once. Call it once per
// committed sale.
func (e *Evaluator) RecordUsage(ctx context.Context, ruleID string) error {
	if e.store == nil {
		return errors.New("promotion: store is not configured")
	}
	if err := e.store.IncrementUsage(ctx, ruleID); err != nil {
		return fmt.Errorf("promotion: record usage: %w", err)
	}
	e.logger.Info("promotion: usage recorded", zap.String("rule_id", ruleID))
	return nil
}

// ManualDiscount builds a salesperson-entered discount from rule.
func (e *Evaluator) ManualDiscount(rule Rule, subtotal decimal.Decimal) AppliedDiscount {
	return e.applied(rule, ComputeDiscount(rule, subtotal), OriginManual)
}

func (e *Evaluator) applied(rule Rule, amount decimal.Decimal, origin Origin) AppliedDiscount {
	return AppliedDiscount{
		ID:          e.newID(),
		RuleID:      rule.ID,
		Code:        rule.Code,
		Kind:        rule.Kind,
		Value:       rule.Value,
		Amount:      amount,
		Description: describe(rule),
		Origin:      origin,
		Removable:   true,
	}
}

func describe(rule Rule) string {
	if desc := strings.TrimSpace(rule.Description); desc != "" {
		return desc
	}
	switch rule.Kind {
	case KindPercentage:
		return fmt.Sprintf("%s%% off", rule.Value.String())
	case KindFixedAmount:
		return fmt.Sprintf("%s off", rule.Value.StringFixed(2))
	case KindGift:
		return "Gift included"
	default:
		return rule.Code
	}
}
