package filestore

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-formkit/pkg/promotion"
)

var maxPercentage = decimal.NewFromInt(100)

type documentFile struct {
	Campaigns []campaignRecord `json:"campaigns" yaml:"campaigns"`
}

type campaignRecord struct {
	ID        string     `json:"id" yaml:"id" validate:"required"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Status    string     `json:"status" yaml:"status" validate:"required,oneof=active paused draft finished"`
	Promotion ruleRecord `json:"promotion" yaml:"promotion"`
}

type ruleRecord struct {
	ID                string    `json:"id" yaml:"id" validate:"required"`
	Code              string    `json:"code" yaml:"code" validate:"required"`
	Kind              string    `json:"kind" yaml:"kind" validate:"required,oneof=percentage fixed_amount gift"`
	Value             string    `json:"value,omitempty" yaml:"value,omitempty" validate:"omitempty,numeric"`
	Description       string    `json:"description,omitempty" yaml:"description,omitempty"`
	MinAmount         string    `json:"min_amount,omitempty" yaml:"min_amount,omitempty" validate:"omitempty,numeric"`
	IncludedProducts  []string  `json:"included_products,omitempty" yaml:"included_products,omitempty" validate:"dive,required"`
	FirstPurchaseOnly bool      `json:"first_purchase_only,omitempty" yaml:"first_purchase_only,omitempty"`
	ValidFrom         time.Time `json:"valid_from" yaml:"valid_from"`
	ValidUntil        time.Time `json:"valid_until" yaml:"valid_until"`
	MaxUses           *int      `json:"max_uses,omitempty" yaml:"max_uses,omitempty" validate:"omitempty,gte=0"`
	UsedCount         int       `json:"used_count" yaml:"used_count" validate:"gte=0"`
	AutoApply         bool      `json:"auto_apply,omitempty" yaml:"auto_apply,omitempty"`
	Segments          []string  `json:"segments,omitempty" yaml:"segments,omitempty" validate:"dive,required"`
}

// toCampaign converts a validated record. Free text goes through sanitize.
func (r campaignRecord) toCampaign(sanitize func(string) string) (promotion.Campaign, error) {
	rule := r.Promotion
	if !rule.ValidFrom.IsZero() && !rule.ValidUntil.IsZero() && rule.ValidUntil.Before(rule.ValidFrom) {
		return promotion.Campaign{}, fmt.Errorf("valid_until %s is before valid_from %s",
			rule.ValidUntil.Format(time.RFC3339), rule.ValidFrom.Format(time.RFC3339))
	}

	value := decimal.Zero
	if strings.TrimSpace(rule.Value) == "" && promotion.Kind(rule.Kind) != promotion.KindGift {
		return promotion.Campaign{}, fmt.Errorf("value is required for %s rules", rule.Kind)
	}
	if strings.TrimSpace(rule.Value) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(rule.Value))
		if err != nil {
			return promotion.Campaign{}, fmt.Errorf("value: %w", err)
		}
		value = parsed
	}
	switch promotion.Kind(rule.Kind) {
	case promotion.KindPercentage:
		if !value.IsPositive() || value.GreaterThan(maxPercentage) {
			return promotion.Campaign{}, fmt.Errorf("percentage value %s must be above 0 and at most 100", value)
		}
	case promotion.KindFixedAmount:
		if value.IsNegative() {
			return promotion.Campaign{}, fmt.Errorf("fixed amount value %s must not be negative", value)
		}
	}

	conditions := promotion.Conditions{
		IncludedProducts:  append([]string(nil), rule.IncludedProducts...),
		FirstPurchaseOnly: rule.FirstPurchaseOnly,
		ValidFrom:         rule.ValidFrom,
		ValidUntil:        rule.ValidUntil,
	}
	if strings.TrimSpace(rule.MinAmount) != "" {
		minAmount, err := decimal.NewFromString(strings.TrimSpace(rule.MinAmount))
		if err != nil {
			return promotion.Campaign{}, fmt.Errorf("min_amount: %w", err)
		}
		conditions.MinAmount = &minAmount
	}

	var maxUses *int
	if rule.MaxUses != nil {
		limit := *rule.MaxUses
		maxUses = &limit
	}

	return promotion.Campaign{
		ID:     r.ID,
		Name:   sanitize(r.Name),
		Status: strings.ToLower(strings.TrimSpace(r.Status)),
		Promotion: promotion.Rule{
			ID:          rule.ID,
			Code:        strings.TrimSpace(rule.Code),
			Kind:        promotion.Kind(rule.Kind),
			Value:       value,
			Description: sanitize(rule.Description),
			CampaignID:  r.ID,
			Conditions:  conditions,
			MaxUses:     maxUses,
			UsedCount:   rule.UsedCount,
			AutoApply:   rule.AutoApply,
			Segments:    append([]string(nil), rule.Segments...),
		},
	}, nil
}
