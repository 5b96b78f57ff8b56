package promotion

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRuleNotFound is returned by stores asked to update an unknown rule.
var ErrRuleNotFound = errors.New("promotion: rule not found")

// Store is the source of campaign records. Campaigns is called before every
// evaluator read so implementations should return their latest state.
type Store interface {
	Campaigns(ctx context.Context) ([]Campaign, error)
	IncrementUsage(ctx context.Context, ruleID string) error
}

// MemoryStore keeps campaigns in memory. Increments are serialised within the
// process only.
type MemoryStore struct {
	mu        sync.RWMutex
	campaigns []Campaign
}

// NewMemoryStore seeds a store with campaigns.
func NewMemoryStore(campaigns ...Campaign) *MemoryStore {
	store := &MemoryStore{}
	store.Replace(campaigns)
	return store
}

// Replace swaps the stored campaigns.
func (s *MemoryStore) Replace(campaigns []Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = cloneCampaigns(campaigns)
}

// Campaigns implements Store.
func (s *MemoryStore) Campaigns(ctx context.Context) ([]Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCampaigns(s.campaigns), nil
}

// IncrementUsage implements Store.
func (s *MemoryStore) IncrementUsage(ctx context.Context, ruleID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.campaigns {
		if s.campaigns[i].Promotion.ID == ruleID {
			s.campaigns[i].Promotion.UsedCount++
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
}

func cloneCampaigns(src []Campaign) []Campaign {
	if len(src) == 0 {
		return nil
	}
	out := make([]Campaign, len(src))
	for i, campaign := range src {
		out[i] = campaign
		out[i].Promotion = cloneRule(campaign.Promotion)
	}
	return out
}

func cloneRule(rule Rule) Rule {
	out := rule
	out.Segments = append([]string(nil), rule.Segments...)
	out.Conditions.IncludedProducts = append([]string(nil), rule.Conditions.IncludedProducts...)
	if rule.MaxUses != nil {
		maxUses := *rule.MaxUses
		out.MaxUses = &maxUses
	}
	if rule.Conditions.MinAmount != nil {
		minAmount := *rule.Conditions.MinAmount
		out.Conditions.MinAmount = &minAmount
	}
	return out
}
