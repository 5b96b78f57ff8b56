package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/promotion"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger routes skipped-record warnings to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPolicy replaces the sanitiser applied to names and descriptions.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(s *Store) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// Store reads campaigns from a YAML or JSON file. The file is read on every
// call so edits are picked up without a restart.
type Store struct {
	path     string
	logger   *zap.Logger
	policy   *bluemonday.Policy
	validate *validator.Validate

	mu sync.Mutex
}

var _ promotion.Store = (*Store)(nil)

// New returns a store backed by path. The file does not need to exist until
// the first read.
func New(path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("filestore: path is required")
	}

	s := &Store{
		path:     filepath.Clean(path),
		logger:   zap.NewNop(),
		policy:   bluemonday.StrictPolicy(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Campaigns implements promotion.Store. Records that fail validation are
// skipped and logged.
func (s *Store) Campaigns(ctx context.Context) ([]promotion.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	campaigns := make([]promotion.Campaign, 0, len(doc.Campaigns))
	for i, record := range doc.Campaigns {
		campaign, err := s.convert(record)
		if err != nil {
			s.logger.Warn("skipping invalid campaign record",
				zap.String("file", s.path),
				zap.Int("index", i),
				zap.String("campaign", record.ID),
				zap.Error(err),
			)
			continue
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

// IncrementUsage implements promotion.Store. The file is rewritten through a
// temporary sibling and a rename.
func (s *Store) IncrementUsage(ctx context.Context, ruleID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	found := false
	for i := range doc.Campaigns {
		if doc.Campaigns[i].Promotion.ID == ruleID {
			doc.Campaigns[i].Promotion.UsedCount++
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", promotion.ErrRuleNotFound, ruleID)
	}

	if err := s.write(doc); err != nil {
		return err
	}
	s.logger.Debug("promotion usage recorded", zap.String("file", s.path), zap.String("rule", ruleID))
	return nil
}

// Save replaces the file contents with campaigns.
func (s *Store) Save(ctx context.Context, campaigns []promotion.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := documentFile{Campaigns: make([]campaignRecord, 0, len(campaigns))}
	for _, campaign := range campaigns {
		doc.Campaigns = append(doc.Campaigns, recordFrom(campaign))
	}
	return s.write(doc)
}

func (s *Store) convert(record campaignRecord) (promotion.Campaign, error) {
	if err := s.validate.Struct(record); err != nil {
		return promotion.Campaign{}, err
	}
	return record.toCampaign(s.sanitize)
}

func (s *Store) sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(trimmed))
}

func (s *Store) read() (documentFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return documentFile{}, fmt.Errorf("filestore: read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return documentFile{}, nil
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("filestore: parse %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *Store) write(doc documentFile) error {
	data, err := s.encode(doc)
	if err != nil {
		return fmt.Errorf("filestore: encode %s: %w", s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("filestore: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("filestore: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("filestore: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("filestore: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("filestore: replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) encode(doc documentFile) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(s.path), ".json") {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordFrom(campaign promotion.Campaign) campaignRecord {
	rule := campaign.Promotion
	record := campaignRecord{
		ID:     campaign.ID,
		Name:   campaign.Name,
		Status: campaign.Status,
		Promotion: ruleRecord{
			ID:                rule.ID,
			Code:              rule.Code,
			Kind:              string(rule.Kind),
			Description:       rule.Description,
			IncludedProducts:  append([]string(nil), rule.Conditions.IncludedProducts...),
			FirstPurchaseOnly: rule.Conditions.FirstPurchaseOnly,
			ValidFrom:         rule.Conditions.ValidFrom,
			ValidUntil:        rule.Conditions.ValidUntil,
			UsedCount:         rule.UsedCount,
			AutoApply:         rule.AutoApply,
			Segments:          append([]string(nil), rule.Segments...),
		},
	}
	if !rule.Value.IsZero() || rule.Kind != promotion.KindGift {
		record.Promotion.Value = rule.Value.String()
	}
	if rule.Conditions.MinAmount != nil {
		record.Promotion.MinAmount = rule.Conditions.MinAmount.String()
	}
	if rule.MaxUses != nil {
		limit := *rule.MaxUses
		record.Promotion.MaxUses = &limit
	}
	return record
}
