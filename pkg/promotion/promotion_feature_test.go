package promotion_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-formkit/pkg/promotion"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

type saleContext struct {
	store     *promotion.MemoryStore
	eval      *promotion.Evaluator
	campaigns []promotion.Campaign
	customer  promotion.Customer
	subtotal  decimal.Decimal
	automatic *promotion.AppliedDiscount
	applied   promotion.AppliedDiscount
	active    []promotion.AppliedDiscount
	err       error
}

func (s *saleContext) reset() {
	s.store = promotion.NewMemoryStore()
	s.eval = promotion.NewEvaluator(s.store, promotion.WithClock(testsupport.ClockAt(testsupport.Now)))
	s.campaigns = nil
	s.customer = promotion.Customer{}
	s.subtotal = decimal.Zero
	s.automatic = nil
	s.applied = promotion.AppliedDiscount{}
	s.active = nil
	s.err = nil
}

func (s *saleContext) sync() {
	s.store.Replace(s.campaigns)
}

func (s *saleContext) rule(code string) (*promotion.Rule, error) {
	for i := range s.campaigns {
		if s.campaigns[i].Promotion.Code == code {
			return &s.campaigns[i].Promotion, nil
		}
	}
	return nil, fmt.Errorf("no campaign with code %q", code)
}

func (s *saleContext) anActiveCampaign(code, kind string, value int) error {
	rule := testsupport.Rule(strings.ToLower(code), code, promotion.Kind(kind), int64(value))
	s.campaigns = append(s.campaigns, testsupport.Campaign("cmp-"+rule.ID, rule))
	s.sync()
	return nil
}

func (s *saleContext) restrictedToSegment(code, segment string) error {
	rule, err := s.rule(code)
	if err != nil {
		return err
	}
	rule.Segments = append(rule.Segments, segment)
	s.sync()
	return nil
}

func (s *saleContext) requiresMinimum(code string, amount int) error {
	rule, err := s.rule(code)
	if err != nil {
		return err
	}
	rule.Conditions.MinAmount = testsupport.MoneyPtr(int64(amount))
	s.sync()
	return nil
}

func (s *saleContext) appliesAutomatically(code string) error {
	rule, err := s.rule(code)
	if err != nil {
		return err
	}
	rule.AutoApply = true
	s.sync()
	return nil
}

func (s *saleContext) canBeUsed(code string, times int) error {
	rule, err := s.rule(code)
	if err != nil {
		return err
	}
	rule.MaxUses = testsupport.IntPtr(times)
	s.sync()
	return nil
}

func (s *saleContext) aCustomer(segment string) error {
	s.customer = promotion.Customer{ID: "customer-1", Segment: segment}
	return nil
}

func (s *saleContext) aCartSubtotal(amount int) error {
	s.subtotal = testsupport.Money(int64(amount))
	return nil
}

func (s *saleContext) iLookForAnAutomaticDiscount() error {
	s.automatic, s.err = s.eval.FindAutomatic(context.Background(), s.customer, nil, s.subtotal)
	if s.automatic != nil {
		s.active = promotion.Merge(s.active, *s.automatic)
	}
	return s.err
}

func (s *saleContext) iEnterTheCode(code string) error {
	s.applied, s.err = s.eval.ApplyCode(context.Background(), code, s.customer, nil, s.subtotal)
	if s.err == nil {
		s.active = promotion.Merge(s.active, s.applied)
	}
	return nil
}

func (s *saleContext) aSaleIsCommitted(code string) error {
	rule, err := s.rule(code)
	if err != nil {
		return err
	}
	return s.eval.RecordUsage(context.Background(), rule.ID)
}

func (s *saleContext) anAutomaticDiscountIsOffered(amount int, code string) error {
	if s.automatic == nil {
		return errors.New("expected an automatic discount")
	}
	if s.automatic.Code != code {
		return fmt.Errorf("expected code %s, got %s", code, s.automatic.Code)
	}
	if s.automatic.Origin != promotion.OriginAutomatic {
		return fmt.Errorf("expected automatic origin, got %s", s.automatic.Origin)
	}
	if !s.automatic.Amount.Equal(testsupport.Money(int64(amount))) {
		return fmt.Errorf("expected amount %d, got %s", amount, s.automatic.Amount)
	}
	return nil
}

func (s *saleContext) noAutomaticDiscountIsOffered() error {
	if s.automatic != nil {
		return fmt.Errorf("expected no automatic discount, got %s", s.automatic.Code)
	}
	return nil
}

func (s *saleContext) theCodeIsAcceptedWithDiscount(amount int) error {
	if s.err != nil {
		return fmt.Errorf("expected code to be accepted: %w", s.err)
	}
	if !s.applied.Amount.Equal(testsupport.Money(int64(amount))) {
		return fmt.Errorf("expected amount %d, got %s", amount, s.applied.Amount)
	}
	return nil
}

func (s *saleContext) theCodeIsRejectedAs(reason string) error {
	var rejection *promotion.Rejection
	if !errors.As(s.err, &rejection) {
		return fmt.Errorf("expected a rejection, got %v", s.err)
	}
	if string(rejection.Reason) != reason {
		return fmt.Errorf("expected reason %s, got %s", reason, rejection.Reason)
	}
	return nil
}

func (s *saleContext) theSaleCarriesOnly(code string) error {
	if len(s.active) != 1 {
		return fmt.Errorf("expected one discount, got %d", len(s.active))
	}
	if s.active[0].Code != code || s.active[0].Origin != promotion.OriginCodeEntry {
		return fmt.Errorf("unexpected discount %+v", s.active[0])
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	sc := &saleContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	ctx.Step(`^an active campaign with code "([^"]*)" of type "([^"]*)" and value (\d+)$`, sc.anActiveCampaign)
	ctx.Step(`^the promotion "([^"]*)" is restricted to segment "([^"]*)"$`, sc.restrictedToSegment)
	ctx.Step(`^the promotion "([^"]*)" requires a minimum amount of (\d+)$`, sc.requiresMinimum)
	ctx.Step(`^the promotion "([^"]*)" applies automatically$`, sc.appliesAutomatically)
	ctx.Step(`^the promotion "([^"]*)" can be used (\d+) times?$`, sc.canBeUsed)
	ctx.Step(`^a "([^"]*)" customer$`, sc.aCustomer)
	ctx.Step(`^a cart subtotal of (\d+)$`, sc.aCartSubtotal)

	ctx.Step(`^I look for an automatic discount$`, sc.iLookForAnAutomaticDiscount)
	ctx.Step(`^I enter the code "([^"]*)"$`, sc.iEnterTheCode)
	ctx.Step(`^a sale using "([^"]*)" is committed$`, sc.aSaleIsCommitted)

	ctx.Step(`^an automatic discount of (\d+) is offered for "([^"]*)"$`, sc.anAutomaticDiscountIsOffered)
	ctx.Step(`^no automatic discount is offered$`, sc.noAutomaticDiscountIsOffered)
	ctx.Step(`^the code is accepted with a discount of (\d+)$`, sc.theCodeIsAcceptedWithDiscount)
	ctx.Step(`^the code is rejected as "([^"]*)"$`, sc.theCodeIsRejectedAs)
	ctx.Step(`^the sale carries only the "([^"]*)" discount$`, sc.theSaleCarriesOnly)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
