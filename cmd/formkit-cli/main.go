package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/promotion"
	"github.com/goliatone/go-formkit/pkg/prompt"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx := context.Background()
	args := os.Args[2:]
	switch os.Args[1] {
	case "fill":
		err = runFill(ctx, args, os.Stdout, prompt.NewSurveyDriver(os.Stdout), logger)
	case "promo":
		err = runPromo(ctx, args, os.Stdout, logger)
	case "lint":
		err = runLint(ctx, args, os.Stdout)
	case "-h", "-help", "--help", "help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}

	if errors.Is(err, prompt.ErrAborted) {
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n\n", name)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  fill   fill the form of an OpenAPI operation interactively")
	fmt.Fprintln(w, "  promo  evaluate promotions for a customer and sale amount")
	fmt.Fprintln(w, "  lint   report unsupported x-formgen hints in OpenAPI documents")
}

func runFill(ctx context.Context, args []string, out io.Writer, driver prompt.Driver, logger *zap.Logger) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	source := fs.String("source", "", "OpenAPI document path or URL")
	opID := fs.String("operation", "", "operation ID whose request body is filled")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*opID) == "" {
		return errors.New("-operation is required")
	}

	src, err := openapi.ParseSource(*source)
	if err != nil {
		return err
	}

	values, err := formkit.Fill(ctx, src, *opID, driver, logger, nil)
	if err != nil {
		return err
	}
	return writeJSON(out, values)
}

func runPromo(ctx context.Context, args []string, out io.Writer, logger *zap.Logger) error {
	fs := flag.NewFlagSet("promo", flag.ContinueOnError)
	campaigns := fs.String("campaigns", "campaigns.yaml", "campaigns file (YAML or JSON)")
	customerID := fs.String("customer", "", "customer id")
	segment := fs.String("segment", "Regular", "customer segment")
	first := fs.Bool("first", false, "customer is making their first purchase")
	rawSubtotal := fs.String("subtotal", "0", "sale subtotal")
	code := fs.String("code", "", "promotion code typed by the customer")
	category := fs.String("category", "", "comma separated product categories in the cart")
	commit := fs.Bool("commit", false, "record usage of the resulting discounts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	subtotal, err := decimal.NewFromString(strings.TrimSpace(*rawSubtotal))
	if err != nil {
		return fmt.Errorf("invalid -subtotal %q: %w", *rawSubtotal, err)
	}

	eval, err := formkit.NewFileEvaluator(*campaigns, logger)
	if err != nil {
		return err
	}

	customer := promotion.Customer{ID: *customerID, Segment: *segment, IsFirstPurchase: *first}
	cart := cartFromCategories(*category, subtotal)

	listing, err := eval.ListForSeller(ctx, customer, subtotal)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Promotions:")
	for _, entry := range listing {
		status := "applicable"
		if !entry.IsApplicable {
			status = entry.Reason.Message()
		}
		fmt.Fprintf(out, "  %-12s %-14s %s\n", entry.Rule.Code, entry.Rule.Kind, status)
	}

	var active []promotion.AppliedDiscount
	automatic, err := eval.FindAutomatic(ctx, customer, cart, subtotal)
	if err != nil {
		return err
	}
	if automatic != nil {
		fmt.Fprintf(out, "Automatic: %s %s (%s)\n", automatic.Code, automatic.Amount.StringFixed(2), automatic.Description)
		active = promotion.Merge(active, *automatic)
	} else {
		fmt.Fprintln(out, "Automatic: none")
	}

	if strings.TrimSpace(*code) != "" {
		applied, err := eval.ApplyCode(ctx, *code, customer, cart, subtotal)
		var rejection *promotion.Rejection
		switch {
		case errors.As(err, &rejection):
			fmt.Fprintf(out, "Code %s rejected: %s\n", strings.TrimSpace(*code), rejection.Error())
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "Code %s accepted: %s\n", applied.Code, applied.Amount.StringFixed(2))
			active = promotion.Merge(active, applied)
		}
	}

	total := promotion.TotalDiscount(active)
	fmt.Fprintf(out, "Discount: %s\n", total.StringFixed(2))
	fmt.Fprintf(out, "Total: %s\n", decimal.Max(subtotal.Sub(total), decimal.Zero).StringFixed(2))

	if *commit {
		for _, discount := range active {
			if err := eval.RecordUsage(ctx, discount.RuleID); err != nil {
				return err
			}
		}
	}
	return nil
}

func cartFromCategories(raw string, subtotal decimal.Decimal) []promotion.CartLine {
	var lines []promotion.CartLine
	for _, category := range strings.Split(raw, ",") {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		lines = append(lines, promotion.CartLine{Category: category, Quantity: 1})
	}
	if len(lines) > 0 {
		lines[0].UnitPrice = subtotal
	}
	return lines
}

func runLint(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("at least one OpenAPI document is required")
	}

	found := 0
	for _, path := range paths {
		doc, err := openapi.Load(ctx, openapi.SourceFromFile(path))
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		for _, v := range doc.Lint() {
			fmt.Fprintf(out, "%s: %s\n", path, v)
			found++
		}
	}
	if found > 0 {
		return fmt.Errorf("%d unsupported hint(s) found", found)
	}
	return nil
}

func writeJSON(w io.Writer, values form.Values) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}
