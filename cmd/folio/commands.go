package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/findosh/folio/internal/models"
	"github.com/findosh/folio/internal/services/exporter"
	"github.com/findosh/folio/internal/services/importer"
	"github.com/findosh/folio/internal/services/marketdata"
	"github.com/google/subcommands"
)

// stdout and stderr are swapped out by tests
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// validateCmd checks a CSV file without touching any portfolio.
type validateCmd struct{}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check a portfolio CSV file and report row errors" }
func (*validateCmd) Usage() string {
	return `folio validate <file.csv>

  Parses the file, prints every validation error and skipped row, and
  totals the valid rows per currency.
`
}

func (*validateCmd) SetFlags(*flag.FlagSet) {}

func (*validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text, err := readCSV(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading CSV: %v\n", err)
		return subcommands.ExitUsageError
	}

	svc := importer.NewService(models.UUIDGenerator{}, models.SystemClock{})
	result := svc.ParseCSV(text)
	printParseResult(result)
	for _, s := range importer.NewTagger().SuggestRows(result.Rows) {
		fmt.Fprintf(stdout, "hint: row %d %s looks like %s\n", s.Row, s.Symbol, s.AssetType)
	}

	if len(result.Errors) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// importCmd merges a CSV file into a JSON portfolio file.
type importCmd struct {
	into           string
	skipDuplicates bool
	dryRun         bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge a portfolio CSV file into a portfolio" }
func (*importCmd) Usage() string {
	return `folio import -into <portfolio.json> [-skip-duplicates] [-n] <file.csv>

  Imports the valid rows of the file into the portfolio, creating it when
  it does not exist yet. Rows matching an existing account by name and type
  are appended to it.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.into, "into", "portfolio.json", "portfolio file to merge into")
	f.BoolVar(&c.skipDuplicates, "skip-duplicates", false, "drop positions whose symbol the target account already holds")
	f.BoolVar(&c.dryRun, "n", false, "report what would be imported without writing the portfolio")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text, err := readCSV(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading CSV: %v\n", err)
		return subcommands.ExitUsageError
	}

	ids, clock := models.UUIDGenerator{}, models.SystemClock{}
	portfolio, err := loadPortfolio(c.into, ids, clock)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	svc := importer.NewService(ids, clock)
	result, err := svc.Import(portfolio, text, importer.ImportOptions{SkipDuplicates: c.skipDuplicates})
	printParseResult(result.Parse)
	if err != nil {
		if errors.Is(err, importer.ErrNoData) {
			fmt.Fprintln(stderr, "No valid rows to import")
		}
		return subcommands.ExitFailure
	}

	for _, m := range result.Messages {
		fmt.Fprintln(stdout, m)
	}
	if result.DuplicatesSkipped > 0 {
		fmt.Fprintf(stdout, "Skipped %d duplicate position(s)\n", result.DuplicatesSkipped)
	}

	if c.dryRun {
		return subcommands.ExitSuccess
	}
	if err := savePortfolio(c.into, portfolio); err != nil {
		fmt.Fprintf(stderr, "Error saving portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// duplicatesCmd lists the symbols of a CSV file already held in a portfolio.
type duplicatesCmd struct {
	into string
}

func (*duplicatesCmd) Name() string     { return "duplicates" }
func (*duplicatesCmd) Synopsis() string { return "list CSV positions already held in a portfolio" }
func (*duplicatesCmd) Usage() string {
	return `folio duplicates -into <portfolio.json> <file.csv>
`
}

func (c *duplicatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.into, "into", "portfolio.json", "portfolio file to compare against")
}

func (c *duplicatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text, err := readCSV(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading CSV: %v\n", err)
		return subcommands.ExitUsageError
	}

	ids, clock := models.UUIDGenerator{}, models.SystemClock{}
	portfolio, err := loadPortfolio(c.into, ids, clock)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	preview := importer.NewService(ids, clock).Preview(portfolio, text)
	if err := preview.Parse.FileError(); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	if len(preview.Duplicates) == 0 {
		fmt.Fprintln(stdout, "No duplicates")
		return subcommands.ExitSuccess
	}
	for _, d := range preview.Duplicates {
		fmt.Fprintf(stdout, "%s\t%s\t%d held\n", d.AccountName, d.Symbol, d.ExistingCount)
	}
	return subcommands.ExitSuccess
}

// exportCmd writes a JSON portfolio file as CSV.
type exportCmd struct {
	from     string
	output   string
	provider string
	offline  bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a portfolio as CSV" }
func (*exportCmd) Usage() string {
	return `folio export -from <portfolio.json> [-o <file.csv>] [-provider mock|yahoo] [-offline]

  Writes stored prices by default. With -provider, market-traded positions
  are priced from that quote source instead; -offline turns quoting back off.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "portfolio.json", "portfolio file to export")
	f.StringVar(&c.output, "o", "", "output file (default stdout)")
	f.StringVar(&c.provider, "provider", "", "quote provider for market-traded positions (mock or yahoo)")
	f.BoolVar(&c.offline, "offline", false, "skip quote lookups even when -provider is set")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	provider := marketdata.ParseProvider(c.provider)
	if provider == marketdata.ProviderNone && c.provider != "" && c.provider != string(marketdata.ProviderNone) {
		fmt.Fprintf(stderr, "Unknown provider %q\n", c.provider)
		return subcommands.ExitUsageError
	}

	clock := models.SystemClock{}
	portfolio, err := loadPortfolio(c.from, models.UUIDGenerator{}, clock)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	var lookup exporter.PriceLookup
	prices := marketdata.NewService(marketdata.Config{Provider: provider, Clock: clock})
	if prices.Enabled() && !c.offline {
		if err := prices.Prefetch(ctx, portfolio); err != nil {
			fmt.Fprintf(stderr, "Warning: quotes unavailable, using stored prices: %v\n", err)
		}
		lookup = prices
	}

	csv := exporter.Export(portfolio, lookup)
	if c.output == "" {
		fmt.Fprintln(stdout, csv)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.output, []byte(csv), 0o644); err != nil {
		fmt.Fprintf(stderr, "Error writing %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// templateCmd prints the example import file.
type templateCmd struct{}

func (*templateCmd) Name() string           { return "template" }
func (*templateCmd) Synopsis() string       { return "print an example portfolio CSV file" }
func (*templateCmd) Usage() string          { return "folio template\n" }
func (*templateCmd) SetFlags(*flag.FlagSet) {}
func (*templateCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Fprintln(stdout, exporter.Template())
	return subcommands.ExitSuccess
}

func printParseResult(result *importer.ParseResult) {
	for _, e := range result.Errors {
		fmt.Fprintln(stderr, e.Error())
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(stderr, "row %d: skipped %s: %s\n", s.Row, s.Symbol, s.Reason)
	}
	if result.FileError() != nil {
		return
	}
	fmt.Fprintf(stdout, "%d valid row(s) out of %d\n", len(result.Rows), result.TotalRawRows)
	for _, t := range totalsByCurrency(result.Rows) {
		fmt.Fprintf(stdout, "  %s\t%s\n", t.Currency, t.Display())
	}
}
