package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/findosh/folio/internal/models"
	"github.com/google/subcommands"
)

// showCmd prints the accounts and positions of a JSON portfolio file.
type showCmd struct {
	from string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "list the accounts and positions of a portfolio" }
func (*showCmd) Usage() string {
	return `folio show -from <portfolio.json>
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "portfolio.json", "portfolio file to list")
}

func (c *showCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	portfolio, err := loadPortfolio(c.from, models.UUIDGenerator{}, models.SystemClock{})
	if err != nil {
		fmt.Fprintf(stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, a := range portfolio.Accounts {
		fmt.Fprintf(stdout, "%s (%s)\n", a.Name, a.Type.DisplayName())
		for _, p := range a.Positions {
			line := fmt.Sprintf("  %s\t%s\t%s %s", p.Symbol, p.DisplayName(), p.Units.String(), p.Currency)
			if notes := sideNotes(p); len(notes) > 0 {
				line += "\t[" + strings.Join(notes, ", ") + "]"
			}
			fmt.Fprintln(stdout, line)
		}
	}
	return subcommands.ExitSuccess
}

func sideNotes(p *models.Position) []string {
	var notes []string
	if m := p.Mortgage(); m != nil {
		if m.HasRepayment() {
			notes = append(notes, "repayment")
		}
		if m.IsSharedOwnership() {
			notes = append(notes, "shared ownership")
		}
	}
	if d := p.Debt(); d != nil && d.IsPaidOff() {
		notes = append(notes, "paid off")
	}
	return notes
}
