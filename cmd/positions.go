package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mkemel/folio"
	"github.com/mkemel/folio/renderer"
)

type positionsCmd struct {
	prices string
	date   string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the open positions and their valuation" }
func (*positionsCmd) Usage() string {
	return `positions [-prices <file>] [-d <date>]

  Displays the open book. With a market snapshot, positions are valued at
  market and stop/target breaches are reported; without one, positions are
  carried at cost.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prices, "prices", "", "Market snapshot file. Positions are carried at cost without it.")
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD), defaults to today.")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day := folio.Today()
	if c.date != "" {
		var err error
		day, err = folio.ParseDate(c.date)
		if err != nil {
			return fail(fmt.Errorf("parsing date: %w", err))
		}
	}

	var prices folio.PriceMap
	var benchmark *folio.Percent
	if c.prices != "" {
		pf, err := os.Open(c.prices)
		if err != nil {
			return fail(fmt.Errorf("opening prices file: %w", err))
		}
		prices, benchmark, err = folio.DecodePrices(pf, *currency)
		pf.Close()
		if err != nil {
			return fail(err)
		}
	}

	store, ledger, err := loadLedger(false)
	if err != nil {
		return fail(err)
	}
	store.Unlock()

	report := folio.Compute(ledger, prices, benchmark, day)
	printMarkdown(renderer.PositionsMarkdown(report))
	return subcommands.ExitSuccess
}
