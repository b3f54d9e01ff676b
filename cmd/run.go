package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/mkemel/folio"
	"github.com/mkemel/folio/renderer"
)

type runCmd struct {
	date      string
	prices    string
	proposal  string
	bootstrap bool
	dryRun    bool
}

func (*runCmd) Name() string { return "run" }
func (*runCmd) Synopsis() string {
	return "perform one engine pass: value, derive risk mode, validate, apply, snapshot"
}
func (*runCmd) Usage() string {
	return `run -prices <file> [-proposal <file>] [-d <date>] [-bootstrap] [-n]

  Values the portfolio against the market snapshot, derives the risk mode
  from the run history, validates the proposed actions against the
  allocation rules, applies the accepted ones, and records the run
  snapshot. The history file is rewritten only when the whole pass
  succeeds.

Usage Examples:
# Weekly run with an advisor proposal.
$ folio run -prices prices.json -proposal proposal.json

# First run ever, funding the ledger with the starting cash.
$ folio run -prices prices.json -bootstrap

`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Run date (YYYY-MM-DD), defaults to today.")
	f.StringVar(&c.prices, "prices", "", "Market snapshot file from the quote collaborator (required).")
	f.StringVar(&c.proposal, "proposal", "", "Advisor proposal file. When absent or unreadable the run carries the book forward unchanged.")
	f.BoolVar(&c.bootstrap, "bootstrap", false, "Create the history file with the starting cash if it does not exist.")
	f.BoolVar(&c.dryRun, "n", false, "Report what the run would do without rewriting the history file.")
}

func (c *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.prices == "" {
		fmt.Fprintln(os.Stderr, "-prices is required")
		return subcommands.ExitUsageError
	}

	in := folio.RunInput{}
	if c.date != "" {
		day, err := folio.ParseDate(c.date)
		if err != nil {
			return fail(fmt.Errorf("parsing run date: %w", err))
		}
		in.Date = day
	}

	pf, err := os.Open(c.prices)
	if err != nil {
		return fail(fmt.Errorf("opening prices file: %w", err))
	}
	in.Prices, in.Benchmark, err = folio.DecodePrices(pf, *currency)
	pf.Close()
	if err != nil {
		return fail(err)
	}

	// A missing or malformed proposal is an upstream failure, not ours. The
	// run degrades to a no-changes pass so the snapshot history stays
	// continuous.
	if c.proposal != "" {
		rf, err := os.Open(c.proposal)
		if err != nil {
			log.Printf("warning: proposal unavailable, carrying book forward unchanged: %v", err)
		} else {
			in.Proposal, err = folio.DecodeProposal(rf, *currency)
			rf.Close()
			if err != nil {
				log.Printf("warning: proposal unreadable, carrying book forward unchanged: %v", err)
				in.Proposal = nil
			}
		}
	}

	store, ledger, err := loadLedger(c.bootstrap)
	if err != nil {
		return fail(err)
	}
	defer store.Unlock()

	res, err := folio.Run(ledger, appConfig(), in)
	if err != nil {
		return fail(err)
	}

	if !c.dryRun {
		if err := store.Save(res.Ledger); err != nil {
			return fail(fmt.Errorf("saving history file: %w", err))
		}
	}

	printMarkdown(renderer.RunMarkdown(res))

	if c.dryRun {
		fmt.Fprintln(os.Stderr, "Dry run: history file not modified.")
	}
	return subcommands.ExitSuccess
}
