// Package cmd implements the CLI application to manage the portfolio
// history and its risk engine.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mkemel/folio"
)

// Register the subcommands.
// A main package calls Register() to offer subcommands, and Execute() on the
// user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&runCmd{}, "engine")
	c.Register(&fmtCmd{}, "engine")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&riskCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "portfolio.json", "Path to the portfolio history file (JSON format)")
var currency = flag.String("currency", folio.DefaultCurrency, "Reporting currency of the portfolio")

func appConfig() folio.Config {
	cfg := folio.DefaultConfig()
	cfg.Currency = *currency
	cfg.StartingCash = cfg.StartingCash.WithCurrency(*currency)
	return cfg
}

// loadLedger opens the history file under its advisory lock and returns the
// ledger with the held store. The caller must Unlock the store.
func loadLedger(bootstrap bool) (*folio.Store, *folio.Ledger, error) {
	cfg := appConfig()
	store := folio.NewStore(*ledgerFile, cfg.Currency)
	if err := store.Lock(); err != nil {
		return nil, nil, fmt.Errorf("locking history file %q: %w", store.Path(), err)
	}
	ledger, err := store.Load(bootstrap, cfg.StartingCash)
	if err != nil {
		store.Unlock()
		return nil, nil, err
	}
	return store, ledger, nil
}

// fail prints the error and maps it to the exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
