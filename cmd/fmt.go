package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the history file in its canonical form"
}
func (*fmtCmd) Usage() string {
	return `folio fmt

  Validates the history file and rewrites it in the canonical encoding:
  fixed field order, two-space indentation, amounts as bare decimals. A
  file that does not decode is left untouched.

Usage Examples:
# Rewrites the default history file in place.
$ folio fmt

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, ledger, err := loadLedger(false)
	if err != nil {
		return fail(err)
	}
	defer store.Unlock()

	if err := store.Save(ledger); err != nil {
		return fail(fmt.Errorf("rewriting history file: %w", err))
	}
	fmt.Fprintf(os.Stderr, "Formatted %s.\n", store.Path())
	return subcommands.ExitSuccess
}
