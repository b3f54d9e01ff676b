package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/mkemel/folio/renderer"
)

type historyCmd struct {
	closed int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the run history and recent closed positions" }
func (*historyCmd) Usage() string {
	return `history [-closed <n>]

  Displays every recorded run snapshot and the n most recently closed
  positions with their retained lessons.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.closed, "closed", 10, "Number of recent closed positions to show; 0 hides them.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, ledger, err := loadLedger(false)
	if err != nil {
		return fail(err)
	}
	store.Unlock()

	printMarkdown(renderer.HistoryMarkdown(ledger.Snapshots, ledger.RecentClosed(c.closed)))
	return subcommands.ExitSuccess
}
