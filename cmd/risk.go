package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/mkemel/folio"
	"github.com/mkemel/folio/renderer"
)

type riskCmd struct{}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "display the current risk metrics and the derived mode" }
func (*riskCmd) Usage() string {
	return `risk

  Derives the risk metrics from the run history (drawdown from peak, loss
  streak, win rate) and shows the resulting risk mode with the limits it
  puts on the next action set.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {}

func (c *riskCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, ledger, err := loadLedger(false)
	if err != nil {
		return fail(err)
	}
	store.Unlock()

	metrics := folio.ComputeRiskMetrics(ledger.Snapshots, ledger.Closed)
	printMarkdown(renderer.RiskMarkdown(metrics, metrics.Mode()))
	return subcommands.ExitSuccess
}
