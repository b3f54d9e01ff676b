package folio

import "fmt"

// RunInput is everything one engine run consumes from external
// collaborators: current prices, the benchmark return over the period, and
// the advisor's proposed action set. Proposal may be nil when the advisory
// step failed; the run then carries the ledger forward unchanged.
type RunInput struct {
	Date      Date
	Prices    PriceMap
	Benchmark *Percent
	Proposal  []Action
}

// RunResult is the record of one engine run, for the reporting collaborator.
type RunResult struct {
	Report     *PerformanceReport // valuation of the ledger as loaded
	Metrics    RiskMetrics
	Mode       RiskMode
	Rules      ModeRules
	Validation ValidationResult
	Ledger     *Ledger // post-application ledger, snapshot appended
	NoChanges  bool    // true when no action mutated the book
}

// Run performs one full engine pass over the ledger:
//
//	performance → risk mode → validation → application → snapshot
//
// The input ledger is not mutated; the returned RunResult.Ledger is what the
// caller saves. Any error leaves the caller's state fit to retry.
func Run(l *Ledger, cfg Config, in RunInput) (*RunResult, error) {
	day := in.Date
	if day.IsZero() {
		day = Today()
	}
	if last := l.LastSnapshot(); last != nil && !day.After(last.RunDate) {
		return nil, fmt.Errorf("run date %s is not after the last run %s", day, last.RunDate)
	}

	res := &RunResult{
		Report:  Compute(l, in.Prices, in.Benchmark, day),
		Metrics: ComputeRiskMetrics(l.Snapshots, l.Closed),
	}
	res.Mode = res.Metrics.Mode()
	res.Rules = res.Mode.Rules()

	res.Validation = Validate(l, in.Prices, cfg, res.Rules, in.Proposal)

	applied, changed, err := Apply(l, res.Validation.Accepted, in.Prices, day)
	if err != nil {
		return nil, err
	}
	res.Ledger = applied
	res.NoChanges = !changed

	// The snapshot records the post-action state, so next run's drawdown and
	// benchmark comparison start from what was actually held.
	snap := Compute(applied, in.Prices, in.Benchmark, day).Snapshot()
	if err := applied.AppendSnapshot(snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrApply, err)
	}
	return res, nil
}
