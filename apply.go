package folio

import (
	"errors"
	"fmt"
)

// ErrApply reports a structural error while applying an accepted action. The
// whole batch is abandoned: the caller's ledger is untouched and nothing may
// be committed for this run.
var ErrApply = errors.New("apply failed")

// Apply executes the accepted actions against a copy of the ledger and
// returns it. The input ledger is never mutated: the caller commits the copy
// through the store only when Apply succeeds, so a run either applies the
// full batch or none of it.
//
// An empty (or all-HOLD) action set is the upstream-failure fallback: the
// copy is the carried-forward ledger, changed reports false, and the run
// still commits so the snapshot history advances.
func Apply(l *Ledger, accepted []Action, prices PriceMap, day Date) (applied *Ledger, changed bool, err error) {
	applied = l.Copy()

	for _, a := range accepted {
		if a.Kind == ActionHold {
			continue
		}
		price, ok := prices[a.Symbol]
		if !ok {
			// The validator only accepts priced actions; reaching this is a
			// structural error, not a degradation.
			return nil, false, fmt.Errorf("%w: no price for accepted action %s %s", ErrApply, a.Kind, a.Symbol)
		}

		switch a.Kind {
		case ActionSell:
			err = applied.Close(a.Symbol, day, price, a.Reason, a.Lesson)
		case ActionTrim:
			err = applied.Trim(a.Symbol, day, a.Fraction, price, a.Reason, a.Lesson)
		case ActionAdd:
			err = applied.AddTo(a.Symbol, day, a.Amount, price)
		case ActionBuyNew:
			err = applied.Open(a.Symbol, day, a.Amount, price, a.StopLoss, a.Target, a.Sector, a.Style, a.RiskTier)
		default:
			err = fmt.Errorf("unknown action %q", a.Kind)
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrApply, err)
		}
		changed = true
	}
	return applied, changed, nil
}
