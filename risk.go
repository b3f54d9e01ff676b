package folio

import "fmt"

// RiskMode is a portfolio-wide posture that tightens the allocation rules as
// portfolio health deteriorates.
//
// The mode is derived, never persisted: it is recomputed identically from the
// snapshot and closed-position history on every run, so the history stays the
// single source of truth. The cost of that choice is that one noisy bad
// period can flip the mode abruptly; smoothing/hysteresis would be a new rule
// on top, not a stored "current mode" field.
type RiskMode int

const (
	ModeNormal RiskMode = iota
	ModeCaution
	ModeDefensive
	ModeCritical
)

func (m RiskMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeCaution:
		return "CAUTION"
	case ModeDefensive:
		return "DEFENSIVE"
	case ModeCritical:
		return "CRITICAL"
	default:
		return "unknown"
	}
}

// ModeRules is the rule bundle a risk mode imposes on new capital deployment.
type ModeRules struct {
	MaxPositionPct     Percent // cap on a single position's weight
	MinCashPct         Percent // floor on the cash allocation after the run
	AggressiveAllowed  bool
	SpeculativeAllowed bool
	MaxNewPositions    int // cap on BUY_NEW actions this run
}

// Rules returns the fixed rule bundle for the mode. CRITICAL is the
// strictest, NORMAL the least strict.
func (m RiskMode) Rules() ModeRules {
	switch m {
	case ModeCritical:
		return ModeRules{MaxPositionPct: 5, MinCashPct: 40, MaxNewPositions: 1}
	case ModeDefensive:
		return ModeRules{MaxPositionPct: 7, MinCashPct: 25, MaxNewPositions: 2}
	case ModeCaution:
		return ModeRules{MaxPositionPct: 10, MinCashPct: 15, AggressiveAllowed: true, MaxNewPositions: 3}
	default:
		return ModeRules{MaxPositionPct: 15, MinCashPct: 5, AggressiveAllowed: true, SpeculativeAllowed: true, MaxNewPositions: 5}
	}
}

// minClosedForWinRate is the sample size below which the win rate is
// undefined ("insufficient data"), never zero.
const minClosedForWinRate = 5

// RiskMetrics are derived from the snapshot and closed-position sequences.
type RiskMetrics struct {
	PeakValue    Money
	CurrentValue Money
	DrawdownPct  Percent // decline from the running peak, as a positive number

	ConsecutiveLosses int
	ClosedTrades      int
	WinRate           *Percent // nil below minClosedForWinRate closed trades
}

// ComputeRiskMetrics derives the risk metrics from the ledger history.
//
// Drawdown is measured against the running maximum of the snapshot values (a
// monotonic high-water mark), never against the previous snapshot. The loss
// streak is the trailing run of closed positions with negative realized
// return, counted back from the most recent one.
func ComputeRiskMetrics(snapshots []Snapshot, closed []ClosedPosition) RiskMetrics {
	var m RiskMetrics

	for _, s := range snapshots {
		if s.Value.GreaterThan(m.PeakValue) {
			m.PeakValue = s.Value
		}
		m.CurrentValue = s.Value
	}
	if m.PeakValue.IsPositive() {
		m.DrawdownPct = Percent(m.PeakValue.Sub(m.CurrentValue).AsFloat() / m.PeakValue.AsFloat() * 100)
	}
	if m.DrawdownPct < 0 {
		m.DrawdownPct = 0
	}

	m.ClosedTrades = len(closed)
	for i := len(closed) - 1; i >= 0; i-- {
		if closed[i].ReturnPct >= 0 {
			break
		}
		m.ConsecutiveLosses++
	}

	if m.ClosedTrades >= minClosedForWinRate {
		wins := 0
		for _, c := range closed {
			if c.ReturnPct >= 0 {
				wins++
			}
		}
		rate := Percent(float64(wins) / float64(m.ClosedTrades) * 100)
		m.WinRate = &rate
	}

	return m
}

// Mode maps the metrics to a risk mode. The checks are ordered by severity,
// most severe first, first match wins: a 21% drawdown is CRITICAL no matter
// how clean the trade record is.
func (m RiskMetrics) Mode() RiskMode {
	switch {
	case m.DrawdownPct >= 20:
		return ModeCritical
	case m.DrawdownPct >= 15 || m.ConsecutiveLosses >= 4 || (m.WinRate != nil && *m.WinRate < 30):
		return ModeDefensive
	case m.DrawdownPct >= 10 || m.ConsecutiveLosses >= 3 || (m.WinRate != nil && *m.WinRate < 40):
		return ModeCaution
	default:
		return ModeNormal
	}
}

// Reasons lists the threshold breaches behind the current mode, for the run
// report.
func (m RiskMetrics) Reasons() []string {
	var reasons []string
	switch {
	case m.DrawdownPct >= 20:
		reasons = append(reasons, fmt.Sprintf("severe drawdown: %s from peak", m.DrawdownPct))
	case m.DrawdownPct >= 15:
		reasons = append(reasons, fmt.Sprintf("significant drawdown: %s from peak", m.DrawdownPct))
	case m.DrawdownPct >= 10:
		reasons = append(reasons, fmt.Sprintf("elevated drawdown: %s from peak", m.DrawdownPct))
	}
	switch {
	case m.ConsecutiveLosses >= 4:
		reasons = append(reasons, fmt.Sprintf("losing streak: %d consecutive losses", m.ConsecutiveLosses))
	case m.ConsecutiveLosses >= 3:
		reasons = append(reasons, fmt.Sprintf("loss streak building: %d consecutive losses", m.ConsecutiveLosses))
	}
	if m.WinRate != nil {
		switch {
		case *m.WinRate < 30:
			reasons = append(reasons, fmt.Sprintf("poor win rate: %s over %d trades", *m.WinRate, m.ClosedTrades))
		case *m.WinRate < 40:
			reasons = append(reasons, fmt.Sprintf("below-average win rate: %s", *m.WinRate))
		}
	}
	return reasons
}
