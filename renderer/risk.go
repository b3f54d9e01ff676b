package renderer

import (
	"bytes"
	"fmt"

	"github.com/mkemel/folio"
	md "github.com/nao1215/markdown"
)

// RiskMarkdown renders the risk posture: the derived metrics, the resulting
// mode, and the constraints that mode puts on the next action set.
func RiskMarkdown(m folio.RiskMetrics, mode folio.RiskMode) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Risk Mode: %s", mode))

	if reasons := m.Reasons(); len(reasons) > 0 {
		doc.BulletList(reasons...)
	} else {
		doc.PlainText("All risk metrics within normal bounds.")
	}

	doc.H2("Metrics")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Peak value", m.PeakValue.String()},
			{"Current value", m.CurrentValue.String()},
			{"Drawdown", m.DrawdownPct.String()},
			{"Consecutive losses", fmt.Sprintf("%d", m.ConsecutiveLosses)},
			{"Closed trades", fmt.Sprintf("%d", m.ClosedTrades)},
			{"Win rate", pct(m.WinRate)},
		},
	})

	rules := mode.Rules()
	doc.H2("Mode Constraints")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Rule", "Value"},
		Rows: [][]string{
			{"Max position weight", rules.MaxPositionPct.String()},
			{"Min cash reserve", rules.MinCashPct.String()},
			{"Aggressive tier", allowed(rules.AggressiveAllowed)},
			{"Speculative tier", allowed(rules.SpeculativeAllowed)},
			{"New positions per run", fmt.Sprintf("%d", rules.MaxNewPositions)},
		},
	})

	return doc.String()
}

func allowed(b bool) string {
	if b {
		return "allowed"
	}
	return "blocked"
}
