package renderer

import (
	"bytes"
	"fmt"

	"github.com/mkemel/folio"
	md "github.com/nao1215/markdown"
)

// RunMarkdown renders the full record of one engine run.
func RunMarkdown(res *folio.RunResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	r := res.Report
	doc.H1(fmt.Sprintf("Portfolio Run %s", r.Date))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Total Value"),
			md.Bold(r.TotalValue.String()),
		},
		Rows: [][]string{
			{"Cash", r.Cash.String()},
			{"Market Value", r.MarketValue.String()},
			{"Unrealized P/L", r.UnrealizedPL.SignedString()},
			{"Realized P/L", r.RealizedPL.SignedString()},
			{"Since inception", r.SinceInceptionPct.SignedString()},
			{"Period return", signedPct(r.PeriodReturnPct)},
			{"Benchmark", signedPct(r.Benchmark)},
			{"Alpha", signedPct(r.AlphaPct)},
		},
	})

	if len(r.Alerts) > 0 {
		doc.H2("Alerts")
		var alerts []string
		for _, a := range r.Alerts {
			alerts = append(alerts, Alert(a))
		}
		doc.BulletList(alerts...)
	}
	if len(r.Missing) > 0 {
		doc.PlainText(fmt.Sprintf("No price for: %v (carried at cost).", r.Missing))
	}

	doc.H2(fmt.Sprintf("Risk Mode: %s", res.Mode))
	if reasons := res.Metrics.Reasons(); len(reasons) > 0 {
		doc.BulletList(reasons...)
	} else {
		doc.PlainText("All risk metrics within normal bounds.")
	}

	if len(res.Validation.Violations) > 0 {
		doc.H2("Rejected Actions")
		var lines []string
		for _, v := range res.Validation.Violations {
			lines = append(lines, fmt.Sprintf("%s [%s] %s", v.Symbol, v.Code, v.Msg))
		}
		doc.BulletList(lines...)
	}

	doc.H2("Actions")
	if res.NoChanges {
		doc.PlainText("No changes. Book carried forward unchanged.")
	} else {
		var lines []string
		for _, a := range res.Validation.Accepted {
			if a.Kind == folio.ActionHold {
				continue
			}
			lines = append(lines, action(a))
		}
		doc.OrderedList(lines...)
	}

	return doc.String()
}

func action(a folio.Action) string {
	switch a.Kind {
	case folio.ActionSell:
		return fmt.Sprintf("SELL %s: %s", a.Symbol, a.Reason)
	case folio.ActionTrim:
		return fmt.Sprintf("TRIM %s by %s: %s", a.Symbol, folio.Percent(a.Fraction.AsFloat()*100), a.Reason)
	case folio.ActionAdd:
		return fmt.Sprintf("ADD %s to %s: %s", a.Amount, a.Symbol, a.Reason)
	case folio.ActionBuyNew:
		return fmt.Sprintf("BUY %s of %s (%s, %s): %s", a.Amount, a.Symbol, a.Sector, a.RiskTier, a.Reason)
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Symbol)
}
