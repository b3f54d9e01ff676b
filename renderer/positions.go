package renderer

import (
	"bytes"
	"fmt"

	"github.com/mkemel/folio"
	md "github.com/nao1215/markdown"
)

// PositionsMarkdown renders the open book valued by a performance report.
func PositionsMarkdown(r *folio.PerformanceReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Positions on %s", r.Date))

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
			{"Invested (at cost)", r.Invested.String()},
			{"Market Value", r.MarketValue.String()},
		},
	})

	if len(r.Positions) == 0 {
		doc.PlainText("No open positions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Symbol", "Quantity", "Basis", "Price", "Value", "P/L", "Return"},
	}
	for _, p := range r.Positions {
		price, ret := p.Price.String(), p.ReturnPct.SignedString()
		if p.PriceUnavailable {
			price, ret = na, na
		}
		table.Rows = append(table.Rows, []string{
			p.Symbol,
			p.Quantity.String(),
			p.CostBasis.String(),
			price,
			p.Value.String(),
			p.UnrealizedPL.SignedString(),
			ret,
		})
	}
	doc.Table(table)

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

	return doc.String()
}

// Alert renders one stop or target breach as a single line.
func Alert(a folio.Alert) string {
	switch a.Kind {
	case folio.AlertStopLoss:
		return fmt.Sprintf("%s STOP LOSS hit: price %s at or below stop %s", a.Symbol, a.Price, a.Trigger)
	case folio.AlertTarget:
		return fmt.Sprintf("%s TARGET reached: price %s at or above target %s", a.Symbol, a.Price, a.Trigger)
	}
	return fmt.Sprintf("%s %s at %s", a.Symbol, a.Kind, a.Price)
}
