package renderer

import (
	"bytes"
	"fmt"

	"github.com/mkemel/folio"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the run history and, when requested, the most
// recent closed trades.
func HistoryMarkdown(snapshots []folio.Snapshot, closed []folio.ClosedPosition) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Run History")

	if len(snapshots) == 0 {
		doc.PlainText("No runs recorded yet.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Date", "Invested", "Value", "P/L", "Benchmark"},
		}
		for _, s := range snapshots {
			table.Rows = append(table.Rows, []string{
				s.RunDate.String(),
				s.Invested.String(),
				s.Value.String(),
				s.PL.SignedString(),
				signedPct(s.Benchmark),
			})
		}
		doc.Table(table)
	}

	if len(closed) > 0 {
		doc.H2("Closed Positions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignLeft,
			},
			Header: []string{"Symbol", "Closed", "Return", "Realized P/L", "Held", "Reason"},
		}
		for _, c := range closed {
			table.Rows = append(table.Rows, []string{
				c.Symbol,
				c.Closed.String(),
				c.ReturnPct.SignedString(),
				c.RealizedPL.SignedString(),
				days(c.HoldingDays),
				c.Reason,
			})
		}
		doc.Table(table)

		var lessons []string
		for _, c := range closed {
			if c.Lesson != "" {
				lessons = append(lessons, fmt.Sprintf("%s: %s", c.Symbol, c.Lesson))
			}
		}
		if len(lessons) > 0 {
			doc.H2("Lessons")
			doc.BulletList(lessons...)
		}
	}

	return doc.String()
}
