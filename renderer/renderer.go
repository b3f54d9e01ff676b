// Package renderer turns engine results into markdown reports.
//
// Every renderer is a pure function from a result struct to a markdown
// string; the cmd package decides where the string goes (terminal, file,
// downstream reporter).
package renderer

import (
	"fmt"

	"github.com/mkemel/folio"
)

// na is the display value for a metric whose sample is too small to be
// meaningful.
const na = "n/a"

// pct renders an optional percentage, distinguishing "unknown" from "zero".
func pct(p *folio.Percent) string {
	if p == nil {
		return na
	}
	return p.String()
}

func signedPct(p *folio.Percent) string {
	if p == nil {
		return na
	}
	return p.SignedString()
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
