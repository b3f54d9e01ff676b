package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// DecodePrices reads a market snapshot produced by the quote collaborator.
//
// Two framings are accepted: a flat object of symbol to price, or the same
// object under a "prices" key with an optional "benchmark_return_pct"
// sibling. The returned Percent is nil when the snapshot carries no
// benchmark.
func DecodePrices(r io.Reader, currency string) (PriceMap, *Percent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading prices: %w", err)
	}

	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, nil, fmt.Errorf("prices snapshot is not valid JSON: %w", err)
	}

	var benchmark *Percent
	table := jobj
	if jval, err := jsonpath.Get("$.prices", jobj); err == nil {
		table = jval
		if jb, err := jsonpath.Get("$.benchmark_return_pct", jobj); err == nil {
			if f, ok := jb.(float64); ok {
				p := Percent(f)
				benchmark = &p
			}
		}
	}

	entries, ok := table.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("prices snapshot is not an object (got %T)", table)
	}

	prices := make(PriceMap, len(entries))
	for symbol, jprice := range entries {
		f, ok := jprice.(float64)
		if !ok {
			return nil, nil, fmt.Errorf("price for %q is not a number (got %T)", symbol, jprice)
		}
		if f <= 0 {
			return nil, nil, fmt.Errorf("price for %q is not positive: %v", symbol, f)
		}
		prices[strings.ToUpper(symbol)] = M(f, currency)
	}
	return prices, benchmark, nil
}
