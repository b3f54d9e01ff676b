package folio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file persists the ledger as a single pretty-printed JSON document:
//
//	{
//	  "positions": [...],
//	  "closed_positions": [...],
//	  "snapshots": [...],
//	  "cash": ...
//	}
//
// Field order is fixed by the jsonObjectWriter so an unmodified ledger
// re-encodes byte-for-byte. Decoding goes through dedicated tagged structs
// (one per record) rather than tags on the domain types, so the wire schema
// is spelled out in exactly one place.

// MarshalJSON implements the json.Marshaler interface for Position.
func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", p.Symbol)
	w.Append("quantity", p.Quantity)
	w.Append("cost_basis", p.CostBasis)
	w.Append("opened_date", p.Opened)
	w.Append("add_history", p.Adds)
	w.Append("stop_loss", p.StopLoss)
	w.Append("target", p.Target)
	w.Append("sector", p.Sector)
	w.Append("style", p.Style)
	w.Append("risk_tier", p.RiskTier)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for ClosedPosition.
func (c ClosedPosition) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", c.Symbol)
	w.Append("opened_date", c.Opened)
	w.Append("closed_date", c.Closed)
	w.Append("realized_return_pct", c.ReturnPct)
	w.Append("realized_pl", c.RealizedPL)
	w.Append("holding_days", c.HoldingDays)
	w.Append("reason", c.Reason)
	w.Append("lesson", c.Lesson)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Snapshot.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("run_date", s.RunDate)
	w.Append("invested_capital", s.Invested)
	w.Append("portfolio_value", s.Value)
	w.Append("pl", s.PL)
	w.Append("benchmark_return_pct", s.Benchmark)
	w.Append("realized_pl", s.RealizedPL)
	w.Append("unrealized_pl", s.UnrealizedPL)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Ledger.
// Empty sections are written as [] so a fresh ledger still carries the full
// document shape.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	positions := l.Positions
	if positions == nil {
		positions = []Position{}
	}
	closed := l.Closed
	if closed == nil {
		closed = []ClosedPosition{}
	}
	snapshots := l.Snapshots
	if snapshots == nil {
		snapshots = []Snapshot{}
	}
	var w jsonObjectWriter
	w.Append("positions", positions)
	w.Append("closed_positions", closed)
	w.Append("snapshots", snapshots)
	w.Append("cash", l.Cash)
	return w.MarshalJSON()
}

// jposition mirrors the Position wire schema for decoding.
type jposition struct {
	Symbol   string   `json:"symbol"`
	Quantity Quantity `json:"quantity"`
	Basis    Money    `json:"cost_basis"`
	Opened   Date     `json:"opened_date"`
	Adds     []Lot    `json:"add_history"`
	StopLoss *Money   `json:"stop_loss"`
	Target   *Money   `json:"target"`
	Sector   string   `json:"sector"`
	Style    string   `json:"style"`
	RiskTier string   `json:"risk_tier"`
}

type jclosed struct {
	Symbol      string  `json:"symbol"`
	Opened      Date    `json:"opened_date"`
	Closed      Date    `json:"closed_date"`
	ReturnPct   Percent `json:"realized_return_pct"`
	RealizedPL  Money   `json:"realized_pl"`
	HoldingDays int     `json:"holding_days"`
	Reason      string  `json:"reason"`
	Lesson      string  `json:"lesson"`
}

type jsnapshot struct {
	RunDate      Date     `json:"run_date"`
	Invested     Money    `json:"invested_capital"`
	Value        Money    `json:"portfolio_value"`
	PL           Money    `json:"pl"`
	Benchmark    *Percent `json:"benchmark_return_pct"`
	RealizedPL   Money    `json:"realized_pl"`
	UnrealizedPL Money    `json:"unrealized_pl"`
}

type jledger struct {
	Positions []jposition `json:"positions"`
	Closed    []jclosed   `json:"closed_positions"`
	Snapshots []jsnapshot `json:"snapshots"`
	Cash      Money       `json:"cash"`
}

// DecodeLedger decodes a ledger document. Amounts are stamped with the given
// reporting currency. Any parse failure is reported as ErrCorruptHistory so
// the caller can decide between aborting and an explicit bootstrap.
func DecodeLedger(r io.Reader, currency string) (*Ledger, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var jl jledger
	if err := dec.Decode(&jl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}

	l := &Ledger{Cash: jl.Cash.WithCurrency(currency)}
	for _, jp := range jl.Positions {
		if jp.Symbol == "" {
			return nil, fmt.Errorf("%w: position with empty symbol", ErrCorruptHistory)
		}
		if !jp.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: position %q has non-positive quantity", ErrCorruptHistory, jp.Symbol)
		}
		p := Position{
			Symbol:    jp.Symbol,
			Quantity:  jp.Quantity,
			CostBasis: jp.Basis.WithCurrency(currency),
			Opened:    jp.Opened,
			Adds:      make([]Lot, len(jp.Adds)),
			Sector:    jp.Sector,
			Style:     jp.Style,
			RiskTier:  jp.RiskTier,
		}
		for i, lot := range jp.Adds {
			lot.Amount = lot.Amount.WithCurrency(currency)
			lot.Price = lot.Price.WithCurrency(currency)
			p.Adds[i] = lot
		}
		if jp.StopLoss != nil {
			v := jp.StopLoss.WithCurrency(currency)
			p.StopLoss = &v
		}
		if jp.Target != nil {
			v := jp.Target.WithCurrency(currency)
			p.Target = &v
		}
		l.Positions = append(l.Positions, p)
	}
	for _, jc := range jl.Closed {
		l.Closed = append(l.Closed, ClosedPosition{
			Symbol:      jc.Symbol,
			Opened:      jc.Opened,
			Closed:      jc.Closed,
			ReturnPct:   jc.ReturnPct,
			RealizedPL:  jc.RealizedPL.WithCurrency(currency),
			HoldingDays: jc.HoldingDays,
			Reason:      jc.Reason,
			Lesson:      jc.Lesson,
		})
	}
	var prev Date
	for _, js := range jl.Snapshots {
		if !prev.IsZero() && !js.RunDate.After(prev) {
			return nil, fmt.Errorf("%w: snapshots out of order at %s", ErrCorruptHistory, js.RunDate)
		}
		prev = js.RunDate
		l.Snapshots = append(l.Snapshots, Snapshot{
			RunDate:      js.RunDate,
			Invested:     js.Invested.WithCurrency(currency),
			Value:        js.Value.WithCurrency(currency),
			PL:           js.PL.WithCurrency(currency),
			Benchmark:    js.Benchmark,
			RealizedPL:   js.RealizedPL.WithCurrency(currency),
			UnrealizedPL: js.UnrealizedPL.WithCurrency(currency),
		})
	}
	return l, nil
}

// EncodeLedger writes the ledger document in its canonical, pretty-printed
// form.
func EncodeLedger(w io.Writer, l *Ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
