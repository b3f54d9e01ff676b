package folio

import (
	"errors"
	"fmt"
)

// ErrCorruptHistory reports a ledger file that exists but cannot be parsed
// into the ledger schema. Callers that did not opt into bootstrapping must
// treat it as fatal: silently starting from an empty ledger would erase the
// whole history on the next save.
var ErrCorruptHistory = errors.New("corrupt portfolio history")

// Lot is one add-history entry of a position: a date, the amount invested and
// the price paid on that date.
type Lot struct {
	Date   Date  `json:"date"`
	Amount Money `json:"amount"`
	Price  Money `json:"price"`
}

// Position is one currently-held instrument.
//
// CostBasis is the quantity-weighted average entry price across all lots; it
// is recomputed every time a lot is appended and never on a trim.
type Position struct {
	Symbol    string
	Quantity  Quantity
	CostBasis Money
	Opened    Date
	Adds      []Lot
	StopLoss  *Money // nil when no stop is set
	Target    *Money // nil when no target is set
	Sector    string
	Style     string
	RiskTier  string
}

// Value returns the market value of the position at the given price.
func (p *Position) Value(price Money) Money { return price.Mul(p.Quantity) }

// ClosedPosition is a terminated position (or trimmed fraction of one),
// retained for learning and reporting.
type ClosedPosition struct {
	Symbol      string
	Opened      Date
	Closed      Date
	ReturnPct   Percent
	RealizedPL  Money
	HoldingDays int
	Reason      string
	Lesson      string
}

// Snapshot is a point-in-time summary of the portfolio, one appended per run.
// Snapshots are strictly ordered by run date and never mutated after creation.
type Snapshot struct {
	RunDate      Date
	Invested     Money    // capital deployed in open positions, at cost
	Value        Money    // market value of open positions plus cash
	PL           Money    // aggregate profit and loss
	Benchmark    *Percent // benchmark return over the same horizon, nil when unavailable
	RealizedPL   Money
	UnrealizedPL Money
}

// Ledger is the full durable state of the portfolio: the open position book,
// the append-only closed-trade record, the snapshot history, and the
// uninvested cash balance.
type Ledger struct {
	Positions []Position
	Closed    []ClosedPosition
	Snapshots []Snapshot
	Cash      Money
}

// NewLedger creates an empty ledger funded with the given cash amount.
func NewLedger(cash Money) *Ledger {
	return &Ledger{Cash: cash}
}

// Position returns the open position for symbol, or nil if none is held.
func (l *Ledger) Position(symbol string) *Position {
	for i := range l.Positions {
		if l.Positions[i].Symbol == symbol {
			return &l.Positions[i]
		}
	}
	return nil
}

// Invested returns the capital currently deployed in open positions, at cost:
// the sum of every lot of every open position.
func (l *Ledger) Invested() Money {
	total := M(0, l.Cash.Currency())
	for i := range l.Positions {
		for _, lot := range l.Positions[i].Adds {
			total = total.Add(lot.Amount)
		}
	}
	return total
}

// RecentClosed returns the most recent n closed positions, newest last.
// Truncation is a presentation concern: storage keeps the full history.
func (l *Ledger) RecentClosed(n int) []ClosedPosition {
	if n <= 0 {
		return nil
	}
	if len(l.Closed) <= n {
		return l.Closed
	}
	return l.Closed[len(l.Closed)-n:]
}

// LastSnapshot returns the most recent snapshot, or nil on a fresh ledger.
func (l *Ledger) LastSnapshot() *Snapshot {
	if len(l.Snapshots) == 0 {
		return nil
	}
	return &l.Snapshots[len(l.Snapshots)-1]
}

// Open creates a new position bought at price for the given amount, drawing
// the amount from cash. The add history starts with the single opening lot.
func (l *Ledger) Open(symbol string, day Date, amount, price Money, stop, target *Money, sector, style, riskTier string) error {
	if l.Position(symbol) != nil {
		return fmt.Errorf("position %q already open", symbol)
	}
	if !amount.IsPositive() || !price.IsPositive() {
		return fmt.Errorf("open %q: amount and price must be positive", symbol)
	}
	if l.Cash.LessThan(amount) {
		return fmt.Errorf("open %q: amount %s exceeds cash %s", symbol, amount, l.Cash)
	}
	l.Cash = l.Cash.Sub(amount)
	l.Positions = append(l.Positions, Position{
		Symbol:    symbol,
		Quantity:  amount.DivPrice(price),
		CostBasis: price,
		Opened:    day,
		Adds:      []Lot{{Date: day, Amount: amount, Price: price}},
		StopLoss:  stop,
		Target:    target,
		Sector:    sector,
		Style:     style,
		RiskTier:  riskTier,
	})
	return nil
}

// AddTo appends a lot to an open position and recomputes the cost basis as
// the quantity-weighted average of all entry prices:
//
//	new_basis = (old_qty*old_basis + amount) / (old_qty + amount/price)
func (l *Ledger) AddTo(symbol string, day Date, amount, price Money) error {
	p := l.Position(symbol)
	if p == nil {
		return fmt.Errorf("no open position %q", symbol)
	}
	if !amount.IsPositive() || !price.IsPositive() {
		return fmt.Errorf("add to %q: amount and price must be positive", symbol)
	}
	if l.Cash.LessThan(amount) {
		return fmt.Errorf("add to %q: amount %s exceeds cash %s", symbol, amount, l.Cash)
	}
	bought := amount.DivPrice(price)
	cost := p.CostBasis.Mul(p.Quantity).Add(amount)
	p.Quantity = p.Quantity.Add(bought)
	p.CostBasis = cost.Div(p.Quantity)
	p.Adds = append(p.Adds, Lot{Date: day, Amount: amount, Price: price})
	l.Cash = l.Cash.Sub(amount)
	return nil
}

// Close sells a position fully at price: the proceeds go back to cash, the
// position leaves the open set, and exactly one ClosedPosition is appended
// with the realized return against the weighted-average cost basis.
func (l *Ledger) Close(symbol string, day Date, price Money, reason, lesson string) error {
	p := l.Position(symbol)
	if p == nil {
		return fmt.Errorf("no open position %q", symbol)
	}
	if !price.IsPositive() {
		return fmt.Errorf("close %q: price must be positive", symbol)
	}
	l.Cash = l.Cash.Add(price.Mul(p.Quantity))
	l.Closed = append(l.Closed, closedRecord(p, p.Quantity, day, price, reason, lesson))
	l.remove(symbol)
	return nil
}

// Trim sells the given fraction (0 < fraction < 1) of a position at price.
// Profit and loss is realized on the trimmed fraction only; the remainder
// stays open with an unchanged cost basis.
func (l *Ledger) Trim(symbol string, day Date, fraction Quantity, price Money, reason, lesson string) error {
	p := l.Position(symbol)
	if p == nil {
		return fmt.Errorf("no open position %q", symbol)
	}
	if !fraction.IsPositive() || !fraction.LessThan(Q(1)) {
		return fmt.Errorf("trim %q: fraction %s must be in (0,1)", symbol, fraction)
	}
	if !price.IsPositive() {
		return fmt.Errorf("trim %q: price must be positive", symbol)
	}
	sold := p.Quantity.Mul(fraction)
	l.Cash = l.Cash.Add(price.Mul(sold))
	l.Closed = append(l.Closed, closedRecord(p, sold, day, price, reason, lesson))
	p.Quantity = p.Quantity.Sub(sold)
	return nil
}

func closedRecord(p *Position, sold Quantity, day Date, price Money, reason, lesson string) ClosedPosition {
	ret := price.Sub(p.CostBasis).AsFloat() / p.CostBasis.AsFloat() * 100
	return ClosedPosition{
		Symbol:      p.Symbol,
		Opened:      p.Opened,
		Closed:      day,
		ReturnPct:   Percent(ret),
		RealizedPL:  price.Sub(p.CostBasis).Mul(sold),
		HoldingDays: day.DaysSince(p.Opened),
		Reason:      reason,
		Lesson:      lesson,
	}
}

func (l *Ledger) remove(symbol string) {
	for i := range l.Positions {
		if l.Positions[i].Symbol == symbol {
			l.Positions = append(l.Positions[:i], l.Positions[i+1:]...)
			return
		}
	}
}

// AppendSnapshot appends a run snapshot, enforcing the strict run-date order
// that drawdown computation relies on.
func (l *Ledger) AppendSnapshot(s Snapshot) error {
	if last := l.LastSnapshot(); last != nil && !s.RunDate.After(last.RunDate) {
		return fmt.Errorf("snapshot date %s is not after the last snapshot %s", s.RunDate, last.RunDate)
	}
	l.Snapshots = append(l.Snapshots, s)
	return nil
}

// Copy returns a deep copy of the ledger. The applier mutates a copy and only
// swaps it in when the whole batch applied cleanly.
func (l *Ledger) Copy() *Ledger {
	c := &Ledger{
		Positions: make([]Position, len(l.Positions)),
		Closed:    append([]ClosedPosition(nil), l.Closed...),
		Snapshots: make([]Snapshot, len(l.Snapshots)),
		Cash:      l.Cash,
	}
	for i, p := range l.Positions {
		p.Adds = append([]Lot(nil), p.Adds...)
		if p.StopLoss != nil {
			v := *p.StopLoss
			p.StopLoss = &v
		}
		if p.Target != nil {
			v := *p.Target
			p.Target = &v
		}
		c.Positions[i] = p
	}
	for i, s := range l.Snapshots {
		if s.Benchmark != nil {
			v := *s.Benchmark
			s.Benchmark = &v
		}
		c.Snapshots[i] = s
	}
	return c
}
