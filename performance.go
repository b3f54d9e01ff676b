package folio

// PriceMap maps a symbol to its current market price. It is supplied by an
// external market-data collaborator; this engine never fetches quotes.
type PriceMap map[string]Money

// AlertKind identifies which configured level a position's price crossed.
type AlertKind string

const (
	AlertStopLoss AlertKind = "STOP_LOSS" // price at or below the stop
	AlertTarget   AlertKind = "TARGET"    // price at or above the target
)

// Alert reports a stop-loss or target breach on one position.
type Alert struct {
	Symbol  string
	Kind    AlertKind
	Trigger Money // the configured stop or target level
	Price   Money // the current price that crossed it
}

// PositionPerf is the valuation of one open position.
type PositionPerf struct {
	Symbol       string
	Quantity     Quantity
	CostBasis    Money
	Price        Money
	Value        Money
	UnrealizedPL Money
	ReturnPct    Percent // change since the position opened, against cost basis
	HoldingDays  int

	// PriceUnavailable flags a symbol absent from the price map. The
	// position is carried at cost so the aggregates stay defined, and the
	// per-position market fields must not be trusted.
	PriceUnavailable bool
}

// PerformanceReport is the output of one valuation pass over the ledger.
type PerformanceReport struct {
	Date      Date
	Positions []PositionPerf
	Alerts    []Alert
	Missing   []string // symbols degraded with PriceUnavailable

	Cash         Money
	Invested     Money // open positions at cost
	MarketValue  Money // open positions at market
	TotalValue   Money // market value plus cash
	UnrealizedPL Money
	RealizedPL   Money // lifetime, from the closed-position record
	PL           Money // realized + unrealized

	SinceInceptionPct Percent

	// Benchmark-relative fields are nil, never zero, when the benchmark is
	// unavailable: a zero here would silently claim zero alpha.
	PeriodReturnPct *Percent // vs the previous snapshot, nil on a first run
	Benchmark       *Percent
	AlphaPct        *Percent
}

// Compute values every open position against the supplied prices and detects
// stop-loss and target breaches.
//
// A symbol missing from the price map degrades only that position
// (PriceUnavailable, carried at cost); it never aborts the rest of the
// portfolio. The benchmark return is an input from the market-data
// collaborator; when it is absent the benchmark-relative outputs stay nil.
func Compute(l *Ledger, prices PriceMap, benchmark *Percent, day Date) *PerformanceReport {
	cur := l.Cash.Currency()
	r := &PerformanceReport{
		Date:      day,
		Cash:      l.Cash,
		Benchmark: benchmark,
	}

	invested := M(0, cur)
	market := M(0, cur)
	for i := range l.Positions {
		p := &l.Positions[i]
		cost := p.CostBasis.Mul(p.Quantity)

		price, ok := prices[p.Symbol]
		if !ok {
			price = p.CostBasis
			r.Missing = append(r.Missing, p.Symbol)
		}
		value := p.Value(price)
		pl := value.Sub(cost)
		var ret Percent
		if !cost.IsZero() {
			ret = Percent(pl.AsFloat() / cost.AsFloat() * 100)
		}

		perf := PositionPerf{
			Symbol:           p.Symbol,
			Quantity:         p.Quantity,
			CostBasis:        p.CostBasis,
			Price:            price,
			Value:            value,
			UnrealizedPL:     pl,
			ReturnPct:        ret,
			HoldingDays:      day.DaysSince(p.Opened),
			PriceUnavailable: !ok,
		}
		r.Positions = append(r.Positions, perf)

		invested = invested.Add(cost)
		market = market.Add(value)

		if !ok {
			continue // no genuine price, no trigger check
		}
		if p.StopLoss != nil && price.LessThanOrEqual(*p.StopLoss) {
			r.Alerts = append(r.Alerts, Alert{Symbol: p.Symbol, Kind: AlertStopLoss, Trigger: *p.StopLoss, Price: price})
		} else if p.Target != nil && price.GreaterThanOrEqual(*p.Target) {
			r.Alerts = append(r.Alerts, Alert{Symbol: p.Symbol, Kind: AlertTarget, Trigger: *p.Target, Price: price})
		}
	}

	r.Invested = invested
	r.MarketValue = market
	r.TotalValue = market.Add(l.Cash)
	r.UnrealizedPL = market.Sub(invested)

	realized := M(0, cur)
	for _, c := range l.Closed {
		realized = realized.Add(c.RealizedPL)
	}
	r.RealizedPL = realized
	r.PL = r.UnrealizedPL.Add(realized)

	// The inception base is backed out of the lifetime P/L, so it stays
	// correct whether or not a snapshot history exists yet.
	base := r.TotalValue.Sub(r.PL)
	if base.IsPositive() {
		r.SinceInceptionPct = Percent(r.PL.AsFloat() / base.AsFloat() * 100)
	}

	if last := l.LastSnapshot(); last != nil && last.Value.IsPositive() {
		period := Percent(r.TotalValue.Sub(last.Value).AsFloat() / last.Value.AsFloat() * 100)
		r.PeriodReturnPct = &period
		if benchmark != nil {
			alpha := period - *benchmark
			r.AlphaPct = &alpha
		}
	}

	return r
}

// Snapshot turns the report into the immutable record appended to the ledger
// history at the end of a run.
func (r *PerformanceReport) Snapshot() Snapshot {
	return Snapshot{
		RunDate:      r.Date,
		Invested:     r.Invested,
		Value:        r.TotalValue,
		PL:           r.PL,
		Benchmark:    r.Benchmark,
		RealizedPL:   r.RealizedPL,
		UnrealizedPL: r.UnrealizedPL,
	}
}
