package folio

import "fmt"

// ActionKind is the verb of a proposed portfolio action.
type ActionKind string

const (
	ActionHold   ActionKind = "HOLD"
	ActionSell   ActionKind = "SELL"
	ActionTrim   ActionKind = "TRIM"
	ActionAdd    ActionKind = "ADD"
	ActionBuyNew ActionKind = "BUY_NEW"
)

// Action is one proposed portfolio move from the advisory collaborator.
type Action struct {
	Symbol string
	Kind   ActionKind

	Fraction Quantity // TRIM: fraction of the position to sell, in (0,1)
	Amount   Money    // ADD, BUY_NEW: fresh capital to deploy

	TargetWeightPct Percent // advisor's intended weight, advisory only
	Reason          string  // rationale; becomes the closing reason on SELL/TRIM
	Lesson          string  // retained lesson note on SELL/TRIM

	// BUY_NEW metadata for the position to open.
	Sector   string
	Style    string
	RiskTier string
	StopLoss *Money
	Target   *Money
}

// Hold returns the safe no-op this action downgrades to when it violates a
// rule.
func (a Action) Hold() Action {
	return Action{Symbol: a.Symbol, Kind: ActionHold, Reason: a.Reason}
}

// Violation is one structured rule breach. Violations are values collected
// alongside the accepted actions, never errors: a bad action downgrades, it
// does not abort the batch.
type Violation struct {
	Symbol string
	Code   string
	Msg    string
}

// ValidationResult is the outcome of validating a proposal: the action
// sequence with violated actions downgraded to HOLD, plus the violations.
type ValidationResult struct {
	Accepted   []Action
	Violations []Violation
}

// add records a violation and downgrades the action to HOLD.
func (r *ValidationResult) add(a Action, code, msg string) {
	r.Violations = append(r.Violations, Violation{Symbol: a.Symbol, Code: code, Msg: msg})
	r.Accepted = append(r.Accepted, a.Hold())
}

// tierAllowed checks a risk tier against the mode's gates.
func tierAllowed(rules ModeRules, tier string) bool {
	switch tier {
	case "aggressive":
		return rules.AggressiveAllowed
	case "speculative":
		return rules.SpeculativeAllowed
	default:
		return true
	}
}

// Validate checks a proposed action sequence against the allocation rules and
// the active risk mode's bundle.
//
// Actions are checked in proposal order against the *realized* allocation: a
// tentative book (position values, sector totals, cash) advances with each
// accepted action, so two ADDs that are each under the cap but cumulatively
// over it cannot both pass. The per-position cap is the stricter of the
// global per-stock cap and the mode's max position weight.
func Validate(l *Ledger, prices PriceMap, cfg Config, rules ModeRules, proposal []Action) ValidationResult {
	cur := l.Cash.Currency()

	// Tentative book, valued at current prices (cost where the price is
	// missing, matching the performance pass).
	values := make(map[string]Money, len(l.Positions))
	sectors := make(map[string]Money)
	sectorOf := make(map[string]string, len(l.Positions))
	priced := make(map[string]bool, len(l.Positions))
	total := l.Cash
	for i := range l.Positions {
		p := &l.Positions[i]
		price, ok := prices[p.Symbol]
		if !ok {
			price = p.CostBasis
		}
		v := p.Value(price)
		values[p.Symbol] = v
		sectors[p.Sector] = sectors[p.Sector].Add(v)
		sectorOf[p.Symbol] = p.Sector
		priced[p.Symbol] = ok
		total = total.Add(v)
	}
	cash := l.Cash
	count := len(l.Positions)
	startCount := count
	newPositions := 0

	posCap := cfg.StockCapPct
	if rules.MaxPositionPct < posCap {
		posCap = rules.MaxPositionPct
	}

	pct := func(m Money) Percent {
		if !total.IsPositive() {
			return 0
		}
		return Percent(m.AsFloat() / total.AsFloat() * 100)
	}

	var res ValidationResult
	for _, a := range proposal {
		switch a.Kind {
		case ActionHold:
			res.Accepted = append(res.Accepted, a)

		case ActionSell:
			if _, held := values[a.Symbol]; !held {
				res.add(a, "UNKNOWN_POSITION", fmt.Sprintf("%s: no open position to sell", a.Symbol))
				continue
			}
			if !priced[a.Symbol] {
				res.add(a, "PRICE_UNAVAILABLE", fmt.Sprintf("%s: cannot sell without a market price", a.Symbol))
				continue
			}
			// The floor only blocks crossing downward: a portfolio already
			// under the minimum may still reduce risk.
			if startCount >= cfg.MinPositions && count-1 < cfg.MinPositions {
				res.add(a, "MIN_POSITIONS", fmt.Sprintf("%s: selling drops position count below minimum %d", a.Symbol, cfg.MinPositions))
				continue
			}
			v := values[a.Symbol]
			cash = cash.Add(v)
			sectors[sectorOf[a.Symbol]] = sectors[sectorOf[a.Symbol]].Sub(v)
			delete(values, a.Symbol)
			count--
			res.Accepted = append(res.Accepted, a)

		case ActionTrim:
			if _, held := values[a.Symbol]; !held {
				res.add(a, "UNKNOWN_POSITION", fmt.Sprintf("%s: no open position to trim", a.Symbol))
				continue
			}
			if !priced[a.Symbol] {
				res.add(a, "PRICE_UNAVAILABLE", fmt.Sprintf("%s: cannot trim without a market price", a.Symbol))
				continue
			}
			if !a.Fraction.IsPositive() || !a.Fraction.LessThan(Q(1)) {
				res.add(a, "BAD_FRACTION", fmt.Sprintf("%s: trim fraction %s outside (0,1)", a.Symbol, a.Fraction))
				continue
			}
			sold := values[a.Symbol].Mul(a.Fraction)
			values[a.Symbol] = values[a.Symbol].Sub(sold)
			sectors[sectorOf[a.Symbol]] = sectors[sectorOf[a.Symbol]].Sub(sold)
			cash = cash.Add(sold)
			res.Accepted = append(res.Accepted, a)

		case ActionAdd:
			if _, held := values[a.Symbol]; !held {
				res.add(a, "UNKNOWN_POSITION", fmt.Sprintf("%s: no open position to add to", a.Symbol))
				continue
			}
			if !priced[a.Symbol] {
				res.add(a, "PRICE_UNAVAILABLE", fmt.Sprintf("%s: cannot add without a market price", a.Symbol))
				continue
			}
			if !a.Amount.IsPositive() {
				res.add(a, "BAD_AMOUNT", fmt.Sprintf("%s: add amount must be positive", a.Symbol))
				continue
			}
			tier := l.Position(a.Symbol).RiskTier
			if v, ok := checkDeploy(a, a.Symbol, sectorOf[a.Symbol], tier, values[a.Symbol], cash, total, sectors, posCap, cfg, rules, pct); !ok {
				res.Violations = append(res.Violations, v)
				res.Accepted = append(res.Accepted, a.Hold())
				continue
			}
			values[a.Symbol] = values[a.Symbol].Add(a.Amount)
			sectors[sectorOf[a.Symbol]] = sectors[sectorOf[a.Symbol]].Add(a.Amount)
			cash = cash.Sub(a.Amount)
			res.Accepted = append(res.Accepted, a)

		case ActionBuyNew:
			if _, held := values[a.Symbol]; held {
				res.add(a, "DUPLICATE_POSITION", fmt.Sprintf("%s: already open, propose ADD instead", a.Symbol))
				continue
			}
			if _, ok := prices[a.Symbol]; !ok {
				res.add(a, "PRICE_UNAVAILABLE", fmt.Sprintf("%s: cannot buy without a market price", a.Symbol))
				continue
			}
			if !a.Amount.IsPositive() {
				res.add(a, "BAD_AMOUNT", fmt.Sprintf("%s: buy amount must be positive", a.Symbol))
				continue
			}
			if newPositions+1 > rules.MaxNewPositions {
				res.add(a, "MAX_NEW_POSITIONS", fmt.Sprintf("%s: mode allows at most %d new positions this run", a.Symbol, rules.MaxNewPositions))
				continue
			}
			if count+1 > cfg.MaxPositions {
				res.add(a, "MAX_POSITIONS", fmt.Sprintf("%s: position count would exceed maximum %d", a.Symbol, cfg.MaxPositions))
				continue
			}
			if v, ok := checkDeploy(a, a.Symbol, a.Sector, a.RiskTier, M(0, cur), cash, total, sectors, posCap, cfg, rules, pct); !ok {
				res.Violations = append(res.Violations, v)
				res.Accepted = append(res.Accepted, a.Hold())
				continue
			}
			values[a.Symbol] = a.Amount
			sectorOf[a.Symbol] = a.Sector
			sectors[a.Sector] = sectors[a.Sector].Add(a.Amount)
			priced[a.Symbol] = true
			cash = cash.Sub(a.Amount)
			count++
			newPositions++
			res.Accepted = append(res.Accepted, a)

		default:
			res.add(a, "BAD_ACTION", fmt.Sprintf("%s: unknown action %q", a.Symbol, a.Kind))
		}
	}
	return res
}

// checkDeploy runs the capital-deployment checks shared by ADD and BUY_NEW:
// risk-tier gate, available cash, per-position weight cap, sector cap, and
// the mode's cash floor.
func checkDeploy(a Action, symbol, sector, tier string, held, cash, total Money, sectors map[string]Money, posCap Percent, cfg Config, rules ModeRules, pct func(Money) Percent) (Violation, bool) {
	v := func(code, msg string) (Violation, bool) {
		return Violation{Symbol: symbol, Code: code, Msg: msg}, false
	}
	if !tierAllowed(rules, tier) {
		return v("TIER_BLOCKED", fmt.Sprintf("%s: %s positions are not allowed in the current risk mode", symbol, tier))
	}
	if cash.LessThan(a.Amount) {
		return v("INSUFFICIENT_CASH", fmt.Sprintf("%s: amount %s exceeds available cash %s", symbol, a.Amount, cash))
	}
	if after := pct(held.Add(a.Amount)); after > posCap {
		return v("WEIGHT_CAP", fmt.Sprintf("%s: post-action weight %s exceeds cap %s", symbol, after, posCap))
	}
	if after := pct(sectors[sector].Add(a.Amount)); after > cfg.SectorCapPct {
		return v("SECTOR_CAP", fmt.Sprintf("%s: sector %q weight %s exceeds cap %s", symbol, sector, after, cfg.SectorCapPct))
	}
	if after := pct(cash.Sub(a.Amount)); after < rules.MinCashPct {
		return v("MIN_CASH", fmt.Sprintf("%s: cash would fall to %s, below the %s floor", symbol, after, rules.MinCashPct))
	}
	return Violation{}, true
}
