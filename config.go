package folio

// Config carries the allocation rules that do not depend on the risk mode.
//
// It is an explicit record passed into every component call, so a run (or a
// test) can carry its own rule set.
type Config struct {
	// Currency is the reporting currency of the ledger document.
	Currency string

	// StockCapPct is the maximum weight of a single position, in percent of
	// the total portfolio value.
	StockCapPct Percent
	// SectorCapPct is the maximum cumulated weight of a single sector.
	SectorCapPct Percent

	// MinPositions and MaxPositions bound the number of open positions.
	// MinPositions is only advisory on a young portfolio: selling down to
	// fewer positions is a violation, an empty ledger is not.
	MinPositions int
	MaxPositions int

	// StartingCash funds the ledger when it is bootstrapped from nothing.
	StartingCash Money
}

// DefaultConfig returns the standing rule set.
func DefaultConfig() Config {
	return Config{
		Currency:     DefaultCurrency,
		StockCapPct:  15,
		SectorCapPct: 35,
		MinPositions: 5,
		MaxPositions: 15,
		StartingCash: M(100_000, DefaultCurrency),
	}
}
