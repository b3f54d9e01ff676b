package folio

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(usd(100_000))
	day := NewDate(2025, time.March, 3)
	stop, target := usd(90), usd(140)
	if err := l.Open("NVDA", day, usd(10_000), usd(100), &stop, &target, "Technology", "growth", "aggressive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.AddTo("NVDA", day.Add(7), usd(1400), usd(70)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Open("JNJ", day, usd(5000), usd(125), nil, nil, "Healthcare", "dividend", "conservative"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Close("JNJ", day.Add(10), usd(150), "target reached", "patience pays"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.AppendSnapshot(Snapshot{
		RunDate:    day.Add(10),
		Invested:   l.Invested(),
		Value:      usd(101_000),
		PL:         usd(1000),
		RealizedPL: usd(1000),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l
}

// Decoding then re-encoding an encoded ledger must reproduce the bytes
// exactly. This is what keeps the history file diff-friendly under version
// control.
func TestEncodeLedgerStable(t *testing.T) {
	l := testLedger(t)

	var first bytes.Buffer
	if err := EncodeLedger(&first, l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := DecodeLedger(bytes.NewReader(first.Bytes()), "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var second bytes.Buffer
	if err := EncodeLedger(&second, decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("round trip is not byte-stable:\nfirst:\n%s\nsecond:\n%s", first.String(), second.String())
	}
}

func TestEncodeEmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, NewLedger(usd(100_000))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buf.String()
	for _, want := range []string{`"positions": []`, `"closed_positions": []`, `"snapshots": []`, `"cash": 100000`} {
		if !strings.Contains(got, want) {
			t.Errorf("encoded empty ledger misses %q:\n%s", want, got)
		}
	}
}

func TestDecodeLedgerStampsCurrency(t *testing.T) {
	l := testLedger(t)
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := DecodeLedger(&buf, "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := decoded.Cash.Currency(); got != "EUR" {
		t.Errorf("cash currency = %q, want EUR", got)
	}
	if got := decoded.Position("NVDA").CostBasis.Currency(); got != "EUR" {
		t.Errorf("cost basis currency = %q, want EUR", got)
	}
}

func TestDecodeLedgerCorrupt(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"truncated", `{"positions": [`},
		{"not json", `this is not json`},
		{"unknown field", `{"positions": [], "closed_positions": [], "snapshots": [], "cash": 0, "extra": 1}`},
		{"empty symbol", `{"positions": [{"symbol": "", "quantity": 1, "cost_basis": 10, "opened_date": "2025-03-03", "add_history": []}], "closed_positions": [], "snapshots": [], "cash": 0}`},
		{"negative quantity", `{"positions": [{"symbol": "NVDA", "quantity": -1, "cost_basis": 10, "opened_date": "2025-03-03", "add_history": []}], "closed_positions": [], "snapshots": [], "cash": 0}`},
		{"snapshots out of order", `{"positions": [], "closed_positions": [], "snapshots": [{"run_date": "2025-03-10", "invested_capital": 0, "portfolio_value": 1, "pl": 0, "realized_pl": 0, "unrealized_pl": 0}, {"run_date": "2025-03-03", "invested_capital": 0, "portfolio_value": 1, "pl": 0, "realized_pl": 0, "unrealized_pl": 0}], "cash": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(tt.doc), "USD")
			if err == nil {
				t.Fatal("corrupt document decoded without error")
			}
			if !errors.Is(err, ErrCorruptHistory) {
				t.Errorf("error %v does not wrap ErrCorruptHistory", err)
			}
		})
	}
}
