package folio

import (
	"testing"
	"time"
)

func TestComputeValuation(t *testing.T) {
	l := NewLedger(usd(100_000))
	day := NewDate(2025, time.March, 3)
	if err := l.Open("NVDA", day, usd(10_000), usd(100), nil, nil, "Technology", "growth", "aggressive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Open("JNJ", day, usd(5000), usd(125), nil, nil, "Healthcare", "dividend", "conservative"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prices := PriceMap{"NVDA": usd(120), "JNJ": usd(100)}
	r := Compute(l, prices, nil, day.Add(7))

	if !r.Invested.Equal(usd(15_000)) {
		t.Errorf("invested = %s, want 15000", r.Invested)
	}
	// NVDA 100 units at 120 plus JNJ 40 units at 100.
	if !r.MarketValue.Equal(usd(16_000)) {
		t.Errorf("market value = %s, want 16000", r.MarketValue)
	}
	if !r.TotalValue.Equal(usd(101_000)) {
		t.Errorf("total value = %s, want 101000", r.TotalValue)
	}
	if !r.UnrealizedPL.Equal(usd(1000)) {
		t.Errorf("unrealized P/L = %s, want 1000", r.UnrealizedPL)
	}
	if !r.SinceInceptionPct.Equal(1) {
		t.Errorf("since inception = %s, want 1%%", r.SinceInceptionPct)
	}
	if r.PeriodReturnPct != nil {
		t.Error("period return must be nil on a first run")
	}
	if r.Benchmark != nil || r.AlphaPct != nil {
		t.Error("benchmark fields must be nil when no benchmark is supplied")
	}

	for _, p := range r.Positions {
		if p.Symbol == "NVDA" {
			if !p.ReturnPct.Equal(20) {
				t.Errorf("NVDA return = %s, want 20%%", p.ReturnPct)
			}
			if p.HoldingDays != 7 {
				t.Errorf("NVDA holding days = %d, want 7", p.HoldingDays)
			}
		}
	}
}

func TestComputeMissingPrice(t *testing.T) {
	l := NewLedger(usd(100_000))
	day := NewDate(2025, time.March, 3)
	stop := usd(95)
	if err := l.Open("NVDA", day, usd(10_000), usd(100), &stop, nil, "Technology", "growth", "aggressive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Open("JNJ", day, usd(5000), usd(125), nil, nil, "Healthcare", "dividend", "conservative"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only JNJ is quoted. NVDA degrades, the report survives.
	r := Compute(l, PriceMap{"JNJ": usd(130)}, nil, day.Add(7))

	if len(r.Missing) != 1 || r.Missing[0] != "NVDA" {
		t.Errorf("missing = %v, want [NVDA]", r.Missing)
	}
	var nvda PositionPerf
	for _, p := range r.Positions {
		if p.Symbol == "NVDA" {
			nvda = p
		}
	}
	if !nvda.PriceUnavailable {
		t.Error("NVDA must be flagged PriceUnavailable")
	}
	if !nvda.Value.Equal(usd(10_000)) {
		t.Errorf("NVDA carried value = %s, want cost 10000", nvda.Value)
	}
	// A carried-at-cost price must never trip the stop.
	if len(r.Alerts) != 0 {
		t.Errorf("alerts = %v, want none", r.Alerts)
	}
	// Aggregates stay defined: JNJ at market, NVDA at cost.
	if !r.MarketValue.Equal(usd(15_200)) {
		t.Errorf("market value = %s, want 15200", r.MarketValue)
	}
}

func TestComputeAlerts(t *testing.T) {
	l := NewLedger(usd(100_000))
	day := NewDate(2025, time.March, 3)
	stop, target := usd(95), usd(140)

	tests := []struct {
		name  string
		price Money
		want  []AlertKind
	}{
		{"between levels", usd(120), nil},
		{"at stop", usd(95), []AlertKind{AlertStopLoss}},
		{"below stop", usd(80), []AlertKind{AlertStopLoss}},
		{"at target", usd(140), []AlertKind{AlertTarget}},
		{"above target", usd(150), []AlertKind{AlertTarget}},
	}

	if err := l.Open("NVDA", day, usd(10_000), usd(100), &stop, &target, "Technology", "growth", "aggressive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(l, PriceMap{"NVDA": tt.price}, nil, day.Add(1))
			if len(r.Alerts) != len(tt.want) {
				t.Fatalf("got %d alerts, want %d", len(r.Alerts), len(tt.want))
			}
			for i, kind := range tt.want {
				if r.Alerts[i].Kind != kind {
					t.Errorf("alert %d kind = %s, want %s", i, r.Alerts[i].Kind, kind)
				}
			}
		})
	}
}

func TestComputePeriodReturnAndAlpha(t *testing.T) {
	l := NewLedger(usd(100_000))
	day := NewDate(2025, time.March, 3)
	if err := l.AppendSnapshot(Snapshot{RunDate: day, Value: usd(100_000)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Open("NVDA", day, usd(10_000), usd(100), nil, nil, "Technology", "growth", "aggressive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	benchmark := Percent(1)
	// NVDA at 120: total value 102000, +2% on the last snapshot.
	r := Compute(l, PriceMap{"NVDA": usd(120)}, &benchmark, day.Add(7))

	if r.PeriodReturnPct == nil || !r.PeriodReturnPct.Equal(2) {
		t.Fatalf("period return = %v, want 2%%", r.PeriodReturnPct)
	}
	if r.AlphaPct == nil || !r.AlphaPct.Equal(1) {
		t.Fatalf("alpha = %v, want 1%%", r.AlphaPct)
	}

	t.Run("no benchmark means nil alpha", func(t *testing.T) {
		r := Compute(l, PriceMap{"NVDA": usd(120)}, nil, day.Add(7))
		if r.PeriodReturnPct == nil {
			t.Error("period return must survive a missing benchmark")
		}
		if r.AlphaPct != nil {
			t.Error("alpha must be nil, not zero, without a benchmark")
		}
	})
}

func TestReportSnapshot(t *testing.T) {
	l := NewLedger(usd(100_000))
	day := NewDate(2025, time.March, 3)
	if err := l.Open("NVDA", day, usd(10_000), usd(100), nil, nil, "Technology", "growth", "aggressive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	benchmark := Percent(1.5)
	s := Compute(l, PriceMap{"NVDA": usd(110)}, &benchmark, day.Add(7)).Snapshot()

	if s.RunDate != day.Add(7) {
		t.Errorf("run date = %s, want %s", s.RunDate, day.Add(7))
	}
	if !s.Value.Equal(usd(101_000)) {
		t.Errorf("snapshot value = %s, want 101000", s.Value)
	}
	if !s.Invested.Equal(usd(10_000)) {
		t.Errorf("snapshot invested = %s, want 10000", s.Invested)
	}
	if s.Benchmark == nil || !s.Benchmark.Equal(1.5) {
		t.Errorf("snapshot benchmark = %v, want 1.5%%", s.Benchmark)
	}
}
