package folio

import (
	"strings"
	"testing"
)

func TestDecodePrices(t *testing.T) {
	t.Run("flat object", func(t *testing.T) {
		prices, benchmark, err := DecodePrices(strings.NewReader(`{"NVDA": 123.45, "ko": 60}`), "USD")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if benchmark != nil {
			t.Errorf("benchmark = %v, want nil on a flat snapshot", benchmark)
		}
		if !prices["NVDA"].Equal(usd(123.45)) {
			t.Errorf("NVDA = %s, want 123.45", prices["NVDA"])
		}
		if !prices["KO"].Equal(usd(60)) {
			t.Errorf("KO = %s, want 60 (symbols normalize to upper case)", prices["KO"])
		}
	})

	t.Run("wrapped with benchmark", func(t *testing.T) {
		doc := `{"prices": {"NVDA": 120}, "benchmark_return_pct": 1.4}`
		prices, benchmark, err := DecodePrices(strings.NewReader(doc), "USD")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if benchmark == nil || !benchmark.Equal(1.4) {
			t.Errorf("benchmark = %v, want 1.4%%", benchmark)
		}
		if len(prices) != 1 || !prices["NVDA"].Equal(usd(120)) {
			t.Errorf("prices = %v, want NVDA at 120", prices)
		}
	})

	t.Run("wrapped without benchmark", func(t *testing.T) {
		_, benchmark, err := DecodePrices(strings.NewReader(`{"prices": {"NVDA": 120}}`), "USD")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if benchmark != nil {
			t.Errorf("benchmark = %v, want nil when absent", benchmark)
		}
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `NVDA 120`},
		{"not an object", `[120, 130]`},
		{"price not a number", `{"NVDA": "120"}`},
		{"zero price", `{"NVDA": 0}`},
		{"negative price", `{"NVDA": -5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodePrices(strings.NewReader(tt.doc), "USD"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
