package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// DecodeProposal reads the advisory collaborator's proposal document.
//
// The advisor is a generative model whose output framing drifts: the action
// list is sometimes the document root, sometimes nested under a wrapping
// object. jsonpath lets us fish the list out instead of chasing every
// framing variant with dedicated structs.
//
//	{"actions": [
//	  {"symbol": "NVDA", "action": "TRIM", "fraction": 0.25,
//	   "target_weight_pct": 8, "reason": "concentration"},
//	  {"symbol": "KO", "action": "BUY_NEW", "amount": 5000, "sector":
//	   "Consumer Staples", "style": "dividend", "risk_tier": "conservative",
//	   "stop_loss": 52.1, "target": 71.0, "reason": "defensive yield"}
//	]}
func DecodeProposal(r io.Reader, currency string) ([]Action, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading proposal: %w", err)
	}

	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("proposal is not valid JSON: %w", err)
	}

	jval, err := jsonpath.Get("$.actions", jobj)
	if err != nil {
		// not at the root, look one wrapping object down
		wrapped, werr := jsonpath.Get("$.*.actions", jobj)
		if werr != nil {
			return nil, fmt.Errorf("proposal has no actions list: %w", err)
		}
		// a wildcard query answers with the list of matches, one per
		// wrapping key; the actions list itself is the first match
		matches, ok := wrapped.([]any)
		if !ok || len(matches) == 0 {
			return nil, fmt.Errorf("proposal has no actions list")
		}
		jval = matches[0]
	}

	jactions, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("proposal actions is not a list (got %T)", jval)
	}

	actions := make([]Action, 0, len(jactions))
	for i, ja := range jactions {
		entry, ok := ja.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("proposal action %d is not an object (got %T)", i, ja)
		}
		a, err := decodeAction(entry, currency)
		if err != nil {
			return nil, fmt.Errorf("proposal action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func decodeAction(entry map[string]any, currency string) (Action, error) {
	str := func(key string) string {
		s, _ := entry[key].(string)
		return s
	}
	num := func(key string) (float64, bool) {
		f, ok := entry[key].(float64)
		return f, ok
	}

	a := Action{
		Symbol:   strings.ToUpper(strings.TrimSpace(str("symbol"))),
		Kind:     ActionKind(strings.ToUpper(strings.TrimSpace(str("action")))),
		Reason:   str("reason"),
		Lesson:   str("lesson"),
		Sector:   str("sector"),
		Style:    str("style"),
		RiskTier: strings.ToLower(str("risk_tier")),
	}
	if a.Symbol == "" {
		return a, fmt.Errorf("missing symbol")
	}
	if a.Kind == "" {
		return a, fmt.Errorf("missing action")
	}

	if f, ok := num("fraction"); ok {
		a.Fraction = Q(f)
	}
	if f, ok := num("amount"); ok {
		a.Amount = M(f, currency)
	}
	if f, ok := num("target_weight_pct"); ok {
		a.TargetWeightPct = Percent(f)
	}
	if f, ok := num("stop_loss"); ok {
		m := M(f, currency)
		a.StopLoss = &m
	}
	if f, ok := num("target"); ok {
		m := M(f, currency)
		a.Target = &m
	}
	return a, nil
}
