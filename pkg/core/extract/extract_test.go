package extract

import (
	"strings"
	"testing"

	"github.com/aare-ai/aare/pkg/core/ontology"
)

func TestMoneyNormalization(t *testing.T) {
	ext := ontology.Extractor{Type: "money", Pattern: `\$(\d+)\s*(k|m|b)?`}
	rec, ok := extractOne("fees", ext, "Origination fee of $5k was charged.", "origination fee of $5k was charged.")
	if !ok {
		t.Fatalf("expected a match")
	}
	val, ok := rec.Value.Raw.(float64)
	if !ok || val != 5000.0 {
		t.Errorf("$5k normalized to %v, want 5000.0", rec.Value.Raw)
	}
}

func TestDateNormalization(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Closing date: 12/25/24", "2024-12-25"},
		{"Closing date: 01/02/49", "2049-01-02"},
		{"Closing date: 01/02/50", "1950-01-02"},
	}
	ext := ontology.Extractor{Type: "date"}
	for _, c := range cases {
		rec, ok := extractOne("closing_date", ext, c.text, strings.ToLower(c.text))
		if !ok {
			t.Fatalf("%q: expected a date match", c.text)
		}
		if rec.Value.Raw != c.want {
			t.Errorf("%q normalized to %v, want %v", c.text, rec.Value.Raw, c.want)
		}
	}
}

func TestNegationWindowDefaultMortgageKeywords(t *testing.T) {
	ext := ontology.Extractor{
		Type:          "boolean",
		Keywords:      []string{"approved", "approve", "approval"},
		CheckNegation: true,
		NegationWords: []string{"not", "no", "cannot", "never", "without", "isn't", "won't", "unable"},
	}

	rec, ok := extractOne("has_approval", ext, "not approved", "not approved")
	if !ok || rec.Value.Raw != false {
		t.Errorf("\"not approved\" => %v, want false", rec.Value.Raw)
	}

	rec2, ok := extractOne("has_approval", ext, "approved, no issues", "approved, no issues")
	if !ok || rec2.Value.Raw != true {
		t.Errorf("\"approved, no issues\" => %v, want true", rec2.Value.Raw)
	}
}
