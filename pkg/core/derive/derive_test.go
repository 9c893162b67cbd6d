package derive

import (
	"testing"

	"github.com/aare-ai/aare/pkg/core/facts"
	"github.com/aare-ai/aare/pkg/core/formula"
	"github.com/aare-ai/aare/pkg/core/ontology"
)

func expr(t *testing.T, raw interface{}) formula.Expr {
	t.Helper()
	e, err := formula.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%v): %v", raw, err)
	}
	return e
}

func TestBuiltinWordCountAndFeePercentage(t *testing.T) {
	f := facts.New(false)
	f.Set("fees", facts.Value{Raw: 3000.0, Kind: facts.KindMoney})
	f.Set("loan_amount", facts.Value{Raw: 100000.0, Kind: facts.KindMoney})

	doc := &ontology.Document{Name: "t", Extractors: map[string]ontology.Extractor{}}
	runBuiltins("one two three four", f)

	wc, _ := f.Number("word_count")
	if wc != 4 {
		t.Errorf("word_count = %v, want 4", wc)
	}
	fp, ok := f.Number("fee_percentage")
	if !ok || fp != 3.0 {
		t.Errorf("fee_percentage = %v, want 3.0", fp)
	}
	_ = doc
}

func TestComputedFieldChain(t *testing.T) {
	f := facts.New(false)
	f.Set("a", facts.Value{Raw: 10.0, Kind: facts.KindFloat})

	doc := &ontology.Document{
		Name: "t",
		Extractors: map[string]ontology.Extractor{
			"b": {Type: "computed", HasFormula: true, Formula: expr(t, map[string]interface{}{"add": []interface{}{"a", 5.0}})},
			"c": {Type: "computed", HasFormula: true, Formula: expr(t, map[string]interface{}{"add": []interface{}{"b", 1.0}})},
		},
		ExtractorOrder: []string{"b", "c"},
	}

	Run("ignored", doc, f)

	b, _ := f.Number("b")
	c, _ := f.Number("c")
	if b != 15 {
		t.Errorf("b = %v, want 15 (depends on a)", b)
	}
	if c != 16 {
		t.Errorf("c = %v, want 16 (depends on b)", c)
	}
}

func TestComputedFieldCycleFailsSoftWithDefault(t *testing.T) {
	f := facts.New(false)

	doc := &ontology.Document{
		Name: "t",
		Extractors: map[string]ontology.Extractor{
			"x": {Type: "computed", HasFormula: true, Default: 0.0, Formula: expr(t, map[string]interface{}{"add": []interface{}{"y", 1.0}})},
			"y": {Type: "computed", HasFormula: true, Formula: expr(t, map[string]interface{}{"add": []interface{}{"x", 1.0}})},
		},
		ExtractorOrder: []string{"x", "y"},
	}

	Run("ignored", doc, f)

	if !f.Has("x") {
		t.Fatalf("x should have settled to its default")
	}
	xv, _ := f.Number("x")
	if xv != 0.0 {
		t.Errorf("x = %v, want default 0.0", xv)
	}
	if f.Has("y") {
		t.Errorf("y has no default and should stay absent after a failed cycle")
	}
}
