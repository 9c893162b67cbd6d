package formula

import (
	"testing"

	"github.com/aare-ai/aare/pkg/core/facts"
)

func mustParse(t *testing.T, raw interface{}) Expr {
	t.Helper()
	e, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%v) error: %v", raw, err)
	}
	return e
}

func TestEvalComparisons(t *testing.T) {
	f := facts.New(false)
	f.Set("dti", facts.Value{Raw: 52.0, Kind: facts.KindFloat})

	e := mustParse(t, map[string]interface{}{"lte": []interface{}{"dti", 43.0}})
	if got := Eval(e, f); got != false {
		t.Errorf("lte(52,43) = %v, want false", got)
	}

	e2 := mustParse(t, map[string]interface{}{"gt": []interface{}{"dti", 43.0}})
	if got := Eval(e2, f); got != true {
		t.Errorf("gt(52,43) = %v, want true", got)
	}
}

func TestEvalNullPropagation(t *testing.T) {
	f := facts.New(false)

	e := mustParse(t, map[string]interface{}{"lte": []interface{}{"missing_field", 43.0}})
	if got := Eval(e, f); got != nil {
		t.Errorf("lte(missing,43) = %v, want nil", got)
	}

	add := mustParse(t, map[string]interface{}{"add": []interface{}{"missing_field", 1.0}})
	if got := Eval(add, f); got != nil {
		t.Errorf("add(missing,1) = %v, want nil", got)
	}
}

func TestEvalAnyAllIgnoreNulls(t *testing.T) {
	f := facts.New(false)
	f.Set("a", facts.Value{Raw: false, Kind: facts.KindBoolean})

	any := mustParse(t, map[string]interface{}{"any": []interface{}{"a", "missing"}})
	if got := Eval(any, f); got != false {
		t.Errorf("any(false, missing) = %v, want false", got)
	}

	allNull := mustParse(t, map[string]interface{}{"all": []interface{}{"missing", "also_missing"}})
	if got := Eval(allNull, f); got != nil {
		t.Errorf("all(missing, missing) = %v, want nil", got)
	}
}

func TestEvalIfNullCondition(t *testing.T) {
	f := facts.New(false)
	e := mustParse(t, map[string]interface{}{
		"if": []interface{}{"missing_cond", true, false},
	})
	if got := Eval(e, f); got != false {
		t.Errorf("if(null, true, false) = %v, want false (null condition is falsy)", got)
	}
}

func TestParseUnknownOperator(t *testing.T) {
	_, err := Parse(map[string]interface{}{"frobnicate": []interface{}{"a"}})
	if err == nil {
		t.Fatalf("Parse with unknown operator should error")
	}
}

func TestDependencies(t *testing.T) {
	e := mustParse(t, map[string]interface{}{
		"if": []interface{}{"is_denial", "has_specific_reason", true},
	})
	deps := Dependencies(e)
	if len(deps) != 2 || deps[0] != "is_denial" || deps[1] != "has_specific_reason" {
		t.Errorf("Dependencies = %v, want [is_denial has_specific_reason]", deps)
	}
}

func TestCountTrueAndCountFields(t *testing.T) {
	f := facts.New(false)
	f.Set("x", facts.Value{Raw: true, Kind: facts.KindBoolean})
	f.Set("y", facts.Value{Raw: false, Kind: facts.KindBoolean})
	f.Set("z", facts.Value{Raw: true, Kind: facts.KindBoolean})

	ct := mustParse(t, map[string]interface{}{"count_true": []interface{}{"x", "y", "z"}})
	if got := Eval(ct, f); got != 2.0 {
		t.Errorf("count_true = %v, want 2", got)
	}

	cf := mustParse(t, map[string]interface{}{"count_fields": []interface{}{"x", "y", "missing"}})
	if got := Eval(cf, f); got != 2.0 {
		t.Errorf("count_fields = %v, want 2", got)
	}
}
