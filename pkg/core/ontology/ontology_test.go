package ontology

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseRequiredKeysMissing(t *testing.T) {
	_, err := Parse([]byte(`{"name": "x", "version": "1.0"}`))
	if err == nil {
		t.Fatalf("expected an error for missing constraints/extractors")
	}
}

func TestParseRecoversExtractorDeclarationOrder(t *testing.T) {
	raw := []byte(`{
		"name": "custom-v1",
		"version": "1.0",
		"extractors": {
			"zeta": {"type": "boolean", "keywords": ["z"]},
			"alpha": {"type": "boolean", "keywords": ["a"]},
			"middle": {"type": "boolean", "keywords": ["m"]}
		},
		"constraints": []
	}`)

	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"zeta", "alpha", "middle"}
	if len(doc.ExtractorOrder) != len(want) {
		t.Fatalf("ExtractorOrder = %v, want %v", doc.ExtractorOrder, want)
	}
	for i, name := range want {
		if doc.ExtractorOrder[i] != name {
			t.Errorf("ExtractorOrder[%d] = %q, want %q", i, doc.ExtractorOrder[i], name)
		}
	}
}

func TestParseExtractorFormulaAttached(t *testing.T) {
	raw := []byte(`{
		"name": "custom-v1",
		"version": "1.0",
		"extractors": {
			"total": {"type": "computed", "formula": {"add": ["a", "b"]}}
		},
		"constraints": [
			{"id": "C1", "formula": {"gt": ["total", 0]}}
		]
	}`)

	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ext := doc.Extractors["total"]
	if !ext.HasFormula {
		t.Fatalf("expected total extractor to carry a parsed formula")
	}
	if len(doc.Constraints) != 1 || !doc.Constraints[0].HasFormula {
		t.Fatalf("expected constraint C1 to carry a parsed formula")
	}
}

func TestParseConstraintWithoutFormulaIsTriviallySatisfied(t *testing.T) {
	raw := []byte(`{
		"name": "custom-v1",
		"version": "1.0",
		"extractors": {},
		"constraints": [
			{"id": "C1", "description": "no machine formula yet"}
		]
	}`)

	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Constraints[0].HasFormula {
		t.Errorf("constraint without a formula key should have HasFormula=false")
	}
}

func TestBuiltinOntologiesStructurallyValid(t *testing.T) {
	for name, factory := range builtinFactories {
		doc := factory()
		if doc.Name != name {
			t.Errorf("%s: doc.Name = %q", name, doc.Name)
		}
		if len(doc.Constraints) == 0 {
			t.Errorf("%s: expected at least one constraint", name)
		}
		if len(doc.ExtractorOrder) != len(doc.Extractors) {
			t.Errorf("%s: ExtractorOrder has %d entries, Extractors has %d", name, len(doc.ExtractorOrder), len(doc.Extractors))
		}
		for _, fieldName := range doc.ExtractorOrder {
			if _, ok := doc.Extractors[fieldName]; !ok {
				t.Errorf("%s: ExtractorOrder references unknown extractor %q", name, fieldName)
			}
		}
		for _, c := range doc.Constraints {
			if c.ID == "" {
				t.Errorf("%s: constraint with empty ID", name)
			}
			if !c.HasFormula {
				t.Errorf("%s: constraint %s: expected a machine formula", name, c.ID)
			}
		}
	}
}

func TestProviderLoadDefaultsAndCaches(t *testing.T) {
	p := NewProvider("")

	doc, err := p.Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if doc.Name != DefaultOntology {
		t.Errorf("Load(\"\").Name = %q, want %q", doc.Name, DefaultOntology)
	}

	again, err := p.Load(DefaultOntology)
	if err != nil {
		t.Fatalf("Load(%q): %v", DefaultOntology, err)
	}
	if doc != again {
		t.Errorf("expected the cached *Document to be returned on a second Load")
	}
}

func TestProviderUnknownNameFallsBackToDefault(t *testing.T) {
	p := NewProvider("")
	doc, err := p.Load("does-not-exist-v9")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Name != DefaultOntology {
		t.Errorf("Load(unknown).Name = %q, want fallback %q", doc.Name, DefaultOntology)
	}
}

func TestProviderFileOverrideTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	custom := `{
		"name": "mortgage-compliance-v1",
		"version": "2.0",
		"extractors": {},
		"constraints": []
	}`
	if err := os.WriteFile(filepath.Join(dir, "mortgage-compliance-v1.json"), []byte(custom), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := NewProvider(dir)
	doc, err := p.Load("mortgage-compliance-v1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Version != "2.0" {
		t.Errorf("Version = %q, want the override's 2.0, not the built-in's", doc.Version)
	}
}

func TestProviderListAvailableIncludesOverridesAndBuiltins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom-v1.json"), []byte(`{
		"name": "custom-v1", "version": "1.0", "extractors": {}, "constraints": []
	}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := NewProvider(dir)
	names := p.ListAvailable()

	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	for _, want := range []string{"mortgage-compliance-v1", "fair-lending-v1", "hipaa-v1", "custom-v1"} {
		if !found[want] {
			t.Errorf("ListAvailable() = %v, missing %q", names, want)
		}
	}
}
