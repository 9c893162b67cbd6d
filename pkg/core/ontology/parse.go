package ontology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/aare-ai/aare/pkg/core/formula"
	"github.com/aare-ai/aare/pkg/core/utils"
)

// requiredKeys are the four top-level keys spec.md §3 requires for a
// structurally valid ontology document.
var requiredKeys = []string{"name", "version", "constraints", "extractors"}

// Parse decodes raw ontology bytes into a validated Document. It tolerates
// a hand-edited file with a stray trailing comma or comment by running the
// same lenient cascade the teacher codebase uses for LLM output
// (utils.SmartParse: strict JSON, then json-repair, then Hjson) before
// falling back to a structural error.
func Parse(raw []byte) (*Document, error) {
	var root map[string]interface{}
	repaired, err := utils.SmartParse(string(raw), &root)
	if err != nil {
		return nil, fmt.Errorf("ontology: %w", err)
	}

	for _, key := range requiredKeys {
		if _, ok := root[key]; !ok {
			return nil, fmt.Errorf("ontology: missing required key %q", key)
		}
	}

	doc := &Document{
		Name:        asString(root["name"]),
		Version:     asString(root["version"]),
		Description: asString(root["description"]),
		Extractors:  make(map[string]Extractor),
	}

	extractorsRaw, ok := root["extractors"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("ontology: %q: extractors must be an object", doc.Name)
	}
	for name, spec := range extractorsRaw {
		specMap, ok := spec.(map[string]interface{})
		if !ok {
			log.Printf("[ontology] %s: extractor %q is not an object, skipping", doc.Name, name)
			continue
		}
		doc.Extractors[name] = parseExtractor(doc.Name, name, specMap)
	}

	var order []string
	if repaired == string(raw) {
		order, err = extractorOrder(raw)
	} else {
		err = fmt.Errorf("document needed lenient parsing")
	}
	if err != nil {
		log.Printf("[ontology] %s: could not recover extractor declaration order (%v); falling back to sorted order", doc.Name, err)
		order = nil
		for name := range doc.Extractors {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	doc.ExtractorOrder = order

	constraintsRaw, ok := root["constraints"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("ontology: %q: constraints must be an array", doc.Name)
	}
	for _, c := range constraintsRaw {
		cm, ok := c.(map[string]interface{})
		if !ok {
			log.Printf("[ontology] %s: skipping non-object constraint entry", doc.Name)
			continue
		}
		doc.Constraints = append(doc.Constraints, parseConstraint(doc.Name, cm))
	}

	return doc, nil
}

func parseExtractor(ontologyName, fieldName string, m map[string]interface{}) Extractor {
	e := Extractor{
		Type:          asString(m["type"]),
		Pattern:       asString(m["pattern"]),
		Keywords:      asStringSlice(m["keywords"]),
		NegationWords: asStringSlice(m["negation_words"]),
		CheckNegation: asBool(m["check_negation"], true),
		ItemType:      asString(m["item_type"]),
		Separator:     asString(m["separator"]),
		Default:       m["default"],
		Format:        asString(m["format"]),
		DependsOn:     asStringSlice(m["depends_on"]),
	}

	if choices, ok := m["choices"].(map[string]interface{}); ok {
		e.Choices = parseChoices(choices)
	}

	if raw, ok := m["formula"]; ok {
		expr, err := formula.Parse(raw)
		if err != nil {
			log.Printf("[ontology] %s.%s: invalid formula: %v", ontologyName, fieldName, err)
		} else {
			e.Formula = expr
			e.HasFormula = true
		}
	}

	return e
}

// parseChoices converts an enum's "choices" mapping into EnumChoice values.
// It re-encodes the already-decoded map with json.Marshal, which writes map
// keys in sorted order, so the choices come out sorted by value; the
// declaration order of the source document is not preserved.
func parseChoices(choices map[string]interface{}) []EnumChoice {
	raw, err := json.Marshal(choices)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // '{'
		return nil
	}
	var out []EnumChoice
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		key, _ := tok.(string)
		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return out
		}
		out = append(out, EnumChoice{Value: key, Keywords: asStringSlice(val)})
	}
	return out
}

func parseConstraint(ontologyName string, m map[string]interface{}) Constraint {
	c := Constraint{
		ID:              asString(m["id"]),
		Category:        asString(m["category"]),
		Description:     asString(m["description"]),
		FormulaReadable: asString(m["formula_readable"]),
		ErrorMessage:    asString(m["error_message"]),
		Citation:        asString(m["citation"]),
	}
	if vars, ok := m["variables"].([]interface{}); ok {
		for _, v := range vars {
			if vm, ok := v.(map[string]interface{}); ok {
				c.Variables = append(c.Variables, Variable{
					Name: asString(vm["name"]),
					Type: asString(vm["type"]),
				})
			}
		}
	}
	if raw, ok := m["formula"]; ok {
		expr, err := formula.Parse(raw)
		if err != nil {
			log.Printf("[ontology] %s: constraint %s: invalid formula: %v", ontologyName, c.ID, err)
		} else {
			c.Formula = expr
			c.HasFormula = true
		}
	}
	return c
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}, def bool) bool {
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func asStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	}
	return nil
}
