// Package ontology defines the rule-catalog document model (extractors and
// constraints) and the provider that loads, validates and caches it by name.
package ontology

import "github.com/aare-ai/aare/pkg/core/formula"

// Document is an immutable, schema-validated ontology: a named, versioned
// bundle of extractor and constraint definitions driving one verification
// profile (spec.md §3).
type Document struct {
	Name        string               `json:"name"`
	Version     string               `json:"version"`
	Description string               `json:"description"`
	Constraints []Constraint         `json:"constraints"`
	Extractors  map[string]Extractor `json:"extractors"`

	// ExtractorOrder preserves the source document's field insertion
	// order, since Go's map iteration does not. Built-in documents set
	// it to the literal declaration order in builtin.go; file-loaded
	// documents capture it with a token walk (see order.go).
	ExtractorOrder []string `json:"extractor_order"`
}

// EnumChoice is one (value, keyword-set) pair of an enum extractor.
// Extractor.Choices is checked in slice order, which for a file-loaded
// ontology is sorted by value (see parseChoices).
type EnumChoice struct {
	Value    string   `json:"value"`
	Keywords []string `json:"keywords"`
}

// Extractor describes how to produce one fact from text (spec.md §3, §4.1).
type Extractor struct {
	Type string `json:"type"` // boolean, int, float, money, percentage, string, date, datetime, list, enum, computed

	Pattern       string   `json:"pattern,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	NegationWords []string `json:"negation_words,omitempty"`
	CheckNegation bool     `json:"check_negation"`

	ItemType  string `json:"item_type,omitempty"` // for list: string, int, float
	Separator string `json:"separator,omitempty"`

	Choices []EnumChoice `json:"choices,omitempty"`
	Default interface{}  `json:"default,omitempty"` // enum fallback / computed default

	Format string `json:"format,omitempty"` // optional explicit date/datetime layout hint

	Formula    formula.Expr `json:"-"` // not wire-serialized; formula_readable is the documentary form
	HasFormula bool         `json:"has_formula"`
	DependsOn  []string     `json:"depends_on,omitempty"` // informational only, per spec.md §9
}

// Variable names one fact referenced by a constraint's predicate, carried
// through to proof_metadata.
type Variable struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Constraint is a single named predicate; when its formula evaluates to
// exactly false, it is reported as a violation (spec.md §3, §4.4).
type Constraint struct {
	ID              string     `json:"id"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	FormulaReadable string     `json:"formula_readable"`
	Variables       []Variable `json:"variables"`
	ErrorMessage    string     `json:"error_message"`
	Citation        string     `json:"citation"`

	Formula    formula.Expr `json:"-"`
	HasFormula bool         `json:"has_formula"` // false ⇒ treated as trivially satisfied (spec.md §3)
}
