// Package pipeline wires the ontology provider, extraction engine,
// derivation engine and constraint evaluator into the single end-to-end
// operation the HTTP layer calls (spec.md §2).
package pipeline

import (
	"fmt"

	"github.com/aare-ai/aare/pkg/core/derive"
	"github.com/aare-ai/aare/pkg/core/extract"
	"github.com/aare-ai/aare/pkg/core/facts"
	"github.com/aare-ai/aare/pkg/core/ontology"
	"github.com/aare-ai/aare/pkg/core/verify"
)

// OntologySummary is the informational ontology descriptor returned
// alongside a verification result (spec.md §6).
type OntologySummary struct {
	Name               string `json:"name"`
	Version            string `json:"version"`
	ConstraintsChecked int    `json:"constraints_checked"`
}

// Output is the full result of one verification run, independent of its
// eventual JSON envelope (the HTTP layer owns verification_id/timestamp).
type Output struct {
	Verified        bool
	Violations      []verify.Violation
	ParsedData      *facts.Facts
	Ontology        OntologySummary
	Proof           map[string]interface{}
	ExecutionTimeMs int64
}

// Run executes the four-stage pipeline against text using the named
// ontology (resolved through provider, including its unknown-name and
// filesystem-override fallback rules). It is total over any structurally
// valid ontology document: extraction, derivation and evaluation never
// fail, by construction (spec.md §7's closing paragraph).
func Run(provider *ontology.Provider, text, ontologyName string, withConfidence bool) (*Output, error) {
	fmt.Printf("[pipeline] verifying %d chars of text against ontology %q\n", len(text), ontologyName)

	doc, err := provider.Load(ontologyName)
	if err != nil {
		return nil, fmt.Errorf("pipeline: loading ontology %q: %w", ontologyName, err)
	}

	f := extract.Extract(text, doc, withConfidence)
	fmt.Printf("[pipeline] %s: extracted %d fact(s)\n", doc.Name, f.Len())

	derive.Run(text, doc, f)

	result := verify.Run(f, doc)
	fmt.Printf("[pipeline] %s: %d violation(s), verified=%t (%dms)\n", doc.Name, len(result.Violations), result.Verified, result.ExecutionTimeMs)

	return &Output{
		Verified:   result.Verified,
		Violations: result.Violations,
		ParsedData: f,
		Ontology: OntologySummary{
			Name:               doc.Name,
			Version:            doc.Version,
			ConstraintsChecked: len(doc.Constraints),
		},
		Proof:           result.ProofMetadata,
		ExecutionTimeMs: result.ExecutionTimeMs,
	}, nil
}
