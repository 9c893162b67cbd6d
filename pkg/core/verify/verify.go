// Package verify implements the constraint evaluator: reducing each
// ontology constraint's predicate to a boolean over Facts and producing a
// verdict plus an ordered violation list (spec.md §4.4).
package verify

import (
	"time"

	"github.com/aare-ai/aare/pkg/core/facts"
	"github.com/aare-ai/aare/pkg/core/formula"
	"github.com/aare-ai/aare/pkg/core/ontology"
)

// Violation is one failed constraint, carrying everything the caller
// needs to report it without looking the constraint back up.
type Violation struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	ErrorMessage string `json:"error_message"`
	Citation     string `json:"citation"`
}

// Result is the verdict produced by Run: whether every constraint held,
// the ordered violations for those that didn't, and bookkeeping.
type Result struct {
	Verified        bool                   `json:"verified"`
	Violations      []Violation            `json:"violations"`
	ProofMetadata   map[string]interface{} `json:"proof_metadata"`
	ExecutionTimeMs int64                  `json:"execution_time_ms"`
}

// Run evaluates every constraint in doc, in ontology order, against f.
// A constraint with no machine formula is trivially satisfied. A formula
// that evaluates to exactly false is a violation; true or null (a soft
// failure — unknown operator, null-propagating arithmetic, or an absent
// field) is not, per spec.md §4.3's "treat null as satisfied" rule.
func Run(f *facts.Facts, doc *ontology.Document) Result {
	start := time.Now()

	var violations []Violation
	proof := make(map[string]interface{}, len(doc.Constraints))

	for _, c := range doc.Constraints {
		vars := make(map[string]interface{}, len(c.Variables))
		for _, v := range c.Variables {
			val, _ := f.Get(v.Name)
			vars[v.Name] = val
		}

		satisfied := true
		if c.HasFormula {
			result := formula.Eval(c.Formula, f)
			if b, ok := result.(bool); ok && !b {
				satisfied = false
			}
		}

		proof[c.ID] = map[string]interface{}{
			"satisfied": satisfied,
			"variables": vars,
		}

		if !satisfied {
			violations = append(violations, Violation{
				ID:           c.ID,
				Category:     c.Category,
				Description:  c.Description,
				ErrorMessage: c.ErrorMessage,
				Citation:     c.Citation,
			})
		}
	}

	return Result{
		Verified:        len(violations) == 0,
		Violations:      violations,
		ProofMetadata:   proof,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}
}
