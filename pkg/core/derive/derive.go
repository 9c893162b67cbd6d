// Package derive implements the derivation engine: the fixed built-in
// derivations that always run, followed by iterative settlement of
// ontology-declared computed extractors (spec.md §4.2, §4.3).
package derive

import (
	"log"
	"strings"

	"github.com/aare-ai/aare/pkg/core/facts"
	"github.com/aare-ai/aare/pkg/core/formula"
	"github.com/aare-ai/aare/pkg/core/ontology"
)

// Run computes the built-in derivations over text, then settles doc's
// computed extractors to a fixed point, writing every result into f.
func Run(text string, doc *ontology.Document, f *facts.Facts) {
	runBuiltins(text, f)
	settleComputed(doc, f)
}

func runBuiltins(text string, f *facts.Facts) {
	wordCount := len(strings.Fields(strings.ToLower(text)))
	f.SetComputed("word_count", facts.Value{Raw: float64(wordCount), Kind: facts.KindComputed})

	fees, feesOK := f.Number("fees")
	loanAmount, loanOK := f.Number("loan_amount")
	if feesOK && loanOK && loanAmount > 0 {
		f.SetComputed("fee_percentage", facts.Value{Raw: (fees / loanAmount) * 100, Kind: facts.KindComputed})
	}
}

// settleComputed walks the ontology's computed extractors to a fixed
// point: in each pass, a field is settled once every field name its
// formula syntactically references is already present in f. The loop is
// bounded to N+1 passes for N computed fields, so an unresolvable cycle
// fails soft rather than looping forever (spec.md §4.3, §9).
func settleComputed(doc *ontology.Document, f *facts.Facts) {
	var pending []string
	for _, name := range doc.ExtractorOrder {
		ext, ok := doc.Extractors[name]
		if ok && ext.Type == "computed" && ext.HasFormula {
			pending = append(pending, name)
		}
	}
	if len(pending) == 0 {
		return
	}

	maxPasses := len(pending) + 1
	for pass := 0; pass < maxPasses && len(pending) > 0; pass++ {
		var stillPending []string
		for _, name := range pending {
			ext := doc.Extractors[name]
			if !dependenciesSatisfied(ext.Formula, f) {
				stillPending = append(stillPending, name)
				continue
			}
			settle(name, ext, f)
		}
		pending = stillPending
	}

	if len(pending) > 0 {
		log.Printf("[derive] %s: %d computed field(s) did not settle (cycle or unresolved dependency): %v", doc.Name, len(pending), pending)
		for _, name := range pending {
			ext := doc.Extractors[name]
			if ext.Default != nil {
				f.SetComputed(name, facts.Value{Raw: ext.Default, Kind: facts.KindComputed})
			}
		}
	}
}

func dependenciesSatisfied(expr formula.Expr, f *facts.Facts) bool {
	for _, dep := range formula.Dependencies(expr) {
		if !f.Has(dep) {
			return false
		}
	}
	return true
}

func settle(name string, ext ontology.Extractor, f *facts.Facts) {
	val := formula.Eval(ext.Formula, f)
	if val == nil {
		if ext.Default != nil {
			f.SetComputed(name, facts.Value{Raw: ext.Default, Kind: facts.KindComputed})
		}
		return
	}
	f.SetComputed(name, facts.Value{Raw: val, Kind: facts.KindComputed})
}
