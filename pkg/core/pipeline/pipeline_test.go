package pipeline

import (
	"sort"
	"testing"

	"github.com/aare-ai/aare/pkg/core/ontology"
)

func violationIDs(out *Output) []string {
	ids := make([]string, 0, len(out.Violations))
	for _, v := range out.Violations {
		ids = append(ids, v.ID)
	}
	sort.Strings(ids)
	return ids
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := append([]string{}, a...), append([]string{}, b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func TestScenarioS1DTIAndEscrow(t *testing.T) {
	p := ontology.NewProvider("")
	out, err := Run(p, "DTI: 52, FICO 580, escrow waived", "mortgage-compliance-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Verified {
		t.Errorf("expected not verified")
	}
	want := []string{"ATR_QM_DTI", "HPML_ESCROW"}
	if got := violationIDs(out); !equalStringSets(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestScenarioS2CleanApplication(t *testing.T) {
	p := ontology.NewProvider("")
	out, err := Run(p, "DTI: 35, FICO 720, approved", "mortgage-compliance-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !out.Verified {
		t.Errorf("expected verified, got violations %v", violationIDs(out))
	}
}

func TestScenarioS3GuaranteeLanguage(t *testing.T) {
	p := ontology.NewProvider("")
	out, err := Run(p, "Approval guaranteed", "mortgage-compliance-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Verified {
		t.Errorf("expected not verified")
	}
	want := []string{"UDAAP_NO_GUARANTEES"}
	if got := violationIDs(out); !equalStringSets(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestScenarioS4PHIDisclosure(t *testing.T) {
	p := ontology.NewProvider("")
	out, err := Run(p, "Patient: John Doe, SSN 123-45-6789", "hipaa-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Verified {
		t.Errorf("expected not verified")
	}
	want := []string{"PHI_SSN_ZERO_TOLERANCE", "PHI_NAME_DISCLOSURE"}
	if got := violationIDs(out); !equalStringSets(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestScenarioS5LoanAmountLimit(t *testing.T) {
	p := ontology.NewProvider("")
	out, err := Run(p, "$150,000 loan, DTI 30, FICO 650", "fair-lending-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Verified {
		t.Errorf("expected not verified")
	}
	want := []string{"LOAN_AMOUNT_LIMIT"}
	if got := violationIDs(out); !equalStringSets(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestScenarioS6DenialWithReason(t *testing.T) {
	p := ontology.NewProvider("")
	out, err := Run(p, "Denied. Reason: insufficient income.", "mortgage-compliance-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !out.Verified {
		t.Errorf("expected verified, got violations %v", violationIDs(out))
	}
}

func TestDeterminismAcrossRuns(t *testing.T) {
	p := ontology.NewProvider("")
	a, err := Run(p, "DTI: 52, FICO 580, escrow waived", "mortgage-compliance-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	b, err := Run(p, "DTI: 52, FICO 580, escrow waived", "mortgage-compliance-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !equalStringSets(violationIDs(a), violationIDs(b)) || a.Verified != b.Verified {
		t.Errorf("two runs over identical input diverged: %v vs %v", violationIDs(a), violationIDs(b))
	}
}

func TestViolationOrderingMatchesOntologyOrder(t *testing.T) {
	p := ontology.NewProvider("")
	out, err := Run(p, "DTI: 52, FICO 580, escrow waived", "mortgage-compliance-v1", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	// ATR_QM_DTI is declared before HPML_ESCROW in builtin.go.
	if len(out.Violations) != 2 || out.Violations[0].ID != "ATR_QM_DTI" || out.Violations[1].ID != "HPML_ESCROW" {
		t.Errorf("violations out of ontology order: %v", violationIDs(out))
	}
}

func TestUnknownOntologyFallsBackToDefault(t *testing.T) {
	p := ontology.NewProvider("")
	out, err := Run(p, "DTI: 35, FICO 720, approved", "does-not-exist", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Ontology.Name != ontology.DefaultOntology {
		t.Errorf("unknown ontology resolved to %q, want %q", out.Ontology.Name, ontology.DefaultOntology)
	}
}
