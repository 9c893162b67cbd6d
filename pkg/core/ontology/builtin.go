package ontology

import "github.com/aare-ai/aare/pkg/core/formula"

// The three ontologies spec.md §6 requires the provider to recognize by
// name. They are declared directly as Go values rather than embedded JSON
// so ExtractorOrder is simply their literal field order here, with no
// token-walk needed (see order.go, used only for file-loaded overrides).
//
// The source system (original_source/handlers/ontology_loader.py) ships
// formula_readable strings but no machine formula on these constraints —
// see SPEC_FULL.md §8 for why this repo additionally attaches a
// hand-translated machine `formula` to each one, and DESIGN.md for the
// per-constraint trace against the end-to-end scenarios these formulas
// must reproduce.

func field(name string) formula.Expr { return formula.Expr{Kind: formula.KindField, Field: name} }
func lit(v interface{}) formula.Expr { return formula.Expr{Kind: formula.KindLiteral, Literal: v} }
func op(name string, args ...formula.Expr) formula.Expr {
	return formula.Expr{Kind: formula.KindOp, Op: name, Args: args}
}

func mortgageComplianceV1() *Document {
	doc := &Document{
		Name:        "mortgage-compliance-v1",
		Version:     "1.0",
		Description: "Ability-to-repay, HOEPA/HPML and UDAAP checks for mortgage lending communications.",
		Extractors: map[string]Extractor{
			"dti": {
				Type:    "float",
				Pattern: `(?i)dti:?\s*(\d+(?:\.\d+)?)`,
			},
			"fico": {
				Type:    "int",
				Pattern: `(?i)fico:?\s*(\d+)`,
			},
			"escrow_waived": {
				Type:          "boolean",
				Keywords:      []string{"escrow waived", "waived escrow", "waiving escrow"},
				CheckNegation: true,
				NegationWords: []string{"not", "no longer", "cannot be"},
			},
			"has_approval": {
				Type:          "boolean",
				Keywords:      []string{"approved", "approve", "approval"},
				CheckNegation: true,
				NegationWords: []string{"not", "no", "cannot", "never", "without", "isn't", "won't", "unable"},
			},
			"is_denial": {
				Type:          "boolean",
				Keywords:      []string{"denied", "denial", "rejected", "declined"},
				CheckNegation: true,
				NegationWords: []string{"not", "overturned", "reversed"},
			},
			"has_specific_reason": {
				Type:    "boolean",
				Pattern: `(?i)reason:?\s+\S+`,
			},
			"guarantee_language": {
				Type:          "boolean",
				Keywords:      []string{"guarantee", "guaranteed", "assured outcome", "promise of approval"},
				CheckNegation: true,
				NegationWords: []string{"not", "no"},
			},
			"compensating_factors": {
				Type:    "int",
				Pattern: `(?i)compensating factors:?\s*(\d+)`,
			},
			"fees": {
				Type:    "money",
				Pattern: `(?i)fees?:?\s*\$?\s*([\d,]+(?:\.\d+)?\s*[kmb]?)`,
			},
			"loan_amount": {
				Type:    "money",
				Pattern: `(?i)loan amount:?\s*\$?\s*([\d,]+(?:\.\d+)?\s*[kmb]?)`,
			},
			"counseling_disclosed": {
				Type:          "boolean",
				Keywords:      []string{"counseling disclosed", "counseling was provided", "housing counseling offered"},
				CheckNegation: true,
				NegationWords: []string{"not", "no"},
			},
		},
		ExtractorOrder: []string{
			"dti", "fico", "escrow_waived", "has_approval", "is_denial",
			"has_specific_reason", "guarantee_language", "compensating_factors",
			"fees", "loan_amount", "counseling_disclosed",
		},
	}

	doc.Constraints = []Constraint{
		{
			ID:              "ATR_QM_DTI",
			Category:        "ability-to-repay",
			Description:     "Debt-to-income ratio must stay within the Qualified Mortgage safe harbor absent documented compensating factors.",
			FormulaReadable: "DTI ≤ 43 ∨ compensating_factors ≥ 2",
			Variables:       []Variable{{Name: "dti", Type: "float"}, {Name: "compensating_factors", Type: "int"}},
			ErrorMessage:    "DTI exceeds the 43% ATR/QM threshold without at least two documented compensating factors.",
			Citation:        "12 CFR 1026.43(e)(2)(vi)",
			Formula:         op("or", op("lte", field("dti"), lit(43.0)), op("gte", field("compensating_factors"), lit(2.0))),
			HasFormula:      true,
		},
		{
			ID:              "HPML_ESCROW",
			Category:        "higher-priced-mortgage-loan",
			Description:     "Escrow accounts may not be waived on loans priced as higher-priced mortgage loans.",
			FormulaReadable: "FICO < 620 ⟹ ¬escrow_waived",
			Variables:       []Variable{{Name: "fico", Type: "int"}, {Name: "escrow_waived", Type: "boolean"}},
			ErrorMessage:    "Escrow was waived on a loan priced as higher-priced (FICO below 620).",
			Citation:        "12 CFR 1026.35(b)(3)",
			Formula:         op("if", op("lt", field("fico"), lit(620.0)), op("not", field("escrow_waived")), lit(true)),
			HasFormula:      true,
		},
		{
			ID:              "UDAAP_NO_GUARANTEES",
			Category:        "udaap",
			Description:     "Communications must not guarantee loan approval or outcome.",
			FormulaReadable: "¬guarantee_language",
			Variables:       []Variable{{Name: "guarantee_language", Type: "boolean"}},
			ErrorMessage:    "Communication contains guaranteed-approval or guaranteed-outcome language.",
			Citation:        "12 U.S.C. 5531",
			Formula:         op("not", field("guarantee_language")),
			HasFormula:      true,
		},
		{
			ID:              "ECOA_ADVERSE_ACTION",
			Category:        "ecoa",
			Description:     "An adverse action must be accompanied by a specific, statable reason.",
			FormulaReadable: "is_denial ⟹ has_specific_reason",
			Variables:       []Variable{{Name: "is_denial", Type: "boolean"}, {Name: "has_specific_reason", Type: "boolean"}},
			ErrorMessage:    "Adverse action notice is missing a specific reason for denial.",
			Citation:        "12 CFR 1002.9(b)(2)",
			Formula:         op("if", field("is_denial"), field("has_specific_reason"), lit(true)),
			HasFormula:      true,
		},
		{
			ID:              "HOEPA_HIGH_COST",
			Category:        "hoepa",
			Description:     "High total loan costs must be paired with documented counseling disclosure.",
			FormulaReadable: "fee_percentage present ⟹ (fee_percentage < 8 ∨ counseling_disclosed)",
			Variables:       []Variable{{Name: "fee_percentage", Type: "float"}, {Name: "counseling_disclosed", Type: "boolean"}},
			ErrorMessage:    "Total points and fees meet the HOEPA high-cost threshold without disclosed counseling.",
			Citation:        "12 CFR 1026.32(a)(1)",
			Formula: op("if", op("count_fields", field("fee_percentage")),
				op("or", op("lt", field("fee_percentage"), lit(8.0)), field("counseling_disclosed")),
				lit(true)),
			HasFormula: true,
		},
	}

	return doc
}

func fairLendingV1() *Document {
	doc := &Document{
		Name:        "fair-lending-v1",
		Version:     "1.0",
		Description: "Fair lending pricing and loan-amount checks for credit decisioning communications.",
		Extractors: map[string]Extractor{
			"loan_amount": {
				Type:    "money",
				Pattern: `(?i)\$\s*([\d,]+(?:\.\d+)?\s*[kmb]?)\s*loan`,
			},
			"dti": {
				Type:    "float",
				Pattern: `(?i)dti:?\s*(\d+(?:\.\d+)?)`,
			},
			"fico": {
				Type:    "int",
				Pattern: `(?i)fico:?\s*(\d+)`,
			},
			"rate_spread": {
				Type:    "percentage",
				Pattern: `(?i)rate spread:?\s*(\d+(?:\.\d+)?)\s*%?`,
			},
			"protected_class_mentioned": {
				Type:          "boolean",
				Keywords:      []string{"race", "gender", "national origin", "religion", "marital status", "disability status"},
				CheckNegation: true,
				NegationWords: []string{"regardless of", "without regard to"},
			},
			"pricing_justified": {
				Type:          "boolean",
				Keywords:      []string{"risk-based pricing", "justified by credit risk", "documented justification"},
				CheckNegation: true,
				NegationWords: []string{"not", "no"},
			},
		},
		ExtractorOrder: []string{
			"loan_amount", "dti", "fico", "rate_spread",
			"protected_class_mentioned", "pricing_justified",
		},
	}

	doc.Constraints = []Constraint{
		{
			ID:              "LOAN_AMOUNT_LIMIT",
			Category:        "program-eligibility",
			Description:     "Loan amount must not exceed the program's conforming limit.",
			FormulaReadable: "loan_amount ≤ 100,000",
			Variables:       []Variable{{Name: "loan_amount", Type: "money"}},
			ErrorMessage:    "Loan amount exceeds the program's $100,000 conforming limit.",
			Citation:        "Program Guidelines §2.1",
			Formula:         op("lte", field("loan_amount"), lit(100000.0)),
			HasFormula:      true,
		},
		{
			ID:              "FAIR_LENDING_PRICING_DISPARITY",
			Category:        "fair-lending",
			Description:     "Any reference to a protected class must be paired with a documented, risk-based pricing justification.",
			FormulaReadable: "protected_class_mentioned ⟹ pricing_justified",
			Variables:       []Variable{{Name: "protected_class_mentioned", Type: "boolean"}, {Name: "pricing_justified", Type: "boolean"}},
			ErrorMessage:    "Protected-class characteristic referenced without a documented pricing justification.",
			Citation:        "ECOA, 15 U.S.C. 1691",
			Formula:         op("if", field("protected_class_mentioned"), field("pricing_justified"), lit(true)),
			HasFormula:      true,
		},
		{
			ID:              "DTI_WITHIN_GUIDELINE",
			Category:        "underwriting",
			Description:     "Debt-to-income ratio must remain within the program's underwriting guideline.",
			FormulaReadable: "DTI ≤ 45",
			Variables:       []Variable{{Name: "dti", Type: "float"}},
			ErrorMessage:    "DTI exceeds the program's 45% underwriting guideline.",
			Citation:        "Program Guidelines §3.4",
			Formula:         op("lte", field("dti"), lit(45.0)),
			HasFormula:      true,
		},
	}

	return doc
}

func hipaaV1() *Document {
	doc := &Document{
		Name:        "hipaa-v1",
		Version:     "1.0",
		Description: "Protected health information disclosure checks for clinical and administrative communications.",
		Extractors: map[string]Extractor{
			"ssn_present": {
				Type:    "boolean",
				Pattern: `\d{3}-\d{2}-\d{4}`,
			},
			"patient_name_present": {
				Type:    "boolean",
				Pattern: `(?i)patient:?\s*[A-Za-z]+\s+[A-Za-z]+`,
			},
			"consent_on_file": {
				Type:          "boolean",
				Keywords:      []string{"consent on file", "authorized disclosure", "patient consented"},
				CheckNegation: true,
				NegationWords: []string{"not", "no", "without"},
			},
			"minimum_necessary_redaction": {
				Type:          "boolean",
				Keywords:      []string{"redacted", "de-identified", "anonymized"},
				CheckNegation: true,
				NegationWords: []string{"not", "un"},
			},
			"treatment_detail_present": {
				Type:          "boolean",
				Keywords:      []string{"diagnosis", "treatment plan", "prescribed", "procedure performed"},
				CheckNegation: true,
				NegationWords: []string{"no", "without"},
			},
			"justification_documented": {
				Type:          "boolean",
				Keywords:      []string{"justification documented", "medical necessity documented"},
				CheckNegation: true,
				NegationWords: []string{"not", "no"},
			},
		},
		ExtractorOrder: []string{
			"ssn_present", "patient_name_present", "consent_on_file",
			"minimum_necessary_redaction", "treatment_detail_present", "justification_documented",
		},
	}

	doc.Constraints = []Constraint{
		{
			ID:              "PHI_SSN_ZERO_TOLERANCE",
			Category:        "phi-disclosure",
			Description:     "Social Security numbers must never appear in plaintext.",
			FormulaReadable: "¬ssn_present",
			Variables:       []Variable{{Name: "ssn_present", Type: "boolean"}},
			ErrorMessage:    "Social Security number disclosed in plaintext.",
			Citation:        "45 CFR 164.514(b)(2)",
			Formula:         op("not", field("ssn_present")),
			HasFormula:      true,
		},
		{
			ID:              "PHI_NAME_DISCLOSURE",
			Category:        "phi-disclosure",
			Description:     "Disclosure of a patient's name requires documented consent.",
			FormulaReadable: "patient_name_present ⟹ consent_on_file",
			Variables:       []Variable{{Name: "patient_name_present", Type: "boolean"}, {Name: "consent_on_file", Type: "boolean"}},
			ErrorMessage:    "Patient name disclosed without documented consent on file.",
			Citation:        "45 CFR 164.508",
			Formula:         op("if", field("patient_name_present"), field("consent_on_file"), lit(true)),
			HasFormula:      true,
		},
		{
			ID:              "PHI_TREATMENT_DETAIL_MINIMIZATION",
			Category:        "minimum-necessary",
			Description:     "Disclosed treatment detail must be paired with a documented necessity justification.",
			FormulaReadable: "treatment_detail_present ⟹ justification_documented",
			Variables:       []Variable{{Name: "treatment_detail_present", Type: "boolean"}, {Name: "justification_documented", Type: "boolean"}},
			ErrorMessage:    "Clinical treatment detail disclosed without a documented minimum-necessary justification.",
			Citation:        "45 CFR 164.502(b)",
			Formula:         op("if", field("treatment_detail_present"), field("justification_documented"), lit(true)),
			HasFormula:      true,
		},
	}

	return doc
}
