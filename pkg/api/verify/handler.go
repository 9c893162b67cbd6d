// Package verify is the thin HTTP boundary around pkg/core/pipeline: JSON
// decode, CORS, a 400 on missing input, and a recover-based 500 boundary.
package verify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aare-ai/aare/pkg/core/ontology"
	"github.com/aare-ai/aare/pkg/core/pipeline"
)

// Handler wires an ontology.Provider to the verification HTTP endpoint.
type Handler struct {
	Provider       *ontology.Provider
	CORSOrigins    []string
	WithConfidence bool
}

// NewHandler constructs a Handler over provider. corsOrigins mirrors
// CORS_ORIGINS (comma-separated in the environment, split before here).
func NewHandler(provider *ontology.Provider, corsOrigins []string) *Handler {
	return &Handler{Provider: provider, CORSOrigins: corsOrigins}
}

type verifyRequest struct {
	LLMOutput string `json:"llm_output"`
	Ontology  string `json:"ontology"`
}

type verifyResponse struct {
	Verified        bool                     `json:"verified"`
	Violations      []violationJSON          `json:"violations"`
	ParsedData      json.RawMessage          `json:"parsed_data"`
	Ontology        pipeline.OntologySummary `json:"ontology"`
	Proof           map[string]interface{}   `json:"proof"`
	VerificationID  string                   `json:"verification_id"`
	ExecutionTimeMs int64                    `json:"execution_time_ms"`
	Timestamp       string                   `json:"timestamp"`
}

type violationJSON struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	ErrorMessage string `json:"error_message"`
	Citation     string `json:"citation"`
}

// HandleVerify implements POST /api/verify (spec.md §6).
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	verificationID := uuid.NewString()

	defer func() {
		if rec := recover(); rec != nil {
			fmt.Printf("[verify] unhandled fault (verification_id=%s): %v\n", verificationID, rec)
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("%v", rec), "internal_error", verificationID)
		}
	}()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_json", verificationID)
		return
	}
	if strings.TrimSpace(req.LLMOutput) == "" {
		writeError(w, http.StatusBadRequest, "llm_output is required and must be nonempty", "missing_field", verificationID)
		return
	}

	fmt.Printf("[verify] request %s: ontology=%q chars=%d\n", verificationID, req.Ontology, len(req.LLMOutput))

	out, err := pipeline.Run(h.Provider, req.LLMOutput, req.Ontology, h.WithConfidence)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "ontology_error", verificationID)
		return
	}

	parsedData, err := json.Marshal(out.ParsedData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "internal_error", verificationID)
		return
	}

	violations := make([]violationJSON, len(out.Violations))
	for i, v := range out.Violations {
		violations[i] = violationJSON{
			ID: v.ID, Category: v.Category, Description: v.Description,
			ErrorMessage: v.ErrorMessage, Citation: v.Citation,
		}
	}

	resp := verifyResponse{
		Verified:        out.Verified,
		Violations:      violations,
		ParsedData:      parsedData,
		Ontology:        out.Ontology,
		Proof:           out.Proof,
		VerificationID:  verificationID,
		ExecutionTimeMs: out.ExecutionTimeMs,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		fmt.Printf("[verify] failed to write response for %s: %v\n", verificationID, err)
	}
}

// HandleListOntologies implements GET /api/ontologies (SPEC_FULL.md §10).
func (h *Handler) HandleListOntologies(w http.ResponseWriter, r *http.Request) {
	h.setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ontologies": h.Provider.ListAvailable(),
	})
}

// HandleGetOntology implements GET /api/ontologies/{name}.
func (h *Handler) HandleGetOntology(w http.ResponseWriter, r *http.Request) {
	h.setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/ontologies/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "ontology name is required", "missing_field", uuid.NewString())
		return
	}
	doc, err := h.Provider.Load(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), "not_found", uuid.NewString())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// HandleHealth implements GET /api/health.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *Handler) setCORS(w http.ResponseWriter) {
	origin := "*"
	if len(h.CORSOrigins) > 0 {
		origin = strings.Join(h.CORSOrigins, ", ")
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeError(w http.ResponseWriter, status int, message, errType, verificationID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":           message,
		"type":            errType,
		"verification_id": verificationID,
	})
}
