package server

import (
	"encoding/json"
	"log"
	"net/http"
)

type analysisRequestBody struct {
	Strategy    string `json:"strategy"`
	ExternalURL string `json:"externalUrl"`
}

// handleAnalysis triggers the trade-to-analysis orchestration.
// POST /api/analysis
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	log.Printf("[INFO] analysis requested: strategy=%s externalUrl=%q", req.Strategy, req.ExternalURL)

	result, err := s.orch.AnalyzeTrading(r.Context(), req.Strategy, req.ExternalURL)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// The external service's response is passed through verbatim.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Raw); err != nil {
		log.Printf("[ERROR] write analysis response: %v", err)
	}
}
