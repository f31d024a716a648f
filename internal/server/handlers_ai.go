package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rowanchen/resume-advisor/internal/ai"
)

// AnalyzeJobRequest represents the request body for POST /api/analyze-job.
type AnalyzeJobRequest struct {
	JobDescription string `json:"job_description"`
}

// handleAnalyzeJob runs the LLM extraction pipeline over a pasted job
// description and returns the structured posting fields.
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "AI analysis is not configured")
		return
	}

	var req AnalyzeJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	analysis, err := s.analyzer.AnalyzeJobDescription(r.Context(), req.JobDescription)
	if err != nil {
		if errors.Is(err, ai.ErrJobTextTooShort) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Job analysis failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to analyze job description")
		return
	}

	s.jsonResponse(w, http.StatusOK, analysis)
}
