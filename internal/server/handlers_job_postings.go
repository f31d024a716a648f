package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/rowanchen/resume-advisor/internal/db"
)

// handleListJobPostings returns posting summaries, optionally filtered by
// company or location substring.
func (s *Server) handleListJobPostings(w http.ResponseWriter, r *http.Request) {
	filters := db.JobPostingFilters{
		Company:  r.URL.Query().Get("company"),
		Location: r.URL.Query().Get("location"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filters.Limit = limit
	}

	postings, err := s.db.ListJobPostings(r.Context(), filters)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  postings,
		"count": len(postings),
	})
}

// handleSearchJobPostings performs a keyword search across titles,
// descriptions and requirements.
func (s *Server) handleSearchJobPostings(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		s.errorResponse(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	postings, err := s.db.SearchJobPostings(r.Context(), keyword, limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  postings,
		"count": len(postings),
	})
}

// handleGetJobPosting returns a single posting with company and requirements.
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job posting ID format")
		return
	}

	posting, err := s.db.GetJobPosting(r.Context(), jobID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if posting == nil {
		s.errorResponse(w, http.StatusNotFound, "Job posting not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, posting)
}

// handleCreateJobPosting creates a posting, upserting its company by name.
func (s *Server) handleCreateJobPosting(w http.ResponseWriter, r *http.Request) {
	var input db.JobPostingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if input.Title == "" {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if input.CompanyName == "" {
		s.errorResponse(w, http.StatusBadRequest, "company_name is required")
		return
	}
	if input.JobLocation == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_location is required")
		return
	}

	jobID, err := s.db.CreateJobPosting(r.Context(), &input)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{"job_id": jobID})
}

// handleUpdateJobPosting applies a partial update to a posting. Omitted
// fields are left untouched; a requirements array replaces the existing set.
func (s *Server) handleUpdateJobPosting(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job posting ID format")
		return
	}

	var update db.JobPostingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if update.Title == nil && update.Description == nil && update.JobLocation == nil &&
		update.CloseDate == nil && update.Requirements == nil {
		s.errorResponse(w, http.StatusBadRequest, "No updatable fields provided")
		return
	}

	exists, err := s.db.JobPostingExists(r.Context(), jobID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !exists {
		s.errorResponse(w, http.StatusNotFound, "Job posting not found")
		return
	}

	if err := s.db.UpdateJobPosting(r.Context(), jobID, &update); err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Job posting updated"})
}

// handleDeleteJobPosting deletes a posting and its requirements.
func (s *Server) handleDeleteJobPosting(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job posting ID format")
		return
	}

	exists, err := s.db.JobPostingExists(r.Context(), jobID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !exists {
		s.errorResponse(w, http.StatusNotFound, "Job posting not found")
		return
	}

	if err := s.db.DeleteJobPosting(r.Context(), jobID); err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Job posting deleted"})
}
