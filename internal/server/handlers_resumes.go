package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rowanchen/resume-advisor/internal/db"
	"github.com/rowanchen/resume-advisor/internal/server/middleware"
)

// SaveResumeRequest represents the request body for POST /api/resumes.
// When ID is set the save updates an existing resume; otherwise it creates
// one.
type SaveResumeRequest struct {
	ID       *uuid.UUID     `json:"id,omitempty"`
	JobID    uuid.UUID      `json:"job_id"`
	Title    string         `json:"title"`
	Sections map[string]any `json:"sections"`
}

// handleSaveResume creates or updates a resume. The resume document and its
// normalized section projections are written in one transaction.
func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SaveResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Title == "" {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.JobID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "job_id is required")
		return
	}
	if req.Sections == nil {
		s.errorResponse(w, http.StatusBadRequest, "sections is required")
		return
	}

	exists, err := s.db.JobPostingExists(r.Context(), req.JobID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !exists {
		s.errorResponse(w, http.StatusBadRequest, "job posting does not exist")
		return
	}

	// Updates must target a resume the caller owns
	if req.ID != nil {
		existing, err := s.db.GetResume(r.Context(), *req.ID)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		if existing == nil {
			s.errorResponse(w, http.StatusNotFound, "Resume not found")
			return
		}
		if existing.UserID != userID {
			s.errorResponse(w, http.StatusForbidden, "Resume belongs to another user")
			return
		}
	}

	resumeID, created, err := s.db.SaveResume(r.Context(), &db.ResumeSaveInput{
		ID:       req.ID,
		UserID:   userID,
		JobID:    req.JobID,
		Title:    req.Title,
		Sections: req.Sections,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, map[string]any{"resume_id": resumeID})
}

// handleGetResume returns a resume owned by the caller.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID format")
		return
	}

	resume, err := s.db.GetResume(r.Context(), resumeID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}
	if resume.UserID != userID {
		s.errorResponse(w, http.StatusForbidden, "Resume belongs to another user")
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleDeleteResume deletes a resume owned by the caller.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID format")
		return
	}

	resume, err := s.db.GetResume(r.Context(), resumeID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}
	if resume.UserID != userID {
		s.errorResponse(w, http.StatusForbidden, "Resume belongs to another user")
		return
	}

	if err := s.db.DeleteResume(r.Context(), resumeID); err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Resume deleted"})
}
