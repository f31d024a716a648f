package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rowanchen/resume-advisor/internal/db"
	"github.com/rowanchen/resume-advisor/internal/server/middleware"
)

// SaveCoverLetterRequest represents the request body for POST /api/cover-letters.
type SaveCoverLetterRequest struct {
	ID      *uuid.UUID      `json:"id,omitempty"`
	JobID   uuid.UUID       `json:"job_id"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// handleSaveCoverLetter creates or updates a cover letter. Unlike resumes,
// cover letters have no normalized projections.
func (s *Server) handleSaveCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SaveCoverLetterRequest
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
	if len(req.Content) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "content is required")
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

	if req.ID != nil {
		existing, err := s.db.GetCoverLetter(r.Context(), *req.ID)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		if existing == nil {
			s.errorResponse(w, http.StatusNotFound, "Cover letter not found")
			return
		}
		if existing.UserID != userID {
			s.errorResponse(w, http.StatusForbidden, "Cover letter belongs to another user")
			return
		}
	}

	letterID, created, err := s.db.SaveCoverLetter(r.Context(), &db.CoverLetterSaveInput{
		ID:      req.ID,
		UserID:  userID,
		JobID:   req.JobID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, map[string]any{"cover_letter_id": letterID})
}

// handleGetCoverLetter returns a cover letter owned by the caller.
func (s *Server) handleGetCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	letterID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid cover letter ID format")
		return
	}

	letter, err := s.db.GetCoverLetter(r.Context(), letterID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if letter == nil {
		s.errorResponse(w, http.StatusNotFound, "Cover letter not found")
		return
	}
	if letter.UserID != userID {
		s.errorResponse(w, http.StatusForbidden, "Cover letter belongs to another user")
		return
	}

	s.jsonResponse(w, http.StatusOK, letter)
}

// handleDeleteCoverLetter deletes a cover letter owned by the caller.
func (s *Server) handleDeleteCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	letterID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid cover letter ID format")
		return
	}

	letter, err := s.db.GetCoverLetter(r.Context(), letterID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if letter == nil {
		s.errorResponse(w, http.StatusNotFound, "Cover letter not found")
		return
	}
	if letter.UserID != userID {
		s.errorResponse(w, http.StatusForbidden, "Cover letter belongs to another user")
		return
	}

	if err := s.db.DeleteCoverLetter(r.Context(), letterID); err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Cover letter deleted"})
}
