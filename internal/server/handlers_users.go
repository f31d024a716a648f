package server

import (
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/rowanchen/resume-advisor/internal/db"
	"github.com/rowanchen/resume-advisor/internal/server/middleware"
	"github.com/rowanchen/resume-advisor/internal/types"
)

// handleGetProfile returns the authenticated user's profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.db.GetUser(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, convertDBUserToTypesUser(user))
}

// handleUpdateProfile applies a partial update to the authenticated user's
// profile. Email and password are not updatable here.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := &db.UserProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Location:  req.Location,
		LinkedIn:  req.LinkedIn,
		GitHub:    req.GitHub,
	}

	changed, err := s.db.UpdateUserProfile(r.Context(), userID, update)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !changed {
		s.errorResponse(w, http.StatusBadRequest, "No updatable fields provided")
		return
	}

	user, err := s.db.GetUser(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, convertDBUserToTypesUser(user))
}

// handleDeleteAccount deletes the authenticated user's account. Resumes,
// cover letters, and normalized section rows cascade.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.db.DeleteUser(r.Context(), userID); err != nil {
		s.internalError(w, r, err)
		return
	}

	log.Printf("Deleted user account %s", userID)
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// handleUpdatePassword changes the authenticated user's password.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// handleListResumes returns summaries of the user's resumes, most recently
// updated first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumes, err := s.db.ListUserResumes(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumes": resumes,
		"count":   len(resumes),
	})
}

// handleListCoverLetters returns summaries of the user's cover letters.
func (s *Server) handleListCoverLetters(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	letters, err := s.db.ListUserCoverLetters(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"cover_letters": letters,
		"count":         len(letters),
	})
}

// handleListUserJobs returns the job postings the user has targeted through
// their resumes.
func (s *Server) handleListUserJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobs, err := s.db.ListUserJobPostings(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleOverview returns the user's profile and their three dashboard lists,
// fetched concurrently.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var (
		user    *db.User
		resumes []db.ResumeSummary
		letters []db.CoverLetterSummary
		jobs    []db.JobPostingSummary
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		user, err = s.db.GetUser(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		resumes, err = s.db.ListUserResumes(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		letters, err = s.db.ListUserCoverLetters(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		jobs, err = s.db.ListUserJobPostings(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.internalError(w, r, err)
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user":          convertDBUserToTypesUser(user),
		"resumes":       resumes,
		"cover_letters": letters,
		"jobs":          jobs,
	})
}
