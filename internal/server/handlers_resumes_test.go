package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanchen/resume-advisor/internal/db"
)

func saveResumeBody(t *testing.T, jobID uuid.UUID) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"job_id": jobID,
		"title":  "Backend Engineer",
		"sections": map[string]any{
			"education": []any{},
		},
	})
	require.NoError(t, err)
	return body
}

func TestHandleSaveResume_Create(t *testing.T) {
	userID := uuid.New()
	jobID := uuid.New()
	resumeID := uuid.New()

	var saved *db.ResumeSaveInput
	s := newTestServer(&mockDB{
		jobPostingExistsFn: func(_ context.Context, _ uuid.UUID) (bool, error) {
			return true, nil
		},
		saveResumeFn: func(_ context.Context, input *db.ResumeSaveInput) (uuid.UUID, bool, error) {
			saved = input
			return resumeID, true, nil
		},
	})

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/resumes", bytes.NewReader(saveResumeBody(t, jobID))), userID)
	w := httptest.NewRecorder()

	s.handleSaveResume(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, saved)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, jobID, saved.JobID)
	assert.Nil(t, saved.ID)
	assert.Contains(t, w.Body.String(), resumeID.String())
}

func TestHandleSaveResume_Update(t *testing.T) {
	userID := uuid.New()
	jobID := uuid.New()
	resumeID := uuid.New()

	s := newTestServer(&mockDB{
		jobPostingExistsFn: func(_ context.Context, _ uuid.UUID) (bool, error) {
			return true, nil
		},
		getResumeFn: func(_ context.Context, id uuid.UUID) (*db.Resume, error) {
			return &db.Resume{ID: id, UserID: userID, JobID: jobID}, nil
		},
		saveResumeFn: func(_ context.Context, input *db.ResumeSaveInput) (uuid.UUID, bool, error) {
			return *input.ID, false, nil
		},
	})

	body, _ := json.Marshal(map[string]any{
		"id":       resumeID,
		"job_id":   jobID,
		"title":    "Backend Engineer",
		"sections": map[string]any{"education": []any{}},
	})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/resumes", bytes.NewReader(body)), userID)
	w := httptest.NewRecorder()

	s.handleSaveResume(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), resumeID.String())
}

func TestHandleSaveResume_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{
			name: "missing title",
			body: map[string]any{"job_id": uuid.New(), "sections": map[string]any{}},
			want: "title is required",
		},
		{
			name: "missing job_id",
			body: map[string]any{"title": "Backend Engineer", "sections": map[string]any{}},
			want: "job_id is required",
		},
		{
			name: "missing sections",
			body: map[string]any{"job_id": uuid.New(), "title": "Backend Engineer"},
			want: "sections is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&mockDB{})

			body, _ := json.Marshal(tt.body)
			req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/resumes", bytes.NewReader(body)), uuid.New())
			w := httptest.NewRecorder()

			s.handleSaveResume(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestHandleSaveResume_UnknownJob(t *testing.T) {
	s := newTestServer(&mockDB{
		jobPostingExistsFn: func(_ context.Context, _ uuid.UUID) (bool, error) {
			return false, nil
		},
	})

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/resumes", bytes.NewReader(saveResumeBody(t, uuid.New()))), uuid.New())
	w := httptest.NewRecorder()

	s.handleSaveResume(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "job posting does not exist")
}

func TestHandleSaveResume_StoreFailureHidesDetail(t *testing.T) {
	s := newTestServer(&mockDB{
		jobPostingExistsFn: func(_ context.Context, _ uuid.UUID) (bool, error) {
			return true, nil
		},
		saveResumeFn: func(_ context.Context, _ *db.ResumeSaveInput) (uuid.UUID, bool, error) {
			return uuid.Nil, false, errors.New("pq: connection reset by peer")
		},
	})

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/resumes", bytes.NewReader(saveResumeBody(t, uuid.New()))), uuid.New())
	w := httptest.NewRecorder()

	s.handleSaveResume(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestHandleSaveResume_UpdateForeignResume(t *testing.T) {
	jobID := uuid.New()
	owner := uuid.New()
	caller := uuid.New()

	s := newTestServer(&mockDB{
		jobPostingExistsFn: func(_ context.Context, _ uuid.UUID) (bool, error) {
			return true, nil
		},
		getResumeFn: func(_ context.Context, id uuid.UUID) (*db.Resume, error) {
			return &db.Resume{ID: id, UserID: owner, JobID: jobID}, nil
		},
	})

	body, _ := json.Marshal(map[string]any{
		"id":       uuid.New(),
		"job_id":   jobID,
		"title":    "Backend Engineer",
		"sections": map[string]any{},
	})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/resumes", bytes.NewReader(body)), caller)
	w := httptest.NewRecorder()

	s.handleSaveResume(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "belongs to another user")
}

func TestHandleSaveResume_UpdateMissingResume(t *testing.T) {
	s := newTestServer(&mockDB{
		jobPostingExistsFn: func(_ context.Context, _ uuid.UUID) (bool, error) {
			return true, nil
		},
	})

	body, _ := json.Marshal(map[string]any{
		"id":       uuid.New(),
		"job_id":   uuid.New(),
		"title":    "Backend Engineer",
		"sections": map[string]any{},
	})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/resumes", bytes.NewReader(body)), uuid.New())
	w := httptest.NewRecorder()

	s.handleSaveResume(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetResume_InvalidID(t *testing.T) {
	s := newTestServer(&mockDB{})

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/resumes/not-a-uuid", nil), uuid.New())
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetResume(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid resume ID")
}

func TestHandleGetResume_NotFound(t *testing.T) {
	s := newTestServer(&mockDB{})
	resumeID := uuid.New()

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/resumes/"+resumeID.String(), nil), uuid.New())
	req.SetPathValue("id", resumeID.String())
	w := httptest.NewRecorder()

	s.handleGetResume(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetResume_Foreign(t *testing.T) {
	owner := uuid.New()
	resumeID := uuid.New()

	s := newTestServer(&mockDB{
		getResumeFn: func(_ context.Context, id uuid.UUID) (*db.Resume, error) {
			return &db.Resume{ID: id, UserID: owner}, nil
		},
	})

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/resumes/"+resumeID.String(), nil), uuid.New())
	req.SetPathValue("id", resumeID.String())
	w := httptest.NewRecorder()

	s.handleGetResume(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleGetResume_Success(t *testing.T) {
	userID := uuid.New()
	resumeID := uuid.New()

	s := newTestServer(&mockDB{
		getResumeFn: func(_ context.Context, id uuid.UUID) (*db.Resume, error) {
			return &db.Resume{
				ID:       id,
				UserID:   userID,
				Title:    "Backend Engineer",
				Sections: json.RawMessage(`{"education": []}`),
			}, nil
		},
	})

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/resumes/"+resumeID.String(), nil), userID)
	req.SetPathValue("id", resumeID.String())
	w := httptest.NewRecorder()

	s.handleGetResume(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Backend Engineer")
	assert.Contains(t, w.Body.String(), "education")
}

func TestHandleDeleteResume_Success(t *testing.T) {
	userID := uuid.New()
	resumeID := uuid.New()
	deleted := false

	s := newTestServer(&mockDB{
		getResumeFn: func(_ context.Context, id uuid.UUID) (*db.Resume, error) {
			return &db.Resume{ID: id, UserID: userID}, nil
		},
		deleteResumeFn: func(_ context.Context, _ uuid.UUID) error {
			deleted = true
			return nil
		},
	})

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/resumes/"+resumeID.String(), nil), userID)
	req.SetPathValue("id", resumeID.String())
	w := httptest.NewRecorder()

	s.handleDeleteResume(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, deleted)
}

func TestHandleDeleteResume_Foreign(t *testing.T) {
	resumeID := uuid.New()

	s := newTestServer(&mockDB{
		getResumeFn: func(_ context.Context, id uuid.UUID) (*db.Resume, error) {
			return &db.Resume{ID: id, UserID: uuid.New()}, nil
		},
	})

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/resumes/"+resumeID.String(), nil), uuid.New())
	req.SetPathValue("id", resumeID.String())
	w := httptest.NewRecorder()

	s.handleDeleteResume(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
