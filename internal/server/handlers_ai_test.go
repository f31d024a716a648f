package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanchen/resume-advisor/internal/ai"
)

func TestHandleAnalyzeJob_NotConfigured(t *testing.T) {
	s := newTestServer(&mockDB{})
	// No analyzer wired

	body := []byte(`{"job_description": "some posting text"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-job", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleAnalyzeJob(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "AI analysis is not configured")
}

func TestHandleAnalyzeJob_InvalidJSON(t *testing.T) {
	s := newTestServer(&mockDB{})
	s.analyzer = &mockAnalyzer{}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-job", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()

	s.handleAnalyzeJob(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestHandleAnalyzeJob_TooShort(t *testing.T) {
	s := newTestServer(&mockDB{})
	s.analyzer = &mockAnalyzer{err: ai.ErrJobTextTooShort}

	body := []byte(`{"job_description": "too short"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-job", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleAnalyzeJob(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeJob_AnalyzerFailure(t *testing.T) {
	s := newTestServer(&mockDB{})
	s.analyzer = &mockAnalyzer{err: errors.New("model unavailable")}

	body := []byte(`{"job_description": "a long enough posting for analysis to proceed normally"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-job", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleAnalyzeJob(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal detail must not leak to the client
	assert.NotContains(t, w.Body.String(), "model unavailable")
}

func TestHandleAnalyzeJob_Success(t *testing.T) {
	s := newTestServer(&mockDB{})
	s.analyzer = &mockAnalyzer{
		analysis: &ai.JobAnalysis{
			Title:        "Backend Engineer",
			CompanyName:  "Initech",
			JobLocation:  "Austin, TX",
			Requirements: []string{"Go", "PostgreSQL"},
		},
	}

	body := []byte(`{"job_description": "Initech is hiring a backend engineer in Austin to build Go services."}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-job", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleAnalyzeJob(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ai.JobAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Initech", resp.CompanyName)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, resp.Requirements)
}
