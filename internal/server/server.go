// Package server provides the HTTP REST API for the resume advisor.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rowanchen/resume-advisor/internal/ai"
	"github.com/rowanchen/resume-advisor/internal/config"
	"github.com/rowanchen/resume-advisor/internal/db"
	"github.com/rowanchen/resume-advisor/internal/llm"
	"github.com/rowanchen/resume-advisor/internal/server/middleware"
	"github.com/rowanchen/resume-advisor/internal/server/ratelimit"
)

// DBClient is the persistence surface the handlers depend on.
// Implemented by *db.DB; mocked in handler tests.
type DBClient interface {
	Health(ctx context.Context) error

	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *db.User) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, update *db.UserProfileUpdate) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	GetResume(ctx context.Context, resumeID uuid.UUID) (*db.Resume, error)
	SaveResume(ctx context.Context, input *db.ResumeSaveInput) (uuid.UUID, bool, error)
	DeleteResume(ctx context.Context, resumeID uuid.UUID) error
	ListUserResumes(ctx context.Context, userID uuid.UUID) ([]db.ResumeSummary, error)

	GetCoverLetter(ctx context.Context, letterID uuid.UUID) (*db.CoverLetter, error)
	SaveCoverLetter(ctx context.Context, input *db.CoverLetterSaveInput) (uuid.UUID, bool, error)
	DeleteCoverLetter(ctx context.Context, letterID uuid.UUID) error
	ListUserCoverLetters(ctx context.Context, userID uuid.UUID) ([]db.CoverLetterSummary, error)

	JobPostingExists(ctx context.Context, jobID uuid.UUID) (bool, error)
	GetJobPosting(ctx context.Context, jobID uuid.UUID) (*db.JobPosting, error)
	CreateJobPosting(ctx context.Context, input *db.JobPostingInput) (uuid.UUID, error)
	UpdateJobPosting(ctx context.Context, jobID uuid.UUID, update *db.JobPostingUpdate) error
	DeleteJobPosting(ctx context.Context, jobID uuid.UUID) error
	ListJobPostings(ctx context.Context, filters db.JobPostingFilters) ([]db.JobPostingSummary, error)
	SearchJobPostings(ctx context.Context, keyword string, limit int) ([]db.JobPostingSummary, error)
	ListUserJobPostings(ctx context.Context, userID uuid.UUID) ([]db.JobPostingSummary, error)
}

var _ DBClient = (*db.DB)(nil)

// JobAnalyzer extracts structured posting fields from free text.
// Implemented by *ai.Analyzer; mocked in handler tests.
type JobAnalyzer interface {
	AnalyzeJobDescription(ctx context.Context, jobText string) (*ai.JobAnalysis, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	db             DBClient
	pool           *db.DB
	analyzer       JobAnalyzer
	rateLimiter    *ratelimit.Limiter
	jwtService     *JWTService
	userService    *UserService
	authHandler    *AuthHandler
	validator      *validator.Validate
	allowedOrigins []string
}

// New creates a new server instance
func New(cfg *config.ServerConfig) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:             database,
		pool:           database,
		validator:      validator.New(),
		allowedOrigins: cfg.AllowedOrigins,
	}

	// Initialize rate limiter; the server-level per-minute setting overrides
	// the limiter's own default when set
	rlConfig := ratelimit.LoadConfig()
	if cfg.RateLimitPerMin == 0 {
		rlConfig.Enabled = false
	} else if rlConfig.Enabled {
		rlConfig.DefaultLimit = cfg.RateLimitPerMin
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	// Analyzer is optional; without an API key the analyze endpoint reports
	// itself unavailable
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(context.Background(), nil, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.analyzer = ai.NewAnalyzer(client)
	}

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the API router. Protected routes go through the JWT
// middleware, which places the authenticated user ID in the request context.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/signup", s.authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	// Account
	protected("GET /api/user", s.handleGetProfile)
	protected("PUT /api/user", s.handleUpdateProfile)
	protected("DELETE /api/user", s.handleDeleteAccount)
	protected("PUT /api/user/password", s.handleUpdatePassword)
	protected("GET /api/user/resumes", s.handleListResumes)
	protected("GET /api/user/cover-letters", s.handleListCoverLetters)
	protected("GET /api/user/jobs", s.handleListUserJobs)
	protected("GET /api/user/overview", s.handleOverview)

	// Resumes
	protected("POST /api/resumes", s.handleSaveResume)
	protected("GET /api/resumes/{id}", s.handleGetResume)
	protected("DELETE /api/resumes/{id}", s.handleDeleteResume)

	// Cover letters
	protected("POST /api/cover-letters", s.handleSaveCoverLetter)
	protected("GET /api/cover-letters/{id}", s.handleGetCoverLetter)
	protected("DELETE /api/cover-letters/{id}", s.handleDeleteCoverLetter)

	// Job postings
	protected("GET /api/job-postings", s.handleListJobPostings)
	protected("GET /api/job-postings/search", s.handleSearchJobPostings)
	protected("GET /api/job-postings/{id}", s.handleGetJobPosting)
	protected("POST /api/job-postings", s.handleCreateJobPosting)
	protected("PUT /api/job-postings/{id}", s.handleUpdateJobPosting)
	protected("DELETE /api/job-postings/{id}", s.handleDeleteJobPosting)

	// AI
	protected("POST /api/analyze-job", s.handleAnalyzeJob)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.pool != nil {
		s.pool.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers for the configured origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed := s.corsOrigin(origin); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// corsOrigin returns the Allow-Origin value for a request origin, or empty
// if the origin is not allowed.
func (s *Server) corsOrigin(origin string) string {
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(allowed, origin) {
			return allowed
		}
	}
	return ""
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		// Check rate limit
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		// Set rate limit headers for successful requests
		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server and database health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Health(r.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "ok",
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// internalError logs the failure detail and returns a fixed 500 body. The
// client must not be able to tell which internal step failed.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[%s] %s internal error: %v", r.Method, r.URL.Path, err)
	s.errorResponse(w, http.StatusInternalServerError, "Internal server error")
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
