// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds the HTTP server and database configuration.
type ServerConfig struct {
	Port            int
	DatabaseURL     string
	GeminiAPIKey    string
	AllowedOrigins  []string
	RateLimitPerMin int
}

// NewServerConfig creates a server configuration from environment variables.
// It reads PORT (default: 8080), DATABASE_URL (required), GEMINI_API_KEY
// (optional; the analyze endpoint is disabled without it), ALLOWED_ORIGINS
// (comma-separated, default: *) and RATE_LIMIT_PER_MIN (default: 60, 0
// disables rate limiting).
func NewServerConfig() (*ServerConfig, error) {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080" // default
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}

	limitStr := os.Getenv("RATE_LIMIT_PER_MIN")
	if limitStr == "" {
		limitStr = "60" // default
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MIN: %v", err)
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "*"
	}

	config := &ServerConfig{
		Port:            port,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		AllowedOrigins:  splitOrigins(origins),
		RateLimitPerMin: limit,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be non-negative, got: %d", c.RateLimitPerMin)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS cannot be empty")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
