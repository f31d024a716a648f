// Package main provides the entry point for the Resume Advisor HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_advisor",
	Short: "Resume Advisor HTTP API Server",
	Long:  "Resume Advisor manages users, resumes, cover letters, and job postings, keeping normalized resume sections in sync with the authoritative documents via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
