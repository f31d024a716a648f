package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanchen/resume-advisor/internal/config"
	"github.com/rowanchen/resume-advisor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for accounts, resumes, cover letters, and job postings.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
