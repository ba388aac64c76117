package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/promptclash/backend/internal/server"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	// Create and start battle server
	battleServer, err := server.NewServer()
	if err != nil {
		slog.Error("Failed to create battle server", "error", err)
		os.Exit(1)
	}

	// Start server (blocks until shutdown)
	if err := battleServer.Start(); err != nil {
		slog.Error("Failed to start battle server", "error", err)
		os.Exit(1)
	}
}
