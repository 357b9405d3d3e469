package main

import (
	"os"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/logger"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/server"
)

// @title Fingerprint Attendance API
// @version 1.0
// @description Backend API for the fingerprint attendance system: teacher authentication, attendance recording and offline batch sync.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives.
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
