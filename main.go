package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"facturx/cmd"
	"facturx/internal/config"
	"facturx/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		cfg = config.Default()
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Printf("Warning: Could not initialize logger from configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Debug().
		Str("profile", cfg.Profile).
		Msg("Starting Factur-X CLI application")

	cmd.Execute(cfg)

	log.Debug().Msg("Factur-X CLI application shutdown")
	os.Exit(0)
}
