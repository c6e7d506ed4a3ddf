// Package main is the production entry point for the Dreamtune desktop player.
//
// Configuration comes from DREAMTUNE_* environment variables, for example:
//
//	DREAMTUNE_CATALOG=audius DREAMTUNE_AUTHENTICATED=true ./build/dreamtune
//
// Build:
//
//	go build -o build/dreamtune ./cmd
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tejashwikalptaru/dreamtune/internal/app"
)

func main() {
	config, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create the application with dependency injection
	application, err := app.NewApplication(ctx, config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(ctx); err != nil {
		log.Printf("Application error: %v", err)
	}
}
