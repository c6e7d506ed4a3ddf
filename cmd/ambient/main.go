// Command ambient plays one album behind a full-window visualizer.
//
//	ambient [album-id]
//
// Without an argument it plays DREAMTUNE_ALBUM, or the album last shown in the player.
// Space pauses, arrows seek and change volume, Tab shows the track, F11 toggles fullscreen.
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

	albumID := config.Album
	if len(os.Args) > 1 {
		albumID = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ambient, err := app.NewAmbient(ctx, config, albumID)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		if err := ambient.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = ambient.Shutdown()
	}()

	if err := ambient.Run(ctx); err != nil {
		log.Printf("Ambient error: %v", err)
	}
}
