package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/radiantlabs/cyberboy/internal/client/ai"
	"github.com/radiantlabs/cyberboy/internal/client/backendapi"
	"github.com/radiantlabs/cyberboy/internal/client/cli"
	"github.com/radiantlabs/cyberboy/internal/client/localdata"
	"github.com/radiantlabs/cyberboy/internal/client/usage"
	"github.com/radiantlabs/cyberboy/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Hard precondition: no model calls without a plausible key.
	if !cfg.AI.Enabled() {
		log.Fatalf("cannot start: %v", config.ErrAPIKeyInvalid)
	}

	dataDir := cfg.Client.DataDir
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			log.Fatalf("failed to resolve data directory: %v", err)
		}
		dataDir = filepath.Join(base, "cyberboy")
	}

	local := localdata.NewFileStore(filepath.Join(dataDir, "state.json"))
	api := backendapi.New(cfg.Client.BackendURL, local)
	usageStore := usage.NewStore(local, api)

	aiSvc, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize model service: %v", err)
	}

	app := cli.NewApp(aiSvc, usageStore, api, local, cfg.Client.RevealInterval)
	app.Run(ctx)
}
