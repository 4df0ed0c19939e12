package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/radiantlabs/cyberboy/internal/config"
	"github.com/radiantlabs/cyberboy/internal/server/handler"
	authService "github.com/radiantlabs/cyberboy/internal/server/service/auth"
	sessionService "github.com/radiantlabs/cyberboy/internal/server/service/session"
	"github.com/radiantlabs/cyberboy/internal/server/store/sessions"
	"github.com/radiantlabs/cyberboy/internal/server/store/users"
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

	var userStore users.Store
	var sessionStore sessions.Store

	if cfg.Store.Enabled() {
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.Store.URI))
		if err != nil {
			log.Fatalf("failed to connect to document store: %v", err)
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Printf("warning: failed to disconnect document store: %v", err)
			}
		}()

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := client.Ping(pingCtx, nil); err != nil {
			cancel()
			log.Fatalf("document store unreachable: %v", err)
		}
		cancel()

		db := client.Database(cfg.Store.Database)
		userStore, err = users.NewMongoStore(ctx, db)
		if err != nil {
			log.Fatalf("failed to initialize user store: %v", err)
		}
		sessionStore = sessions.NewMongoStore(db)
		log.Printf("document store connected, database=%s", cfg.Store.Database)
	} else {
		log.Println("MONGO_URI not set, falling back to in-memory stores (data is lost on restart)")
		userStore = users.NewMemoryStore()
		sessionStore = sessions.NewMemoryStore()
	}

	authSvc := authService.NewService(userStore)
	sessionSvc := sessionService.NewService(sessionStore)

	router := handler.NewRouter(authSvc, sessionSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Cyber Boy backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
