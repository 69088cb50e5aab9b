// Notes service entry point. Wires config, logging, the note store
// backend, and the HTTP router, then serves until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/kuitang/notes-service/internal/api"
	"github.com/kuitang/notes-service/internal/config"
	"github.com/kuitang/notes-service/internal/notes"
	"github.com/kuitang/notes-service/internal/obs"
	"github.com/kuitang/notes-service/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	inMemory, addr := config.ParseFlags()
	cfg := config.MustLoadConfig(inMemory, addr)

	obs.Init()
	logger := obs.Pkg("main")
	cfg.PrintStartupSummary()

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	renderer, err := web.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to initialize templates: %w", err)
	}
	static := web.NewStaticHandler(cfg.StaticDir)

	mux := http.NewServeMux()
	api.NewHandler(store, renderer, static).RegisterRoutes(mux)

	handler := obs.RequestContextMiddleware(obs.AccessLogMiddleware(mux))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("server_shutting_down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server_stopped")
	return nil
}

// buildStore selects the storage backend from config. The returned close
// function is a no-op for the in-memory store.
func buildStore(cfg *config.Config) (notes.Store, func(), error) {
	logger := obs.Pkg("main")

	if cfg.UseMemoryStore() {
		logger.Info("store_selected", "backend", "memory")
		return notes.NewMemoryStore(notes.SeedNotes()...), func() {}, nil
	}

	db, err := surrealdb.New(cfg.SurrealURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to SurrealDB at %s: %w", cfg.SurrealURL, err)
	}

	if cfg.SurrealUser != "" {
		if _, err := db.Signin(map[string]any{
			"user": cfg.SurrealUser,
			"pass": cfg.SurrealPass,
		}); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("SurrealDB signin failed: %w", err)
		}
	}
	if _, err := db.Use(cfg.SurrealNS, cfg.SurrealDB); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to select SurrealDB namespace %q db %q: %w", cfg.SurrealNS, cfg.SurrealDB, err)
	}

	logger.Info("store_selected", "backend", "surrealdb", "url", cfg.SurrealURL, "ns", cfg.SurrealNS, "db", cfg.SurrealDB)
	return notes.NewSurrealStore(db), db.Close, nil
}
