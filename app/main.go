package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/lysyi3m/intel-sync/app/api"
	"github.com/lysyi3m/intel-sync/app/cfg"
	"github.com/lysyi3m/intel-sync/app/database"
	"github.com/lysyi3m/intel-sync/app/feed"
	"github.com/lysyi3m/intel-sync/app/intel"
	"github.com/lysyi3m/intel-sync/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		// Help was shown
		return nil
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: appCfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configCache := feed.NewConfigCache(appCfg.ProfilesDir)
	if err := configCache.Run(); err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	profile, err := configCache.GetConfig(appCfg.Profile)
	if err != nil {
		return fmt.Errorf("%w (profiles dir: %s)", err, appCfg.ProfilesDir)
	}

	var runRepo database.RunRepository
	if appCfg.HistoryDB != "" {
		db, err := database.NewConnection(appCfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		runRepo = database.NewRunRepository(db)
	}

	store := intel.NewStore(appCfg.DataFile)
	runner := tasks.NewRunner(profile, &http.Client{}, store, runRepo, appCfg.UserAgent)

	if !appCfg.Serve {
		slog.Info("Fetching news", "profile", profile.Name, "app_id", profile.Source.AppID, "source", profile.Source.Type)
		_, err := runner.Sync(ctx)
		return err
	}

	return serve(ctx, appCfg, api.NewHandler(profile, store, runRepo, runner, appCfg.Version))
}

func serve(ctx context.Context, appCfg *cfg.Cfg, handler *api.Handler) error {
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "version", appCfg.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("HTTP server stopped")
	return nil
}
