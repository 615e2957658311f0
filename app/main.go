package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kolkata-chronicle/newsdesk/app/api"
	"github.com/kolkata-chronicle/newsdesk/app/cfg"
	"github.com/kolkata-chronicle/newsdesk/app/record"
	"github.com/kolkata-chronicle/newsdesk/app/storage"
	"github.com/kolkata-chronicle/newsdesk/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Newsdesk server", "version", cfg.GetVersion())

	var store storage.Store
	if appCfg.DBPath == "" {
		slog.Info("No database path set, using in-memory storage")
		store = storage.NewMemory(appCfg.StorageQuota)
	} else {
		db, err := storage.NewConnection(appCfg.DBPath, appCfg.StorageQuota)
		if err != nil {
			slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("Database opened", "path", appCfg.DBPath)
		store = db
	}

	recordStore := record.NewRecordStore(store, record.Options{
		StrictRefs: appCfg.StrictRefs,
		Version:    cfg.GetVersion(),
	})
	if err := recordStore.Initialize(); err != nil {
		slog.Error("Failed to initialize record store", "error", err)
		os.Exit(1)
	}
	stats := recordStore.GetStats()
	slog.Info("Record store ready", "articles", stats.TotalArticles, "authors", stats.TotalAuthors)

	scheduler := tasks.NewScheduler(recordStore)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(recordStore, store)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if appCfg.APIAccessKey == "" {
			slog.Warn("API_ACCESS_KEY not set, write endpoints disabled")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
