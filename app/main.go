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

	"github.com/readingdaily/readings-server/app/api"
	"github.com/readingdaily/readings-server/app/cfg"
	"github.com/readingdaily/readings-server/app/database"
	"github.com/readingdaily/readings-server/app/source"
	"github.com/readingdaily/readings-server/app/tasks"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was requested, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if c.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting Reading Daily server", "version", c.Version)

	db, err := database.NewConnection(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Migrations applied", "version", version, "dirty", dirty)

	configCache := source.NewConfigCache(c.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", c.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded source configurations", "count", configCache.GetConfigCount())

	readingRepo := database.NewReadingRepository(db)

	scheduler := tasks.NewScheduler(configCache, readingRepo)

	if c.Populate {
		os.Exit(runPopulate(scheduler, readingRepo, c))
	}

	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(configCache, readingRepo, scheduler, c.Version)
	server := api.NewServer(apiHandler, c.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Reading Daily server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}

// runPopulate scrapes the configured date window synchronously and exits.
// Used for initial backfill before the scheduler takes over.
func runPopulate(scheduler tasks.TaskSchedulerInterface, readingRepo database.ReadingRepository, c *cfg.Cfg) int {
	clients := scheduler.Clients()
	if len(clients) == 0 {
		slog.Error("No enabled sources configured")
		return 1
	}

	today := time.Now().In(time.Local)
	start := today.AddDate(0, 0, -c.BackfillDays)
	end := today.AddDate(0, 0, c.ForwardDays)

	slog.Info("Populating readings",
		"from", start.Format("2006-01-02"), "to", end.Format("2006-01-02"))

	succeeded := 0
	failed := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		task := tasks.NewScrapeReadingTask(date, false, clients, readingRepo, c.Version)
		if err := task.Execute(context.Background()); err != nil {
			slog.Error("Populate scrape failed", "date", date.Format("2006-01-02"), "error", err)
			failed++
			continue
		}
		succeeded++
	}

	slog.Info("Populate complete", "succeeded", succeeded, "failed", failed)
	if failed > 0 && succeeded == 0 {
		return 1
	}
	return 0
}
