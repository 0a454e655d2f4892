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

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"mariana-chat/auth"
	"mariana-chat/internal"
	"mariana-chat/moderation"
	"mariana-chat/observability"
	"mariana-chat/repositories"
	"mariana-chat/runtime"
	"mariana-chat/runtime/workers"
	"mariana-chat/search"
	"mariana-chat/services"
	"mariana-chat/storage"
	"mariana-chat/transport/httpapi"
	"mariana-chat/transport/ws"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database close, worker
// drain) executes before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	level, err := internal.ParseLevel(config.LogLevel)
	if err != nil {
		return exitConfig, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	// 2. Database (SQLite)
	db, err := repositories.OpenDatabase(config.DatabasePath)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing database...")
		_ = db.Close()
	}()

	// 3. Core components
	metrics := observability.NewMetrics()
	presence := runtime.NewPresence(logger)
	messageRepository := repositories.NewMessageRepository(db, logger)
	participantRepository := repositories.NewParticipantRepository(db)

	var moderator *moderation.Moderator
	if len(config.CensoredWords) > 0 {
		moderator, err = moderation.NewModerator(config.CensoredWords, '*', logger)
		if err != nil {
			return exitConfig, fmt.Errorf("invalid censored word list: %w", err)
		}
		logger.Info("Content screening enabled", "words", len(config.CensoredWords))
	}

	index, err := search.NewIndex(config.SearchIndex, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		if err := index.Close(); err != nil {
			logger.Warn("Failed to close search index", "error", err)
		}
	}()

	router := runtime.NewRouter(logger, presence, messageRepository, metrics, moderator, index, config.PersistTimeout)

	voiceNotes, err := storage.NewVoiceNoteStore(config.VoiceNotesDir, config.PublicBaseURL, logger)
	if err != nil {
		return exitRuntime, err
	}

	messageService := services.NewMessageService(logger, router, messageRepository,
		participantRepository, voiceNotes, index, metrics)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Error (HTTP server & workers)
	errChan := make(chan error, 2)

	// 5. Background workers under supervision
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(workers.NewHealthWorker(logger, metrics, config.MetricInterval))
	go supervisor.Run(ctx)

	// 6. HTTP + websocket server
	socketServer := ws.NewServer(logger, presence, messageService, metrics,
		config.SendBufferSize, config.ReadTimeout, config.WriteTimeout, config.PingInterval)
	tokens := auth.NewTokenManager(config.JWTSecret, 24*time.Hour)
	e := httpapi.NewServer(logger, messageService, socketServer, tokens, metrics, config.VoiceNotesDir)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	go func() {
		logger.Info("Starting messaging server", "address", address, "at", time.Now().UTC())
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final Cleanup (Graceful Shutdown)
	// Let in-flight requests finish and workers drain before exiting.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	supervisor.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}
