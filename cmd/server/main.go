package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"WebhookMessenger/internal/cli/auth"
	"WebhookMessenger/internal/cli/bootstrap"
	"WebhookMessenger/internal/config"
	"WebhookMessenger/internal/handlers"
	"WebhookMessenger/internal/middleware"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// без AUTH_SECRET генерируем секрет на время жизни процесса и печатаем токен один раз
	printToken := false
	if cfg.AuthSecret == "" {
		cfg.AuthSecret, err = randomSecret()
		if err != nil {
			sugar.Fatalw("failed to generate auth secret", "error", err)
		}
		printToken = true
	}

	app, status, done, err := bootstrap.OpenApp(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to open app", "error", err)
	}
	defer func() { _ = done() }()

	if printToken {
		token, err := middleware.IssueToken(cfg.AuthSecret, "local", cfg.TokenTTL)
		if err != nil {
			sugar.Fatalw("failed to issue token", "error", err)
		}
		fmt.Printf("API token (valid %s): %s\n", cfg.TokenTTL, token)
		tokenPath := auth.TokenPath(cfg.DataDir)
		if err := auth.SaveToken(tokenPath, token); err != nil {
			sugar.Warnw("failed to write token file", "path", tokenPath, "error", err)
		}
		defer func() { _ = auth.RemoveToken(tokenPath) }()
	}

	h := handlers.NewHandler(app, sugar, cfg)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sugar.Infow(
		"Starting server",
		"addr", cfg.ListenAddr,
		"status", status,
	)
	sugar.Infow("Config",
		"DataDir", cfg.DataDir,
		"StoreBackend", cfg.StoreBackend,
		"Protector", cfg.Protector,
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
