package bootstrap

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"WebhookMessenger/internal/cli/api"
	"WebhookMessenger/internal/cli/crypto"
	"WebhookMessenger/internal/cli/service"
	"WebhookMessenger/internal/cli/store"
	"WebhookMessenger/internal/config"
)

// NewLogger собирает консольный логгер в stderr с уровнем из конфигурации.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// OpenApp собирает AppService из конфигурации и загружает данные,
// возвращает (app, status, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть хранилище.
func OpenApp(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*service.AppService, service.Status, func() error, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, "", nil, fmt.Errorf("create data dir: %w", err)
	}

	protector, err := crypto.NewProtector(cfg.Protector, cfg.KeyFile(), logger)
	if err != nil {
		return nil, "", nil, err
	}

	st, err := store.Open(cfg, store.WithParseErrorHook(func(path string, err error) {
		logger.Warnw("stored data is unreadable, starting empty", "path", path, "error", err)
	}))
	if err != nil {
		return nil, "", nil, err
	}

	client := api.NewWebhookClient(cfg.HTTPTimeout)
	app := service.NewAppService(st, protector, client, logger)
	status, err := app.Initialize(ctx)
	if err != nil {
		_ = st.Close()
		return nil, "", nil, err
	}
	logger.Debugw("app initialized", "data_file", cfg.DataFile(), "backend", cfg.StoreBackend, "protector", cfg.Protector)
	return app, status, st.Close, nil
}
