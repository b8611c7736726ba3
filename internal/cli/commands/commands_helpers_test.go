package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"WebhookMessenger/internal/config"
)

// withTempConfig возвращает конфиг, у которого все артефакты (данные и ключ) живут в temp.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
	return &config.Config{
		DataDir:      filepath.Join(dir, "Webhook-Messenger"),
		StoreBackend: "json",
		Protector:    "keyfile",
		LogLevel:     "error",
		HTTPTimeout:  time.Second,
		ListenAddr:   "127.0.0.1:8765",
		TokenTTL:     time.Hour,
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// run выполняет команду через Dispatch и возвращает код выхода и вывод.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}
