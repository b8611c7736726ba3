package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WebhookMessenger/internal/cli/service"
	"WebhookMessenger/internal/config"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:      filepath.Join(t.TempDir(), "Webhook-Messenger"),
		StoreBackend: backend,
		Protector:    "keyfile",
		LogLevel:     "warn",
		HTTPTimeout:  time.Second,
		ListenAddr:   "127.0.0.1:8765",
		TokenTTL:     time.Hour,
	}
}

func TestOpenApp_PersistsAcrossRestarts(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			ctx := context.Background()

			app, status, done, err := OpenApp(ctx, cfg, nil)
			require.NoError(t, err)
			assert.Equal(t, service.StatusNoWebhooks, status)

			rec, err := app.AddWebhook(ctx)
			require.NoError(t, err)
			_, err = app.SaveWebhook(ctx, rec.ID, "Alpha", "https://d/1")
			require.NoError(t, err)
			require.NoError(t, done())

			_, err = os.Stat(cfg.DataFile())
			require.NoError(t, err)
			_, err = os.Stat(cfg.KeyFile())
			require.NoError(t, err)

			app, status, done, err = OpenApp(ctx, cfg, nil)
			require.NoError(t, err)
			defer func() { _ = done() }()
			assert.Equal(t, service.StatusReady, status)
			url, err := app.ResolveURL("alpha")
			require.NoError(t, err)
			assert.Equal(t, "https://d/1", url)
		})
	}
}

func TestOpenApp_CorruptFileStartsEmpty(t *testing.T) {
	cfg := testConfig(t, "json")
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o700))
	require.NoError(t, os.WriteFile(cfg.DataFile(), []byte("{broken"), 0o600))

	app, status, done, err := OpenApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = done() }()
	assert.Equal(t, service.StatusNoWebhooks, status)
	assert.Empty(t, app.Webhooks())
}

func TestOpenApp_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "json")
	cfg.Protector = "dpapi"
	_, _, _, err := OpenApp(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
