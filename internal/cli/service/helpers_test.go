package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"WebhookMessenger/internal/cli/api"
	"WebhookMessenger/internal/cli/crypto"
	"WebhookMessenger/internal/cli/store"
	"WebhookMessenger/internal/model"
)

// --- Моки ---

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, url string, msg api.Message) error {
	args := m.Called(ctx, url, msg)
	return args.Error(0)
}

// failingProtector всегда возвращает ошибку защиты.
type failingProtector struct{}

func (failingProtector) Protect(string) (string, error) {
	return "", errors.Join(crypto.ErrProtection, errors.New("no key"))
}
func (failingProtector) Unprotect(string) (string, error) {
	return "", errors.Join(crypto.ErrProtection, errors.New("no key"))
}

// memStore — хранилище в памяти; saveErr имитирует сбой записи.
type memStore struct {
	data    *model.AppData
	saves   int
	saveErr error
}

func (m *memStore) Load(context.Context) (*model.AppData, error) {
	if m.data == nil {
		return model.NewAppData(), nil
	}
	return m.data.Clone(), nil
}

func (m *memStore) Save(_ context.Context, d *model.AppData) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data = d.Clone()
	return nil
}

func (m *memStore) Close() error { return nil }

func newKeyFileProtector(t *testing.T) *crypto.KeyFileProtector {
	t.Helper()
	return crypto.NewKeyFileProtector(filepath.Join(t.TempDir(), "key.bin"), crypto.WithScope("tester@test-host"))
}

func newJSONStore(t *testing.T) *store.JSONStore {
	t.Helper()
	return store.NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
}

func protect(t *testing.T, p crypto.Protector, plain string) string {
	t.Helper()
	c, err := p.Protect(plain)
	require.NoError(t, err)
	return c
}
