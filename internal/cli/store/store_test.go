package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WebhookMessenger/internal/config"
	"WebhookMessenger/internal/model"
)

type hookRecorder struct {
	calls []error
	paths []string
}

func (h *hookRecorder) hook(path string, err error) {
	h.paths = append(h.paths, path)
	h.calls = append(h.calls, err)
}

func sampleData() *model.AppData {
	d := model.NewAppData()
	d.Webhooks = append(d.Webhooks,
		model.WebhookRecord{ID: "w1", Name: "Alpha", URLProtected: "cipher-1"},
		model.WebhookRecord{ID: "w2", Name: "Beta"},
	)
	d.Templates = append(d.Templates,
		model.TemplateRecord{ID: "t1", Name: "Hello", Content: "hi", EmbedsJSON: "[]"},
		model.TemplateRecord{ID: "t2", Name: "Card", Content: "", EmbedsJSON: `[{"title":"x"}]`},
	)
	return d
}

func TestJSONStore_LoadMissingFile(t *testing.T) {
	rec := &hookRecorder{}
	s := NewJSONStore(filepath.Join(t.TempDir(), "data.json"), WithParseErrorHook(rec.hook))

	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.Webhooks)
	assert.Empty(t, data.Templates)
	assert.NotNil(t, data.Webhooks)
	assert.Empty(t, rec.calls, "missing file is not a parse failure")
}

func TestJSONStore_LoadCorruptFileReturnsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"garbage": "{not json",
		"empty":   "",
		"array":   "[1,2,3]",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			rec := &hookRecorder{}
			s := NewJSONStore(path, WithParseErrorHook(rec.hook))

			data, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, data.Webhooks)
			assert.Empty(t, data.Templates)
			require.Len(t, rec.calls, 1)
			assert.True(t, errors.Is(rec.calls[0], ErrParse))
			assert.Equal(t, path, rec.paths[0])
		})
	}
}

func TestJSONStore_LoadNullListsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"webhooks":null}`), 0o600))

	data, err := NewJSONStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, data.Webhooks)
	assert.NotNil(t, data.Templates)
}

func TestJSONStore_SaveAndReload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "app")
	path := filepath.Join(dir, "data.json")
	s := NewJSONStore(path)
	ctx := context.Background()

	want := sampleData()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"webhooks\"", "pretty printed with two spaces")
	assert.Contains(t, string(raw), `"urlProtected": "cipher-1"`)
	assert.Contains(t, string(raw), `"embedsJson": "[]"`)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic, "templates")

	st, err := os.Stat(dir)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0o700), st.Mode().Perm())
		fst, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fst.Mode().Perm())
	}
}

func TestJSONStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONStore(filepath.Join(dir, "data.json"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleData()))
	require.NoError(t, s.Save(ctx, model.NewAppData()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Webhooks)
}

func TestJSONStore_SaveNilData(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, s.Save(context.Background(), nil))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got.Webhooks)
	assert.NotNil(t, got.Templates)
}

func TestJSONStore_SaveCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s := NewJSONStore(path)

	// чужой процесс держит блокировку, контекст уже отменён
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	other := NewJSONStore(path)
	require.NoError(t, other.Save(context.Background(), sampleData()))

	held := lockFor(t, path)
	defer func() { _ = held.Unlock() }()

	err := s.Save(ctx, model.NewAppData())
	require.Error(t, err)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Webhooks, 2, "data must be untouched when the lock is not acquired")
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.sqlite")
	s := NewSQLiteStore(path)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	empty, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Webhooks)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "Load must not create the database")

	want := sampleData()
	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// полная замена: удалённые записи исчезают, порядок сохраняется
	want.Webhooks = []model.WebhookRecord{want.Webhooks[1]}
	want.Templates = append([]model.TemplateRecord{}, want.Templates[1], want.Templates[0])
	require.NoError(t, s.Save(ctx, want))

	require.NoError(t, s.Close())
	reopened := NewSQLiteStore(path)
	t.Cleanup(func() { _ = reopened.Close() })
	got, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteStore_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.sqlite")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("definitely not a database ", 64)), 0o600))
	rec := &hookRecorder{}
	s := NewSQLiteStore(path, WithParseErrorHook(rec.hook))
	t.Cleanup(func() { _ = s.Close() })

	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.Webhooks)
	assert.Empty(t, data.Templates)
	require.NotEmpty(t, rec.calls)
	assert.ErrorIs(t, rec.calls[0], ErrParse)
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(&config.Config{DataDir: dir, StoreBackend: BackendJSON})
	require.NoError(t, err)
	js, ok := s.(*JSONStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "data.json"), js.Path())

	s, err = Open(&config.Config{DataDir: dir, StoreBackend: BackendSQLite})
	require.NoError(t, err)
	sq, ok := s.(*SQLiteStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "data.sqlite"), sq.Path())
	_ = sq.Close()

	_, err = Open(&config.Config{DataDir: dir, StoreBackend: "mongo"})
	assert.Error(t, err)
}
