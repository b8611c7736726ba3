package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"WebhookMessenger/internal/model"
)

// lockRetryDelay — пауза между попытками взять файловую блокировку.
const lockRetryDelay = 50 * time.Millisecond

// JSONStore хранит данные в одном JSON-файле с форматированием.
type JSONStore struct {
	path string
	opts options
}

var _ Store = (*JSONStore)(nil)

// NewJSONStore создаёт хранилище поверх файла path. Каталог создаётся при первой записи.
func NewJSONStore(path string, opts ...Option) *JSONStore {
	return &JSONStore{path: path, opts: buildOptions(opts)}
}

// Path returns the data file location.
func (s *JSONStore) Path() string { return s.path }

// Load читает файл. Нет файла — пустые данные; файл не читается или не парсится —
// тоже пустые данные, а причина уходит в хук.
func (s *JSONStore) Load(ctx context.Context) (*model.AppData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.NewAppData(), nil
	}
	if err != nil {
		s.opts.report(s.path, fmt.Errorf("%w: read: %v", ErrParse, err))
		return model.NewAppData(), nil
	}
	var data model.AppData
	if err := json.Unmarshal(b, &data); err != nil {
		s.opts.report(s.path, fmt.Errorf("%w: %v", ErrParse, err))
		return model.NewAppData(), nil
	}
	return data.Normalize(), nil
}

// Save сериализует снимок во временный файл рядом с целевым и атомарно подменяет его.
func (s *JSONStore) Save(ctx context.Context, data *model.AppData) error {
	if data == nil {
		data = model.NewAppData()
	}
	payload, err := json.MarshalIndent(data.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("lock data file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	return writeFileAtomic(s.path, payload)
}

// Close implements Store.
func (s *JSONStore) Close() error { return nil }

func writeFileAtomic(path string, payload []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
