// Package store persists the full AppData snapshot on the local machine.
package store

import (
	"context"
	"errors"

	"WebhookMessenger/internal/model"
)

// ErrParse описывает повреждённое состояние на диске. Load его никогда не возвращает:
// ошибка передаётся только в хук наблюдаемости, а вызывающий получает пустые данные.
var ErrParse = errors.New("stored data is unreadable")

// Store — хранилище полного набора данных приложения.
type Store interface {
	// Load читает сохранённое состояние. Отсутствующий или повреждённый файл даёт пустой AppData.
	Load(ctx context.Context) (*model.AppData, error)
	// Save записывает полный снимок данных; частичных обновлений нет.
	Save(ctx context.Context, data *model.AppData) error
	// Close освобождает ресурсы бэкенда.
	Close() error
}

// Backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Option настраивает хранилище.
type Option func(*options)

type options struct {
	onParseError func(path string, err error)
}

// WithParseErrorHook задаёт обработчик «тихого» восстановления после порчи файла.
func WithParseErrorHook(fn func(path string, err error)) Option {
	return func(o *options) { o.onParseError = fn }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o options) report(path string, err error) {
	if o.onParseError != nil {
		o.onParseError(path, err)
	}
}
