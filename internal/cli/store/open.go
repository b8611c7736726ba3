package store

import (
	"fmt"

	"WebhookMessenger/internal/config"
)

// Open выбирает бэкенд хранилища по конфигурации.
func Open(cfg *config.Config, opts ...Option) (Store, error) {
	switch cfg.StoreBackend {
	case BackendJSON, "":
		return NewJSONStore(cfg.DataFile(), opts...), nil
	case BackendSQLite:
		return NewSQLiteStore(cfg.DataFile(), opts...), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
