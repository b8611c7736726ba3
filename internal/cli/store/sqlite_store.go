package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"WebhookMessenger/internal/model"
)

// webhookRow — строка таблицы webhooks; position сохраняет порядок списка.
type webhookRow struct {
	ID           string `gorm:"primaryKey;column:id"`
	Position     int    `gorm:"not null;index;column:position"`
	Name         string `gorm:"not null;column:name"`
	URLProtected string `gorm:"not null;column:url_protected"`
}

func (webhookRow) TableName() string { return "webhooks" }

// templateRow — строка таблицы templates.
type templateRow struct {
	ID         string `gorm:"primaryKey;column:id"`
	Position   int    `gorm:"not null;index;column:position"`
	Name       string `gorm:"not null;column:name"`
	Content    string `gorm:"not null;column:content"`
	EmbedsJSON string `gorm:"not null;column:embeds_json"`
}

func (templateRow) TableName() string { return "templates" }

// SQLiteStore хранит снимок данных в локальной БД SQLite (pure-Go драйвер modernc).
type SQLiteStore struct {
	path string
	opts options

	mu sync.Mutex
	db *gorm.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore создаёт хранилище; соединение открывается при первом обращении.
func NewSQLiteStore(path string, opts ...Option) *SQLiteStore {
	return &SQLiteStore{path: path, opts: buildOptions(opts)}
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) conn() (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: s.path}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, err
	}
	s.db = db
	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&webhookRow{}, &templateRow{})
}

// Load читает все строки в порядке position. Файла нет — пустые данные без создания БД.
func (s *SQLiteStore) Load(ctx context.Context) (*model.AppData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return model.NewAppData(), nil
	}
	db, err := s.conn()
	if err != nil {
		s.opts.report(s.path, fmt.Errorf("%w: open: %v", ErrParse, err))
		return model.NewAppData(), nil
	}
	db = db.WithContext(ctx)
	if err := migrate(db); err != nil {
		s.opts.report(s.path, fmt.Errorf("%w: migrate: %v", ErrParse, err))
		return model.NewAppData(), nil
	}

	var hooks []webhookRow
	if err := db.Order("position").Find(&hooks).Error; err != nil {
		s.opts.report(s.path, fmt.Errorf("%w: webhooks: %v", ErrParse, err))
		return model.NewAppData(), nil
	}
	var tpls []templateRow
	if err := db.Order("position").Find(&tpls).Error; err != nil {
		s.opts.report(s.path, fmt.Errorf("%w: templates: %v", ErrParse, err))
		return model.NewAppData(), nil
	}

	data := model.NewAppData()
	for _, r := range hooks {
		data.Webhooks = append(data.Webhooks, model.WebhookRecord{ID: r.ID, Name: r.Name, URLProtected: r.URLProtected})
	}
	for _, r := range tpls {
		data.Templates = append(data.Templates, model.TemplateRecord{ID: r.ID, Name: r.Name, Content: r.Content, EmbedsJSON: r.EmbedsJSON})
	}
	return data, nil
}

// Save заменяет содержимое обеих таблиц в одной транзакции.
func (s *SQLiteStore) Save(ctx context.Context, data *model.AppData) error {
	if data == nil {
		data = model.NewAppData()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := s.conn()
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	db = db.WithContext(ctx)
	if err := migrate(db); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}

	hooks := make([]webhookRow, 0, len(data.Webhooks))
	for i, w := range data.Webhooks {
		hooks = append(hooks, webhookRow{ID: w.ID, Position: i, Name: w.Name, URLProtected: w.URLProtected})
	}
	tpls := make([]templateRow, 0, len(data.Templates))
	for i, t := range data.Templates {
		tpls = append(tpls, templateRow{ID: t.ID, Position: i, Name: t.Name, Content: t.Content, EmbedsJSON: t.EmbedsJSON})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&webhookRow{}).Error; err != nil {
			return fmt.Errorf("clear webhooks: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&templateRow{}).Error; err != nil {
			return fmt.Errorf("clear templates: %w", err)
		}
		if len(hooks) > 0 {
			if err := tx.Create(&hooks).Error; err != nil {
				return fmt.Errorf("insert webhooks: %w", err)
			}
		}
		if len(tpls) > 0 {
			if err := tx.Create(&tpls).Error; err != nil {
				return fmt.Errorf("insert templates: %w", err)
			}
		}
		return nil
	})
}

// Close закрывает соединение с БД.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}
