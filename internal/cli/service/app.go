// Package service holds the application logic shared by the CLI and the local API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"WebhookMessenger/internal/cli/api"
	"WebhookMessenger/internal/cli/crypto"
	"WebhookMessenger/internal/cli/store"
	"WebhookMessenger/internal/model"
)

// Status — короткое сообщение для пользователя о результате операции.
type Status string

const (
	StatusReady      Status = "Ready."
	StatusNoWebhooks Status = "No webhooks saved yet. Use webhook-add to add one."
	StatusSent       Status = "Sent ✅"
	StatusImported   Status = "Imported ✅"
	StatusSaved      Status = "Saved."
	StatusDeleted    Status = "Deleted."
	StatusExported   Status = "Exported. The file contains plaintext webhook URLs; keep it private."
)

var (
	// ErrNotFound — запись с таким id или именем отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrNoWebhookSelected — для отправки не выбран существующий вебхук.
	ErrNoWebhookSelected = errors.New("Select a webhook first.")
	// ErrNoURL — у выбранного вебхука нет URL или его не удалось расшифровать.
	ErrNoURL = errors.New("Selected webhook has no URL. Edit it with webhook-save.")
)

// Sender отправляет сообщение на URL вебхука.
type Sender interface {
	Send(ctx context.Context, url string, msg api.Message) error
}

// WebhookView — вебхук без секрета, для вывода пользователю.
type WebhookView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	HasURL bool   `json:"hasUrl"`
}

// SendRequest — параметры отправки.
type SendRequest struct {
	WebhookID       string `json:"webhookId"`
	Content         string `json:"content"`
	Username        string `json:"username"`
	AvatarURL       string `json:"avatarUrl"`
	EmbedsJSON      string `json:"embedsJson"`
	DisableMentions bool   `json:"disableMentions"`
}

// AppService владеет данными в памяти. Конкурентные изменения не поддерживаются:
// вызывающий обязан их сериализовать.
type AppService struct {
	store     store.Store
	protector crypto.Protector
	sender    Sender
	io        *ImportExportService
	logger    *zap.SugaredLogger

	data *model.AppData
}

// NewAppService собирает сервис из зависимостей. logger may be nil.
func NewAppService(st store.Store, p crypto.Protector, sender Sender, logger *zap.SugaredLogger) *AppService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &AppService{
		store:     st,
		protector: p,
		sender:    sender,
		io:        NewImportExportService(p, logger),
		logger:    logger,
		data:      model.NewAppData(),
	}
}

// Initialize загружает данные из хранилища и заменяет снимок в памяти.
func (a *AppService) Initialize(ctx context.Context) (Status, error) {
	data, err := a.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load data: %w", err)
	}
	a.data = data.Normalize()
	if len(a.data.Webhooks) == 0 {
		return StatusNoWebhooks, nil
	}
	return StatusReady, nil
}

// Reload перечитывает хранилище.
func (a *AppService) Reload(ctx context.Context) (Status, error) { return a.Initialize(ctx) }

// Webhooks returns a snapshot without secrets.
func (a *AppService) Webhooks() []WebhookView {
	out := make([]WebhookView, 0, len(a.data.Webhooks))
	for _, w := range a.data.Webhooks {
		out = append(out, WebhookView{ID: w.ID, Name: w.Name, HasURL: w.HasURL()})
	}
	return out
}

// Templates returns a copy of the template list.
func (a *AppService) Templates() []model.TemplateRecord {
	out := make([]model.TemplateRecord, len(a.data.Templates))
	copy(out, a.data.Templates)
	return out
}

// commit применяет изменение к копии, сохраняет её и только потом подменяет данные в памяти.
func (a *AppService) commit(ctx context.Context, mutate func(d *model.AppData) error) error {
	next := a.data.Clone()
	if err := mutate(next); err != nil {
		return err
	}
	if err := a.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save data: %w", err)
	}
	a.data = next
	return nil
}

// AddWebhook добавляет вебхук-заглушку без URL.
func (a *AppService) AddWebhook(ctx context.Context) (model.WebhookRecord, error) {
	return a.CreateWebhook(ctx, "", "")
}

// CreateWebhook добавляет вебхук с именем и URL одним сохранением.
// Пустое имя заменяется именем по умолчанию, пустой URL остаётся пустым.
func (a *AppService) CreateWebhook(ctx context.Context, name, plainURL string) (model.WebhookRecord, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = model.DefaultWebhookName
	}
	protected := ""
	if url := strings.TrimSpace(plainURL); url != "" {
		var err error
		if protected, err = a.protector.Protect(url); err != nil {
			return model.WebhookRecord{}, fmt.Errorf("protect url: %w", err)
		}
	}
	rec := model.NewWebhookRecord(name, protected)
	err := a.commit(ctx, func(d *model.AppData) error {
		d.Webhooks = append(d.Webhooks, rec)
		return nil
	})
	if err != nil {
		return model.WebhookRecord{}, err
	}
	return rec, nil
}

// SaveWebhook переименовывает вебхук; URL заменяется только если передан непустой.
func (a *AppService) SaveWebhook(ctx context.Context, ref, name, plainURL string) (Status, error) {
	err := a.commit(ctx, func(d *model.AppData) error {
		i := d.FindWebhook(ref)
		if i < 0 {
			return fmt.Errorf("webhook %q: %w", ref, ErrNotFound)
		}
		d.Webhooks[i].Name = strings.TrimSpace(name)
		if url := strings.TrimSpace(plainURL); url != "" {
			protected, err := a.protector.Protect(url)
			if err != nil {
				return fmt.Errorf("protect url: %w", err)
			}
			d.Webhooks[i].URLProtected = protected
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return StatusSaved, nil
}

// DeleteWebhook удаляет вебхук.
func (a *AppService) DeleteWebhook(ctx context.Context, ref string) (Status, error) {
	err := a.commit(ctx, func(d *model.AppData) error {
		i := d.FindWebhook(ref)
		if i < 0 {
			return fmt.Errorf("webhook %q: %w", ref, ErrNotFound)
		}
		d.Webhooks = append(d.Webhooks[:i], d.Webhooks[i+1:]...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return StatusDeleted, nil
}

// AddTemplate добавляет пустой шаблон.
func (a *AppService) AddTemplate(ctx context.Context) (model.TemplateRecord, error) {
	return a.CreateTemplate(ctx, "", "", "")
}

// CreateTemplate добавляет заполненный шаблон одним сохранением.
func (a *AppService) CreateTemplate(ctx context.Context, name, content, embeds string) (model.TemplateRecord, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = model.DefaultTemplateName
	}
	rec := model.NewTemplateRecord(name, content, embeds)
	err := a.commit(ctx, func(d *model.AppData) error {
		d.Templates = append(d.Templates, rec)
		return nil
	})
	if err != nil {
		return model.TemplateRecord{}, err
	}
	return rec, nil
}

// SaveTemplate перезаписывает имя, текст и embeds шаблона.
func (a *AppService) SaveTemplate(ctx context.Context, ref, name, content, embeds string) (Status, error) {
	err := a.commit(ctx, func(d *model.AppData) error {
		i := d.FindTemplate(ref)
		if i < 0 {
			return fmt.Errorf("template %q: %w", ref, ErrNotFound)
		}
		t := &d.Templates[i]
		t.Name = strings.TrimSpace(name)
		t.Content = content
		t.EmbedsJSON = model.NormalizeEmbeds(embeds)
		return nil
	})
	if err != nil {
		return "", err
	}
	return StatusSaved, nil
}

// DeleteTemplate удаляет шаблон.
func (a *AppService) DeleteTemplate(ctx context.Context, ref string) (Status, error) {
	err := a.commit(ctx, func(d *model.AppData) error {
		i := d.FindTemplate(ref)
		if i < 0 {
			return fmt.Errorf("template %q: %w", ref, ErrNotFound)
		}
		d.Templates = append(d.Templates[:i], d.Templates[i+1:]...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return StatusDeleted, nil
}

// ApplyTemplate возвращает текст и embeds шаблона для составления сообщения.
func (a *AppService) ApplyTemplate(ref string) (content, embeds string, status Status, err error) {
	i := a.data.FindTemplate(ref)
	if i < 0 {
		return "", "", "", fmt.Errorf("template %q: %w", ref, ErrNotFound)
	}
	t := a.data.Templates[i]
	return t.Content, model.NormalizeEmbeds(t.EmbedsJSON), Status("Loaded template: " + t.Name), nil
}

// ResolveURL расшифровывает URL вебхука для отправки.
func (a *AppService) ResolveURL(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", ErrNoWebhookSelected
	}
	i := a.data.FindWebhook(ref)
	if i < 0 {
		return "", ErrNoWebhookSelected
	}
	url, err := a.protector.Unprotect(a.data.Webhooks[i].URLProtected)
	if err != nil {
		a.logger.Warnw("webhook url cannot be decrypted", "id", a.data.Webhooks[i].ID, "error", err)
		return "", ErrNoURL
	}
	if strings.TrimSpace(url) == "" {
		return "", ErrNoURL
	}
	return url, nil
}

// Send отправляет сообщение через выбранный вебхук.
func (a *AppService) Send(ctx context.Context, req SendRequest) (Status, error) {
	url, err := a.ResolveURL(req.WebhookID)
	if err != nil {
		return "", err
	}
	return a.Deliver(ctx, url, req)
}

// Deliver отправляет сообщение на уже расшифрованный URL. Данные сервиса не трогает,
// поэтому может выполняться вне блокировки вызывающего.
func (a *AppService) Deliver(ctx context.Context, url string, req SendRequest) (Status, error) {
	err := a.sender.Send(ctx, url, api.Message{
		Content:         req.Content,
		Username:        req.Username,
		AvatarURL:       req.AvatarURL,
		EmbedsJSON:      req.EmbedsJSON,
		DisableMentions: req.DisableMentions,
	})
	if err != nil {
		return "", err
	}
	return StatusSent, nil
}

// Export возвращает переносимый JSON с URL в открытом виде.
func (a *AppService) Export(_ context.Context) ([]byte, Status, error) {
	b, err := a.io.SerializePortable(a.io.ExportToPortable(a.data))
	if err != nil {
		return nil, "", fmt.Errorf("encode export: %w", err)
	}
	return b, StatusExported, nil
}

// Import разбирает файл, вливает его в копию данных и сохраняет.
// При ошибке сохранения данные в памяти не меняются.
func (a *AppService) Import(ctx context.Context, text string) (MergeResult, Status, error) {
	portable, err := a.io.ParsePortable(text)
	if err != nil {
		return MergeResult{}, "", err
	}
	var res MergeResult
	err = a.commit(ctx, func(d *model.AppData) error {
		res, err = a.io.MergeInto(d, portable)
		return err
	})
	if err != nil {
		return MergeResult{}, "", err
	}
	a.logger.Infow("import merged",
		"webhooks_added", res.WebhooksAdded, "webhooks_updated", res.WebhooksUpdated,
		"templates_added", res.TemplatesAdded, "templates_updated", res.TemplatesUpdated)
	return res, StatusImported, nil
}
