package service

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"WebhookMessenger/internal/cli/crypto"
	"WebhookMessenger/internal/model"
)

// ErrImportFormat — файл импорта пуст, не является JSON или не совпадает по форме.
var ErrImportFormat = errors.New("import file is empty or invalid")

//go:embed portable.schema.json
var portableSchemaJSON string

var portableSchema = mustSchema(portableSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("portable schema: %v", err))
	}
	return s
}

// MergeResult — сколько записей добавлено и обновлено при импорте.
type MergeResult struct {
	WebhooksAdded    int `json:"webhooksAdded"`
	WebhooksUpdated  int `json:"webhooksUpdated"`
	TemplatesAdded   int `json:"templatesAdded"`
	TemplatesUpdated int `json:"templatesUpdated"`
}

// ImportExportService конвертирует AppData в переносимый формат и обратно.
type ImportExportService struct {
	protector crypto.Protector
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewImportExportService creates the service. logger may be nil.
func NewImportExportService(p crypto.Protector, logger *zap.SugaredLogger) *ImportExportService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ImportExportService{protector: p, logger: logger, now: time.Now}
}

// ExportToPortable расшифровывает URL. Запись, которую не удалось расшифровать,
// экспортируется с пустым URL, экспорт при этом не прерывается.
func (s *ImportExportService) ExportToPortable(data *model.AppData) model.PortableData {
	out := model.PortableData{
		Version:     model.PortableVersion,
		App:         model.AppTag,
		ExportedUTC: s.now().UTC(),
		Webhooks:    make([]model.PortableWebhook, 0, len(data.Webhooks)),
		Templates:   make([]model.PortableTemplate, 0, len(data.Templates)),
	}

	for _, w := range data.Webhooks {
		url, err := s.protector.Unprotect(w.URLProtected)
		if err != nil {
			s.logger.Debugw("webhook url unavailable for export", "id", w.ID, "error", err)
			url = ""
		}
		out.Webhooks = append(out.Webhooks, model.PortableWebhook{
			Name: strings.TrimSpace(w.Name),
			URL:  strings.TrimSpace(url),
		})
	}
	for _, t := range data.Templates {
		out.Templates = append(out.Templates, model.PortableTemplate{
			Name:       strings.TrimSpace(t.Name),
			Content:    t.Content,
			EmbedsJSON: model.NormalizeEmbeds(t.EmbedsJSON),
		})
	}
	return out
}

// SerializePortable returns indented JSON.
func (s *ImportExportService) SerializePortable(p model.PortableData) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// ParsePortable разбирает файл импорта и проверяет его форму по схеме.
func (s *ImportExportService) ParsePortable(text string) (*model.PortableData, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: file is empty", ErrImportFormat)
	}
	res, err := portableSchema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrImportFormat, strings.Join(msgs, "; "))
	}

	var p model.PortableData
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if p.Version <= 0 {
		p.Version = model.PortableVersion
	}
	if p.Webhooks == nil {
		p.Webhooks = []model.PortableWebhook{}
	}
	if p.Templates == nil {
		p.Templates = []model.PortableTemplate{}
	}
	return &p, nil
}

// MergeInto вливает импорт в existing по имени без учёта регистра.
// Совпадения перезаписываются, новые имена добавляются со свежим ID.
// Пустой URL в импорте не затирает сохранённый. Сохранение — забота вызывающего.
func (s *ImportExportService) MergeInto(existing *model.AppData, imported *model.PortableData) (MergeResult, error) {
	var res MergeResult
	existing.Normalize()

	// индекс строится один раз: две новые записи с одинаковым именем добавятся обе
	hooks := make(map[string]int, len(existing.Webhooks))
	for i, w := range existing.Webhooks {
		if key := model.NameKey(w.Name); key != "" {
			hooks[key] = i
		}
	}

	for _, w := range imported.Webhooks {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		protected := ""
		if plain := strings.TrimSpace(w.URL); plain != "" {
			var err error
			if protected, err = s.protector.Protect(plain); err != nil {
				return res, fmt.Errorf("protect url for %q: %w", name, err)
			}
		}

		if i, ok := hooks[model.NameKey(name)]; ok {
			rec := &existing.Webhooks[i]
			rec.Name = name
			if protected != "" {
				rec.URLProtected = protected
			}
			res.WebhooksUpdated++
			continue
		}
		existing.Webhooks = append(existing.Webhooks, model.NewWebhookRecord(name, protected))
		res.WebhooksAdded++
	}

	tpls := make(map[string]int, len(existing.Templates))
	for i, t := range existing.Templates {
		if key := model.NameKey(t.Name); key != "" {
			tpls[key] = i
		}
	}

	for _, t := range imported.Templates {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		if i, ok := tpls[model.NameKey(name)]; ok {
			rec := &existing.Templates[i]
			rec.Name = name
			rec.Content = t.Content
			rec.EmbedsJSON = model.NormalizeEmbeds(t.EmbedsJSON)
			res.TemplatesUpdated++
			continue
		}
		existing.Templates = append(existing.Templates, model.NewTemplateRecord(name, t.Content, t.EmbedsJSON))
		res.TemplatesAdded++
	}
	return res, nil
}
