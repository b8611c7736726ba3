package model

import "strings"

// AppData — единственный сохраняемый агрегат: списки вебхуков и шаблонов в порядке добавления.
type AppData struct {
	Webhooks  []WebhookRecord  `json:"webhooks"`
	Templates []TemplateRecord `json:"templates"`
}

// NewAppData returns an empty data set with non-nil lists.
func NewAppData() *AppData {
	return &AppData{Webhooks: []WebhookRecord{}, Templates: []TemplateRecord{}}
}

// Normalize replaces nil lists with empty ones.
func (d *AppData) Normalize() *AppData {
	if d.Webhooks == nil {
		d.Webhooks = []WebhookRecord{}
	}
	if d.Templates == nil {
		d.Templates = []TemplateRecord{}
	}
	return d
}

// Clone returns a deep copy (records are plain values).
func (d *AppData) Clone() *AppData {
	c := &AppData{
		Webhooks:  make([]WebhookRecord, len(d.Webhooks)),
		Templates: make([]TemplateRecord, len(d.Templates)),
	}
	copy(c.Webhooks, d.Webhooks)
	copy(c.Templates, d.Templates)
	return c
}

// WebhookIndex returns the position of the webhook with the given id, or -1.
func (d *AppData) WebhookIndex(id string) int {
	for i := range d.Webhooks {
		if d.Webhooks[i].ID == id {
			return i
		}
	}
	return -1
}

// TemplateIndex returns the position of the template with the given id, or -1.
func (d *AppData) TemplateIndex(id string) int {
	for i := range d.Templates {
		if d.Templates[i].ID == id {
			return i
		}
	}
	return -1
}

// FindWebhook ищет вебхук сначала по точному ID, затем по имени без учёта регистра.
func (d *AppData) FindWebhook(ref string) int {
	if i := d.WebhookIndex(ref); i >= 0 {
		return i
	}
	key := NameKey(ref)
	if key == "" {
		return -1
	}
	for i := range d.Webhooks {
		if NameKey(d.Webhooks[i].Name) == key {
			return i
		}
	}
	return -1
}

// FindTemplate ищет шаблон сначала по точному ID, затем по имени без учёта регистра.
func (d *AppData) FindTemplate(ref string) int {
	if i := d.TemplateIndex(ref); i >= 0 {
		return i
	}
	key := NameKey(ref)
	if key == "" {
		return -1
	}
	for i := range d.Templates {
		if NameKey(d.Templates[i].Name) == key {
			return i
		}
	}
	return -1
}

// NameKey — ключ сопоставления по имени: обрезанное имя в нижнем регистре.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
