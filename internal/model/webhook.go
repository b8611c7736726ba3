package model

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultWebhookName — имя-заглушка для только что добавленного вебхука.
const DefaultWebhookName = "New Webhook"

// WebhookRecord — сохранённый вебхук. URL хранится только в защищённом виде.
type WebhookRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	URLProtected string `json:"urlProtected"`
}

// NewWebhookRecord создаёт запись со свежим ID.
func NewWebhookRecord(name, urlProtected string) WebhookRecord {
	return WebhookRecord{ID: NewID(), Name: name, URLProtected: urlProtected}
}

// HasURL сообщает, задан ли у вебхука защищённый URL.
func (w WebhookRecord) HasURL() bool {
	return strings.TrimSpace(w.URLProtected) != ""
}

// NewID генерирует непрозрачный идентификатор записи.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
