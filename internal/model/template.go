package model

import "strings"

const (
	// DefaultTemplateName — имя-заглушка для нового шаблона.
	DefaultTemplateName = "New Template"
	// EmptyEmbeds — значение embeds по умолчанию.
	EmptyEmbeds = "[]"
)

// TemplateRecord — шаблон сообщения. Не шифруется.
type TemplateRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	EmbedsJSON string `json:"embedsJson"`
}

// NewTemplateRecord создаёт шаблон со свежим ID; пустой embeds заменяется на "[]".
func NewTemplateRecord(name, content, embeds string) TemplateRecord {
	return TemplateRecord{ID: NewID(), Name: name, Content: content, EmbedsJSON: NormalizeEmbeds(embeds)}
}

// NormalizeEmbeds возвращает "[]" для пустого значения, иначе значение как есть.
func NormalizeEmbeds(embeds string) string {
	if strings.TrimSpace(embeds) == "" {
		return EmptyEmbeds
	}
	return embeds
}
