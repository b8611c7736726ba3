package model

import "time"

const (
	// PortableVersion — текущая версия переносимого формата.
	PortableVersion = 1
	// AppTag — метка приложения в файле экспорта.
	AppTag = "Webhook-Messenger"
)

// PortableWebhook — вебхук с URL в открытом виде. Используется только для импорта/экспорта.
type PortableWebhook struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PortableTemplate — шаблон в переносимом формате.
type PortableTemplate struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	EmbedsJSON string `json:"embedsJson"`
}

// PortableData — содержимое файла экспорта. На диске в зашифрованном хранилище никогда не лежит.
type PortableData struct {
	Version     int                `json:"version"`
	App         string             `json:"app"`
	ExportedUTC time.Time          `json:"exportedUtc"`
	Webhooks    []PortableWebhook  `json:"webhooks"`
	Templates   []PortableTemplate `json:"templates"`
}
