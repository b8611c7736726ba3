// Package api builds and delivers Discord webhook messages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Message — исходящее сообщение в том виде, в каком его заполняет пользователь.
type Message struct {
	Content         string
	Username        string
	AvatarURL       string
	EmbedsJSON      string
	DisableMentions bool
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

// payload — тело запроса. Пустые поля не сериализуются, явных null нет.
type payload struct {
	Content         string           `json:"content,omitempty"`
	Username        string           `json:"username,omitempty"`
	AvatarURL       string           `json:"avatar_url,omitempty"`
	Embeds          json.RawMessage  `json:"embeds,omitempty"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

// MaxErrorBody ограничивает объём тела ответа, попадающего в DeliveryError.
const MaxErrorBody = 64 << 10

// WebhookClient отправляет сообщения. Один экземпляр безопасно использовать из нескольких горутин.
type WebhookClient struct {
	http *http.Client
}

// ClientOption настраивает WebhookClient.
type ClientOption func(*WebhookClient)

// WithHTTPClient подменяет http.Client (например, клиент httptest-сервера).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(w *WebhookClient) { w.http = c }
}

// NewWebhookClient создаёт клиент с общим транспортом; timeout ограничивает весь запрос.
func NewWebhookClient(timeout time.Duration, opts ...ClientOption) *WebhookClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
	}
	w := &WebhookClient{http: &http.Client{Transport: transport, Timeout: timeout}}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BuildPayload валидирует сообщение и возвращает JSON-тело запроса.
func BuildPayload(url string, msg Message) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, invalid("Webhook URL is empty.")
	}
	if !hasHTTPSPrefix(url) {
		return nil, invalid("Webhook URL must start with https://")
	}

	embeds, count, err := normalizeEmbeds(msg.EmbedsJSON)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" && count == 0 {
		return nil, invalid("Discord requires message content or a non-empty embeds array.")
	}

	p := payload{
		Content:   content,
		Username:  strings.TrimSpace(msg.Username),
		AvatarURL: strings.TrimSpace(msg.AvatarURL),
		Embeds:    embeds,
	}
	if msg.DisableMentions {
		p.AllowedMentions = &allowedMentions{Parse: []string{}}
	}
	return json.Marshal(p)
}

// Send валидирует сообщение и отправляет его POST-запросом.
func (c *WebhookClient) Send(ctx context.Context, url string, msg Message) error {
	body, err := BuildPayload(url, msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(url), bytes.NewReader(body))
	if err != nil {
		return invalid("Webhook URL is not valid: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody+1))
		derr := &DeliveryError{StatusCode: resp.StatusCode}
		if len(b) > MaxErrorBody {
			b = b[:MaxErrorBody]
			derr.Truncated = true
		}
		derr.Body = string(b)
		return derr
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func hasHTTPSPrefix(url string) bool {
	const prefix = "https://"
	return len(url) >= len(prefix) && strings.EqualFold(url[:len(prefix)], prefix)
}

// normalizeEmbeds: пусто — поле опускается; массив — как есть; объект — оборачивается в массив.
func normalizeEmbeds(raw string) (json.RawMessage, int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, 0, nil
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, 0, invalid("Embeds JSON is not valid JSON: %v", err)
	}
	switch t := v.(type) {
	case []any:
		return json.RawMessage(trimmed), len(t), nil
	case map[string]any:
		return json.RawMessage("[" + trimmed + "]"), 1, nil
	default:
		return nil, 0, invalid("Embeds JSON must be an array [] or an object {}.")
	}
}
