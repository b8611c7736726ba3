package handlers

import (
	"io"
	"net/http"
	"strings"

	"WebhookMessenger/internal/cli/service"
)

type sendRequest struct {
	service.SendRequest
	TemplateID string `json:"templateId"`
}

type importResponse struct {
	Status string `json:"status"`
	service.MergeResult
}

// Send отправляет сообщение. URL расшифровывается под блокировкой,
// сам сетевой вызов идёт уже без неё.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	if strings.TrimSpace(req.TemplateID) != "" {
		content, embeds, _, err := h.app.ApplyTemplate(req.TemplateID)
		if err != nil {
			h.mu.Unlock()
			h.fail(w, r, err)
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			req.Content = content
		}
		if strings.TrimSpace(req.EmbedsJSON) == "" {
			req.EmbedsJSON = embeds
		}
	}
	url, err := h.app.ResolveURL(req.WebhookID)
	h.mu.Unlock()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status, err := h.app.Deliver(r.Context(), url, req.SendRequest)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, status)
}

// Export отдаёт переносимый JSON вложением.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	b, status, err := h.app.Export(r.Context())
	h.mu.Unlock()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="webhook-messenger-export.json"`)
	w.Header().Set("X-Export-Warning", string(status))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// Import принимает тело запроса как файл импорта.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	res, status, err := h.app.Import(r.Context(), string(raw))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Status: string(status), MergeResult: res})
}

// Reload перечитывает хранилище с диска.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status, err := h.app.Reload(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, status)
}
