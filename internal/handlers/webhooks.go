package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type webhookRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListWebhooks отдаёт вебхуки без URL.
func (h *Handler) ListWebhooks(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	list := h.app.Webhooks()
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

// AddWebhook создаёт вебхук; имя и URL из тела сохраняются одним коммитом.
func (h *Handler) AddWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	rec, err := h.app.CreateWebhook(r.Context(), req.Name, req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for _, v := range h.app.Webhooks() {
		if v.ID == rec.ID {
			writeJSON(w, http.StatusCreated, v)
			return
		}
	}
	writeJSON(w, http.StatusCreated, rec)
}

// SaveWebhook переименовывает вебхук; пустой URL оставляет сохранённый.
func (h *Handler) SaveWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	status, err := h.app.SaveWebhook(r.Context(), chi.URLParam(r, "id"), req.Name, req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, status)
}

// DeleteWebhook удаляет вебхук.
func (h *Handler) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status, err := h.app.DeleteWebhook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, status)
}
