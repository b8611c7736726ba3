package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type templateRequest struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	EmbedsJSON string `json:"embedsJson"`
}

// ListTemplates отдаёт шаблоны.
func (h *Handler) ListTemplates(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	list := h.app.Templates()
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

// AddTemplate создаёт шаблон; поля из тела сохраняются тем же коммитом.
func (h *Handler) AddTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	rec, err := h.app.CreateTemplate(r.Context(), req.Name, req.Content, req.EmbedsJSON)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// SaveTemplate перезаписывает шаблон целиком.
func (h *Handler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	status, err := h.app.SaveTemplate(r.Context(), chi.URLParam(r, "id"), req.Name, req.Content, req.EmbedsJSON)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, status)
}

// DeleteTemplate удаляет шаблон.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status, err := h.app.DeleteTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeStatus(w, status)
}
