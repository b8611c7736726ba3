package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"WebhookMessenger/internal/cli/api"
	"WebhookMessenger/internal/cli/service"
	"WebhookMessenger/internal/config"
	"WebhookMessenger/internal/middleware"
)

// maxBodyBytes ограничивает размер тела запроса (импорт — самый большой).
const maxBodyBytes = 4 << 20

type Handler struct {
	Router chi.Router

	mu     sync.Mutex // сериализует обращения к AppService
	app    *service.AppService
	logger *zap.SugaredLogger
}

// NewHandler разводящий для хендлеров
func NewHandler(app *service.AppService, logger *zap.SugaredLogger, cfg *config.Config) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	h := &Handler{app: app, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5, "application/json"))
	r.Use(middleware.WithLogging)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.WithAuth(cfg.AuthSecret))

		r.Get("/webhooks", h.ListWebhooks)
		r.Post("/webhooks", h.AddWebhook)
		r.Put("/webhooks/{id}", h.SaveWebhook)
		r.Delete("/webhooks/{id}", h.DeleteWebhook)

		r.Get("/templates", h.ListTemplates)
		r.Post("/templates", h.AddTemplate)
		r.Put("/templates/{id}", h.SaveTemplate)
		r.Delete("/templates/{id}", h.DeleteTemplate)

		r.Post("/send", h.Send)
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
		r.Post("/reload", h.Reload)
	})

	h.Router = r
	return h
}

// Health отвечает без авторизации.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, status service.Status) {
	writeJSON(w, http.StatusOK, statusResponse{Status: string(status)})
}

// decode читает JSON-тело с ограничением размера.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// fail переводит ошибку сервиса в HTTP-код.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	var delivery *api.DeliveryError
	switch {
	case errors.Is(err, api.ErrValidation), errors.Is(err, service.ErrImportFormat), errors.Is(err, service.ErrNoURL):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoWebhookSelected):
		code = http.StatusNotFound
	case errors.As(err, &delivery):
		code = http.StatusBadGateway
	}
	subject, _ := middleware.GetSubjectFromContext(r.Context())
	if code == http.StatusInternalServerError {
		h.logger.Errorw("request failed", "uri", r.RequestURI, "subject", subject, "error", err)
	} else {
		h.logger.Infow("request rejected", "uri", r.RequestURI, "subject", subject, "status", code, "error", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
