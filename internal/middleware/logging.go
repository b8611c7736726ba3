package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

var sugar = zap.NewNop().Sugar()

// SetLogger задаёт логгер для всех middleware пакета.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		sugar = l
	}
}

type responseData struct {
	status int
	size   int
}

// loggingResponseWriter запоминает код ответа и размер тела.
type loggingResponseWriter struct {
	http.ResponseWriter
	data *responseData
}

func (w *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := w.ResponseWriter.Write(b)
	w.data.size += size
	return size, err
}

func (w *loggingResponseWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.data.status = statusCode
}

// WithLogging пишет в лог метод, URI, статус, размер ответа и длительность.
// Уровень записи зависит от статуса: 5xx — error, 4xx — warn, остальное — info.
func WithLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data := &responseData{status: http.StatusOK}
		lw := &loggingResponseWriter{ResponseWriter: w, data: data}

		h.ServeHTTP(lw, r)

		logAt(data.status)("request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
		)
	})
}

func logAt(status int) func(msg string, kv ...interface{}) {
	switch {
	case status >= http.StatusInternalServerError:
		return sugar.Errorw
	case status >= http.StatusBadRequest:
		return sugar.Warnw
	default:
		return sugar.Infow
	}
}
