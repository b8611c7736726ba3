package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { SetLogger(zap.NewNop().Sugar()) })
	return logs
}

func TestWithLogging_LevelFollowsStatus(t *testing.T) {
	cases := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusNoContent, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusBadGateway, zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			logs := observeLogs(t)
			h := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/send", nil))

			entries := logs.FilterMessage("request").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.level, entries[0].Level)
			assert.Equal(t, int64(tc.status), entries[0].ContextMap()["status"])
		})
	}
}

func TestWithLogging_RecordsSizeAndPassesBodyThrough(t *testing.T) {
	logs := observeLogs(t)
	h := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"Sent ✅"}`))
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/webhooks?x=1", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"status":"Sent ✅"}`, rr.Body.String())

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(len(`{"status":"Sent ✅"}`)), fields["size"])
	assert.Equal(t, "/api/webhooks?x=1", fields["uri"])
	for _, v := range fields {
		if s, ok := v.(string); ok {
			assert.False(t, strings.Contains(s, "secret-token"), "token leaked into log")
		}
	}
}
