package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichitomultihogar/elcausa/pkg/logger"
)

func newTestLogger(w *bytes.Buffer) *slog.Logger {
	return logger.NewWithWriter("test-svc", "debug", w)
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRequestLogger_StoresEnrichedLogger(t *testing.T) {
	var buf bytes.Buffer

	handler := RequestLogger(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
	}))

	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	ctx = logger.WithSessionID(ctx, "session-abc")
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := decodeLogLine(t, &buf)
	assert.Equal(t, "corr-123", out["correlation_id"])
	assert.Equal(t, "session-abc", out["session_id"])
}

func TestRequestLogger_SessionFromHeader(t *testing.T) {
	var buf bytes.Buffer

	handler := RequestLogger(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "session-from-header")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "session-from-header", decodeLogLine(t, &buf)["session_id"])
}

func TestRequestLogging_EchoesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "corr-xyz", logger.CorrelationIDFromContext(r.Context()))
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CorrelationHeader, "corr-xyz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "corr-xyz", rec.Header().Get(CorrelationHeader))
	out := decodeLogLine(t, &buf)
	assert.Equal(t, "http request", out["msg"])
	assert.Equal(t, float64(200), out["status"])
	assert.Equal(t, float64(5), out["bytes"])
}

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(newTestLogger(&buf))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, rec.Header().Get(CorrelationHeader), 36)
}

func TestRequestLogging_ServerErrorLogsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "ERROR", decodeLogLine(t, &buf)["level"])
}

func TestRequestLogging_IncludesSession(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(newTestLogger(&buf))(Session(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, "session-12345")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "session-12345", decodeLogLine(t, &buf)["session_id"])
}

func TestRequestLogging_ProbesLogAtDebug(t *testing.T) {
	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			var buf bytes.Buffer
			handler := RequestLogging(newTestLogger(&buf))(okHandler())

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, "DEBUG", decodeLogLine(t, &buf)["level"])
		})
	}

	var buf bytes.Buffer
	handler := RequestLogging(logger.NewWithWriter("test-svc", "info", &buf))(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Zero(t, buf.Len())
}
