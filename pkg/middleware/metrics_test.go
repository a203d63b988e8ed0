package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_RecordsRoutePattern(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry(), "test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/products/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, slug := range []string{"fernet", "quilmes"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+slug, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/products/{slug}", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestHTTPMetrics_UnknownRoute(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry(), "test")
	handler := m.Middleware(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/anything", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "unknown", "200")))
}

func TestNewHTTPMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewHTTPMetrics(prometheus.NewRegistry(), "a")
		NewHTTPMetrics(prometheus.NewRegistry(), "a")
	})
}
