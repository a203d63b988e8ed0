package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichitomultihogar/elcausa/internal/config"
	"github.com/bichitomultihogar/elcausa/pkg/logger"
	"github.com/bichitomultihogar/elcausa/pkg/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		ServiceName:           "elcausa-test",
		Environment:           "test",
		LogLevel:              "error",
		HTTPPort:              8080,
		RequestTimeout:        5 * time.Second,
		ShutdownTimeout:       time.Second,
		PprofCIDRs:            []string{"127.0.0.0/8"},
		StorageDriver:         config.StorageMemory,
		StateTTL:              1,
		DeliveryFee:           800,
		FreeDeliveryThreshold: 10000,
		DeliveryETAMin:        30,
		DeliveryETAMax:        45,
		WhatsAppDomain:        "wa.me",
		WhatsAppPhone:         "543521539991",
		OTELSampleRate:        1,
	}
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.SessionHeader, "app-test-session")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApp_Memory(t *testing.T) {
	a, err := NewApp(testConfig(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	assert.Nil(t, a.rdb)
	assert.Nil(t, a.producer)
	assert.Equal(t, ":8080", a.httpServer.Addr)

	rec := serve(a.Handler(), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(a.Handler(), http.MethodGet, "/api/v1/products/fernet-branca-750ml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.StorageDriver = config.StorageRedis
	cfg.RedisHost = mr.Host()
	cfg.RedisPort = port

	a, err := NewApp(cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	rec := serve(a.Handler(), http.MethodPost, "/api/v1/cart/items", `{"product_id":"4"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := mr.Get("el-causa-cart:app-test-session")
	require.NoError(t, err)
	assert.Contains(t, stored, `"id":"4"`)
	assert.Contains(t, stored, `"quantity":1`)
	assert.True(t, mr.TTL("el-causa-cart:app-test-session") > 0)

	rec = serve(a.Handler(), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	mr.Close()
	rec = serve(a.Handler(), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	cfg := testConfig()
	cfg.StorageDriver = config.StorageRedis
	cfg.RedisHost = host
	cfg.RedisPort = port

	_, err = NewApp(cfg, logger.Discard())
	assert.ErrorContains(t, err, "connect to redis")
}

func TestNewApp_BadCatalogFile(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogFile = t.TempDir() + "/missing.json"

	_, err := NewApp(cfg, logger.Discard())
	assert.ErrorContains(t, err, "load catalog")
}
