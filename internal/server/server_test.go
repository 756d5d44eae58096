package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/kash-scorekeeper/internal/config"
	"github.com/palemoky/kash-scorekeeper/internal/server/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverMemory
	cfg.Game.LosingScore = 21
	cfg.Security.AllowedOrigins = []string{"*"}
	cfg.Security.RateLimit.MaxPerSecond = 1000
	cfg.Security.RateLimit.Burst = 1000
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	store := storage.NewMemoryStore(time.Hour, 0)
	s, err := New(cfg, store)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

// client 记住 kash_game cookie 的简易浏览器
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == gameCookie {
			if ck.MaxAge < 0 {
				c.cookie = nil
			} else {
				c.cookie = ck
			}
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) start(names ...string) {
	c.t.Helper()
	rec := c.post("/", url.Values{"player1": {names[0]}, "player2": {names[1]}, "player3": {names[2]}})
	require.Equal(c.t, http.StatusSeeOther, rec.Code)
	require.NotNil(c.t, c.cookie)
}

func TestNewServer_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Storage.Driver = "cassandra"
	_, err := NewServer(cfg)
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestNewServer_MemoryDriver(t *testing.T) {
	t.Parallel()

	s, err := NewServer(testConfig())
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, s.store)
	require.NoError(t, s.Shutdown(context.Background()))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	c := &client{t: t, h: s.Handler()}
	c.start("Ann", "Bob", "Cid")

	rec := c.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "kash_games_started_total 1")
	assert.Contains(t, body, `kash_http_requests_total{code="303",route="/"} 1`)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RateLimit.MaxPerSecond = 1
	cfg.Security.RateLimit.Burst = 2
	s := newTestServer(t, cfg)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		s.Handler().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// health 不受限流影响
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
