package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-url-shortener/internal/domain"
	"github.com/tbourn/go-url-shortener/internal/http/middleware"
	"github.com/tbourn/go-url-shortener/internal/services"
)

type stubRedirector struct {
	fn func(ctx context.Context, req services.RedirectRequest) (string, error)
}

func (s stubRedirector) Handle(ctx context.Context, req services.RedirectRequest) (string, error) {
	return s.fn(ctx, req)
}

type stubShortener struct {
	fn func(ctx context.Context, items []services.ShortenItem) ([]services.ShortenResult, services.BatchSummary, error)
}

func (s stubShortener) ShortenBatch(ctx context.Context, items []services.ShortenItem) ([]services.ShortenResult, services.BatchSummary, error) {
	return s.fn(ctx, items)
}

type stubStats struct {
	linkFn func(ctx context.Context, code string, q services.StatsQuery) (*services.LinkStats, error)
	listFn func(ctx context.Context, q services.StatsQuery) (*services.StatsList, error)
}

func (s stubStats) LinkStats(ctx context.Context, code string, q services.StatsQuery) (*services.LinkStats, error) {
	return s.linkFn(ctx, code, q)
}

func (s stubStats) List(ctx context.Context, q services.StatsQuery) (*services.StatsList, error) {
	return s.listFn(ctx, q)
}

type stubDomains struct {
	fn func(ctx context.Context, onlyActive bool) ([]domain.Domain, error)
}

func (s stubDomains) List(ctx context.Context, onlyActive bool) ([]domain.Domain, error) {
	return s.fn(ctx, onlyActive)
}

type stubHealth struct{ report services.HealthReport }

func (s stubHealth) Check(context.Context) services.HealthReport { return s.report }

// newTestRouter mounts the handlers the way the real router does, without
// auth or rate limiting.
func newTestRouter(svc Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(svc)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/shorten", h.Shorten)
	r.GET("/stats", h.ListStats)
	r.GET("/stats/:code", h.LinkStats)
	r.GET("/domains", h.ListDomains)
	r.GET("/health", h.Health)
	r.GET("/:code", h.Redirect)
	return r
}

func do(r http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}
