package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

func TestStatusFor(t *testing.T) {
	cause := errors.New("driver")
	cases := []struct {
		err  error
		want int
	}{
		{domain.Validation("bad"), http.StatusBadRequest},
		{domain.NotFound("gone"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.Conflict("taken")), http.StatusConflict},
		{domain.Unauthorized("no"), http.StatusUnauthorized},
		{domain.Internal("boom", cause), http.StatusInternalServerError},
		{domain.Unavailable("down", cause), http.StatusInternalServerError},
		{cause, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "%v", tc.err)
	}
}

func TestFailErr_InternalIsLoggedNotLeaked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		failErr(c, domain.Internal("query failed", errors.New("pq: password=hunter2")))
	})

	w := do(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, ErrorResponse{RequestID: "rid-500", Code: "internal_error", Message: "internal server error"}, resp)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "query failed")
}

func TestFail_ClientErrorNotLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("logger", &logger); c.Next() })
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, "not_found", "nope") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "rid-404")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"request_id":"rid-404"`), w.Body.String())
	assert.Empty(t, buf.String())
}
