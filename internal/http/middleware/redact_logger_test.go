package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_InfoAndRedactions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/stats/:code", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "email=a.b@example.com&phone=555-123-4567&id=123e4567-e89b-12d3-a456-426614174000&token=s3cr3t"
	req := httptest.NewRequest(http.MethodGet, "/stats/abc123?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set("X-Request-ID", "rid-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"path":"/stats/:code"`,
		`"request_id":"rid-1"`,
		`[REDACTED:email]`,
		`[REDACTED:phone]`,
		`[REDACTED:id]`,
		`token=[REDACTED]`,
		`"Authorization":"[REDACTED]"`,
		`"Cookie":"[REDACTED]"`,
		`"X-Api-Key":"[REDACTED]"`,
		`"X-Custom":"email [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]"`,
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %s in logs, got: %s", want, logs)
		}
	}
	for _, leaked := range []string{"s3cr3t", "topsecret", "shhh", "Bearer secret"} {
		if strings.Contains(logs, leaked) {
			t.Fatalf("log leaked %q: %s", leaked, logs)
		}
	}
}

func TestRedactingLogger_Levels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/ginerr", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusBadRequest)
	})

	for _, p := range []struct{ path, rid string }{{"/warn", "rid-warn"}, {"/error", "rid-err"}, {"/ginerr", "rid-gin"}} {
		req := httptest.NewRequest(http.MethodGet, p.path, nil)
		req.Header.Set("X-Request-ID", p.rid)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"warn"`) || !strings.Contains(lines[0], `"request_id":"rid-warn"`) {
		t.Fatalf("warn line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"error"`) || !strings.Contains(lines[1], `"request_id":"rid-err"`) {
		t.Fatalf("error line: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"level":"error"`) || !strings.Contains(lines[2], `"errors":`) {
		t.Fatalf("gin error line: %s", lines[2])
	}
}

func TestRedactQuery(t *testing.T) {
	mask := lowerSet([]string{"token"}, nil)
	if got := redactQuery("", mask); got != "" {
		t.Fatalf("empty query = %q", got)
	}
	if got := redactQuery("page=2&TOKEN=abc", mask); got != "TOKEN=[REDACTED]&page=2" {
		t.Fatalf("redactQuery = %q", got)
	}
	if got := redactQuery("bad=%zz a@b.com", mask); !strings.Contains(got, "[REDACTED:email]") {
		t.Fatalf("unparseable query not scrubbed: %q", got)
	}
}
