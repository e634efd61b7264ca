package clicks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

type timeoutErr struct{ timeout bool }

func (e timeoutErr) Error() string   { return "net op failed" }
func (e timeoutErr) Timeout() bool   { return e.timeout }
func (e timeoutErr) Temporary() bool { return false }

var _ net.Error = timeoutErr{}

func TestIsTransient(t *testing.T) {
	cause := errors.New("driver")
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", domain.Unavailable("db down", cause), true},
		{"wrapped unavailable", fmt.Errorf("insert: %w", domain.Unavailable("db down", cause)), true},
		{"deadline", context.DeadlineExceeded, true},
		{"net timeout", timeoutErr{timeout: true}, true},
		{"net non-timeout", timeoutErr{timeout: false}, false},
		{"canceled", context.Canceled, false},
		{"unavailable but canceled", domain.Unavailable("db", context.Canceled), false},
		{"not found", domain.NotFound("link not found"), false},
		{"conflict", domain.Conflict("dup"), false},
		{"validation", domain.Validation("bad"), false},
		{"internal", domain.Internal("protocol", cause), false},
		{"plain", cause, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.want {
				t.Fatalf("IsTransient(%v) = %v; want %v", tc.err, got, tc.want)
			}
		})
	}
}
