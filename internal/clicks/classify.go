package clicks

import (
	"context"
	"errors"
	"net"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// IsTransient reports whether a store error is worth retrying: connectivity
// loss, timeouts and resource exhaustion. Not-found, conflicts, validation,
// cancellation and anything unclassified are permanent.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
