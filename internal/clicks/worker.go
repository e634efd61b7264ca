package clicks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// Store is what the worker needs from persistence. Errors must carry a
// domain kind so IsTransient can classify them.
type Store interface {
	DomainByName(ctx context.Context, name string) (*domain.Domain, error)
	LinkByCode(ctx context.Context, domainID int64, code string) (*domain.Link, error)
	InsertClick(ctx context.Context, c *domain.Click) error
}

// WorkerOptions tunes retries. A zero RetryBase falls back to
// DefaultRetryBase; MaxRetries of zero disables retrying.
type WorkerOptions struct {
	// RetryBase is the first backoff delay; each retry doubles it.
	RetryBase time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	Logger     *zerolog.Logger
}

const (
	DefaultRetryBase  = 100 * time.Millisecond
	DefaultMaxRetries = 6
)

// Worker is the single consumer of a Queue. For every event it resolves the
// domain, resolves the link, then inserts the click; each step retries
// transient failures with exponential backoff and gives up immediately on
// permanent ones.
type Worker struct {
	queue *Queue
	store Store
	base  time.Duration
	tries uint
	log   zerolog.Logger
	done  chan struct{}

	// onRetry, if set, observes each scheduled backoff delay.
	onRetry func(time.Duration)
}

// NewWorker binds a worker to q and store.
func NewWorker(q *Queue, store Store, opts WorkerOptions) *Worker {
	if opts.RetryBase <= 0 {
		opts.RetryBase = DefaultRetryBase
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	lg := log.Logger
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	return &Worker{
		queue: q,
		store: store,
		base:  opts.RetryBase,
		tries: uint(opts.MaxRetries) + 1,
		log:   lg.With().Str("component", "click_worker").Logger(),
		done:  make(chan struct{}),
	}
}

// Run consumes events until the queue is closed and drained, or ctx is
// canceled. On cancellation any still-buffered events are discarded and
// counted. Run must be called at most once.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	w.log.Info().Int("capacity", w.queue.Cap()).Msg("click worker started")
	events := w.queue.Events()
	for {
		if ctx.Err() != nil {
			w.discard()
			return
		}
		select {
		case <-ctx.Done():
			w.discard()
			return
		case ev, ok := <-events:
			if !ok {
				w.log.Info().Msg("click queue drained, worker stopped")
				return
			}
			queueDepth.Set(float64(len(events)))
			w.handle(ctx, ev)
		}
	}
}

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Shutdown closes the queue and gives the worker grace to drain. If the
// grace period runs out, cancel is called and Shutdown waits for Run to
// return. Run must already be running. It reports whether the queue
// drained fully.
func (w *Worker) Shutdown(grace time.Duration, cancel context.CancelFunc) bool {
	w.queue.Close()
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-w.done:
		return true
	case <-timer.C:
		w.log.Warn().Dur("grace", grace).Int("pending", w.queue.Len()).Msg("click drain grace period expired")
		cancel()
		<-w.done
		return false
	}
}

func (w *Worker) discard() {
	n := 0
	for {
		select {
		case _, ok := <-w.queue.Events():
			if !ok {
				w.logDiscarded(n)
				return
			}
			n++
		default:
			w.logDiscarded(n)
			return
		}
	}
}

func (w *Worker) logDiscarded(n int) {
	queueDepth.Set(0)
	if n == 0 {
		w.log.Info().Msg("click worker stopped")
		return
	}
	workerDiscarded.Add(float64(n))
	w.log.Warn().Int("discarded", n).Msg("click worker stopped with events still queued")
}

// handle runs one event through resolve, resolve, insert. It never panics
// out; a panic abandons the event.
func (w *Worker) handle(ctx context.Context, ev domain.ClickEvent) {
	workerReceived.Inc()
	defer func() {
		if r := recover(); r != nil {
			w.abandon(ev, "handle", 0, fmt.Errorf("panic: %v", r), ReasonPanic)
		}
	}()

	d, n, err := attempt(ctx, w, func() (*domain.Domain, error) {
		return w.store.DomainByName(ctx, ev.Domain)
	})
	if err != nil {
		w.abandon(ev, "resolve_domain", n, err, reason(err))
		return
	}

	l, n, err := attempt(ctx, w, func() (*domain.Link, error) {
		return w.store.LinkByCode(ctx, d.ID, ev.Code)
	})
	if err != nil {
		w.abandon(ev, "resolve_link", n, err, reason(err))
		return
	}

	click := &domain.Click{
		LinkID:    l.ID,
		ClickedAt: ev.OccurredAt,
		UserAgent: ev.UserAgent,
		Referer:   ev.Referer,
		IP:        ev.IP,
	}
	_, n, err = attempt(ctx, w, func() (struct{}, error) {
		return struct{}{}, w.store.InsertClick(ctx, click)
	})
	if err != nil {
		w.abandon(ev, "insert_click", n, err, reason(err))
		return
	}
	workerPersisted.Inc()
}

// attempt runs op under the worker's backoff policy and returns the number
// of calls made.
func attempt[T any](ctx context.Context, w *Worker, op func() (T, error)) (T, int, error) {
	calls := 0
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.base
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = w.base << w.tries

	v, err := backoff.Retry(ctx, func() (T, error) {
		calls++
		v, err := op()
		if err != nil && !IsTransient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(w.tries),
		backoff.WithNotify(func(err error, d time.Duration) {
			workerRetried.Inc()
			w.log.Debug().Err(err).Dur("backoff", d).Int("attempt", calls).Msg("retrying click store operation")
			if w.onRetry != nil {
				w.onRetry(d)
			}
		}),
	)
	return v, calls, err
}

func reason(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, domain.ErrNotFound):
		return ReasonNotFound
	case IsTransient(err):
		return ReasonExhausted
	default:
		return ReasonPermanent
	}
}

func (w *Worker) abandon(ev domain.ClickEvent, step string, attempts int, err error, why string) {
	workerAbandoned.WithLabelValues(why).Inc()
	w.log.Error().
		Err(err).
		Str("domain", ev.Domain).
		Str("code", ev.Code).
		Str("step", step).
		Str("reason", why).
		Int("attempts", attempts).
		Msg("click event abandoned")
}
