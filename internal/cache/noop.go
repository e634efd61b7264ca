package cache

import (
	"context"
	"time"
)

// Noop is the disabled cache: every Get misses and every write succeeds.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Noop) Delete(context.Context, string) error                      { return nil }
func (Noop) Ping(context.Context) error                                { return nil }
func (Noop) Name() string                                              { return "none" }
func (Noop) Close() error                                              { return nil }
