package obs

import (
	"context"
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"
)

// WithServerTiming adds a Server-Timing header to every response. Metrics are
// collected from the request context by StartTiming.
func WithServerTiming(next http.Handler) http.Handler {
	return servertiming.Middleware(next, nil)
}

// StartTiming starts a named Server-Timing metric and returns its stop func.
// Without timing in ctx the returned func does nothing.
func StartTiming(ctx context.Context, name, desc string) func() {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return func() {}
	}
	m := timing.NewMetric(name)
	if desc != "" {
		m = m.WithDesc(desc)
	}
	m.Start()
	return func() { m.Stop() }
}
