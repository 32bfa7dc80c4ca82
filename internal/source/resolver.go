package source

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mtlprog/ampserve/internal/metrics"
)

// Resolver returns text from its provider, or the fallback when the provider
// fails or returns an empty body. It never returns an error.
type Resolver struct {
	provider Provider
	fallback string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewResolver creates a Resolver bounded by DefaultFetchTimeout.
// A nil logger uses slog.Default().
func NewResolver(provider Provider, fallback string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{provider: provider, fallback: fallback, timeout: DefaultFetchTimeout, logger: logger}
}

// WithTimeout sets the deadline applied to each fetch. Non-positive values
// keep the current timeout.
func (r *Resolver) WithTimeout(timeout time.Duration) *Resolver {
	if timeout > 0 {
		r.timeout = timeout
	}
	return r
}

// Resolve makes a single attempt against the provider; there are no retries.
func (r *Resolver) Resolve(ctx context.Context) string {
	name := r.provider.Name()

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	text, err := r.provider.Fetch(fetchCtx)
	metrics.UpstreamFetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		r.logger.WarnContext(ctx, "upstream fetch failed, serving fallback",
			"source", name,
			"error", err,
		)
		metrics.UpstreamFallbacks.WithLabelValues(name).Inc()
		return r.fallback
	}

	if strings.TrimSpace(text) == "" {
		r.logger.WarnContext(ctx, "upstream returned empty body, serving fallback", "source", name)
		metrics.UpstreamFallbacks.WithLabelValues(name).Inc()
		return r.fallback
	}

	return text
}
