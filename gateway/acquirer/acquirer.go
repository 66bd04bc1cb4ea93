package acquirer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yaron8/microlink/gateway/config"
	"github.com/yaron8/microlink/logi"
	"github.com/yaron8/microlink/telemetrics"
)

// Acquirer obtains one link-metrics snapshot per call from its Source and
// substitutes synthetic values whenever the source fails.
type Acquirer struct {
	source  Source
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewAcquirer(source Source, timeout time.Duration, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = logi.Discard()
	}
	return &Acquirer{
		source:  source,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

func (a *Acquirer) Mode() config.Mode {
	return a.source.Mode()
}

// Fetch never fails: transport and format errors are logged and replaced by
// a synthetic record.
func (a *Acquirer) Fetch(ctx context.Context) telemetrics.LinkMetrics {
	metrics, err := a.fetch(ctx)
	if err != nil {
		a.logger.Warn("Error getting metrics from link simulator, using synthetic metrics",
			"mode", a.source.Mode(),
			"error", err)
		return Synthesize(a.now())
	}

	a.logger.Debug("Received metrics from link simulator", "mode", a.source.Mode(), "metrics", metrics.String())
	return metrics
}

// IsAvailable runs the source's liveness probe. It has no effect on Fetch.
func (a *Acquirer) IsAvailable(ctx context.Context) bool {
	ctx, cancel := a.attemptContext(ctx)
	defer cancel()

	if err := a.source.Probe(ctx); err != nil {
		a.logger.Warn("Link simulator not available", "mode", a.source.Mode(), "error", err)
		return false
	}
	return true
}

func (a *Acquirer) fetch(ctx context.Context) (telemetrics.LinkMetrics, error) {
	ctx, cancel := a.attemptContext(ctx)
	defer cancel()

	raw, err := a.source.FetchRaw(ctx)
	if err != nil {
		return telemetrics.LinkMetrics{}, err
	}

	metrics, err := telemetrics.DecodeEmbedded(raw)
	if err != nil {
		return telemetrics.LinkMetrics{}, fmt.Errorf("failed to parse simulator output: %w", err)
	}
	if err := metrics.Validate(); err != nil {
		return telemetrics.LinkMetrics{}, fmt.Errorf("invalid simulator metrics: %w", err)
	}

	return metrics, nil
}

// attemptContext detaches from caller cancellation, so an attempt that has
// started runs to completion or timeout, and applies the configured timeout.
func (a *Acquirer) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
}
