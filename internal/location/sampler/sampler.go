// Package sampler throttles a continuous device position stream down to at
// most one accepted sample per window and publishes accepted samples to the
// location cache.
package sampler

import (
	"context"
	"log/slog"
	"time"

	"safetrail/internal/location/cache"
	"safetrail/internal/location/models"
	"safetrail/internal/platform/metrics"
	id "safetrail/pkg/domain"
)

// DefaultWindow is the minimum interval between accepted samples.
const DefaultWindow = 30 * time.Second

// Sampler consumes one user's position stream. Positions arriving before the
// window has elapsed since the last accepted sample are discarded, not
// queued. Not safe for use from multiple goroutines; run one Sampler per
// stream.
type Sampler struct {
	cache   cache.Cache
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	lastAccepted time.Time
}

func New(c cache.Cache, window time.Duration, logger *slog.Logger, m *metrics.Metrics) *Sampler {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		cache:   c,
		window:  window,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// WithClock overrides the throttle clock. Test hook.
func (s *Sampler) WithClock(now func() time.Time) *Sampler {
	s.now = now
	return s
}

// Run consumes positions until the context is cancelled or the stream
// closes. It never returns a position-level error; cache failures are logged
// and the stream keeps going, since dropping a sample is always acceptable.
func (s *Sampler) Run(ctx context.Context, userID id.UserID, positions <-chan models.Position) {
	for {
		select {
		case <-ctx.Done():
			return
		case pos, ok := <-positions:
			if !ok {
				return
			}
			s.observe(ctx, userID, pos)
		}
	}
}

// observe applies the throttle to a single position and reports whether it
// was accepted.
func (s *Sampler) observe(ctx context.Context, userID id.UserID, pos models.Position) bool {
	now := s.now()
	if !s.lastAccepted.IsZero() && now.Sub(s.lastAccepted) < s.window {
		return false
	}
	s.lastAccepted = now

	if err := s.cache.Put(ctx, userID, models.Sample{Position: pos, ObservedAt: now}); err != nil {
		s.logger.WarnContext(ctx, "failed to cache location sample",
			"user_id", userID.String(), "error", err)
		return false
	}
	if s.metrics != nil {
		s.metrics.LocationSamples.Inc()
	}
	return true
}
