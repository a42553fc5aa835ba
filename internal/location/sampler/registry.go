package sampler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"safetrail/internal/location/cache"
	"safetrail/internal/location/models"
	"safetrail/internal/platform/metrics"
	id "safetrail/pkg/domain"
)

// streamBuffer bounds the per-user position backlog. Positions beyond it are
// dropped; the throttle would discard the excess anyway.
const streamBuffer = 16

// Registry fans incoming device positions out to one Sampler per user. Each
// user's stream is a buffered channel consumed by a dedicated goroutine, so
// the single-goroutine Sampler contract holds.
type Registry struct {
	cache   cache.Cache
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	streams map[id.UserID]chan models.Position
}

func NewRegistry(c cache.Cache, window time.Duration, logger *slog.Logger, m *metrics.Metrics) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		cache:   c,
		window:  window,
		logger:  logger,
		metrics: m,
		clock:   time.Now,
		ctx:     ctx,
		cancel:  cancel,
		streams: make(map[id.UserID]chan models.Position),
	}
}

// WithClock overrides the throttle clock for samplers started after the call.
// Test hook.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.clock = now
	return r
}

// Offer queues positions onto the user's stream, starting a sampler on first
// use. It never blocks: positions that do not fit the stream buffer are
// dropped. Returns the number queued; acceptance past the throttle happens
// asynchronously.
func (r *Registry) Offer(userID id.UserID, positions ...models.Position) int {
	r.mu.Lock()
	stream, ok := r.streams[userID]
	if !ok {
		stream = make(chan models.Position, streamBuffer)
		r.streams[userID] = stream
		s := New(r.cache, r.window, r.logger, r.metrics).WithClock(r.clock)
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			s.Run(r.ctx, userID, stream)
		}()
	}
	r.mu.Unlock()

	queued := 0
	for _, pos := range positions {
		select {
		case stream <- pos:
			queued++
		default:
		}
	}
	return queued
}

// Close stops every stream and waits for the samplers to finish.
func (r *Registry) Close() {
	r.cancel()
	r.wg.Wait()
}
