package bulkhead

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Well-known categories used by the delivery pipeline.
const (
	CategoryEmailDelivery    = "email-delivery"
	CategorySMSDelivery      = "sms-delivery"
	CategoryWhatsAppDelivery = "whatsapp-delivery"
	CategoryEventProcessing  = "event-processing"
)

// Defaults applied to auto-registered categories. The queue cap is the
// finite bound that backs the PoolExhausted contract: an unbounded queue
// would only convert overload into latency and memory growth.
const (
	DefaultMaxConcurrency = 10
	DefaultQueueCap       = 100
	DefaultAcquireTimeout = 5 * time.Second
)

// PoolConfig sizes one category.
type PoolConfig struct {
	MaxConcurrency int
	QueueCap       int // 0 falls back to DefaultQueueCap
}

// Bulkhead manages independent slot pools per category.
type Bulkhead struct {
	mu    sync.RWMutex
	pools map[string]*pool

	acquireTimeout time.Duration
	autoRegister   bool
}

// Option configures a Bulkhead.
type Option func(*Bulkhead)

// WithAcquireTimeout sets how long Execute waits for a slot.
func WithAcquireTimeout(d time.Duration) Option {
	return func(b *Bulkhead) {
		if d > 0 {
			b.acquireTimeout = d
		}
	}
}

// WithoutAutoRegister makes Execute fail with ErrUnknownCategory instead of
// creating default-sized pools for unknown categories.
func WithoutAutoRegister() Option {
	return func(b *Bulkhead) {
		b.autoRegister = false
	}
}

// New creates a Bulkhead.
func New(opts ...Option) *Bulkhead {
	b := &Bulkhead{
		pools:          make(map[string]*pool),
		acquireTimeout: DefaultAcquireTimeout,
		autoRegister:   true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RegisterPool sizes a category explicitly. Re-registering replaces the
// pool, so it is intended for startup configuration only.
func (b *Bulkhead) RegisterPool(category string, cfg PoolConfig) error {
	if category == "" {
		return ErrEmptyCategory
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
	if cfg.QueueCap <= 0 {
		cfg.QueueCap = DefaultQueueCap
	}

	b.mu.Lock()
	b.pools[category] = newPool(cfg.MaxConcurrency, cfg.QueueCap)
	b.mu.Unlock()
	return nil
}

// Execute runs op within the category's concurrency budget. Callers beyond
// the budget wait in FIFO order until a slot is handed over, the acquire
// timeout expires, or ctx is cancelled.
func (b *Bulkhead) Execute(ctx context.Context, category string, op func(ctx context.Context) error) error {
	if category == "" {
		return ErrEmptyCategory
	}

	p, err := b.pool(category)
	if err != nil {
		return err
	}

	w, err := p.tryAcquire()
	if err != nil {
		return fmt.Errorf("%w: %s", err, category)
	}

	if w != nil {
		timer := time.NewTimer(b.acquireTimeout)
		defer timer.Stop()

		select {
		case <-w.slot:
			// Slot handed over; ownership transferred from the releaser.
		case <-timer.C:
			p.abandon(w)
			return fmt.Errorf("%w: %s", ErrAcquireTimeout, category)
		case <-ctx.Done():
			p.abandon(w)
			return ctx.Err()
		}
	}

	defer p.release()
	return op(ctx)
}

// Utilization reports slot usage for one category.
func (b *Bulkhead) Utilization(category string) (inflight, max, queued int) {
	b.mu.RLock()
	p, ok := b.pools[category]
	b.mu.RUnlock()
	if !ok {
		return 0, 0, 0
	}
	return p.utilization()
}

// CategoryStats is a snapshot of one pool for health reporting.
type CategoryStats struct {
	InFlight       int `json:"in_flight"`
	MaxConcurrency int `json:"max_concurrency"`
	Queued         int `json:"queued"`
}

// Stats snapshots all pools.
func (b *Bulkhead) Stats() map[string]CategoryStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := make(map[string]CategoryStats, len(b.pools))
	for category, p := range b.pools {
		inflight, max, queued := p.utilization()
		stats[category] = CategoryStats{
			InFlight:       inflight,
			MaxConcurrency: max,
			Queued:         queued,
		}
	}
	return stats
}

func (b *Bulkhead) pool(category string) (*pool, error) {
	b.mu.RLock()
	p, ok := b.pools[category]
	b.mu.RUnlock()
	if ok {
		return p, nil
	}

	if !b.autoRegister {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pools[category]; ok {
		return p, nil
	}
	p = newPool(DefaultMaxConcurrency, DefaultQueueCap)
	b.pools[category] = p
	return p, nil
}
