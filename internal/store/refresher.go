package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"menucatalog/internal/source"
)

// Refresher reloads the catalog from a source on a fixed interval.
type Refresher struct {
	store    *MemoryStore
	src      source.Source
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

func NewRefresher(s *MemoryStore, src source.Source, interval time.Duration) (*Refresher, error) {
	if s == nil || src == nil {
		return nil, errors.New("store and source are required")
	}
	if interval <= 0 {
		return nil, errors.New("refresh interval must be positive")
	}
	return &Refresher{
		store:    s,
		src:      src,
		interval: interval,
		log:      s.log.Named("refresher"),
	}, nil
}

// Start begins the periodic refresh loop.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("refresher already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.wg.Add(1)
	r.mu.Unlock()

	go r.loop(ctx)
	return nil
}

// Stop cancels the loop and waits for an in-flight refresh to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.running = false
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// PullOnce refreshes immediately.
func (r *Refresher) PullOnce(ctx context.Context) error {
	return r.store.Refresh(ctx, r.src)
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.PullOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn("periodic refresh failed", zap.Error(err))
			}
		}
	}
}
