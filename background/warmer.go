// Package background runs the periodic jobs that keep the explore cache
// warm so the first anonymous visitor after a TTL expiry does not pay the
// ranking query.
package background

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/user/linkup-go/explore"
	"github.com/user/linkup-go/webutil"
)

// Warmer refreshes the first explore page ahead of cache expiry.
type Warmer struct {
	explore  *explore.Service
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
	done     chan struct{}
}

// NewWarmer creates the explore cache warmer. interval should be shorter
// than the cache TTL so the entry is rebuilt before it expires.
func NewWarmer(exploreService *explore.Service, interval time.Duration, logger *zap.Logger) *Warmer {
	return &Warmer{
		explore:  exploreService,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the warm loop in its own goroutine.
func (w *Warmer) Start() {
	go w.run()
}

// Stop signals the loop to exit and waits for it to finish.
func (w *Warmer) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Warmer) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm()
	for {
		select {
		case <-ticker.C:
			w.warm()
		case <-w.stop:
			return
		}
	}
}

func (w *Warmer) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p := webutil.PageParams{Page: 1, Limit: 10}
	if _, err := w.explore.Posts(ctx, 0, p); err != nil {
		w.logger.Warn("explore posts warm failed", zap.Error(err))
	}
	if _, err := w.explore.Users(ctx, p); err != nil {
		w.logger.Warn("explore users warm failed", zap.Error(err))
	}
}
