// internal/bridge/runner.go
package bridge

import (
	"context"
	"time"
)

// Run ticks immediately, then every Interval, until ctx is cancelled.
// One goroutine. No overlap: ticks missed during a slow cycle are dropped.
// A bad cycle never stops the loop.
func (l *Loop) Run(ctx context.Context) {
	l.log.WithField("interval", l.cfg.Interval.String()).Info("bridge loop started")
	defer l.log.Info("bridge loop stopped")

	if ctx.Err() != nil {
		return
	}
	l.Tick(ctx)

	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// stop request wins over a tick that became ready at the same time
			if ctx.Err() != nil {
				return
			}
			l.Tick(ctx)
		}
	}
}
