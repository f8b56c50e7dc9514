package session

import (
	"context"
	"time"

	"conversor/internal/logger"
	"conversor/ports"
)

// StartPurger runs store.Purge every interval until ctx is done. The
// returned channel is closed once the goroutine exits.
func StartPurger(ctx context.Context, store ports.ResultStore, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := store.Purge(ctx, now)
				if err != nil {
					logger.Warnf("[ResultStore] Purge failed: %v", err)
					continue
				}
				if n > 0 {
					logger.Infof("[ResultStore] Purged %d expired results", n)
				}
			}
		}
	}()
	return done
}
