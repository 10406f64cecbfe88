package expiration

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Sweeper runs one expiration sweep with the current cutoff
type Sweeper interface {
	Run(ctx context.Context) (int64, error)
}

// Schedule sweeps immediately and then every interval until ctx is done.
// A failed sweep is logged and retried on the next tick.
func Schedule(ctx context.Context, sweeper Sweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := RunOnce(ctx, sweeper); err != nil {
			log.Errorf("expiration sweep failed: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Info("expiration scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single sweep
func RunOnce(ctx context.Context, sweeper Sweeper) (int64, error) {
	start := time.Now()
	count, err := sweeper.Run(ctx)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"expired": count, "took": time.Since(start)}).Debug("expiration sweep")
	return count, nil
}
