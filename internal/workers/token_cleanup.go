package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
)

type tokenCleanupWorker struct {
	cleaner  TokenCleaner
	interval time.Duration
	logger   *logger.Logger
}

func newTokenCleanupWorker(cleaner TokenCleaner, interval time.Duration, logger *logger.Logger) *tokenCleanupWorker {
	return &tokenCleanupWorker{cleaner: cleaner, interval: interval, logger: logger}
}

// Run purges expired refresh tokens every interval. Cleanup failures are
// logged and retried on the next tick.
func (w *tokenCleanupWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.cleanup(ctx)
		}
	}
}

func (w *tokenCleanupWorker) cleanup(ctx context.Context) {
	removed, err := w.cleaner.CleanupExpiredTokens(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Err(err).Str("func", "*tokenCleanupWorker.cleanup").Msg("expired token cleanup failed")
		}
		return
	}
	if removed > 0 {
		w.logger.Info().Int64("removed", removed).Msg("expired refresh tokens removed")
	}
}
