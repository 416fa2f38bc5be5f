package workers

import (
	"context"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the token cleanup worker and the store health probe.
// A nil setter keeps the probe log-only.
func NewWorkers(cleaner TokenCleaner, pinger Pinger, setter StatusSetter, cfg config.Workers, logger *logger.Logger) *Workers {
	return &Workers{workers: []Worker{
		newTokenCleanupWorker(cleaner, cfg.TokenCleanupInterval, logger),
		newHealthProbeWorker(pinger, setter, cfg.HealthCheckInterval, logger),
	}}
}

// Run starts every worker and blocks until all of them return.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}
	return g.Wait()
}
