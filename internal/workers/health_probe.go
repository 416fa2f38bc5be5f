package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
)

type healthProbeWorker struct {
	pinger   Pinger
	setter   StatusSetter
	interval time.Duration
	logger   *logger.Logger

	healthy *bool
}

func newHealthProbeWorker(pinger Pinger, setter StatusSetter, interval time.Duration, logger *logger.Logger) *healthProbeWorker {
	return &healthProbeWorker{pinger: pinger, setter: setter, interval: interval, logger: logger}
}

// Run pings the store right away and then every interval. Each ping is
// bounded by the interval.
func (w *healthProbeWorker) Run(ctx context.Context) error {
	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.probe(ctx)
		}
	}
}

func (w *healthProbeWorker) probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	err := w.pinger.Ping(pingCtx)
	if ctx.Err() != nil {
		return
	}
	healthy := err == nil

	if w.setter != nil {
		w.setter.SetServing(healthy)
	}

	// log transitions only
	if w.healthy != nil && *w.healthy == healthy {
		return
	}
	w.healthy = &healthy

	if healthy {
		w.logger.Info().Msg("store is reachable")
		return
	}
	w.logger.Err(err).Str("func", "*healthProbeWorker.probe").Msg("store is unreachable")
}
