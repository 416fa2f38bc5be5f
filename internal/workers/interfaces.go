// Package workers runs the application's periodic background jobs.
//
// A [Worker] blocks in Run until its context ends. [Workers] runs a set of
// them together and stops them all when the first one fails.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is done. Returning nil on cancellation is expected,
// a non-nil error stops the sibling workers.
type Worker interface {
	Run(ctx context.Context) error
}

// TokenCleaner purges expired refresh tokens.
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusSetter publishes the probe result, e.g. as gRPC health status.
type StatusSetter interface {
	SetServing(serving bool)
}
