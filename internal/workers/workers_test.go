// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount atomic.Int32
	err      error
}

func (m *mockWorker) Run(ctx context.Context) error {
	m.runCount.Add(1)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return nil
}

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanupExpiredTokens(context.Context) (int64, error) {
	c.calls.Add(1)
	return 2, c.err
}

type switchPinger struct {
	down atomic.Bool
}

func (p *switchPinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

type recordingSetter struct {
	mu       sync.Mutex
	statuses []bool
}

func (r *recordingSetter) SetServing(serving bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, serving)
}

func (r *recordingSetter) last() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return false, false
	}
	return r.statuses[len(r.statuses)-1], true
}

// runAsync starts worker and returns a channel receiving its result.
func runAsync(ctx context.Context, worker Worker) <-chan error {
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	return done
}

func waitResult(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop in time")
		return nil
	}
}

// ─────────────────────────────────────────────────────────────
// Workers
// ─────────────────────────────────────────────────────────────

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &mockWorker{}, &mockWorker{}, &mockWorker{}
	ws := &Workers{workers: []Worker{w1, w2, w3}}

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, ws)

	require.Eventually(t, func() bool {
		return w1.runCount.Load() == 1 && w2.runCount.Load() == 1 && w3.runCount.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, waitResult(t, done))
}

func TestWorkers_Run_Empty(t *testing.T) {
	assert.NoError(t, (&Workers{}).Run(context.Background()))
}

func TestWorkers_Run_FailureStopsSiblings(t *testing.T) {
	boom := errors.New("boom")
	sibling := &mockWorker{}
	ws := &Workers{workers: []Worker{sibling, &mockWorker{err: boom}}}

	err := waitResult(t, runAsync(context.Background(), ws))

	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), sibling.runCount.Load())
}

func TestNewWorkers_BuildsBothWorkers(t *testing.T) {
	ws := NewWorkers(&countingCleaner{}, &switchPinger{}, nil, config.Workers{
		TokenCleanupInterval: time.Hour,
		HealthCheckInterval:  time.Hour,
	}, logger.Nop())

	require.Len(t, ws.workers, 2)
	assert.IsType(t, &tokenCleanupWorker{}, ws.workers[0])
	assert.IsType(t, &healthProbeWorker{}, ws.workers[1])
}

// ─────────────────────────────────────────────────────────────
// token cleanup
// ─────────────────────────────────────────────────────────────

func TestTokenCleanupWorker_RunsEveryInterval(t *testing.T) {
	cleaner := &countingCleaner{}
	w := newTokenCleanupWorker(cleaner, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, w)

	require.Eventually(t, func() bool { return cleaner.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, waitResult(t, done))
}

func TestTokenCleanupWorker_KeepsRunningAfterFailure(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("db down")}
	w := newTokenCleanupWorker(cleaner, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, w)

	require.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, waitResult(t, done))
}

// ─────────────────────────────────────────────────────────────
// health probe
// ─────────────────────────────────────────────────────────────

func TestHealthProbeWorker_ProbesImmediately(t *testing.T) {
	setter := &recordingSetter{}
	w := newHealthProbeWorker(&switchPinger{}, setter, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, w)

	require.Eventually(t, func() bool {
		serving, ok := setter.last()
		return ok && serving
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, waitResult(t, done))
}

func TestHealthProbeWorker_FollowsStore(t *testing.T) {
	pinger := &switchPinger{}
	setter := &recordingSetter{}
	w := newHealthProbeWorker(pinger, setter, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, w)

	require.Eventually(t, func() bool {
		serving, ok := setter.last()
		return ok && serving
	}, time.Second, 5*time.Millisecond)

	pinger.down.Store(true)
	require.Eventually(t, func() bool {
		serving, ok := setter.last()
		return ok && !serving
	}, time.Second, 5*time.Millisecond)

	pinger.down.Store(false)
	require.Eventually(t, func() bool {
		serving, _ := setter.last()
		return serving
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, waitResult(t, done))
}

func TestHealthProbeWorker_NilSetter(t *testing.T) {
	w := newHealthProbeWorker(&switchPinger{}, nil, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, w.Run(ctx))
}
