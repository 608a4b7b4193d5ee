// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalcast/signalcast/internal/logging"
)

// countingService records how many times Serve was entered and blocks until
// canceled.
type countingService struct {
	starts   atomic.Int64
	failOnce atomic.Bool
}

func (s *countingService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	if s.failOnce.Load() {
		s.failOnce.Store(false)
		return errors.New("synthetic crash")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return "counting-service" }

// fakeHTTPServer satisfies HTTPServer without binding a port.
type fakeHTTPServer struct {
	listenErr error
	stopCh    chan struct{}
	shutdowns atomic.Int64
}

func newFakeHTTPServer(listenErr error) *fakeHTTPServer {
	return &fakeHTTPServer{listenErr: listenErr, stopCh: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stopCh
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(ctx context.Context) error {
	f.shutdowns.Add(1)
	close(f.stopCh)
	return nil
}

func TestTreeRunsAndStopsServices(t *testing.T) {
	tree := NewSupervisorTree(logging.NewSlogLogger(), DefaultTreeConfig())
	svc := &countingService{}
	tree.AddMessagingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	require.Eventually(t, func() bool { return svc.starts.Load() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestTreeRestartsCrashedService(t *testing.T) {
	cfg := DefaultTreeConfig()
	cfg.FailureBackoff = 10 * time.Millisecond
	tree := NewSupervisorTree(logging.NewSlogLogger(), cfg)

	svc := &countingService{}
	svc.failOnce.Store(true)
	tree.AddMessagingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	// First run crashes, supervisor restarts it.
	require.Eventually(t, func() bool { return svc.starts.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	server := newFakeHTTPServer(nil)
	svc := NewHTTPServerService(server, time.Second)
	assert.Equal(t, "http-server", svc.String())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
	assert.Equal(t, int64(1), server.shutdowns.Load())
}

func TestHTTPServerServiceListenFailure(t *testing.T) {
	server := newFakeHTTPServer(errors.New("bind: address already in use"))
	svc := NewHTTPServerService(server, time.Second)

	err := svc.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server failed")
}

func TestHubServiceDelegates(t *testing.T) {
	ran := make(chan struct{})
	hub := runFunc(func(ctx context.Context) error {
		close(ran)
		<-ctx.Done()
		return ctx.Err()
	})
	svc := NewHubService(hub)
	assert.Equal(t, "websocket-hub", svc.String())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("hub service did not run")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// runFunc adapts a function to the ContextHub interface.
type runFunc func(ctx context.Context) error

func (f runFunc) RunWithContext(ctx context.Context) error { return f(ctx) }
