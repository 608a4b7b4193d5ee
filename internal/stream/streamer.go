// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/signalcast/signalcast/internal/hub"
	"github.com/signalcast/signalcast/internal/logging"
	"github.com/signalcast/signalcast/internal/metrics"
	"github.com/signalcast/signalcast/internal/models"
	"github.com/signalcast/signalcast/internal/schema"
)

// Generator produces one recommendation per call. Implemented by the engine;
// tests substitute a fixed generator.
type Generator interface {
	Generate(ctx context.Context, cfg models.SimulationConfig) models.CampaignRecommendation
}

// Options are the streamer's cadence knobs.
type Options struct {
	GlobalInterval  time.Duration
	DefaultInterval time.Duration
	DefaultDuration time.Duration
}

// DefaultOptions returns the production cadence: global tick every 5s,
// per-client streams default to one message every 3s for one minute.
func DefaultOptions() Options {
	return Options{
		GlobalInterval:  5 * time.Second,
		DefaultInterval: 3 * time.Second,
		DefaultDuration: 60 * time.Second,
	}
}

// Stats is the streaming snapshot served by the stream stats endpoint.
type Stats struct {
	GlobalEnabled     bool                  `json:"globalEnabled"`
	GlobalTicks       int64                 `json:"globalTicks"`
	TotalClients      int                   `json:"totalClients"`
	ActiveSimulations int                   `json:"activeSimulations"`
	ClientStreams     int                   `json:"clientStreams"`
	MessagesSent      int64                 `json:"messagesSent"`
	Connections       []hub.ConnectionState `json:"connections"`
}

// GlobalConfig reshapes the global broadcast stream at runtime. Zero values
// leave the corresponding setting unchanged.
type GlobalConfig struct {
	Interval  time.Duration
	BatchSize int
	Sources   []string
	Channels  []string
}

// Streamer drives recommendation delivery: a global broadcast tick for all
// simulating clients plus one dedicated stream per client-initiated
// simulation. It implements hub.SimulationListener.
type Streamer struct {
	hub       *hub.Hub
	generator Generator
	validator *schema.Validator
	sched     *Scheduler
	opts      Options

	mu         sync.Mutex
	tasks      map[string]*Task
	runCtx     context.Context
	running    bool
	globalCfg  models.SimulationConfig
	globalSize int

	intervalCh chan time.Duration

	globalEnabled atomic.Bool
	globalTicks   atomic.Int64
	messagesSent  atomic.Int64
}

// NewStreamer creates a streamer. The global stream starts enabled.
func NewStreamer(h *hub.Hub, generator Generator, validator *schema.Validator, opts Options) *Streamer {
	s := &Streamer{
		hub:        h,
		generator:  generator,
		validator:  validator,
		sched:      NewScheduler(),
		opts:       opts,
		tasks:      make(map[string]*Task),
		globalSize: 1,
		intervalCh: make(chan time.Duration, 1),
	}
	s.globalEnabled.Store(true)
	return s
}

// String identifies the streamer to the supervisor.
func (s *Streamer) String() string {
	return "stream-streamer"
}

// Serve runs the global stream loop until ctx is canceled. Per-client tasks
// are scheduled under the same context, so cancellation tears down
// everything. Implements suture.Service.
func (s *Streamer) Serve(ctx context.Context) error {
	s.mu.Lock()
	s.runCtx = ctx
	s.running = true
	s.mu.Unlock()

	interval := s.opts.GlobalInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info().Dur("interval", interval).Msg("global recommendation stream started")

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			for id, task := range s.tasks {
				task.Cancel()
				delete(s.tasks, id)
			}
			s.mu.Unlock()
			s.sched.Wait()
			logging.Info().Str("component", "streamer").Msg("recommendation streamer stopped")
			return ctx.Err()
		case d := <-s.intervalCh:
			interval = d
			ticker.Reset(interval)
			logging.Info().Dur("interval", interval).Msg("global stream interval changed")
		case <-ticker.C:
			s.globalTick(ctx, interval)
		}
	}
}

// globalTick broadcasts one batch of recommendations to all simulating
// clients. With nobody simulating the tick is a no-op.
func (s *Streamer) globalTick(ctx context.Context, interval time.Duration) {
	metrics.StreamTicks.WithLabelValues("global").Inc()
	s.globalTicks.Add(1)

	if !s.globalEnabled.Load() {
		return
	}
	if s.hub.SimulatingCount() == 0 {
		logging.Debug().Msg("global tick skipped, no simulating clients")
		return
	}

	s.mu.Lock()
	cfg := s.globalCfg
	batch := s.globalSize
	s.mu.Unlock()

	for i := 0; i < batch; i++ {
		msg := s.buildMessage(ctx, cfg, interval)
		sent := s.hub.BroadcastToSimulating(msg)
		s.messagesSent.Add(int64(sent))
	}
}

// SimulationStarted schedules a dedicated stream for the client. Implements
// hub.SimulationListener.
func (s *Streamer) SimulationStarted(clientID string, cfg models.SimulationConfig) {
	interval := cfg.IntervalOrDefault(s.opts.DefaultInterval)
	duration := cfg.DurationOrDefault(s.opts.DefaultDuration)
	budget := int64(duration / interval)
	if budget < 1 {
		budget = 1
	}

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		logging.Warn().Str("client_id", clientID).Msg("simulation requested before streamer start")
		return
	}
	if old, ok := s.tasks[clientID]; ok {
		old.Cancel()
	}
	ctx := s.runCtx

	var remaining atomic.Int64
	remaining.Store(budget)
	task := s.sched.Schedule(ctx, interval, func(tickCtx context.Context) bool {
		return s.clientTick(tickCtx, clientID, cfg, interval, &remaining)
	})
	s.tasks[clientID] = task
	s.mu.Unlock()

	logging.Info().
		Str("client_id", clientID).
		Dur("interval", interval).
		Int64("budget", budget).
		Msg("client simulation stream scheduled")
}

// SimulationStopped cancels the client's stream. Implements
// hub.SimulationListener.
func (s *Streamer) SimulationStopped(clientID string) {
	s.mu.Lock()
	task, ok := s.tasks[clientID]
	if ok {
		delete(s.tasks, clientID)
	}
	s.mu.Unlock()

	if ok {
		task.Cancel()
		logging.Info().Str("client_id", clientID).Msg("client simulation stream canceled")
	}
}

// clientTick delivers one recommendation to a single client. Returns false
// to end the stream: budget exhausted, client gone, or send failed.
func (s *Streamer) clientTick(ctx context.Context, clientID string, cfg models.SimulationConfig, interval time.Duration, remaining *atomic.Int64) bool {
	if remaining.Load() <= 0 {
		s.finishClient(clientID, "budget exhausted")
		return false
	}

	metrics.StreamTicks.WithLabelValues("client").Inc()
	msg := s.buildMessage(ctx, cfg, interval)
	if !s.hub.Send(clientID, msg) {
		s.finishClient(clientID, "send failed")
		return false
	}
	s.messagesSent.Add(1)

	if remaining.Add(-1) <= 0 {
		s.finishClient(clientID, "budget exhausted")
		return false
	}
	return true
}

func (s *Streamer) finishClient(clientID, reason string) {
	logging.Info().Str("client_id", clientID).Str("reason", reason).Msg("client simulation stream finished")
	s.mu.Lock()
	delete(s.tasks, clientID)
	s.mu.Unlock()
	s.hub.StopSimulationByID(clientID)
}

// buildMessage generates one recommendation under a deadline derived from
// the stream interval (at least one second), validates it, and repairs it if
// the engine ever emits an invalid document.
func (s *Streamer) buildMessage(ctx context.Context, cfg models.SimulationConfig, interval time.Duration) models.StreamMessage {
	deadline := interval
	if deadline < time.Second {
		deadline = time.Second
	}
	genCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	rec := s.generator.Generate(genCtx, cfg)
	result := s.validator.Validate(rec)
	if result.Valid {
		return models.NewStreamMessage(models.MessageTypeRecommendation, rec)
	}

	logging.Warn().Int("errors", len(result.Errors)).Msg("generated recommendation failed validation, sanitizing")
	repaired, _, err := s.validator.Sanitize(rec)
	if err != nil {
		return models.NewStreamMessage(models.MessageTypeError, "recommendation generation failed")
	}
	return models.NewStreamMessage(models.MessageTypeRecommendation, repaired)
}

// GlobalStart enables the global broadcast stream, applying any non-zero
// settings from cfg, and announces the change to all connected clients.
func (s *Streamer) GlobalStart(cfg GlobalConfig) {
	s.mu.Lock()
	if len(cfg.Sources) > 0 {
		s.globalCfg.SelectedSources = cfg.Sources
	}
	if len(cfg.Channels) > 0 {
		s.globalCfg.SelectedChannels = cfg.Channels
	}
	if cfg.BatchSize > 0 {
		s.globalSize = cfg.BatchSize
	}
	s.mu.Unlock()

	if cfg.Interval > 0 {
		select {
		case s.intervalCh <- cfg.Interval:
		default:
		}
	}

	s.globalEnabled.Store(true)
	logging.Info().Msg("global stream enabled")
	s.hub.Broadcast(models.NewStreamMessage(models.MessageTypeSystem, "global stream started"))
}

// GlobalStop disables the global broadcast stream and announces the change.
// Per-client simulations are unaffected.
func (s *Streamer) GlobalStop() {
	s.globalEnabled.Store(false)
	logging.Info().Msg("global stream disabled")
	s.hub.Broadcast(models.NewStreamMessage(models.MessageTypeSystem, "global stream stopped"))
}

// GlobalEnabled reports whether the global stream is broadcasting.
func (s *Streamer) GlobalEnabled() bool {
	return s.globalEnabled.Load()
}

// Stats returns the streaming snapshot.
func (s *Streamer) Stats() Stats {
	s.mu.Lock()
	clientStreams := len(s.tasks)
	s.mu.Unlock()

	return Stats{
		GlobalEnabled:     s.globalEnabled.Load(),
		GlobalTicks:       s.globalTicks.Load(),
		TotalClients:      s.hub.ClientCount(),
		ActiveSimulations: s.hub.SimulatingCount(),
		ClientStreams:     clientStreams,
		MessagesSent:      s.messagesSent.Load(),
		Connections:       s.hub.Connections(),
	}
}
