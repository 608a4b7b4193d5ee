// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package hub

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/signalcast/signalcast/internal/logging"
	"github.com/signalcast/signalcast/internal/metrics"
	"github.com/signalcast/signalcast/internal/models"
)

// SimulationListener receives simulation lifecycle callbacks. The streaming
// layer implements it to schedule and cancel per-client delivery.
type SimulationListener interface {
	SimulationStarted(clientID string, cfg models.SimulationConfig)
	SimulationStopped(clientID string)
}

// Options are the hub's timing knobs.
type Options struct {
	HeartbeatInterval time.Duration
	IdleTimeout       time.Duration
}

// DefaultOptions returns the production defaults: heartbeat every 10s,
// disconnect after 30s without client activity.
func DefaultOptions() Options {
	return Options{
		HeartbeatInterval: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}

// ConnectionState is the hub's record for one connected client.
type ConnectionState struct {
	ID           string                   `json:"id"`
	ConnectedAt  string                   `json:"connectedAt"`
	LastActivity string                   `json:"lastActivity"`
	Simulating   bool                     `json:"simulating"`
	SimConfig    *models.SimulationConfig `json:"simConfig,omitempty"`
}

// clientState is the mutable internal form of ConnectionState.
type clientState struct {
	connectedAt  time.Time
	lastActivity time.Time
	simulating   bool
	simConfig    models.SimulationConfig
}

// Hub maintains the set of active clients and routes messages to them.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	broadcast chan models.StreamMessage

	mu      sync.RWMutex
	clients map[*Client]*clientState
	byID    map[string]*Client

	listener SimulationListener
	opts     Options
	now      func() time.Time

	upgrader websocket.Upgrader
}

// NewHub creates a hub. The listener may be nil when no streaming layer is
// attached (tests).
func NewHub(opts Options, listener SimulationListener) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan models.StreamMessage, 256),
		clients:    make(map[*Client]*clientState),
		byID:       make(map[string]*Client),
		listener:   listener,
		opts:       opts,
		now:        time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetListener attaches the simulation listener after construction. The hub
// and streamer reference each other, so one side has to be wired late.
func (h *Hub) SetListener(listener SimulationListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listener = listener
}

// ServeWS upgrades an HTTP request and registers the resulting client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade failed")
		metrics.WSErrors.WithLabelValues("upgrade_failed").Inc()
		return
	}
	client := NewClient(h, conn)
	h.Register <- client
	client.Start()
}

// RunWithContext runs the hub loop until ctx is canceled. Designed for suture
// supervision: on cancellation every client is closed and ctx.Err() returned.
//
// Selection is priority based: shutdown first, then client lifecycle, then
// broadcasts and timers. This keeps client state consistent before any
// message is fanned out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	heartbeat := time.NewTicker(h.opts.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		// Priority 1: shutdown.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: client lifecycle.
		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		// Priority 3: broadcasts and timers.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case message := <-h.broadcast:
			h.fanOut(message, false)
		case <-heartbeat.C:
			h.fanOut(models.NewStreamMessage(models.MessageTypeSystem, "heartbeat"), false)
			h.sweepIdle()
		}
	}
}

func (h *Hub) register(client *Client) {
	now := h.now()
	h.mu.Lock()
	h.clients[client] = &clientState{connectedAt: now, lastActivity: now}
	h.byID[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Str("client_id", client.id).Int("total_clients", total).Msg("websocket client connected")

	h.trySend(client, models.NewStreamMessage(models.MessageTypeSystem, "connected as "+client.id))
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	st, ok := h.clients[client]
	var wasSimulating bool
	if ok {
		wasSimulating = st.simulating
		delete(h.clients, client)
		delete(h.byID, client.id)
		close(client.send)
	}
	total := len(h.clients)
	listener := h.listener
	h.mu.Unlock()

	if !ok {
		return
	}
	metrics.WSConnections.Set(float64(total))
	logging.Info().Str("client_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")

	if wasSimulating && listener != nil {
		listener.SimulationStopped(client.id)
	}
}

// handleInbound parses and dispatches one raw client frame.
func (h *Hub) handleInbound(c *Client, raw []byte) {
	h.touch(c)

	var cmd models.Command
	if err := json.Unmarshal(raw, &cmd); err != nil || cmd.Type == "" {
		logging.Warn().Str("client_id", c.id).Msg("malformed command received")
		metrics.WSErrors.WithLabelValues("malformed_command").Inc()
		h.trySend(c, models.NewStreamMessage(models.MessageTypeError, "malformed command"))
		return
	}

	switch cmd.Type {
	case models.CommandPing:
		metrics.WSMessagesReceived.WithLabelValues(models.CommandPing).Inc()
		h.trySend(c, models.NewStreamMessage(models.MessageTypeSystem, "pong"))

	case models.CommandStartSimulation:
		metrics.WSMessagesReceived.WithLabelValues(models.CommandStartSimulation).Inc()
		cfg := models.SimulationConfig{}
		if cmd.Config != nil {
			cfg = *cmd.Config
		}
		h.startSimulation(c, cfg)

	case models.CommandStopSimulation:
		metrics.WSMessagesReceived.WithLabelValues(models.CommandStopSimulation).Inc()
		h.stopSimulation(c)

	default:
		metrics.WSMessagesReceived.WithLabelValues("unknown").Inc()
		logging.Warn().Str("client_id", c.id).Str("command", cmd.Type).Msg("unknown command ignored")
	}
}

// startSimulation records the client's config and notifies the listener.
// Starting while already simulating restarts with the new config.
func (h *Hub) startSimulation(c *Client, cfg models.SimulationConfig) {
	h.mu.Lock()
	st, ok := h.clients[c]
	var wasSimulating bool
	if ok {
		wasSimulating = st.simulating
		st.simulating = true
		st.simConfig = cfg
	}
	listener := h.listener
	simulating := h.simulatingCountLocked()
	h.mu.Unlock()

	if !ok {
		return
	}
	metrics.StreamActiveClients.Set(float64(simulating))
	logging.Info().Str("client_id", c.id).Interface("config", cfg).Msg("simulation started")

	if listener != nil {
		if wasSimulating {
			listener.SimulationStopped(c.id)
		}
		listener.SimulationStarted(c.id, cfg)
	}
	h.trySend(c, models.NewStreamMessage(models.MessageTypeSystem, "simulation started"))
}

func (h *Hub) stopSimulation(c *Client) {
	h.mu.Lock()
	st, ok := h.clients[c]
	var wasSimulating bool
	if ok {
		wasSimulating = st.simulating
		st.simulating = false
	}
	listener := h.listener
	simulating := h.simulatingCountLocked()
	h.mu.Unlock()

	if !ok || !wasSimulating {
		return
	}
	metrics.StreamActiveClients.Set(float64(simulating))
	logging.Info().Str("client_id", c.id).Msg("simulation stopped")

	if listener != nil {
		listener.SimulationStopped(c.id)
	}
	h.trySend(c, models.NewStreamMessage(models.MessageTypeSystem, "simulation stopped"))
}

// StopSimulationByID stops a simulation from outside the hub loop, used by
// the streamer when a per-client budget runs out.
func (h *Hub) StopSimulationByID(clientID string) {
	h.mu.Lock()
	c, ok := h.byID[clientID]
	if ok {
		if st := h.clients[c]; st != nil {
			st.simulating = false
		}
	}
	simulating := h.simulatingCountLocked()
	h.mu.Unlock()

	if ok {
		metrics.StreamActiveClients.Set(float64(simulating))
		h.trySend(c, models.NewStreamMessage(models.MessageTypeSystem, "simulation complete"))
	}
}

// touch refreshes a client's activity clock.
func (h *Hub) touch(c *Client) {
	h.mu.Lock()
	if st, ok := h.clients[c]; ok {
		st.lastActivity = h.now()
	}
	h.mu.Unlock()
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(message models.StreamMessage) {
	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", message.Type).Msg("broadcast channel full, dropping message")
		metrics.StreamMessagesDropped.Inc()
	}
}

// BroadcastToSimulating sends a message to simulating clients only, bypassing
// the hub loop. Used by the global stream tick.
func (h *Hub) BroadcastToSimulating(message models.StreamMessage) int {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c, st := range h.clients {
		if st.simulating {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })
	sent := 0
	for _, c := range targets {
		if h.trySend(c, message) {
			sent++
		}
	}
	return sent
}

// Send delivers a message to one client. Returns false when the client is
// unknown or its queue is full; a failed send is the streamer's cue to stop
// that client's simulation.
func (h *Hub) Send(clientID string, message models.StreamMessage) bool {
	h.mu.RLock()
	c, ok := h.byID[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return h.trySend(c, message)
}

func (h *Hub) trySend(c *Client, message models.StreamMessage) bool {
	select {
	case c.send <- message:
		return true
	default:
		metrics.StreamMessagesDropped.Inc()
		return false
	}
}

// fanOut sends a message to all clients in ID order, dropping dead ones.
func (h *Hub) fanOut(message models.StreamMessage, simulatingOnly bool) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c, st := range h.clients {
		if simulatingOnly && !st.simulating {
			continue
		}
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })
	for _, c := range targets {
		h.trySend(c, message)
	}
}

// sweepIdle closes clients whose last activity is older than the idle
// timeout. Protocol pongs count as activity, so only truly dead or silent
// connections are swept.
func (h *Hub) sweepIdle() {
	cutoff := h.now().Add(-h.opts.IdleTimeout)

	h.mu.RLock()
	var idle []*Client
	for c, st := range h.clients {
		if st.lastActivity.Before(cutoff) {
			idle = append(idle, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range idle {
		logging.Info().Str("client_id", c.id).Msg("closing idle websocket connection")
		metrics.WSIdleDisconnects.Inc()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "idle timeout"),
			h.now().Add(writeWait))
		_ = c.conn.Close()
	}
}

// shutdown closes every client with a normal closure and logs the outcome.
func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	for _, c := range clients {
		delete(h.clients, c)
		delete(h.byID, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", shutdownReason(ctx)).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

func shutdownReason(ctx context.Context) string {
	if ctx.Err() == context.DeadlineExceeded {
		return "context_deadline"
	}
	return "context_canceled"
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SimulatingCount returns the number of clients with an active simulation.
func (h *Hub) SimulatingCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.simulatingCountLocked()
}

func (h *Hub) simulatingCountLocked() int {
	n := 0
	for _, st := range h.clients {
		if st.simulating {
			n++
		}
	}
	return n
}

// SimConfig returns the simulation config for a client, if it is simulating.
func (h *Hub) SimConfig(clientID string) (models.SimulationConfig, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.byID[clientID]
	if !ok {
		return models.SimulationConfig{}, false
	}
	st := h.clients[c]
	if st == nil || !st.simulating {
		return models.SimulationConfig{}, false
	}
	return st.simConfig, true
}

// Connections returns a snapshot of every connection's state, ordered by id.
func (h *Hub) Connections() []ConnectionState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]ConnectionState, 0, len(h.clients))
	for c, st := range h.clients {
		state := ConnectionState{
			ID:           c.id,
			ConnectedAt:  models.FormatTimestamp(st.connectedAt),
			LastActivity: models.FormatTimestamp(st.lastActivity),
			Simulating:   st.simulating,
		}
		if st.simulating {
			cfg := st.simConfig
			state.SimConfig = &cfg
		}
		out = append(out, state)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
