// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalcast/signalcast/internal/models"
)

// recordingListener captures simulation lifecycle callbacks.
type recordingListener struct {
	mu      sync.Mutex
	started []string
	stopped []string
	configs map[string]models.SimulationConfig
}

func newRecordingListener() *recordingListener {
	return &recordingListener{configs: map[string]models.SimulationConfig{}}
}

func (l *recordingListener) SimulationStarted(clientID string, cfg models.SimulationConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = append(l.started, clientID)
	l.configs[clientID] = cfg
}

func (l *recordingListener) SimulationStopped(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = append(l.stopped, clientID)
}

func (l *recordingListener) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.started), len(l.stopped)
}

// testHub spins up a hub with an httptest websocket endpoint.
func testHub(t *testing.T, listener SimulationListener) (*Hub, string, context.CancelFunc) {
	t.Helper()
	h := NewHub(DefaultOptions(), listener)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = h.RunWithContext(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return h, url, cancel
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) models.StreamMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestConnectSendsWelcome(t *testing.T) {
	h, url, cancel := testHub(t, nil)
	defer cancel()

	conn := dial(t, url)
	msg := readMessage(t, conn)

	assert.Equal(t, models.MessageTypeSystem, msg.Type)
	data, ok := msg.Data.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(data, "connected as "))
	assert.True(t, models.IsCanonicalTimestamp(msg.Timestamp))

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestPingPong(t *testing.T) {
	_, url, cancel := testHub(t, nil)
	defer cancel()

	conn := dial(t, url)
	readMessage(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(models.Command{Type: models.CommandPing}))
	msg := readMessage(t, conn)
	assert.Equal(t, models.MessageTypeSystem, msg.Type)
	assert.Equal(t, "pong", msg.Data)
}

func TestMalformedCommandGetsError(t *testing.T) {
	_, url, cancel := testHub(t, nil)
	defer cancel()

	conn := dial(t, url)
	readMessage(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json at all")))
	msg := readMessage(t, conn)
	assert.Equal(t, models.MessageTypeError, msg.Type)
	assert.Equal(t, "malformed command", msg.Data)
}

func TestUnknownCommandIgnored(t *testing.T) {
	_, url, cancel := testHub(t, nil)
	defer cancel()

	conn := dial(t, url)
	readMessage(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(models.Command{Type: "self_destruct"}))
	// The connection stays healthy: a subsequent ping still answers.
	require.NoError(t, conn.WriteJSON(models.Command{Type: models.CommandPing}))
	msg := readMessage(t, conn)
	assert.Equal(t, "pong", msg.Data)
}

func TestStartAndStopSimulation(t *testing.T) {
	listener := newRecordingListener()
	h, url, cancel := testHub(t, listener)
	defer cancel()

	conn := dial(t, url)
	readMessage(t, conn) // welcome

	cfg := models.SimulationConfig{
		SelectedSources:  []string{"website"},
		SelectedChannels: []string{"Email", "SMS"},
		Interval:         3000,
		Duration:         60000,
	}
	require.NoError(t, conn.WriteJSON(models.Command{Type: models.CommandStartSimulation, Config: &cfg}))

	msg := readMessage(t, conn)
	assert.Equal(t, "simulation started", msg.Data)

	require.Eventually(t, func() bool { return h.SimulatingCount() == 1 }, time.Second, 10*time.Millisecond)

	conns := h.Connections()
	require.Len(t, conns, 1)
	assert.True(t, conns[0].Simulating)
	require.NotNil(t, conns[0].SimConfig)
	assert.Equal(t, []string{"website"}, conns[0].SimConfig.SelectedSources)

	got, ok := h.SimConfig(conns[0].ID)
	require.True(t, ok)
	assert.Equal(t, int64(3000), got.Interval)

	require.NoError(t, conn.WriteJSON(models.Command{Type: models.CommandStopSimulation}))
	msg = readMessage(t, conn)
	assert.Equal(t, "simulation stopped", msg.Data)

	require.Eventually(t, func() bool {
		started, stopped := listener.counts()
		return started == 1 && stopped == 1
	}, time.Second, 10*time.Millisecond)
	assert.Zero(t, h.SimulatingCount())
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	listener := newRecordingListener()
	h, url, cancel := testHub(t, listener)
	defer cancel()

	conn := dial(t, url)
	readMessage(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(models.Command{Type: models.CommandStopSimulation}))
	require.NoError(t, conn.WriteJSON(models.Command{Type: models.CommandPing}))
	msg := readMessage(t, conn)
	assert.Equal(t, "pong", msg.Data)

	_, stopped := listener.counts()
	assert.Zero(t, stopped)
	assert.Zero(t, h.SimulatingCount())
}

func TestSendToClient(t *testing.T) {
	h, url, cancel := testHub(t, nil)
	defer cancel()

	conn := dial(t, url)
	welcome := readMessage(t, conn)
	clientID := strings.TrimPrefix(welcome.Data.(string), "connected as ")

	ok := h.Send(clientID, models.NewStreamMessage(models.MessageTypeSystem, "direct"))
	assert.True(t, ok)
	msg := readMessage(t, conn)
	assert.Equal(t, "direct", msg.Data)

	assert.False(t, h.Send("ghost-client", models.NewStreamMessage(models.MessageTypeSystem, "x")))
}

func TestBroadcastToSimulatingOnly(t *testing.T) {
	h, url, cancel := testHub(t, nil)
	defer cancel()

	simConn := dial(t, url)
	readMessage(t, simConn) // welcome
	idleConn := dial(t, url)
	readMessage(t, idleConn) // welcome

	require.NoError(t, simConn.WriteJSON(models.Command{
		Type:   models.CommandStartSimulation,
		Config: &models.SimulationConfig{SelectedSources: []string{"website"}, SelectedChannels: []string{"Email"}},
	}))
	readMessage(t, simConn) // simulation started
	require.Eventually(t, func() bool { return h.SimulatingCount() == 1 }, time.Second, 10*time.Millisecond)

	sent := h.BroadcastToSimulating(models.NewStreamMessage(models.MessageTypeSystem, "tick"))
	assert.Equal(t, 1, sent)

	msg := readMessage(t, simConn)
	assert.Equal(t, "tick", msg.Data)
}

func TestShutdownClosesClients(t *testing.T) {
	h, url, cancel := testHub(t, nil)

	conn := dial(t, url)
	readMessage(t, conn) // welcome
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	// The client sees a close (or read error) rather than hanging.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg models.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
	}
}

func TestStopSimulationByID(t *testing.T) {
	h, url, cancel := testHub(t, nil)
	defer cancel()

	conn := dial(t, url)
	welcome := readMessage(t, conn)
	clientID := strings.TrimPrefix(welcome.Data.(string), "connected as ")

	require.NoError(t, conn.WriteJSON(models.Command{
		Type:   models.CommandStartSimulation,
		Config: &models.SimulationConfig{SelectedSources: []string{"website"}, SelectedChannels: []string{"Email"}},
	}))
	readMessage(t, conn) // simulation started
	require.Eventually(t, func() bool { return h.SimulatingCount() == 1 }, time.Second, 10*time.Millisecond)

	h.StopSimulationByID(clientID)
	assert.Zero(t, h.SimulatingCount())

	msg := readMessage(t, conn)
	assert.Equal(t, "simulation complete", msg.Data)
}
