package netsync

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NiaAranea/HardLight"
	"github.com/NiaAranea/HardLight/shuttle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct {
	N int `json:"n"`
}

type world struct {
	m       *hardlight.Manager
	relay   *Relay
	url     string
	grid    hardlight.EntityUID
	console hardlight.EntityUID
}

func newWorld(t *testing.T) *world {
	t.Helper()
	registry := NewRegistry()
	registry.RegisterAll(shuttle.Messages())
	relay := NewRelay(nil, registry)

	m := hardlight.NewBuilder().
		Network(relay).
		Bundle(relay.Bundle()).
		Bundle(shuttle.NewBundle().Build()).
		Init()

	mapUID, _ := m.CreateMap()
	grid := m.CreateGrid(mapUID, mgl64.Vec2{}, &shuttle.Shuttle{Dampening: shuttle.Dampen})
	console, err := m.Spawn("", hardlight.Coordinates{Entity: grid}, &shuttle.ShuttleConsole{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(relay)
	go relay.Run(ctx)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return &world{
		m:       m,
		relay:   relay,
		url:     "ws" + strings.TrimPrefix(srv.URL, "http"),
		grid:    grid,
		console: console.UID(),
	}
}

func dial(t *testing.T, w *world) *Client {
	t.Helper()
	c, err := Dial(context.Background(), w.url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.Eventually(t, func() bool { return w.relay.Clients() > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func next(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case env, ok := <-c.Events():
		require.True(t, ok, "connection closed")
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return Envelope{}
	}
}

func TestNetworkEventsReachClients(t *testing.T) {
	w := newWorld(t)
	c := dial(t, w)

	w.m.Tick(33 * time.Millisecond)
	w.m.RaiseNetworkEvent(pingEvent{N: 3})

	env := next(t, c)
	assert.Equal(t, "pingEvent", env.Type)
	assert.Equal(t, uint64(1), env.Tick)

	var got pingEvent
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, 3, got.N)
}

func TestClientMessagesRaisedAtTarget(t *testing.T) {
	w := newWorld(t)
	c := dial(t, w)

	req := &shuttle.SetInertiaDampeningRequest{ShuttleEntityUID: w.grid, Mode: shuttle.Anchor}
	require.NoError(t, c.SendMessage(w.console, req))

	sh := hardlight.Get[shuttle.Shuttle](w.m.Entity(w.grid))
	require.Eventually(t, func() bool {
		w.m.Tick(33 * time.Millisecond)
		return sh.Dampening == shuttle.Anchor
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnknownClientMessagesIgnored(t *testing.T) {
	w := newWorld(t)
	c := dial(t, w)

	require.NoError(t, c.SendMessage(w.console, pingEvent{N: 1}))
	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection survives both and still receives events.
	w.m.RaiseNetworkEvent(pingEvent{N: 2})
	env := next(t, c)
	assert.Equal(t, "pingEvent", env.Type)
}

func TestRegistryDecode(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll(shuttle.Messages())

	msg, err := r.Decode(Envelope{
		Type:    "SetServiceFlagsRequest",
		Payload: json.RawMessage(`{"shuttleEntityUid":5,"serviceFlags":2}`),
	})
	require.NoError(t, err)
	assert.Equal(t, &shuttle.SetServiceFlagsRequest{ShuttleEntityUID: 5, ServiceFlags: shuttle.Trade}, msg)

	_, err = r.Decode(Envelope{Type: "Nope"})
	assert.ErrorContains(t, err, "unknown message type")

	_, err = r.Decode(Envelope{Type: "SetServiceFlagsRequest", Payload: json.RawMessage(`[]`)})
	assert.Error(t, err)
}

func TestRunDisconnectsOnShutdown(t *testing.T) {
	relay := NewRelay(nil, nil)
	srv := httptest.NewServer(relay)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	c, err := Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer c.Close()
	require.Eventually(t, func() bool { return relay.Clients() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	select {
	case _, ok := <-c.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("client not disconnected")
	}
	assert.Equal(t, 0, relay.Clients())
}
