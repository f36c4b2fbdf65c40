package netsync

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NiaAranea/HardLight"
	"github.com/gorilla/websocket"
)

const (
	publishChSize = 1024
	clientChSize  = 256
	writeWait     = 10 * time.Second
	readLimit     = 64 << 10
)

// Relay is the websocket endpoint clients observe the world through.
//
// Network events published by the manager are encoded once and fanned out to
// every connected client. Messages clients send are decoded with the
// registry and raised on the tick goroutine: at the envelope target when it is
// set, as a broadcast otherwise.
type Relay struct {
	log      *slog.Logger
	registry *Registry
	upgrader websocket.Upgrader

	manager atomic.Pointer[hardlight.Manager]
	publish chan hardlight.NetworkMessage

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// NewRelay returns a relay decoding client messages with registry. A nil
// registry accepts no client messages.
func NewRelay(log *slog.Logger, registry *Registry) *Relay {
	if log == nil {
		log = slog.Default()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	return &Relay{
		log:      log.With("sawmill", "netsync"),
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		publish: make(chan hardlight.NetworkMessage, publishChSize),
		clients: make(map[*client]struct{}),
	}
}

// Bundle binds the relay to the manager it is built into.
func (r *Relay) Bundle() func(*hardlight.Manager) *hardlight.Bundle {
	return hardlight.NewBundle("netsync").
		Resource(r).
		PostInit(func(m *hardlight.Manager) { r.manager.Store(m) }).
		Build()
}

// Publish queues a network event for delivery. It never blocks; when the
// queue is full the event is dropped.
func (r *Relay) Publish(msg hardlight.NetworkMessage) {
	select {
	case r.publish <- msg:
	default:
		r.log.Warn("publish queue full, dropping event", "type", msg.Name, "tick", msg.Tick)
	}
}

// Clients returns the number of connected clients.
func (r *Relay) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Run fans published events out to clients until ctx is cancelled, then
// disconnects everyone.
func (r *Relay) Run(ctx context.Context) {
	defer r.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-r.publish:
			data, err := encode(msg.Name, msg.Tick, hardlight.Invalid, msg.Payload)
			if err != nil {
				r.log.Error("dropping network event", "error", err)
				continue
			}
			r.fanOut(data)
		}
	}
}

func (r *Relay) fanOut(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		select {
		case c.send <- data:
		default:
			r.log.Warn("client too slow, disconnecting", "remote", c.conn.RemoteAddr().String())
			delete(r.clients, c)
			c.close()
		}
	}
}

func (r *Relay) shutdown() {
	r.mu.Lock()
	r.closed = true
	clients := r.clients
	r.clients = make(map[*client]struct{})
	r.mu.Unlock()

	for c := range clients {
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait),
		)
		c.close()
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Warn("upgrade failed", "remote", req.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(readLimit)

	c := &client{
		conn: conn,
		send: make(chan []byte, clientChSize),
		done: make(chan struct{}),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		c.close()
		return
	}
	r.clients[c] = struct{}{}
	r.mu.Unlock()

	r.log.Debug("client connected", "remote", req.RemoteAddr)
	go r.writeLoop(c)
	r.readLoop(c)

	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
	c.close()
	r.log.Debug("client disconnected", "remote", req.RemoteAddr)
}

func (r *Relay) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				r.log.Debug("write failed", "error", err)
				c.close()
				return
			}
		}
	}
}

func (r *Relay) readLoop(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			r.log.Debug("discarding malformed frame", "error", err)
			continue
		}
		msg, err := r.registry.Decode(env)
		if err != nil {
			r.log.Debug("discarding client message", "error", err)
			continue
		}

		m := r.manager.Load()
		if m == nil {
			r.log.Warn("relay not bound to a manager, dropping message", "type", env.Type)
			continue
		}
		target := env.Target
		m.Post(func(m *hardlight.Manager) {
			if target.Valid() {
				m.RaiseLocalEvent(target, msg)
			} else {
				m.Broadcast(msg)
			}
		})
	}
}
