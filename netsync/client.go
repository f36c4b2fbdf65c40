package netsync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/NiaAranea/HardLight"
	"github.com/gorilla/websocket"
)

// Client is a websocket connection to a Relay. It receives replicated events
// and sends messages to entities on the server.
type Client struct {
	conn   *websocket.Conn
	events chan Envelope

	mu     sync.Mutex
	closed bool
}

// Dial connects to the relay at url, e.g. ws://host:8095/ws.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	c := &Client{
		conn:   conn,
		events: make(chan Envelope, clientChSize),
	}
	go c.readLoop()
	return c, nil
}

// Events returns the replicated events. The channel is closed when the
// connection ends. It must be drained or reading stalls.
func (c *Client) Events() <-chan Envelope {
	return c.events
}

// SendMessage sends msg to the target entity, named by hardlight.NetworkName.
func (c *Client) SendMessage(target hardlight.EntityUID, msg any) error {
	data, err := encode(hardlight.NetworkName(msg), 0, target, msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("connection closed")
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("websocket write failed: %w", err)
	}
	return nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		c.events <- env
	}
}
