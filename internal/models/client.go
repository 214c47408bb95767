package models

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeTimeout bounds every outbound write so one unresponsive peer cannot
// stall a broadcast loop.
const writeTimeout = 5 * time.Second

// Client wraps a single websocket connection. Sends are best-effort: once the
// connection is closed (by us or by a failed write), Send becomes a no-op so
// that broadcasting to a half-closed peer never faults the sender's loop.
type Client struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	hook   func(interface{})
}

func NewClient(conn *websocket.Conn) *Client { return &Client{conn: conn} }

// SetSendHook replaces the websocket writer (used in tests to capture sends).
func (c *Client) SetSendHook(fn func(interface{})) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Send writes v as JSON. A write error marks the client closed; the connection
// teardown itself is left to the read loop, which will observe the failure.
func (c *Client) Send(v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(v)
		return
	}
	if c.closed || c.conn == nil {
		return
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(v); err != nil {
		c.closed = true
	}
}

// Close marks the client closed and closes the underlying connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Reject sends a close frame with the given code and reason, then closes.
// Used to refuse a connection before it ever joins a room.
func (c *Client) Reject(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
	_ = c.conn.Close()
}
