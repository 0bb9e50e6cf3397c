package network

import (
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrSendBufferFull = errors.New("connection send buffer full")

// Connection abstracts a bidirectional client channel. Send must never block
// the caller: room mutations fan out through it and may not stall on a slow
// socket.
type Connection interface {
	Send(env *Envelope) error
	ReadEnvelope() (*Envelope, error)
	Close() error
	RemoteAddr() net.Addr
}

// WSConnection wraps a gorilla websocket with a buffered write pump and
// server-driven ping/pong heartbeat. A connection that misses two heartbeat
// intervals fails its next read, which is the caller's disconnect signal.
type WSConnection struct {
	conn      *websocket.Conn
	send      chan *Envelope
	done      chan struct{}
	closeOnce sync.Once
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn, heartbeat time.Duration) *WSConnection {
	c := &WSConnection{
		conn:      conn,
		send:      make(chan *Envelope, 64),
		done:      make(chan struct{}),
		heartbeat: heartbeat,
	}

	conn.SetReadDeadline(time.Now().Add(2 * heartbeat))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(2 * heartbeat))
		return nil
	})

	go c.writePump()
	return c
}

// Send enqueues an envelope for delivery. A full buffer means the client has
// stopped draining; the connection is closed so the disconnect path runs.
func (c *WSConnection) Send(env *Envelope) error {
	select {
	case <-c.done:
		return net.ErrClosed
	default:
	}

	select {
	case c.send <- env:
		return nil
	default:
		c.Close()
		return ErrSendBufferFull
	}
}

func (c *WSConnection) ReadEnvelope() (*Envelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *WSConnection) writePump() {
	ticker := time.NewTicker(c.heartbeat)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(env); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *WSConnection) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
