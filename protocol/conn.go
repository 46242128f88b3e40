package protocol

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WriteTimeout bounds a single Send on a stream connection.
const WriteTimeout = 10 * time.Second

// Conn exchanges messages with a peer. Send may be called from several
// goroutines; Receive from one at a time.
type Conn interface {
	Send(m Message) error
	Receive() (Message, error)
	Close() error
	RemoteAddr() string
}

// StreamConn speaks the protocol over a byte stream such as TCP.
type StreamConn struct {
	conn net.Conn
	r    *bufio.Reader
	wmu  sync.Mutex
}

// NewStreamConn wraps c.
func NewStreamConn(c net.Conn) *StreamConn {
	return &StreamConn{conn: c, r: bufio.NewReader(c)}
}

// Send writes m followed by a newline.
func (c *StreamConn) Send(m Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if _, err := fmt.Fprintf(c.conn, "%s\n", m.Encode()); err != nil {
		return fmt.Errorf("failed to send %s: %w", m.Type, err)
	}
	return nil
}

// Receive blocks until a full line arrives and parses it.
func (c *StreamConn) Receive() (Message, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return Message{}, err
	}
	return Parse(line)
}

// Close closes the underlying connection.
func (c *StreamConn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the peer address.
func (c *StreamConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// WebSocketConn speaks the protocol over a websocket, one line per text
// frame.
type WebSocketConn struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

// NewWebSocketConn wraps c.
func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{conn: c}
}

// Send writes m as a text frame.
func (c *WebSocketConn) Send(m Message) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(m.Encode()+"\n")); err != nil {
		return fmt.Errorf("failed to send %s: %w", m.Type, err)
	}
	return nil
}

// Receive reads the next text frame and parses it.
func (c *WebSocketConn) Receive() (Message, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return Message{}, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return Parse(strings.TrimRight(string(data), "\r\n"))
	}
}

// Close sends a close frame and closes the connection.
func (c *WebSocketConn) Close() error {
	c.wmu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.wmu.Unlock()
	return c.conn.Close()
}

// RemoteAddr returns the peer address.
func (c *WebSocketConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
