package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gorilla/websocket"
)

const (
	clientSendBuffer = 256
	writeWait        = 10 * time.Second
)

var (
	errClientClosed   = errors.New("client closed")
	errSendBufferFull = errors.New("send buffer full")
)

// FrameWriter writes frames to one transport.
type FrameWriter interface {
	WriteFrame(frame Frame) error
}

// Client is a Sink backed by a bounded queue. A single WritePump drains the
// queue onto the transport, so Send never blocks the broadcaster.
type Client struct {
	send      chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient() *Client {
	return NewClientWithBuffer(clientSendBuffer)
}

func NewClientWithBuffer(size int) *Client {
	return &Client{
		send: make(chan Frame, size),
		done: make(chan struct{}),
	}
}

func (c *Client) Send(frame Frame) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// WritePump writes queued frames to w until ctx is done, the client is
// closed, or a write fails. A write error is returned to the caller.
func (c *Client) WritePump(ctx context.Context, w FrameWriter) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return nil
		case frame := <-c.send:
			if err := w.WriteFrame(frame); err != nil {
				return err
			}
		}
	}
}

// SSEWriter writes frames as a text/event-stream. Heartbeats are comment
// lines, which event-stream consumers ignore.
type SSEWriter struct {
	w io.Writer
}

func NewSSEWriter(w io.Writer) *SSEWriter {
	return &SSEWriter{w: w}
}

func (s *SSEWriter) WriteFrame(frame Frame) error {
	var err error
	if frame.Heartbeat {
		_, err = io.WriteString(s.w, ": keepalive\n\n")
	} else {
		err = sse.Encode(s.w, sse.Event{Data: string(frame.Data)})
	}
	if err != nil {
		return err
	}

	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// WebSocketWriter writes event frames as text messages and heartbeats as
// ping control frames.
type WebSocketWriter struct {
	conn *websocket.Conn
}

func NewWebSocketWriter(conn *websocket.Conn) *WebSocketWriter {
	return &WebSocketWriter{conn: conn}
}

func (ws *WebSocketWriter) WriteFrame(frame Frame) error {
	deadline := time.Now().Add(writeWait)
	if frame.Heartbeat {
		return ws.conn.WriteControl(websocket.PingMessage, nil, deadline)
	}
	if err := ws.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return ws.conn.WriteMessage(websocket.TextMessage, frame.Data)
}
