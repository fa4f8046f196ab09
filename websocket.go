package main

import (
	"bytes"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Largest inbound frame accepted; a long stroke is a few thousand points.
	maxMessageSize = 1 << 20
)

var (
	ErrSendQueueFull    = errors.New("send queue full")
	ErrConnectionClosed = errors.New("connection closed")
	ErrMessageTooLarge  = errors.New("message too large")
)

// ClientWebsocket is the server side of one client connection. Frames handed
// to Send are queued and written by WritePump, so a slow peer never blocks the
// caller. A peer that lets its queue overflow has missed state and is
// disconnected; its reconnect starts from a fresh init.
type ClientWebsocket struct {
	conn      net.Conn
	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	writeLock sync.Mutex
}

func NewClientWebsocket(conn net.Conn, queueSize int) *ClientWebsocket {
	return &ClientWebsocket{
		conn:   conn,
		send:   make(chan []byte, queueSize),
		closed: make(chan struct{}),
	}
}

func (c *ClientWebsocket) Send(data []byte) error {
	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.Close()
		return ErrSendQueueFull
	}
}

func (c *ClientWebsocket) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

func (c *ClientWebsocket) write(frame func(w io.Writer) error) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return frame(c.conn)
}

// WritePump drains the send queue and keeps the peer alive with pings until
// the connection is closed or a write fails.
func (c *ClientWebsocket) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case message := <-c.send:
			err := c.write(func(w io.Writer) error {
				return wsutil.WriteServerText(w, message)
			})
			if err != nil {
				return
			}
		case <-ticker.C:
			err := c.write(func(w io.Writer) error {
				return ws.WriteFrame(w, ws.NewPingFrame(nil))
			})
			if err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// ReadMessage returns the payload of the next text message. Control frames
// are answered in place and binary messages are skipped.
func (c *ClientWebsocket) ReadMessage() ([]byte, error) {
	rd := wsutil.Reader{
		Source:         c.conn,
		State:          ws.StateServerSide,
		CheckUTF8:      true,
		OnIntermediate: c.handleControl,
	}
	for {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		hdr, err := rd.NextFrame()
		if err != nil {
			return nil, err
		}
		if hdr.OpCode.IsControl() {
			if err := c.handleControl(hdr, &rd); err != nil {
				return nil, err
			}
			continue
		}
		if hdr.OpCode&ws.OpText == 0 {
			if err := rd.Discard(); err != nil {
				return nil, err
			}
			continue
		}
		if hdr.Length > maxMessageSize {
			return nil, ErrMessageTooLarge
		}
		data, err := io.ReadAll(io.LimitReader(&rd, maxMessageSize+1))
		if err != nil {
			return nil, err
		}
		if len(data) > maxMessageSize {
			return nil, ErrMessageTooLarge
		}
		return data, nil
	}
}

// handleControl answers pings and close frames. The reply is built in memory
// first so it goes out as one write, never interleaved with WritePump.
func (c *ClientWebsocket) handleControl(hdr ws.Header, r io.Reader) error {
	var reply bytes.Buffer
	handlerErr := wsutil.ControlFrameHandler(&reply, ws.StateServerSide)(hdr, r)
	if reply.Len() > 0 {
		err := c.write(func(w io.Writer) error {
			_, err := w.Write(reply.Bytes())
			return err
		})
		if err != nil {
			return err
		}
	}
	return handlerErr
}
