package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 64
)

// Client is one websocket session attached to the editor. It never touches
// the editor itself: ReadPump hands decoded input to the hub goroutine, and
// WritePump streams back whatever the hub queues (welcome, frames, errors).
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	// dropped counts frames skipped because send was full. Hub goroutine only.
	dropped int

	ClientID string
	Subject  string
}

func NewClient(hub *Hub, conn *websocket.Conn, clientID, subject string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		logger:   hub.logger.With("client", clientID),
		ClientID: clientID,
		Subject:  subject,
	}
}

// ReadPump reads editor input until the connection closes, then leaves the
// hub. Malformed or typeless messages are skipped.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.leave(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		msg, err := c.read(ctx)
		if errors.Is(err, errSkip) {
			continue
		}
		if err != nil {
			if !isClosed(err) {
				c.logger.Debug("read error", "error", err)
			}
			return
		}
		c.hub.deliver(c, msg)
	}
}

var errSkip = errors.New("skip message")

func (c *Client) read(ctx context.Context) (*Message, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Warn("invalid message", "error", err)
		return nil, errSkip
	}
	if msg.Type == "" {
		c.logger.Warn("message without type")
		return nil, errSkip
	}
	msg.ClientID = c.ClientID
	return &msg, nil
}

func isClosed(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}

// WritePump writes queued messages and keeps the connection alive with
// pings. It returns when the hub closes send or ctx ends.
func (c *Client) WritePump(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(ctx, data); err != nil {
				c.logger.Debug("write error", "error", err)
				return
			}

		case <-ping.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// Send queues msg. It must only be called from the hub goroutine.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal message", "error", err, "type", msg.Type)
		return
	}
	c.sendRaw(data)
}

// sendRaw queues data, dropping it when the client is behind. Frames are
// full snapshots, so the next one replaces anything skipped.
func (c *Client) sendRaw(data []byte) {
	select {
	case c.send <- data:
	default:
		c.dropped++
		c.logger.Debug("send buffer full, dropping message")
	}
}
