// Package bridge connects browser hosts to an editor over websockets. The
// hub goroutine owns the editor: it applies incoming events in arrival order
// and, on every frame tick, runs Update then broadcasts the drawn frame.
package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/karmamapper/karmamapper/backend-go/internal/editor"
)

const DefaultFrameRate = 30

type inbound struct {
	client *Client
	msg    *Message
}

type Hub struct {
	frameRate  int
	logger     *slog.Logger
	ed         *editor.Editor
	clients    map[string]*Client // clientID -> client
	attached   bool
	seq        int64
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	done       chan struct{}
}

func NewHub(frameRate int, logger *slog.Logger) *Hub {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		frameRate:  frameRate,
		logger:     logger,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound, 64),
		done:       make(chan struct{}),
	}
}

// Attach and Detach are the editor's hook subscription. They are called from
// inside Run, on the hub goroutine.
func (h *Hub) Attach() {
	h.attached = true
	h.logger.Info("editor hooks attached")
}

func (h *Hub) Detach() {
	h.attached = false
	h.logger.Info("editor hooks detached")
}

// Run drives ed until ctx is cancelled. ed must not be used by anything else
// while Run is active; pass the hub to editor.WithHost so edit mode toggles
// reach it.
func (h *Hub) Run(ctx context.Context, ed *editor.Editor) {
	h.ed = ed
	ticker := time.NewTicker(time.Second / time.Duration(h.frameRate))
	defer func() {
		ticker.Stop()
		for id, c := range h.clients {
			close(c.send)
			delete(h.clients, id)
		}
		close(h.done)
	}()

	for {
		select {
		case client := <-h.register:
			h.addClient(ctx, client)
		case client := <-h.unregister:
			h.removeClient(client)
		case in := <-h.inbound:
			h.handleMessage(ctx, in.client, in.msg)
		case <-ticker.C:
			h.tick()
		case <-ctx.Done():
			return
		}
	}
}

// Register adds a client. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) deliver(client *Client, msg *Message) {
	select {
	case h.inbound <- inbound{client: client, msg: msg}:
	case <-h.done:
	}
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.clients[client.ClientID] = client

	scenes, err := h.ed.ListScenes(ctx)
	if err != nil {
		h.logger.Warn("list scenes", "error", err)
	}
	welcome, err := newMessage(TypeWelcome, WelcomePayload{
		ClientID:   client.ClientID,
		ShapeTypes: h.ed.Scene().Factory().RegisteredTypes(),
		Scenes:     scenes,
		FrameRate:  h.frameRate,
	})
	if err == nil {
		client.Send(welcome)
	}

	h.logger.Info("client joined", "client", client.ClientID, "subject", client.Subject)
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client.ClientID]; !ok {
		return
	}
	delete(h.clients, client.ClientID)
	close(client.send)

	h.logger.Info("client left", "client", client.ClientID, "droppedFrames", client.dropped)
}

func (h *Hub) tick() {
	if h.attached {
		h.ed.Update()
	}
	if len(h.clients) == 0 {
		return
	}

	msg, err := newMessage(TypeFrame, h.ed.Frame())
	if err != nil {
		h.logger.Error("marshal frame", "error", err)
		return
	}
	h.seq++
	msg.Seq = h.seq
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal frame", "error", err)
		return
	}
	for _, c := range h.clients {
		c.sendRaw(data)
	}
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	var err error
	switch msg.Type {
	case TypeGUIEvent:
		var ev editor.GUIEvent
		if err = json.Unmarshal(msg.Payload, &ev); err == nil {
			err = h.ed.HandleGUIEvent(ctx, ev)
		}
	case TypeMouse:
		var ev editor.MouseEvent
		if err = json.Unmarshal(msg.Payload, &ev); err == nil {
			h.ed.MousePressed(ev)
		}
	case TypeKey:
		var key KeyPayload
		if err = json.Unmarshal(msg.Payload, &key); err == nil {
			h.ed.KeyPressed(key.Key)
		}
	case TypeModifiers:
		var mods editor.Modifiers
		if err = json.Unmarshal(msg.Payload, &mods); err == nil {
			h.ed.SetModifiers(mods)
		}
	case TypeDrag:
		var drag DragPayload
		if err = json.Unmarshal(msg.Payload, &drag); err == nil {
			h.ed.DragHandle(drag.Handle, drag.Point())
		}
	default:
		h.logger.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		h.sendError(sender, msg.Type, "unknown message type")
		return
	}

	if err != nil {
		h.logger.Debug("message rejected", "type", msg.Type, "client", sender.ClientID, "error", err)
		h.sendError(sender, msg.Type, err.Error())
	}
}

func (h *Hub) sendError(c *Client, typ, message string) {
	msg, err := newMessage(TypeError, ErrorPayload{Message: message, Type: typ})
	if err != nil {
		return
	}
	c.Send(msg)
}
