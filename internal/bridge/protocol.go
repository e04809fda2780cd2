package bridge

import (
	"encoding/json"

	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
)

// Message is the envelope for every websocket frame in both directions.
type Message struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Server to client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeError   = "error"

	// Client to server
	TypeGUIEvent  = "gui.event"       // editor.GUIEvent
	TypeMouse     = "input.mouse"     // editor.MouseEvent
	TypeKey       = "input.key"       // KeyPayload
	TypeModifiers = "input.modifiers" // editor.Modifiers
	TypeDrag      = "input.drag"      // DragPayload
)

type WelcomePayload struct {
	ClientID   string   `json:"clientId"`
	ShapeTypes []string `json:"shapeTypes"`
	Scenes     []string `json:"scenes,omitempty"`
	FrameRate  int      `json:"frameRate"`
}

// KeyPayload carries a key code: the character for printable keys, or one of
// the shape package's arrow key codes.
type KeyPayload struct {
	Key rune `json:"key"`
}

// DragPayload moves one of the group handles.
type DragPayload struct {
	Handle int     `json:"handle"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (p DragPayload) Point() geom.Point { return geom.Pt(p.X, p.Y) }

type ErrorPayload struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
