package bridge

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/karmamapper/karmamapper/backend-go/internal/auth"
)

// Handler upgrades /ws/editor requests and attaches them to the hub.
type Handler struct {
	hub     *Hub
	auth    *auth.Service
	origins []string
}

// NewHandler returns the websocket endpoint. origins are host patterns passed
// to websocket.AcceptOptions; requests without an Origin header are always
// accepted.
func NewHandler(hub *Hub, authSvc *auth.Service, origins []string) *Handler {
	return &Handler{hub: hub, auth: authSvc, origins: origins}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subject, err := h.auth.Authorize(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, uuid.New().String(), subject)
	if !h.hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "editor stopped")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
