// Package api serves stored scenes over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/karmamapper/karmamapper/backend-go/internal/auth"
	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/store"
)

const maxSceneSize = 4 << 20

type Handler struct {
	store  store.Store
	logger *slog.Logger
}

// NewHandler serves scenes from st. A nil logger uses slog.Default.
func NewHandler(st store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: st, logger: logger}
}

// Routes registers the scene endpoints on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/scenes", h.List).Methods("GET")
	r.HandleFunc("/scenes/{name}", h.Get).Methods("GET")
	r.HandleFunc("/scenes/{name}", h.Put).Methods("PUT")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.List(r.Context())
	if err != nil {
		h.handleStoreError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"scenes": names})
}

// Get returns the scene as XML, or as JSON when the client asks for it.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	doc, err := h.store.Load(r.Context(), name)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, http.StatusOK, doc)
		return
	}

	var buf bytes.Buffer
	if err := document.Encode(&buf, doc); err != nil {
		h.handleStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Put stores an uploaded XML scene under name.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	doc, err := document.Decode(io.LimitReader(r.Body, maxSceneSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.store.Save(r.Context(), name, doc); err != nil {
		h.handleStoreError(w, err)
		return
	}
	h.logger.Info("scene uploaded", "name", name, "shapes", len(doc.Shapes), "subject", auth.SubjectFromContext(r.Context()))

	writeJSON(w, http.StatusOK, map[string]any{"name": name, "shapes": len(doc.Shapes)})
}

func (h *Handler) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, store.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scene name"})
	default:
		h.logger.Error("store error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
