package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karmamapper/karmamapper/backend-go/internal/auth"
	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/store"
)

func newRouter(t *testing.T) (*mux.Router, *store.FileStore) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	r := mux.NewRouter()
	NewHandler(st, slog.New(slog.DiscardHandler)).Routes(r.PathPrefix("/api").Subrouter())
	return r, st
}

func do(r http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListAndGet(t *testing.T) {
	r, st := newRouter(t)

	rec := do(r, "GET", "/api/scenes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"scenes":[]}`, rec.Body.String())

	require.NoError(t, st.Save(context.Background(), "demo", document.NewSampleScene()))

	rec = do(r, "GET", "/api/scenes", "")
	assert.JSONEq(t, `{"scenes":["demo"]}`, rec.Body.String())

	rec = do(r, "GET", "/api/scenes/demo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	doc, err := document.Unmarshal(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, doc.Shapes, len(document.NewSampleScene().Shapes))

	rec = do(r, "GET", "/api/scenes/demo", "", "Accept", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	var asJSON document.SceneDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asJSON))
	assert.Equal(t, doc.Shapes[0].ID, asJSON.Shapes[0].ID)

	rec = do(r, "GET", "/api/scenes/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPut(t *testing.T) {
	r, st := newRouter(t)
	body, err := document.Marshal(document.NewSampleScene())
	require.NoError(t, err)

	rec := do(r, "PUT", "/api/scenes/uploaded", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := st.Load(context.Background(), "uploaded")
	require.NoError(t, err)
	assert.Len(t, doc.Shapes, len(document.NewSampleScene().Shapes))

	rec = do(r, "PUT", "/api/scenes/broken", "<scene><shape")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, "PUT", "/api/scenes/..", string(body))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestPutLogsTokenSubject(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	var logs bytes.Buffer
	svc := auth.NewService("test-secret")

	r := mux.NewRouter()
	sub := r.PathPrefix("/api").Subrouter()
	sub.Use(svc.Middleware)
	NewHandler(st, slog.New(slog.NewTextHandler(&logs, nil))).Routes(sub)

	body, err := document.Marshal(document.NewSampleScene())
	require.NoError(t, err)
	token, err := svc.IssueToken("operator")
	require.NoError(t, err)

	rec := do(r, "PUT", "/api/scenes/stage", string(body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(r, "PUT", "/api/scenes/stage", string(body), "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), "scene uploaded")
	assert.Contains(t, logs.String(), "subject=operator")
}
