package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
)

func testDoc() *document.SceneDoc {
	return &document.SceneDoc{
		Name: "stage",
		Shapes: []document.ShapeNode{
			{Type: "vertex", Name: "a", GroupID: 0, Position: geom.Pt(10, 10)},
			{Type: "ellipse", Name: "b", GroupID: -1, Position: geom.Pt(50, 50), Radius: &geom.Point{X: 3, Y: 4}},
		},
	}
}

func TestFileStoreSaveLoadList(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "saveFiles"))
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "b-scene", testDoc()))
	require.NoError(t, s.Save(ctx, "a-scene.xml", testDoc()))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-scene", "b-scene"}, names)

	got, err := s.Load(ctx, "a-scene")
	require.NoError(t, err)
	require.Len(t, got.Shapes, 2)
	assert.Equal(t, "b", got.Shapes[1].Name)
	assert.Equal(t, geom.Pt(50, 50), got.Shapes[1].Position)
}

func TestFileStoreErrors(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, name := range []string{"", "..", "../escape", `a\b`} {
		assert.ErrorIs(t, s.Save(ctx, name, testDoc()), ErrInvalidName, name)
	}

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.xml"), []byte("<scene><shape"), 0644))
	_, err = s.Load(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "scene", testDoc()))
	doc := testDoc()
	doc.Shapes = doc.Shapes[:1]
	require.NoError(t, s.Save(ctx, "scene", doc))

	got, err := s.Load(ctx, "scene")
	require.NoError(t, err)
	assert.Len(t, got.Shapes, 1)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files cleaned up")
}
