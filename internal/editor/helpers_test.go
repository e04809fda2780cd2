package editor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/shape"
)

const eps = 1e-9

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestScene(t *testing.T, positions ...geom.Point) *Scene {
	t.Helper()
	s := NewScene(shape.NewDefaultFactory(discard))
	for _, p := range positions {
		sh, err := s.Factory().Create(shape.TypeVertex, p)
		require.NoError(t, err)
		s.Add(sh)
	}
	return s
}

func assertPointNear(t *testing.T, want, got geom.Point) {
	t.Helper()
	assert.InDeltaf(t, want.X, got.X, eps, "x: want %+v got %+v", want, got)
	assert.InDeltaf(t, want.Y, got.Y, eps, "y: want %+v got %+v", want, got)
}

func assertRectNear(t *testing.T, want, got geom.Rect) {
	t.Helper()
	assert.InDeltaf(t, want.X, got.X, eps, "x: want %+v got %+v", want, got)
	assert.InDeltaf(t, want.Y, got.Y, eps, "y: want %+v got %+v", want, got)
	assert.InDeltaf(t, want.Width, got.Width, eps, "width: want %+v got %+v", want, got)
	assert.InDeltaf(t, want.Height, got.Height, eps, "height: want %+v got %+v", want, got)
}

func positions(shapes []shape.Shape) []geom.Point {
	out := make([]geom.Point, len(shapes))
	for i, s := range shapes {
		out[i] = s.Position()
	}
	return out
}

func enclose(shapes []shape.Shape) geom.Rect {
	boxes := make([]geom.Rect, len(shapes))
	for i, s := range shapes {
		boxes[i] = s.BoundingBox()
	}
	return geom.Enclose(boxes)
}
