package shape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/render"
)

func enclosesPoints(t *testing.T, box geom.Rect, points []geom.Point) {
	t.Helper()
	grown := geom.Rect{X: box.X - 1e-9, Y: box.Y - 1e-9, Width: box.Width + 2e-9, Height: box.Height + 2e-9}
	for _, p := range points {
		assert.Truef(t, grown.Contains(p), "box %+v does not contain %+v", box, p)
	}
}

func TestVertexBoundingBoxFollowsEdits(t *testing.T) {
	v := NewVertex(geom.Pt(100, 100)).(*Vertex)
	assert.Equal(t, geom.Rect{X: 50, Y: 50, Width: 100, Height: 100}, v.BoundingBox())

	steps := []func(){
		func() { v.SetPosition(geom.Pt(-20, 7)) },
		func() { v.ApplyScale(geom.Pt(2, 0.5)) },
		func() { v.ApplyScale(geom.Pt(-1, 1)) },
		func() { v.ApplyScale(geom.Pt(1, -3)) },
		func() { v.SetPoints([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 40), geom.Pt(-5, 3)}) },
	}
	for _, step := range steps {
		step()
		enclosesPoints(t, v.BoundingBox(), v.Points())
		want, got := geom.RectFromPoints(v.Points()), v.BoundingBox()
		assert.InDelta(t, want.X, got.X, 1e-9)
		assert.InDelta(t, want.Y, got.Y, 1e-9)
		assert.InDelta(t, want.Width, got.Width, 1e-9)
		assert.InDelta(t, want.Height, got.Height, 1e-9)
	}
}

func TestVertexIsInside(t *testing.T) {
	v := NewVertex(geom.Pt(0, 0))
	assert.True(t, v.IsInside(geom.Pt(0, 0)))
	assert.True(t, v.IsInside(geom.Pt(49, -49)))
	assert.False(t, v.IsInside(geom.Pt(51, 0)))

	v.SetPosition(geom.Pt(200, 0))
	assert.False(t, v.IsInside(geom.Pt(0, 0)))
	assert.True(t, v.IsInside(geom.Pt(200, 0)))
}

func TestVertexHandleEditing(t *testing.T) {
	v := NewVertex(geom.Pt(0, 0)).(*Vertex)

	assert.False(t, v.InterceptMouseClick(geom.Pt(50, 50)), "not in edit mode")
	v.EnableEditMode()
	require.True(t, v.InterceptMouseClick(geom.Pt(52, 48)))
	assert.Equal(t, 2, v.ActiveHandle())

	assert.True(t, v.KeyPressed(KeyRight))
	assert.Equal(t, geom.Pt(51, 50), v.Points()[2])
	assert.InDelta(t, 101, v.BoundingBox().Width, 1e-9)

	assert.True(t, v.KeyPressed(']'))
	assert.Equal(t, 3, v.ActiveHandle())
	v.SelectNextHandle()
	assert.Equal(t, 0, v.ActiveHandle())
	assert.True(t, v.KeyPressed('['))
	assert.Equal(t, 3, v.ActiveHandle())
	assert.False(t, v.KeyPressed('q'))

	v.DisableEditMode()
	assert.Equal(t, -1, v.ActiveHandle())
	assert.False(t, v.KeyPressed(']'))
}

func TestVertexRenderHandlesOnlyInEditMode(t *testing.T) {
	v := NewVertex(geom.Pt(0, 0))
	var dl render.DrawList
	v.Render(&dl)
	assert.Equal(t, 1, dl.Len())

	dl.Reset()
	v.EnableEditMode()
	v.Render(&dl)
	assert.Equal(t, 5, dl.Len())
	assert.Equal(t, render.OpHandle, dl.Commands()[1].Op)

	dl.Reset()
	v.SendToGPU(&dl)
	require.Equal(t, 1, dl.Len())
	assert.Empty(t, dl.Commands()[0].Stroke)
}

func TestEllipse(t *testing.T) {
	e := NewEllipse(geom.Pt(10, 10)).(*Ellipse)
	assert.Equal(t, geom.Rect{X: -40, Y: -40, Width: 100, Height: 100}, e.BoundingBox())
	assert.True(t, e.IsInside(geom.Pt(10, 59)))
	assert.False(t, e.IsInside(geom.Pt(50, 50)))

	e.ApplyScale(geom.Pt(-2, 0.5))
	assert.Equal(t, geom.Pt(100, 25), e.Radius())
	assert.Equal(t, geom.Rect{X: -90, Y: -15, Width: 200, Height: 50}, e.BoundingBox())

	e.EnableEditMode()
	assert.True(t, e.KeyPressed(KeyDown))
	assert.Equal(t, geom.Pt(100, 24), e.Radius())
}

func TestNodeRoundTrip(t *testing.T) {
	f := NewDefaultFactory(nil)

	orig := NewVertex(geom.Pt(10, 10)).(*Vertex)
	orig.SetName("quad")
	orig.SetGroupID(4)
	orig.ApplyScale(geom.Pt(1.5, 0.25))

	var n document.ShapeNode
	require.NoError(t, orig.SaveNode(&n))
	assert.Equal(t, TypeVertex, n.Type)

	loaded, err := f.FromNode(&n)
	require.NoError(t, err)
	assert.Equal(t, orig.ID(), loaded.ID())
	assert.Equal(t, "quad", loaded.Name())
	assert.Equal(t, 4, loaded.GroupID())
	assert.Equal(t, orig.Points(), loaded.(*Vertex).Points())
	assert.Equal(t, orig.BoundingBox(), loaded.BoundingBox())

	el := NewEllipse(geom.Pt(1, 2))
	var en document.ShapeNode
	require.NoError(t, el.SaveNode(&en))
	loadedEl, err := f.FromNode(&en)
	require.NoError(t, err)
	assert.Equal(t, el.BoundingBox(), loadedEl.BoundingBox())
}

func TestLoadNodeTypeMismatch(t *testing.T) {
	v := NewVertex(geom.Pt(0, 0))
	err := v.LoadNode(&document.ShapeNode{Type: TypeEllipse})
	assert.Error(t, err)
}

func TestGroupIDClamp(t *testing.T) {
	v := NewVertex(geom.Pt(0, 0))
	assert.Equal(t, document.NoGroup, v.GroupID())
	v.SetGroupID(-7)
	assert.Equal(t, document.NoGroup, v.GroupID())
	assert.Equal(t, "#cccccc", GroupColor(v.GroupID()))
	assert.Equal(t, GroupColor(1), GroupColor(1+len(groupPalette)))
}

func TestFactory(t *testing.T) {
	f := NewDefaultFactory(nil)
	assert.Equal(t, []string{TypeVertex, TypeEllipse}, f.RegisteredTypes())

	s, err := f.Create(TypeVertex, geom.Pt(3, 4))
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(3, 4), s.Position())
	assert.Equal(t, TypeVertex, s.Type())

	_, err = f.Create("triangle", geom.Pt(0, 0))
	var unknown *UnknownTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "triangle", unknown.Type)

	_, err = f.FromNode(&document.ShapeNode{Type: "triangle"})
	assert.True(t, errors.As(err, &unknown))

	err = f.Register(TypeVertex, NewVertex)
	assert.ErrorIs(t, err, ErrDuplicateType)
	assert.Panics(t, func() { f.MustRegister(TypeEllipse, NewEllipse) })

	s.EnableEditMode()
	s.SetSelected(true)
	f.Destroy(s)
	assert.False(t, s.IsInEditMode())
	assert.False(t, s.IsSelected())
}
