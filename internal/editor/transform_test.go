package editor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/shape"
)

// Two default squares at (100,100) and (300,200) give a group box of
// (50,50) 300x200.
func twoShapes(t *testing.T) ([]shape.Shape, *Transformer) {
	t.Helper()
	s := newTestScene(t, geom.Pt(100, 100), geom.Pt(300, 200))
	shapes := s.Shapes()
	tr := &Transformer{}
	tr.Recompute(shapes)
	require.Equal(t, geom.Rect{X: 50, Y: 50, Width: 300, Height: 200}, tr.Box())
	return shapes, tr
}

func TestTransformerHandlesFollowBox(t *testing.T) {
	shapes, tr := twoShapes(t)
	assert.Equal(t, []geom.Point{{X: 50, Y: 50}, {X: 350, Y: 50}, {X: 350, Y: 250}, {X: 50, Y: 250}}, tr.Handles())

	_, _, ok := tr.Pending()
	assert.False(t, ok)

	require.True(t, tr.DragHandle(2, geom.Pt(360, 260)))
	i, p, ok := tr.Pending()
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, geom.Pt(360, 260), p)

	assert.False(t, tr.DragHandle(4, geom.Pt(0, 0)))

	tr.Recompute(nil)
	assert.Empty(t, tr.Handles())
	assert.False(t, tr.DragHandle(0, geom.Pt(0, 0)))
	tr.Scale(shapes, 0, geom.Pt(0, 0), Modifiers{})
	assertPointNear(t, geom.Pt(100, 100), shapes[0].Position())
}

func TestTransformerScaleKeepsOppositeCorner(t *testing.T) {
	for i := 0; i < 4; i++ {
		shapes, tr := twoShapes(t)
		old := tr.Box()
		opposite := old.Corner((i + 2) % 4)

		tr.Scale(shapes, i, old.Corner(i).Add(geom.Pt(20, 30)), Modifiers{})

		assertPointNear(t, opposite, tr.Box().Corner((i+2)%4))
		assertPointNear(t, old.Corner(i).Add(geom.Pt(20, 30)), tr.Box().Corner(i))
		assertRectNear(t, tr.Box(), enclose(shapes))
		corners := tr.Box().Corners()
		assert.Equal(t, corners[:], tr.Handles())
	}
}

func TestTransformerScaleLockAspect(t *testing.T) {
	for _, i := range []int{geom.TopLeft, geom.TopRight, geom.BottomRight, geom.BottomLeft} {
		shapes, tr := twoShapes(t)
		drag := tr.Box().Corner(i).Add(geom.Pt(37, -11))

		tr.Scale(shapes, i, drag, Modifiers{LockAspect: true})

		box := tr.Box()
		require.Greater(t, box.Height, 0.0)
		assert.InDelta(t, 1.5, box.Width/box.Height, eps, "corner %d", i)
		assertRectNear(t, box, enclose(shapes))
	}
}

func TestTransformerScaleMirrorAroundCenter(t *testing.T) {
	shapes, tr := twoShapes(t)
	center := tr.Box().Center()

	tr.Scale(shapes, geom.BottomRight, geom.Pt(360, 260), Modifiers{MirrorAroundCenter: true})

	box := tr.Box()
	assertPointNear(t, center, box.Center())
	assert.InDelta(t, 320, box.Width, eps)
	assert.InDelta(t, 220, box.Height, eps)
	assertRectNear(t, box, enclose(shapes))

	tr.Scale(shapes, geom.TopRight, box.Corner(geom.TopRight).Add(geom.Pt(10, -10)), Modifiers{MirrorAroundCenter: true})
	assertPointNear(t, center, tr.Box().Center())
	assert.InDelta(t, 340, tr.Box().Width, eps)
	assert.InDelta(t, 240, tr.Box().Height, eps)
}

func TestTransformerScaleDegenerateWidth(t *testing.T) {
	s := newTestScene(t, geom.Pt(100, 0), geom.Pt(100, 100))
	shapes := s.Shapes()
	for _, sh := range shapes {
		sh.(*shape.Vertex).SetPoints([]geom.Point{geom.Pt(0, -10), geom.Pt(0, 10)})
	}
	tr := &Transformer{}
	tr.Recompute(shapes)
	require.Equal(t, geom.Rect{X: 100, Y: -10, Width: 0, Height: 120}, tr.Box())

	assert.NotPanics(t, func() {
		tr.Scale(shapes, geom.BottomRight, geom.Pt(150, 170), Modifiers{})
	})

	for _, sh := range shapes {
		assert.Equal(t, 100.0, sh.Position().X)
		assert.False(t, math.IsNaN(sh.Position().Y))
	}
	assert.Equal(t, 0.0, tr.Box().Width)
	assert.InDelta(t, 180, tr.Box().Height, eps)
	assertRectNear(t, tr.Box(), enclose(shapes))
}

func TestTransformerScaleRefusesCollapse(t *testing.T) {
	shapes, tr := twoShapes(t)
	before := positions(shapes)

	tr.DragHandle(geom.BottomRight, geom.Pt(50, 300))
	tr.Scale(shapes, geom.BottomRight, geom.Pt(50, 300), Modifiers{})

	assert.Equal(t, geom.Rect{X: 50, Y: 50, Width: 300, Height: 200}, tr.Box())
	assert.Equal(t, before, positions(shapes))
	_, _, ok := tr.Pending()
	assert.False(t, ok)
}

func TestTransformerScalePastOppositeCorner(t *testing.T) {
	shapes, tr := twoShapes(t)

	tr.Scale(shapes, geom.BottomRight, geom.Pt(0, 250), Modifiers{})

	box := tr.Box()
	assertRectNear(t, geom.Rect{X: 0, Y: 50, Width: 50, Height: 200}, box)
	assertRectNear(t, box, enclose(shapes))
}

func TestTransformerMove(t *testing.T) {
	shapes, tr := twoShapes(t)

	tr.Move(shapes, geom.TopRight, geom.Pt(360, 45))

	assert.Equal(t, geom.Rect{X: 60, Y: 45, Width: 300, Height: 200}, tr.Box())
	assert.Equal(t, []geom.Point{{X: 110, Y: 95}, {X: 310, Y: 195}}, positions(shapes))
}

func TestTransformerFlipTwiceRestores(t *testing.T) {
	for _, axes := range [][2]bool{{true, false}, {false, true}} {
		shapes, tr := twoShapes(t)
		before := positions(shapes)
		box := tr.Box()

		tr.Flip(shapes, axes[0], axes[1])
		if axes[0] {
			assertPointNear(t, geom.Pt(300, 100), shapes[0].Position())
		} else {
			assertPointNear(t, geom.Pt(100, 200), shapes[0].Position())
		}
		assertRectNear(t, box, tr.Box())
		assertRectNear(t, box, enclose(shapes))

		tr.Flip(shapes, axes[0], axes[1])
		for i, p := range positions(shapes) {
			assertPointNear(t, before[i], p)
		}
	}
}
