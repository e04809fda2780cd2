package editor

import (
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/shape"
)

// Modifiers alter how a scale drag is applied.
type Modifiers struct {
	// LockAspect keeps the group's width/height ratio (shift).
	LockAspect bool `json:"lockAspect"`
	// MirrorAroundCenter scales around the group center instead of the
	// opposite corner (alt).
	MirrorAroundCenter bool `json:"mirrorAroundCenter"`
}

// Transformer keeps the group bounding box of the multi-selection and the
// four corner handles, and applies batch transforms to the selected shapes.
// Handles are a view of the box: dragging one is a request, applied on the
// next Apply call, and the handles are re-synced to the box afterwards.
type Transformer struct {
	box     geom.Rect
	handles []geom.Point // empty or exactly 4, indexed by geom corner
}

// Box returns the group bounding box.
func (t *Transformer) Box() geom.Rect { return t.box }

// Handles returns a copy of the handle positions; empty when nothing is
// multi-selected.
func (t *Transformer) Handles() []geom.Point {
	return append([]geom.Point(nil), t.handles...)
}

// Active reports whether a group box is being shown.
func (t *Transformer) Active() bool { return len(t.handles) == 4 }

// Recompute rebuilds the group box from shapes and re-syncs the handles.
func (t *Transformer) Recompute(shapes []shape.Shape) {
	if len(shapes) == 0 {
		t.Clear()
		return
	}
	boxes := make([]geom.Rect, len(shapes))
	for i, s := range shapes {
		boxes[i] = s.BoundingBox()
	}
	t.box = geom.Enclose(boxes)
	t.SyncHandles()
}

// Clear drops the box and the handles.
func (t *Transformer) Clear() {
	t.box = geom.Rect{}
	t.handles = nil
}

// SyncHandles puts the four handles on the corners of the box.
func (t *Transformer) SyncHandles() {
	if len(t.handles) != 4 {
		t.handles = make([]geom.Point, 4)
	}
	corners := t.box.Corners()
	copy(t.handles, corners[:])
}

// DragHandle moves handle i to p. The move is interpreted by Pending.
func (t *Transformer) DragHandle(i int, p geom.Point) bool {
	if !t.Active() || i < 0 || i >= 4 {
		return false
	}
	t.handles[i] = p
	return true
}

// Pending returns the first handle that is no longer on its corner.
func (t *Transformer) Pending() (int, geom.Point, bool) {
	if !t.Active() {
		return 0, geom.Point{}, false
	}
	for i, h := range t.handles {
		if h != t.box.Corner(i) {
			return i, h, true
		}
	}
	return 0, geom.Point{}, false
}

// Scale resizes the group so that corner i follows newPos. Without
// MirrorAroundCenter the opposite corner stays put. Axes on which the group
// has no extent are never scaled, and a drag that would collapse an axis to
// zero is refused.
func (t *Transformer) Scale(shapes []shape.Shape, i int, newPos geom.Point, mods Modifiers) {
	if !t.Active() || i < 0 || i >= 4 {
		return
	}
	old := t.box
	oldPos := old.Corner(i)

	if mods.LockAspect {
		dir := geom.Pt(old.Width, old.Height)
		if i%2 == 1 {
			dir.Y = -dir.Y
		}
		newPos = newPos.ProjectOnLine(oldPos, dir)
	}

	diff := newPos.Sub(oldPos)
	if old.Width == 0 {
		diff.X = 0
	}
	if old.Height == 0 {
		diff.Y = 0
	}

	var next geom.Rect
	if mods.MirrorAroundCenter {
		// make diff relative to the top-left corner
		switch i {
		case geom.TopRight:
			diff.X = -diff.X
		case geom.BottomRight:
			diff = diff.Mul(-1)
		case geom.BottomLeft:
			diff.Y = -diff.Y
		}
		next = geom.Rect{
			X:      old.X + diff.X,
			Y:      old.Y + diff.Y,
			Width:  old.Width - 2*diff.X,
			Height: old.Height - 2*diff.Y,
		}
	} else {
		switch i {
		case geom.TopLeft:
			next = geom.Rect{X: old.X + diff.X, Y: old.Y + diff.Y, Width: old.Width - diff.X, Height: old.Height - diff.Y}
		case geom.TopRight:
			next = geom.Rect{X: old.X, Y: old.Y + diff.Y, Width: old.Width + diff.X, Height: old.Height - diff.Y}
		case geom.BottomRight:
			next = geom.Rect{X: old.X, Y: old.Y, Width: old.Width + diff.X, Height: old.Height + diff.Y}
		case geom.BottomLeft:
			next = geom.Rect{X: old.X + diff.X, Y: old.Y, Width: old.Width - diff.X, Height: old.Height + diff.Y}
		}
	}

	if (old.Width != 0 && next.Width == 0) || (old.Height != 0 && next.Height == 0) {
		t.SyncHandles()
		return
	}

	factor := geom.Pt(ratio(next.Width, old.Width), ratio(next.Height, old.Height))
	t.remap(shapes, old, next, factor)
}

// Move translates the group so that corner i follows newPos.
func (t *Transformer) Move(shapes []shape.Shape, i int, newPos geom.Point) {
	if !t.Active() || i < 0 || i >= 4 {
		return
	}
	diff := newPos.Sub(t.box.Corner(i))
	t.box = t.box.Translate(diff)
	for _, s := range shapes {
		s.SetPosition(s.Position().Add(diff))
	}
	t.SyncHandles()
}

// Flip mirrors the group around its center on the axes whose factor is -1.
func (t *Transformer) Flip(shapes []shape.Shape, flipX, flipY bool) {
	if !t.Active() {
		return
	}
	scale := geom.Pt(1, 1)
	if flipX {
		scale.X = -1
	}
	if flipY {
		scale.Y = -1
	}
	t.remap(shapes, t.box, t.box.ScaleFromCenter(scale.X, scale.Y), scale)
}

// remap moves every shape from its relative position in from to the same
// relative position in to, scales its geometry, and adopts to as the box.
func (t *Transformer) remap(shapes []shape.Shape, from, to geom.Rect, factor geom.Point) {
	for _, s := range shapes {
		s.SetPosition(geom.RemapPoint(s.Position(), from, to))
		s.ApplyScale(factor)
	}
	t.box = to.Canon()
	t.SyncHandles()
}

func ratio(next, old float64) float64 {
	if old == 0 {
		return 1
	}
	return next / old
}
