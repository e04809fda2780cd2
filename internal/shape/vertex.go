package shape

import (
	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/render"
)

// TypeVertex is the type tag of polygon shapes.
const TypeVertex = "vertex"

// defaultVertexSize is the side of the square a new vertex shape starts as.
const defaultVertexSize = 100

// handlePickRadius is how close a click must land to pick a handle.
const handlePickRadius = render.HandleRadius * 2

// nudgeStep is how far an arrow key moves the active handle.
const nudgeStep = 1

// Vertex is a polygon whose points are stored relative to its position.
type Vertex struct {
	Base
	points       []geom.Point
	activeHandle int // index into points, -1 if none
}

// NewVertex returns a square polygon centred on pos.
func NewVertex(pos geom.Point) Shape {
	h := defaultVertexSize / 2.0
	v := &Vertex{
		Base:         newBase(TypeVertex, pos),
		activeHandle: -1,
	}
	v.SetPoints([]geom.Point{
		geom.Pt(-h, -h),
		geom.Pt(h, -h),
		geom.Pt(h, h),
		geom.Pt(-h, h),
	})
	return v
}

// Points returns the absolute vertex positions.
func (v *Vertex) Points() []geom.Point {
	out := make([]geom.Point, len(v.points))
	for i, p := range v.points {
		out[i] = p.Add(v.position)
	}
	return out
}

// SetPoints replaces the relative vertex positions.
func (v *Vertex) SetPoints(rel []geom.Point) {
	v.points = append(v.points[:0:0], rel...)
	if v.activeHandle >= len(v.points) {
		v.activeHandle = -1
	}
	v.CalculateBoundingBox()
}

func (v *Vertex) CalculateBoundingBox() {
	v.localBox = geom.RectFromPoints(v.points)
}

// ApplyScale scales every point around the shape's position. Negative
// factors mirror the polygon.
func (v *Vertex) ApplyScale(factor geom.Point) {
	for i := range v.points {
		v.points[i] = v.points[i].MulPt(factor)
	}
	v.CalculateBoundingBox()
}

// IsInside uses even-odd ray casting over the absolute polygon.
func (v *Vertex) IsInside(p geom.Point) bool {
	if len(v.points) < 3 {
		return false
	}
	q := p.Sub(v.position)
	inside := false
	for i, j := 0, len(v.points)-1; i < len(v.points); j, i = i, i+1 {
		a, b := v.points[i], v.points[j]
		if (a.Y > q.Y) != (b.Y > q.Y) &&
			q.X < (b.X-a.X)*(q.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func (v *Vertex) Render(dl *render.DrawList) {
	dl.Polygon(v.id, v.Points(), v.fill(), v.stroke())
	if !v.editMode {
		return
	}
	for i, p := range v.Points() {
		dl.Handle(p, i == v.activeHandle)
	}
}

func (v *Vertex) SendToGPU(dl *render.DrawList) {
	dl.Polygon(v.id, v.Points(), v.fill(), "")
}

func (v *Vertex) SaveNode(n *document.ShapeNode) error {
	v.saveBase(n)
	n.Vertices = append([]geom.Point(nil), v.points...)
	n.Radius = nil
	return nil
}

// LoadNode restores a saved polygon. A node without vertices keeps the
// default square.
func (v *Vertex) LoadNode(n *document.ShapeNode) error {
	if err := v.loadBase(n); err != nil {
		return err
	}
	if len(n.Vertices) > 0 {
		v.SetPoints(n.Vertices)
	}
	return nil
}

func (v *Vertex) DisableEditMode() {
	v.Base.DisableEditMode()
	v.activeHandle = -1
}

// InterceptMouseClick picks the handle under p while in edit mode.
func (v *Vertex) InterceptMouseClick(p geom.Point) bool {
	if !v.editMode {
		return false
	}
	q := p.Sub(v.position)
	for i, pt := range v.points {
		if pt.Sub(q).Len() <= handlePickRadius {
			v.activeHandle = i
			return true
		}
	}
	return false
}

// ActiveHandle returns the index of the selected vertex, or -1.
func (v *Vertex) ActiveHandle() int { return v.activeHandle }

// SelectNextHandle advances the active vertex, wrapping around.
func (v *Vertex) SelectNextHandle() {
	if len(v.points) == 0 {
		return
	}
	v.activeHandle = (v.activeHandle + 1) % len(v.points)
}

// SelectPrevHandle moves the active vertex back, wrapping around.
func (v *Vertex) SelectPrevHandle() {
	if len(v.points) == 0 {
		return
	}
	if v.activeHandle <= 0 {
		v.activeHandle = len(v.points) - 1
		return
	}
	v.activeHandle--
}

// TranslateActiveHandle moves the active vertex by offset.
func (v *Vertex) TranslateActiveHandle(offset geom.Point) {
	if v.activeHandle < 0 || v.activeHandle >= len(v.points) {
		return
	}
	v.points[v.activeHandle] = v.points[v.activeHandle].Add(offset)
	v.CalculateBoundingBox()
}

func (v *Vertex) KeyPressed(key rune) bool {
	if !v.editMode {
		return false
	}
	switch key {
	case ']':
		v.SelectNextHandle()
	case '[':
		v.SelectPrevHandle()
	case KeyLeft:
		v.TranslateActiveHandle(geom.Pt(-nudgeStep, 0))
	case KeyRight:
		v.TranslateActiveHandle(geom.Pt(nudgeStep, 0))
	case KeyUp:
		v.TranslateActiveHandle(geom.Pt(0, -nudgeStep))
	case KeyDown:
		v.TranslateActiveHandle(geom.Pt(0, nudgeStep))
	default:
		return false
	}
	return true
}
