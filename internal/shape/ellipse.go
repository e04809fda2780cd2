package shape

import (
	"fmt"
	"math"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/render"
)

// TypeEllipse is the type tag of axis-aligned ellipses.
const TypeEllipse = "ellipse"

const defaultEllipseRadius = 50

// Ellipse is an axis-aligned ellipse centred on its position.
type Ellipse struct {
	Base
	radius geom.Point
}

// NewEllipse returns a circle centred on pos.
func NewEllipse(pos geom.Point) Shape {
	e := &Ellipse{Base: newBase(TypeEllipse, pos)}
	e.SetRadius(geom.Pt(defaultEllipseRadius, defaultEllipseRadius))
	return e
}

// Radius returns the x and y radii.
func (e *Ellipse) Radius() geom.Point { return e.radius }

// SetRadius sets the radii; negative values are taken by magnitude.
func (e *Ellipse) SetRadius(r geom.Point) {
	e.radius = geom.Pt(math.Abs(r.X), math.Abs(r.Y))
	e.CalculateBoundingBox()
}

func (e *Ellipse) CalculateBoundingBox() {
	e.localBox = geom.Rect{X: -e.radius.X, Y: -e.radius.Y, Width: 2 * e.radius.X, Height: 2 * e.radius.Y}
}

// ApplyScale scales the radii. A mirrored ellipse is the same ellipse.
func (e *Ellipse) ApplyScale(factor geom.Point) {
	e.SetRadius(e.radius.MulPt(factor))
}

func (e *Ellipse) IsInside(p geom.Point) bool {
	if e.radius.X == 0 || e.radius.Y == 0 {
		return false
	}
	d := p.Sub(e.position)
	nx, ny := d.X/e.radius.X, d.Y/e.radius.Y
	return nx*nx+ny*ny <= 1
}

func (e *Ellipse) Render(dl *render.DrawList) {
	dl.Ellipse(e.id, e.position, e.radius.X, e.radius.Y, e.fill(), e.stroke())
	if e.editMode {
		dl.Handle(e.position.Add(geom.Pt(e.radius.X, 0)), false)
		dl.Handle(e.position.Add(geom.Pt(0, e.radius.Y)), false)
	}
}

func (e *Ellipse) SendToGPU(dl *render.DrawList) {
	dl.Ellipse(e.id, e.position, e.radius.X, e.radius.Y, e.fill(), "")
}

func (e *Ellipse) SaveNode(n *document.ShapeNode) error {
	e.saveBase(n)
	r := e.radius
	n.Radius = &r
	n.Vertices = nil
	return nil
}

func (e *Ellipse) LoadNode(n *document.ShapeNode) error {
	if err := e.loadBase(n); err != nil {
		return err
	}
	if n.Radius != nil {
		if n.Radius.X < 0 || n.Radius.Y < 0 {
			return fmt.Errorf("ellipse %q: negative radius", n.Name)
		}
		e.SetRadius(*n.Radius)
	}
	return nil
}

func (e *Ellipse) InterceptMouseClick(geom.Point) bool { return false }

// KeyPressed resizes the ellipse with the arrow keys while in edit mode.
func (e *Ellipse) KeyPressed(key rune) bool {
	if !e.editMode {
		return false
	}
	r := e.radius
	switch key {
	case KeyLeft:
		r.X = max(0, r.X-nudgeStep)
	case KeyRight:
		r.X += nudgeStep
	case KeyUp:
		r.Y += nudgeStep
	case KeyDown:
		r.Y = max(0, r.Y-nudgeStep)
	default:
		return false
	}
	e.SetRadius(r)
	return true
}
