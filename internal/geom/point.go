package geom

import "math"

// Point is a 2D position or displacement.
type Point struct {
	X float64 `json:"x" xml:"x,attr"`
	Y float64 `json:"y" xml:"y,attr"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

// Mul scales both components by s.
func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }

// MulPt multiplies component-wise.
func (p Point) MulPt(o Point) Point { return Point{p.X * o.X, p.Y * o.Y} }

func (p Point) Dot(o Point) float64 { return p.X*o.X + p.Y*o.Y }

// Len returns the Euclidean length.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Normalize returns the unit vector in p's direction, or the zero point if p
// has no length.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// ProjectOnLine returns the point on the infinite line through origin with
// direction dir that is closest to p. A zero direction returns origin.
func (p Point) ProjectOnLine(origin, dir Point) Point {
	d := dir.Normalize()
	if d == (Point{}) {
		return origin
	}
	return origin.Add(d.Mul(p.Sub(origin).Dot(d)))
}

// Near reports whether p and o are within eps of each other on both axes.
func (p Point) Near(o Point, eps float64) bool {
	return math.Abs(p.X-o.X) <= eps && math.Abs(p.Y-o.Y) <= eps
}
