package geom

// Corner indices of a Rect, clockwise from the top-left.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// Rect is an axis-aligned rectangle. Width and Height may be zero (a line or
// a point) and, while a drag is in progress, negative.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the tightest rect enclosing points.
func RectFromPoints(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Enclose returns the tightest rect enclosing every rect, degenerate ones
// included.
func Enclose(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	out := rects[0].Canon()
	for _, r := range rects[1:] {
		out = out.Union(r)
	}
	return out
}

// Position returns the top-left corner.
func (r Rect) Position() Point { return Point{r.X, r.Y} }

// Contains checks if a point is inside the rect, edges included.
func (r Rect) Contains(p Point) bool {
	c := r.Canon()
	return p.X >= c.X && p.X <= c.X+c.Width && p.Y >= c.Y && p.Y <= c.Y+c.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects. Unlike a pixel
// union, zero-area rects still contribute their extent.
func (r Rect) Union(other Rect) Rect {
	a, b := r.Canon(), other.Canon()
	minX := min(a.X, b.X)
	minY := min(a.Y, b.Y)
	maxX := max(a.X+a.Width, b.X+b.Width)
	maxY := max(a.Y+a.Height, b.Y+b.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Corner returns corner i (TopLeft..BottomLeft). Out of range indices return
// the top-left corner.
func (r Rect) Corner(i int) Point {
	switch i {
	case TopRight:
		return Point{r.X + r.Width, r.Y}
	case BottomRight:
		return Point{r.X + r.Width, r.Y + r.Height}
	case BottomLeft:
		return Point{r.X, r.Y + r.Height}
	default:
		return Point{r.X, r.Y}
	}
}

// Corners returns the four corners in handle order.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.Corner(TopLeft), r.Corner(TopRight), r.Corner(BottomRight), r.Corner(BottomLeft)}
}

// Canon returns the same area with non-negative width and height.
func (r Rect) Canon() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Translate moves the rect by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// ScaleFromCenter scales the extent around the center. Negative factors
// mirror the rect, leaving it with a negative extent on that axis.
func (r Rect) ScaleFromCenter(sx, sy float64) Rect {
	c := r.Center()
	w, h := r.Width*sx, r.Height*sy
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// Remap maps v from [inMin, inMax] to [outMin, outMax]. An empty input range
// keeps v's offset from inMin instead of dividing by zero.
func Remap(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin + (v - inMin)
	}
	return outMin + (v-inMin)/(inMax-inMin)*(outMax-outMin)
}

// RemapPoint maps p from the extent of from onto the extent of to.
func RemapPoint(p Point, from, to Rect) Point {
	return Point{
		X: Remap(p.X, from.X, from.X+from.Width, to.X, to.X+to.Width),
		Y: Remap(p.Y, from.Y, from.Y+from.Height, to.Y, to.Y+to.Height),
	}
}
