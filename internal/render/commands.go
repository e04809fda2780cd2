package render

import (
	"encoding/json"

	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
)

// Draw operations understood by the host renderer.
const (
	OpPolygon = "polygon"
	OpEllipse = "ellipse"
	OpRect    = "rect"
	OpHandle  = "handle"
)

// DrawCommand represents a single drawing operation for the host to execute.
// The host receives a list of these in painter's order.
type DrawCommand struct {
	Op          string       `json:"op"`                    // Operation: "polygon", "ellipse", "rect", "handle"
	ShapeID     string       `json:"shapeId,omitempty"`     // For hit correlation
	Points      []geom.Point `json:"points,omitempty"`      // Absolute polygon vertices
	Center      *geom.Point  `json:"center,omitempty"`      // Ellipse or handle center
	RX          float64      `json:"rx,omitempty"`          // Ellipse/handle radius
	RY          float64      `json:"ry,omitempty"`          // Ellipse radius
	Rect        *geom.Rect   `json:"rect,omitempty"`        // For "rect" ops
	Fill        string       `json:"fill,omitempty"`        // Fill color
	Stroke      string       `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64      `json:"strokeWidth,omitempty"` // Stroke width
	Opacity     float64      `json:"opacity,omitempty"`     // Global alpha
	Active      bool         `json:"active,omitempty"`      // Highlighted handle
}

// DrawList accumulates the commands of one frame.
type DrawList struct {
	commands []DrawCommand
}

// Add appends a command.
func (dl *DrawList) Add(cmd DrawCommand) {
	dl.commands = append(dl.commands, cmd)
}

// Commands returns the accumulated commands.
func (dl *DrawList) Commands() []DrawCommand {
	return dl.commands
}

// Len returns the number of commands.
func (dl *DrawList) Len() int {
	return len(dl.commands)
}

// Reset empties the list, keeping its storage.
func (dl *DrawList) Reset() {
	dl.commands = dl.commands[:0]
}

// Polygon appends a filled polygon.
func (dl *DrawList) Polygon(shapeID string, points []geom.Point, fill, stroke string) {
	dl.Add(DrawCommand{
		Op:          OpPolygon,
		ShapeID:     shapeID,
		Points:      points,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: strokeWidth(stroke),
		Opacity:     1,
	})
}

// Ellipse appends a filled ellipse.
func (dl *DrawList) Ellipse(shapeID string, center geom.Point, rx, ry float64, fill, stroke string) {
	dl.Add(DrawCommand{
		Op:          OpEllipse,
		ShapeID:     shapeID,
		Center:      &center,
		RX:          rx,
		RY:          ry,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: strokeWidth(stroke),
		Opacity:     1,
	})
}

// Rect appends a rectangle outline with an optional translucent fill.
func (dl *DrawList) Rect(r geom.Rect, fill, stroke string, opacity float64) {
	dl.Add(DrawCommand{
		Op:          OpRect,
		Rect:        &r,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: strokeWidth(stroke),
		Opacity:     opacity,
	})
}

// Handle appends a draggable point marker.
func (dl *DrawList) Handle(center geom.Point, active bool) {
	dl.Add(DrawCommand{
		Op:      OpHandle,
		Center:  &center,
		RX:      HandleRadius,
		Opacity: 1,
		Active:  active,
	})
}

// HandleRadius is the on-screen radius of a handle marker.
const HandleRadius = 5

func strokeWidth(stroke string) float64 {
	if stroke == "" {
		return 0
	}
	return 1
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
