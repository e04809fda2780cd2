package document

import (
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/typeid"
)

// NewSampleScene returns a small scene used by the demo hosts: two grouped
// quads, one loose quad and an ellipse.
func NewSampleScene() *SceneDoc {
	quad := []geom.Point{
		geom.Pt(-20, -20),
		geom.Pt(20, -20),
		geom.Pt(20, 20),
		geom.Pt(-20, 20),
	}

	return &SceneDoc{
		Name:    "sample",
		Version: CurrentVersion,
		Shapes: []ShapeNode{
			{
				Type:     "vertex",
				ID:       typeid.NewShapeID(),
				Name:     "left",
				GroupID:  0,
				Position: geom.Pt(160, 160),
				Vertices: quad,
			},
			{
				Type:     "vertex",
				ID:       typeid.NewShapeID(),
				Name:     "right",
				GroupID:  0,
				Position: geom.Pt(320, 160),
				Vertices: quad,
			},
			{
				Type:     "vertex",
				ID:       typeid.NewShapeID(),
				Name:     "loose",
				GroupID:  NoGroup,
				Position: geom.Pt(240, 320),
				Vertices: []geom.Point{geom.Pt(0, -30), geom.Pt(30, 30), geom.Pt(-30, 30)},
			},
			{
				Type:     "ellipse",
				ID:       typeid.NewShapeID(),
				Name:     "spot",
				GroupID:  1,
				Position: geom.Pt(480, 240),
				Radius:   &geom.Point{X: 40, Y: 25},
			},
		},
	}
}
