package editor

import (
	"fmt"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/shape"
)

// Scene is the ordered collection of shapes being edited. It owns its
// shapes; everything else refers to them by ID.
type Scene struct {
	factory *shape.Factory
	shapes  []shape.Shape
}

// NewScene creates an empty scene that builds shapes with factory.
func NewScene(factory *shape.Factory) *Scene {
	return &Scene{factory: factory}
}

// Factory returns the factory used to build shapes.
func (s *Scene) Factory() *shape.Factory { return s.factory }

// Len returns the number of shapes, including ones pending deletion.
func (s *Scene) Len() int { return len(s.shapes) }

// At returns the shape at index i.
func (s *Scene) At(i int) shape.Shape { return s.shapes[i] }

// Shapes returns the shapes in draw order. The slice is a copy.
func (s *Scene) Shapes() []shape.Shape {
	return append([]shape.Shape(nil), s.shapes...)
}

// Live returns the shapes not marked for deletion, in draw order. Input and
// selection only see these.
func (s *Scene) Live() []shape.Shape {
	live := make([]shape.Shape, 0, len(s.shapes))
	for _, sh := range s.shapes {
		if !sh.PendingDeletion() {
			live = append(live, sh)
		}
	}
	return live
}

// Add appends a shape.
func (s *Scene) Add(sh shape.Shape) {
	s.shapes = append(s.shapes, sh)
}

// IndexOf returns the position of the shape with id, or -1.
func (s *Scene) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, sh := range s.shapes {
		if sh.ID() == id {
			return i
		}
	}
	return -1
}

// Get looks up a shape by ID. It is the existence check behind every
// selection reference.
func (s *Scene) Get(id string) (shape.Shape, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.shapes[i], true
}

// Exists reports whether a shape with id is in the scene.
func (s *Scene) Exists(id string) bool {
	return s.IndexOf(id) >= 0
}

// Sweep removes every shape marked for deletion. before is called for each
// one while it is still in the scene. It returns the removed IDs.
func (s *Scene) Sweep(before func(sh shape.Shape)) []string {
	var removed []string
	kept := make([]shape.Shape, 0, len(s.shapes))
	for _, sh := range s.shapes {
		if !sh.PendingDeletion() {
			kept = append(kept, sh)
			continue
		}
		if before != nil {
			before(sh)
		}
		removed = append(removed, sh.ID())
		s.factory.Destroy(sh)
	}
	s.shapes = kept
	return removed
}

// Clear destroys every shape.
func (s *Scene) Clear() {
	for _, sh := range s.shapes {
		s.factory.Destroy(sh)
	}
	s.shapes = nil
}

// ToDocument serializes the scene.
func (s *Scene) ToDocument(name string) (*document.SceneDoc, error) {
	doc := &document.SceneDoc{
		Name:    name,
		Version: document.CurrentVersion,
		Shapes:  make([]document.ShapeNode, 0, len(s.shapes)),
	}
	for _, sh := range s.shapes {
		if sh.PendingDeletion() {
			continue
		}
		var n document.ShapeNode
		if err := sh.SaveNode(&n); err != nil {
			return nil, fmt.Errorf("save shape %s: %w", sh.ID(), err)
		}
		doc.Shapes = append(doc.Shapes, n)
	}
	return doc, nil
}

// Replace swaps the scene's content for the shapes in doc. Nothing changes
// unless every shape loads.
func (s *Scene) Replace(doc *document.SceneDoc) error {
	shapes := make([]shape.Shape, 0, len(doc.Shapes))
	seen := make(map[string]bool, len(doc.Shapes))
	for i := range doc.Shapes {
		sh, err := s.factory.FromNode(&doc.Shapes[i])
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		if seen[sh.ID()] {
			return fmt.Errorf("shape %d: duplicate id %s", i, sh.ID())
		}
		seen[sh.ID()] = true
		shapes = append(shapes, sh)
	}

	s.Clear()
	s.shapes = shapes
	return nil
}
