package shape

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
)

// ErrDuplicateType is returned when a type name is registered twice.
var ErrDuplicateType = errors.New("shape type already registered")

// UnknownTypeError is returned when asked for a type that was never
// registered. No shape is created.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown shape type %q", e.Type)
}

// Constructor builds a shape of one variant at an initial position.
type Constructor func(pos geom.Point) Shape

// Factory maps type names to constructors. Registration happens once at
// startup through explicit calls (see RegisterBuiltins), so the set of types
// and their order are deterministic.
type Factory struct {
	ctors  map[string]Constructor
	order  []string
	logger *slog.Logger
}

// NewFactory returns an empty registry.
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		ctors:  make(map[string]Constructor),
		logger: logger,
	}
}

// NewDefaultFactory returns a registry holding every built-in variant.
func NewDefaultFactory(logger *slog.Logger) *Factory {
	f := NewFactory(logger)
	RegisterBuiltins(f)
	return f
}

// RegisterBuiltins registers every shape variant shipped in this package.
func RegisterBuiltins(f *Factory) {
	f.MustRegister(TypeVertex, NewVertex)
	f.MustRegister(TypeEllipse, NewEllipse)
}

// Register adds a constructor under typeName.
func (f *Factory) Register(typeName string, ctor Constructor) error {
	if typeName == "" || ctor == nil {
		return errors.New("register shape: empty type name or nil constructor")
	}
	if _, ok := f.ctors[typeName]; ok {
		return fmt.Errorf("register %q: %w", typeName, ErrDuplicateType)
	}
	f.ctors[typeName] = ctor
	f.order = append(f.order, typeName)
	return nil
}

// MustRegister is Register for startup code; it panics on error.
func (f *Factory) MustRegister(typeName string, ctor Constructor) {
	if err := f.Register(typeName, ctor); err != nil {
		panic(err)
	}
}

// Create builds a new shape of the named type at pos.
func (f *Factory) Create(typeName string, pos geom.Point) (Shape, error) {
	ctor, ok := f.ctors[typeName]
	if !ok {
		return nil, &UnknownTypeError{Type: typeName}
	}
	return ctor(pos), nil
}

// FromNode creates a shape from a saved node.
func (f *Factory) FromNode(n *document.ShapeNode) (Shape, error) {
	s, err := f.Create(n.Type, n.Position)
	if err != nil {
		return nil, err
	}
	if err := s.LoadNode(n); err != nil {
		return nil, fmt.Errorf("load %s shape %q: %w", n.Type, n.Name, err)
	}
	return s, nil
}

// Destroy releases a shape the scene no longer owns.
func (f *Factory) Destroy(s Shape) {
	if s == nil {
		return
	}
	s.DisableEditMode()
	s.SetSelected(false)
	f.logger.Debug("shape destroyed", "id", s.ID(), "type", s.Type())
}

// RegisteredTypes lists the known type tags in registration order.
func (f *Factory) RegisteredTypes() []string {
	return append([]string(nil), f.order...)
}
