// Package shape defines the capability contract every scene shape implements
// and the concrete variants the editor ships with.
//
// Shape geometry is stored relative to the shape's position, so moving a
// shape never invalidates its bounding box. Any other geometry edit must be
// followed by CalculateBoundingBox before the box is read; the variants in
// this package do that themselves.
package shape

import (
	"fmt"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/render"
	"github.com/karmamapper/karmamapper/backend-go/internal/typeid"
)

// Key codes for non-printable keys delivered by the host.
const (
	KeyLeft  rune = 356
	KeyUp    rune = 357
	KeyRight rune = 358
	KeyDown  rune = 359
)

// Shape is the contract the editor and the render pipeline use. Coordinates
// passed in and returned are absolute.
type Shape interface {
	ID() string
	Type() string
	Name() string
	SetName(name string)
	GroupID() int
	SetGroupID(id int)

	Position() geom.Point
	SetPosition(p geom.Point)
	BoundingBox() geom.Rect
	CalculateBoundingBox()
	ApplyScale(factor geom.Point)
	IsInside(p geom.Point) bool

	// Render draws the shape for editing, handles included when in edit
	// mode. SendToGPU is the plain draw path used outside editing.
	Render(dl *render.DrawList)
	SendToGPU(dl *render.DrawList)

	SaveNode(n *document.ShapeNode) error
	LoadNode(n *document.ShapeNode) error

	IsInEditMode() bool
	EnableEditMode()
	DisableEditMode()
	// InterceptMouseClick lets an edited shape consume a click (for handle
	// picking). It reports whether the click was consumed.
	InterceptMouseClick(p geom.Point) bool
	// KeyPressed reports whether the key was consumed.
	KeyPressed(key rune) bool

	IsSelected() bool
	SetSelected(selected bool)
	MarkForDeletion()
	PendingDeletion() bool
}

// Base holds the state shared by every variant.
type Base struct {
	id       string
	typeTag  string
	name     string
	groupID  int
	position geom.Point
	localBox geom.Rect // relative to position

	selected        bool
	pendingDeletion bool
	editMode        bool
}

func newBase(typeTag string, pos geom.Point) Base {
	return Base{
		id:       typeid.NewShapeID(),
		typeTag:  typeTag,
		name:     typeTag,
		groupID:  document.NoGroup,
		position: pos,
	}
}

func (b *Base) ID() string           { return b.id }
func (b *Base) Type() string         { return b.typeTag }
func (b *Base) Name() string         { return b.name }
func (b *Base) SetName(name string)  { b.name = name }
func (b *Base) GroupID() int         { return b.groupID }
func (b *Base) Position() geom.Point { return b.position }

// SetGroupID sets the group, clamping anything below -1 to "no group".
func (b *Base) SetGroupID(id int) {
	if id < document.NoGroup {
		id = document.NoGroup
	}
	b.groupID = id
}

func (b *Base) SetPosition(p geom.Point) { b.position = p }

// BoundingBox returns the absolute box of the last CalculateBoundingBox.
func (b *Base) BoundingBox() geom.Rect {
	return b.localBox.Translate(b.position)
}

func (b *Base) IsInEditMode() bool { return b.editMode }
func (b *Base) EnableEditMode()    { b.editMode = true }
func (b *Base) DisableEditMode()   { b.editMode = false }

func (b *Base) IsSelected() bool          { return b.selected }
func (b *Base) SetSelected(selected bool) { b.selected = selected }
func (b *Base) MarkForDeletion()          { b.pendingDeletion = true }
func (b *Base) PendingDeletion() bool     { return b.pendingDeletion }

func (b *Base) saveBase(n *document.ShapeNode) {
	n.Type = b.typeTag
	n.ID = b.id
	n.Name = b.name
	n.GroupID = b.groupID
	n.Position = b.position
}

func (b *Base) loadBase(n *document.ShapeNode) error {
	if n.Type != b.typeTag {
		return fmt.Errorf("load %s shape from %q node", b.typeTag, n.Type)
	}
	if n.ID != "" && typeid.Validate(n.ID, typeid.PrefixShape) == nil {
		b.id = n.ID
	}
	if n.Name != "" {
		b.name = n.Name
	}
	b.SetGroupID(n.GroupID)
	b.position = n.Position
	return nil
}

// colors for group ids, cycled.
var groupPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
}

// GroupColor returns the fill colour used for a group id.
func GroupColor(groupID int) string {
	if groupID < 0 {
		return "#cccccc"
	}
	return groupPalette[groupID%len(groupPalette)]
}

func (b *Base) fill() string { return GroupColor(b.groupID) }

func (b *Base) stroke() string {
	switch {
	case b.editMode:
		return "#ffffff"
	case b.selected:
		return "#000000"
	default:
		return ""
	}
}
