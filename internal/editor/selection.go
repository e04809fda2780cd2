package editor

import "github.com/karmamapper/karmamapper/backend-go/internal/shape"

// Selection tracks the single active shape and the ordered multi-selection.
// Both hold shape IDs, never shapes, and every read checks the scene first,
// so a removed shape reads as "not selected".
type Selection struct {
	scene  *Scene
	active string
	multi  []string
}

// NewSelection returns an empty selection over scene.
func NewSelection(scene *Scene) *Selection {
	return &Selection{scene: scene}
}

// Active returns the active shape, or nil if there is none or it has left
// the scene.
func (sel *Selection) Active() shape.Shape {
	sh, ok := sel.scene.Get(sel.active)
	if !ok {
		return nil
	}
	return sh
}

// ActiveID returns the active shape's ID, or "" if there is no live one.
func (sel *Selection) ActiveID() string {
	if sh := sel.Active(); sh != nil {
		return sh.ID()
	}
	return ""
}

// SelectSingle makes the shape with id the active one, leaving edit mode on
// the previous one. An empty or stale id, or one marked for deletion, clears
// the active selection.
func (sel *Selection) SelectSingle(id string) {
	if prev := sel.Active(); prev != nil {
		prev.DisableEditMode()
		prev.SetSelected(false)
	}

	next, ok := sel.scene.Get(id)
	if !ok || next.PendingDeletion() {
		sel.active = ""
		return
	}
	sel.active = id
	next.SetSelected(true)
	next.EnableEditMode()
}

// SelectedCount is the value of the "selected shapes" label: 0 or 1.
func (sel *Selection) SelectedCount() int {
	if sel.Active() != nil {
		return 1
	}
	return 0
}

// CycleNext selects the shape after the active one in scene order, wrapping
// to the first. With a single shape it toggles between it and nothing.
func (sel *Selection) CycleNext() {
	sel.cycle(1)
}

// CyclePrev is CycleNext in reverse.
func (sel *Selection) CyclePrev() {
	sel.cycle(-1)
}

func (sel *Selection) cycle(step int) {
	live := sel.scene.Live()
	n := len(live)
	i := -1
	if active := sel.Active(); active != nil {
		for j, sh := range live {
			if sh.ID() == active.ID() {
				i = j
				break
			}
		}
	}
	switch {
	case n == 0:
		sel.SelectSingle("")
	case i < 0:
		if step > 0 {
			sel.SelectSingle(live[0].ID())
		} else {
			sel.SelectSingle(live[n-1].ID())
		}
	case n == 1:
		sel.SelectSingle("")
	default:
		sel.SelectSingle(live[(i+step+n)%n].ID())
	}
}

// ToggleMulti adds the shape to the multi-selection, or removes it if it is
// already there. It reports whether the shape is selected afterwards. Stale
// ids and shapes marked for deletion are never added.
func (sel *Selection) ToggleMulti(id string) bool {
	for i, m := range sel.multi {
		if m == id {
			sel.multi = append(sel.multi[:i], sel.multi[i+1:]...)
			if sh, ok := sel.scene.Get(id); ok {
				sh.SetSelected(false)
			}
			return false
		}
	}
	sh, ok := sel.scene.Get(id)
	if !ok || sh.PendingDeletion() {
		return false
	}
	sel.multi = append(sel.multi, id)
	sh.SetSelected(true)
	return true
}

// IsMultiSelected reports whether id is in the multi-selection.
func (sel *Selection) IsMultiSelected(id string) bool {
	for _, m := range sel.multi {
		if m == id {
			return true
		}
	}
	return false
}

// SelectAllMulti puts every live scene shape in the multi-selection, in
// scene order.
func (sel *Selection) SelectAllMulti() {
	sel.ClearMulti()
	for _, sh := range sel.scene.Live() {
		sel.multi = append(sel.multi, sh.ID())
		sh.SetSelected(true)
	}
}

// ClearMulti empties the multi-selection.
func (sel *Selection) ClearMulti() {
	for _, sh := range sel.MultiShapes() {
		sh.SetSelected(false)
	}
	sel.multi = nil
}

// MultiIDs returns the multi-selected IDs in selection order.
func (sel *Selection) MultiIDs() []string {
	return append([]string(nil), sel.multi...)
}

// MultiShapes resolves the multi-selection, skipping shapes no longer in the
// scene.
func (sel *Selection) MultiShapes() []shape.Shape {
	out := make([]shape.Shape, 0, len(sel.multi))
	for _, id := range sel.multi {
		if sh, ok := sel.scene.Get(id); ok {
			out = append(out, sh)
		}
	}
	return out
}

// Prune drops references to shapes that left the scene. It reports whether
// the multi-selection changed.
func (sel *Selection) Prune() bool {
	if sel.active != "" && !sel.scene.Exists(sel.active) {
		sel.active = ""
	}
	kept := make([]string, 0, len(sel.multi))
	for _, id := range sel.multi {
		if sel.scene.Exists(id) {
			kept = append(kept, id)
		}
	}
	changed := len(kept) != len(sel.multi)
	sel.multi = kept
	return changed
}

// Reset forgets both selections without touching the shapes.
func (sel *Selection) Reset() {
	sel.active = ""
	sel.multi = nil
}
