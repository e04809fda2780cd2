package editor

import (
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/render"
)

// Frame is the host-facing snapshot of one drawn frame.
type Frame struct {
	Mode          string               `json:"mode"`
	SelectedCount int                  `json:"selectedCount"`
	MultiCount    int                  `json:"multiCount"`
	GroupBox      *geom.Rect           `json:"groupBox,omitempty"`
	Handles       []geom.Point         `json:"handles,omitempty"`
	CursorHidden  bool                 `json:"cursorHidden"`
	SaveName      string               `json:"saveName,omitempty"`
	Commands      []render.DrawCommand `json:"commands"`
}

// Frame draws the current state and returns it with the editor status.
func (e *Editor) Frame() Frame {
	var dl render.DrawList
	e.Draw(&dl)

	f := Frame{
		Mode:          e.mode.String(),
		SelectedCount: e.sel.SelectedCount(),
		MultiCount:    len(e.sel.MultiShapes()),
		CursorHidden:  e.cursorHidden,
		SaveName:      e.saveName,
		Commands:      dl.Commands(),
	}
	if e.mode.IsBatch() && e.transform.Active() {
		box := e.transform.Box()
		f.GroupBox = &box
		f.Handles = e.transform.Handles()
	}
	if f.Commands == nil {
		f.Commands = []render.DrawCommand{}
	}
	return f
}
