package editor

import (
	"context"
	"errors"
	"fmt"
)

// GUI event names raised by the editor menus.
const (
	EventLoad          = "load"
	EventSave          = "save"
	EventConfigFile    = "configFile"
	EventAddShape      = "addShape"
	EventDelete        = "delete"
	EventNext          = "next"
	EventPrev          = "prev"
	EventEnableEditing = "enableEditing"
	EventShapeEditing  = "shapeEditing"
	EventBatchSelect   = "batchSelect"
	EventBatchScale    = "batchScale"
	EventBatchMove     = "batchMove"
	EventFlipX         = "flipX"
	EventFlipY         = "flipY"
	EventSelectAll     = "selectAll"
	EventSelectNone    = "selectNone"
	EventCancel        = "cancel"
)

var ErrUnknownEvent = errors.New("unknown gui event")

// GUIEvent is a button, toggle or dropdown event. Buttons fire on Value
// true. Toggles carry their new state in Value. Dropdowns carry the chosen
// entry in Text.
type GUIEvent struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
	Text  string `json:"text,omitempty"`
}

// HandleGUIEvent dispatches a menu event.
func (e *Editor) HandleGUIEvent(ctx context.Context, ev GUIEvent) error {
	switch ev.Name {
	case EventEnableEditing:
		if ev.Value {
			e.EnableEditing()
		} else {
			e.DisableEditing()
		}
		return nil
	case EventConfigFile:
		e.SetSaveName(ev.Text)
		return nil
	}

	if !e.IsInEditMode() {
		return ErrNotEditing
	}

	switch ev.Name {
	case EventLoad:
		if ev.Value {
			return e.LoadScene(ctx, e.saveName)
		}
	case EventSave:
		if ev.Value {
			return e.SaveScene(ctx)
		}
	case EventAddShape:
		if ev.Text != "" {
			_, err := e.AddShape(ev.Text)
			return err
		}
	case EventDelete:
		if ev.Value {
			e.DeleteActive()
		}
	case EventNext:
		if ev.Value {
			e.SelectNext()
		}
	case EventPrev:
		if ev.Value {
			e.SelectPrev()
		}
	case EventShapeEditing:
		if ev.Value {
			return e.SetEditMode(ModeShape)
		}
		return e.SetEditMode(ModeRender)
	case EventBatchSelect:
		if ev.Value {
			return e.SetEditMode(ModeBatchSelect)
		}
		if e.mode.IsBatch() {
			return e.SetEditMode(ModeRender)
		}
	case EventBatchScale:
		return e.batchToggle(ModeBatchScale, ev.Value)
	case EventBatchMove:
		return e.batchToggle(ModeBatchMove, ev.Value)
	case EventFlipX:
		return e.batchToggle(ModeBatchFlipX, ev.Value)
	case EventFlipY:
		return e.batchToggle(ModeBatchFlipY, ev.Value)
	case EventSelectAll:
		if ev.Value {
			e.SelectAll()
		}
	case EventSelectNone:
		if ev.Value {
			e.SelectNone()
		}
	case EventCancel:
		if ev.Value && e.mode.IsBatch() {
			return e.SetEditMode(ModeRender)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Name)
	}
	return nil
}

// batchToggle enters m when the toggle turns on and falls back to
// ModeBatchSelect when it turns off.
func (e *Editor) batchToggle(m Mode, on bool) error {
	if on {
		return e.SetEditMode(m)
	}
	if e.mode.IsBatch() {
		return e.SetEditMode(ModeBatchSelect)
	}
	return nil
}
