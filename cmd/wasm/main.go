//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"syscall/js"
	"unicode/utf8"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/editor"
	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/render"
	"github.com/karmamapper/karmamapper/backend-go/internal/shape"
	"github.com/karmamapper/karmamapper/backend-go/internal/store"
)

var (
	ed     *editor.Editor
	scenes *store.MemoryStore
)

// jsHost mirrors the edit hook state into a global the page polls before
// scheduling update/draw.
type jsHost struct{}

func (jsHost) Attach() { js.Global().Set("karmaMapperEditing", js.ValueOf(true)) }
func (jsHost) Detach() { js.Global().Set("karmaMapperEditing", js.ValueOf(false)) }

// jsNotifier forwards editor notices to karmaMapperAlert, or window.alert.
type jsNotifier struct{}

func (jsNotifier) Alert(msg string) {
	if cb := js.Global().Get("karmaMapperAlert"); cb.Type() == js.TypeFunction {
		cb.Invoke(msg)
		return
	}
	js.Global().Call("alert", msg)
}

func main() {
	scenes = store.NewMemoryStore()
	if err := scenes.Save(context.Background(), "sample", document.NewSampleScene()); err != nil {
		slog.Error("seed sample scene", "error", err)
	}

	ed = editor.New(shape.NewDefaultFactory(nil), scenes,
		editor.WithHost(jsHost{}),
		editor.WithNotifier(jsNotifier{}),
	)

	// Create the editor API object
	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("guiEvent", js.FuncOf(guiEvent))
	api.Set("mousePressed", js.FuncOf(mousePressed))
	api.Set("keyPressed", js.FuncOf(keyPressed))
	api.Set("setModifiers", js.FuncOf(setModifiers))
	api.Set("dragHandle", js.FuncOf(dragHandle))
	api.Set("setMenuBounds", js.FuncOf(setMenuBounds))
	api.Set("importScene", js.FuncOf(importScene))
	api.Set("update", js.FuncOf(update))

	// --- Queries (frontend ← backend) ---
	api.Set("frame", js.FuncOf(frame))
	api.Set("drawCommands", js.FuncOf(drawCommands))
	api.Set("exportScene", js.FuncOf(exportScene))
	api.Set("shapeTypes", js.FuncOf(shapeTypes))

	// Register on global scope
	js.Global().Set("karmaMapperEditor", api)

	// Signal that WASM is ready
	js.Global().Set("karmaMapperWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func guiEvent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing event JSON"})
	}
	var ev editor.GUIEvent
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return result(err)
	}
	return result(ed.HandleGUIEvent(context.Background(), ev))
}

func mousePressed(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ev := editor.MouseEvent{X: args[0].Float(), Y: args[1].Float()}
	if len(args) > 2 {
		ev.Button = args[2].Int()
	}
	ed.MousePressed(ev)
	return nil
}

func keyPressed(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if args[0].Type() == js.TypeNumber {
		ed.KeyPressed(rune(args[0].Int()))
		return nil
	}
	if r, _ := utf8.DecodeRuneInString(args[0].String()); r != utf8.RuneError {
		ed.KeyPressed(r)
	}
	return nil
}

func setModifiers(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetModifiers(editor.Modifiers{LockAspect: args[0].Bool(), MirrorAroundCenter: args[1].Bool()})
	return nil
}

func dragHandle(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	return js.ValueOf(ed.DragHandle(args[0].Int(), geom.Pt(args[1].Float(), args[2].Float())))
}

func setMenuBounds(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return nil
	}
	ed.SetMenuBounds(geom.Rect{X: args[0].Float(), Y: args[1].Float(), Width: args[2].Float(), Height: args[3].Float()})
	return nil
}

// importScene stores an XML scene under a name so "load" can open it.
func importScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "missing name or XML"})
	}
	doc, err := document.Decode(strings.NewReader(args[1].String()))
	if err != nil {
		return result(err)
	}
	return result(scenes.Save(context.Background(), args[0].String(), doc))
}

func update(this js.Value, args []js.Value) interface{} {
	ed.Update()
	return nil
}

// --- Query Handlers ---

func frame(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(ed.Frame())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

// drawCommands returns only the frame's draw list, for hosts that track the
// editor state themselves.
func drawCommands(this js.Value, args []js.Value) interface{} {
	data, err := render.DrawCommandsToJSON(ed.Frame().Commands)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(data)
}

func exportScene(this js.Value, args []js.Value) interface{} {
	doc, err := ed.Scene().ToDocument(ed.SaveName())
	if err != nil {
		return js.ValueOf("")
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(data))
}

func shapeTypes(this js.Value, args []js.Value) interface{} {
	types := ed.Scene().Factory().RegisteredTypes()
	out := make([]interface{}, len(types))
	for i, t := range types {
		out[i] = t
	}
	return js.ValueOf(out)
}
