// Package editor is the interactive shape editor: the scene, single and
// multi selection, the batch transformer, and the edit mode state machine
// that decides which of them receive input.
//
// An Editor is not safe for concurrent use. The host owns it on a single
// goroutine and delivers Update, Draw and input callbacks in order.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/karmamapper/karmamapper/backend-go/internal/geom"
	"github.com/karmamapper/karmamapper/backend-go/internal/render"
	"github.com/karmamapper/karmamapper/backend-go/internal/shape"
	"github.com/karmamapper/karmamapper/backend-go/internal/store"
)

var (
	ErrNotEditing = errors.New("editor is not in edit mode")
	ErrNoSaveName = errors.New("no save file selected")
)

// LoadError is returned when a scene cannot be loaded. The scene that was
// open before the attempt is left as it was.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load from file %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Host is notified when the editor's input and frame hooks should be
// subscribed. Attach is called when editing turns on, Detach when it turns
// off.
type Host interface {
	Attach()
	Detach()
}

// Notifier shows a message to the user, like an alert dialog.
type Notifier interface {
	Alert(msg string)
}

// Mouse buttons.
const (
	ButtonLeft = iota
	ButtonMiddle
	ButtonRight
)

// MouseEvent is a mouse press in canvas coordinates.
type MouseEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
}

// Point returns the press position.
func (ev MouseEvent) Point() geom.Point { return geom.Pt(ev.X, ev.Y) }

// Editor edits a scene of shapes.
type Editor struct {
	scene     *Scene
	sel       *Selection
	transform Transformer
	mode      Mode
	mods      Modifiers

	store    store.Store
	host     Host
	notifier Notifier
	logger   *slog.Logger

	menuBounds   geom.Rect
	canvas       geom.Rect
	cursorHidden bool
	saveName     string
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithHost sets the hook host.
func WithHost(h Host) Option {
	return func(e *Editor) { e.host = h }
}

// WithNotifier sets where user-facing messages go. The default logs them.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithMenuBounds sets the screen area covered by the editor menu. Clicks in
// it are left to the menu.
func WithMenuBounds(r geom.Rect) Option {
	return func(e *Editor) { e.menuBounds = r }
}

// WithCanvasSize sets the canvas size used to place new shapes.
func WithCanvasSize(w, h float64) Option {
	return func(e *Editor) { e.canvas = geom.Rect{Width: w, Height: h} }
}

// New creates an editor over an empty scene. Shapes are built by factory and
// scenes are loaded from and saved to st.
func New(factory *shape.Factory, st store.Store, opts ...Option) *Editor {
	scene := NewScene(factory)
	e := &Editor{
		scene:  scene,
		sel:    NewSelection(scene),
		store:  st,
		canvas: geom.Rect{Width: 1280, Height: 720},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.notifier == nil {
		e.notifier = logNotifier{e.logger}
	}
	return e
}

type logNotifier struct{ logger *slog.Logger }

func (n logNotifier) Alert(msg string) { n.logger.Warn("editor notice", "message", msg) }

// --- Queries ---

func (e *Editor) Scene() *Scene         { return e.scene }
func (e *Editor) Selection() *Selection { return e.sel }
func (e *Editor) Mode() Mode            { return e.mode }
func (e *Editor) IsInEditMode() bool    { return e.mode != ModeOff }
func (e *Editor) Modifiers() Modifiers  { return e.mods }
func (e *Editor) CursorHidden() bool    { return e.cursorHidden }
func (e *Editor) SaveName() string      { return e.saveName }
func (e *Editor) GroupBox() geom.Rect   { return e.transform.Box() }
func (e *Editor) Handles() []geom.Point { return e.transform.Handles() }

// SetModifiers sets the keyboard modifiers held by the user.
func (e *Editor) SetModifiers(m Modifiers) { e.mods = m }

// SetMenuBounds updates the menu area after the host lays it out.
func (e *Editor) SetMenuBounds(r geom.Rect) { e.menuBounds = r }

// --- Mode ---

// EnableEditing turns editing on. It is a no-op if editing is already on.
func (e *Editor) EnableEditing() {
	if e.mode == ModeOff {
		_ = e.SetEditMode(ModeRender)
	}
}

// DisableEditing turns editing off.
func (e *Editor) DisableEditing() {
	_ = e.SetEditMode(ModeOff)
}

// SetEditMode moves the state machine to m and applies the side effects of
// the transition. Flip modes apply the flip and return to ModeBatchSelect.
func (e *Editor) SetEditMode(m Mode) error {
	from := e.mode
	if !canTransition(from, m) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, m)
	}
	if from == m {
		return nil
	}

	switch {
	case m == ModeOff:
		e.sel.SelectSingle("")
		e.clearMulti()
		if e.host != nil {
			e.host.Detach()
		}
	case m == ModeRender:
		if from == ModeOff && e.host != nil {
			e.host.Attach()
		}
		e.sel.SelectSingle("")
		if from.IsBatch() {
			e.clearMulti()
		}
	case m.IsBatch() && !from.IsBatch():
		e.sel.SelectSingle("")
		e.refreshGroup()
	}

	e.mode = m
	e.logger.Info("edit mode", "from", from.String(), "to", m.String())

	if m == ModeBatchFlipX || m == ModeBatchFlipY {
		e.refreshGroup()
		e.transform.Flip(e.sel.MultiShapes(), m == ModeBatchFlipX, m == ModeBatchFlipY)
		e.mode = ModeBatchSelect
		e.logger.Info("edit mode", "from", m.String(), "to", e.mode.String())
	}
	return nil
}

// --- Frame hooks ---

// Update runs once per frame before Draw. It removes shapes marked for
// deletion, drops selection references to them, and applies any handle drag
// according to the batch mode.
func (e *Editor) Update() {
	if e.mode == ModeOff {
		return
	}

	removed := e.scene.Sweep(func(sh shape.Shape) {
		if sh.ID() == e.sel.ActiveID() {
			e.sel.SelectSingle("")
		}
	})
	if e.sel.Prune() || len(removed) > 0 {
		e.refreshGroup()
	}

	if !e.mode.IsBatch() {
		return
	}
	i, pos, ok := e.transform.Pending()
	if !ok {
		return
	}
	switch e.mode {
	case ModeBatchScale:
		e.transform.Scale(e.sel.MultiShapes(), i, pos, e.mods)
	case ModeBatchMove:
		e.transform.Move(e.sel.MultiShapes(), i, pos)
	default:
		e.transform.SyncHandles()
	}
}

// Draw appends the frame's draw commands to dl. Outside edit mode shapes use
// their plain draw path.
func (e *Editor) Draw(dl *render.DrawList) {
	for _, sh := range e.scene.shapes {
		if sh.PendingDeletion() {
			continue
		}
		if e.mode == ModeOff {
			sh.SendToGPU(dl)
		} else {
			sh.Render(dl)
		}
	}
	if !e.mode.IsBatch() || !e.transform.Active() {
		return
	}
	dl.Rect(e.transform.Box(), "", groupBoxStroke, 1)
	for _, h := range e.transform.Handles() {
		dl.Handle(h, false)
	}
}

const groupBoxStroke = "#ff00ff"

// DragHandle moves group handle i to p. The next Update applies it.
func (e *Editor) DragHandle(i int, p geom.Point) bool {
	if !e.mode.IsBatch() {
		return false
	}
	return e.transform.DragHandle(i, p)
}

// --- Input ---

// MousePressed handles a click on the canvas.
func (e *Editor) MousePressed(ev MouseEvent) {
	if e.mode == ModeOff || ev.Button != ButtonLeft {
		return
	}
	p := ev.Point()
	if e.menuBounds.Contains(p) {
		return
	}

	switch e.mode {
	case ModeShape:
		if active := e.sel.Active(); active != nil && active.InterceptMouseClick(p) {
			return
		}
		for _, sh := range e.scene.Live() {
			if sh.IsInside(p) {
				e.sel.SelectSingle(sh.ID())
			}
		}
	case ModeBatchSelect:
		hit := false
		for _, sh := range e.scene.Live() {
			if sh.IsInside(p) {
				e.sel.ToggleMulti(sh.ID())
				hit = true
			}
		}
		if hit {
			e.refreshGroup()
		}
	}
}

// KeyPressed handles a key press. 'h' toggles the cursor; other keys go to
// the active shape.
func (e *Editor) KeyPressed(key rune) {
	if e.mode == ModeOff {
		return
	}
	if key == 'h' || key == 'H' {
		e.cursorHidden = !e.cursorHidden
		return
	}
	if active := e.sel.Active(); active != nil {
		active.KeyPressed(key)
	}
}

// --- Selection ---

// SelectNext selects the next shape in scene order. From ModeRender it
// enters single shape editing first. It does nothing in batch modes.
func (e *Editor) SelectNext() { e.cycle(e.sel.CycleNext) }

// SelectPrev is SelectNext in reverse.
func (e *Editor) SelectPrev() { e.cycle(e.sel.CyclePrev) }

func (e *Editor) cycle(step func()) {
	if e.mode == ModeRender {
		_ = e.SetEditMode(ModeShape)
	}
	if e.mode != ModeShape {
		return
	}
	step()
}

// ToggleMultiSelect adds or removes a shape from the multi-selection.
func (e *Editor) ToggleMultiSelect(id string) bool {
	if !e.mode.IsBatch() {
		return false
	}
	on := e.sel.ToggleMulti(id)
	e.refreshGroup()
	return on
}

// SelectAll multi-selects every shape.
func (e *Editor) SelectAll() {
	if !e.mode.IsBatch() {
		return
	}
	e.sel.SelectAllMulti()
	e.refreshGroup()
}

// SelectNone empties the multi-selection.
func (e *Editor) SelectNone() {
	e.clearMulti()
}

func (e *Editor) clearMulti() {
	e.sel.ClearMulti()
	e.transform.Clear()
}

func (e *Editor) refreshGroup() {
	e.transform.Recompute(e.sel.MultiShapes())
}

// --- Shapes ---

// AddShape creates a shape of typeName at the canvas center. In render or
// shape mode the new shape becomes the active one; in batch modes it is only
// added.
func (e *Editor) AddShape(typeName string) (shape.Shape, error) {
	if e.mode == ModeOff {
		return nil, ErrNotEditing
	}
	sh, err := e.scene.Factory().Create(typeName, e.canvas.Center())
	if err != nil {
		e.logger.Warn("add shape", "type", typeName, "error", err)
		return nil, err
	}
	e.scene.Add(sh)

	if e.mode == ModeRender {
		_ = e.SetEditMode(ModeShape)
	}
	if e.mode == ModeShape {
		e.sel.SelectSingle(sh.ID())
	}
	return sh, nil
}

// DeleteActive marks the active shape for deletion and deselects it. The
// shape leaves the scene on the next Update.
func (e *Editor) DeleteActive() bool {
	active := e.sel.Active()
	if active == nil {
		return false
	}
	active.MarkForDeletion()
	e.sel.SelectSingle("")
	return true
}

// --- Persistence ---

// SetSaveName selects the scene file used by LoadScene and SaveScene.
func (e *Editor) SetSaveName(name string) { e.saveName = name }

// LoadScene replaces the scene with the stored scene name. On failure the
// user is alerted and the current scene is kept.
func (e *Editor) LoadScene(ctx context.Context, name string) error {
	err := e.loadScene(ctx, name)
	if err != nil {
		lerr := &LoadError{Name: name, Err: err}
		e.logger.Warn("load scene", "name", name, "error", err)
		e.notifier.Alert(lerr.Error())
		return lerr
	}
	e.saveName = name
	e.logger.Info("scene loaded", "name", name, "shapes", e.scene.Len())
	return nil
}

func (e *Editor) loadScene(ctx context.Context, name string) error {
	if name == "" {
		return ErrNoSaveName
	}
	doc, err := e.store.Load(ctx, name)
	if err != nil {
		return err
	}

	if err := e.scene.Replace(doc); err != nil {
		return err
	}
	e.sel.Reset()
	e.transform.Clear()
	return nil
}

// ListScenes returns the names of the stored scenes.
func (e *Editor) ListScenes(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// SaveScene stores the scene under the selected save name.
func (e *Editor) SaveScene(ctx context.Context) error {
	if e.saveName == "" {
		e.notifier.Alert("In order to save, you must first select a configuration file.")
		return ErrNoSaveName
	}
	doc, err := e.scene.ToDocument(e.saveName)
	if err != nil {
		return err
	}
	if err := e.store.Save(ctx, e.saveName, doc); err != nil {
		e.logger.Error("save scene", "name", e.saveName, "error", err)
		e.notifier.Alert(fmt.Sprintf("Failed to save to file: %s", e.saveName))
		return err
	}
	e.logger.Info("scene saved", "name", e.saveName, "shapes", len(doc.Shapes))
	return nil
}
