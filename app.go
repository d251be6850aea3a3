package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/chazu/mannequin/pkg/config"
	"github.com/chazu/mannequin/pkg/geom"
	"github.com/chazu/mannequin/pkg/kernel"
	"github.com/chazu/mannequin/pkg/kernel/sdfx"
	"github.com/chazu/mannequin/pkg/mannequin"
	"github.com/chazu/mannequin/pkg/manip"
	"github.com/chazu/mannequin/pkg/pick"
	"github.com/chazu/mannequin/pkg/rig"
	"github.com/chazu/mannequin/pkg/script"
	"github.com/chazu/mannequin/pkg/snapshot"
	"github.com/chazu/mannequin/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Events emitted to the frontend.
const (
	EventState         = "mannequin:state"
	EventHostSelection = "mannequin:host-selection"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
// All tool access goes through mu; the tool itself is single-threaded.
type App struct {
	ctx context.Context

	mu      sync.Mutex
	base    config.Config
	kernel  kernel.Kernel
	tool    *mannequin.Tool
	view    *geom.Viewport
	proxy   *tessellate.Proxy
	console *script.Console

	hostFaces []int
	hostJoint rig.JointID
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices      []float32 `json:"vertices"`
	Normals       []float32 `json:"normals"`
	Indices       []uint32  `json:"indices"`
	FaceInfluence []int     `json:"faceInfluence"`
	Colors        []string  `json:"colors"` // per influence
}

// InfluenceData describes one pickable joint.
type InfluenceData struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Styles string `json:"styles"`
	Faces  int    `json:"faces"`
}

// HandleData is the active manipulator, ready to draw.
type HandleData struct {
	Kind       string       `json:"kind"`
	Joint      string       `json:"joint"`
	Center     [3]float64   `json:"center"`
	Radius     float64      `json:"radius"`
	Ends       [][3]float64 `json:"ends"`
	ConeHeight float64      `json:"coneHeight"`
	ConeRadius float64      `json:"coneRadius"`
	Active     string       `json:"active"`
}

// StateData is the tool state after an event.
type StateData struct {
	Refresh   bool        `json:"refresh"`
	Highlight string      `json:"highlight"`
	Selected  string      `json:"selected"`
	Style     string      `json:"style"`
	Dragging  bool        `json:"dragging"`
	Help      string      `json:"help"`
	Label     *[3]float64 `json:"label"`
	HostFaces []int       `json:"hostFaces"`
	HostJoint string      `json:"hostJoint"`
	Handle    HandleData  `json:"handle"`
	Error     string      `json:"error,omitempty"`
}

// LoadResult is returned when the proxy mannequin is built and bound.
type LoadResult struct {
	Mesh       MeshData        `json:"mesh"`
	Influences []InfluenceData `json:"influences"`
	State      StateData       `json:"state"`
	Error      string          `json:"error,omitempty"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Value    string          `json:"value"`
	Output   []string        `json:"output"`
	Commands []string        `json:"commands"`
	Errors   []EvalErrorData `json:"errors"`
	State    StateData       `json:"state"`
}

// NewApp creates an App whose options persist under the user config
// directory.
func NewApp() *App {
	return newApp(config.NewFileStore(defaultOptionsPath()), sdfx.New())
}

func newApp(store config.Store, k kernel.Kernel) *App {
	a := &App{
		base:    config.Default(),
		kernel:  k,
		console: script.NewConsole(),
	}
	a.tool = mannequin.NewTool(store, a.base, hostSink{a})
	vp, err := defaultViewport(960, 720)
	if err != nil {
		panic(err)
	}
	a.view = vp
	a.tool.SetView(vp)
	return a
}

func defaultOptionsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "mannequin", "options.json")
}

// defaultViewport frames the 20-unit demo mannequin from the front.
func defaultViewport(width, height float64) (*geom.Viewport, error) {
	return geom.NewViewport(
		v3.Vec{X: 0, Y: 11, Z: 42},
		v3.Vec{X: 0, Y: 10, Z: 0},
		v3.Vec{Y: 1},
		40*math.Pi/180,
		width, height,
	)
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// hostSink mirrors the tool's host selection to the frontend. It runs with
// a.mu held.
type hostSink struct{ a *App }

func (h hostSink) ReplaceSelection(faces []int) {
	h.a.hostFaces = append(h.a.hostFaces[:0], faces...)
	h.a.hostJoint = rig.NoJoint
	h.a.emit(EventHostSelection, append([]int(nil), faces...))
}

func (h hostSink) SelectJoint(id rig.JointID) {
	h.a.hostFaces = h.a.hostFaces[:0]
	h.a.hostJoint = id
	h.a.emit(EventHostSelection, string(id))
}

func (h hostSink) ClearSelection() {
	h.a.hostFaces = h.a.hostFaces[:0]
	h.a.hostJoint = rig.NoJoint
	h.a.emit(EventHostSelection, nil)
}

func (a *App) emit(name string, data ...interface{}) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, name, data...)
}

// LoadMannequin builds the demo skeleton's proxy mesh and binds it.
func (a *App) LoadMannequin() LoadResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	skel := rig.Mannequin()
	proxy, err := tessellate.Tessellate(skel, a.kernel, tessellate.DefaultOptions())
	if err != nil {
		log.Printf("LoadMannequin: %v", err)
		return LoadResult{Error: err.Error()}
	}
	if err := a.tool.Bind(proxy.Mesh, proxy.Skin, skel); err != nil {
		log.Printf("LoadMannequin bind: %v", err)
		return LoadResult{Error: err.Error()}
	}
	a.proxy = proxy

	faces, joints, _ := a.tool.FaceInfluences()
	colors := make([]string, len(joints))
	for i := range joints {
		r, g, b := snapshot.Palette(i)
		colors[i] = fmt.Sprintf("#%02x%02x%02x", to8(r), to8(g), to8(b))
	}
	infl, _ := a.tool.Influences()
	out := LoadResult{
		Mesh: MeshData{
			Vertices:      proxy.Render.Vertices,
			Normals:       proxy.Render.Normals,
			Indices:       proxy.Render.Indices,
			FaceInfluence: faces,
			Colors:        colors,
		},
		Influences: make([]InfluenceData, len(infl)),
		State:      a.stateLocked(true, nil),
	}
	for i, inf := range infl {
		out.Influences[i] = InfluenceData{
			Path:   string(inf.Joint),
			Name:   inf.Joint.Name(),
			Styles: inf.Styles.String(),
			Faces:  inf.Faces,
		}
	}
	return out
}

func to8(c float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, c)) * 255)) }

// Resize changes the viewport size in pixels.
func (a *App) Resize(width, height float64) StateData {
	a.mu.Lock()
	defer a.mu.Unlock()
	vp, err := geom.NewViewport(a.view.Eye, a.view.Target, a.view.Up, a.view.FovY, width, height)
	if err != nil {
		return a.stateLocked(false, err)
	}
	a.view = vp
	a.tool.SetView(vp)
	return a.stateLocked(true, nil)
}

// PointerMove updates the highlight for the pixel under the pointer.
func (a *App) PointerMove(x, y float64) StateData {
	return a.event(func() (bool, error) {
		return a.tool.OnPointerMove(pick.CursorAt(a.view, x, y))
	})
}

// Press commits the highlight or starts a move drag.
func (a *App) Press() StateData {
	return a.event(a.tool.OnPress)
}

// Drag follows the pointer during a move drag.
func (a *App) Drag(x, y float64) StateData {
	return a.event(func() (bool, error) {
		return a.tool.OnDrag(pick.CursorAt(a.view, x, y))
	})
}

// Release ends a move drag.
func (a *App) Release() StateData {
	return a.event(a.tool.OnRelease)
}

// Abort cancels a drag and clears the selection.
func (a *App) Abort() StateData {
	return a.event(func() (bool, error) { return true, a.tool.OnAbort() })
}

// CycleStyle flips the selected joint between rotate and translate.
func (a *App) CycleStyle() StateData {
	return a.event(a.tool.OnCycleStyle)
}

// State returns the current tool state without changing it.
func (a *App) State() StateData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked(false, nil)
}

func (a *App) event(fn func() (bool, error)) StateData {
	a.mu.Lock()
	defer a.mu.Unlock()
	refresh, err := fn()
	st := a.stateLocked(refresh, err)
	if refresh {
		a.emit(EventState, st)
	}
	return st
}

func (a *App) stateLocked(refresh bool, err error) StateData {
	sel := a.tool.CurrentSelection()
	st := StateData{
		Refresh:   refresh,
		Highlight: string(a.tool.CurrentHighlight()),
		Selected:  string(sel.Joint),
		Style:     sel.Style.String(),
		Dragging:  a.tool.Dragging(),
		Help:      a.tool.HelpText(),
		HostFaces: append([]int{}, a.hostFaces...),
		HostJoint: string(a.hostJoint),
		Handle:    handleData(a.tool.CurrentManipulatorGeometry()),
	}
	if p, ok := a.tool.LabelAnchor(); ok {
		st.Label = &[3]float64{p.X, p.Y, p.Z}
	}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}

func handleData(g manip.Geometry) HandleData {
	h := HandleData{
		Kind:   g.Kind.String(),
		Joint:  string(g.Joint),
		Center: [3]float64{g.Center.X, g.Center.Y, g.Center.Z},
		Radius: g.Radius,
		Ends:   [][3]float64{},
		Active: g.Active.String(),
	}
	if g.Kind == manip.KindMove {
		for _, e := range g.Ends {
			h.Ends = append(h.Ends, [3]float64{e.X, e.Y, e.Z})
		}
		h.ConeHeight, h.ConeRadius = g.ConeHeight, g.ConeRadius
	}
	return h
}

// Evaluate runs console source against the tool and applies the selection
// commands it issues. This is the binding called by the frontend console.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Output:   []string{},
		Commands: []string{},
		Errors:   []EvalErrorData{},
	}

	a.mu.Lock()
	st := script.Snapshot(a.tool)
	a.mu.Unlock()

	res, evalErrs, err := a.console.Evaluate(source, st)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		result.State = a.State()
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		result.State = a.State()
		return result
	}

	result.Value = res.Value
	result.Output = append(result.Output, res.Output...)
	for _, c := range res.Commands {
		result.Commands = append(result.Commands, c.String())
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	changed, err := script.Apply(a.tool, res.Commands)
	if err != nil {
		log.Printf("Evaluate apply error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	result.State = a.stateLocked(changed, err)
	if changed {
		a.emit(EventState, result.State)
	}
	return result
}

// ExportSnapshot writes the influence map as seen through the current view.
// The extension of path picks PNG, WebP or TGA. It returns an error message,
// or "" on success.
func (a *App) ExportSnapshot(path string) string {
	if err := a.exportSnapshot(path); err != nil {
		log.Printf("ExportSnapshot: %v", err)
		return err.Error()
	}
	return ""
}

func (a *App) exportSnapshot(path string) error {
	a.mu.Lock()
	scene, err := snapshot.SceneFromTool(a.tool)
	vp := a.view
	a.mu.Unlock()
	if err != nil {
		if errors.Is(err, mannequin.ErrNotBound) {
			return fmt.Errorf("nothing loaded: %w", err)
		}
		return err
	}
	img, err := snapshot.Render(scene, vp, snapshot.Options{Supersample: 2})
	if err != nil {
		return err
	}
	return snapshot.Save(path, img)
}
