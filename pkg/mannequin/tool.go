// Package mannequin implements joint picking on a skinned mesh: hovering a
// face highlights the joint that dominates it, pressing selects that joint
// and attaches a rotate or move manipulator to it.
//
// A Tool is driven by serial host events (pointer move, press, drag,
// release, abort, cycle style). It is not safe for concurrent use; hosts that
// receive events on several goroutines must serialize them.
package mannequin

import (
	"errors"
	"fmt"

	"github.com/chazu/mannequin/pkg/config"
	"github.com/chazu/mannequin/pkg/influence"
	"github.com/chazu/mannequin/pkg/manip"
	"github.com/chazu/mannequin/pkg/pick"
	"github.com/chazu/mannequin/pkg/rig"
)

var (
	// ErrNotBound is returned by event handlers before a mesh and skin are
	// bound.
	ErrNotBound = errors.New("mannequin: no mesh bound")
	// ErrInconsistentTable is returned when the influence table no longer
	// covers the bound mesh's faces.
	ErrInconsistentTable = errors.New("mannequin: influence table does not match mesh")
)

// HostSelectionSink receives the faces or joint the host should mark as
// selected.
type HostSelectionSink interface {
	ReplaceSelection(faces []int)
	SelectJoint(id rig.JointID)
	ClearSelection()
}

type nopSink struct{}

func (nopSink) ReplaceSelection([]int)  {}
func (nopSink) SelectJoint(rig.JointID) {}
func (nopSink) ClearSelection()         {}

// Selection is the committed joint and the manipulator style in use.
type Selection struct {
	Joint     rig.JointID
	Style     influence.Style // style in use
	Available influence.Style // styles the joint offers
	Longest   float64         // longest joint segment of the skeleton
	Ratio     float64         // joint length ratio used for the handle scale
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool { return s.Joint.IsZero() }

// tables is the immutable lookup state built at bind time.
type tables struct {
	faces  *influence.Table
	joints *influence.JointIndex
}

// Tool is the picking and selection state machine.
type Tool struct {
	store config.Store
	base  config.Config
	cfg   config.Config
	sink  HostSelectionSink
	view  pick.View

	mesh rig.MeshProvider
	skin rig.SkinBindingProvider
	skel rig.SkeletonProvider
	tbl  *tables

	highlight rig.JointID
	sel       Selection
	requested influence.Style
	handle    manip.Handle
	nextID    uint64

	cursor    pick.Cursor
	hasCursor bool
	hoverAxis manip.Axis
	drag      *manip.Drag

	// OnSelectionChanged, if set, runs after every committed selection
	// change, including changes to no selection.
	OnSelectionChanged func(sel Selection)
}

// NewTool returns an unbound tool. base supplies the options that are not
// persisted in store (leaf styles, global and handle size). A nil sink
// discards host selection updates.
func NewTool(store config.Store, base config.Config, sink HostSelectionSink) *Tool {
	if store == nil {
		store = config.NewMemoryStore()
	}
	if sink == nil {
		sink = nopSink{}
	}
	base.Resolve()
	return &Tool{
		store:     store,
		base:      base,
		cfg:       config.Snapshot(store, base),
		sink:      sink,
		handle:    manip.None,
		hoverAxis: manip.AxisNone,
	}
}

// SetView sets the camera used for screen-space handle tests and drag
// planes. Without a view, move handles cannot be hit.
func (t *Tool) SetView(v pick.View) { t.view = v }

// Config returns the option snapshot in effect.
func (t *Tool) Config() config.Config { return t.cfg }

// Bound reports whether a mesh and skin are bound.
func (t *Tool) Bound() bool { return t.tbl != nil }

// Bind builds the lookup tables for a mesh and skin and makes them current.
// Any previous selection and highlight are cleared: a drag in progress is
// cancelled and OnSelectionChanged reports the empty selection. On error the
// previous binding is left untouched.
func (t *Tool) Bind(mesh rig.MeshProvider, skin rig.SkinBindingProvider, skel rig.SkeletonProvider) error {
	findings := rig.ValidateBinding(mesh, skin)
	var errs []error
	for _, f := range findings {
		if f.Severity == rig.SeverityError {
			errs = append(errs, f)
			continue
		}
		Logger().Warn("binding warning", "msg", f.Message)
	}
	if len(errs) > 0 {
		return fmt.Errorf("mannequin: bind: %w", errors.Join(errs...))
	}

	cfg := config.Snapshot(t.store, t.base)
	faces, err := influence.BuildTable(mesh, skin)
	if err != nil {
		return fmt.Errorf("mannequin: bind: %w", err)
	}
	next := &tables{
		faces:  faces,
		joints: influence.BuildJointIndex(skin, skel, cfg.LeafStyles),
	}

	// A drag belongs to the old skeleton; put the joint back first.
	t.endDrag(true)
	hadSelection := !t.sel.IsZero()
	t.resetState()
	t.cfg = cfg
	t.mesh, t.skin, t.skel = mesh, skin, skel
	t.tbl = next
	t.sink.ClearSelection()
	if hadSelection && t.OnSelectionChanged != nil {
		t.OnSelectionChanged(Selection{})
	}

	Logger().Info("mesh bound",
		"faces", faces.Len(),
		"influences", next.joints.Len(),
		"longest", next.joints.LongestSegment())
	return nil
}

// Unbind clears selection, highlight and tables.
func (t *Tool) Unbind() {
	if t.tbl == nil {
		return
	}
	t.Select(rig.NoJoint, influence.StyleNone)
	t.resetState()
	t.mesh, t.skin, t.skel = nil, nil, nil
	t.tbl = nil
	t.sink.ClearSelection()
	Logger().Info("mesh unbound")
}

// resetState drops all per-selection state without notifying anyone.
func (t *Tool) resetState() {
	t.highlight = rig.NoJoint
	t.sel = Selection{}
	t.requested = influence.StyleNone
	t.handle = manip.None
	t.hoverAxis = manip.AxisNone
	t.drag = nil
	t.hasCursor = false
}

// check verifies the binding. On failure it clears everything and tells the
// host to drop its selection.
func (t *Tool) check() error {
	var err error
	switch {
	case t.tbl == nil:
		err = ErrNotBound
	case t.tbl.faces.Len() != t.mesh.PolygonCount():
		err = fmt.Errorf("%w: %d entries for %d faces",
			ErrInconsistentTable, t.tbl.faces.Len(), t.mesh.PolygonCount())
	default:
		return nil
	}
	hadState := !t.highlight.IsZero() || !t.sel.IsZero()
	t.resetState()
	t.sink.ClearSelection()
	if hadState && t.OnSelectionChanged != nil {
		t.OnSelectionChanged(Selection{})
	}
	Logger().Warn("selection cleared", "err", err)
	return err
}

// CurrentHighlight returns the joint under the cursor, if any.
func (t *Tool) CurrentHighlight() rig.JointID { return t.highlight }

// CurrentSelection returns the committed selection.
func (t *Tool) CurrentSelection() Selection { return t.sel }

// CurrentHandle returns the active manipulator.
func (t *Tool) CurrentHandle() manip.Handle { return t.handle }

// Dragging reports whether a move drag is in progress.
func (t *Tool) Dragging() bool { return t.drag != nil }

// CurrentManipulatorGeometry evaluates the active manipulator against the
// current pose.
func (t *Tool) CurrentManipulatorGeometry() manip.Geometry {
	if t.handle.IsNone() || t.skel == nil {
		return manip.None.Geometry(nil, manip.AxisNone)
	}
	active := t.hoverAxis
	if t.drag != nil {
		active = t.drag.Axis
	}
	return t.handle.Geometry(t.skel, active)
}

// Skeleton returns the bound skeleton, or nil.
func (t *Tool) Skeleton() rig.SkeletonProvider { return t.skel }

// Mesh returns the bound mesh, or nil.
func (t *Tool) Mesh() rig.MeshProvider { return t.mesh }

// FaceInfluences returns the dominant influence index of every face and the
// influence joints, or false when unbound.
func (t *Tool) FaceInfluences() ([]int, []rig.JointID, bool) {
	if t.tbl == nil {
		return nil, nil, false
	}
	out := make([]int, t.tbl.faces.Len())
	for face := range out {
		out[face], _ = t.tbl.faces.Influence(face)
	}
	return out, t.tbl.joints.Joints(), true
}
