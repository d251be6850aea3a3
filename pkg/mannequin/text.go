package mannequin

import (
	"fmt"

	"github.com/chazu/mannequin/pkg/influence"
	"github.com/chazu/mannequin/pkg/rig"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// HelpText returns the status line for the current selection.
func (t *Tool) HelpText() string {
	if t.sel.IsZero() {
		return "Click on the mesh to select a part"
	}
	return fmt.Sprintf("%s selected, press ESC to deselect", t.sel.Joint.Name())
}

// LabelAnchor returns where the highlighted joint's label is drawn: halfway
// to its child when it has exactly one, otherwise at its pivot.
func (t *Tool) LabelAnchor() (v3.Vec, bool) {
	if t.highlight.IsZero() || t.skel == nil {
		return v3.Vec{}, false
	}
	pivot := t.skel.WorldPivot(t.highlight)
	children := t.skel.ChildJoints(t.highlight)
	if len(children) != 1 {
		return pivot, true
	}
	child := t.skel.WorldPivot(children[0])
	return pivot.Add(child).MulScalar(0.5), true
}

// Influence describes one influence joint and the styles it offers.
type Influence struct {
	Joint  rig.JointID
	Styles influence.Style
	Faces  int // faces the joint dominates
}

// String formats the influence as "path !styles", e.g. "|hips|spine !r".
func (i Influence) String() string {
	return fmt.Sprintf("%s !%s", i.Joint, i.Styles)
}

// Influences lists the bound influences in binding order.
func (t *Tool) Influences() ([]Influence, error) {
	if t.tbl == nil {
		return nil, ErrNotBound
	}
	joints := t.tbl.joints.Joints()
	counts := t.tbl.faces.Counts(len(joints))
	out := make([]Influence, len(joints))
	for i, id := range joints {
		e, _ := t.tbl.joints.Lookup(id)
		out[i] = Influence{Joint: id, Styles: e.Styles, Faces: counts[i]}
	}
	return out, nil
}
