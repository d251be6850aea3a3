package mannequin

import (
	"github.com/chazu/mannequin/pkg/influence"
	"github.com/chazu/mannequin/pkg/manip"
	"github.com/chazu/mannequin/pkg/pick"
	"github.com/chazu/mannequin/pkg/rig"
)

// OnPointerMove updates the highlight for a cursor position. It reports
// whether the view needs a redraw. Moving over the same joint again changes
// nothing and sends nothing to the host.
func (t *Tool) OnPointerMove(c pick.Cursor) (bool, error) {
	if err := t.check(); err != nil {
		return true, err
	}
	t.cursor, t.hasCursor = c, true

	refresh := false
	if t.handle.Kind == manip.KindMove && t.drag == nil {
		axis := t.axisUnder(c)
		refresh = axis != t.hoverAxis
		t.hoverAxis = axis
	}

	target, influenceIndex := rig.NoJoint, -1
	if !t.overManipulator(c) {
		target, influenceIndex = t.resolve(c)
	}
	if target == t.highlight {
		return refresh, nil
	}

	t.highlight = target
	if target.IsZero() {
		t.restoreHostSelection()
	} else {
		t.sink.ReplaceSelection(t.tbl.faces.FacesFor(influenceIndex))
	}
	Logger().Debug("highlight changed", "joint", string(target))
	return true, nil
}

// resolve maps the face under the cursor to its dominant influence joint.
func (t *Tool) resolve(c pick.Cursor) (rig.JointID, int) {
	hit, ok := pick.PickFace(t.mesh, c.Ray)
	if !ok {
		return rig.NoJoint, -1
	}
	inf, err := t.tbl.faces.Influence(hit.Face)
	if err != nil {
		return rig.NoJoint, -1
	}
	id, ok := t.tbl.joints.Joint(inf)
	if !ok {
		return rig.NoJoint, -1
	}
	return id, inf
}

func (t *Tool) overManipulator(c pick.Cursor) bool {
	switch t.handle.Kind {
	case manip.KindRotate:
		return pick.IntersectsManipulator(t.view, t.skel, t.handle, c)
	case manip.KindMove:
		return t.axisUnder(c) != manip.AxisNone
	}
	return false
}

func (t *Tool) axisUnder(c pick.Cursor) manip.Axis {
	if t.view == nil {
		return manip.AxisNone
	}
	axis, _ := pick.HitAxis(t.view, t.skel, t.handle, c)
	return axis
}

// OnPress handles a button press at the last pointer position. Over a move
// axis it starts a drag; over a rotate handle it is consumed; otherwise it
// commits the highlight as the selection. It reports whether the view needs
// a redraw.
func (t *Tool) OnPress() (bool, error) {
	if err := t.check(); err != nil {
		return true, err
	}
	if t.drag != nil {
		return false, nil
	}
	if t.hasCursor {
		switch t.handle.Kind {
		case manip.KindMove:
			if axis := t.axisUnder(t.cursor); axis != manip.AxisNone {
				return t.beginDrag(axis), nil
			}
		case manip.KindRotate:
			if t.overManipulator(t.cursor) {
				return false, nil
			}
		}
	}
	return t.Select(t.highlight, t.requested)
}

func (t *Tool) beginDrag(axis manip.Axis) bool {
	origin, _ := manip.Frame(t.skel, t.handle.Joint)
	o, ok := t.view.WorldToView(origin)
	if !ok {
		return false
	}
	toOrigin := t.view.ViewToWorld(o).Dir
	d, err := manip.BeginDrag(t.skel, t.handle.Joint, axis, toOrigin, t.cursor.Ray)
	if err != nil {
		Logger().Debug("drag not started", "axis", axis.String(), "err", err)
		return false
	}
	t.drag = d
	t.hoverAxis = axis
	Logger().Debug("drag started", "joint", string(d.Joint), "axis", axis.String())
	return true
}

// OnDrag moves the dragged joint to follow the cursor. A cursor past the
// drag plane's horizon leaves the joint where it is.
func (t *Tool) OnDrag(c pick.Cursor) (bool, error) {
	if err := t.check(); err != nil {
		return true, err
	}
	t.cursor, t.hasCursor = c, true
	if t.drag == nil {
		return false, nil
	}
	_, moved, err := t.drag.Update(t.skel, c.Ray)
	return moved, err
}

// OnRelease ends a drag, keeping the dragged value.
func (t *Tool) OnRelease() (bool, error) {
	if err := t.check(); err != nil {
		return true, err
	}
	return t.endDrag(false), nil
}

func (t *Tool) endDrag(cancel bool) bool {
	if t.drag == nil {
		return false
	}
	if cancel {
		if err := t.drag.Cancel(t.skel); err != nil {
			Logger().Warn("drag cancel failed", "err", err)
		}
	}
	Logger().Debug("drag ended", "joint", string(t.drag.Joint), "cancelled", cancel)
	t.drag = nil
	return true
}

// OnAbort cancels a drag in progress and clears the selection.
func (t *Tool) OnAbort() error {
	if err := t.check(); err != nil {
		return err
	}
	t.endDrag(true)
	_, err := t.Select(rig.NoJoint, influence.StyleNone)
	return err
}

// OnCycleStyle flips the selected joint between ROTATE and TRANSLATE. It does
// nothing unless the joint offers both.
func (t *Tool) OnCycleStyle() (bool, error) {
	if err := t.check(); err != nil {
		return true, err
	}
	both := influence.StyleRotate | influence.StyleTranslate
	if t.sel.IsZero() || !t.sel.Available.Has(both) {
		return false, nil
	}
	next := t.sel.Style.Other()
	t.requested = next
	return t.Select(t.sel.Joint, next)
}
