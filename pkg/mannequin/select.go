package mannequin

import (
	"fmt"

	"github.com/chazu/mannequin/pkg/influence"
	"github.com/chazu/mannequin/pkg/manip"
	"github.com/chazu/mannequin/pkg/rig"
)

// ResolveStyle picks the style a joint is presented with: the requested
// single style when the joint offers it, otherwise ROTATE before TRANSLATE.
func ResolveStyle(requested, available influence.Style) influence.Style {
	if requested.Single() && available.Has(requested) {
		return requested
	}
	if available.Has(influence.StyleRotate) {
		return influence.StyleRotate
	}
	if available.Has(influence.StyleTranslate) {
		return influence.StyleTranslate
	}
	return influence.StyleNone
}

// Select commits id as the selection with the requested style, rebuilding
// the manipulator. NoJoint clears the selection. Selecting the joint and
// style already in use does nothing; it reports whether anything changed.
func (t *Tool) Select(id rig.JointID, style influence.Style) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}

	next := Selection{}
	if !id.IsZero() {
		e, ok := t.tbl.joints.Lookup(id)
		if !ok {
			return false, fmt.Errorf("mannequin: select %q: %w", id, rig.ErrUnknownJoint)
		}
		next.Joint = id
		next.Available = e.Styles
		next.Style = ResolveStyle(style, e.Styles)
	}
	if next.Joint == t.sel.Joint && next.Style == t.sel.Style {
		return false, nil
	}

	// The handle belongs to the old selection; drop it before switching.
	t.endDrag(false)
	t.handle = manip.None
	t.hoverAxis = manip.AxisNone

	if !next.IsZero() {
		next.Longest = t.tbl.joints.LongestSegment()
		next.Ratio = manip.LengthRatio(influence.ChildSegment(t.skel, next.Joint), next.Longest, t.cfg.AutoAdjust)
		t.handle = t.buildHandle(next)
	}
	t.sel = next

	if t.highlight.IsZero() {
		t.restoreHostSelection()
	}
	Logger().Debug("selection changed",
		"joint", string(next.Joint),
		"style", next.Style.String(),
		"handle", t.handle.Kind.String())
	if t.OnSelectionChanged != nil {
		t.OnSelectionChanged(next)
	}
	return true, nil
}

func (t *Tool) buildHandle(s Selection) manip.Handle {
	t.nextID++
	scale := manip.AdjustedScale(t.cfg.Scale, s.Longest, s.Ratio)
	switch s.Style {
	case influence.StyleRotate:
		return manip.NewRotate(t.nextID, s.Joint, scale, t.cfg.GlobalSize, t.cfg.HandleSize)
	case influence.StyleTranslate:
		return manip.NewMove(t.nextID, s.Joint, scale, t.cfg.GlobalSize, t.cfg.HandleSize)
	}
	return manip.None
}

// SelectByName selects an influence by full path or short name.
func (t *Tool) SelectByName(name string, style influence.Style) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}
	if name == "" {
		return t.Select(rig.NoJoint, style)
	}
	id, ok := t.tbl.joints.Find(name)
	if !ok {
		return false, fmt.Errorf("mannequin: select %q: %w", name, rig.ErrUnknownJoint)
	}
	if style != influence.StyleNone {
		t.requested = style
	}
	return t.Select(id, style)
}

// Reselect deselects and reselects the current joint so that its
// manipulator is rebuilt with the current options.
func (t *Tool) Reselect() error {
	old := t.sel
	if old.IsZero() {
		return nil
	}
	if _, err := t.Select(rig.NoJoint, influence.StyleNone); err != nil {
		return err
	}
	_, err := t.Select(old.Joint, old.Style)
	return err
}

// SetScale persists a new base scale and rebuilds an attached manipulator.
// It reports whether a manipulator was rebuilt.
func (t *Tool) SetScale(scale float64) (bool, error) {
	if err := t.store.SetScale(scale); err != nil {
		return false, err
	}
	t.cfg.Scale = t.store.Scale()
	return t.rebuildHandle()
}

// SetAutoAdjust persists the auto-adjust option and rebuilds an attached
// manipulator. It reports whether a manipulator was rebuilt.
func (t *Tool) SetAutoAdjust(on bool) (bool, error) {
	if err := t.store.SetAutoAdjust(on); err != nil {
		return false, err
	}
	t.cfg.AutoAdjust = t.store.AutoAdjust()
	return t.rebuildHandle()
}

func (t *Tool) rebuildHandle() (bool, error) {
	if t.handle.IsNone() || t.tbl == nil {
		return false, nil
	}
	if err := t.Reselect(); err != nil {
		return false, err
	}
	return true, nil
}

// restoreHostSelection points the host at the selected joint, or clears it.
func (t *Tool) restoreHostSelection() {
	if t.sel.IsZero() {
		t.sink.ClearSelection()
		return
	}
	t.sink.SelectJoint(t.sel.Joint)
}
