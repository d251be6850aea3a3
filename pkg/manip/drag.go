package manip

import (
	"errors"
	"fmt"

	"github.com/chazu/mannequin/pkg/geom"
	"github.com/chazu/mannequin/pkg/rig"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNoDragPlane is returned when the press ray cannot anchor on the drag
// plane, typically because the axis points straight at the camera.
var ErrNoDragPlane = errors.New("manip: press ray misses the drag plane")

// Drag is an axis-constrained translation in progress. The plane is fixed at
// press time; every update measures displacement from the press anchor.
type Drag struct {
	Joint rig.JointID
	Axis  Axis

	axis         v3.Vec // unit, world
	axisInParent v3.Vec
	origin       v3.Vec
	normal       v3.Vec
	anchor       v3.Vec
	begin        v3.Vec // local translation at press
	current      v3.Vec
}

// BeginDrag starts dragging joint along axis. toOrigin is the direction from
// the camera toward the handle origin; press is the cursor ray at the press.
func BeginDrag(skel rig.SkeletonProvider, joint rig.JointID, axis Axis, toOrigin v3.Vec, press geom.Ray) (*Drag, error) {
	if axis < AxisX || axis > AxisZ {
		return nil, fmt.Errorf("manip: begin drag on axis %s", axis)
	}
	origin, axes := Frame(skel, joint)
	a := axes[axis]

	// Contains the axis and faces the viewer as far as it can.
	normal := toOrigin.Cross(a).Cross(a)

	anchor, _, ok := geom.RayPlane(press, origin, normal)
	if !ok {
		return nil, ErrNoDragPlane
	}

	parentInv := skel.ParentMatrix(joint).Inverse()
	begin := skel.LocalTranslation(joint)
	return &Drag{
		Joint:        joint,
		Axis:         axis,
		axis:         a,
		axisInParent: geom.TransformDir(parentInv, a),
		origin:       origin,
		normal:       normal,
		anchor:       anchor,
		begin:        begin,
		current:      begin,
	}, nil
}

// Offset projects a drag ray onto the axis. It reports the signed world
// distance from the press anchor, or false when the ray misses the plane.
func (d *Drag) Offset(r geom.Ray) (float64, bool) {
	hit, _, ok := geom.RayPlane(r, d.origin, d.normal)
	if !ok {
		return 0, false
	}
	return hit.Sub(d.anchor).Dot(d.axis), true
}

// Update moves the joint to follow r. When r misses the drag plane the
// joint keeps its current value and Update reports false.
func (d *Drag) Update(skel rig.SkeletonProvider, r geom.Ray) (v3.Vec, bool, error) {
	ofs, ok := d.Offset(r)
	if !ok {
		return d.current, false, nil
	}
	v := d.begin.Add(d.axisInParent.MulScalar(ofs))
	if err := skel.SetLocalTranslation(d.Joint, v); err != nil {
		return d.current, false, err
	}
	d.current = v
	return v, true, nil
}

// Cancel restores the value the joint had at press time.
func (d *Drag) Cancel(skel rig.SkeletonProvider) error {
	d.current = d.begin
	return skel.SetLocalTranslation(d.Joint, d.begin)
}

// Begin returns the joint's local translation at press time.
func (d *Drag) Begin() v3.Vec { return d.begin }

// Current returns the last value applied.
func (d *Drag) Current() v3.Vec { return d.current }

// Plane returns the fixed drag plane as a point and normal.
func (d *Drag) Plane() (point, normal v3.Vec) { return d.origin, d.normal }
