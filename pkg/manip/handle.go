// Package manip holds the manipulator geometry attached to a selected joint:
// the rotate handle's sphere, the move handle's axis triad, scale adjustment
// from skeleton proportions, and axis-constrained drag projection.
package manip

import (
	"fmt"

	"github.com/chazu/mannequin/pkg/geom"
	"github.com/chazu/mannequin/pkg/rig"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind tags the active manipulator variant.
type Kind int

const (
	KindNone Kind = iota
	KindRotate
	KindMove
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRotate:
		return "rotate"
	case KindMove:
		return "move"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Axis names one of the move handle's three axes.
type Axis int

const (
	AxisNone Axis = -1
	AxisX    Axis = 0
	AxisY    Axis = 1
	AxisZ    Axis = 2
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "none"
	}
}

// RotateShell enlarges the rotate handle's hit sphere to cover the
// free-rotation shell drawn around it.
const RotateShell = 1.25

// Handle is the active manipulator. Exactly one variant is live at a time,
// selected by Kind. ID is assigned when the handle is built and never reused,
// so two handles with the same ID are the same attachment.
type Handle struct {
	Kind       Kind
	ID         uint64
	Joint      rig.JointID
	Scale      float64 // adjusted scale
	GlobalSize float64 // global manipulator size multiplier
	HandleSize float64 // cone size as a percentage of the handle length
}

// None is the empty handle.
var None = Handle{Kind: KindNone}

// NewRotate returns a rotate handle for joint.
func NewRotate(id uint64, joint rig.JointID, scale, globalSize, handleSize float64) Handle {
	return Handle{Kind: KindRotate, ID: id, Joint: joint, Scale: scale, GlobalSize: globalSize, HandleSize: handleSize}
}

// NewMove returns a move handle for joint.
func NewMove(id uint64, joint rig.JointID, scale, globalSize, handleSize float64) Handle {
	return Handle{Kind: KindMove, ID: id, Joint: joint, Scale: scale, GlobalSize: globalSize, HandleSize: handleSize}
}

// IsNone reports whether no manipulator is attached.
func (h Handle) IsNone() bool { return h.Kind == KindNone }

// Size is the world length of a move axis, scale × global size.
func (h Handle) Size() float64 { return h.Scale * h.GlobalSize }

// Radius is the rotate handle's hit radius.
func (h Handle) Radius() float64 { return h.Size() * RotateShell }

// Sphere returns the rotate handle's hit sphere.
func (h Handle) Sphere(skel rig.SkeletonProvider) (center v3.Vec, radius float64) {
	return skel.WorldPivot(h.Joint), h.Radius()
}

// Frame returns the move handle's origin and its unit world axes. The axes
// follow the joint's inclusive matrix; the origin is the joint's local
// translation carried through its parent matrix.
func Frame(skel rig.SkeletonProvider, joint rig.JointID) (origin v3.Vec, axes [3]v3.Vec) {
	origin = skel.ParentMatrix(joint).MulPosition(skel.LocalTranslation(joint))
	world := skel.WorldMatrix(joint)
	basis := [3]v3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	for i, b := range basis {
		d, ok := geom.Unit(geom.TransformDir(world, b))
		if !ok {
			d = b
		}
		axes[i] = d
	}
	return origin, axes
}

// Segments returns the move handle's three axis segments in world space.
func (h Handle) Segments(skel rig.SkeletonProvider) (origin v3.Vec, ends [3]v3.Vec) {
	origin, axes := Frame(skel, h.Joint)
	for i, a := range axes {
		ends[i] = origin.Add(a.MulScalar(h.Size()))
	}
	return origin, ends
}

// Geometry is a render-ready description of the active manipulator.
type Geometry struct {
	Kind   Kind
	ID     uint64
	Joint  rig.JointID
	Center v3.Vec // rotate: sphere center; move: axis origin
	Radius float64

	Axes       [3]v3.Vec // move only, unit world axes
	Ends       [3]v3.Vec // move only, axis end points
	ConeOffset float64   // distance from origin to each cone base
	ConeHeight float64
	ConeRadius float64
	Active     Axis // axis under the cursor or being dragged
}

// Geometry evaluates the handle against the current skeleton pose.
func (h Handle) Geometry(skel rig.SkeletonProvider, active Axis) Geometry {
	g := Geometry{Kind: h.Kind, ID: h.ID, Joint: h.Joint, Active: AxisNone}
	switch h.Kind {
	case KindRotate:
		g.Center, g.Radius = h.Sphere(skel)
	case KindMove:
		size := h.Size()
		g.Center, g.Axes = Frame(skel, h.Joint)
		for i, a := range g.Axes {
			g.Ends[i] = g.Center.Add(a.MulScalar(size))
		}
		g.ConeHeight = size * h.HandleSize / 100 * 0.5
		g.ConeOffset = size - g.ConeHeight
		g.ConeRadius = g.ConeHeight * 0.25
		g.Active = active
	}
	return g
}
