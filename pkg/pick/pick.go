// Package pick resolves a pointer position against the bound mesh and the
// active manipulator.
package pick

import (
	"math"

	"github.com/chazu/mannequin/pkg/geom"
	"github.com/chazu/mannequin/pkg/manip"
	"github.com/chazu/mannequin/pkg/rig"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Projector maps world points to view pixels. *geom.Viewport implements it.
type Projector interface {
	WorldToView(p v3.Vec) (v2.Vec, bool)
}

// View is a Projector that can also cast the world ray through a pixel.
type View interface {
	Projector
	ViewToWorld(p v2.Vec) geom.Ray
}

// Cursor is a pointer position: the pixel under the pointer and the world
// ray through it.
type Cursor struct {
	X, Y float64
	Ray  geom.Ray
}

// CursorAt builds the cursor for pixel (x, y) of vp.
func CursorAt(vp *geom.Viewport, x, y float64) Cursor {
	p := v2.Vec{X: x, Y: y}
	return Cursor{X: x, Y: y, Ray: vp.ViewToWorld(p)}
}

// Point returns the cursor position in view pixels.
func (c Cursor) Point() v2.Vec { return v2.Vec{X: c.X, Y: c.Y} }

// PickFace returns the closest face hit along r. Hits closer than
// geom.Epsilon are discarded.
func PickFace(mesh rig.MeshProvider, r geom.Ray) (rig.Hit, bool) {
	hit, ok := mesh.ClosestIntersection(r)
	if !ok || hit.Distance <= geom.Epsilon || hit.Face < 0 || hit.Face >= mesh.PolygonCount() {
		return rig.Hit{}, false
	}
	return hit, true
}

// Minimum move-handle hit radius in pixels.
const minHandleRadius = 4.0

// HandleRadius is the screen-space hit radius of a move axis given the
// longest projected axis length and the handle size percentage.
func HandleRadius(viewLength, handleSize float64) float64 {
	height := viewLength * handleSize / 100 * 0.5
	return math.Max(height*0.3, minHandleRadius)
}

// IntersectsManipulator reports whether the cursor is over the handle.
func IntersectsManipulator(view Projector, skel rig.SkeletonProvider, h manip.Handle, c Cursor) bool {
	switch h.Kind {
	case manip.KindRotate:
		center, radius := h.Sphere(skel)
		_, ok := geom.RaySphere(c.Ray, center, radius)
		return ok
	case manip.KindMove:
		axis, _ := HitAxis(view, skel, h, c)
		return axis != manip.AxisNone
	}
	return false
}

// HitAxis returns the move axis under the cursor and its pixel distance.
// Among axes whose projection parameter lies in [0,1] and whose distance is
// below the handle radius, the closest wins.
func HitAxis(view Projector, skel rig.SkeletonProvider, h manip.Handle, c Cursor) (manip.Axis, float64) {
	if h.Kind != manip.KindMove {
		return manip.AxisNone, math.Inf(1)
	}
	origin, ends := h.Segments(skel)
	o, ok := view.WorldToView(origin)
	if !ok {
		return manip.AxisNone, math.Inf(1)
	}

	var screen [3]v2.Vec
	var visible [3]bool
	var viewLength float64
	for i, e := range ends {
		s, ok := view.WorldToView(e)
		if !ok {
			continue
		}
		screen[i], visible[i] = s, true
		viewLength = math.Max(viewLength, s.Sub(o).Length())
	}
	radius := HandleRadius(viewLength, h.HandleSize)

	best, bestDist := manip.AxisNone, math.Inf(1)
	p := c.Point()
	for i := range screen {
		if !visible[i] {
			continue
		}
		d, t := geom.DistanceToSegment(o, screen[i], p)
		if d < bestDist && d < radius && t >= 0 && t <= 1 {
			best, bestDist = manip.Axis(i), d
		}
	}
	return best, bestDist
}
