// Package geom holds the pure geometry used by picking and manipulators:
// rays, ray–sphere and ray–plane intersection, screen-space segment distance,
// and a perspective viewport that converts between world and view space.
//
// All functions are free of side effects. Degenerate input (zero-length
// directions, parallel planes, collapsed segments) is reported as "no hit"
// rather than as an error.
package geom

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the distance below which a hit is treated as behind or on the
// ray origin, and the magnitude below which a denominator is treated as zero.
const Epsilon = 1e-3

// Ray is a half-line in world space. Dir does not need to be unit length.
type Ray struct {
	Origin v3.Vec `json:"origin"`
	Dir    v3.Vec `json:"dir"`
}

// NewRay returns a ray starting at origin and heading along dir.
func NewRay(origin, dir v3.Vec) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// At returns the point origin + t*dir.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// Normalized returns a copy of the ray with a unit direction. The second
// result is false when the direction has (near) zero length.
func (r Ray) Normalized() (Ray, bool) {
	n, ok := unit(r.Dir)
	if !ok {
		return r, false
	}
	return Ray{Origin: r.Origin, Dir: n}, true
}

func (r Ray) String() string {
	return fmt.Sprintf("ray(%.3f,%.3f,%.3f -> %.3f,%.3f,%.3f)",
		r.Origin.X, r.Origin.Y, r.Origin.Z, r.Dir.X, r.Dir.Y, r.Dir.Z)
}

// unit normalizes v, reporting false for vectors too short to normalize.
func unit(v v3.Vec) (v3.Vec, bool) {
	l := v.Length()
	if l < 1e-12 {
		return v3.Vec{}, false
	}
	return v.MulScalar(1 / l), true
}

// Unit normalizes v. The second result is false for a zero-length vector,
// in which case the zero vector is returned.
func Unit(v v3.Vec) (v3.Vec, bool) {
	return unit(v)
}

// TransformDir applies the linear part of m to the direction d, ignoring
// translation.
func TransformDir(m sdf.M44, d v3.Vec) v3.Vec {
	return m.MulPosition(d).Sub(m.MulPosition(v3.Vec{}))
}
