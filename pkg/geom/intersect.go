package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// RaySphere intersects r with the sphere at center with the given radius.
// The ray direction is normalized first, so the returned distance is measured
// in world units along the ray. The nearer root is preferred when it lies
// beyond Epsilon, then the farther one; a sphere entirely behind the origin
// or missed by the ray reports false.
func RaySphere(r Ray, center v3.Vec, radius float64) (float64, bool) {
	l, ok := unit(r.Dir)
	if !ok {
		return 0, false
	}
	diff := r.Origin.Sub(center)

	// Line–sphere with a unit direction: t = -b ± sqrt(b² - c).
	b := l.Dot(diff)
	c := diff.Dot(diff) - radius*radius
	disc := b*b - c
	if disc <= 0 {
		return 0, false
	}
	disc = math.Sqrt(disc)

	near := -b - disc
	far := -b + disc
	if near > Epsilon {
		return near, true
	}
	if far > Epsilon {
		return far, true
	}
	return 0, false
}

// RayPlane intersects r with the plane through point with the given normal.
// It returns the hit point and the ray parameter t (in units of r.Dir).
// A ray parallel to the plane, or a plane behind the ray origin, reports false.
func RayPlane(r Ray, point, normal v3.Vec) (v3.Vec, float64, bool) {
	denom := r.Dir.Dot(normal)
	if math.Abs(denom) < Epsilon {
		return v3.Vec{}, 0, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < Epsilon {
		return v3.Vec{}, 0, false
	}
	return r.At(t), t, true
}

// DistanceToSegment returns the perpendicular distance from p to the line
// through a and b, and the parameter t of p's projection onto the segment
// (0 at a, 1 at b). A segment shorter than Epsilon has no direction; its
// distance is +Inf so that it never counts as a hit.
func DistanceToSegment(a, b, p v2.Vec) (dist, t float64) {
	ab := b.Sub(a)
	length := ab.Length()
	if length < Epsilon {
		return math.Inf(1), 0
	}
	ap := p.Sub(a)

	// |ab × ap| / |ab| is the distance to the infinite line.
	dist = math.Abs(ab.X*ap.Y-ab.Y*ap.X) / length
	t = ap.Dot(ab) / (length * length)
	return dist, t
}
