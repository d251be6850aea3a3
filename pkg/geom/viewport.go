package geom

import (
	"errors"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrDegenerateView is returned when a viewport cannot build a camera basis:
// eye and target coincide, up is parallel to the view direction, or the
// image has no area.
var ErrDegenerateView = errors.New("geom: degenerate viewport")

// Viewport is a pinhole perspective camera. View coordinates are pixels with
// the origin at the top-left corner and y growing downward.
type Viewport struct {
	Eye    v3.Vec
	Target v3.Vec
	Up     v3.Vec
	FovY   float64 // vertical field of view, radians
	Width  float64
	Height float64

	forward, right, up v3.Vec
	tanHalf, aspect    float64
}

// NewViewport builds a viewport looking from eye toward target.
func NewViewport(eye, target, up v3.Vec, fovY, width, height float64) (*Viewport, error) {
	v := &Viewport{
		Eye:    eye,
		Target: target,
		Up:     up,
		FovY:   fovY,
		Width:  width,
		Height: height,
	}
	if err := v.init(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Viewport) init() error {
	if v.Width <= 0 || v.Height <= 0 || v.FovY <= 0 || v.FovY >= math.Pi {
		return ErrDegenerateView
	}
	f, ok := unit(v.Target.Sub(v.Eye))
	if !ok {
		return ErrDegenerateView
	}
	r, ok := unit(f.Cross(v.Up))
	if !ok {
		return ErrDegenerateView
	}
	v.forward = f
	v.right = r
	v.up = r.Cross(f)
	v.tanHalf = math.Tan(v.FovY / 2)
	v.aspect = v.Width / v.Height
	return nil
}

// Forward is the unit view direction.
func (v *Viewport) Forward() v3.Vec { return v.forward }

// WorldToView projects p to pixel coordinates. The second result is false
// for points on or behind the eye plane.
func (v *Viewport) WorldToView(p v3.Vec) (v2.Vec, bool) {
	d := p.Sub(v.Eye)
	z := d.Dot(v.forward)
	if z < Epsilon {
		return v2.Vec{}, false
	}
	ndcX := d.Dot(v.right) / (z * v.tanHalf * v.aspect)
	ndcY := d.Dot(v.up) / (z * v.tanHalf)
	return v2.Vec{
		X: (ndcX + 1) * 0.5 * v.Width,
		Y: (1 - ndcY) * 0.5 * v.Height,
	}, true
}

// ViewToWorld returns the world ray through pixel s, starting at the eye
// with a unit direction.
func (v *Viewport) ViewToWorld(s v2.Vec) Ray {
	ndcX := 2*s.X/v.Width - 1
	ndcY := 1 - 2*s.Y/v.Height
	dir := v.forward.
		Add(v.right.MulScalar(ndcX * v.tanHalf * v.aspect)).
		Add(v.up.MulScalar(ndcY * v.tanHalf))
	n, _ := unit(dir)
	return Ray{Origin: v.Eye, Dir: n}
}

// Depth returns the distance of p along the view direction.
func (v *Viewport) Depth(p v3.Vec) float64 {
	return p.Sub(v.Eye).Dot(v.forward)
}
