package geom

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const tol = 1e-9

func TestRaySphereNearerRoot(t *testing.T) {
	r := NewRay(v3.Vec{X: 8.5, Y: 55.3, Z: 105.6}, v3.Vec{X: 0, Y: 0, Z: -1})
	dist, ok := RaySphere(r, v3.Vec{X: 8.5, Y: 53.4, Z: 5}, 7.5)
	if !ok {
		t.Fatal("expected a hit")
	}

	// diff = (0, 1.9, 100.6); b = -100.6; c = |diff|² - 7.5².
	c := 1.9*1.9 + 100.6*100.6 - 7.5*7.5
	want := 100.6 - math.Sqrt(100.6*100.6-c)
	if math.Abs(dist-want) > tol {
		t.Errorf("distance = %v, want %v", dist, want)
	}
	if dist >= 100.6 {
		t.Errorf("expected the near root (< 100.6), got %v", dist)
	}
}

func TestRaySphereDirectionIsNormalized(t *testing.T) {
	center := v3.Vec{X: 0, Y: 0, Z: -10}
	a, okA := RaySphere(NewRay(v3.Vec{}, v3.Vec{Z: -1}), center, 2)
	b, okB := RaySphere(NewRay(v3.Vec{}, v3.Vec{Z: -25}), center, 2)
	if !okA || !okB {
		t.Fatal("expected hits for both rays")
	}
	if math.Abs(a-b) > tol || math.Abs(a-8) > tol {
		t.Errorf("distances %v and %v, want both 8", a, b)
	}
}

func TestRaySphereCases(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		center v3.Vec
		radius float64
		want   float64
		hit    bool
	}{
		{
			name:   "origin inside sphere uses far root",
			ray:    NewRay(v3.Vec{}, v3.Vec{X: 1}),
			center: v3.Vec{},
			radius: 3,
			want:   3,
			hit:    true,
		},
		{
			name:   "sphere behind ray",
			ray:    NewRay(v3.Vec{}, v3.Vec{X: 1}),
			center: v3.Vec{X: -10},
			radius: 1,
		},
		{
			name:   "miss to the side",
			ray:    NewRay(v3.Vec{}, v3.Vec{X: 1}),
			center: v3.Vec{X: 10, Y: 5},
			radius: 1,
		},
		{
			name:   "tangent counts as miss",
			ray:    NewRay(v3.Vec{}, v3.Vec{X: 1}),
			center: v3.Vec{X: 10, Y: 1},
			radius: 1,
		},
		{
			name:   "zero direction",
			ray:    NewRay(v3.Vec{}, v3.Vec{}),
			center: v3.Vec{},
			radius: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RaySphere(tt.ray, tt.center, tt.radius)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && math.Abs(got-tt.want) > tol {
				t.Errorf("distance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayPlaneParallel(t *testing.T) {
	r := NewRay(v3.Vec{X: 0, Y: 1, Z: 0}, v3.Vec{X: 1, Y: 0, Z: 0})
	if _, _, ok := RayPlane(r, v3.Vec{}, v3.Vec{Y: 1}); ok {
		t.Fatal("parallel ray must not intersect the plane")
	}

	// Nearly parallel: denominator below Epsilon.
	r = NewRay(v3.Vec{X: 0, Y: 1, Z: 0}, v3.Vec{X: 1, Y: -0.0001, Z: 0})
	if _, _, ok := RayPlane(r, v3.Vec{}, v3.Vec{Y: 1}); ok {
		t.Fatal("nearly parallel ray must not intersect the plane")
	}
}

func TestRayPlaneHitAndBehind(t *testing.T) {
	plane := v3.Vec{Z: -5}
	normal := v3.Vec{Z: 1}

	hit, dist, ok := RayPlane(NewRay(v3.Vec{X: 1, Y: 2}, v3.Vec{Z: -2}), plane, normal)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(dist-2.5) > tol {
		t.Errorf("t = %v, want 2.5 (in units of the direction)", dist)
	}
	if !hit.Equals(v3.Vec{X: 1, Y: 2, Z: -5}, tol) {
		t.Errorf("hit = %v, want (1, 2, -5)", hit)
	}

	if _, _, ok := RayPlane(NewRay(v3.Vec{}, v3.Vec{Z: 1}), plane, normal); ok {
		t.Error("plane behind the ray must not count")
	}
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name     string
		a, b, p  v2.Vec
		wantDist float64
		wantT    float64
	}{
		{"midpoint above", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 10, Y: 0}, v2.Vec{X: 5, Y: 3}, 3, 0.5},
		{"beyond end", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 10, Y: 0}, v2.Vec{X: 15, Y: -2}, 2, 1.5},
		{"before start", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 0, Y: 4}, v2.Vec{X: 1, Y: -2}, 1, -0.5},
		{"on segment", v2.Vec{X: 1, Y: 1}, v2.Vec{X: 3, Y: 3}, v2.Vec{X: 2, Y: 2}, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, param := DistanceToSegment(tt.a, tt.b, tt.p)
			if math.Abs(d-tt.wantDist) > tol {
				t.Errorf("dist = %v, want %v", d, tt.wantDist)
			}
			if math.Abs(param-tt.wantT) > tol {
				t.Errorf("t = %v, want %v", param, tt.wantT)
			}
		})
	}
}

func TestDistanceToSegmentDegenerate(t *testing.T) {
	d, _ := DistanceToSegment(v2.Vec{X: 3, Y: 3}, v2.Vec{X: 3, Y: 3.0001}, v2.Vec{X: 3, Y: 3})
	if !math.IsInf(d, 1) {
		t.Errorf("collapsed segment distance = %v, want +Inf", d)
	}
}

func TestTransformDirIgnoresTranslation(t *testing.T) {
	m := sdf.Translate3d(v3.Vec{X: 10, Y: 20, Z: 30}).Mul(sdf.RotateZ(math.Pi / 2))
	got := TransformDir(m, v3.Vec{X: 1})
	if !got.Equals(v3.Vec{Y: 1}, 1e-9) {
		t.Errorf("TransformDir = %v, want (0, 1, 0)", got)
	}
}
