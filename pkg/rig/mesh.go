package rig

import (
	"fmt"
	"math"

	"github.com/chazu/mannequin/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ MeshProvider = (*Mesh)(nil)

// Mesh is an immutable polygon mesh: shared vertex positions and polygons
// given as ordered vertex indices.
type Mesh struct {
	positions []v3.Vec
	polygons  [][]int

	// MaxDistance limits ray hits to this distance along the ray; zero means
	// unlimited.
	MaxDistance float64
}

// NewMesh validates and copies the topology.
func NewMesh(positions []v3.Vec, polygons [][]int) (*Mesh, error) {
	m := &Mesh{
		positions: make([]v3.Vec, len(positions)),
		polygons:  make([][]int, len(polygons)),
	}
	copy(m.positions, positions)
	for i, poly := range polygons {
		if len(poly) < 3 {
			return nil, fmt.Errorf("rig: polygon %d has %d vertices: %w", i, len(poly), ErrBadTopology)
		}
		for _, v := range poly {
			if v < 0 || v >= len(positions) {
				return nil, fmt.Errorf("rig: polygon %d references vertex %d: %w", i, v, ErrBadTopology)
			}
		}
		m.polygons[i] = append([]int(nil), poly...)
	}
	return m, nil
}

// PolygonCount returns the number of polygons.
func (m *Mesh) PolygonCount() int { return len(m.polygons) }

// PolygonVertices returns the vertex indices of a polygon. Callers must not
// modify the returned slice.
func (m *Mesh) PolygonVertices(face int) []int {
	if face < 0 || face >= len(m.polygons) {
		return nil
	}
	return m.polygons[face]
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.positions) }

// VertexPosition returns the position of a vertex.
func (m *Mesh) VertexPosition(vertex int) v3.Vec {
	if vertex < 0 || vertex >= len(m.positions) {
		return v3.Vec{}
	}
	return m.positions[vertex]
}

// PolygonCenter returns the average of a polygon's vertex positions.
func (m *Mesh) PolygonCenter(face int) v3.Vec {
	poly := m.PolygonVertices(face)
	if len(poly) == 0 {
		return v3.Vec{}
	}
	var sum v3.Vec
	for _, v := range poly {
		sum = sum.Add(m.positions[v])
	}
	return sum.MulScalar(1 / float64(len(poly)))
}

// ClosestIntersection returns the nearest polygon hit along r beyond
// geom.Epsilon. Polygons are fan-triangulated; ties keep the lower face index.
func (m *Mesh) ClosestIntersection(r geom.Ray) (Hit, bool) {
	ray, ok := r.Normalized()
	if !ok {
		return Hit{}, false
	}
	best := Hit{Face: -1, Distance: math.Inf(1)}
	for face, poly := range m.polygons {
		p0 := m.positions[poly[0]]
		for i := 1; i+1 < len(poly); i++ {
			t, hit := rayTriangle(ray, p0, m.positions[poly[i]], m.positions[poly[i+1]])
			if !hit || t <= geom.Epsilon {
				continue
			}
			if m.MaxDistance > 0 && t > m.MaxDistance {
				continue
			}
			if t < best.Distance {
				best = Hit{Face: face, Point: ray.At(t), Distance: t}
			}
		}
	}
	if best.Face < 0 {
		return Hit{}, false
	}
	return best, true
}

// rayTriangle is the Möller–Trumbore test, two-sided.
func rayTriangle(r geom.Ray, a, b, c v3.Vec) (float64, bool) {
	const eps = 1e-12
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	return e2.Dot(q) * inv, true
}
