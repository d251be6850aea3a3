package tessellate

import (
	"fmt"

	"github.com/chazu/mannequin/pkg/kernel"
	"github.com/chazu/mannequin/pkg/rig"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Weld merges vertices with identical positions and returns the triangles
// as polygons of a rig.Mesh. Triangles that collapse onto fewer than three
// distinct vertices are dropped.
func Weld(m *kernel.Mesh) (*rig.Mesh, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("tessellate: weld: empty mesh")
	}
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("tessellate: weld: %d indices is not a triangle list", len(m.Indices))
	}

	index := make(map[[3]float32]int, m.VertexCount()/3)
	var positions []v3.Vec
	remap := make([]int, m.VertexCount())
	for i := range remap {
		key := [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		j, ok := index[key]
		if !ok {
			j = len(positions)
			index[key] = j
			positions = append(positions, v3.Vec{X: float64(key[0]), Y: float64(key[1]), Z: float64(key[2])})
		}
		remap[i] = j
	}

	polygons := make([][]int, 0, m.TriangleCount())
	for t := 0; t < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if int(a) >= len(remap) || int(b) >= len(remap) || int(c) >= len(remap) {
			return nil, fmt.Errorf("tessellate: weld: triangle %d references a missing vertex", t/3)
		}
		i, j, k := remap[a], remap[b], remap[c]
		if i == j || j == k || i == k {
			continue
		}
		polygons = append(polygons, []int{i, j, k})
	}
	return rig.NewMesh(positions, polygons)
}

// ToRender converts a polygon mesh into an indexed triangle mesh with
// area-weighted vertex normals. Polygons are fan-triangulated.
func ToRender(m *rig.Mesh) *kernel.Mesh {
	n := m.VertexCount()
	out := &kernel.Mesh{
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, n*3),
	}
	normals := make([]v3.Vec, n)
	for v := range n {
		p := m.VertexPosition(v)
		out.Vertices = append(out.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	for f := range m.PolygonCount() {
		vs := m.PolygonVertices(f)
		for i := 1; i+1 < len(vs); i++ {
			a, b, c := vs[0], vs[i], vs[i+1]
			pa := m.VertexPosition(a)
			fn := m.VertexPosition(b).Sub(pa).Cross(m.VertexPosition(c).Sub(pa))
			for _, v := range [3]int{a, b, c} {
				normals[v] = normals[v].Add(fn)
			}
			out.Indices = append(out.Indices, uint32(a), uint32(b), uint32(c))
		}
	}
	for v, nv := range normals {
		if l := nv.Length(); l > 0 {
			nv = nv.MulScalar(1 / l)
		}
		out.Normals[v*3] = float32(nv.X)
		out.Normals[v*3+1] = float32(nv.Y)
		out.Normals[v*3+2] = float32(nv.Z)
	}
	return out
}
