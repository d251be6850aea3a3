package kernel

import "testing"

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, 2, 3, -1, 5, 0, 0, 0, 4}}
	min, max := m.Bounds()
	if min != [3]float32{-1, 0, 0} {
		t.Errorf("min = %v, want [-1 0 0]", min)
	}
	if max != [3]float32{1, 5, 4} {
		t.Errorf("max = %v, want [1 5 4]", max)
	}

	min, max = (&Mesh{}).Bounds()
	if min != ([3]float32{}) || max != ([3]float32{}) {
		t.Errorf("empty bounds = %v %v", min, max)
	}
}

// --- Compile-time interface check with a stub kernel ---

type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel proves the interface is satisfiable; it only tracks bounds.
type stubKernel struct{}

func (k *stubKernel) Sphere(r float64) Solid {
	return &stubSolid{minBB: [3]float64{-r, -r, -r}, maxBB: [3]float64{r, r, r}}
}

func (k *stubKernel) Capsule(a, b [3]float64, r float64) Solid {
	s := &stubSolid{}
	for i := range 3 {
		s.minBB[i] = min(a[i], b[i]) - r
		s.maxBB[i] = max(a[i], b[i]) + r
	}
	return s
}

func (k *stubKernel) Union(solids ...Solid) Solid {
	out := &stubSolid{}
	for n, s := range solids {
		lo, hi := s.BoundingBox()
		for i := range 3 {
			if n == 0 || lo[i] < out.minBB[i] {
				out.minBB[i] = lo[i]
			}
			if n == 0 || hi[i] > out.maxBB[i] {
				out.maxBB[i] = hi[i]
			}
		}
	}
	return out
}

func (k *stubKernel) Translate(s Solid, x, y, z float64) Solid {
	lo, hi := s.BoundingBox()
	d := [3]float64{x, y, z}
	for i := range 3 {
		lo[i] += d[i]
		hi[i] += d[i]
	}
	return &stubSolid{minBB: lo, maxBB: hi}
}

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelUnionBounds(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Union(
		k.Capsule([3]float64{0, 0, 0}, [3]float64{0, 4, 0}, 1),
		k.Translate(k.Sphere(0.5), 3, 0, 0),
	)
	lo, hi := s.BoundingBox()
	if lo != [3]float64{-1, -1, -1} {
		t.Errorf("min = %v, want [-1 -1 -1]", lo)
	}
	if hi != [3]float64{3.5, 5, 1} {
		t.Errorf("max = %v, want [3.5 5 1]", hi)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	m, err := k.ToMesh(k.Sphere(1))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil || !m.IsEmpty() {
		t.Error("stub ToMesh() should return an empty mesh")
	}
}
