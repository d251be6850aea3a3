package rig

import "fmt"

// Compile-time interface check.
var _ SkinBindingProvider = (*Skin)(nil)

// Skin is a dense skin binding: one weight per influence for every vertex.
// Weights are stored as given; rows are not renormalized.
type Skin struct {
	influences []JointID
	weights    [][]float64
}

// NewSkin validates that every row has one weight per influence.
func NewSkin(influences []JointID, weights [][]float64) (*Skin, error) {
	for v, row := range weights {
		if len(row) != len(influences) {
			return nil, fmt.Errorf("rig: vertex %d has %d weights for %d influences: %w",
				v, len(row), len(influences), ErrBadWeights)
		}
	}
	s := &Skin{
		influences: append([]JointID(nil), influences...),
		weights:    make([][]float64, len(weights)),
	}
	for v, row := range weights {
		s.weights[v] = append([]float64(nil), row...)
	}
	return s, nil
}

// InfluenceCount returns the number of influences.
func (s *Skin) InfluenceCount() int { return len(s.influences) }

// InfluenceObjects returns the influences in binding order.
func (s *Skin) InfluenceObjects() []JointID {
	return append([]JointID(nil), s.influences...)
}

// VertexCount returns the number of weighted vertices.
func (s *Skin) VertexCount() int { return len(s.weights) }

// WeightsForVertices returns one weight row per requested vertex. Vertices
// outside the binding yield a zero row. Callers must not modify the rows.
func (s *Skin) WeightsForVertices(vertices []int) [][]float64 {
	out := make([][]float64, len(vertices))
	for i, v := range vertices {
		if v < 0 || v >= len(s.weights) {
			out[i] = make([]float64, len(s.influences))
			continue
		}
		out[i] = s.weights[v]
	}
	return out
}
