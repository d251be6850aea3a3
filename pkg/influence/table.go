package influence

import (
	"errors"
	"fmt"

	"github.com/chazu/mannequin/pkg/rig"
)

var (
	// ErrNoInfluences is returned when a skin binding has no influence objects.
	ErrNoInfluences = errors.New("influence: skin has no influences")
	// ErrFaceOutOfRange is returned for a face index the table does not cover.
	ErrFaceOutOfRange = errors.New("influence: face out of range")
)

// minPositive is the smallest positive normal double. A face wins an
// influence only with a summed weight strictly greater than this.
const minPositive = 0x1p-1022

// Table maps each mesh face to its dominant influence index.
type Table struct {
	faces []int
}

// BuildTable sums each face's vertex weights per influence and records the
// influence with the strictly greatest sum. Ties keep the lowest index; a face
// whose sums are all zero resolves to influence 0.
func BuildTable(mesh rig.MeshProvider, skin rig.SkinBindingProvider) (*Table, error) {
	n := skin.InfluenceCount()
	if n == 0 {
		return nil, ErrNoInfluences
	}

	t := &Table{faces: make([]int, mesh.PolygonCount())}
	sums := make([]float64, n)
	for face := range t.faces {
		clear(sums)
		rows := skin.WeightsForVertices(mesh.PolygonVertices(face))
		for _, row := range rows {
			if len(row) != n {
				return nil, fmt.Errorf("influence: face %d has a weight row of %d for %d influences: %w",
					face, len(row), n, rig.ErrBadWeights)
			}
			for i, w := range row {
				sums[i] += w
			}
		}
		t.faces[face] = dominant(sums)
	}
	return t, nil
}

func dominant(sums []float64) int {
	maxWeight := minPositive
	maxIndex := 0
	for i, s := range sums {
		if s > maxWeight {
			maxWeight = s
			maxIndex = i
		}
	}
	return maxIndex
}

// Len returns the number of faces covered.
func (t *Table) Len() int { return len(t.faces) }

// Influence returns the dominant influence index of a face.
func (t *Table) Influence(face int) (int, error) {
	if face < 0 || face >= len(t.faces) {
		return 0, fmt.Errorf("influence: face %d of %d: %w", face, len(t.faces), ErrFaceOutOfRange)
	}
	return t.faces[face], nil
}

// FacesFor returns every face whose dominant influence is influence, in
// ascending order.
func (t *Table) FacesFor(influence int) []int {
	var out []int
	for face, inf := range t.faces {
		if inf == influence {
			out = append(out, face)
		}
	}
	return out
}

// Counts returns the number of faces owned by each influence index.
func (t *Table) Counts(influences int) []int {
	out := make([]int, influences)
	for _, inf := range t.faces {
		if inf >= 0 && inf < influences {
			out[inf]++
		}
	}
	return out
}
