package tessellate

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/mannequin/pkg/rig"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Skin weights mesh to every joint of skel by inverse distance to the
// joint's bones.
func Skin(mesh rig.MeshProvider, skel *rig.Skeleton, opts Options) (*rig.Skin, error) {
	opts.resolve()
	return weights(mesh, skel, collectBones(skel, opts.LeafRadius), opts)
}

func weights(mesh rig.MeshProvider, skel *rig.Skeleton, bones []bone, opts Options) (*rig.Skin, error) {
	joints := skel.Joints()
	col := make(map[rig.JointID]int, len(joints))
	for i, id := range joints {
		col[id] = i
	}

	type cand struct {
		influence int
		w         float64
	}
	rows := make([][]float64, mesh.VertexCount())
	dist := make([]float64, len(joints))
	for v := range rows {
		p := mesh.VertexPosition(v)
		for i := range dist {
			dist[i] = math.Inf(1)
		}
		for _, b := range bones {
			i := col[b.joint]
			dist[i] = math.Min(dist[i], segmentDistance(b.head, b.tail, p))
		}

		cands := make([]cand, 0, len(joints))
		for i, d := range dist {
			if math.IsInf(d, 1) {
				continue
			}
			cands = append(cands, cand{i, 1 / math.Pow(math.Max(d, 1e-6), opts.Falloff)})
		}
		// Stable order keeps ties deterministic.
		sort.SliceStable(cands, func(a, b int) bool { return cands[a].w > cands[b].w })
		if len(cands) > opts.MaxInfluences {
			cands = cands[:opts.MaxInfluences]
		}

		row := make([]float64, len(joints))
		var sum float64
		for _, c := range cands {
			sum += c.w
		}
		if sum <= 0 {
			return nil, fmt.Errorf("tessellate: vertex %d has no influence", v)
		}
		for _, c := range cands {
			row[c.influence] = c.w / sum
		}
		rows[v] = row
	}
	return rig.NewSkin(joints, rows)
}

// segmentDistance is the distance from p to the segment a-b.
func segmentDistance(a, b, p v3.Vec) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.MulScalar(t))).Length()
}
