// Package tessellate walks a skeleton and produces a skinned proxy mesh: a
// capsule per bone, meshed by a geometry kernel, welded into polygons and
// weighted to the joints by distance.
package tessellate

import (
	"fmt"

	"github.com/chazu/mannequin/pkg/kernel"
	"github.com/chazu/mannequin/pkg/rig"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Options control the proxy shape and its skin weights.
type Options struct {
	Radius        float64 // bone capsule radius
	LeafRadius    float64 // sphere radius at leaf joints
	Falloff       float64 // weight = 1 / distance^Falloff
	MaxInfluences int     // weights kept per vertex
}

// DefaultOptions suits a skeleton roughly 20 units tall.
func DefaultOptions() Options {
	return Options{Radius: 0.7, LeafRadius: 0.9, Falloff: 4, MaxInfluences: 4}
}

func (o *Options) resolve() {
	d := DefaultOptions()
	if o.Radius <= 0 {
		o.Radius = d.Radius
	}
	if o.LeafRadius <= 0 {
		o.LeafRadius = o.Radius
	}
	if o.Falloff <= 0 {
		o.Falloff = d.Falloff
	}
	if o.MaxInfluences <= 0 {
		o.MaxInfluences = d.MaxInfluences
	}
}

// Proxy is a skinned mesh built for a skeleton.
type Proxy struct {
	Mesh   *rig.Mesh
	Skin   *rig.Skin
	Render *kernel.Mesh // indexed form of Mesh with smooth normals
}

// bone is one segment of the walk. A leaf joint gets a short bone that
// continues its parent's direction, so that the tip of a limb weights to the
// leaf rather than to the joint before it.
type bone struct {
	joint      rig.JointID
	head, tail v3.Vec
	leaf       bool
}

// Tessellate builds the proxy for skel. The skeleton is read, never changed.
func Tessellate(skel *rig.Skeleton, k kernel.Kernel, opts Options) (*Proxy, error) {
	if skel == nil || len(skel.Joints()) == 0 {
		return nil, fmt.Errorf("tessellate: empty skeleton")
	}
	opts.resolve()

	bones := collectBones(skel, opts.LeafRadius)
	solids := make([]kernel.Solid, len(bones))
	for i, b := range bones {
		if b.leaf {
			solids[i] = k.Translate(k.Sphere(opts.LeafRadius), b.head.X, b.head.Y, b.head.Z)
			continue
		}
		solids[i] = k.Capsule(arr(b.head), arr(b.tail), opts.Radius)
	}
	raw, err := k.ToMesh(k.Union(solids...))
	if err != nil {
		return nil, fmt.Errorf("tessellate: mesh skeleton: %w", err)
	}

	mesh, err := Weld(raw)
	if err != nil {
		return nil, err
	}
	skin, err := weights(mesh, skel, bones, opts)
	if err != nil {
		return nil, err
	}
	render := ToRender(mesh)
	render.Name = "proxy"
	return &Proxy{Mesh: mesh, Skin: skin, Render: render}, nil
}

func collectBones(skel *rig.Skeleton, leafLength float64) []bone {
	var bones []bone
	for _, id := range skel.Joints() {
		if id.Parent().IsZero() {
			bones = walkJoint(skel, id, leafLength, bones)
		}
	}
	return bones
}

// walkJoint collects id's bones, parents before children.
func walkJoint(skel *rig.Skeleton, id rig.JointID, leafLength float64, bones []bone) []bone {
	head := skel.WorldPivot(id)
	children := skel.ChildJoints(id)
	if len(children) == 0 {
		tail := head
		if p := id.Parent(); !p.IsZero() {
			if d := head.Sub(skel.WorldPivot(p)); d.Length() > 0 {
				tail = head.Add(d.MulScalar(leafLength / d.Length()))
			}
		}
		return append(bones, bone{joint: id, head: head, tail: tail, leaf: true})
	}
	for _, c := range children {
		bones = append(bones, bone{joint: id, head: head, tail: skel.WorldPivot(c)})
	}
	for _, c := range children {
		bones = walkJoint(skel, c, leafLength, bones)
	}
	return bones
}

func arr(v v3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
