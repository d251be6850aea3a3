// Package rig defines the skinned-character data the picking tool observes:
// joint identity, the mesh, the skin binding, and the skeleton. The tool
// consumes these through the provider interfaces so that a host application
// can back them with its own scene; the in-memory types in this package are
// the implementation used for tests, the demo rig and the desktop shell.
package rig

import (
	"errors"
	"strings"

	"github.com/chazu/mannequin/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PathSeparator separates joint names in a JointID.
const PathSeparator = "|"

// JointID is the full hierarchy path of a joint, e.g. "|hips|spine|chest".
// It is compared structurally and used directly as a map key.
type JointID string

// NoJoint is the empty joint identity.
const NoJoint JointID = ""

// IsZero reports whether id is the empty identity.
func (id JointID) IsZero() bool { return id == NoJoint }

// Name returns the last path component ("chest" for "|hips|spine|chest").
func (id JointID) Name() string {
	s := string(id)
	if i := strings.LastIndex(s, PathSeparator); i >= 0 {
		return s[i+len(PathSeparator):]
	}
	return s
}

// Parent returns the path of the parent joint, or NoJoint for a root.
func (id JointID) Parent() JointID {
	s := string(id)
	i := strings.LastIndex(s, PathSeparator)
	if i <= 0 {
		return NoJoint
	}
	return JointID(s[:i])
}

// Child returns the identity of a child named name under id.
func (id JointID) Child(name string) JointID {
	return JointID(string(id) + PathSeparator + name)
}

var (
	// ErrUnknownJoint is returned when a joint identity is not part of the skeleton.
	ErrUnknownJoint = errors.New("rig: unknown joint")
	// ErrBadTopology is returned when mesh polygons reference missing vertices.
	ErrBadTopology = errors.New("rig: invalid mesh topology")
	// ErrBadWeights is returned when a weight matrix does not match the mesh
	// or the influence list.
	ErrBadWeights = errors.New("rig: invalid skin weights")
)

// Hit is the closest intersection of a ray with a mesh.
type Hit struct {
	Face     int
	Point    v3.Vec
	Distance float64
}

// MeshProvider exposes polygon topology and ray intersection.
type MeshProvider interface {
	PolygonCount() int
	PolygonVertices(face int) []int
	VertexCount() int
	VertexPosition(vertex int) v3.Vec
	ClosestIntersection(r geom.Ray) (Hit, bool)
}

// SkinBindingProvider exposes the influences of a skin and its weights. The
// rows returned by WeightsForVertices have one entry per influence, in
// InfluenceObjects order.
type SkinBindingProvider interface {
	InfluenceCount() int
	InfluenceObjects() []JointID
	WeightsForVertices(vertices []int) [][]float64
}

// SkeletonProvider exposes joint hierarchy and transforms. WorldMatrix is the
// joint's inclusive matrix, ParentMatrix the exclusive one (identity for a
// root).
type SkeletonProvider interface {
	ChildJoints(id JointID) []JointID
	LocalTranslation(id JointID) v3.Vec
	SetLocalTranslation(id JointID, t v3.Vec) error
	WorldPivot(id JointID) v3.Vec
	WorldMatrix(id JointID) sdf.M44
	ParentMatrix(id JointID) sdf.M44
}
