package rig

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ SkeletonProvider = (*Skeleton)(nil)

// Joint is one node of a skeleton. Rotation holds Euler angles in radians,
// applied X then Y then Z.
type Joint struct {
	ID          JointID
	Translation v3.Vec
	Rotation    v3.Vec
}

// Skeleton is an in-memory joint hierarchy. Joints are kept in insertion
// order, which is always parent-before-child.
type Skeleton struct {
	joints   map[JointID]*Joint
	order    []JointID
	children map[JointID][]JointID
}

// NewSkeleton returns an empty skeleton.
func NewSkeleton() *Skeleton {
	return &Skeleton{
		joints:   make(map[JointID]*Joint),
		children: make(map[JointID][]JointID),
	}
}

// AddJoint adds a joint named name under parent (NoJoint for a root) with the
// given local translation and returns its identity.
func (s *Skeleton) AddJoint(name string, parent JointID, translation v3.Vec) (JointID, error) {
	if name == "" {
		return NoJoint, fmt.Errorf("rig: joint name must not be empty")
	}
	if !parent.IsZero() {
		if _, ok := s.joints[parent]; !ok {
			return NoJoint, fmt.Errorf("rig: parent %q: %w", parent, ErrUnknownJoint)
		}
	}
	id := parent.Child(name)
	if _, dup := s.joints[id]; dup {
		return NoJoint, fmt.Errorf("rig: duplicate joint %q", id)
	}
	s.joints[id] = &Joint{ID: id, Translation: translation}
	s.order = append(s.order, id)
	if !parent.IsZero() {
		s.children[parent] = append(s.children[parent], id)
	}
	return id, nil
}

// Joints returns every joint identity, parents before children.
func (s *Skeleton) Joints() []JointID {
	out := make([]JointID, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether id is part of the skeleton.
func (s *Skeleton) Has(id JointID) bool {
	_, ok := s.joints[id]
	return ok
}

// Joint returns a copy of the joint record.
func (s *Skeleton) Joint(id JointID) (Joint, bool) {
	j, ok := s.joints[id]
	if !ok {
		return Joint{}, false
	}
	return *j, true
}

// Find resolves a full path or a bare joint name. A bare name matches the
// first joint in hierarchy order with that name.
func (s *Skeleton) Find(name string) (JointID, bool) {
	if _, ok := s.joints[JointID(name)]; ok {
		return JointID(name), true
	}
	for _, id := range s.order {
		if id.Name() == name {
			return id, true
		}
	}
	return NoJoint, false
}

// ChildJoints returns the direct children of id.
func (s *Skeleton) ChildJoints(id JointID) []JointID {
	c := s.children[id]
	out := make([]JointID, len(c))
	copy(out, c)
	return out
}

// LocalTranslation returns the joint's offset from its parent.
func (s *Skeleton) LocalTranslation(id JointID) v3.Vec {
	if j, ok := s.joints[id]; ok {
		return j.Translation
	}
	return v3.Vec{}
}

// SetLocalTranslation replaces the joint's offset from its parent.
func (s *Skeleton) SetLocalTranslation(id JointID, t v3.Vec) error {
	j, ok := s.joints[id]
	if !ok {
		return fmt.Errorf("rig: set translation %q: %w", id, ErrUnknownJoint)
	}
	j.Translation = t
	return nil
}

// SetRotation replaces the joint's local Euler rotation (radians).
func (s *Skeleton) SetRotation(id JointID, euler v3.Vec) error {
	j, ok := s.joints[id]
	if !ok {
		return fmt.Errorf("rig: set rotation %q: %w", id, ErrUnknownJoint)
	}
	j.Rotation = euler
	return nil
}

// LocalMatrix returns translate * rotateZ * rotateY * rotateX for the joint.
func (s *Skeleton) LocalMatrix(id JointID) sdf.M44 {
	j, ok := s.joints[id]
	if !ok {
		return sdf.Identity3d()
	}
	r := sdf.RotateZ(j.Rotation.Z).Mul(sdf.RotateY(j.Rotation.Y)).Mul(sdf.RotateX(j.Rotation.X))
	return sdf.Translate3d(j.Translation).Mul(r)
}

// WorldMatrix returns the joint's inclusive matrix (parents applied).
func (s *Skeleton) WorldMatrix(id JointID) sdf.M44 {
	if _, ok := s.joints[id]; !ok {
		return sdf.Identity3d()
	}
	return s.ParentMatrix(id).Mul(s.LocalMatrix(id))
}

// ParentMatrix returns the joint's exclusive matrix: the world matrix of its
// parent, or identity for a root.
func (s *Skeleton) ParentMatrix(id JointID) sdf.M44 {
	p := id.Parent()
	if p.IsZero() {
		return sdf.Identity3d()
	}
	if _, ok := s.joints[p]; !ok {
		return sdf.Identity3d()
	}
	return s.WorldMatrix(p)
}

// WorldPivot returns the joint origin in world space.
func (s *Skeleton) WorldPivot(id JointID) v3.Vec {
	return s.WorldMatrix(id).MulPosition(v3.Vec{})
}

// Segments returns every parent→child bone as a pair of world positions.
func (s *Skeleton) Segments() [][2]v3.Vec {
	var out [][2]v3.Vec
	for _, id := range s.order {
		for _, c := range s.children[id] {
			out = append(out, [2]v3.Vec{s.WorldPivot(id), s.WorldPivot(c)})
		}
	}
	return out
}
