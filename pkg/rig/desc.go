package rig

import (
	"encoding/json"
	"fmt"
	"io"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// JointDesc is the serialized form of a joint. Parent refers to another
// joint's Name; an empty Parent makes a root.
type JointDesc struct {
	Name        string     `json:"name"`
	Parent      string     `json:"parent,omitempty"`
	Translation [3]float64 `json:"translation"`
	Rotation    [3]float64 `json:"rotation,omitempty"` // radians, XYZ
}

// SkeletonDesc is the serialized form of a skeleton. Joints may appear in any
// order.
type SkeletonDesc struct {
	Joints []JointDesc `json:"joints"`
}

// DecodeSkeleton reads a JSON skeleton description.
func DecodeSkeleton(r io.Reader) (SkeletonDesc, error) {
	var d SkeletonDesc
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return SkeletonDesc{}, fmt.Errorf("rig: decode skeleton: %w", err)
	}
	return d, nil
}

// BuildSkeleton validates a description and builds the skeleton. Findings
// with error severity abort the build; the findings are returned either way.
func BuildSkeleton(d SkeletonDesc) (*Skeleton, []ValidationError) {
	var findings []ValidationError
	findings = append(findings, validateDescReferences(d)...)
	if !HasErrors(findings) {
		findings = append(findings, validateDescDAG(d)...)
	}
	if HasErrors(findings) {
		return nil, findings
	}

	byName := make(map[string]JointDesc, len(d.Joints))
	children := make(map[string][]string)
	var roots []string
	for _, j := range d.Joints {
		byName[j.Name] = j
		if j.Parent == "" {
			roots = append(roots, j.Name)
		} else {
			children[j.Parent] = append(children[j.Parent], j.Name)
		}
	}

	s := NewSkeleton()
	var add func(name string, parent JointID) error
	add = func(name string, parent JointID) error {
		j := byName[name]
		id, err := s.AddJoint(name, parent, v3.Vec{X: j.Translation[0], Y: j.Translation[1], Z: j.Translation[2]})
		if err != nil {
			return err
		}
		if err := s.SetRotation(id, v3.Vec{X: j.Rotation[0], Y: j.Rotation[1], Z: j.Rotation[2]}); err != nil {
			return err
		}
		for _, c := range children[name] {
			if err := add(c, id); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := add(r, NoJoint); err != nil {
			findings = append(findings, ValidationError{
				Joint:    r,
				Message:  err.Error(),
				Severity: SeverityError,
			})
			return nil, findings
		}
	}
	return s, findings
}

// Describe converts a skeleton back to its serialized form.
func (s *Skeleton) Describe() SkeletonDesc {
	d := SkeletonDesc{Joints: make([]JointDesc, 0, len(s.order))}
	for _, id := range s.order {
		j := s.joints[id]
		parent := ""
		if p := id.Parent(); !p.IsZero() {
			parent = p.Name()
		}
		d.Joints = append(d.Joints, JointDesc{
			Name:        id.Name(),
			Parent:      parent,
			Translation: [3]float64{j.Translation.X, j.Translation.Y, j.Translation.Z},
			Rotation:    [3]float64{j.Rotation.X, j.Rotation.Y, j.Rotation.Z},
		})
	}
	return d
}
