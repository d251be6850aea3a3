package rig

import (
	"fmt"
	"math"
)

// Severity indicates whether a validation finding blocks binding or is
// merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks binding
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Joint    string // joint name or path (empty if rig-level)
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	if e.Joint == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] joint %s: %s", e.Severity, e.Joint, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// weightSumTolerance is how far a vertex's weights may stray from 1.0 before
// a warning is raised.
const weightSumTolerance = 1e-3

// ValidateBinding checks that a mesh and a skin describe the same vertices.
// Weight rows that do not sum to 1.0 produce warnings only; they are used
// as-is.
func ValidateBinding(m MeshProvider, s SkinBindingProvider) []ValidationError {
	var errs []ValidationError
	if s.InfluenceCount() == 0 {
		errs = append(errs, ValidationError{
			Message:  "skin has no influences",
			Severity: SeverityError,
		})
		return errs
	}

	n := m.VertexCount()
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	rows := s.WeightsForVertices(all)
	unnormalized := 0
	for v, row := range rows {
		if len(row) != s.InfluenceCount() {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("vertex %d has %d weights, want %d", v, len(row), s.InfluenceCount()),
				Severity: SeverityError,
			})
			continue
		}
		var sum float64
		for _, w := range row {
			sum += w
		}
		if math.Abs(sum-1) > weightSumTolerance {
			unnormalized++
		}
	}
	if sk, ok := s.(*Skin); ok && sk.VertexCount() != n {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("skin binds %d vertices, mesh has %d", sk.VertexCount(), n),
			Severity: SeverityError,
		})
	}
	if unnormalized > 0 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("%d vertices have weights that do not sum to 1", unnormalized),
			Severity: SeverityWarning,
		})
	}
	return errs
}

// validateDescDAG reports a cycle in the parent links of a skeleton
// description. Parent links form a forest, so following them from every joint
// must terminate at a root.
func validateDescDAG(d SkeletonDesc) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	parents := make(map[string]string, len(d.Joints))
	for _, j := range d.Joints {
		parents[j.Name] = j.Parent
	}

	color := make(map[string]int) // default zero = white
	var errs []ValidationError

	var visit func(name string) bool // returns true if cycle found
	visit = func(name string) bool {
		switch color[name] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				Joint:    name,
				Message:  fmt.Sprintf("cycle detected: joint %s is its own ancestor", name),
				Severity: SeverityError,
			})
			return true
		}

		color[name] = gray
		parent, ok := parents[name]
		if ok && parent != "" {
			if _, known := parents[parent]; known && visit(parent) {
				return true
			}
		}
		color[name] = black
		return false
	}

	for _, j := range d.Joints {
		if color[j.Name] == white {
			if visit(j.Name) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}
	return errs
}

// validateDescReferences reports empty names, duplicate names and parents
// that do not exist.
func validateDescReferences(d SkeletonDesc) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(d.Joints))
	for _, j := range d.Joints {
		if j.Name == "" {
			errs = append(errs, ValidationError{
				Message:  "joint with empty name",
				Severity: SeverityError,
			})
			continue
		}
		if seen[j.Name] {
			errs = append(errs, ValidationError{
				Joint:    j.Name,
				Message:  "duplicate joint name",
				Severity: SeverityError,
			})
		}
		seen[j.Name] = true
	}
	for _, j := range d.Joints {
		if j.Parent != "" && !seen[j.Parent] {
			errs = append(errs, ValidationError{
				Joint:    j.Name,
				Message:  fmt.Sprintf("parent %q does not exist", j.Parent),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
