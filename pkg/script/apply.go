package script

import (
	"fmt"

	"github.com/chazu/mannequin/pkg/influence"
	"github.com/chazu/mannequin/pkg/mannequin"
	"github.com/chazu/mannequin/pkg/rig"
)

// Op is a tool change requested by a script.
type Op int

const (
	OpSelect Op = iota
	OpDeselect
	OpSetScale
	OpSetAutoAdjust
	OpCycleStyle
)

func (o Op) String() string {
	switch o {
	case OpSelect:
		return "select"
	case OpDeselect:
		return "deselect"
	case OpSetScale:
		return "set-scale"
	case OpSetAutoAdjust:
		return "set-auto-adjust"
	case OpCycleStyle:
		return "cycle-style"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Command is one recorded tool change.
type Command struct {
	Op    Op
	Joint rig.JointID
	Style influence.Style
	Scale float64
	On    bool
}

func (c Command) String() string {
	switch c.Op {
	case OpSelect:
		if c.Style == influence.StyleNone {
			return fmt.Sprintf("select %s", c.Joint)
		}
		return fmt.Sprintf("select %s !%s", c.Joint, c.Style)
	case OpSetScale:
		return fmt.Sprintf("set-scale %g", c.Scale)
	case OpSetAutoAdjust:
		return fmt.Sprintf("set-auto-adjust %t", c.On)
	}
	return c.Op.String()
}

// Apply runs cmds against t in order and stops at the first failure. It
// reports whether any command changed the selection or rebuilt its
// manipulator.
func Apply(t *mannequin.Tool, cmds []Command) (bool, error) {
	changed := false
	for i, c := range cmds {
		var (
			did bool
			err error
		)
		switch c.Op {
		case OpSelect:
			did, err = t.SelectByName(string(c.Joint), c.Style)
		case OpDeselect:
			did, err = t.Select(rig.NoJoint, influence.StyleNone)
		case OpSetScale:
			did, err = t.SetScale(c.Scale)
		case OpSetAutoAdjust:
			did, err = t.SetAutoAdjust(c.On)
		case OpCycleStyle:
			did, err = t.OnCycleStyle()
		default:
			err = fmt.Errorf("unknown op %v", c.Op)
		}
		if err != nil {
			return changed, fmt.Errorf("script: command %d (%s): %w", i, c, err)
		}
		changed = changed || did
	}
	return changed, nil
}
