package script

import (
	"fmt"
	"strings"

	"github.com/chazu/mannequin/pkg/influence"
	"github.com/chazu/mannequin/pkg/mannequin"
	"github.com/chazu/mannequin/pkg/rig"
	zygo "github.com/glycerine/zygomys/zygo"
)

// State is the read-only view of the tool a script runs against.
type State struct {
	Influences []mannequin.Influence
	Selected   rig.JointID
	Style      influence.Style
	Scale      float64
	AutoAdjust bool
}

// Snapshot captures the tool's state for a script. An unbound tool has no
// influences.
func Snapshot(t *mannequin.Tool) State {
	infl, _ := t.Influences()
	sel := t.CurrentSelection()
	cfg := t.Config()
	return State{
		Influences: infl,
		Selected:   sel.Joint,
		Style:      sel.Style,
		Scale:      cfg.Scale,
		AutoAdjust: cfg.AutoAdjust,
	}
}

// recorder collects the commands a script issues and tracks their effect on
// its State copy, so later queries in the same script see them.
type recorder struct {
	st       State
	commands []Command
	output   []string
}

func newRecorder(st State) *recorder {
	st.Influences = append([]mannequin.Influence(nil), st.Influences...)
	return &recorder{st: st}
}

func (r *recorder) find(name string) (mannequin.Influence, bool) {
	for _, inf := range r.st.Influences {
		if string(inf.Joint) == name {
			return inf, true
		}
	}
	for _, inf := range r.st.Influences {
		if inf.Joint.Name() == name {
			return inf, true
		}
	}
	return mannequin.Influence{}, false
}

// selected returns the influence entry of the current selection.
func (r *recorder) selected() (mannequin.Influence, bool) {
	if r.st.Selected.IsZero() {
		return mannequin.Influence{}, false
	}
	return r.find(string(r.st.Selected))
}

func (r *recorder) record(c Command) { r.commands = append(r.commands, c) }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker preprocessSource puts in front of keyword names.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts a keyword (:rt) or a plain string ("rt").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

func toStyle(s zygo.Sexp) (influence.Style, error) {
	code, err := toKeywordString(s)
	if err != nil {
		return influence.StyleNone, err
	}
	return influence.ParseStyle(code)
}

func sexpStr(s string) zygo.Sexp { return &zygo.SexpStr{S: s} }

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the console builtins. Source must go through
// preprocessSource first so that keywords and hyphenated names resolve.
func registerBuiltins(env *zygo.Zlisp, r *recorder) {

	// -----------------------------------------------------------------------
	// (select-joint "l_elbow" :style :t)
	// -----------------------------------------------------------------------
	env.AddFunction("select_joint", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("select-joint requires a joint name")
		}
		joint, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select-joint: name: %w", err)
		}
		style := influence.StyleNone
		if v, ok := pa.kw["style"]; ok {
			if style, err = toStyle(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("select-joint: style: %w", err)
			}
		}
		inf, ok := r.find(joint)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("select-joint: no influence named %q", joint)
		}
		r.record(Command{Op: OpSelect, Joint: inf.Joint, Style: style})
		r.st.Selected = inf.Joint
		r.st.Style = mannequin.ResolveStyle(style, inf.Styles)
		return sexpStr(string(inf.Joint)), nil
	})

	// -----------------------------------------------------------------------
	// (deselect)
	// -----------------------------------------------------------------------
	env.AddFunction("deselect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r.record(Command{Op: OpDeselect})
		r.st.Selected = rig.NoJoint
		r.st.Style = influence.StyleNone
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (selection) and (selection-style)
	// -----------------------------------------------------------------------
	env.AddFunction("selection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return sexpStr(string(r.st.Selected)), nil
	})
	env.AddFunction("selection_style", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return sexpStr(r.st.Style.String()), nil
	})

	// -----------------------------------------------------------------------
	// (influence-objects) returns ("|hips !r" "|hips|spine !r" ...)
	// -----------------------------------------------------------------------
	env.AddFunction("influence_objects", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items := make([]zygo.Sexp, len(r.st.Influences))
		for i, inf := range r.st.Influences {
			items[i] = sexpStr(inf.String())
		}
		return zygo.MakeList(items), nil
	})

	// -----------------------------------------------------------------------
	// (print-influences) writes one line per influence to the output
	// -----------------------------------------------------------------------
	env.AddFunction("print_influences", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		for _, inf := range r.st.Influences {
			r.output = append(r.output, fmt.Sprintf("%s (%d faces)", inf, inf.Faces))
		}
		return &zygo.SexpInt{Val: int64(len(r.st.Influences))}, nil
	})

	// -----------------------------------------------------------------------
	// (manip-size) or (manip-size 7.5)
	// -----------------------------------------------------------------------
	env.AddFunction("manip_size", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) > 0 {
			f, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("manip-size: %w", err)
			}
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("manip-size: scale must be positive, got %g", f)
			}
			r.record(Command{Op: OpSetScale, Scale: f})
			r.st.Scale = f
		}
		return &zygo.SexpFloat{Val: r.st.Scale}, nil
	})

	// -----------------------------------------------------------------------
	// (manip-adjust) or (manip-adjust true)
	// -----------------------------------------------------------------------
	env.AddFunction("manip_adjust", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) > 0 {
			on, err := toBool(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("manip-adjust: %w", err)
			}
			r.record(Command{Op: OpSetAutoAdjust, On: on})
			r.st.AutoAdjust = on
		}
		return &zygo.SexpBool{Val: r.st.AutoAdjust}, nil
	})

	// -----------------------------------------------------------------------
	// (cycle-style)
	// -----------------------------------------------------------------------
	env.AddFunction("cycle_style", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r.record(Command{Op: OpCycleStyle})
		if inf, ok := r.selected(); ok && inf.Styles.Has(influence.StyleRotate|influence.StyleTranslate) {
			r.st.Style = r.st.Style.Other()
		}
		return sexpStr(r.st.Style.String()), nil
	})
}
