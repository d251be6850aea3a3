package main

import (
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Empty console: empty string -> no value, no errors, non-nil slices.
// ---------------------------------------------------------------------------

func TestE2EEmptySource(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if result.Value != "" {
		t.Errorf("expected no value, got %q", result.Value)
	}
	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Output == nil || result.Commands == nil || result.Errors == nil {
		t.Error("Output, Commands and Errors should be non-nil empty slices")
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax errors: reported as eval errors, selection untouched.
// ---------------------------------------------------------------------------

func TestE2ESyntaxError(t *testing.T) {
	app := loadedApp(t)
	app.Evaluate(`(select-joint "spine")`)

	result := app.Evaluate("(+ 1 2)\n(select-joint \"chest\"")
	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if result.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	if result.State.Selected != spinePath {
		t.Errorf("selection changed to %q by a broken script", result.State.Selected)
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q",
		result.Errors[0].Line, result.Errors[0].Col, result.Errors[0].Message)
}

// ---------------------------------------------------------------------------
// 3. Unknown joints and unbound tools.
// ---------------------------------------------------------------------------

func TestE2EUnknownJoint(t *testing.T) {
	app := loadedApp(t)
	result := app.Evaluate(`(select-joint "tail")`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for an unknown joint")
	}
	if !strings.Contains(result.Errors[0].Message, "tail") {
		t.Errorf("error %q does not name the joint", result.Errors[0].Message)
	}
}

func TestE2EUnboundEvents(t *testing.T) {
	app := newTestApp()

	for name, st := range map[string]StateData{
		"move":    app.PointerMove(10, 10),
		"press":   app.Press(),
		"drag":    app.Drag(10, 10),
		"release": app.Release(),
		"abort":   app.Abort(),
		"cycle":   app.CycleStyle(),
	} {
		if st.Error == "" {
			t.Errorf("%s on an unbound app: expected an error", name)
		}
		if st.Selected != "" || st.Highlight != "" {
			t.Errorf("%s on an unbound app left state %q/%q", name, st.Selected, st.Highlight)
		}
	}

	if msg := app.ExportSnapshot(filepath.Join(t.TempDir(), "x.png")); msg == "" {
		t.Error("expected an error exporting with nothing loaded")
	}
	if result := app.Evaluate(`(select-joint "spine")`); len(result.Errors) == 0 {
		t.Error("expected an error selecting on an unbound app")
	}
}

// ---------------------------------------------------------------------------
// 4. Rapid evaluation (debounce simulation): no panics.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Alternates between valid and invalid sources rapidly.
	// Ensures the console recovers cleanly between error and success states.
	app := loadedApp(t)

	sources := []string{
		`(select-joint "spine")`,
		`(select-joint "broken"`,
		``,
		`(select-joint "missing")`,
		`(deselect)`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(select-joint "l_knee" :style :r)`,
		`(undefined-func 1 2 3)`,
		`(selection)`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}
	if st := app.State(); st.Selected != "|hips|l_hip|l_knee" {
		t.Errorf("final selection = %q, want l_knee", st.Selected)
	}
}

// ---------------------------------------------------------------------------
// 5. Comments only: no errors, no commands.
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := newTestApp()

	source := `
;; This is a comment
;; Another comment
; And another
`
	result := app.Evaluate(source)
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for comments-only source: %v", result.Errors)
	}
	if len(result.Commands) != 0 {
		t.Errorf("expected 0 commands, got %v", result.Commands)
	}
}

// ---------------------------------------------------------------------------
// 6. Viewport edge cases.
// ---------------------------------------------------------------------------

func TestE2EResizeDegenerate(t *testing.T) {
	app := newTestApp()
	if st := app.Resize(0, 100); st.Error == "" {
		t.Error("expected an error for a zero-width viewport")
	}
	if app.view.Width != 960 {
		t.Errorf("a failed resize replaced the viewport (width %f)", app.view.Width)
	}
	if st := app.Resize(320, 200); st.Error != "" || app.view.Width != 320 {
		t.Errorf("resize: err=%q width=%f", st.Error, app.view.Width)
	}
}

func TestE2EReload(t *testing.T) {
	app := loadedApp(t)
	app.Evaluate(`(select-joint "chest")`)
	res := app.LoadMannequin()
	if res.Error != "" {
		t.Fatalf("reload: %s", res.Error)
	}
	if res.State.Selected != "" {
		t.Errorf("reload kept selection %q", res.State.Selected)
	}
}
