// Package script is the picking console: a sandboxed zygomys interpreter
// with builtins that query and change the joint selection.
//
// Scripts never touch the tool directly. They run against a State snapshot
// and produce a list of Commands, which the caller applies to the tool on
// its own goroutine with Apply.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a parse or runtime error in console source.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the outcome of one evaluation.
type Result struct {
	Value    string    // printed value of the last expression
	Commands []Command // tool changes, in script order
	Output   []string  // lines produced by (print-influences) and friends
}

// Console evaluates console source. It is safe for concurrent use; each
// evaluation gets a fresh sandbox.
type Console struct {
	mu         sync.Mutex
	generation uint64
}

// NewConsole returns a console.
func NewConsole() *Console {
	return &Console{}
}

// Evaluate runs source against st.
//
// Return semantics:
//   - On success: result + nil errors + nil error
//   - On parse/eval failure: nil result + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (c *Console) Evaluate(source string, st State) (*Result, []EvalError, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := evaluate(source, st)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &c.mu, &c.generation)
}

func evaluate(source string, st State) (*Result, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	rec := newRecorder(st)
	registerBuiltins(env, rec)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	v, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	res := &Result{Commands: rec.commands, Output: rec.output}
	if v != nil && v != zygo.SexpNull {
		res.Value = v.SexpString(nil)
	}
	return res, nil, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
