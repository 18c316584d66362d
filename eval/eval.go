// Package eval implements the codegrid Evaluator boundary on top of
// expr-lang/expr. Cell code is compiled once per distinct source string and
// the compiled programs are cached; every failure, including compile errors,
// runtime errors, panics, and reference-depth bounds, is captured into the
// cell's Result and never propagates.
package eval

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/javajack/codegrid"
)

// DefaultMaxDepth bounds recursive cell references unless overridden.
const DefaultMaxDepth = 64

// Evaluator runs cell code as expr expressions. The zero value is not
// usable; create one with New.
type Evaluator struct {
	programs sync.Map // code string → *vm.Program
	maxDepth int
	depth    int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDepth sets the recursive cell-reference bound.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) { e.maxDepth = n }
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval implements codegrid.Evaluator. The expression environment is the
// grid's namespace plus bindings for the evaluated cell: row, col, and
// table hold the cell's own position, and cell(row, col, table) resolves
// another cell's result, failing if that cell's result is an error.
func (e *Evaluator) Eval(coord codegrid.Coordinate, code string, env *codegrid.Env) (res codegrid.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = codegrid.Result{Err: fmt.Errorf("cell %v: panic: %v", coord, rec)}
		}
	}()

	if code == "" {
		return codegrid.Result{}
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.maxDepth {
		return codegrid.Result{Err: fmt.Errorf("cell %v: reference depth exceeds %d", coord, e.maxDepth)}
	}

	program, err := e.compile(code)
	if err != nil {
		return codegrid.Result{Err: fmt.Errorf("cell %v: compile: %w", coord, err)}
	}

	data := make(map[string]any, len(env.Namespace)+4)
	for k, v := range env.Namespace {
		data[k] = v
	}
	data["row"] = coord.Row
	data["col"] = coord.Col
	data["table"] = coord.Table
	data["cell"] = func(row, col, table int) (any, error) {
		r := env.Resolve(codegrid.Coordinate{Row: row, Col: col, Table: table})
		if r.Err != nil {
			return nil, fmt.Errorf("referenced cell (%d, %d, %d): %w", row, col, table, r.Err)
		}
		return r.Value, nil
	}

	out, err := expr.Run(program, data)
	if err != nil {
		return codegrid.Result{Err: fmt.Errorf("cell %v: %w", coord, err)}
	}
	return codegrid.Result{Value: out}
}

func (e *Evaluator) compile(code string) (*vm.Program, error) {
	if cached, ok := e.programs.Load(code); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(code)
	if err != nil {
		return nil, err
	}
	e.programs.Store(code, program)
	return program, nil
}
