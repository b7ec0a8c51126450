// Package evaluator implements the expression evaluation engine.
//
// The evaluator receives a parsed AST and walks it together with a resolved
// value [types.Context] and a function registry to produce a dynamically
// typed result. It is synchronous and pure with respect to its inputs: no
// I/O, no goroutines, no blocking.
//
// # Containment
//
// No code path hands expression text, or any sub-expression, to a host
// language evaluator: every construct the grammar can produce is interpreted
// explicitly by a case in this package. Arrow-function arguments are carried
// as inert closure values and run by re-entering the evaluator, never as
// native Go closures over user input.
//
// # Example
//
//	expr, err := parser.Parse("@score + 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eval := evaluator.New()
//	result, err := eval.Eval(expr, &types.Context{
//	    ComponentState: map[string]any{"score": 5.0},
//	})
package evaluator

import (
	"fmt"
	"log/slog"

	"github.com/coursekit/exprdsl/pkg/functions"
	"github.com/coursekit/exprdsl/pkg/types"
)

// Evaluator evaluates compiled expressions against a Context.
// It is safe for concurrent use: evaluation only reads the registry.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Registry is the allowlist of callable names. When nil, the process-wide
	// functions.Default registry is used.
	Registry *functions.Registry
	// Logger for structured logging of evaluation failures (debug level).
	Logger *slog.Logger
	// MaxDepth limits evaluation recursion depth. Defaults to 1000.
	MaxDepth int
}

// EvalOption configures an Evaluator.
type EvalOption func(*EvalOptions)

// WithRegistry sets the function registry the evaluator consults.
// Passing an explicit registry keeps interpreters isolated from each other.
func WithRegistry(r *functions.Registry) EvalOption {
	return func(opts *EvalOptions) {
		opts.Registry = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum evaluation recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: 1000,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
	}
}

// registry returns the registry this evaluator consults.
func (e *Evaluator) registry() *functions.Registry {
	if e.opts.Registry != nil {
		return e.opts.Registry
	}
	return functions.Default()
}

// Eval evaluates a compiled expression against the given Context and returns
// a dynamically typed value (bool, float64, string, []any or
// map[string]any). The Context is never mutated; a nil Context behaves as
// empty namespaces, so missing state fails closed.
func (e *Evaluator) Eval(expr *types.Expression, vals *types.Context) (any, error) {
	if expr == nil || expr.AST() == nil {
		return nil, fmt.Errorf("invalid expression")
	}

	result, err := e.evalNode(expr.AST(), newScope(vals), 0)
	if err != nil {
		e.logger.Debug("evaluation failed", "source", expr.Source(), "error", err)
		return nil, err
	}
	return result, nil
}

// EvalNode evaluates a bare AST node against the given Context.
func (e *Evaluator) EvalNode(node types.Node, vals *types.Context) (any, error) {
	if node == nil {
		return nil, fmt.Errorf("invalid expression")
	}
	return e.evalNode(node, newScope(vals), 0)
}
