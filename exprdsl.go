// Package exprdsl implements an embedded, sandboxed expression language for
// authored content: conditions over reactive component state, aggregation
// predicates over child collections, and string interpolation — without
// arbitrary host-code execution.
//
// Expressions read external state through three sigil namespaces:
//
//	@id   component state (reactive runtime state keyed by element id)
//	#id   authored content (read-only, keyed by element id)
//	$name global session variables
//
// # Quick start
//
//	// Compile once, evaluate on every state change
//	expr, err := exprdsl.Compile(`@attempts < 3 && @answer !== ""`)
//	result, err := exprdsl.New().Eval(expr, ctx)
//
//	// One-shot evaluation
//	result, err := exprdsl.Eval(`@correct / @total * 100`, ctx)
//
//	// Static dependency discovery for reactive wiring
//	deps := exprdsl.ExtractRefs(`@score >= #threshold`)
//
// # Pipeline
//
// Authored text flows through parse → (extract | evaluate): the extractor
// reports which external values an expression reads so a reactive store can
// build the Context and re-evaluate when they change; the evaluator then
// produces a value for the UI layer to consume. Both passes handle the full
// closed set of AST nodes.
//
// # Subpackages
//
//   - Parser: github.com/coursekit/exprdsl/pkg/parser
//   - Extractor: github.com/coursekit/exprdsl/pkg/refs
//   - Evaluator: github.com/coursekit/exprdsl/pkg/evaluator
//   - Registry: github.com/coursekit/exprdsl/pkg/functions
//   - Extensions: github.com/coursekit/exprdsl/pkg/ext
package exprdsl

import (
	"github.com/coursekit/exprdsl/pkg/evaluator"
	"github.com/coursekit/exprdsl/pkg/parser"
	"github.com/coursekit/exprdsl/pkg/refs"
	"github.com/coursekit/exprdsl/pkg/types"
)

// Version returns the current version of the module.
func Version() string {
	return "v0.1.0-dev"
}

// Compile parses an expression for repeated evaluation. The compiled
// expression is immutable and safe for concurrent use.
func Compile(source string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Parse(source, opts...)
}

// TryCompile parses an expression, returning nil on any failure.
func TryCompile(source string) *types.Expression {
	return parser.TryParse(source)
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables.
func MustCompile(source string) *types.Expression {
	return parser.MustParse(source)
}

// New creates an Evaluator. See [evaluator.New] for options.
func New(opts ...evaluator.EvalOption) *evaluator.Evaluator {
	return evaluator.New(opts...)
}

// Eval compiles and evaluates an expression in a single call.
// For repeated evaluations of the same source, use Compile plus a cache.
func Eval(source string, ctx *types.Context, opts ...evaluator.EvalOption) (any, error) {
	expr, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return evaluator.New(opts...).Eval(expr, ctx)
}

// ExtractRefs returns the partitioned dependency set of an expression.
// Total: a malformed expression yields the zero References.
func ExtractRefs(source string) types.References {
	return refs.ExtractStructuredRefs(source)
}

// ExtractInterpolationRefs returns the merged dependency set of every
// {{ expression }} span in free prose.
func ExtractInterpolationRefs(text string) types.References {
	return refs.ExtractInterpolationRefs(text)
}
