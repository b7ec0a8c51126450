// Package parser implements the expression-language parser.
//
// The parser is a hand-written recursive descent parser using Pratt's
// "Top Down Operator Precedence" technique. It turns a source string into an
// immutable AST ([types.Expression]) or a structured [types.Error]; no
// partial trees are ever returned.
//
// # Entry points
//
//   - [Parse] is the strict entry point: it returns the compiled expression
//     or a structured error with position information.
//   - [TryParse] is the tolerant entry point: it returns nil on any failure
//     and never panics. Dependency discovery uses it so that one malformed
//     expression cannot block a caller.
//   - [MustParse] panics on failure; it simplifies static initialization.
//
// # Example
//
//	expr, err := parser.Parse(`@score >= #threshold ? "pass" : "fail"`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"fmt"

	"github.com/coursekit/exprdsl/pkg/types"
)

// Parse parses an expression and returns the compiled Expression.
// On malformed input it returns a *types.Error describing the first failure;
// no partial tree is ever produced.
func Parse(source string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// TryParse parses an expression, returning nil on any failure.
// It never panics and never returns an error.
func TryParse(source string, opts ...CompileOption) *types.Expression {
	expr, err := Parse(source, opts...)
	if err != nil {
		return nil
	}
	return expr
}

// MustParse is like Parse but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(source string) *types.Expression {
	expr, err := Parse(source)
	if err != nil {
		panic(fmt.Sprintf("exprdsl: Parse(%q): %v", source, err))
	}
	return expr
}

// CompileOption configures parser behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits expression nesting depth to prevent stack overflow on
	// adversarial input. Defaults to 100.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
