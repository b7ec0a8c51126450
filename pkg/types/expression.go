package types

// Expression represents a compiled expression.
//
// An Expression can be evaluated any number of times against different
// Contexts by passing it to the evaluator. It is immutable and safe for
// concurrent use by multiple goroutines.
type Expression struct {
	ast    Node
	source string
}

// NewExpression creates a new Expression from a root node and its source.
func NewExpression(ast Node, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the root node of the expression.
func (e *Expression) AST() Node {
	return e.ast
}

// Source returns the original source text of the expression.
func (e *Expression) Source() string {
	return e.source
}

// String returns the source text.
func (e *Expression) String() string {
	return e.source
}
