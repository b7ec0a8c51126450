// Package types defines the core type system for the expression language.
//
// This package contains type definitions for:
//   - Node: the closed set of AST node variants
//   - Expression: a compiled expression (AST + source)
//   - Reference / References: external state read by an expression
//   - Context: the resolved-value bundle an evaluation run requires
//   - Error types: structured errors with codes
package types

// Sigil is the single-character prefix selecting which namespace an external
// reference resolves against.
type Sigil rune

const (
	// SigilComponentState selects reactive runtime state keyed by element id (@).
	SigilComponentState Sigil = '@'
	// SigilOLXContent selects read-only authored content keyed by element id (#).
	SigilOLXContent Sigil = '#'
	// SigilGlobalVar selects ambient session-level variables ($).
	SigilGlobalVar Sigil = '$'
)

// String returns the sigil character.
func (s Sigil) String() string {
	return string(rune(s))
}

// Node is the interface implemented by every AST node variant.
//
// The set of variants is closed: the node() marker is unexported, so no
// package outside types can add a kind. Both the reference extractor and the
// evaluator dispatch over the full set with a type switch; a variant missing
// from either is reported as an internal error rather than silently skipped.
type Node interface {
	node()
}

// SigilRef is a reference to external state: a sigil, an id, and zero or more
// field lookups applied to the resolved value (e.g. @answers.count).
type SigilRef struct {
	Sigil  Sigil
	ID     string
	Fields []string
}

// BinaryOp is an infix operation: ||, &&, ===, !==, >, >=, <, <=, +, -, *, /.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

// UnaryOp is a prefix operation. The only operator is logical not (!).
type UnaryOp struct {
	Op  string
	Arg Node
}

// Ternary is the conditional operator: condition ? then : else.
// Only the chosen branch is ever evaluated.
type Ternary struct {
	Cond Node
	Then Node
	Else Node
}

// Call applies a callee to a list of arguments. The callee is validated at
// evaluation time against the allowlist of builtins and registered functions.
type Call struct {
	Callee Node
	Args   []Node
}

// MemberAccess is a property lookup on an evaluated object (map field,
// list or string length, or a callable selected from the Math namespace).
type MemberAccess struct {
	Object   Node
	Property string
}

// ArrowFunction is a single-parameter callback (param => body). It is inert
// data: the evaluator only accepts it in call-argument position, where it is
// passed to a collection builtin as a closure value.
type ArrowFunction struct {
	Param string
	Body  Node
}

// NumberLit is a numeric literal. All numbers are float64.
type NumberLit struct {
	Value float64
}

// StringLit is a quoted string literal with escapes already resolved.
type StringLit struct {
	Value string
}

// BooleanLit is true or false.
type BooleanLit struct {
	Value bool
}

// Identifier is a bare name. Only Math and arrow-function parameters resolve;
// any other identifier is an evaluation error.
type Identifier struct {
	Name string
}

// TemplateLiteral is a backtick template: literal text runs interleaved with
// ${expr} holes, concatenated in source order at evaluation time.
type TemplateLiteral struct {
	Parts []TemplatePart
}

// TemplatePart is either a TemplateText run or a TemplateExpr hole.
type TemplatePart interface {
	templatePart()
}

// TemplateText is a literal text run inside a template literal.
type TemplateText struct {
	Text string
}

// TemplateExpr is a ${expr} hole inside a template literal.
type TemplateExpr struct {
	Expr Node
}

// ObjectLiteral is { key: expr, ... }. Keys and Values are parallel slices in
// source order; duplicate keys keep the last value.
type ObjectLiteral struct {
	Keys   []string
	Values []Node
}

func (*SigilRef) node()        {}
func (*BinaryOp) node()        {}
func (*UnaryOp) node()         {}
func (*Ternary) node()         {}
func (*Call) node()            {}
func (*MemberAccess) node()    {}
func (*ArrowFunction) node()   {}
func (*NumberLit) node()       {}
func (*StringLit) node()       {}
func (*BooleanLit) node()      {}
func (*Identifier) node()      {}
func (*TemplateLiteral) node() {}
func (*ObjectLiteral) node()   {}

func (TemplateText) templatePart() {}
func (TemplateExpr) templatePart() {}
