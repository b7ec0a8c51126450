package evaluator

import (
	"fmt"
	"strings"

	"github.com/coursekit/exprdsl/pkg/types"
)

// evalNode dispatches over every AST node variant exhaustively. Adding a
// grammar production requires adding a case here and in the reference
// extractor; an unknown variant panics so the omission cannot pass silently.
func (e *Evaluator) evalNode(node types.Node, sc *scope, depth int) (any, error) {
	if e.opts.MaxDepth > 0 && depth > e.opts.MaxDepth {
		return nil, types.NewError(types.ErrStackOverflow, "Evaluation too deeply nested", -1)
	}

	switch n := node.(type) {
	case *types.NumberLit:
		return n.Value, nil

	case *types.StringLit:
		return n.Value, nil

	case *types.BooleanLit:
		return n.Value, nil

	case *types.SigilRef:
		// Missing ids and missing intermediate fields resolve to nil so
		// gating conditions fail closed instead of erroring.
		value := sc.values.Lookup(n.Sigil, n.ID)
		for _, field := range n.Fields {
			value = member(value, field)
		}
		return value, nil

	case *types.Identifier:
		if v, ok := sc.binding(n.Name); ok {
			return v, nil
		}
		if n.Name == "Math" {
			return mathNamespace{}, nil
		}
		return nil, types.NewError(types.ErrUndefinedIdentifier, fmt.Sprintf("Unknown identifier: %s", n.Name), -1).WithToken(n.Name)

	case *types.UnaryOp:
		arg, err := e.evalNode(n.Arg, sc, depth+1)
		if err != nil {
			return nil, err
		}
		return !truthy(arg), nil

	case *types.BinaryOp:
		return e.evalBinary(n, sc, depth)

	case *types.Ternary:
		cond, err := e.evalNode(n.Cond, sc, depth+1)
		if err != nil {
			return nil, err
		}
		// Only the chosen branch runs; the other may contain calls or
		// operands that would error.
		if truthy(cond) {
			return e.evalNode(n.Then, sc, depth+1)
		}
		return e.evalNode(n.Else, sc, depth+1)

	case *types.MemberAccess:
		obj, err := e.evalNode(n.Object, sc, depth+1)
		if err != nil {
			return nil, err
		}
		if _, isMath := obj.(mathNamespace); isMath {
			return nil, types.NewError(types.ErrTypeMismatch, fmt.Sprintf("Math.%s must be called", n.Property), -1)
		}
		return member(obj, n.Property), nil

	case *types.Call:
		return e.evalCall(n, sc, depth)

	case *types.ArrowFunction:
		return nil, types.NewError(types.ErrArrowOutsideCall, "Arrow function is not a value outside call arguments", -1)

	case *types.TemplateLiteral:
		var b strings.Builder
		for _, part := range n.Parts {
			switch p := part.(type) {
			case types.TemplateText:
				b.WriteString(p.Text)
			case types.TemplateExpr:
				v, err := e.evalNode(p.Expr, sc, depth+1)
				if err != nil {
					return nil, err
				}
				b.WriteString(stringify(v))
			}
		}
		return b.String(), nil

	case *types.ObjectLiteral:
		obj := make(map[string]any, len(n.Keys))
		for i, key := range n.Keys {
			v, err := e.evalNode(n.Values[i], sc, depth+1)
			if err != nil {
				return nil, err
			}
			obj[key] = v
		}
		return obj, nil

	default:
		panic(fmt.Sprintf("evaluator: unhandled AST node %T", node))
	}
}
