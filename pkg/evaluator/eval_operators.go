package evaluator

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/coursekit/exprdsl/pkg/types"
)

// evalBinary evaluates one binary operation. && and || short-circuit: the
// right side is not evaluated (and so cannot error) when the left side
// decides the result. Like the source language, they return the deciding
// operand value rather than forcing a boolean.
func (e *Evaluator) evalBinary(n *types.BinaryOp, sc *scope, depth int) (any, error) {
	switch n.Op {
	case "&&":
		left, err := e.evalNode(n.Left, sc, depth+1)
		if err != nil {
			return nil, err
		}
		if !truthy(left) {
			return left, nil
		}
		return e.evalNode(n.Right, sc, depth+1)
	case "||":
		left, err := e.evalNode(n.Left, sc, depth+1)
		if err != nil {
			return nil, err
		}
		if truthy(left) {
			return left, nil
		}
		return e.evalNode(n.Right, sc, depth+1)
	}

	left, err := e.evalNode(n.Left, sc, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := e.evalNode(n.Right, sc, depth+1)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "===":
		return strictEquals(left, right), nil
	case "!==":
		return !strictEquals(left, right), nil
	case "<", "<=", ">", ">=":
		return compare(n.Op, left, right)
	case "+":
		return add(left, right)
	case "-", "*", "/":
		return arithmetic(n.Op, left, right)
	default:
		return nil, types.NewError(types.ErrTypeMismatch, fmt.Sprintf("Unknown operator: %s", n.Op), -1)
	}
}

// truthy implements the truthiness rule: nil, false, 0, NaN, "" and empty
// lists/maps are falsy; everything else is truthy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	if n, ok := toNumber(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

// toNumber converts numeric Go kinds to float64. Strings never coerce.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// strictEquals implements === with no implicit type coercion: operands are
// equal only when they are the same kind of value and compare equal. Numeric
// Go kinds are normalized to float64 first. Lists and maps never compare
// equal (reference semantics are not modeled).
func strictEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, aok := toNumber(a); aok {
		bn, bok := toNumber(b)
		return bok && an == bn
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}

// compare implements the relational operators: numeric when both sides are
// numbers, lexicographic when both are strings, a type error otherwise.
func compare(op string, a, b any) (any, error) {
	if an, aok := toNumber(a); aok {
		if bn, bok := toNumber(b); bok {
			switch op {
			case "<":
				return an < bn, nil
			case "<=":
				return an <= bn, nil
			case ">":
				return an > bn, nil
			default:
				return an >= bn, nil
			}
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			switch op {
			case "<":
				return as < bs, nil
			case "<=":
				return as <= bs, nil
			case ">":
				return as > bs, nil
			default:
				return as >= bs, nil
			}
		}
	}
	return nil, types.NewError(types.ErrTypeMismatch,
		fmt.Sprintf("Cannot compare %s and %s with %s", typeName(a), typeName(b), op), -1)
}

// add implements +: string concatenation when either side is a string,
// numeric addition otherwise.
func add(a, b any) (any, error) {
	_, aStr := a.(string)
	_, bStr := b.(string)
	if aStr || bStr {
		return stringify(a) + stringify(b), nil
	}
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if !aok || !bok {
		return nil, types.NewError(types.ErrTypeMismatch,
			fmt.Sprintf("Cannot add %s and %s", typeName(a), typeName(b)), -1)
	}
	return an + bn, nil
}

// arithmetic implements the numeric-only operators -, * and /.
func arithmetic(op string, a, b any) (any, error) {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if !aok || !bok {
		return nil, types.NewError(types.ErrTypeMismatch,
			fmt.Sprintf("Operator %s requires numbers, got %s and %s", op, typeName(a), typeName(b)), -1)
	}
	switch op {
	case "-":
		return an - bn, nil
	case "*":
		return an * bn, nil
	default:
		return an / bn, nil
	}
}

// member performs a forgiving property lookup: map field, list or string
// length. Missing fields and nil objects resolve to nil so conditions over
// partially-filled state fail closed.
func member(obj any, prop string) any {
	switch o := obj.(type) {
	case nil:
		return nil
	case map[string]any:
		return o[prop]
	case []any:
		if prop == "length" {
			return float64(len(o))
		}
		return nil
	case string:
		if prop == "length" {
			return float64(utf8.RuneCountInString(o))
		}
		return nil
	}

	// Host callers may supply typed maps and slices (e.g. map[string]string
	// from a YAML loader); index them reflectively.
	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			v := rv.MapIndex(reflect.ValueOf(prop))
			if v.IsValid() {
				return v.Interface()
			}
		}
		return nil
	case reflect.Slice, reflect.Array:
		if prop == "length" {
			return float64(rv.Len())
		}
		return nil
	default:
		return nil
	}
}

// stringify coerces a value to its template/concatenation representation.
// nil renders as the empty string so missing state degrades quietly.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	}
	if n, ok := toNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", v)
}

// typeName names a value's dynamic type for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	case *Closure:
		return "function"
	}
	if _, ok := toNumber(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
