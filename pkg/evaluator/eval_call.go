package evaluator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/coursekit/exprdsl/pkg/types"
)

// Closure is an arrow-function argument carried as inert data: the parameter
// name, the unevaluated body, and the scope captured at the call site. A
// receiving builtin invokes it once per element by re-entering the evaluator
// with the captured scope extended to bind the parameter — no host closure
// over user input is ever created.
type Closure struct {
	Param string
	Body  types.Node
	env   *scope
}

// callClosure re-enters the evaluator with the closure's captured scope
// extended to bind its parameter to value.
func (e *Evaluator) callClosure(cl *Closure, value any, depth int) (any, error) {
	return e.evalNode(cl.Body, cl.env.bind(cl.Param, value), depth+1)
}

// evalCall dispatches a call. The callee must resolve to a whitelisted
// callable: a fixed builtin (wordCount, the restricted Math surface, the
// collection methods) or a name in the function registry. Anything else is
// an evaluation-time error — unknown calls parse fine and fail only here,
// without ever executing host code.
func (e *Evaluator) evalCall(n *types.Call, sc *scope, depth int) (any, error) {
	switch callee := n.Callee.(type) {
	case *types.Identifier:
		// A bound arrow parameter shadows nothing callable.
		if _, bound := sc.binding(callee.Name); bound {
			return nil, types.NewError(types.ErrInvokeNonFunction,
				fmt.Sprintf("%s is not a function", callee.Name), -1)
		}
		args, err := e.evalArgs(n.Args, sc, depth)
		if err != nil {
			return nil, err
		}
		return e.callNamed(callee.Name, args)

	case *types.MemberAccess:
		obj, err := e.evalNode(callee.Object, sc, depth+1)
		if err != nil {
			return nil, err
		}
		args, err := e.evalArgs(n.Args, sc, depth)
		if err != nil {
			return nil, err
		}
		if _, isMath := obj.(mathNamespace); isMath {
			return callMath(callee.Property, args)
		}
		if list, ok := toList(obj); ok {
			return e.callListMethod(callee.Property, list, args, depth)
		}
		if obj == nil {
			// Method call on absent state: the collection methods treat it as
			// an empty list so conditions fail closed instead of erroring.
			if isListMethod(callee.Property) {
				return e.callListMethod(callee.Property, nil, args, depth)
			}
		}
		return nil, types.NewError(types.ErrInvokeNonFunction,
			fmt.Sprintf("%s is not callable on %s", callee.Property, typeName(obj)), -1)

	default:
		return nil, types.NewError(types.ErrInvokeNonFunction, "Expression is not callable", -1)
	}
}

// evalArgs evaluates ordinary arguments eagerly, left to right. An arrow
// function argument is not pre-evaluated: it becomes a Closure capturing the
// current scope.
func (e *Evaluator) evalArgs(args []types.Node, sc *scope, depth int) ([]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]any, 0, len(args))
	for _, arg := range args {
		if arrow, ok := arg.(*types.ArrowFunction); ok {
			out = append(out, &Closure{Param: arrow.Param, Body: arrow.Body, env: sc})
			continue
		}
		v, err := e.evalNode(arg, sc, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// callNamed resolves a bare-name call: fixed builtins first, then the
// registry.
func (e *Evaluator) callNamed(name string, args []any) (any, error) {
	if name == "wordCount" {
		return wordCount(args)
	}
	if fn, ok := e.registry().Get(name); ok {
		return fn(args)
	}
	return nil, types.NewError(types.ErrUndefinedFunction,
		fmt.Sprintf("Unknown function: %s", name), -1).WithToken(name)
}

// wordCount is the fixed word-count builtin: the number of
// whitespace-separated words in its string argument.
func wordCount(args []any) (any, error) {
	if len(args) != 1 {
		return nil, types.NewError(types.ErrArgumentCount, "wordCount expects 1 argument", -1)
	}
	s, ok := args[0].(string)
	if !ok {
		if args[0] == nil {
			return float64(0), nil
		}
		return nil, types.NewError(types.ErrTypeMismatch,
			fmt.Sprintf("wordCount expects a string, got %s", typeName(args[0])), -1)
	}
	return float64(len(strings.Fields(s))), nil
}

// isListMethod reports whether name is one of the collection builtins.
func isListMethod(name string) bool {
	switch name {
	case "every", "some", "filter", "map", "find", "includes":
		return true
	default:
		return false
	}
}

// callListMethod runs a collection builtin over a list value. The predicate
// methods short-circuit: every stops at the first falsy result, some at the
// first truthy one, find at the first match — later elements are never
// visited.
func (e *Evaluator) callListMethod(name string, list []any, args []any, depth int) (any, error) {
	if name == "includes" {
		if len(args) != 1 {
			return nil, types.NewError(types.ErrArgumentCount, "includes expects 1 argument", -1)
		}
		for _, item := range list {
			if strictEquals(item, args[0]) {
				return true, nil
			}
		}
		return false, nil
	}

	if !isListMethod(name) {
		return nil, types.NewError(types.ErrInvokeNonFunction,
			fmt.Sprintf("%s is not callable on list", name), -1)
	}
	if len(args) != 1 {
		return nil, types.NewError(types.ErrArgumentCount,
			fmt.Sprintf("%s expects 1 argument", name), -1)
	}
	cl, ok := args[0].(*Closure)
	if !ok {
		return nil, types.NewError(types.ErrTypeMismatch,
			fmt.Sprintf("%s expects an arrow function argument", name), -1)
	}

	switch name {
	case "every":
		for _, item := range list {
			v, err := e.callClosure(cl, item, depth)
			if err != nil {
				return nil, err
			}
			if !truthy(v) {
				return false, nil
			}
		}
		return true, nil
	case "some":
		for _, item := range list {
			v, err := e.callClosure(cl, item, depth)
			if err != nil {
				return nil, err
			}
			if truthy(v) {
				return true, nil
			}
		}
		return false, nil
	case "filter":
		out := make([]any, 0, len(list))
		for _, item := range list {
			v, err := e.callClosure(cl, item, depth)
			if err != nil {
				return nil, err
			}
			if truthy(v) {
				out = append(out, item)
			}
		}
		return out, nil
	case "map":
		out := make([]any, 0, len(list))
		for _, item := range list {
			v, err := e.callClosure(cl, item, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default: // find
		for _, item := range list {
			v, err := e.callClosure(cl, item, depth)
			if err != nil {
				return nil, err
			}
			if truthy(v) {
				return item, nil
			}
		}
		return nil, nil
	}
}

// toList converts list-shaped values to []any. Typed slices from host
// callers are converted reflectively.
func toList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}
