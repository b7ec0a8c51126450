package evaluator

import "github.com/coursekit/exprdsl/pkg/types"

// scope is the evaluation environment: the caller-supplied Context plus a
// chain of arrow-parameter bindings. Binding never mutates; it pushes a new
// frame, so a closure captured before a bind is unaffected by it.
type scope struct {
	values *types.Context
	parent *scope
	name   string
	value  any
}

// newScope creates the root scope over a Context.
func newScope(values *types.Context) *scope {
	return &scope{values: values}
}

// bind returns a child scope with name bound to value.
func (s *scope) bind(name string, value any) *scope {
	return &scope{
		values: s.values,
		parent: s,
		name:   name,
		value:  value,
	}
}

// binding resolves an arrow-parameter binding, innermost first.
func (s *scope) binding(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.name != "" && cur.name == name {
			return cur.value, true
		}
	}
	return nil, false
}
