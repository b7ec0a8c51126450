// Package ext provides optional extension functions beyond the fixed
// builtins, grouped by category:
//
//   - extmatch – answer matchers: equalsIgnoreCase, closeTo, matches, oneOf
//   - exttext  – text helpers: charCount, startsWith, endsWith, contains, join
//
// # Integration – all extensions at once
//
//	reg := functions.NewRegistry()
//	ext.RegisterAll(reg)
//	eval := evaluator.New(evaluator.WithRegistry(reg))
//
// # Integration – into the process-wide registry at load time
//
//	func init() {
//	    ext.RegisterAll(functions.Default())
//	}
package ext

import (
	"github.com/coursekit/exprdsl/pkg/ext/extmatch"
	"github.com/coursekit/exprdsl/pkg/ext/exttext"
	"github.com/coursekit/exprdsl/pkg/functions"
)

// All returns every extension function definition.
func All() []functions.Def {
	var all []functions.Def
	all = append(all, extmatch.All()...)
	all = append(all, exttext.All()...)
	return all
}

// RegisterAll registers every extension function on r.
func RegisterAll(r *functions.Registry) {
	r.RegisterAll(All()...)
}
