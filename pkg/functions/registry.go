// Package functions provides the registry of named callables usable from
// expressions.
//
// The registry is the evaluation-time allowlist: a Call whose callee names a
// function not present in the registry (and not one of the evaluator's fixed
// builtins) is an evaluation error. Expressions calling unknown names still
// parse — the security boundary is enforced when they run.
//
// A Registry is an explicit value so that multiple isolated interpreters
// (tests, sandboxes, per-tenant extensions) cannot collide on names. The
// process-wide [Default] registry backs the module-load-time extension
// point used by content-grading extensions:
//
//	func init() {
//	    functions.RegisterDSLFunction("isPalindrome", func(args []any) (any, error) {
//	        ...
//	    })
//	}
package functions

import (
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Func is the signature of a registered callable. args contains the
// evaluated arguments in order. The function must be pure: no I/O, no
// mutation of its arguments.
type Func func(args []any) (any, error)

// Def pairs a function name with its implementation, so extension packages
// can export their callables as data.
type Def struct {
	// Name is the function name as it appears inside expressions.
	Name string
	// Fn is the implementation.
	Fn Func
}

// Registry is a name-to-callable table. Registration is append-mostly and
// mutex-guarded; evaluation only reads, so concurrent reads are safe even
// when an extension registers late.
type Registry struct {
	mu     sync.RWMutex
	fns    map[string]Func
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger falls back to
// slog.Default at warning time.
func NewRegistry() *Registry {
	return &Registry{
		fns: map[string]Func{},
	}
}

// SetLogger sets the logger used for overwrite warnings.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Register adds fn under name. Re-registering a name with the identical
// callable is a no-op (reload-safe); re-registering with a different
// callable overwrites the entry and logs a warning.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.fns[name]; ok {
		if reflect.ValueOf(existing).Pointer() == reflect.ValueOf(fn).Pointer() {
			return
		}
		logger := r.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("overwriting registered DSL function", "name", name)
	}
	r.fns[name] = fn
}

// RegisterAll registers every definition in defs.
func (r *Registry) RegisterAll(defs ...Def) {
	for _, d := range defs {
		r.Register(d.Name, d.Fn)
	}
}

// Get returns the callable registered under name.
func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	fn, ok := r.fns[name]
	r.mu.RUnlock()
	return fn, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the sorted list of registered names. Tooling uses it to
// validate and document which calls are legal.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	n := len(r.fns)
	r.mu.RUnlock()
	return n
}

// defaultRegistry is the process-wide registry behind the load-time
// extension point. Evaluators constructed without WithRegistry read it.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// RegisterDSLFunction registers fn under name in the default registry.
// Intended to be called from extension-module init functions.
func RegisterDSLFunction(name string, fn Func) {
	defaultRegistry.Register(name, fn)
}

// GetDSLFunction returns the callable registered under name in the default
// registry.
func GetDSLFunction(name string) (Func, bool) {
	return defaultRegistry.Get(name)
}

// HasDSLFunction reports whether name is registered in the default registry.
func HasDSLFunction(name string) bool {
	return defaultRegistry.Has(name)
}

// GetDSLFunctionNames returns the sorted names in the default registry.
func GetDSLFunctionNames() []string {
	return defaultRegistry.Names()
}
