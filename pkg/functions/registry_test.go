package functions

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v any) Func {
	return func(args []any) (any, error) { return v, nil }
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("double"))

	r.Register("double", func(args []any) (any, error) {
		return args[0].(float64) * 2, nil
	})

	require.True(t, r.Has("double"))
	fn, ok := r.Get("double")
	require.True(t, ok)
	got, err := fn([]any{float64(21)})
	require.NoError(t, err)
	assert.Equal(t, float64(42), got)
}

func TestRegisterIdenticalCallableIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	r.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	fn := constant(1)
	r.Register("f", fn)
	r.Register("f", fn)

	assert.Equal(t, 1, r.Len())
	assert.Empty(t, buf.String(), "re-registering the same callable must not warn")
}

func TestRegisterDifferentCallableOverwritesAndWarns(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	r.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	r.Register("f", constant(1))
	r.Register("f", constant(2))

	fn, ok := r.Get("f")
	require.True(t, ok)
	got, err := fn(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Contains(t, buf.String(), "overwriting registered DSL function")
	assert.Contains(t, buf.String(), "name=f")
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", constant(nil))
	r.Register("alpha", constant(nil))
	r.Register("mid", constant(nil))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestRegisterAll(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll(
		Def{Name: "a", Fn: constant(1)},
		Def{Name: "b", Fn: constant(2)},
	)
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Has("a"))
	assert.True(t, r.Has("b"))
}

func TestRegistriesAreIsolated(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	a.Register("onlyA", constant(nil))

	assert.True(t, a.Has("onlyA"))
	assert.False(t, b.Has("onlyA"))
}

func TestDefaultRegistryHelpers(t *testing.T) {
	name := "registryTestHelper"
	require.False(t, HasDSLFunction(name))

	RegisterDSLFunction(name, constant("ok"))
	assert.True(t, HasDSLFunction(name))
	assert.Contains(t, GetDSLFunctionNames(), name)

	fn, ok := GetDSLFunction(name)
	require.True(t, ok)
	got, err := fn(nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	assert.Same(t, Default(), Default())
}
