package extmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursekit/exprdsl/pkg/functions"
)

func call(t *testing.T, def functions.Def, args ...any) any {
	t.Helper()
	got, err := def.Fn(args)
	require.NoError(t, err, "%s(%v)", def.Name, args)
	return got
}

func TestEqualsIgnoreCase(t *testing.T) {
	def := EqualsIgnoreCase()
	assert.Equal(t, true, call(t, def, "  Paris ", "paris"))
	assert.Equal(t, true, call(t, def, "PARIS", "Paris"))
	assert.Equal(t, false, call(t, def, "Paris", "London"))
	assert.Equal(t, false, call(t, def, nil, "Paris"), "absent state never matches")

	_, err := def.Fn([]any{"only one"})
	assert.Error(t, err)
}

func TestCloseTo(t *testing.T) {
	def := CloseTo()
	assert.Equal(t, true, call(t, def, 3.1415, 3.14, 0.01))
	assert.Equal(t, false, call(t, def, 3.2, 3.14, 0.01))
	assert.Equal(t, true, call(t, def, 5, 5.0, 0.0))
	assert.Equal(t, false, call(t, def, "3.14", 3.14, 0.01), "strings never coerce")

	_, err := def.Fn([]any{1.0, 2.0})
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	def := Matches()
	assert.Equal(t, true, call(t, def, "12345", "[0-9]+"))
	assert.Equal(t, false, call(t, def, "12a45", "[0-9]+"))
	// The pattern is anchored: a partial match is not enough.
	assert.Equal(t, false, call(t, def, "abc123", "[0-9]+"))
	assert.Equal(t, true, call(t, def, "cat", "cat|dog"))
	assert.Equal(t, false, call(t, def, nil, "cat"))

	_, err := def.Fn([]any{"x", "("})
	assert.Error(t, err, "invalid pattern is an evaluation error")
}

func TestOneOf(t *testing.T) {
	def := OneOf()
	assert.Equal(t, true, call(t, def, "b", "a", "b", "c"))
	assert.Equal(t, false, call(t, def, "z", "a", "b", "c"))
	assert.Equal(t, true, call(t, def, 2.0, 1, 2, 3), "numeric kinds normalize")
	assert.Equal(t, false, call(t, def, "2", 1, 2, 3))

	_, err := def.Fn([]any{"lonely"})
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	r := functions.NewRegistry()
	Register(r)
	assert.Equal(t, []string{"closeTo", "equalsIgnoreCase", "matches", "oneOf"}, r.Names())
}
