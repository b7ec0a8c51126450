package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursekit/exprdsl/pkg/types"
)

func TestExtractReferencesDeduplicates(t *testing.T) {
	got := ExtractReferences("@x + @x")
	assert.Equal(t, []types.Reference{
		{Sigil: types.SigilComponentState, ID: "x"},
	}, got)
}

func TestExtractReferencesFirstSeenOrder(t *testing.T) {
	got := ExtractReferences("@b + @a + @b")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestExtractReferencesAllPositions(t *testing.T) {
	// References must be found in every syntactic position: call arguments,
	// ternary branches, template holes, arrow bodies, object values, member
	// chains and unary operands.
	tests := []struct {
		name   string
		source string
		ids    []string
	}{
		{"call argument", "wordCount(@essay)", []string{"essay"}},
		{"ternary branches", "@a ? @b : @c", []string{"a", "b", "c"}},
		{"template hole", "`got ${@n} points`", []string{"n"}},
		{"arrow body", "@items.every(c => c.n > @min)", []string{"items", "min"}},
		{"object value", "{ score: @score }", []string{"score"}},
		{"unary operand", "!@done", []string{"done"}},
		{"nested parens", "((@x))", []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractReferences(tt.source)
			ids := make([]string, len(got))
			for i, r := range got {
				ids[i] = r.ID
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestExtractReferencesDistinctFieldPaths(t *testing.T) {
	// Same id with different field paths yields distinct references.
	got := ExtractReferences("@user.name + @user.age + @user.name")
	assert.Equal(t, []types.Reference{
		{Sigil: types.SigilComponentState, ID: "user", Fields: []string{"name"}},
		{Sigil: types.SigilComponentState, ID: "user", Fields: []string{"age"}},
	}, got)
}

func TestExtractReferencesTotalOnMalformedInput(t *testing.T) {
	for _, source := range []string{"", "(((", "@ +", "1 +++ 2", "`${"} {
		assert.Empty(t, ExtractReferences(source), "source %q", source)
	}
}

func TestExtractStructuredRefsBuckets(t *testing.T) {
	got := ExtractStructuredRefs("@user + #greeting + $locale")
	assert.Equal(t, types.References{
		ComponentState: []types.ComponentStateRef{{Key: "user"}},
		OLXContent:     []types.ContentRef{{ID: "greeting"}},
		GlobalVars:     []types.GlobalRef{{Name: "locale"}},
	}, got)
}

func TestExtractStructuredRefsUnionsFields(t *testing.T) {
	got := ExtractStructuredRefs("@user.name + @user.age + @user.name")
	assert.Equal(t, types.References{
		ComponentState: []types.ComponentStateRef{
			{Key: "user", Fields: []string{"age", "name"}},
		},
	}, got)
}

func TestMergeReferences(t *testing.T) {
	a := ExtractStructuredRefs("@user.name + #greeting")
	b := ExtractStructuredRefs("@user.age + $locale")

	merged := MergeReferences(a, b)
	assert.Equal(t, types.References{
		ComponentState: []types.ComponentStateRef{
			{Key: "user", Fields: []string{"age", "name"}},
		},
		OLXContent: []types.ContentRef{{ID: "greeting"}},
		GlobalVars: []types.GlobalRef{{Name: "locale"}},
	}, merged)
}

func TestMergeReferencesIdentity(t *testing.T) {
	a := ExtractStructuredRefs("@user.name + #greeting + $locale")
	assert.Equal(t, a, MergeReferences(a, types.References{}))
	assert.Equal(t, a, MergeReferences(types.References{}, a))
}

func TestMergeReferencesCommutativeAndAssociative(t *testing.T) {
	a := ExtractStructuredRefs("@x.f1")
	b := ExtractStructuredRefs("@x.f2 + #c")
	c := ExtractStructuredRefs("$g + @x.f1")

	// Set contents are order-independent even though entry order follows
	// first appearance.
	ab := MergeReferences(a, b)
	ba := MergeReferences(b, a)
	assert.ElementsMatch(t, ab.ComponentState, ba.ComponentState)
	assert.ElementsMatch(t, ab.OLXContent, ba.OLXContent)

	assert.Equal(t,
		MergeReferences(MergeReferences(a, b), c),
		MergeReferences(a, MergeReferences(b, c)))
}

func TestReferenceKeyDistinguishesSigils(t *testing.T) {
	state := types.Reference{Sigil: types.SigilComponentState, ID: "x"}
	global := types.Reference{Sigil: types.SigilGlobalVar, ID: "x"}
	assert.NotEqual(t, state.Key(), global.Key())
}

func FuzzExtractReferences(f *testing.F) {
	f.Add("@x + 1")
	f.Add("`${@a}`")
	f.Add("(((")
	f.Add("@user.name === $locale ? #a : #b")
	f.Fuzz(func(t *testing.T, source string) {
		// Must never panic or error, whatever the input.
		ExtractReferences(source)
	})
}
