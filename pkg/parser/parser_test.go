package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursekit/exprdsl/pkg/types"
)

func parseExpr(t *testing.T, input string) types.Node {
	t.Helper()
	expr, err := Parse(input)
	require.NoError(t, err, "Parse(%q)", input)
	return expr.AST()
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Node
	}{
		{"integer", "42", &types.NumberLit{Value: 42}},
		{"decimal", "3.14", &types.NumberLit{Value: 3.14}},
		{"string double", `"hello"`, &types.StringLit{Value: "hello"}},
		{"string single", `'hello'`, &types.StringLit{Value: "hello"}},
		{"empty string", `""`, &types.StringLit{Value: ""}},
		{"escapes", `"a\"b\\c\n"`, &types.StringLit{Value: "a\"b\\c\n"}},
		{"unicode escape", `"caf\u00e9"`, &types.StringLit{Value: "café"}},
		{"surrogate pair escape", `"\ud83d\ude00"`, &types.StringLit{Value: "😀"}},
		{"true", "true", &types.BooleanLit{Value: true}},
		{"false", "false", &types.BooleanLit{Value: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.input))
		})
	}
}

func TestParseSigilRefs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *types.SigilRef
	}{
		{"component state", "@answer", &types.SigilRef{Sigil: types.SigilComponentState, ID: "answer"}},
		{"content", "#greeting", &types.SigilRef{Sigil: types.SigilOLXContent, ID: "greeting"}},
		{"global", "$locale", &types.SigilRef{Sigil: types.SigilGlobalVar, ID: "locale"}},
		{
			"quoted absolute id",
			`@"block-v1:Org+C1+prob\"lem"`,
			&types.SigilRef{Sigil: types.SigilComponentState, ID: `block-v1:Org+C1+prob"lem`},
		},
		{
			"field path",
			"@completion.done.count",
			&types.SigilRef{Sigil: types.SigilComponentState, ID: "completion", Fields: []string{"done", "count"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.input))
		})
	}
}

func TestParseSigilMethodCall(t *testing.T) {
	// A .name suffix followed by ( is a method call on the referenced value,
	// not a field of the reference.
	node := parseExpr(t, "@items.every(c => c.done)")

	call, ok := node.(*types.Call)
	require.True(t, ok, "expected Call, got %T", node)

	member, ok := call.Callee.(*types.MemberAccess)
	require.True(t, ok, "expected MemberAccess callee, got %T", call.Callee)
	assert.Equal(t, "every", member.Property)
	assert.Equal(t, &types.SigilRef{Sigil: types.SigilComponentState, ID: "items"}, member.Object)

	require.Len(t, call.Args, 1)
	arrow, ok := call.Args[0].(*types.ArrowFunction)
	require.True(t, ok, "expected ArrowFunction argument, got %T", call.Args[0])
	assert.Equal(t, "c", arrow.Param)
	assert.Equal(t, &types.MemberAccess{Object: &types.Identifier{Name: "c"}, Property: "done"}, arrow.Body)
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Node
	}{
		{
			"multiplicative over additive",
			"1 + 2 * 3",
			&types.BinaryOp{Op: "+",
				Left:  &types.NumberLit{Value: 1},
				Right: &types.BinaryOp{Op: "*", Left: &types.NumberLit{Value: 2}, Right: &types.NumberLit{Value: 3}},
			},
		},
		{
			"left associative chain",
			"1 - 2 - 3",
			&types.BinaryOp{Op: "-",
				Left:  &types.BinaryOp{Op: "-", Left: &types.NumberLit{Value: 1}, Right: &types.NumberLit{Value: 2}},
				Right: &types.NumberLit{Value: 3},
			},
		},
		{
			"comparison over logic",
			"1 < 2 && true",
			&types.BinaryOp{Op: "&&",
				Left:  &types.BinaryOp{Op: "<", Left: &types.NumberLit{Value: 1}, Right: &types.NumberLit{Value: 2}},
				Right: &types.BooleanLit{Value: true},
			},
		},
		{
			"and over or",
			"true || false && false",
			&types.BinaryOp{Op: "||",
				Left:  &types.BooleanLit{Value: true},
				Right: &types.BinaryOp{Op: "&&", Left: &types.BooleanLit{Value: false}, Right: &types.BooleanLit{Value: false}},
			},
		},
		{
			"equality over and",
			"1 === 1 && 2 !== 3",
			&types.BinaryOp{Op: "&&",
				Left:  &types.BinaryOp{Op: "===", Left: &types.NumberLit{Value: 1}, Right: &types.NumberLit{Value: 1}},
				Right: &types.BinaryOp{Op: "!==", Left: &types.NumberLit{Value: 2}, Right: &types.NumberLit{Value: 3}},
			},
		},
		{
			"unary binds tighter than binary",
			"!true && false",
			&types.BinaryOp{Op: "&&",
				Left:  &types.UnaryOp{Op: "!", Arg: &types.BooleanLit{Value: true}},
				Right: &types.BooleanLit{Value: false},
			},
		},
		{
			"double negation",
			"!!@done",
			&types.UnaryOp{Op: "!", Arg: &types.UnaryOp{Op: "!",
				Arg: &types.SigilRef{Sigil: types.SigilComponentState, ID: "done"}}},
		},
		{
			"parens override precedence",
			"(1 + 2) * 3",
			&types.BinaryOp{Op: "*",
				Left:  &types.BinaryOp{Op: "+", Left: &types.NumberLit{Value: 1}, Right: &types.NumberLit{Value: 2}},
				Right: &types.NumberLit{Value: 3},
			},
		},
		{
			"ternary lowest",
			"true ? 1 : 2 + 3",
			&types.Ternary{
				Cond: &types.BooleanLit{Value: true},
				Then: &types.NumberLit{Value: 1},
				Else: &types.BinaryOp{Op: "+", Left: &types.NumberLit{Value: 2}, Right: &types.NumberLit{Value: 3}},
			},
		},
		{
			"ternary right associative",
			"true ? 1 : false ? 2 : 3",
			&types.Ternary{
				Cond: &types.BooleanLit{Value: true},
				Then: &types.NumberLit{Value: 1},
				Else: &types.Ternary{
					Cond: &types.BooleanLit{Value: false},
					Then: &types.NumberLit{Value: 2},
					Else: &types.NumberLit{Value: 3},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.input))
		})
	}
}

func TestParseCallsAndMembers(t *testing.T) {
	t.Run("registry call", func(t *testing.T) {
		want := &types.Call{
			Callee: &types.Identifier{Name: "wordCount"},
			Args:   []types.Node{&types.SigilRef{Sigil: types.SigilComponentState, ID: "essay"}},
		}
		assert.Equal(t, want, parseExpr(t, "wordCount(@essay)"))
	})

	t.Run("math call", func(t *testing.T) {
		want := &types.Call{
			Callee: &types.MemberAccess{Object: &types.Identifier{Name: "Math"}, Property: "max"},
			Args:   []types.Node{&types.NumberLit{Value: 1}, &types.NumberLit{Value: 2}},
		}
		assert.Equal(t, want, parseExpr(t, "Math.max(1, 2)"))
	})

	t.Run("chained postfix in source order", func(t *testing.T) {
		// @a.b().c parses as MemberAccess(Call(MemberAccess(@a, b)), c)
		node := parseExpr(t, "@a.b().c")
		outer, ok := node.(*types.MemberAccess)
		require.True(t, ok)
		assert.Equal(t, "c", outer.Property)
		call, ok := outer.Object.(*types.Call)
		require.True(t, ok)
		inner, ok := call.Callee.(*types.MemberAccess)
		require.True(t, ok)
		assert.Equal(t, "b", inner.Property)
	})

	t.Run("empty argument list", func(t *testing.T) {
		want := &types.Call{Callee: &types.Identifier{Name: "now"}}
		assert.Equal(t, want, parseExpr(t, "now()"))
	})
}

func TestParseTemplateLiteral(t *testing.T) {
	t.Run("text and holes in order", func(t *testing.T) {
		want := &types.TemplateLiteral{Parts: []types.TemplatePart{
			types.TemplateText{Text: "Score: "},
			types.TemplateExpr{Expr: &types.SigilRef{Sigil: types.SigilComponentState, ID: "correct"}},
			types.TemplateText{Text: "/"},
			types.TemplateExpr{Expr: &types.SigilRef{Sigil: types.SigilComponentState, ID: "total"}},
		}}
		assert.Equal(t, want, parseExpr(t, "`Score: ${@correct}/${@total}`"))
	})

	t.Run("hole is a full sub-expression", func(t *testing.T) {
		want := &types.TemplateLiteral{Parts: []types.TemplatePart{
			types.TemplateExpr{Expr: &types.BinaryOp{Op: "+",
				Left:  &types.SigilRef{Sigil: types.SigilComponentState, ID: "a"},
				Right: &types.NumberLit{Value: 1},
			}},
		}}
		assert.Equal(t, want, parseExpr(t, "`${@a + 1}`"))
	})

	t.Run("hole may contain object literal braces", func(t *testing.T) {
		node := parseExpr(t, "`${wordCount(\"a b\") > 1 ? \"}\" : \"{\"}`")
		tmpl, ok := node.(*types.TemplateLiteral)
		require.True(t, ok)
		require.Len(t, tmpl.Parts, 1)
	})

	t.Run("escaped dollar is literal", func(t *testing.T) {
		want := &types.TemplateLiteral{Parts: []types.TemplatePart{
			types.TemplateText{Text: "${n}"},
		}}
		assert.Equal(t, want, parseExpr(t, "`\\${n}`"))
	})

	t.Run("empty template", func(t *testing.T) {
		assert.Equal(t, &types.TemplateLiteral{}, parseExpr(t, "``"))
	})
}

func TestParseObjectLiteral(t *testing.T) {
	want := &types.ObjectLiteral{
		Keys: []string{"done", "label"},
		Values: []types.Node{
			&types.BooleanLit{Value: true},
			&types.StringLit{Value: "ok"},
		},
	}
	assert.Equal(t, want, parseExpr(t, `{ done: true, "label": "ok" }`))
}

func TestTryParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unbalanced parens", "(1 + 2"},
		{"empty sigil id", `@"" + 1`},
		{"sigil without id", "@ + 1"},
		{"bad escape", `"\q"`},
		{"dangling operator", "1 +"},
		{"reserved null", "null"},
		{"reserved undefined", "undefined + 1"},
		{"missing ternary else", "true ? 1"},
		{"double operator", "1 + * 2"},
		{"trailing garbage", "1 2"},
		{"unterminated template hole", "`${@a`"},
		{"object missing colon", "{ a 1 }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, TryParse(tt.input), "TryParse(%q)", tt.input)
		})
	}
}

func TestParseErrorsAreStructured(t *testing.T) {
	_, err := Parse("(1 + 2")
	require.Error(t, err)

	var serr *types.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, types.ErrExpectedToken, serr.Code)
	assert.GreaterOrEqual(t, serr.Position, 0)
}

func TestParseDepthLimit(t *testing.T) {
	deep := ""
	for n := 0; n < 200; n++ {
		deep += "("
	}
	deep += "1"
	for n := 0; n < 200; n++ {
		deep += ")"
	}

	_, err := Parse(deep)
	require.Error(t, err)
	var serr *types.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, types.ErrDepthExceeded, serr.Code)

	_, err = Parse(deep, WithMaxDepth(500))
	assert.NoError(t, err)
}

func TestMustParsePanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParse("(((") })
	assert.NotPanics(t, func() { MustParse("1 + 1") })
}

func FuzzTryParse(f *testing.F) {
	f.Add("@score >= 10")
	f.Add("`Score: ${@correct}/${@total}`")
	f.Add(`@items.every(c => c.done) ? "all" : { left: @n }`)
	f.Add("(((")
	f.Add(`"😀" + 'é'`)
	f.Fuzz(func(t *testing.T, source string) {
		// TryParse must be total: no panic on any input, nil or a full tree.
		if expr := TryParse(source); expr != nil && expr.AST() == nil {
			t.Fatalf("TryParse(%q) returned an expression without an AST", source)
		}
	})
}
