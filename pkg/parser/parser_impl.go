package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/coursekit/exprdsl/pkg/types"
)

// Parser implements a recursive descent parser for the expression language.
// It uses Pratt's "Top Down Operator Precedence" algorithm to handle
// operator precedence correctly.
type Parser struct {
	lexer   *Lexer
	source  string
	current Token
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer:  NewLexer(input),
		source: input,
		opts:   options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the compiled Expression.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrSyntaxError, "Empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}
	if p.current.Type != TokenEOF {
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", p.current.Value))
	}

	return types.NewExpression(node, p.source), nil
}

// Operator precedence table (binding power).
// Higher values bind more tightly. The ternary condition operator is the
// loosest, postfix member access and calls the tightest.
var precedence = map[TokenType]int{
	TokenCondition:    15, // ? :
	TokenOr:           20, // ||
	TokenAnd:          25, // &&
	TokenEqual:        30, // ===
	TokenNotEqual:     30, // !==
	TokenLess:         35, // <
	TokenLessEqual:    35, // <=
	TokenGreater:      35, // >
	TokenGreaterEqual: 35, // >=
	TokenPlus:         40, // +
	TokenMinus:        40, // -
	TokenMult:         45, // *
	TokenDiv:          45, // /
	TokenDot:          80, // .
	TokenParenOpen:    80, // (
}

// unaryPrecedence is the binding power of prefix ! — tighter than any binary
// operator, looser than postfix member access and calls.
const unaryPrecedence = 50

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// expect checks that the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.error(types.ErrExpectedToken, fmt.Sprintf("Expected %s but got %s", tt.String(), p.current.Type.String()))
	}
	p.advance()
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (types.Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrDepthExceeded, "Expression too deeply nested")
	}

	// Parse prefix expression (nud - null denotation)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led - left denotation)
	for rbp < p.getPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression (nud - null denotation).
// These are expressions that don't require a left-hand side.
func (p *Parser) parsePrefix() (types.Node, error) {
	token := p.current

	switch token.Type {
	case TokenError:
		return nil, p.lexer.Error()
	case TokenEOF:
		return nil, p.error(types.ErrUnexpectedEnd, "Unexpected end of expression")
	case TokenNumber:
		return p.parseNumber()
	case TokenString:
		return p.parseString()
	case TokenBoolean:
		p.advance()
		return &types.BooleanLit{Value: token.Value == "true"}, nil
	case TokenReserved:
		return nil, p.error(types.ErrReservedWord, fmt.Sprintf("Reserved word %q cannot be used here", token.Value))
	case TokenName:
		return p.parseNameOrArrow()
	case TokenAt, TokenHash, TokenDollar:
		return p.parseSigilRef()
	case TokenNot:
		p.advance()
		arg, err := p.parseExpression(unaryPrecedence)
		if err != nil {
			return nil, err
		}
		return &types.UnaryOp{Op: "!", Arg: arg}, nil
	case TokenParenOpen:
		p.advance()
		node, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return node, nil
	case TokenBraceOpen:
		return p.parseObject()
	case TokenTemplate:
		return p.parseTemplate()
	default:
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", token.Type.String()))
	}
}

// parseInfix parses an infix or postfix expression (led - left denotation).
func (p *Parser) parseInfix(left types.Node) (types.Node, error) {
	token := p.current

	switch token.Type {
	case TokenOr, TokenAnd, TokenEqual, TokenNotEqual,
		TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual,
		TokenPlus, TokenMinus, TokenMult, TokenDiv:
		// Left-associative: the right side is parsed with the operator's own
		// binding power, so a op b op c folds as (a op b) op c.
		prec := p.getPrecedence(token.Type)
		p.advance()
		right, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &types.BinaryOp{Op: token.Type.String(), Left: left, Right: right}, nil
	case TokenCondition:
		return p.parseConditional(left)
	case TokenDot:
		return p.parseMember(left)
	case TokenParenOpen:
		return p.parseCall(left)
	default:
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", token.Type.String()))
	}
}

// parseNumber parses a numeric literal (integer or decimal).
func (p *Parser) parseNumber() (types.Node, error) {
	value, err := strconv.ParseFloat(p.current.Value, 64)
	if err != nil {
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Invalid number literal: %s", p.current.Value))
	}
	p.advance()
	return &types.NumberLit{Value: value}, nil
}

// parseString parses a quoted string literal, resolving escape sequences.
func (p *Parser) parseString() (types.Node, error) {
	value, serr := unescape(p.current.Value, p.current.Position)
	if serr != nil {
		return nil, serr
	}
	p.advance()
	return &types.StringLit{Value: value}, nil
}

// parseNameOrArrow parses a bare identifier, or an arrow function when the
// identifier is immediately followed by =>. The arrow body extends as far to
// the right as possible; argument commas and closing parens end it.
func (p *Parser) parseNameOrArrow() (types.Node, error) {
	name := p.current.Value
	p.advance()

	if p.current.Type == TokenArrow {
		p.advance()
		body, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		return &types.ArrowFunction{Param: name, Body: body}, nil
	}

	return &types.Identifier{Name: name}, nil
}

// parseSigilRef parses a sigil reference: @, # or $ followed by a bare
// identifier or a double-quoted absolute id, then zero or more .field
// suffixes.
//
// A .name suffix immediately followed by ( is not a field: it is a method
// call on the referenced value (e.g. @items.every(...)), so the chain stops
// there and a MemberAccess is produced for the generic call machinery.
func (p *Parser) parseSigilRef() (types.Node, error) {
	var sigil types.Sigil
	switch p.current.Type {
	case TokenAt:
		sigil = types.SigilComponentState
	case TokenHash:
		sigil = types.SigilOLXContent
	default:
		sigil = types.SigilGlobalVar
	}
	p.advance()

	var id string
	switch p.current.Type {
	case TokenName:
		id = p.current.Value
		p.advance()
	case TokenString:
		quoted, serr := unescape(p.current.Value, p.current.Position)
		if serr != nil {
			return nil, serr
		}
		if quoted == "" {
			return nil, p.error(types.ErrEmptySigilID, fmt.Sprintf("Empty id after %s", sigil))
		}
		id = quoted
		p.advance()
	default:
		return nil, p.error(types.ErrEmptySigilID, fmt.Sprintf("Expected identifier or quoted id after %s", sigil))
	}

	ref := &types.SigilRef{Sigil: sigil, ID: id}
	for p.current.Type == TokenDot {
		p.advance()
		if p.current.Type != TokenName {
			return nil, p.error(types.ErrExpectedToken, "Expected field name after '.'")
		}
		field := p.current.Value
		p.advance()
		if p.current.Type == TokenParenOpen {
			return &types.MemberAccess{Object: ref, Property: field}, nil
		}
		ref.Fields = append(ref.Fields, field)
	}
	return ref, nil
}

// parseObject parses an object literal: { key: expr, ... }.
// Keys are identifiers or quoted strings.
func (p *Parser) parseObject() (types.Node, error) {
	p.advance() // consume {

	obj := &types.ObjectLiteral{}
	if p.current.Type == TokenBraceClose {
		p.advance()
		return obj, nil
	}

	for {
		var key string
		switch p.current.Type {
		case TokenName:
			key = p.current.Value
		case TokenString:
			unquoted, serr := unescape(p.current.Value, p.current.Position)
			if serr != nil {
				return nil, serr
			}
			key = unquoted
		default:
			return nil, p.error(types.ErrExpectedToken, "Expected property name")
		}
		p.advance()

		if err := p.expect(TokenColon); err != nil {
			return nil, err
		}

		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		obj.Keys = append(obj.Keys, key)
		obj.Values = append(obj.Values, value)

		if p.current.Type != TokenComma {
			break
		}
		p.advance()
	}

	if err := p.expect(TokenBraceClose); err != nil {
		return nil, err
	}
	return obj, nil
}

// parseConditional parses the ternary operator. The unchosen branch is kept
// in the tree unevaluated; only the evaluator decides which side runs.
func (p *Parser) parseConditional(cond types.Node) (types.Node, error) {
	prec := p.getPrecedence(TokenCondition)
	p.advance() // consume ?

	then, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	// Right-associative: a ? b : c ? d : e nests the trailing conditional
	// into the else branch.
	els, err := p.parseExpression(prec - 1)
	if err != nil {
		return nil, err
	}
	return &types.Ternary{Cond: cond, Then: then, Else: els}, nil
}

// parseMember parses a .name property access.
func (p *Parser) parseMember(left types.Node) (types.Node, error) {
	p.advance() // consume .
	if p.current.Type != TokenName {
		return nil, p.error(types.ErrExpectedToken, "Expected property name after '.'")
	}
	prop := p.current.Value
	p.advance()
	return &types.MemberAccess{Object: left, Property: prop}, nil
}

// parseCall parses a call argument list applied to the left expression.
func (p *Parser) parseCall(callee types.Node) (types.Node, error) {
	p.advance() // consume (

	call := &types.Call{Callee: callee}
	if p.current.Type == TokenParenClose {
		p.advance()
		return call, nil
	}

	for {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		if p.current.Type != TokenComma {
			break
		}
		p.advance()
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return call, nil
}

// parseTemplate splits the raw inner text of a backtick template into
// literal runs and ${expr} holes, parsing each hole as a full
// sub-expression with a fresh parser.
func (p *Parser) parseTemplate() (types.Node, error) {
	raw := p.current.Value
	pos := p.current.Position

	tmpl := &types.TemplateLiteral{}
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			tmpl.Parts = append(tmpl.Parts, types.TemplateText{Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(raw); {
		switch {
		case raw[i] == '\\':
			decoded, next, serr := decodeEscape(raw, i, pos+i)
			if serr != nil {
				return nil, serr
			}
			text.WriteString(decoded)
			i = next
		case raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{':
			end, serr := findHoleEnd(raw, i+2, pos)
			if serr != nil {
				return nil, serr
			}
			sub, err := NewParser(raw[i+2:end], WithMaxDepth(p.opts.MaxDepth)).Parse()
			if err != nil {
				return nil, err
			}
			flush()
			tmpl.Parts = append(tmpl.Parts, types.TemplateExpr{Expr: sub.AST()})
			i = end + 1
		default:
			text.WriteByte(raw[i])
			i++
		}
	}
	flush()

	p.advance()
	return tmpl, nil
}

// findHoleEnd scans for the } closing a ${ hole, tracking brace depth and
// skipping over quoted strings so object literals and string operands inside
// the hole do not terminate it early.
func findHoleEnd(raw string, start int, pos int) (int, *types.Error) {
	depth := 1
	var quote byte
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++ // skip escaped character inside string
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, types.NewError(types.ErrSyntaxError, "Unterminated ${ } in template literal", pos+start)
}

// unescape resolves backslash escape sequences in the raw inner text of a
// quoted string. Unknown escapes are a parse error.
func unescape(raw string, pos int) (string, *types.Error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		if raw[i] == '\\' {
			decoded, next, serr := decodeEscape(raw, i, pos+i)
			if serr != nil {
				return "", serr
			}
			b.WriteString(decoded)
			i = next
		} else {
			b.WriteByte(raw[i])
			i++
		}
	}
	return b.String(), nil
}

// decodeEscape decodes one backslash escape starting at raw[i] and returns
// the decoded text and the index of the first byte after the sequence.
func decodeEscape(raw string, i int, pos int) (string, int, *types.Error) {
	if i+1 >= len(raw) {
		return "", 0, types.NewError(types.ErrUnsupportedEscape, "Dangling backslash", pos)
	}
	switch c := raw[i+1]; c {
	case '\\', '\'', '"', '`', '$', '/':
		return string(c), i + 2, nil
	case 'n':
		return "\n", i + 2, nil
	case 't':
		return "\t", i + 2, nil
	case 'r':
		return "\r", i + 2, nil
	case 'b':
		return "\b", i + 2, nil
	case 'f':
		return "\f", i + 2, nil
	case 'u':
		return decodeUnicodeEscape(raw, i, pos)
	default:
		return "", 0, types.NewError(types.ErrUnsupportedEscape, fmt.Sprintf("Unsupported escape sequence: \\%c", c), pos)
	}
}

// decodeUnicodeEscape decodes \uXXXX, combining UTF-16 surrogate pairs.
func decodeUnicodeEscape(raw string, i int, pos int) (string, int, *types.Error) {
	parseHex4 := func(at int) (rune, bool) {
		if at+4 > len(raw) {
			return 0, false
		}
		v, err := strconv.ParseUint(raw[at:at+4], 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}

	r1, ok := parseHex4(i + 2)
	if !ok {
		return "", 0, types.NewError(types.ErrUnsupportedEscape, "Invalid unicode escape sequence", pos)
	}
	next := i + 6

	if utf16.IsSurrogate(r1) && next+6 <= len(raw) && raw[next] == '\\' && raw[next+1] == 'u' {
		if r2, ok2 := parseHex4(next + 2); ok2 {
			if combined := utf16.DecodeRune(r1, r2); combined != 0xFFFD {
				return string(combined), next + 6, nil
			}
		}
	}
	return string(r1), next, nil
}
