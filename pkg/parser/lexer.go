package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/coursekit/exprdsl/pkg/types"
)

const eof = -1

// Lexer converts an expression source string into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls.
func (l *Lexer) Next() Token {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// Multi-character operators first
	switch ch {
	case '=':
		if l.acceptRune('>') {
			return l.newToken(TokenArrow)
		}
		if l.acceptRune('=') && l.acceptRune('=') {
			return l.newToken(TokenEqual)
		}
		return l.error(types.ErrUnknownChar, "Unknown operator, expected === or =>")
	case '!':
		if l.acceptRune('=') {
			if l.acceptRune('=') {
				return l.newToken(TokenNotEqual)
			}
			return l.error(types.ErrUnknownChar, "Unknown operator, expected !==")
		}
		return l.newToken(TokenNot)
	case '&':
		if l.acceptRune('&') {
			return l.newToken(TokenAnd)
		}
		return l.error(types.ErrUnknownChar, "Unknown operator, expected &&")
	case '|':
		if l.acceptRune('|') {
			return l.newToken(TokenOr)
		}
		return l.error(types.ErrUnknownChar, "Unknown operator, expected ||")
	case '<':
		if l.acceptRune('=') {
			return l.newToken(TokenLessEqual)
		}
		return l.newToken(TokenLess)
	case '>':
		if l.acceptRune('=') {
			return l.newToken(TokenGreaterEqual)
		}
		return l.newToken(TokenGreater)
	}

	// Single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	// String literals (single or double quoted)
	if ch == '"' || ch == '\'' {
		l.ignore()
		return l.scanString(ch)
	}

	// Template literals
	if ch == '`' {
		l.ignore()
		return l.scanTemplate()
	}

	// Number literals
	if ch >= '0' && ch <= '9' {
		l.backup()
		return l.scanNumber()
	}

	// Names and keywords
	if isNameStart(ch) {
		l.backup()
		return l.scanName()
	}

	return l.error(types.ErrUnknownChar, "Unknown character: "+string(ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed. The token value is the raw
// inner text; escape sequences are resolved by the parser.
func (l *Lexer) scanString(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case '\\':
			// Consume escaped character
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error(types.ErrStringNotClosed, "Unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(TokenString)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanTemplate reads a backtick template literal from the current position.
// The opening backtick has already been consumed. The token value is the raw
// inner text, ${...} holes included; the parser splits it into parts.
// Nested template literals are not supported, so the first unescaped
// backtick always terminates the template.
func (l *Lexer) scanTemplate() Token {
Loop:
	for {
		switch l.nextRune() {
		case '`':
			break Loop
		case '\\':
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error(types.ErrTemplateNotClosed, "Unterminated template literal")
		}
	}

	l.backup()
	t := l.newToken(TokenTemplate)
	l.acceptRune('`')
	l.ignore()
	return t
}

// scanNumber reads a number literal from the current position.
// Format: [0-9]+(\.[0-9]+)?
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)

	// Decimal part
	if l.acceptRune('.') {
		if !l.acceptAll(isDigit) {
			// No digits after the decimal point: the dot is not part of the
			// number (it may begin a member access, e.g. "1 .toString" is
			// still a parse error later, but "1." alone must not swallow it).
			l.backup()
		}
	}

	return l.newToken(TokenNumber)
}

// scanName reads a name or keyword from the current position.
// Names start with a letter or underscore and continue with letters, digits
// and underscores. A keyword followed by further name characters is a plain
// name (so "trueValue" never lexes as the boolean literal).
func (l *Lexer) scanName() Token {
	l.accept(isNameStart)
	l.acceptAll(isNamePart)

	t := l.newToken(TokenName)
	if tt := lookupKeyword(t.Value); tt > 0 {
		t.Type = tt
	}
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return isNameStart(r) || isDigit(r)
}
