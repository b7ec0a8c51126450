package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenString   // "hello" or 'hello'
	TokenNumber   // 42, 3.14
	TokenBoolean  // true, false
	TokenReserved // null, undefined (no production; always a parse error)
	TokenName     // identifier
	TokenTemplate // `text ${expr}` (raw inner text; parsed into parts later)

	// Sigils
	TokenAt     // @
	TokenHash   // #
	TokenDollar // $

	// Grouping symbols
	TokenParenOpen  // (
	TokenParenClose // )
	TokenBraceOpen  // {
	TokenBraceClose // }

	// Basic symbols
	TokenDot       // .
	TokenComma     // ,
	TokenColon     // :
	TokenCondition // ?
	TokenArrow     // =>

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenMult  // *
	TokenDiv   // /

	// Logical operators
	TokenNot // !
	TokenAnd // &&
	TokenOr  // ||

	// Comparison operators
	TokenEqual        // ===
	TokenNotEqual     // !==
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenString:
		return "(string)"
	case TokenNumber:
		return "(number)"
	case TokenBoolean:
		return "(boolean)"
	case TokenReserved:
		return "(reserved)"
	case TokenName:
		return "(name)"
	case TokenTemplate:
		return "(template)"
	case TokenAt:
		return "@"
	case TokenHash:
		return "#"
	case TokenDollar:
		return "$"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenBraceOpen:
		return "{"
	case TokenBraceClose:
		return "}"
	case TokenDot:
		return "."
	case TokenComma:
		return ","
	case TokenColon:
		return ":"
	case TokenCondition:
		return "?"
	case TokenArrow:
		return "=>"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMult:
		return "*"
	case TokenDiv:
		return "/"
	case TokenNot:
		return "!"
	case TokenAnd:
		return "&&"
	case TokenOr:
		return "||"
	case TokenEqual:
		return "==="
	case TokenNotEqual:
		return "!=="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token in an expression.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Position int       // Starting position in the input string
}

// symbols1 maps single-character symbols to token types.
// Symbols that begin multi-character sequences (=, !, &, |, <, >) are
// handled explicitly by the lexer.
var symbols1 = [...]TokenType{
	'@': TokenAt,
	'#': TokenHash,
	'$': TokenDollar,
	'(': TokenParenOpen,
	')': TokenParenClose,
	'{': TokenBraceOpen,
	'}': TokenBraceClose,
	'.': TokenDot,
	',': TokenComma,
	':': TokenColon,
	'?': TokenCondition,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMult,
	'/': TokenDiv,
}

const symbol1Count = rune(len(symbols1))

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupKeyword returns the token type for a keyword.
// Returns 0 if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	switch s {
	case "true", "false":
		return TokenBoolean
	case "null", "undefined":
		return TokenReserved
	default:
		return 0
	}
}
