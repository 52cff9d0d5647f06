package token

import "fmt"

// Kind identifies the lexical category of a token.
type Kind int

const (
	EOF Kind = iota

	// Single-character tokens.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

var kindNames = [...]string{
	EOF:          "EOF",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Identifier:   "identifier",
	String:       "string",
	Number:       "number",
	And:          "and",
	Class:        "class",
	Else:         "else",
	False:        "false",
	Fun:          "fun",
	For:          "for",
	If:           "if",
	Nil:          "nil",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	Super:        "super",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

var keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupIdent maps an identifier to its keyword kind, or Identifier.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// IsKeyword reports whether kind is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= And && k <= While
}

// Token is a single lexeme produced by the scanner. Literal holds a float64
// for Number tokens and a string for String tokens; it is nil otherwise.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
	Column  int
}

// New builds a token without a literal payload.
func New(kind Kind, lexeme string, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line}
}

// Position renders the 1-based line:column of the token.
func (t Token) Position() string {
	if t.Column == 0 {
		return fmt.Sprintf("%d", t.Line)
	}
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// Where describes the token for diagnostics: " at end" for EOF, otherwise
// " at 'lexeme'".
func (t Token) Where() string {
	if t.Kind == EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", t.Lexeme)
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case String:
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	case Number, Identifier:
		return fmt.Sprintf("%s %s", t.Kind, t.Lexeme)
	default:
		return t.Kind.String()
	}
}
