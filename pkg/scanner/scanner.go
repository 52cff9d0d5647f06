// Package scanner turns source text into the token sequence consumed by the
// parser. Scanning never aborts: unexpected characters and unterminated
// strings are collected as errors and the scan continues to EOF.
package scanner

import (
	"fmt"
	"strconv"

	"lox/interpreter-go/pkg/token"
)

// ErrorKind classifies a scan failure.
type ErrorKind string

const (
	UnexpectedCharacter ErrorKind = "UnexpectedCharacter"
	UnterminatedString  ErrorKind = "UnterminatedString"
)

// Error is a non-fatal lexical error tied to a source position.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

// Scanner holds the state for a single left-to-right pass over the source.
type Scanner struct {
	source []rune
	tokens []token.Token
	errors []*Error

	// start is the first rune of the lexeme being scanned, current the next
	// rune to be consumed.
	start   int
	current int

	line      int
	lineStart int

	startLine   int
	startColumn int
}

// New creates a scanner over source.
func New(source string) *Scanner {
	return &Scanner{source: []rune(source), line: 1}
}

// Scan is a convenience wrapper for New(source).ScanTokens().
func Scan(source string) ([]token.Token, []*Error) {
	return New(source).ScanTokens()
}

// ScanTokens consumes the whole source. The returned slice always ends with
// an EOF token, even when errors were recorded.
func (s *Scanner) ScanTokens() ([]token.Token, []*Error) {
	for !s.atEnd() {
		s.start = s.current
		s.startLine = s.line
		s.startColumn = s.current - s.lineStart + 1
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.Token{
		Kind:   token.EOF,
		Line:   s.line,
		Column: s.current - s.lineStart + 1,
	})
	return s.tokens, s.errors
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '!':
		s.addToken(s.pick('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.pick('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.pick('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.pick('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
			return
		}
		s.addToken(token.Slash)
	case ' ', '\r', '\t':
	case '\n':
		s.newline()
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isIdentStart(c):
			s.scanIdentifier()
		default:
			s.errorf(UnexpectedCharacter, "Unexpected character '%c'.", c)
		}
	}
}

func (s *Scanner) scanString() {
	for s.peek() != '"' && !s.atEnd() {
		if s.advance() == '\n' {
			s.newline()
		}
	}
	if s.atEnd() {
		s.errorf(UnterminatedString, "Unterminated string.")
		return
	}
	s.advance() // closing quote
	value := string(s.source[s.start+1 : s.current-1])
	s.addLiteral(token.String, value)
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	// A trailing '.' without digits is left for the Dot token.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	lexeme := string(s.source[s.start:s.current])
	// The lexeme is always digits with an optional fraction, so the only
	// possible error is a range error, for which ParseFloat returns ±Inf.
	value, _ := strconv.ParseFloat(lexeme, 64)
	s.addLiteral(token.Number, value)
}

func (s *Scanner) scanIdentifier() {
	for isIdentPart(s.peek()) {
		s.advance()
	}
	text := string(s.source[s.start:s.current])
	s.addToken(token.LookupIdent(text))
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.Token{
		Kind:    kind,
		Lexeme:  string(s.source[s.start:s.current]),
		Literal: literal,
		Line:    s.startLine,
		Column:  s.startColumn,
	})
}

func (s *Scanner) errorf(kind ErrorKind, format string, args ...any) {
	s.errors = append(s.errors, &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    s.startLine,
		Column:  s.startColumn,
	})
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() rune {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) match(expected rune) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) pick(next rune, matched, otherwise token.Kind) token.Kind {
	if s.match(next) {
		return matched
	}
	return otherwise
}

func (s *Scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() rune {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

// newline is called after a '\n' has been consumed.
func (s *Scanner) newline() {
	s.line++
	s.lineStart = s.current
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}
