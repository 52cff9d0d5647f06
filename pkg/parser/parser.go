// Package parser builds statement trees from scanned tokens using recursive
// descent with one token of lookahead.
//
// Errors never abort the parse. A malformed statement is reported once and
// the parser skips ahead to the next statement boundary before continuing,
// so a single run collects one diagnostic per broken statement.
package parser

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/token"
)

// MaxArguments bounds both parameter lists and call argument lists.
const MaxArguments = 255

type ErrorKind string

const (
	UnexpectedToken         ErrorKind = "UnexpectedToken"
	InvalidAssignmentTarget ErrorKind = "InvalidAssignmentTarget"
	TooManyParameters       ErrorKind = "TooManyParameters"
	TooManyArguments        ErrorKind = "TooManyArguments"
	UnmatchedParen          ErrorKind = "UnmatchedParen"
)

// ParseError reports a syntax error at Token.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Token   token.Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Token.Line, e.Token.Where(), e.Message)
}

type Parser struct {
	tokens  []token.Token
	current int
	ids     *ast.IDs
	errors  []*ParseError
}

// New creates a parser over tokens with its own NodeID sequence. A missing
// trailing EOF token is added.
func New(tokens []token.Token) *Parser {
	return NewWithIDs(tokens, &ast.IDs{})
}

// NewWithIDs is New drawing NodeIDs from ids, so that trees parsed one after
// another from a shared allocator never reuse an ID.
func NewWithIDs(tokens []token.Token, ids *ast.IDs) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.Token{Kind: token.EOF, Line: line})
	}
	return &Parser{tokens: tokens, ids: ids}
}

// Parse is a convenience wrapper for New(tokens).ParseProgram().
func Parse(tokens []token.Token) ([]ast.Stmt, []*ParseError) {
	return New(tokens).ParseProgram()
}

// ParseProgram consumes declarations until EOF. Statements that failed to
// parse are omitted from the result.
func (p *Parser) ParseProgram() ([]ast.Stmt, []*ParseError) {
	var stmts []ast.Stmt
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.record(err)
			p.synchronize(false)
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, p.errors
}

func (p *Parser) record(err error) {
	var perr *ParseError
	if errors.As(err, &perr) {
		p.errors = append(p.errors, perr)
		return
	}
	p.errors = append(p.errors, &ParseError{Kind: UnexpectedToken, Message: err.Error(), Token: p.peek()})
}

// synchronize discards tokens up to the next likely statement start. Inside
// a block it never consumes a closing brace, which ends the block instead.
func (p *Parser) synchronize(inBlock bool) {
	if inBlock && p.check(token.RightBrace) {
		return
	}
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		case token.RightBrace:
			if inBlock {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) fail(kind ErrorKind, tok token.Token, message string) *ParseError {
	return &ParseError{Kind: kind, Message: message, Token: tok}
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.fail(UnexpectedToken, p.peek(), message)
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}
