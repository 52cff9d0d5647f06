package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/token"
)

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

// assignment is right-associative. The target is parsed as an ordinary
// expression first and only accepted when it turned out to be a variable.
func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if variable, ok := expr.(*ast.Variable); ok {
		return ast.NewAssign(p.ids.Next(), variable.Name, value), nil
	}
	p.record(p.fail(InvalidAssignmentTarget, equals, "Invalid assignment target."))
	return expr, nil
}

func (p *Parser) or() (ast.Expr, error) {
	return p.logical(p.and, token.Or)
}

func (p *Parser) and() (ast.Expr, error) {
	return p.logical(p.equality, token.And)
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary left-folds operand (op operand)* into a left-associative chain.
func (p *Parser) binary(operand func() (ast.Expr, error), operators ...token.Kind) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(p.ids.Next(), expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) logical(operand func() (ast.Expr, error), operator token.Kind) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operator) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(p.ids.Next(), expr, op, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(p.ids.Next(), operator, operand), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(token.LeftParen) {
		if expr, err = p.finishCall(expr, p.previous()); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expr, open token.Token) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= MaxArguments {
				p.record(p.fail(TooManyArguments, p.peek(), "Can't have more than 255 arguments."))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if !p.check(token.RightParen) {
		return nil, p.unmatched(open, "Expect ')' after arguments.")
	}
	paren := p.advance()
	return ast.NewCall(p.ids.Next(), callee, paren, args), nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(p.ids.Next(), false), nil
	case p.match(token.True):
		return ast.NewLiteral(p.ids.Next(), true), nil
	case p.match(token.Nil):
		return ast.NewLiteral(p.ids.Next(), nil), nil
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.ids.Next(), p.previous().Literal), nil
	case p.match(token.Identifier):
		return ast.NewVariable(p.ids.Next(), p.previous()), nil
	case p.match(token.LeftParen):
		open := p.previous()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if !p.check(token.RightParen) {
			return nil, p.unmatched(open, "Expect ')' after expression.")
		}
		p.advance()
		return ast.NewGrouping(p.ids.Next(), inner), nil
	}
	return nil, p.fail(UnexpectedToken, p.peek(), "Expect expression.")
}

// unmatched reports an unclosed '(' at the opening paren rather than at
// whatever token was found in place of the ')'.
func (p *Parser) unmatched(open token.Token, message string) *ParseError {
	return p.fail(UnmatchedParen, open, message)
}
