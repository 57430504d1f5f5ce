// Package formula evaluates BOM template formulas such as "height - 2" or
// "(width * 2) + (height * 2)" against a panel's dimensions.
//
// Formulas are parsed into a small AST restricted to numeric literals,
// named variables and the operators + - * / % ( ). Anything else is a parse
// error, so the character allowlist is structural rather than a scan over
// the input. Variable names resolve case-insensitively and only as whole
// identifiers ("width" never matches inside "widthx").
package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Evaluate parses formula and computes it against vars. A blank formula
// evaluates to 0 with no error. Results are clamped: negative, NaN and
// infinite values all come back as 0.
func Evaluate(text string, vars map[string]float64) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	node, err := parse(text)
	if err != nil {
		return 0, err
	}
	v, err := node.eval(lowerKeys(vars))
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, nil
	}
	return v, nil
}

func lowerKeys(vars map[string]float64) map[string]float64 {
	m := make(map[string]float64, len(vars))
	for k, v := range vars {
		m[strings.ToLower(k)] = v
	}
	return m
}

// ---- AST ----

type node interface {
	eval(vars map[string]float64) (float64, error)
}

type numberNode float64

func (n numberNode) eval(map[string]float64) (float64, error) {
	return float64(n), nil
}

type variableNode string

func (n variableNode) eval(vars map[string]float64) (float64, error) {
	v, ok := vars[string(n)]
	if !ok {
		return 0, fmt.Errorf("unknown variable %q", string(n))
	}
	return v, nil
}

type binaryNode struct {
	op          rune
	left, right node
}

func (n *binaryNode) eval(vars map[string]float64) (float64, error) {
	l, err := n.left.eval(vars)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(vars)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case '%':
		if r == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return math.Mod(l, r), nil
	}
	return 0, fmt.Errorf("unknown operator %q", n.op)
}

type negateNode struct {
	inner node
}

func (n *negateNode) eval(vars map[string]float64) (float64, error) {
	v, err := n.inner.eval(vars)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

// ---- lexer ----

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	num  float64
	text string
	op   rune
	pos  int
}

func lex(input string) ([]token, error) {
	var toks []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, pos: i})
			i++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '%':
			toks = append(toks, token{kind: tokOp, op: r, pos: i})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at position %d", text, start)
			}
			toks = append(toks, token{kind: tokNumber, num: num, pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: strings.ToLower(string(runes[start:i])), pos: start})
		default:
			return nil, fmt.Errorf("invalid character %q at position %d", r, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(runes)})
	return toks, nil
}

// ---- parser ----

type parser struct {
	toks []token
	pos  int
}

func parse(input string) (node, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected token at position %d", p.peek().pos)
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().op == '+' || p.peek().op == '-') {
		op := p.next().op
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

// term := unary (('*' | '/' | '%') unary)*
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().op == '*' || p.peek().op == '/' || p.peek().op == '%') {
		op := p.next().op
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

// unary := '-' unary | primary
func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokOp && p.peek().op == '-' {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negateNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

// primary := number | ident | '(' expr ')'
func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return numberNode(t.num), nil
	case tokIdent:
		return variableNode(t.text), nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis at position %d", p.peek().pos)
		}
		p.next()
		return inner, nil
	default:
		return nil, fmt.Errorf("unexpected token at position %d", t.pos)
	}
}
