// SPDX-License-Identifier: MIT

// Package chern - Parse: symbolic input for Chern polynomials.
//
// Grammar (precedence low → high):
//
//	expr    := term { ("+" | "-") term }
//	term    := unary { ("*" | "/") unary | unary }   // juxtaposition multiplies: "3H", "2(a+b)"
//	unary   := ("+" | "-") unary | power
//	power   := primary [ ("^" | "**") unary ]         // exponent: non-negative integer constant
//	primary := number | symbol | "(" expr ")"
//
// Numbers are exact: "1/2" and "0.5" both denote ½. Division is only by
// non-zero constants; everything else returns ErrNotPolynomial.

package chern

import (
	"fmt"
	"math/big"
	"sort"
	"unicode"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokSym
	tokOp
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func isLetter(r rune) bool { return unicode.IsLetter(r) }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }

// lex splits expr into tokens.
func lex(expr string) ([]token, error) {
	rs := []rune(expr)
	var out []token
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isDigit(r) || (r == '.' && i+1 < len(rs) && isDigit(rs[i+1])):
			j := i
			seenDot := false
			for j < len(rs) && (isDigit(rs[j]) || (rs[j] == '.' && !seenDot)) {
				if rs[j] == '.' {
					seenDot = true
				}
				j++
			}
			out = append(out, token{kind: tokNum, text: string(rs[i:j]), pos: i})
			i = j
		case r == '_' || isLetter(r):
			j := i
			for j < len(rs) && (rs[j] == '_' || isLetter(rs[j]) || isDigit(rs[j])) {
				j++
			}
			out = append(out, token{kind: tokSym, text: string(rs[i:j]), pos: i})
			i = j
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			out = append(out, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^' || r == '(' || r == ')':
			out = append(out, token{kind: tokOp, text: string(r), pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected %q at %d: %w", r, i, ErrSyntax)
		}
	}
	out = append(out, token{kind: tokEOF, pos: len(rs)})

	return out, nil
}

// parser is a recursive-descent evaluator producing polynomials directly.
type parser struct {
	ring *Ring
	toks []token
	pos  int
}

func (ps *parser) peek() token { return ps.toks[ps.pos] }
func (ps *parser) next() token {
	t := ps.toks[ps.pos]
	if t.kind != tokEOF {
		ps.pos++
	}

	return t
}

func (ps *parser) isOp(s string) bool {
	t := ps.peek()
	return t.kind == tokOp && t.text == s
}

func (ps *parser) expr() (*Poly, error) {
	acc, err := ps.term()
	if err != nil {
		return nil, err
	}
	for ps.isOp("+") || ps.isOp("-") {
		op := ps.next().text
		rhs, err := ps.term()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			acc, err = acc.Add(rhs)
		} else {
			acc, err = acc.Sub(rhs)
		}
		if err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func (ps *parser) term() (*Poly, error) {
	acc, err := ps.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := ps.peek()
		switch {
		case ps.isOp("*"):
			ps.next()
			rhs, err := ps.unary()
			if err != nil {
				return nil, err
			}
			if acc, err = acc.Mul(rhs); err != nil {
				return nil, err
			}
		case ps.isOp("/"):
			ps.next()
			rhs, err := ps.unary()
			if err != nil {
				return nil, err
			}
			if !rhs.IsHomogeneous(0) || rhs.IsZero() {
				return nil, fmt.Errorf("division by %q at %d: %w", rhs.String(), t.pos, ErrNotPolynomial)
			}
			acc = acc.Scale(new(big.Rat).Inv(rhs.Scalar()))
		case t.kind == tokNum || t.kind == tokSym || ps.isOp("("):
			rhs, err := ps.power()
			if err != nil {
				return nil, err
			}
			if acc, err = acc.Mul(rhs); err != nil {
				return nil, err
			}
		default:
			return acc, nil
		}
	}
}

func (ps *parser) unary() (*Poly, error) {
	switch {
	case ps.isOp("-"):
		ps.next()
		p, err := ps.unary()
		if err != nil {
			return nil, err
		}
		return p.Neg(), nil
	case ps.isOp("+"):
		ps.next()
		return ps.unary()
	}

	return ps.power()
}

func (ps *parser) power() (*Poly, error) {
	base, err := ps.primary()
	if err != nil {
		return nil, err
	}
	if !ps.isOp("^") {
		return base, nil
	}
	at := ps.next().pos
	exp, err := ps.unary()
	if err != nil {
		return nil, err
	}
	e := exp.Scalar()
	if !exp.IsHomogeneous(0) || !e.IsInt() || e.Sign() < 0 || !e.Num().IsInt64() {
		return nil, fmt.Errorf("exponent %q at %d: %w", exp.String(), at, ErrNotPolynomial)
	}

	return base.Pow(int(e.Num().Int64()))
}

func (ps *parser) primary() (*Poly, error) {
	t := ps.next()
	switch {
	case t.kind == tokNum:
		c, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("number %q at %d: %w", t.text, t.pos, ErrSyntax)
		}
		return ps.ring.Scalar(c), nil
	case t.kind == tokSym:
		p, err := ps.ring.Symbol(t.text)
		if err != nil {
			return nil, fmt.Errorf("symbol %q at %d: %w", t.text, t.pos, ErrUnknownSymbol)
		}
		return p, nil
	case t.kind == tokOp && t.text == "(":
		p, err := ps.expr()
		if err != nil {
			return nil, err
		}
		if !ps.isOp(")") {
			return nil, fmt.Errorf("missing ')' at %d: %w", ps.peek().pos, ErrSyntax)
		}
		ps.next()
		return p, nil
	case t.kind == tokEOF:
		return nil, fmt.Errorf("unexpected end of input: %w", ErrSyntax)
	}

	return nil, fmt.Errorf("unexpected %q at %d: %w", t.text, t.pos, ErrSyntax)
}

// Parse evaluates expr inside r, truncating at r.Dim().
//
// Errors:
//   - ErrSyntax for malformed input.
//   - ErrUnknownSymbol for symbols outside the basis.
//   - ErrNotPolynomial for negative/fractional exponents or non-constant division.
func (r *Ring) Parse(expr string) (*Poly, error) {
	toks, err := lex(expr)
	if err != nil {
		return nil, fmt.Errorf("Parse(%q): %w", expr, err)
	}
	ps := &parser{ring: r, toks: toks}
	p, err := ps.expr()
	if err != nil {
		return nil, fmt.Errorf("Parse(%q): %w", expr, err)
	}
	if t := ps.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("Parse(%q): trailing %q at %d: %w", expr, t.text, t.pos, ErrSyntax)
	}

	return p, nil
}

// Parse is a convenience wrapper building the ring on the fly. When basis is
// empty it is inferred from the symbols of expr, sorted lexicographically.
func Parse(expr string, dim int, basis ...string) (*Poly, error) {
	if len(basis) == 0 {
		toks, err := lex(expr)
		if err != nil {
			return nil, fmt.Errorf("Parse(%q): %w", expr, err)
		}
		seen := make(map[string]bool)
		for _, t := range toks {
			if t.kind == tokSym && !seen[t.text] {
				seen[t.text] = true
				basis = append(basis, t.text)
			}
		}
		sort.Strings(basis)
	}
	r, err := NewRing(dim, basis...)
	if err != nil {
		return nil, err
	}

	return r.Parse(expr)
}
