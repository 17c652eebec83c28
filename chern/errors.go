// SPDX-License-Identifier: MIT
// Package chern: sentinel errors.
//
// Every algorithm in this package returns one of these sentinels (possibly
// wrapped with call-site context via %w). Callers branch with errors.Is.

package chern

import "errors"

var (
	// ErrMismatchedBasis indicates two operands (or a monomial and a ring)
	// disagree on the ordered list of basis symbols.
	ErrMismatchedBasis = errors.New("chern: mismatched basis")

	// ErrMismatchedDimension indicates two operands were built for different
	// variety dimensions.
	ErrMismatchedDimension = errors.New("chern: mismatched dimension")

	// ErrNegativeDimension is returned when a ring is requested with n < 0.
	ErrNegativeDimension = errors.New("chern: dimension must be >= 0")

	// ErrNotPolynomial indicates an input is not polynomial in the basis
	// (negative or fractional exponents, division by a non-constant).
	ErrNotPolynomial = errors.New("chern: expression is not polynomial")

	// ErrUnknownSymbol indicates an expression references a symbol that is
	// not part of the basis.
	ErrUnknownSymbol = errors.New("chern: symbol not in basis")

	// ErrNotLinear is returned by Exp when its argument carries monomials of
	// degree other than one.
	ErrNotLinear = errors.New("chern: argument is not linear")

	// ErrSyntax indicates a malformed symbolic expression.
	ErrSyntax = errors.New("chern: syntax error")

	// ErrNotHomogeneous indicates a polynomial was expected to be homogeneous
	// of a given degree (SetDegree).
	ErrNotHomogeneous = errors.New("chern: polynomial is not homogeneous of the requested degree")

	// ErrDuplicateSymbol indicates the same basis symbol was listed twice.
	ErrDuplicateSymbol = errors.New("chern: duplicate basis symbol")
)
