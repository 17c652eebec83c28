package geometry_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hyperbolic returns the rank-2 lattice U: a² = b² = 0, a·b = 1.
func hyperbolic(t *testing.T) *geometry.DivisorData {
	t.Helper()
	dd, err := geometry.NewDivisorData([]string{"a", "b"},
		geometry.Intersection{Divisors: []string{"a", "a"}, Value: new(big.Rat)},
		geometry.Intersection{Divisors: []string{"b", "a"}, Value: big.NewRat(1, 1)},
		geometry.Intersection{Divisors: []string{"b", "b"}, Value: new(big.Rat)},
	)
	require.NoError(t, err)

	return dd
}

// TestDivisorData_Symmetrized checks permutation invariance and lookup.
func TestDivisorData_Symmetrized(t *testing.T) {
	dd := hyperbolic(t)
	assert.Equal(t, 2, dd.Dimension())

	v, err := dd.Intersect("a", "b")
	require.NoError(t, err)
	assert.Equal(t, "1", v.RatString())

	v, err = dd.Intersect("b", "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v.RatString())

	v, err = dd.Intersect("a")
	require.NoError(t, err)
	assert.Equal(t, "0", v.RatString(), "wrong-length key integrates to zero")

	_, err = dd.Intersect("c", "a")
	assert.ErrorIs(t, err, geometry.ErrUnknownSymbol)
}

// TestDivisorData_Errors maps malformed tables to sentinels.
func TestDivisorData_Errors(t *testing.T) {
	one := big.NewRat(1, 1)

	_, err := geometry.NewDivisorData([]string{"H"})
	assert.ErrorIs(t, err, geometry.ErrEmptyForm)

	_, err = geometry.NewDivisorData([]string{"a", "b"},
		geometry.Intersection{Divisors: []string{"a", "b"}, Value: one},
		geometry.Intersection{Divisors: []string{"b", "a"}, Value: big.NewRat(2, 1)},
	)
	assert.ErrorIs(t, err, geometry.ErrAsymmetricForm)

	_, err = geometry.NewDivisorData([]string{"H"},
		geometry.Intersection{Divisors: []string{"H", "E"}, Value: one},
	)
	assert.ErrorIs(t, err, geometry.ErrUnknownSymbol)

	_, err = geometry.NewDivisorData([]string{"H"},
		geometry.Intersection{Divisors: []string{"H", "H"}, Value: one},
		geometry.Intersection{Divisors: []string{"H"}, Value: one},
	)
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}

// TestNewContext_CategoryRules checks per-category invariants.
func TestNewContext_CategoryRules(t *testing.T) {
	bad, err := geometry.NewDivisorData([]string{"H"},
		geometry.Intersection{Divisors: []string{"H", "H"}, Value: big.NewRat(2, 1)})
	require.NoError(t, err)

	_, err = geometry.NewContext(geometry.P2, bad)
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry, "P2 needs H·H = 1")

	_, err = geometry.NewContext(geometry.P1, bad)
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry, "P1 needs dimension 1")

	ctx, err := geometry.NewContext(geometry.K3, bad)
	require.NoError(t, err, "any positive H² is a valid K3 of Picard rank one")
	assert.Equal(t, 1, ctx.PicardRank())

	_, err = geometry.NewContext(geometry.Category(99), bad)
	assert.ErrorIs(t, err, geometry.ErrUnknownCategory)
}

// TestNewContext_Ampleness exercises the polarization check on U.
func TestNewContext_Ampleness(t *testing.T) {
	dd := hyperbolic(t)

	_, err := geometry.NewContext(geometry.K3, dd)
	assert.ErrorIs(t, err, geometry.ErrNotAmple, "default polarization a has a² = 0")

	_, err = geometry.NewContext(geometry.K3, dd, geometry.WithPolarization("a - b"))
	assert.ErrorIs(t, err, geometry.ErrNotAmple)

	_, err = geometry.NewContext(geometry.K3, dd, geometry.WithPolarization("a^2"))
	assert.ErrorIs(t, err, geometry.ErrNotDivisor)

	ctx, err := geometry.NewContext(geometry.K3, dd, geometry.WithPolarization("a + b"))
	require.NoError(t, err)
	assert.Equal(t, "a + b", ctx.Polarization().String())
	assert.Equal(t, 2, ctx.PicardRank())

	assert.Panics(t, func() { geometry.WithPolarization(" ") })
}

// TestContext_DivisorHelpers covers parsing, coordinates, effectiveness and degree.
func TestContext_DivisorHelpers(t *testing.T) {
	ctx, err := geometry.K3OfDegree(2)
	require.NoError(t, err)

	d, err := ctx.Divisor("3H")
	require.NoError(t, err)
	assert.True(t, ctx.IsEffective(d))

	neg, _ := ctx.Divisor("-H")
	assert.False(t, ctx.IsEffective(neg))
	assert.False(t, ctx.IsEffective(ctx.Ring().Zero()))

	deg, err := ctx.Degree(d)
	require.NoError(t, err)
	assert.Equal(t, "12", deg.RatString())

	sq, err := ctx.Square(d)
	require.NoError(t, err)
	assert.Equal(t, "36", sq.RatString())

	coords, err := ctx.IntCoordinates(d)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, coords)

	half, _ := ctx.Divisor("1/2*H")
	_, err = ctx.IntCoordinates(half)
	assert.ErrorIs(t, err, geometry.ErrNotIntegral)

	_, err = ctx.Divisor("H^2")
	assert.ErrorIs(t, err, geometry.ErrNotDivisor)
	_, err = ctx.Divisor("X")
	assert.ErrorIs(t, err, geometry.ErrUnknownSymbol)

	_, err = geometry.K3OfDegree(0)
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}

// TestEvaluate_LineBundleProduct checks ch(L₁)·ch(L₂) = ch(L₁⊗L₂) and ∫H².
func TestEvaluate_LineBundleProduct(t *testing.T) {
	ctx, err := geometry.K3OfDegree(3)
	require.NoError(t, err)
	dd := ctx.DivisorData()

	d1, _ := ctx.Divisor("H")
	d2, _ := ctx.Divisor("2H")
	d3, _ := ctx.Divisor("3H")
	c1, _ := chern.Exp(d1)
	c2, _ := chern.Exp(d2)
	c3, _ := chern.Exp(d3)
	prod, err := c1.Mul(c2)
	require.NoError(t, err)
	assert.True(t, prod.Equal(c3))

	h := ctx.Polarization()
	top, err := dd.Evaluate(h, h)
	require.NoError(t, err)
	assert.Equal(t, "6", top.RatString())

	// χ-like pairing ∫ch(O(2H)) = ½(2H)² = 12
	v, err := dd.Evaluate(c2)
	require.NoError(t, err)
	assert.Equal(t, "12", v.RatString())
}

// TestEvaluateComplex pairs ch = 1 + 2H with -1 + iH on P1.
func TestEvaluateComplex(t *testing.T) {
	ctx := geometry.ProjectiveLine()
	r := ctx.Ring()
	ch, err := r.Parse("1 + 2H")
	require.NoError(t, err)
	tw, err := r.ComplexLinear(1i)
	require.NoError(t, err)
	tw, err = tw.Add(r.ComplexScalar(-1))
	require.NoError(t, err)

	z, err := ctx.DivisorData().EvaluateComplex(ch, tw)
	require.NoError(t, err)
	assert.Equal(t, complex(-2, 1), z)
}

// TestCategory covers names and Calabi–Yau dimensions.
func TestCategory(t *testing.T) {
	c, err := geometry.ParseCategory("localp2")
	require.NoError(t, err)
	assert.Equal(t, geometry.LocalP2, c)
	assert.Equal(t, 3, c.CalabiYauDimension())
	assert.Equal(t, 2, geometry.K3.CalabiYauDimension())
	assert.Equal(t, 1, geometry.LocalP1.VarietyDimension())
	assert.Equal(t, "K3", geometry.K3.String())

	_, err = geometry.ParseCategory("P3")
	assert.ErrorIs(t, err, geometry.ErrUnknownCategory)

	assert.True(t, geometry.ProjectivePlane().Equal(geometry.ProjectivePlane()))
	assert.False(t, geometry.ProjectivePlane().Equal(geometry.LocalProjectivePlane()))
}
