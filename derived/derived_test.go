package derived_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eulerRHomer is a stand-in RHom engine concentrating χ in a single degree,
// which keeps every triangle numerically consistent.
type eulerRHomer struct{}

func (eulerRHomer) RHom(a, b derived.Object) (derived.Dims, error) {
	chi, err := derived.EulerCharacteristic(a, b)
	if err != nil {
		return nil, err
	}
	n := chi.Num().Int64()
	switch {
	case n > 0:
		return derived.Dims{0: int(n)}, nil
	case n < 0:
		return derived.Dims{1: int(-n)}, nil
	}

	return derived.Dims{}, nil
}

// shiftedRHomer moves every eulerRHomer answer by an even shift, so χ and
// every Chern character stay the same while the triangles differ.
type shiftedRHomer struct{ shift int }

func (s shiftedRHomer) RHom(a, b derived.Object) (derived.Dims, error) {
	d, err := eulerRHomer{}.RHom(a, b)
	if err != nil {
		return nil, err
	}

	return d.Shift(s.shift), nil
}

func k3(t *testing.T, d int64) *geometry.Context {
	t.Helper()
	ctx, err := geometry.K3OfDegree(d)
	require.NoError(t, err)

	return ctx
}

func bundle(t *testing.T, ctx *geometry.Context, expr string) *derived.LineBundle {
	t.Helper()
	l, err := derived.LineBundleOf(ctx, expr)
	require.NoError(t, err)

	return l
}

// TestLineBundle_InterningAndCharacter checks ch(𝒪(D)) = exp(D) and interning.
func TestLineBundle_InterningAndCharacter(t *testing.T) {
	ctx := k3(t, 1)
	a := bundle(t, ctx, "2H")
	b := bundle(t, ctx, "H + H")
	assert.Same(t, a, b, "equal divisors share one interned bundle")
	assert.Equal(t, "1 + 2*H + 2*H^2", a.ChernCharacter().String())
	assert.Equal(t, "O(2*H)", a.String())
	assert.Equal(t, derived.KindLineBundle, a.Kind())

	other := bundle(t, k3(t, 2), "2H")
	assert.False(t, derived.Equal(a, other), "contexts participate in identity")

	_, err := derived.LineBundleOf(ctx, "H^2")
	assert.ErrorIs(t, err, geometry.ErrNotDivisor)
}

// TestSheaf covers the (r, c₁, c₂) character and validation.
func TestSheaf(t *testing.T) {
	ctx := k3(t, 1)
	h := ctx.Polarization()
	c2, err := ctx.Ring().Parse("H^2")
	require.NoError(t, err)

	s, err := derived.NewSheaf(ctx, 2, h, c2)
	require.NoError(t, err)
	assert.Equal(t, "2 + H - 1/2*H^2", s.ChernCharacter().String())
	assert.Same(t, s, s.Shift(0))

	_, err = derived.NewSheaf(ctx, -1, nil, nil)
	assert.ErrorIs(t, err, derived.ErrConstruction)
	_, err = derived.NewSheaf(ctx, 1, c2, nil)
	assert.ErrorIs(t, err, derived.ErrConstruction)

	l := bundle(t, ctx, "H")
	assert.True(t, l.AsSheaf().ChernCharacter().Equal(l.ChernCharacter()))
}

// TestGradedCoproduct_Normalization merges, drops and interns slots.
func TestGradedCoproduct_Normalization(t *testing.T) {
	ctx := geometry.ProjectivePlane()
	l1 := bundle(t, ctx, "-H")
	l2 := bundle(t, ctx, "0")
	z := derived.NewZero(ctx)

	a, err := derived.NewGradedCoproduct([]derived.Object{l1, l2, l1, z, l2}, []int{0, 1, 0, 3, 5}, []int{1, 2, 3, 7, 0})
	require.NoError(t, err)
	b, err := derived.NewGradedCoproduct([]derived.Object{l2, l1}, []int{1, 0}, []int{2, 4})
	require.NoError(t, err)
	assert.Same(t, a, b, "identical multisets intern to one object")
	assert.Equal(t, 2, a.Len())

	nested, err := derived.NewGradedCoproduct([]derived.Object{a}, []int{1}, []int{2})
	require.NoError(t, err)
	for _, s := range nested.Summands() {
		assert.NotEqual(t, derived.KindCoproduct, s.Object.Kind(), "nested sums flatten")
	}
	assert.Equal(t, 1, nested.Summands()[0].Shift)
	assert.Equal(t, 8, nested.Summands()[0].Multiplicity)

	_, err = derived.NewGradedCoproduct(nil, nil, nil)
	assert.ErrorIs(t, err, derived.ErrConstruction)
	_, err = derived.NewGradedCoproduct([]derived.Object{l1}, []int{0, 1}, nil)
	assert.ErrorIs(t, err, derived.ErrLengthMismatch)
	_, err = derived.NewGradedCoproduct([]derived.Object{l1}, nil, []int{-1})
	assert.ErrorIs(t, err, derived.ErrNegativeMultiplicity)
	_, err = derived.NewGradedCoproduct([]derived.Object{l1, bundle(t, k3(t, 1), "H")}, nil, nil)
	assert.ErrorIs(t, err, derived.ErrContextMismatch)
}

// TestGradedCoproduct_Character checks ∑ (-1)^s m ch.
func TestGradedCoproduct_Character(t *testing.T) {
	ctx := geometry.ProjectivePlane()
	o3 := bundle(t, ctx, "-3H")
	o2 := bundle(t, ctx, "-2H")

	g, err := derived.NewGradedCoproduct([]derived.Object{o3, o2}, []int{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, "H - 5/2*H^2", g.ChernCharacter().String())
	assert.Equal(t, "O(-3*H)[1] ⊕ O(-2*H)[2]", g.String())

	sh, ok := g.Shift(1).(*derived.GradedCoproduct)
	require.True(t, ok)
	assert.True(t, sh.ChernCharacter().Equal(g.ChernCharacter().Neg()))
	assert.Equal(t, 2, sh.Summands()[0].Shift)
}

// TestGradedCoproduct_AddSub covers componentwise arithmetic.
func TestGradedCoproduct_AddSub(t *testing.T) {
	ctx := geometry.ProjectiveLine()
	o := bundle(t, ctx, "0")
	h := bundle(t, ctx, "H")

	g, err := derived.NewGradedCoproduct([]derived.Object{o, o}, []int{0, -2}, []int{2, 1})
	require.NoError(t, err)

	assert.True(t, g.Dominates(o))
	rest, err := g.Sub(o)
	require.NoError(t, err)
	assert.Equal(t, "O(0)[-2] ⊕ O(0)", rest.String())

	_, err = g.Sub(h)
	assert.ErrorIs(t, err, derived.ErrNotDominated)

	back, err := rest.Add(o)
	require.NoError(t, err)
	assert.Same(t, g, back)

	all, err := g.Sub(g)
	require.NoError(t, err)
	assert.True(t, all.IsEmpty())
	assert.Equal(t, "0", all.String())
	assert.True(t, all.ChernCharacter().IsZero())
}

// TestShiftLaw checks shifting of every variant.
func TestShiftLaw(t *testing.T) {
	ctx := geometry.ProjectiveLine()
	l := bundle(t, ctx, "H")

	sh := l.Shift(3)
	require.Equal(t, derived.KindCoproduct, sh.Kind())
	assert.True(t, sh.ChernCharacter().Equal(l.ChernCharacter().Neg()))
	assert.Same(t, l, l.Shift(0))

	n, err := derived.NewNumerical(ctx, l.ChernCharacter())
	require.NoError(t, err)
	assert.True(t, n.Shift(1).ChernCharacter().Equal(l.ChernCharacter().Neg()))
	assert.True(t, n.Shift(2).ChernCharacter().Equal(l.ChernCharacter()))

	z := derived.NewZero(ctx)
	assert.Same(t, z, z.Shift(5))
}

// TestTriangle_Rotation checks rotation and indexed access.
func TestTriangle_Rotation(t *testing.T) {
	ctx := geometry.ProjectiveLine()
	a := bundle(t, ctx, "-H")
	b := bundle(t, ctx, "0")
	c := bundle(t, ctx, "H")
	tri, err := derived.NewTriangle(a, b, c)
	require.NoError(t, err)

	l := tri.RotateLeft()
	assert.True(t, derived.Equal(l.First(), b))
	assert.True(t, derived.Equal(l.Second(), c))
	assert.True(t, derived.Equal(l.Third(), a.Shift(1)))

	r := tri.RotateRight()
	assert.True(t, derived.Equal(r.First(), c.Shift(-1)))
	assert.True(t, derived.Equal(r.Second(), a))

	x, err := tri.At(2)
	require.NoError(t, err)
	assert.Same(t, c, x)
	_, err = tri.At(3)
	assert.ErrorIs(t, err, derived.ErrIndex)

	_, err = derived.NewTriangle(a, b, bundle(t, k3(t, 1), "H"))
	assert.ErrorIs(t, err, derived.ErrContextMismatch)
}

// TestSphericalTwist_Character checks ch(Tw) = ch(inner) − χ(L, inner)·ch(L).
func TestSphericalTwist_Character(t *testing.T) {
	ctx := k3(t, 3) // H·H = 6
	l1 := bundle(t, ctx, "H")
	l3 := bundle(t, ctx, "3H")

	_, err := derived.NewSphericalTwist(l1)
	assert.ErrorIs(t, err, derived.ErrEmptyTwist)

	tw, err := derived.NewSphericalTwist(l1, l3)
	require.NoError(t, err)
	again, err := derived.NewSphericalTwist(l1, l3)
	require.NoError(t, err)
	assert.Same(t, tw, again)

	chi, err := derived.EulerCharacteristic(l3, l1)
	require.NoError(t, err)
	assert.Equal(t, "14", chi.RatString())
	assert.Equal(t, "-13 - 41*H - 125/2*H^2", tw.ChernCharacter().String())
	assert.Equal(t, 1, tw.Depth())
	assert.Same(t, l3, tw.Outer())
	assert.Equal(t, "Tw[O(H), O(3*H)]", tw.String())
}

// TestSphericalTwist_Triangles checks the defining and canonical triangles.
func TestSphericalTwist_Triangles(t *testing.T) {
	ctx := k3(t, 1)
	l0 := bundle(t, ctx, "0")
	l1 := bundle(t, ctx, "H")
	l2 := bundle(t, ctx, "2H")

	tw, err := derived.NewSphericalTwist(l0, l1, l2)
	require.NoError(t, err)
	require.Equal(t, 2, tw.Depth())

	def, err := tw.DefiningTriangle(eulerRHomer{})
	require.NoError(t, err)
	assert.True(t, def.IsAdditive())
	assert.Same(t, tw, def.Third())
	assert.True(t, derived.Equal(def.Second(), tw.Inner()))

	tris, err := tw.CanonicalTriangles(eulerRHomer{})
	require.NoError(t, err)
	require.Len(t, tris, 2)
	for i, tri := range tris {
		assert.True(t, tri.IsAdditive(), "triangle %d additive", i)
		assert.True(t, derived.Equal(tri.Third(), tw), "triangle %d ends in the twist", i)
	}

	cached, err := tw.DefiningTriangle(eulerRHomer{})
	require.NoError(t, err)
	assert.Same(t, def, cached)

	other, err := tw.DefiningTriangle(shiftedRHomer{shift: 2})
	require.NoError(t, err)
	assert.NotSame(t, def, other, "triangles are memoized per engine")
	assert.False(t, derived.Equal(def.First(), other.First()))
	assert.True(t, other.IsAdditive())
}

// TestApplySphericalTwist dispatches on the variant.
func TestApplySphericalTwist(t *testing.T) {
	ctx := k3(t, 1)
	l0 := bundle(t, ctx, "0")
	l1 := bundle(t, ctx, "H")

	x, err := derived.ApplySphericalTwist(l0, l1)
	require.NoError(t, err)
	tw, ok := x.(*derived.SphericalTwist)
	require.True(t, ok)
	assert.Len(t, tw.Bundles(), 2)

	y, err := derived.ApplySphericalTwist(tw, l0)
	require.NoError(t, err)
	assert.Equal(t, derived.KindTwist, y.Kind())

	g, err := derived.NewGradedCoproduct([]derived.Object{l0}, []int{2}, []int{3})
	require.NoError(t, err)
	gt, err := derived.ApplySphericalTwist(g, l1)
	require.NoError(t, err)
	gs := gt.(*derived.GradedCoproduct).Summands()
	require.Len(t, gs, 1)
	assert.Same(t, tw, gs[0].Object)
	assert.Equal(t, 2, gs[0].Shift)
	assert.Equal(t, 3, gs[0].Multiplicity)

	z, err := derived.ApplySphericalTwist(derived.NewZero(ctx), l1)
	require.NoError(t, err)
	assert.Equal(t, derived.KindZero, z.Kind())

	_, err = derived.ApplySphericalTwist(l1.AsSheaf(), l0)
	assert.ErrorIs(t, err, derived.ErrCannotTwist)
}

// TestEulerCharacteristic covers the per-category line-bundle formulas.
func TestEulerCharacteristic(t *testing.T) {
	p2 := geometry.LocalProjectivePlane()
	chi, err := derived.EulerCharacteristic(bundle(t, p2, "0"), bundle(t, p2, "2H"))
	require.NoError(t, err)
	assert.Equal(t, "6", chi.RatString())

	p1 := geometry.LocalProjectiveLine()
	chi, err = derived.EulerCharacteristic(bundle(t, p1, "5H"), bundle(t, p1, "-H"))
	require.NoError(t, err)
	assert.Equal(t, "2", chi.RatString())

	k := k3(t, 1)
	chi, err = derived.EulerCharacteristic(bundle(t, k, "0"), bundle(t, k, "2H"))
	require.NoError(t, err)
	assert.Equal(t, "6", chi.RatString())

	s, err := derived.NewSheaf(p2, 2, nil, nil)
	require.NoError(t, err)
	_, err = derived.EulerCharacteristic(s, bundle(t, p2, "0"))
	assert.ErrorIs(t, err, derived.ErrUnsupported)

	_, err = derived.EulerCharacteristic(bundle(t, p1, "0"), bundle(t, p2, "0"))
	assert.ErrorIs(t, err, derived.ErrContextMismatch)

	// χ is additive on coproducts and respects shifts.
	g, err := derived.NewGradedCoproduct([]derived.Object{bundle(t, p2, "H")}, []int{1}, []int{3})
	require.NoError(t, err)
	chi, err = derived.EulerCharacteristic(bundle(t, p2, "0"), g)
	require.NoError(t, err)
	assert.Equal(t, 0, chi.Cmp(big.NewRat(-9, 1)))
}

// TestDims covers the graded dimension helpers.
func TestDims(t *testing.T) {
	d := derived.Dims{0: 1, -2: 1}
	assert.Equal(t, []int{-2, 0}, d.Degrees())
	assert.Equal(t, "{-2:1, 0:1}", d.String())
	assert.Equal(t, int64(2), d.Euler())
	assert.True(t, d.Shift(1).Equal(derived.Dims{1: 1, -1: 1}))
	assert.True(t, d.Scale(3).Equal(derived.Dims{0: 3, -2: 3}))
	assert.Empty(t, d.Scale(0))
	assert.True(t, d.Add(derived.Dims{0: -1}).Equal(derived.Dims{-2: 1}))
	assert.Equal(t, int64(-4), derived.Dims{1: 4}.Euler())
}
