package rhom_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/rhom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func k3(t *testing.T, d int64) *geometry.Context {
	t.Helper()
	ctx, err := geometry.K3OfDegree(d)
	require.NoError(t, err)

	return ctx
}

func bundles(t *testing.T, ctx *geometry.Context, coeffs ...int64) []*derived.LineBundle {
	t.Helper()
	out := make([]*derived.LineBundle, len(coeffs))
	for i, c := range coeffs {
		l, err := derived.LineBundleFromCoords(ctx, c)
		require.NoError(t, err)
		out[i] = l
	}

	return out
}

// firstTerm returns RHom(L_k, inner) for the twist [L₀, …, L_k].
func firstTerm(t *testing.T, e *rhom.Engine, ctx *geometry.Context, coeffs ...int64) derived.Dims {
	t.Helper()
	ls := bundles(t, ctx, coeffs...)
	var inner derived.Object = ls[0]
	if len(ls) > 2 {
		tw, err := derived.NewSphericalTwist(ls[:len(ls)-1]...)
		require.NoError(t, err)
		inner = tw
	}
	d, err := e.RHom(ls[len(ls)-1], inner)
	require.NoError(t, err)

	return d
}

// TestLineBundleDims_P1 covers the projective line table.
func TestLineBundleDims_P1(t *testing.T) {
	ctx := geometry.LocalProjectiveLine()
	cases := []struct {
		delta int64
		want  derived.Dims
	}{
		{0, derived.Dims{0: 1, -2: 1}},
		{1, derived.Dims{0: 2}},
		{-1, derived.Dims{-2: 2}},
		{2, derived.Dims{0: 3, -1: 1}},
		{4, derived.Dims{0: 5, -1: 3}},
		{-2, derived.Dims{-1: 1, -2: 3}},
		{-5, derived.Dims{-1: 4, -2: 6}},
	}
	for _, tc := range cases {
		ls := bundles(t, ctx, 0, tc.delta)
		got, err := rhom.LineBundleDims(ls[0], ls[1])
		require.NoError(t, err)
		assert.True(t, tc.want.Equal(got), "δ=%d: got %s want %s", tc.delta, got, tc.want)
		assert.EqualValues(t, 2, got.Euler(), "χ on P1 is 2")
	}
}

// TestLineBundleDims_P2 covers the projective plane table and χ = 3δ.
func TestLineBundleDims_P2(t *testing.T) {
	ctx := geometry.LocalProjectivePlane()
	cases := []struct {
		delta int64
		want  derived.Dims
	}{
		{0, derived.Dims{0: 1, -3: 1}},
		{1, derived.Dims{0: 3}},
		{2, derived.Dims{0: 6}},
		{3, derived.Dims{0: 10, -1: 1}},
		{5, derived.Dims{0: 21, -1: 6}},
		{-1, derived.Dims{-3: 3}},
		{-2, derived.Dims{-3: 6}},
		{-3, derived.Dims{-2: 1, -3: 10}},
		{-4, derived.Dims{-2: 3, -3: 15}},
	}
	for _, tc := range cases {
		ls := bundles(t, ctx, 0, tc.delta)
		got, err := rhom.LineBundleDims(ls[0], ls[1])
		require.NoError(t, err)
		assert.True(t, tc.want.Equal(got), "δ=%d: got %s want %s", tc.delta, got, tc.want)
		assert.EqualValues(t, 3*tc.delta, got.Euler())
	}
}

// TestLineBundleDims_K3 covers effective, anti-effective and trivial classes.
func TestLineBundleDims_K3(t *testing.T) {
	ctx := k3(t, 1) // H² = 2
	ls := bundles(t, ctx, 0, 0)
	got, err := rhom.LineBundleDims(ls[0], ls[1])
	require.NoError(t, err)
	assert.Equal(t, "{-2:1, 0:1}", got.String())

	ls = bundles(t, ctx, 1, 3)
	got, err = rhom.LineBundleDims(ls[0], ls[1])
	require.NoError(t, err)
	assert.True(t, derived.Dims{0: 6}.Equal(got), got.String())

	got, err = rhom.LineBundleDims(ls[1], ls[0])
	require.NoError(t, err)
	assert.True(t, derived.Dims{-2: 6}.Equal(got), got.String())
}

// TestLineBundleDims_K3Effectiveness refuses classes with no recipe.
func TestLineBundleDims_K3Effectiveness(t *testing.T) {
	dd, err := geometry.NewDivisorData([]string{"H", "E"},
		geometry.Intersection{Divisors: []string{"H", "H"}, Value: big.NewRat(2, 1)},
		geometry.Intersection{Divisors: []string{"H", "E"}, Value: big.NewRat(1, 1)},
		geometry.Intersection{Divisors: []string{"E", "E"}, Value: big.NewRat(-2, 1)},
	)
	require.NoError(t, err)
	ctx, err := geometry.NewContext(geometry.K3, dd)
	require.NoError(t, err)

	e, err := derived.LineBundleOf(ctx, "E")
	require.NoError(t, err)
	h, err := derived.LineBundleOf(ctx, "H")
	require.NoError(t, err)

	_, err = rhom.LineBundleDims(e, h)
	require.ErrorIs(t, err, rhom.ErrK3Effectiveness)
	var ee *rhom.EffectivenessError
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, ee.Divisor, "H")
}

// TestEngine_TwistFirstTerms checks RHom(L_k, inner) against hand-resolved values.
func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		u, v    derived.Dims
		want    derived.Dims
		failsAt int
	}{
		{name: "empty", u: derived.Dims{}, v: derived.Dims{}, want: derived.Dims{}},
		{name: "u only moves up", u: derived.Dims{0: 3}, v: derived.Dims{}, want: derived.Dims{1: 3}},
		{name: "v only stays", u: derived.Dims{}, v: derived.Dims{0: 4}, want: derived.Dims{0: 4}},
		{name: "v dominates", u: derived.Dims{0: 50}, v: derived.Dims{0: 196}, want: derived.Dims{0: 146}},
		{name: "kernel lands one row up", u: derived.Dims{0: 196}, v: derived.Dims{0: 50}, want: derived.Dims{1: 146}},
		{name: "equal rows cancel", u: derived.Dims{0: 2}, v: derived.Dims{0: 2}, want: derived.Dims{}},
		{name: "kernel blocked from above", u: derived.Dims{0: 196, 1: 3}, v: derived.Dims{0: 50}, failsAt: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rhom.Resolve(tt.u, tt.v)
			if tt.want == nil {
				var re *rhom.ResolutionError
				require.ErrorAs(t, err, &re)
				assert.ErrorIs(t, err, rhom.ErrResolution)
				assert.Equal(t, tt.failsAt, re.Degree)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestEngine_TwistFirstTerms(t *testing.T) {
	cases := []struct {
		coeffs []int64
		byDeg  map[int64]derived.Dims // keyed by K3 degree d (H² = 2d)
	}{
		{[]int64{3, 1}, map[int64]derived.Dims{1: {0: 6}, 2: {0: 10}, 3: {0: 14}}},
		{[]int64{1, 3}, map[int64]derived.Dims{1: {-2: 6}, 2: {-2: 10}, 3: {-2: 14}}},
		{[]int64{5, 3, 1}, map[int64]derived.Dims{1: {1: 18}, 2: {1: 66}, 3: {1: 146}}},
		{[]int64{7, 5, 3, 1}, map[int64]derived.Dims{1: {2: 38}, 2: {2: 394}, 3: {2: 1454}}},
		{[]int64{1, 3, 5}, map[int64]derived.Dims{1: {-2: 18, -3: 36}, 2: {-2: 34, -3: 100}, 3: {-2: 50, -3: 196}}},
		{[]int64{0, 1, 2}, map[int64]derived.Dims{1: {-2: 6, -3: 9}, 2: {-2: 10, -3: 16}, 3: {-2: 14, -3: 25}}},
		{[]int64{2, 1, 0}, map[int64]derived.Dims{1: {1: 3}, 2: {1: 6}, 3: {1: 11}}},
		{[]int64{0, 1}, map[int64]derived.Dims{1: {-2: 3}, 2: {-2: 4}, 3: {-2: 5}}},
		{[]int64{1, 0}, map[int64]derived.Dims{1: {0: 3}, 2: {0: 4}, 3: {0: 5}}},
		{[]int64{0, 0}, map[int64]derived.Dims{1: {0: 1, -2: 1}, 2: {0: 1, -2: 1}}},
		{[]int64{1, 1, 1}, map[int64]derived.Dims{1: {-1: 1, -3: 1}, 3: {-1: 1, -3: 1}}},
		{[]int64{0, 0, 0}, map[int64]derived.Dims{2: {-1: 1, -3: 1}}},
	}
	e := rhom.NewEngine()
	for _, tc := range cases {
		for d, want := range tc.byDeg {
			got := firstTerm(t, e, k3(t, d), tc.coeffs...)
			assert.True(t, want.Equal(got), "%v on H²=%d: got %s want %s", tc.coeffs, 2*d, got, want)
		}
	}
}

// TestEngine_EulerAgreesWithChi checks ∑(-1)ʲ dⱼ = χ on every resolved pair.
func TestEngine_EulerAgreesWithChi(t *testing.T) {
	e := rhom.NewEngine()
	cases := []struct {
		ctx    *geometry.Context
		probes []int64
	}{
		{k3(t, 1), []int64{-2, 0, 1, 2, 3}},
		{k3(t, 3), []int64{-2, 0, 1, 2, 3}},
		{geometry.LocalProjectivePlane(), []int64{0, 2, 3}},
	}
	for _, tc := range cases {
		tw, err := derived.NewSphericalTwist(bundles(t, tc.ctx, 5, 3, 1)...)
		require.NoError(t, err)
		for _, probe := range bundles(t, tc.ctx, tc.probes...) {
			d, err := e.RHom(probe, tw)
			require.NoError(t, err)
			chi, err := derived.EulerCharacteristic(probe, tw)
			require.NoError(t, err)
			assert.EqualValues(t, chi.Num().Int64(), d.Euler(), "%s → %s on %s", probe, tw, tc.ctx)
		}
	}
}

// TestEngine_RefusesFourConsecutiveRows exercises the refusal path end to end.
func TestEngine_RefusesFourConsecutiveRows(t *testing.T) {
	ctx := k3(t, 3)
	tw, err := derived.NewSphericalTwist(bundles(t, ctx, 5, 3, 1)...)
	require.NoError(t, err)
	_, err = rhom.NewEngine().RHom(bundles(t, ctx, 4)[0], tw)
	require.ErrorIs(t, err, rhom.ErrResolution)
	var re *rhom.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Zero(t, re.Degree)
	assert.Len(t, re.Excerpt, 3)
}

// TestEngine_SerreMirror checks RHom(A, B)_j = RHom(B, A)_{−d−j}.
func TestEngine_SerreMirror(t *testing.T) {
	e := rhom.NewEngine()
	for _, ctx := range []*geometry.Context{k3(t, 2), geometry.LocalProjectivePlane(), geometry.LocalProjectiveLine()} {
		cy := ctx.Category().CalabiYauDimension()
		ls := bundles(t, ctx, -2, 0, 1, 3)
		for _, a := range ls {
			for _, b := range ls {
				ab, err := e.RHom(a, b)
				require.NoError(t, err)
				ba, err := e.RHom(b, a)
				require.NoError(t, err)
				assert.True(t, ab.Equal(rhom.Mirror(ba, cy)), "%s, %s on %s", a, b, ctx)
			}
		}

		tw, err := derived.NewSphericalTwist(bundles(t, ctx, 1, 0)...)
		require.NoError(t, err)
		l := ls[2]
		into, err := e.RHom(l, tw)
		require.NoError(t, err)
		out, err := e.RHom(tw, l)
		require.NoError(t, err)
		assert.True(t, out.Equal(rhom.Mirror(into, cy)))
	}
}

// TestEngine_CoproductAdditivity checks shifts and multiplicities translate keys and scale values.
func TestEngine_CoproductAdditivity(t *testing.T) {
	ctx := k3(t, 1)
	ls := bundles(t, ctx, 0, 1)
	e := rhom.NewEngine()

	base, err := e.RHom(ls[0], ls[1])
	require.NoError(t, err)

	right, err := derived.NewGradedCoproduct([]derived.Object{ls[1]}, []int{2}, []int{3})
	require.NoError(t, err)
	got, err := e.RHom(ls[0], right)
	require.NoError(t, err)
	assert.True(t, base.Shift(2).Scale(3).Equal(got), got.String())

	left, err := derived.NewGradedCoproduct([]derived.Object{ls[0]}, []int{2}, []int{3})
	require.NoError(t, err)
	got, err = e.RHom(left, ls[1])
	require.NoError(t, err)
	assert.True(t, base.Shift(-2).Scale(3).Equal(got), got.String())

	got, err = e.RHom(derived.NewZero(ctx), ls[1])
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestEngine_DefiningTriangleAdditive builds triangles with the real engine.
func TestEngine_DefiningTriangleAdditive(t *testing.T) {
	e := rhom.NewEngine()
	for _, ctx := range []*geometry.Context{k3(t, 3), geometry.LocalProjectivePlane()} {
		tw, err := derived.NewSphericalTwist(bundles(t, ctx, 5, 3, 1)...)
		require.NoError(t, err)
		tris, err := tw.CanonicalTriangles(e)
		require.NoError(t, err)
		require.Len(t, tris, 2)
		for _, tri := range tris {
			assert.True(t, tri.IsAdditive(), tri.String())
			assert.True(t, derived.Equal(tw, tri.Third()))
		}
	}
}

// TestEngine_Errors covers context mismatch and unsupported variants.
func TestEngine_Errors(t *testing.T) {
	e := rhom.NewEngine()
	a := bundles(t, k3(t, 1), 0)[0]
	b := bundles(t, k3(t, 2), 0)[0]
	_, err := e.RHom(a, b)
	require.ErrorIs(t, err, rhom.ErrContextMismatch)

	n, err := derived.NewNumerical(a.Context(), a.ChernCharacter())
	require.NoError(t, err)
	_, err = e.RHom(a, n)
	require.ErrorIs(t, err, rhom.ErrUnsupportedPair)
}

// TestEngine_Cache checks memoization and Reset.
func TestEngine_Cache(t *testing.T) {
	e := rhom.NewEngine()
	ls := bundles(t, k3(t, 1), 0, 2)
	d1, err := e.RHom(ls[0], ls[1])
	require.NoError(t, err)
	d1[99] = 1 // callers own their copy
	d2, err := e.RHom(ls[0], ls[1])
	require.NoError(t, err)
	assert.NotContains(t, d2, 99)

	size, hits, misses := e.Stats()
	assert.Equal(t, 1, size)
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 1, misses)

	e.Reset()
	size, _, _ = e.Stats()
	assert.Zero(t, size)
	assert.Same(t, rhom.Shared(), rhom.Shared())
}
