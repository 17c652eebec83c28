package chern_test

import (
	"testing"

	"github.com/katalvlaran/stabmass/chern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParse_Table checks canonical renderings of accepted inputs.
func TestParse_Table(t *testing.T) {
	r, err := chern.NewRing(2, "H", "D")
	require.NoError(t, err)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"constant", "3", "3"},
		{"fraction", "1/2", "1/2"},
		{"decimal", "0.5*H", "1/2*H"},
		{"juxtaposition", "3H", "3*H"},
		{"paren juxtaposition", "2(H+D)", "2*H + 2*D"},
		{"power star", "H**2", "H^2"},
		{"negative lead", "-1 + H", "-1 + H"},
		{"unary plus", "+H", "H"},
		{"truncation", "H^3 + H", "H"},
		{"mixed", "1 + 3H + 9/2*H^2", "1 + 3*H + 9/2*H^2"},
		{"product order", "D*H + H^2 + D^2", "H^2 + H*D + D^2"},
		{"division chain", "H/2/3", "1/6*H"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := r.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.String())

			back, err := r.Parse(p.String())
			require.NoError(t, err)
			assert.True(t, back.Equal(p), "String output must parse back")
		})
	}
}

// TestParse_Errors maps malformed inputs to sentinels.
func TestParse_Errors(t *testing.T) {
	r, _ := chern.NewRing(2, "H")

	cases := []struct {
		in   string
		want error
	}{
		{"H^-1", chern.ErrNotPolynomial},
		{"H^(1/2)", chern.ErrNotPolynomial},
		{"1/H", chern.ErrNotPolynomial},
		{"1/0", chern.ErrNotPolynomial},
		{"X", chern.ErrUnknownSymbol},
		{"(H", chern.ErrSyntax},
		{"H $", chern.ErrSyntax},
		{"H +", chern.ErrSyntax},
		{"H)", chern.ErrSyntax},
	}
	for _, tc := range cases {
		_, err := r.Parse(tc.in)
		assert.ErrorIs(t, err, tc.want, "input %q", tc.in)
	}
}

// TestParse_InferredBasis checks the package-level convenience form.
func TestParse_InferredBasis(t *testing.T) {
	p, err := chern.Parse("b + a", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Basis())
	assert.Equal(t, "a + b", p.String())

	p, err = chern.Parse("1 + H", 2, "H", "E")
	require.NoError(t, err)
	assert.Equal(t, []string{"H", "E"}, p.Basis())
}
