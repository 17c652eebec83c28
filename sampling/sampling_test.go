package sampling_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/exceptional"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/matrix"
	"github.com/katalvlaran/stabmass/sampling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func at(t *testing.T, m *matrix.Dense, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

func TestGrid_Validate(t *testing.T) {
	good := sampling.Grid{XMin: 0, XMax: 1, XSteps: 2, YMin: 0, YMax: 1, YSteps: 3}
	require.NoError(t, good.Validate())
	assert.Equal(t, 6, good.Size())
	assert.InDelta(t, 0.5, good.Y(1), eps)
	assert.InDelta(t, 1.0, good.X(1), eps)

	bad := map[string]sampling.Grid{
		"one step":  {XMin: 0, XMax: 1, XSteps: 1, YMin: 0, YMax: 1, YSteps: 3},
		"inverted":  {XMin: 1, XMax: 0, XSteps: 2, YMin: 0, YMax: 1, YSteps: 2},
		"flat":      {XMin: 0, XMax: 1, XSteps: 2, YMin: 1, YMax: 1, YSteps: 2},
		"nan bound": {XMin: math.NaN(), XMax: 1, XSteps: 2, YMin: 0, YMax: 1, YSteps: 2},
	}
	for name, g := range bad {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, g.Validate(), sampling.ErrBadGrid)
		})
	}
}

// TestSample_P1 checks mass(𝒪(1)) = |w − 1| over a small rectangle.
func TestSample_P1(t *testing.T) {
	geo := geometry.ProjectiveLine()
	l, err := derived.LineBundleOf(geo, "H")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := sampling.NewSampler(geo, sampling.WithWorkers(2), sampling.WithLogger(logger))
	g := sampling.Grid{XMin: 0, XMax: 2, XSteps: 3, YMin: 1, YMax: 2, YSteps: 2}
	surf, err := s.Sample(context.Background(), l, g)
	require.NoError(t, err)

	require.Equal(t, 2, surf.Mass.Rows())
	require.Equal(t, 3, surf.Mass.Cols())
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			want := math.Hypot(g.X(j)-1, g.Y(i))
			assert.InDelta(t, want, at(t, surf.Mass, i, j), eps, "(%d,%d)", i, j)
			assert.Equal(t, sampling.StatusOK, surf.Status(i, j))
		}
	}
	assert.Zero(t, surf.Failures)
	assert.Zero(t, surf.Excluded)
	assert.Equal(t, "O(H)", surf.Object)
	assert.Contains(t, buf.String(), "sampled surface")
}

// TestSample_P2Boundary excludes points on or below the exceptional curve.
func TestSample_P2Boundary(t *testing.T) {
	geo := geometry.LocalProjectivePlane()
	o, err := derived.LineBundleOf(geo, "0")
	require.NoError(t, err)
	g := sampling.Grid{XMin: -0.5, XMax: 0.5, XSteps: 3, YMin: -1, YMax: 1, YSteps: 3}

	surf, err := sampling.NewSampler(geo).Sample(context.Background(), o, g)
	require.NoError(t, err)
	assert.Equal(t, 4, surf.Excluded)
	for j := 0; j < 3; j++ {
		assert.Equal(t, sampling.StatusExcluded, surf.Status(0, j))
		assert.True(t, math.IsNaN(at(t, surf.Mass, 0, j)))
	}
	assert.Equal(t, sampling.StatusExcluded, surf.Status(1, 1), "the point of 𝒪 itself")
	// Z(𝒪) = q − is
	assert.InDelta(t, 0.5, at(t, surf.Mass, 1, 0), eps)
	assert.InDelta(t, 0.5, at(t, surf.Mass, 1, 2), eps)
	assert.InDelta(t, math.Hypot(1, 0.5), at(t, surf.Mass, 2, 0), eps)
	assert.InDelta(t, 1.0, at(t, surf.Mass, 2, 1), eps)

	curve, err := exceptional.NewCurve(geo, 0, 1, 2)
	require.NoError(t, err)
	_, err = sampling.NewSampler(geo, sampling.WithBoundary(curve)).Sample(context.Background(), o, g)
	assert.ErrorIs(t, err, sampling.ErrBadGrid, "grid reaches left of the curve")
}

// TestSample_FailureSentinel records RHom refusals per point.
func TestSample_FailureSentinel(t *testing.T) {
	geo, err := geometry.K3OfDegree(3)
	require.NoError(t, err)
	ls := make([]*derived.LineBundle, 0, 4)
	for _, c := range []int64{5, 3, 1, 4} {
		l, err := derived.LineBundleFromCoords(geo, c)
		require.NoError(t, err)
		ls = append(ls, l)
	}
	tw, err := derived.NewSphericalTwist(ls...)
	require.NoError(t, err)

	s := sampling.NewSampler(geo, sampling.WithFailureSentinel(-7), sampling.WithWorkers(1))
	g := sampling.Grid{XMin: 0, XMax: 1, XSteps: 2, YMin: 1, YMax: 2, YSteps: 2}
	surf, err := s.Sample(context.Background(), tw, g)
	require.NoError(t, err)
	assert.Equal(t, 4, surf.Failures)
	assert.Equal(t, -7.0, at(t, surf.Mass, 1, 1))
	assert.Equal(t, sampling.StatusFailed, surf.Status(0, 0))

	_, err = sampling.Laplacian(surf)
	assert.ErrorIs(t, err, sampling.ErrEmptySurface)
}

func TestSample_K3Validation(t *testing.T) {
	geo, err := geometry.K3OfDegree(2)
	require.NoError(t, err)
	o, err := derived.LineBundleOf(geo, "H")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = sampling.NewSampler(geo).Sample(ctx, o, sampling.Grid{XMin: 0, XMax: 1, XSteps: 2, YMin: 0, YMax: 1, YSteps: 2})
	assert.ErrorIs(t, err, sampling.ErrBadGrid)

	_, err = sampling.NewSampler(geo, sampling.WithBDirection([]float64{1, 0})).
		Sample(ctx, o, sampling.Grid{XMin: 0, XMax: 1, XSteps: 2, YMin: 1, YMax: 2, YSteps: 2})
	assert.ErrorIs(t, err, sampling.ErrBadGrid)

	curve, err := exceptional.NewCurve(geometry.LocalProjectivePlane(), 0, 1, 1)
	require.NoError(t, err)
	_, err = sampling.NewSampler(geo, sampling.WithBoundary(curve)).
		Sample(ctx, o, sampling.Grid{XMin: 0, XMax: 1, XSteps: 2, YMin: 1, YMax: 2, YSteps: 2})
	assert.ErrorIs(t, err, sampling.ErrCategory)

	surf, err := sampling.NewSampler(geo).Sample(ctx, o, sampling.Grid{XMin: 0, XMax: 1, XSteps: 2, YMin: 1, YMax: 2, YSteps: 2})
	require.NoError(t, err)
	assert.Zero(t, surf.Failures)
	assert.Equal(t, geometry.K3, surf.Category)
}

func TestSample_Cancelled(t *testing.T) {
	geo := geometry.ProjectiveLine()
	l, err := derived.LineBundleOf(geo, "H")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sampling.NewSampler(geo).Sample(ctx, l, sampling.Grid{XMin: 0, XMax: 1, XSteps: 2, YMin: 0, YMax: 1, YSteps: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

// spike builds a 5×5 surface that is zero except for a peak at the centre.
func spike(t *testing.T) *sampling.Surface {
	t.Helper()
	m, err := matrix.NewDense(5, 5)
	require.NoError(t, err)
	require.NoError(t, m.Set(2, 2, 10))
	g := sampling.Grid{XMin: 0, XMax: 4, XSteps: 5, YMin: 0, YMax: 4, YSteps: 5}
	s, err := sampling.NewSurface(g, geometry.P1, "spike", m, nil)
	require.NoError(t, err)

	return s
}

func TestLaplacianAndDiscontinuities(t *testing.T) {
	s := spike(t)
	lap, err := sampling.Laplacian(s)
	require.NoError(t, err)
	assert.InDelta(t, -40.0, at(t, lap, 2, 2), eps)
	assert.InDelta(t, 10.0, at(t, lap, 1, 2), eps)
	assert.InDelta(t, 0.0, at(t, lap, 1, 1), eps)
	assert.True(t, math.IsNaN(at(t, lap, 0, 0)))

	// Δ values: −40, four 10s, four 0s; mean 0, σ = √(2000/9)
	pts, err := sampling.Discontinuities(s, 2)
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, sampling.Discontinuity{Row: 2, Col: 2, X: 2, Y: 2, Laplacian: -40}, pts[0])

	pts, err = sampling.Discontinuities(s, 0.5)
	require.NoError(t, err)
	assert.Len(t, pts, 5)

	_, err = sampling.Discontinuities(s, -1)
	assert.ErrorIs(t, err, sampling.ErrBadThreshold)
}

func TestWalls(t *testing.T) {
	walls, err := sampling.Walls(spike(t), 0.5)
	require.NoError(t, err)
	require.Len(t, walls, 1)
	require.Len(t, walls[0], 5)
	assert.Equal(t, 1, walls[0][0].Row)
	assert.Equal(t, 2, walls[0][0].Col)

	// two spikes two columns apart stay separate walls
	m, err := matrix.NewDense(5, 9)
	require.NoError(t, err)
	require.NoError(t, m.Set(2, 2, 10))
	require.NoError(t, m.Set(2, 6, 10))
	g := sampling.Grid{XMin: 0, XMax: 8, XSteps: 9, YMin: 0, YMax: 4, YSteps: 5}
	s, err := sampling.NewSurface(g, geometry.P1, "twin", m, nil)
	require.NoError(t, err)
	walls, err = sampling.Walls(s, 0.5)
	require.NoError(t, err)
	require.Len(t, walls, 2)
	assert.Len(t, walls[0], 5)
	assert.Len(t, walls[1], 5)
	assert.Equal(t, 2.0, walls[0][2].X)
	assert.Equal(t, 6.0, walls[1][2].X)

	walls, err = sampling.Walls(spike(t), 10)
	require.NoError(t, err)
	assert.Empty(t, walls)
}

func TestNewSurface_Errors(t *testing.T) {
	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	g := sampling.Grid{XMin: 0, XMax: 1, XSteps: 2, YMin: 0, YMax: 1, YSteps: 2}
	_, err = sampling.NewSurface(g, geometry.P1, "x", m, nil)
	assert.ErrorIs(t, err, sampling.ErrBadGrid)

	m, err = matrix.NewDense(2, 2)
	require.NoError(t, err)
	_, err = sampling.NewSurface(g, geometry.P1, "x", m, []sampling.Status{sampling.StatusOK})
	assert.ErrorIs(t, err, sampling.ErrBadGrid)

	s, err := sampling.NewSurface(g, geometry.P1, "x", m,
		[]sampling.Status{sampling.StatusOK, sampling.StatusFailed, sampling.StatusExcluded, sampling.StatusOK})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Failures)
	assert.Equal(t, 1, s.Excluded)
	assert.Equal(t, "failed", s.Status(0, 1).String())
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { sampling.WithWorkers(0) })
	assert.Panics(t, func() { sampling.WithBoundary(nil) })
	assert.Panics(t, func() { sampling.WithBDirection(nil) })
	assert.Panics(t, func() { sampling.WithLogger(nil) })
}
