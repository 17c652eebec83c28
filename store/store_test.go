// SPDX-License-Identifier: MIT

package store_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stabmass/derived"
	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/matrix"
	"github.com/katalvlaran/stabmass/sampling"
	"github.com/katalvlaran/stabmass/store"
)

func openDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// mixedSurface is a 2×3 surface with one excluded and one failed point.
func mixedSurface(t *testing.T) *sampling.Surface {
	t.Helper()
	g := sampling.Grid{XMin: -1, XMax: 1, XSteps: 3, YMin: 0, YMax: 1, YSteps: 2}
	mass, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	require.NoError(t, mass.SetRow(0, []float64{math.NaN(), 1.5, 2}))
	require.NoError(t, mass.SetRow(1, []float64{0.25, -1, 3}))
	status := []sampling.Status{
		sampling.StatusExcluded, sampling.StatusOK, sampling.StatusOK,
		sampling.StatusOK, sampling.StatusFailed, sampling.StatusOK,
	}
	s, err := sampling.NewSurface(g, geometry.LocalP2, "O(H)", mass, status)
	require.NoError(t, err)

	return s
}

func TestSaveLoadSurface(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	want := mixedSurface(t)

	id, err := db.SaveSurface(ctx, want)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	got, err := db.LoadSurface(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want.Grid, got.Grid)
	assert.Equal(t, geometry.LocalP2, got.Category)
	assert.Equal(t, "O(H)", got.Object)
	assert.Equal(t, 1, got.Failures)
	assert.Equal(t, 1, got.Excluded)

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, want.Status(i, j), got.Status(i, j), "(%d,%d)", i, j)
			w, err := want.Mass.At(i, j)
			require.NoError(t, err)
			v, err := got.Mass.At(i, j)
			require.NoError(t, err)
			if math.IsNaN(w) {
				assert.True(t, math.IsNaN(v), "(%d,%d) NaN survives", i, j)
				continue
			}
			assert.Equal(t, w, v, "(%d,%d)", i, j)
		}
	}

	run, err := db.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), run.ID)
	assert.Equal(t, want.Grid, run.Grid())
	assert.False(t, run.Created().IsZero())
}

func TestSaveSurface_FromSampler(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	geo := geometry.ProjectiveLine()
	l, err := derived.LineBundleOf(geo, "H")
	require.NoError(t, err)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := sampling.Grid{XMin: 1, XMax: 3, XSteps: 3, YMin: 0, YMax: 1, YSteps: 2}
	surf, err := sampling.NewSampler(geo, sampling.WithLogger(quiet)).Sample(ctx, l, g)
	require.NoError(t, err)

	id, err := db.SaveSurface(ctx, surf)
	require.NoError(t, err)
	back, err := db.LoadSurface(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, surf.Mass.String(), back.Mass.String())

	lap, err := sampling.Laplacian(back)
	require.NoError(t, err)
	assert.Equal(t, 2, lap.Rows())
}

func TestRunsAndDelete(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	runs, err := db.Runs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	ids := make(map[string]uuid.UUID)
	for range 3 {
		id, err := db.SaveSurface(ctx, mixedSurface(t))
		require.NoError(t, err)
		ids[id.String()] = id
	}
	assert.Len(t, ids, 3, "ids are unique")

	runs, err = db.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for _, r := range runs {
		assert.Contains(t, ids, r.ID)
	}
	for i := 1; i < len(runs); i++ {
		assert.GreaterOrEqual(t, runs[i-1].CreatedAt, runs[i].CreatedAt, "newest first")
	}

	limited, err := db.Runs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	victim := ids[runs[0].ID]
	require.NoError(t, db.DeleteRun(ctx, victim))
	_, err = db.LoadSurface(ctx, victim)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
	assert.ErrorIs(t, db.DeleteRun(ctx, victim), store.ErrRunNotFound)

	runs, err = db.Runs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	_, err := db.SaveSurface(ctx, nil)
	assert.ErrorIs(t, err, store.ErrNilSurface)

	_, err = db.Run(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	db, err := store.Open(path)
	require.NoError(t, err)
	id, err := db.SaveSurface(ctx, mixedSurface(t))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = store.Open(path)
	require.NoError(t, err)
	defer db.Close()
	s, err := db.LoadSurface(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Grid.Size())
}
