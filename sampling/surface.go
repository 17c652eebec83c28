// SPDX-License-Identifier: MIT

// Package sampling - Surface, Laplacian and discontinuity detection.
//
// Contracts:
//   - Mass rows follow the grid's y index, columns its x index.
//   - Laplacian and Discontinuities only see StatusOK cells.
//   - Walls groups discontinuities that touch, diagonals included.

package sampling

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/matrix"
)

// Status classifies one grid point.
type Status uint8

const (
	// StatusOK marks a computed mass.
	StatusOK Status = iota
	// StatusExcluded marks a point outside the geometric region (NaN mass).
	StatusExcluded
	// StatusFailed marks an HN or RHom failure (sentinel mass).
	StatusFailed
)

// String returns "ok", "excluded" or "failed".
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusExcluded:
		return "excluded"
	case StatusFailed:
		return "failed"
	}

	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Surface is a sampled mass surface.
type Surface struct {
	Grid     Grid
	Category geometry.Category
	Object   string
	Mass     *matrix.Dense
	Failures int
	Excluded int

	status []Status
}

// NewSurface assembles a surface from stored values, e.g. one read back from
// a database. status may be nil (every point OK).
//
// Errors: ErrBadGrid on shape mismatch.
func NewSurface(g Grid, cat geometry.Category, object string, mass *matrix.Dense, status []Status) (*Surface, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if mass == nil || mass.Rows() != g.YSteps || mass.Cols() != g.XSteps {
		return nil, fmt.Errorf("NewSurface: mass shape does not match grid %v: %w", g, ErrBadGrid)
	}
	if status == nil {
		status = make([]Status, g.Size())
	}
	if len(status) != g.Size() {
		return nil, fmt.Errorf("NewSurface: %d statuses for %d points: %w", len(status), g.Size(), ErrBadGrid)
	}
	s := &Surface{Grid: g, Category: cat, Object: object, Mass: mass, status: append([]Status(nil), status...)}
	for _, st := range status {
		switch st {
		case StatusFailed:
			s.Failures++
		case StatusExcluded:
			s.Excluded++
		}
	}

	return s, nil
}

// Status returns the status of row i, column j (StatusExcluded when out of range).
func (s *Surface) Status(i, j int) Status {
	if i < 0 || i >= s.Grid.YSteps || j < 0 || j >= s.Grid.XSteps {
		return StatusExcluded
	}

	return s.status[i*s.Grid.XSteps+j]
}

// Finite returns a copy of Mass with every non-OK cell set to NaN.
func (s *Surface) Finite() *matrix.Dense {
	out := s.Mass.Clone()
	for i := 0; i < s.Grid.YSteps; i++ {
		for j := 0; j < s.Grid.XSteps; j++ {
			if s.Status(i, j) != StatusOK {
				_ = out.Set(i, j, math.NaN())
			}
		}
	}

	return out
}

// Laplacian returns the four-neighbour Laplacian of the finite surface.
//
// Errors: ErrEmptySurface when no cell is OK.
func Laplacian(s *Surface) (*matrix.Dense, error) {
	fin := s.Finite()
	n, err := matrix.FiniteCount(fin)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("Laplacian(%s): %w", s.Object, ErrEmptySurface)
	}

	return matrix.Laplacian4(fin)
}

// Discontinuity is one grid point flagged by Discontinuities.
type Discontinuity struct {
	Row, Col  int
	X, Y      float64
	Laplacian float64
}

// Discontinuities returns, in row-major order, the points where
// |Δ − mean(Δ)| > k·σ(Δ) with σ the population standard deviation.
//
// Errors: ErrBadThreshold, ErrEmptySurface (no finite Laplacian value).
func Discontinuities(s *Surface, k float64) ([]Discontinuity, error) {
	if math.IsNaN(k) || math.IsInf(k, 0) || k < 0 {
		return nil, fmt.Errorf("Discontinuities(k=%g): %w", k, ErrBadThreshold)
	}
	lap, err := Laplacian(s)
	if err != nil {
		return nil, err
	}
	mean, err := matrix.FiniteMean(lap)
	if errors.Is(err, matrix.ErrNoFiniteValues) {
		return nil, fmt.Errorf("Discontinuities(%s): %w", s.Object, ErrEmptySurface)
	}
	if err != nil {
		return nil, err
	}
	sigma, err := matrix.FiniteStd(lap)
	if err != nil {
		return nil, err
	}

	var out []Discontinuity
	for i := 0; i < lap.Rows(); i++ {
		row, err := lap.Row(i)
		if err != nil {
			return nil, err
		}
		for j, v := range row {
			if math.IsNaN(v) || math.Abs(v-mean) <= k*sigma {
				continue
			}
			out = append(out, Discontinuity{Row: i, Col: j, X: s.Grid.X(j), Y: s.Grid.Y(i), Laplacian: v})
		}
	}

	return out, nil
}

// Walls groups the points of Discontinuities(s, k) into 8-connected clusters,
// ordered by their first point; points inside a wall are row-major.
//
// Errors: as Discontinuities.
func Walls(s *Surface, k float64) ([][]Discontinuity, error) {
	pts, err := Discontinuities(s, k)
	if err != nil || len(pts) == 0 {
		return nil, err
	}
	mask, err := matrix.NewDense(s.Grid.YSteps, s.Grid.XSteps)
	if err != nil {
		return nil, err
	}
	byIndex := make(map[int]Discontinuity, len(pts))
	for _, p := range pts {
		if err = mask.Set(p.Row, p.Col, 1); err != nil {
			return nil, err
		}
		byIndex[p.Row*s.Grid.XSteps+p.Col] = p
	}
	comps, err := matrix.Components(mask, func(v float64) bool { return v > 0 }, matrix.Conn8)
	if err != nil {
		return nil, err
	}

	walls := make([][]Discontinuity, len(comps))
	for w, comp := range comps {
		sort.Ints(comp)
		walls[w] = make([]Discontinuity, len(comp))
		for i, idx := range comp {
			walls[w][i] = byIndex[idx]
		}
	}

	return walls, nil
}
