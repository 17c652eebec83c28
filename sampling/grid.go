// SPDX-License-Identifier: MIT

package sampling

import (
	"fmt"
	"math"
)

// Grid is an inclusive rectangular lattice: XSteps columns from XMin to XMax
// and YSteps rows from YMin to YMax.
type Grid struct {
	XMin   float64 `yaml:"x_min" json:"x_min"`
	XMax   float64 `yaml:"x_max" json:"x_max"`
	XSteps int     `yaml:"x_steps" json:"x_steps"`
	YMin   float64 `yaml:"y_min" json:"y_min"`
	YMax   float64 `yaml:"y_max" json:"y_max"`
	YSteps int     `yaml:"y_steps" json:"y_steps"`
}

// Validate checks finiteness, ordering and step counts.
// Errors: ErrBadGrid.
func (g Grid) Validate() error {
	for _, v := range []float64{g.XMin, g.XMax, g.YMin, g.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("grid %v: non-finite bound: %w", g, ErrBadGrid)
		}
	}
	if g.XSteps < 2 || g.YSteps < 2 {
		return fmt.Errorf("grid %v: need at least 2 steps per axis: %w", g, ErrBadGrid)
	}
	if !(g.XMax > g.XMin) || !(g.YMax > g.YMin) {
		return fmt.Errorf("grid %v: empty range: %w", g, ErrBadGrid)
	}

	return nil
}

// X returns the x coordinate of column j.
func (g Grid) X(j int) float64 {
	return g.XMin + float64(j)*(g.XMax-g.XMin)/float64(g.XSteps-1)
}

// Y returns the y coordinate of row i.
func (g Grid) Y(i int) float64 {
	return g.YMin + float64(i)*(g.YMax-g.YMin)/float64(g.YSteps-1)
}

// Size returns the number of grid points.
func (g Grid) Size() int { return g.XSteps * g.YSteps }

// String renders "[xmin, xmax]×[ymin, ymax] (nx×ny)".
func (g Grid) String() string {
	return fmt.Sprintf("[%g, %g]×[%g, %g] (%d×%d)", g.XMin, g.XMax, g.YMin, g.YMax, g.XSteps, g.YSteps)
}
