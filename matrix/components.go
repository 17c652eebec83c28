// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Connected regions of the cells of a Dense selected by a predicate.
//
// Contracts:
//   - Components are listed in order of their first row-major cell; cells
//     inside a component are in BFS order from that cell.
//   - Indices are row-major (i*Cols + j).

package matrix

// Connectivity selects neighbour adjacency for Components.
type Connectivity int

const (
	// Conn4 joins orthogonal neighbours: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 also joins diagonal neighbours.
	Conn8
)

func (c Connectivity) offsets() [][2]int {
	if c == Conn8 {
		return [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	}

	return [][2]int{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
}

// Components returns the connected regions of cells whose value satisfies keep.
// Errors: ErrNilMatrix.
// Complexity: O(r*c*d), d = 4 or 8.
func Components(m *Dense, keep func(v float64) bool, conn Connectivity) ([][]int, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("Components", err)
	}
	seen := make([]bool, len(m.data))
	offsets := conn.offsets()
	var comps [][]int

	for i0 := range m.data {
		if seen[i0] || !keep(m.data[i0]) {
			continue
		}
		queue := []int{i0}
		seen[i0] = true
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			ur, uc := u/m.c, u%m.c
			for _, d := range offsets {
				vr, vc := ur+d[0], uc+d[1]
				if vr < 0 || vr >= m.r || vc < 0 || vc >= m.c {
					continue
				}
				v := vr*m.c + vc
				if !seen[v] && keep(m.data[v]) {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		comps = append(comps, queue)
	}

	return comps, nil
}
