// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"
	"strings"
)

// Category tags the variety (or its local Calabi–Yau completion).
type Category int

const (
	// P1 is the projective line.
	P1 Category = iota + 1
	// LocalP1 is the total space of 𝒪(-2) over the projective line.
	LocalP1
	// P2 is the projective plane.
	P2
	// LocalP2 is the total space of the canonical bundle over the projective plane.
	LocalP2
	// K3 is a polarized K3 surface of arbitrary Picard rank.
	K3
)

var categoryNames = map[Category]string{
	P1:      "P1",
	LocalP1: "LocalP1",
	P2:      "P2",
	LocalP2: "LocalP2",
	K3:      "K3",
}

// String returns the canonical tag name.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}

	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a tag name (case-insensitive) to its Category.
// Errors: ErrUnknownCategory.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return c, nil
		}
	}

	return 0, fmt.Errorf("ParseCategory(%q): %w", s, ErrUnknownCategory)
}

// VarietyDimension is the dimension n the intersection form must have.
func (c Category) VarietyDimension() int {
	switch c {
	case P1, LocalP1:
		return 1
	default:
		return 2
	}
}

// CalabiYauDimension is the Serre-duality shift of the category in which
// Ext groups are computed: the local (CY) completions of P1 and P2, and K3 itself.
func (c Category) CalabiYauDimension() int {
	switch c {
	case P2, LocalP2:
		return 3
	default:
		return 2
	}
}

// IsProjectiveLine reports P1 or LocalP1.
func (c Category) IsProjectiveLine() bool { return c == P1 || c == LocalP1 }

// IsProjectivePlane reports P2 or LocalP2.
func (c Category) IsProjectivePlane() bool { return c == P2 || c == LocalP2 }
