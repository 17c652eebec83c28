// SPDX-License-Identifier: MIT

package geometry

import (
	"errors"
	"strings"

	"github.com/katalvlaran/stabmass/chern"
)

// Option configures NewContext.
type Option func(*options)

type options struct {
	polarization string // divisor expression; "" selects the first basis symbol
}

// WithPolarization selects the ample class H as a divisor expression such as "H" or "2a + b".
// Panics on an empty expression (programmer error).
func WithPolarization(expr string) Option {
	if strings.TrimSpace(expr) == "" {
		panic("geometry: WithPolarization requires a non-empty expression")
	}

	return func(o *options) { o.polarization = expr }
}

func gatherOptions(user ...Option) options {
	var o options
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

func isUnknownSymbol(err error) bool { return errors.Is(err, chern.ErrUnknownSymbol) }
