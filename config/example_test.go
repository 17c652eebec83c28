package config_test

import (
	"fmt"

	"github.com/katalvlaran/stabmass/config"
)

// ExampleConfig_Object builds the default local P2 job and reads off the mass
// of its coproduct O(-3H)[1] ⊕ O(-2H)[2].
func ExampleConfig_Object() {
	cfg := config.DefaultConfig()
	geo, _ := cfg.Context()
	c, _ := cfg.Condition(geo)
	obj, _ := cfg.Object(geo, cfg.Sampling.Object)
	m, _ := c.Mass(obj)
	fmt.Printf("%s\nmass %.6f\n", c, m)
	// Output:
	// Stab(LocalP2; s=0.5, q=0.9)
	// mass 7.752256
}
