// Package config describes a stabmass job in YAML: the geometry, one
// stability condition, a list of named derived objects, a sampling run and
// the database that stores its results.
//
// 🚀 A minimal job:
//
//	geometry:
//	  category: LocalP2
//	stability:
//	  params: [0.5, 0.9]
//	objects:
//	  - {name: a, kind: line_bundle, divisor: -3H}
//	  - {name: b, kind: line_bundle, divisor: -2H}
//	  - name: sum
//	    kind: coproduct
//	    terms: [{object: a, shift: 1}, {object: b, shift: 2}]
//	sampling:
//	  object: sum
//	  grid: {x_min: -1, x_max: 1, x_steps: 21, y_min: 0, y_max: 2, y_steps: 21}
//	store:
//	  path: stabmass.db
//
// ✨ Key features:
//   - Canned geometries by category (K3 by degree) or an explicit basis
//     with a rational intersection table and polarization.
//   - Object kinds: line_bundle, twist, coproduct, numerical, sheaf.
//     Coproduct terms reference objects defined earlier in the list.
//   - Validate checks structure only; Context, Condition, BuildObjects and
//     Sampler turn the job into engine values.
//
// ⚠️ LoadFromFile starts from DefaultConfig but clears its objects, so a
// file that defines none gets none.
package config
