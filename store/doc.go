// Package store persists sampled mass surfaces in SQLite.
//
// 🚀 What is stored?
//
//	runs:    one row per Surface (uuid id, creation time, category, object,
//	         grid bounds, failure and exclusion counts).
//	samples: one row per grid point (row, col, x, y, mass, status).
//
// ✨ Key features:
//   - Open creates the schema on first use (WAL journal, 5s busy timeout).
//   - SaveSurface writes a run and its samples in one transaction.
//   - LoadSurface rebuilds a sampling.Surface, NaN masses included.
//   - Runs lists recent runs; DeleteRun removes one with its samples.
//
// ⚠️ SQLite has no NaN: excluded points are stored as NULL mass and read
// back as NaN.
//
// ⚙️ Usage:
//
//	db, _ := store.Open("stabmass.db")
//	defer db.Close()
//	id, _ := db.SaveSurface(ctx, surf)
//	back, _ := db.LoadSurface(ctx, id)
package store
