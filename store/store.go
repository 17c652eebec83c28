// SPDX-License-Identifier: MIT

// Package store - DB: schema, surface save/load and run listing.
//
// Contracts:
//   - A run and its samples are written atomically.
//   - Run ids are random (version 4) UUIDs.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/stabmass/geometry"
	"github.com/katalvlaran/stabmass/matrix"
	"github.com/katalvlaran/stabmass/sampling"
)

const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// DB wraps a SQLite connection holding sampled surfaces.
type DB struct {
	conn *sqlx.DB
}

// Run is one stored surface header.
type Run struct {
	ID        string  `db:"id"`
	CreatedAt int64   `db:"created_at"` // Unix milliseconds
	Category  string  `db:"category"`
	Object    string  `db:"object"`
	XMin      float64 `db:"x_min"`
	XMax      float64 `db:"x_max"`
	XSteps    int     `db:"x_steps"`
	YMin      float64 `db:"y_min"`
	YMax      float64 `db:"y_max"`
	YSteps    int     `db:"y_steps"`
	Failures  int     `db:"failures"`
	Excluded  int     `db:"excluded"`
}

// Created returns CreatedAt as a time.
func (r Run) Created() time.Time { return time.UnixMilli(r.CreatedAt) }

// Grid returns the sampling grid of the run.
func (r Run) Grid() sampling.Grid {
	return sampling.Grid{XMin: r.XMin, XMax: r.XMax, XSteps: r.XSteps, YMin: r.YMin, YMax: r.YMax, YSteps: r.YSteps}
}

type sample struct {
	Row    int             `db:"row_idx"`
	Col    int             `db:"col_idx"`
	Mass   sql.NullFloat64 `db:"mass"`
	Status int             `db:"status"`
}

// Open opens or creates a SQLite database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		category TEXT NOT NULL,
		object TEXT NOT NULL,
		x_min REAL NOT NULL,
		x_max REAL NOT NULL,
		x_steps INTEGER NOT NULL,
		y_min REAL NOT NULL,
		y_max REAL NOT NULL,
		y_steps INTEGER NOT NULL,
		failures INTEGER NOT NULL,
		excluded INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		row_idx INTEGER NOT NULL,
		col_idx INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		mass REAL,
		status INTEGER NOT NULL,
		PRIMARY KEY (run_id, row_idx, col_idx)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSurface writes s as a new run and returns its id.
func (db *DB) SaveSurface(ctx context.Context, s *sampling.Surface) (uuid.UUID, error) {
	if s == nil || s.Mass == nil {
		return uuid.Nil, ErrNilSurface
	}
	id := uuid.New()
	g := s.Grid
	run := Run{
		ID:        id.String(),
		CreatedAt: time.Now().UnixMilli(),
		Category:  s.Category.String(),
		Object:    s.Object,
		XMin:      g.XMin,
		XMax:      g.XMax,
		XSteps:    g.XSteps,
		YMin:      g.YMin,
		YMax:      g.YMax,
		YSteps:    g.YSteps,
		Failures:  s.Failures,
		Excluded:  s.Excluded,
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, `INSERT INTO runs
		(id, created_at, category, object, x_min, x_max, x_steps, y_min, y_max, y_steps, failures, excluded)
		VALUES (:id, :created_at, :category, :object, :x_min, :x_max, :x_steps, :y_min, :y_max, :y_steps, :failures, :excluded)`,
		run); err != nil {
		return uuid.Nil, fmt.Errorf("insert run %s: %w", id, err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO samples
		(run_id, row_idx, col_idx, x, y, mass, status) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, err
	}
	defer stmt.Close()

	for i := 0; i < g.YSteps; i++ {
		row, err := s.Mass.Row(i)
		if err != nil {
			return uuid.Nil, err
		}
		for j, v := range row {
			mass := sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
			if _, err := stmt.ExecContext(ctx, run.ID, i, j, g.X(j), g.Y(i), mass, int(s.Status(i, j))); err != nil {
				return uuid.Nil, fmt.Errorf("insert sample (%d, %d): %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// Run returns the header of one run.
func (db *DB) Run(ctx context.Context, id uuid.UUID) (Run, error) {
	var r Run
	err := db.conn.GetContext(ctx, &r, "SELECT * FROM runs WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}

	return r, err
}

// LoadSurface rebuilds the surface stored under id.
func (db *DB) LoadSurface(ctx context.Context, id uuid.UUID) (*sampling.Surface, error) {
	run, err := db.Run(ctx, id)
	if err != nil {
		return nil, err
	}
	cat, err := geometry.ParseCategory(run.Category)
	if err != nil {
		return nil, fmt.Errorf("run %s: %v: %w", id, err, ErrCorruptRun)
	}
	g := run.Grid()

	var rows []sample
	if err := db.conn.SelectContext(ctx, &rows,
		"SELECT row_idx, col_idx, mass, status FROM samples WHERE run_id = ? ORDER BY row_idx, col_idx",
		run.ID); err != nil {
		return nil, err
	}
	if len(rows) != g.Size() {
		return nil, fmt.Errorf("run %s: %d samples for %d points: %w", id, len(rows), g.Size(), ErrCorruptRun)
	}

	mass, err := matrix.NewDense(g.YSteps, g.XSteps)
	if err != nil {
		return nil, err
	}
	status := make([]sampling.Status, g.Size())
	for _, r := range rows {
		v := math.NaN()
		if r.Mass.Valid {
			v = r.Mass.Float64
		}
		if err := mass.Set(r.Row, r.Col, v); err != nil {
			return nil, fmt.Errorf("run %s: %v: %w", id, err, ErrCorruptRun)
		}
		status[r.Row*g.XSteps+r.Col] = sampling.Status(r.Status)
	}

	return sampling.NewSurface(g, cat, run.Object, mass, status)
}

// Runs returns the most recent runs, newest first. limit ≤ 0 means all.
func (db *DB) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	var runs []Run
	err := db.conn.SelectContext(ctx, &runs,
		"SELECT * FROM runs ORDER BY created_at DESC, id LIMIT ?", limit)

	return runs, err
}

// DeleteRun removes a run and its samples.
func (db *DB) DeleteRun(ctx context.Context, id uuid.UUID) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM samples WHERE run_id = ?", id.String()); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id.String())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}

	return tx.Commit()
}
