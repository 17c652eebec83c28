// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/stabmass/exceptional"
	"github.com/katalvlaran/stabmass/rhom"
	"github.com/katalvlaran/stabmass/sampling"
	"github.com/katalvlaran/stabmass/stability"
)

func formatCharge(z complex128) string {
	return fmt.Sprintf("%.6f%+.6fi", real(z), imag(z))
}

func massCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mass <object>",
		Short: "Print the central charge, phase and mass of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := a.object(args[0])
			if err != nil {
				return err
			}
			c, err := a.condition()
			if err != nil {
				return err
			}
			z, err := c.CentralCharge(obj)
			if err != nil {
				return err
			}
			m, err := c.Mass(obj)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "object    %s\n", obj)
			fmt.Fprintf(out, "condition %s\n", c)
			fmt.Fprintf(out, "Z         %s\n", formatCharge(z))
			phi, err := c.Phase(obj)
			switch {
			case err == nil:
				fmt.Fprintf(out, "phase     %.6f\n", phi)
			case errors.Is(err, stability.ErrUnstable):
				fmt.Fprintf(out, "phase     unstable\n")
			default:
				return err
			}
			fmt.Fprintf(out, "mass      %.6f\n", m)

			return nil
		},
	}
}

func hnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hn <object>",
		Short: "Print the Harder–Narasimhan filtration of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := a.object(args[0])
			if err != nil {
				return err
			}
			c, err := a.condition()
			if err != nil {
				return err
			}
			f, err := c.HarderNarasimhan(obj)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PHASE\tMULT\tFACTOR")
			for _, x := range f.Factors() {
				fmt.Fprintf(w, "%.6f\t%d\t%s\n", x.Phase, x.Multiplicity, x.Object)
			}
			return w.Flush()
		},
	}
}

func rhomCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rhom <a> <b>",
		Short: "Print the graded dimensions of RHom(a, b)",
		Long: `Prints RHom(a, b) as {j:d_j, ...}, where d_j is the dimension of the
summand C^{d_j}[j], together with the Euler characteristic.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.object(args[0])
			if err != nil {
				return err
			}
			y, err := a.object(args[1])
			if err != nil {
				return err
			}
			d, err := rhom.Shared().RHom(x, y)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nchi %d\n", d, d.Euler())

			return nil
		},
	}
}

func sampleCmd(a *app) *cobra.Command {
	var (
		object  string
		noStore bool
		show    bool
		k       float64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Sample a mass surface over the job grid and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if object == "" {
				object = a.cfg.Sampling.Object
			}
			if object == "" {
				return errors.New("no object: set sampling.object or pass --object")
			}
			obj, err := a.object(object)
			if err != nil {
				return err
			}
			s, err := a.cfg.Sampler(a.geo, a.logger)
			if err != nil {
				return err
			}
			surf, err := s.Sample(cmd.Context(), obj, a.cfg.Sampling.Grid)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "grid      %s\nfailures  %d\nexcluded  %d\n", surf.Grid, surf.Failures, surf.Excluded)
			if show {
				fmt.Fprint(out, surf.Mass)
			}
			if k > 0 {
				if err := printDiscontinuities(out, surf, k); err != nil {
					return err
				}
			}
			if noStore {
				return nil
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			id, err := db.SaveSurface(cmd.Context(), surf)
			if err != nil {
				return err
			}
			a.logger.Info("surface stored", slog.String("run", id.String()), slog.String("db", a.cfg.Store.Path))
			fmt.Fprintf(out, "run       %s\n", id)

			return nil
		},
	}

	cmd.Flags().StringVar(&object, "object", "", "Object to sample (default: sampling.object)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not write the surface to the database")
	cmd.Flags().BoolVar(&show, "print", false, "Print the mass matrix")
	cmd.Flags().Float64Var(&k, "discontinuities", 0, "Report points with |Δ − mean| > k·σ (0 disables)")

	return cmd
}

func printDiscontinuities(out io.Writer, surf *sampling.Surface, k float64) error {
	pts, err := sampling.Discontinuities(surf, k)
	if err != nil {
		return err
	}
	walls, err := sampling.Walls(surf, k)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "discontinuities (k=%g): %d in %d walls\n", k, len(pts), len(walls))
	for w, wall := range walls {
		for _, p := range wall {
			fmt.Fprintf(out, "  wall %d (%g, %g) Δ=%.6f\n", w, p.X, p.Y, p.Laplacian)
		}
	}

	return nil
}

func curveCmd(a *app) *cobra.Command {
	var (
		lo, hi  int64
		depth   int
		triples bool
	)

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the exceptional boundary curve of the projective plane",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := exceptional.NewCurve(a.geo, lo, hi, depth)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if triples {
				fmt.Fprintln(w, "LABEL\tCH\tPLUS\tLEFT\tRIGHT")
				for _, t := range c.Triples() {
					fmt.Fprintf(w, "%s\t%s\t(%g, %g)\t(%g, %g)\t(%g, %g)\n",
						t.Label.RatString(), t.Character,
						t.Plus.X, t.Plus.Y, t.Left.X, t.Left.Y, t.Right.X, t.Right.Y)
				}
				return w.Flush()
			}
			fmt.Fprintln(w, "X\tY")
			for _, p := range c.Points() {
				fmt.Fprintf(w, "%g\t%g\n", p.X, p.Y)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&lo, "lo", 0, "Smallest integer label")
	cmd.Flags().Int64Var(&hi, "hi", 1, "Largest integer label")
	cmd.Flags().IntVar(&depth, "depth", sampling.DefaultCurveDepth, "Dyadic depth")
	cmd.Flags().BoolVar(&triples, "triples", false, "Print one row per exceptional bundle")

	return cmd
}

func runsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored sampling runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			runs, err := db.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tCATEGORY\tOBJECT\tGRID\tFAILED\tEXCLUDED")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					r.ID, r.Created().UTC().Format("2006-01-02T15:04:05Z"), r.Category, r.Object, r.Grid(), r.Failures, r.Excluded)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs (0 lists all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("run id: %w", err)
			}
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			surf, err := db.LoadSurface(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %s over %s\n", surf.Object, surf.Category, surf.Grid)
			fmt.Fprint(out, surf.Mass)

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("run id: %w", err)
			}
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			return db.DeleteRun(cmd.Context(), id)
		},
	})

	return cmd
}
