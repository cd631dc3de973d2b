package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-orbits/kepler"
)

func newSolveCmd(a *app) *cobra.Command {
	var (
		orbits      orbitFlags
		t           float64
		nu          float64
		nuDeg       bool
		mSecondary  float64
		showElement bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Evaluate an orbit at one epoch or true anomaly",
		Long: `
Evaluate an orbit at time --t [days] or, with --nu, at a true anomaly.

With --secondary-mass the reflex motion of the primary is printed as well.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := orbits.resolve(cmd, a.cfg, false)
			if err != nil {
				return err
			}
			o := sel[0]

			var sol kepler.Solution[float64]
			if cmd.Flags().Changed("nu") {
				v := nu
				if nuDeg {
					v = unit.AngleFromDeg(nu).Rad()
				}
				sol, err = kepler.SolveTrueAnomaly(o.Elements, v)
				if err != nil {
					return err
				}
			} else {
				sol, err = kepler.Solve(o.Elements, t)
				if err != nil {
					return err
				}
			}
			a.log.Debug("Solved %s: E=%.6f ν=%.6f", o.Name, sol.EA, sol.Nu)

			w := cmd.OutOrStdout()
			if showElement {
				fmt.Fprintf(w, "%s: %s\n", o.Name, o.Elements)
				fmt.Fprintf(w, "period %.4f d, distance %.4f pc, mean motion %.6f rad/yr\n\n",
					o.Elements.Period(), o.Elements.Distance(), o.Elements.MeanMotion())
			}
			if err := writeSolution(w, "secondary", sol); err != nil {
				return err
			}
			if mSecondary > 0 {
				fmt.Fprintln(w)
				return writeSolution(w, "primary (reflex)", sol.Reflex(mSecondary))
			}
			return nil
		},
	}

	orbits.register(cmd, false)
	cmd.Flags().Float64Var(&t, "t", 0, "Epoch [days]")
	cmd.Flags().Float64Var(&nu, "nu", 0, "True anomaly (overrides --t)")
	cmd.Flags().BoolVar(&nuDeg, "nu-deg", false, "--nu is in degrees")
	cmd.Flags().Float64Var(&mSecondary, "secondary-mass", 0, "Secondary mass [M☉] for reflex motion")
	cmd.Flags().BoolVar(&showElement, "elements", false, "Print the elements and derived quantities")
	return cmd
}

func writeSolution(w io.Writer, title string, sol kepler.Solution[float64]) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", title)
	fmt.Fprintf(tw, "  ΔRA\t%.4f mas\n", sol.RAOffset())
	fmt.Fprintf(tw, "  ΔDec\t%.4f mas\n", sol.DecOffset())
	fmt.Fprintf(tw, "  separation\t%.4f mas\n", sol.ProjectedSeparation())
	fmt.Fprintf(tw, "  position angle\t%.4f°\n", unit.Angle(sol.PositionAngle()).Mod1().Deg())
	fmt.Fprintf(tw, "  proper motion\t%.4f mas/yr (%.4f, %.4f)\n", sol.ProperMotionAnomaly(), sol.VX, sol.VY)
	fmt.Fprintf(tw, "  radial velocity\t%.4f m/s\n", sol.RadialVelocity())
	fmt.Fprintf(tw, "  acceleration\t%.4f mas/yr² (%.4f, %.4f)\n", sol.Acceleration(), sol.AX, sol.AY)
	fmt.Fprintf(tw, "  true anomaly\t%.6f rad\n", sol.Nu)
	fmt.Fprintf(tw, "  eccentric anomaly\t%.6f rad\n", sol.EA)
	return tw.Flush()
}
