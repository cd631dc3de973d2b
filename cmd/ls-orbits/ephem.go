package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-orbits/internal/ephem"
	"github.com/litescript/ls-orbits/internal/export"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/telemetry"
)

func newEphemCmd(a *app) *cobra.Command {
	var (
		orbits     orbitFlags
		start, end float64
		n          int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "ephem",
		Short: "Tabulate orbits over a time range",
		Long: `
Evaluate each selected orbit at --n epochs spanning [--start, --end] days and
print a table, or JSON with --json.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("--n must be at least 1, got %d", n)
			}
			sel, err := orbits.resolve(cmd, a.cfg, true)
			if err != nil {
				return err
			}
			a.metrics.SetOrbits(len(sel))

			provider := ephem.NewKeplerProvider(a.workers)
			for _, o := range sel {
				provider.Add(o.Name, o.Elements)
			}

			w := cmd.OutOrStdout()
			for i, o := range sel {
				ctx, span := telemetry.StartBatch(cmd.Context(), "ephem", o.Name, n)
				began := time.Now()
				path, err := provider.Path(ctx, o.Name, start, end, n)
				failed := 0
				if err != nil {
					failed = 1
				}
				a.metrics.ObserveBatch(metrics.OpSolve, n, failed, time.Since(began))
				telemetry.EndBatch(span, failed, err)
				if err != nil {
					return err
				}
				a.log.Debug("%s: evaluated %s at %d epochs in %v", provider.Name(), o.Name, n, time.Since(began))

				doc := export.ExportEphemeris(o.Name, o.Elements, path.Times, path.Solutions, time.Now().UTC())
				if asJSON {
					if err := doc.WriteJSON(w); err != nil {
						return err
					}
					continue
				}
				if i > 0 {
					fmt.Fprintln(w)
				}
				doc.WriteTable(w)
			}
			return nil
		},
	}

	orbits.register(cmd, true)
	cmd.Flags().Float64Var(&start, "start", 0, "First epoch [days]")
	cmd.Flags().Float64Var(&end, "end", 365.25, "Last epoch [days]")
	cmd.Flags().IntVar(&n, "n", 13, "Number of epochs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of a table")
	return cmd
}
