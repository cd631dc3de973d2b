package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-orbits/internal/ui"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		orbits   orbitFlags
		epoch    float64
		step     float64
		samples  int
		interval time.Duration
		static   bool
		width    int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot orbits on the sky plane",
		Long: `
Draw the selected orbits on the sky plane with north up and east to the left,
and step or play them through time.

When standard output is not a terminal, or with --static, a single frame is
printed instead.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := orbits.resolve(cmd, a.cfg, true)
			if err != nil {
				return err
			}
			a.metrics.SetOrbits(len(sel))

			tracks := make([]ui.Track, len(sel))
			for i, o := range sel {
				tracks[i] = ui.Track{Name: o.Name, Elements: o.Elements}
			}

			if !cmd.Flags().Changed("samples") {
				samples = a.cfg.Plot.Samples
			}
			if !cmd.Flags().Changed("step") {
				step = a.cfg.Plot.Step
			}
			opts := ui.Options{Samples: samples, Step: step, Epoch: epoch, Interval: interval}

			isTTY := term.IsTerminal(int(os.Stdout.Fd()))
			if static || !isTTY || cmd.OutOrStdout() != os.Stdout {
				if isTTY && !cmd.Flags().Changed("width") {
					if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
						width, height = w, h
					}
				}
				return ui.RenderStatic(cmd.OutOrStdout(), tracks, opts, width, height)
			}

			// Log lines would tear the alt screen.
			a.log.SetOutput(io.Discard)
			return ui.Run(tracks, opts)
		},
	}

	orbits.register(cmd, true)
	cmd.Flags().Float64Var(&epoch, "epoch", 0, "Initial epoch [days]")
	cmd.Flags().Float64Var(&step, "step", 10, "Days per step")
	cmd.Flags().IntVar(&samples, "samples", 361, "Trace points per orbit")
	cmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "Wall time between playback steps")
	cmd.Flags().BoolVar(&static, "static", false, "Print one frame and exit")
	cmd.Flags().IntVar(&width, "width", 100, "Static frame width")
	cmd.Flags().IntVar(&height, "height", 36, "Static frame height")
	return cmd
}
