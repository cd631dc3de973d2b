package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-orbits/internal/config"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/telemetry"
	"github.com/litescript/ls-orbits/kepler"
	"github.com/litescript/ls-orbits/warp"
)

func newWarpCmd(a *app) *cobra.Command {
	var (
		tf      config.Transform
		semiMaj float64
		tau     float64
		inverse bool
		gridW   int
		gridH   int
		center  []float64
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "warp [x y]...",
		Short: "Move pixels along their orbits",
		Long: `
Map pixel coordinates, measured from the primary with x along right ascension
and y along declination, to where material on a Keplerian orbit through that
pixel lies --dt days later. Every orbit shares e, i, ω, Ω and the mass; the
semi-major axis and periastron epoch are solved per pixel, so --a and --tau
are rejected.

Pass pixel pairs as arguments, or --grid WxH to map a whole image whose
primary sits at --center. Put -- before pixel pairs with negative values.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args)%2 != 0 {
				return fmt.Errorf("pixel coordinates come in x y pairs, got %d values", len(args))
			}

			wc := tf.WarpConfig()
			if !anyChanged(cmd, "e", "i", "omega", "node", "mass", "plx", "deg", "platescale", "dt") && a.cfg.HasTransform() {
				wc = a.cfg.Transform.WarpConfig()
			}
			if cmd.Flags().Changed("a") {
				wc.A = &semiMaj
			}
			if cmd.Flags().Changed("tau") {
				wc.Tau = &tau
			}

			tr, err := warp.New(wc)
			if err != nil {
				return err
			}
			if inverse {
				tr = tr.Inverse()
			}

			if gridW > 0 || gridH > 0 {
				return a.warpGrid(cmd, tr, gridW, gridH, center, asJSON)
			}
			return a.warpPixels(cmd, tr, args)
		},
	}

	fs := cmd.Flags()
	registerElementFlags(fs, &tf.E, &tf.I, &tf.Omega, &tf.Node, &tf.Mass, &tf.Plx, &tf.Degrees)
	fs.Float64Var(&tf.Platescale, "platescale", 0, "Plate scale [mas/pixel]")
	fs.Float64Var(&tf.DT, "dt", 0, "Time step [days]")
	fs.Float64Var(&semiMaj, "a", 0, "Not allowed: solved per pixel")
	fs.Float64Var(&tau, "tau", 0, "Not allowed: solved per pixel")
	fs.BoolVar(&inverse, "inverse", false, "Apply the inverse transform (-dt)")
	fs.IntVar(&gridW, "grid-width", 0, "Map a whole image of this width")
	fs.IntVar(&gridH, "grid-height", 0, "Map a whole image of this height")
	fs.Float64SliceVar(&center, "center", nil, "Primary pixel position cx,cy (default image center)")
	fs.BoolVar(&asJSON, "json", false, "Write the mapped grid as JSON")
	return cmd
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (a *app) warpPixels(cmd *cobra.Command, tr *warp.Transform, args []string) error {
	w := cmd.OutOrStdout()
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return fmt.Errorf("parse x %q: %w", args[i], err)
		}
		y, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return fmt.Errorf("parse y %q: %w", args[i+1], err)
		}

		began := time.Now()
		wx, wy, el, err := tr.Follow(x, y)
		failed := 0
		if err != nil {
			failed = 1
		}
		a.metrics.ObserveBatch(metrics.OpWarp, 1, failed, time.Since(began))
		if err != nil {
			fmt.Fprintf(w, "%g %g -> error: %v\n", x, y, err)
			a.log.Warn("Pixel (%g, %g): %v", x, y, err)
			continue
		}

		p := el.Params()
		fmt.Fprintf(w, "%g %g -> %.6f %.6f  (a=%.4g AU, τ=%.4f, ν₀=%.2f°)\n",
			x, y, wx, wy, p.A, p.Tau, initialAnomaly(el))
	}
	return nil
}

// initialAnomaly returns the true anomaly at t = 0 in degrees.
func initialAnomaly(el kepler.Elements[float64]) float64 {
	sol, err := kepler.Solve(el, 0.0)
	if err != nil {
		return 0
	}
	return unit.Angle(sol.Nu).Mod1().Deg()
}

type gridExport struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Failed int         `json:"failed"`
	X      []jsonFloat `json:"x"`
	Y      []jsonFloat `json:"y"`
}

// jsonFloat encodes NaN as null.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	if f != f {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

func (a *app) warpGrid(cmd *cobra.Command, tr *warp.Transform, width, height int, center []float64, asJSON bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", width, height)
	}
	cx, cy := float64(width-1)/2, float64(height-1)/2
	switch len(center) {
	case 0:
	case 2:
		cx, cy = center[0], center[1]
	default:
		return fmt.Errorf("--center takes cx,cy, got %v", center)
	}

	ctx, span := telemetry.StartBatch(cmd.Context(), "warp", "grid", width*height)
	began := time.Now()
	g, err := warp.MapGrid(ctx, tr, width, height, cx, cy, a.workers)
	a.metrics.ObserveBatch(metrics.OpWarp, width*height, g.Failed, time.Since(began))
	telemetry.EndBatch(span, g.Failed, err)
	if err != nil {
		return err
	}
	a.log.Info("Mapped %dx%d grid in %v (%d pixels outside domain)", width, height, time.Since(began), g.Failed)

	w := cmd.OutOrStdout()
	if asJSON {
		out := gridExport{Width: g.Width, Height: g.Height, Failed: g.Failed}
		for i := range g.X {
			out.X = append(out.X, jsonFloat(g.X[i]))
			out.Y = append(out.Y, jsonFloat(g.Y[i]))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	_, err = fmt.Fprintf(w, "%dx%d grid, primary at (%g, %g): %d mapped, %d outside domain\n",
		width, height, cx, cy, width*height-g.Failed, g.Failed)
	return err
}
