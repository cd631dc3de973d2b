package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/litescript/ls-orbits/internal/config"
	"github.com/litescript/ls-orbits/kepler"
)

// namedOrbit is a validated element set with its display name.
type namedOrbit struct {
	Name     string
	Elements kepler.Elements[float64]
}

// orbitFlags selects orbits either by name from the config file or from
// inline element flags.
type orbitFlags struct {
	names  []string
	inline config.Orbit
}

func (f *orbitFlags) register(cmd *cobra.Command, multi bool) {
	fs := cmd.Flags()
	if multi {
		fs.StringSliceVar(&f.names, "orbit", nil, "Orbit names from --config (default: all)")
	} else {
		fs.StringSliceVar(&f.names, "orbit", nil, "Orbit name from --config (default: first)")
	}
	registerElementFlags(fs, &f.inline.E, &f.inline.I, &f.inline.Omega, &f.inline.Node, &f.inline.Mass, &f.inline.Plx, &f.inline.Degrees)
	fs.Float64Var(&f.inline.A, "a", 0, "Semi-major axis [AU]")
	fs.Float64Var(&f.inline.Tau, "tau", 0, "Epoch of periastron as a fraction of the period after t=0")
}

// registerElementFlags adds the element flags shared by orbits and transforms.
func registerElementFlags(fs *pflag.FlagSet, e, i, omega, node, mass, plx *float64, deg *bool) {
	fs.Float64Var(e, "e", 0, "Eccentricity")
	fs.Float64Var(i, "i", 0, "Inclination")
	fs.Float64Var(omega, "omega", 0, "Argument of periastron")
	fs.Float64Var(node, "node", 0, "Longitude of the ascending node")
	fs.Float64Var(mass, "mass", 1, "Primary mass [M☉]")
	fs.Float64Var(plx, "plx", 0, "Parallax [mas]")
	fs.BoolVar(deg, "deg", false, "Angles are in degrees")
}

// inlineSet reports whether any inline element flag was given.
func inlineSet(cmd *cobra.Command) bool {
	for _, name := range []string{"a", "e", "i", "omega", "node", "tau", "mass", "plx"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// resolve returns the selected orbits. With multi unset only the first
// match is returned.
func (f *orbitFlags) resolve(cmd *cobra.Command, cfg *config.Config, multi bool) ([]namedOrbit, error) {
	if inlineSet(cmd) {
		if len(f.names) > 0 {
			return nil, fmt.Errorf("use either --orbit or inline element flags, not both")
		}
		o := f.inline
		o.Name = "orbit"
		el, err := o.Elements()
		if err != nil {
			return nil, err
		}
		return []namedOrbit{{Name: o.Name, Elements: el}}, nil
	}

	var selected []config.Orbit
	if len(f.names) == 0 {
		selected = cfg.Orbits
	} else {
		for _, name := range f.names {
			o, err := cfg.Orbit(name)
			if err != nil {
				return nil, err
			}
			selected = append(selected, o)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no orbit given: pass element flags or --config")
	}
	if !multi {
		selected = selected[:1]
	}

	out := make([]namedOrbit, 0, len(selected))
	for _, o := range selected {
		el, err := o.Elements()
		if err != nil {
			return nil, fmt.Errorf("orbit %q: %w", o.Name, err)
		}
		out = append(out, namedOrbit{Name: o.Name, Elements: el})
	}
	return out, nil
}
