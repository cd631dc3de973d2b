// Package export renders evaluated orbits as JSON documents and text tables.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-orbits/kepler"
)

// EphemerisExport is the JSON-serializable representation of one orbit
// evaluated over a set of epochs.
type EphemerisExport struct {
	Name        string         `json:"name"`
	GeneratedAt time.Time      `json:"generated_at"`
	Elements    ElementsExport `json:"elements"`
	Samples     []SampleExport `json:"samples"`
}

// ElementsExport holds orbital elements with angles in degrees.
type ElementsExport struct {
	A          float64 `json:"a_au"`
	E          float64 `json:"e"`
	I          float64 `json:"i_deg"`
	ArgPeri    float64 `json:"omega_deg"`
	Node       float64 `json:"node_deg"`
	Tau        float64 `json:"tau"`
	M          float64 `json:"mass_msun"`
	Plx        float64 `json:"plx_mas"`
	Period     float64 `json:"period_days"`
	Distance   float64 `json:"distance_pc"`
	MeanMotion float64 `json:"mean_motion_rad_yr"`
}

// SampleExport is one evaluated epoch.
type SampleExport struct {
	T      float64 `json:"t_days"`
	RA     float64 `json:"ra_mas"`
	Dec    float64 `json:"dec_mas"`
	Sep    float64 `json:"sep_mas"`
	PA     float64 `json:"pa_deg"`
	PMRA   float64 `json:"pmra_mas_yr"`
	PMDec  float64 `json:"pmdec_mas_yr"`
	RV     float64 `json:"rv_m_s"`
	AccRA  float64 `json:"accra_mas_yr2"`
	AccDec float64 `json:"accdec_mas_yr2"`
}

// ExportElements converts el to its exportable form.
func ExportElements(el kepler.Elements[float64]) ElementsExport {
	p := el.Params()
	return ElementsExport{
		A:          p.A,
		E:          p.E,
		I:          unit.Angle(p.I).Deg(),
		ArgPeri:    unit.Angle(p.ArgPeri).Deg(),
		Node:       unit.Angle(p.Node).Deg(),
		Tau:        p.Tau,
		M:          p.M,
		Plx:        p.Plx,
		Period:     el.Period(),
		Distance:   el.Distance(),
		MeanMotion: el.MeanMotion(),
	}
}

// ExportSample converts a solution at epoch t [days].
func ExportSample(t float64, sol kepler.Solution[float64]) SampleExport {
	return SampleExport{
		T:      t,
		RA:     sol.RAOffset(),
		Dec:    sol.DecOffset(),
		Sep:    sol.ProjectedSeparation(),
		PA:     positionAngleDeg(sol),
		PMRA:   sol.VX,
		PMDec:  sol.VY,
		RV:     sol.RadialVelocity(),
		AccRA:  sol.AX,
		AccDec: sol.AY,
	}
}

// ExportEphemeris builds an export from solutions evaluated at times.
func ExportEphemeris(name string, el kepler.Elements[float64], times []float64, sols []kepler.Solution[float64], generatedAt time.Time) *EphemerisExport {
	export := &EphemerisExport{
		Name:        name,
		GeneratedAt: generatedAt,
		Elements:    ExportElements(el),
	}
	for i, sol := range sols {
		if i >= len(times) {
			break
		}
		export.Samples = append(export.Samples, ExportSample(times[i], sol))
	}
	return export
}

// WriteJSON writes the ephemeris as JSON to the given writer.
func (e *EphemerisExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// SampleTimes returns n epochs spanning [start, end] inclusive.
func SampleTimes(start, end float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, end)
}

// WriteTable writes a text table of the ephemeris to the given writer.
func (e *EphemerisExport) WriteTable(w io.Writer) {
	fmt.Fprintf(w, "%s  (P = %.2f d, d = %.2f pc)\n", e.Name, e.Elements.Period, e.Elements.Distance)
	fmt.Fprintln(w, strings.Repeat("─", 86))

	if len(e.Samples) == 0 {
		fmt.Fprintln(w, "No samples")
		return
	}

	fmt.Fprintf(w, "%12s %10s %10s %10s %8s %10s %10s %10s\n",
		"t [d]", "ΔRA", "ΔDec", "Sep", "PA [°]", "μRA", "μDec", "RV [m/s]")
	fmt.Fprintln(w, strings.Repeat("─", 86))

	for _, s := range e.Samples {
		fmt.Fprintf(w, "%12.3f %10.3f %10.3f %10.3f %8.2f %10.3f %10.3f %10.2f\n",
			s.T, s.RA, s.Dec, s.Sep, s.PA, s.PMRA, s.PMDec, s.RV)
	}

	fmt.Fprintf(w, "\nTotal: %d samples\n", len(e.Samples))
}

// positionAngleDeg returns the position angle in [0°, 360°).
func positionAngleDeg(sol kepler.Solution[float64]) float64 {
	return unit.Angle(sol.PositionAngle()).Mod1().Deg()
}
