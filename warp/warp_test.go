package warp

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-orbits/kepler"
)

func baseConfig() Config {
	return Config{
		I: 0.5, E: 0.3, ArgPeri: 0.7, Node: 1.1, M: 1, Plx: 50,
		Platescale: 10, DT: 365,
	}
}

func mustTransform(t *testing.T, cfg Config) *Transform {
	t.Helper()
	tr, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return tr
}

func TestNewInvalid(t *testing.T) {
	a, tau := 2.0, 0.5

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"semi-major axis given", func(c *Config) { c.A = &a }},
		{"epoch given", func(c *Config) { c.Tau = &tau }},
		{"zero platescale", func(c *Config) { c.Platescale = 0 }},
		{"negative platescale", func(c *Config) { c.Platescale = -3 }},
		{"NaN platescale", func(c *Config) { c.Platescale = math.NaN() }},
		{"infinite time step", func(c *Config) { c.DT = math.Inf(1) }},
		{"parabolic", func(c *Config) { c.E = 1 }},
		{"zero parallax", func(c *Config) { c.Plx = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.modify(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidTransform) {
				t.Errorf("New() error = %v, want ErrInvalidTransform", err)
			}
		})
	}

	cfg := baseConfig()
	cfg.Plx = 0
	if _, err := New(cfg); !errors.Is(err, kepler.ErrInvalidElements) {
		t.Errorf("New() error = %v, want it to wrap ErrInvalidElements", err)
	}
}

func TestApplyQuarterTurn(t *testing.T) {
	// Face-on circular orbits, 1 px = 1 AU. A pixel due north moves due east
	// after a quarter period.
	tr := mustTransform(t, Config{M: 1, Plx: 1000, Platescale: 1000, DT: kepler.DaysPerYear / 4})

	x, y, err := tr.Apply(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x-1) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("Apply(0, 1) = (%v, %v), want (1, 0)", x, y)
	}
}

func TestApplyFullPeriod(t *testing.T) {
	cfg := baseConfig()
	cfg.DT = 0
	atZero := mustTransform(t, cfg)

	el, err := atZero.Orbit(14, -6)
	if err != nil {
		t.Fatal(err)
	}
	cfg.DT = el.Period()
	tr := mustTransform(t, cfg)

	x, y, err := tr.Apply(14, -6)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x-14) > 1e-7 || math.Abs(y+6) > 1e-7 {
		t.Errorf("Apply after one period = (%v, %v), want (14, -6)", x, y)
	}
}

func TestOrbitPassesThroughPixel(t *testing.T) {
	tr := mustTransform(t, baseConfig())
	for _, px := range [][2]float64{{12.3, -7.8}, {-40, 3}, {0.5, 22}, {-9, -9}} {
		el, err := tr.Orbit(px[0], px[1])
		if err != nil {
			t.Fatal(err)
		}
		sol, err := kepler.Solve(el, 0)
		if err != nil {
			t.Fatal(err)
		}
		x, y := sol.X/tr.Config().Platescale, sol.Y/tr.Config().Platescale
		if math.Abs(x-px[0]) > 1e-9 || math.Abs(y-px[1]) > 1e-9 {
			t.Errorf("orbit through %v is at (%v, %v) at t=0", px, x, y)
		}
	}
}

func TestFollowMatchesApplyAndOrbit(t *testing.T) {
	tr := mustTransform(t, baseConfig())

	wx, wy, el, err := tr.Follow(14, -6)
	if err != nil {
		t.Fatal(err)
	}
	ax, ay, err := tr.Apply(14, -6)
	if err != nil {
		t.Fatal(err)
	}
	if wx != ax || wy != ay {
		t.Errorf("Follow = (%v, %v), Apply = (%v, %v)", wx, wy, ax, ay)
	}
	orbit, err := tr.Orbit(14, -6)
	if err != nil {
		t.Fatal(err)
	}
	if el.Params() != orbit.Params() {
		t.Errorf("Follow orbit %v, Orbit %v", el, orbit)
	}

	if _, _, _, err := tr.Follow(0, 0); !errors.Is(err, ErrTransformDomain) {
		t.Errorf("Follow(0, 0) error = %v, want ErrTransformDomain", err)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"inclined eccentric", baseConfig()},
		{"retrograde", Config{I: 2.6, E: 0.6, ArgPeri: 4, Node: 0.2, M: 1.4, Plx: 20, Platescale: 12.25, DT: -900}},
		{"circular face-on", Config{M: 1, Plx: 100, Platescale: 5, DT: 3000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := mustTransform(t, tt.cfg)
			inv := tr.Inverse()
			if inv.Config().DT != -tt.cfg.DT {
				t.Fatalf("Inverse DT = %v, want %v", inv.Config().DT, -tt.cfg.DT)
			}

			for _, px := range [][2]float64{{12.3, -7.8}, {-40, 3}, {0.5, 22}, {100, 100}} {
				x, y, err := tr.Apply(px[0], px[1])
				if err != nil {
					t.Fatal(err)
				}
				bx, by, err := inv.Apply(x, y)
				if err != nil {
					t.Fatal(err)
				}
				if math.Abs(bx-px[0]) > 1e-7 || math.Abs(by-px[1]) > 1e-7 {
					t.Errorf("%v -> (%v, %v) -> (%v, %v)", px, x, y, bx, by)
				}
			}
		})
	}
}

func TestApplyDomain(t *testing.T) {
	tr := mustTransform(t, baseConfig())
	if _, _, err := tr.Apply(0, 0); !errors.Is(err, ErrTransformDomain) {
		t.Errorf("Apply at primary error = %v, want ErrTransformDomain", err)
	}
	if _, _, err := tr.Apply(math.NaN(), 1); !errors.Is(err, ErrTransformDomain) {
		t.Errorf("Apply(NaN) error = %v, want ErrTransformDomain", err)
	}

	cfg := baseConfig()
	cfg.I = math.Pi / 2
	edgeOn := mustTransform(t, cfg)
	x, y, err := edgeOn.Apply(3, 4)
	if !errors.Is(err, ErrTransformDomain) {
		t.Errorf("edge-on Apply error = %v, want ErrTransformDomain", err)
	}
	if !math.IsNaN(x) || !math.IsNaN(y) {
		t.Errorf("edge-on Apply = (%v, %v), want NaN", x, y)
	}
}

var _ Mapper = (*Transform)(nil)
