package warp

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestMapGrid(t *testing.T) {
	tr := mustTransform(t, baseConfig())

	g, err := MapGrid(context.Background(), tr, 5, 4, 2, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Failed != 1 {
		t.Errorf("Failed = %d, want 1 (the primary)", g.Failed)
	}
	if _, _, ok := g.At(2, 2); ok {
		t.Error("pixel at the primary reported as mapped")
	}

	for row := 0; row < 4; row++ {
		for col := 0; col < 5; col++ {
			if col == 2 && row == 2 {
				continue
			}
			x, y, ok := g.At(col, row)
			if !ok {
				t.Fatalf("pixel (%d, %d) failed", col, row)
			}
			wx, wy, err := tr.Apply(float64(col)-2, float64(row)-2)
			if err != nil {
				t.Fatal(err)
			}
			if x != wx+2 || y != wy+2 {
				t.Errorf("pixel (%d, %d) = (%v, %v), want (%v, %v)", col, row, x, y, wx+2, wy+2)
			}
		}
	}
}

func TestMapGridAllFailed(t *testing.T) {
	cfg := baseConfig()
	cfg.I = math.Pi / 2
	g, err := MapGrid(context.Background(), mustTransform(t, cfg), 3, 3, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if g.Failed != 9 {
		t.Errorf("Failed = %d, want 9", g.Failed)
	}
}

func TestMapGridCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := MapGrid(ctx, mustTransform(t, baseConfig()), 4, 4, 0, 0, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("MapGrid error = %v, want context.Canceled", err)
	}
}

func TestMapGridEmpty(t *testing.T) {
	g, err := MapGrid(context.Background(), mustTransform(t, baseConfig()), 0, 10, 0, 0, 2)
	if err != nil || len(g.X) != 0 {
		t.Errorf("MapGrid(0×10) = %d pixels, %v", len(g.X), err)
	}
}
