package frame

import (
	"testing"

	"github.com/nikbrunner/folio/internal/layout"
)

func TestCanvasSize(t *testing.T) {
	cfg := DefaultConfig().Canvas

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"normal terminal", 80, 24, 76, 19},  // 80-4, 24-5
		{"large terminal", 200, 60, 196, 55}, // 200-4, 60-5
		{"tiny terminal clamps", 10, 4, 20, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := CanvasSize(tt.width, tt.height, cfg)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("CanvasSize(%d, %d) = (%d, %d), want (%d, %d)",
					tt.width, tt.height, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPixelSize(t *testing.T) {
	w, h := PixelSize(76, 19, DefaultConfig().Cell)
	if w != 760 || h != 380 {
		t.Errorf("PixelSize(76, 19) = (%d, %d), want (760, 380)", w, h)
	}
}

func TestNewScale(t *testing.T) {
	cell := DefaultConfig().Cell
	grid := layout.Grid{Columns: 4, ColumnWidth: 200}

	s := NewScale(grid, 80, cell)
	if s.X != 0.1 || s.Y != 0.05 {
		t.Errorf("NewScale = %+v, want {0.1 0.05}", s)
	}

	if s := NewScale(layout.Grid{}, 80, cell); s != (Scale{X: 1, Y: 1}) {
		t.Errorf("empty grid scale = %+v, want identity", s)
	}
}

func TestProject(t *testing.T) {
	s := Scale{X: 0.1, Y: 0.05}

	tests := []struct {
		name string
		p    layout.Placement
		want Rect
	}{
		{"second column", layout.Placement{X: 200, Y: 0, Width: 200, Height: 300}, Rect{X: 20, Y: 0, W: 20, H: 15}},
		{"stacked", layout.Placement{X: 0, Y: 300, Width: 200, Height: 150}, Rect{X: 0, Y: 15, W: 20, H: 8}}, // 15..22.5 rounds to 23
		{"short card clamps", layout.Placement{X: 0, Y: 0, Width: 200, Height: 20}, Rect{X: 0, Y: 0, W: 20, H: 3}},
		{"focused spans", layout.Placement{X: 0, Y: 0, Width: 800, Height: 810, Column: -1}, Rect{X: 0, Y: 0, W: 80, H: 41}}, // 40.5 rounds to 41
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.p, s, 3)
			if got != tt.want {
				t.Errorf("Project(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		name           string
		selected       int
		total          int
		viewportHeight int
		want           int
	}{
		{"no scroll needed", 2, 5, 10, 0},
		{"selection near start", 1, 20, 10, 0},
		{"selection in middle", 10, 20, 10, 5}, // 10 - 10/2 = 5
		{"selection near end", 18, 20, 10, 10}, // max offset = 20-10 = 10
		{"selection at end", 19, 20, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateViewportOffset(tt.selected, tt.total, tt.viewportHeight)
			if got != tt.want {
				t.Errorf("CalculateViewportOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.viewportHeight, got, tt.want)
			}
		})
	}
}
