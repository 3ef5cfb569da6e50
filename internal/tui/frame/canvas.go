package frame

import (
	"math"

	"github.com/nikbrunner/folio/internal/layout"
)

// Rect is a box in terminal cells.
type Rect struct {
	X, Y, W, H int
}

// Bottom returns the first row below the rect.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// CanvasSize computes the card canvas size for a terminal.
// Returns at least MinWidth x MinHeight.
func CanvasSize(terminalWidth, terminalHeight int, cfg CanvasConfig) (width, height int) {
	return max(terminalWidth-cfg.WidthReduction, cfg.MinWidth),
		max(terminalHeight-cfg.HeightReduction, cfg.MinHeight)
}

// PixelSize converts a canvas size in cells to gallery pixels.
func PixelSize(width, height int, cell CellConfig) (int, int) {
	return width * cell.Width, height * cell.Height
}

// Scale converts gallery pixels to cells.
type Scale struct {
	X, Y float64
}

// NewScale fits a grid's container width to the canvas width and keeps the
// pixel aspect ratio of a cell for the vertical axis.
func NewScale(grid layout.Grid, canvasWidth int, cell CellConfig) Scale {
	containerPx := grid.ColumnWidth * float64(grid.Columns)
	if containerPx <= 0 || cell.Width <= 0 || cell.Height <= 0 {
		return Scale{X: 1, Y: 1}
	}
	x := float64(canvasWidth) / containerPx
	return Scale{X: x, Y: x * float64(cell.Width) / float64(cell.Height)}
}

// Project maps a placement to cells. Edges are rounded independently so
// neighbouring cards share borders instead of leaving gaps.
func Project(p layout.Placement, s Scale, minHeight int) Rect {
	x0 := int(math.Round(p.X * s.X))
	x1 := int(math.Round((p.X + p.Width) * s.X))
	y0 := int(math.Round(p.Y * s.Y))
	y1 := int(math.Round(p.Bottom() * s.Y))
	return Rect{X: x0, Y: y0, W: max(x1-x0, 1), H: max(y1-y0, minHeight)}
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected row visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := max(selected-viewportHeight/2, 0)
	return min(offset, total-viewportHeight)
}
