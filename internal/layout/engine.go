package layout

import (
	"errors"
	"math"

	"github.com/nikbrunner/folio/internal/model"
)

var (
	// ErrNoContainerWidth means layout was requested before the container was measured.
	ErrNoContainerWidth = errors.New("container width is zero")

	// ErrInvalidColumns means fewer than one column was requested.
	ErrInvalidColumns = errors.New("column count must be at least 1")
)

// Params describes one layout pass.
type Params struct {
	ContainerWidth float64
	Columns        int
	ViewportHeight float64

	// Focused is the ID of the expanded item. Empty, or an ID that is not in
	// the item list, means no focus.
	Focused model.ItemID
}

// Placement is the computed box of one item.
type Placement struct {
	ID      model.ItemID
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Column  int // -1 when the item spans every column
	Focused bool
}

// Bottom returns Y + Height.
func (p Placement) Bottom() float64 {
	return p.Y + p.Height
}

// Grid is the result of a full layout pass. It is never patched; every pass
// produces a new Grid.
type Grid struct {
	// Placements are in placement order: the focused item first (if any),
	// then the remaining items in catalog order.
	Placements    []Placement
	Columns       int
	ColumnWidth   float64
	ColumnHeights []float64
	Height        float64
}

// Find returns the placement for an item.
func (g Grid) Find(id model.ItemID) (Placement, bool) {
	for _, p := range g.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// FocusedID returns the ID of the focused placement, or "" when none is focused.
func (g Grid) FocusedID() model.ItemID {
	for _, p := range g.Placements {
		if p.Focused {
			return p.ID
		}
	}
	return ""
}

// Compute packs items into the shortest column, left to right on ties. A
// focused item is placed first across the full container width and every
// column restarts below it.
func Compute(items []model.MediaItem, params Params, cfg Config) (Grid, error) {
	if params.ContainerWidth <= 0 {
		return Grid{}, ErrNoContainerWidth
	}
	if params.Columns < 1 {
		return Grid{}, ErrInvalidColumns
	}

	colHeights := make([]float64, params.Columns)
	columnWidth := params.ContainerWidth / float64(params.Columns)

	grid := Grid{
		Placements:  make([]Placement, 0, len(items)),
		Columns:     params.Columns,
		ColumnWidth: columnWidth,
	}

	focusedIdx := -1
	if params.Focused != "" {
		focusedIdx = model.IndexOf(items, params.Focused)
	}

	if focusedIdx >= 0 {
		item := items[focusedIdx]
		_, y := shortestColumn(colHeights)
		h := math.Max(
			float64(item.Declared.Height)/2,
			math.Floor(params.ViewportHeight*cfg.FocusViewportFraction),
		)
		for i := range colHeights {
			colHeights[i] = y + h
		}
		grid.Placements = append(grid.Placements, Placement{
			ID:      item.ID,
			X:       0,
			Y:       y,
			Width:   params.ContainerWidth,
			Height:  h,
			Column:  -1,
			Focused: true,
		})
	}

	for i, item := range items {
		if i == focusedIdx {
			continue
		}
		col, y := shortestColumn(colHeights)
		h := math.Max(cfg.MinItemHeight, math.Round(columnWidth*item.AspectRatio(cfg.DefaultDimension)))
		colHeights[col] += h
		grid.Placements = append(grid.Placements, Placement{
			ID:     item.ID,
			X:      columnWidth * float64(col),
			Y:      y,
			Width:  columnWidth,
			Height: h,
			Column: col,
		})
	}

	for _, p := range grid.Placements {
		if p.Bottom() > grid.Height {
			grid.Height = p.Bottom()
		}
	}
	grid.ColumnHeights = colHeights

	return grid, nil
}

// shortestColumn returns the index and height of the lowest column; ties go
// to the lowest index.
func shortestColumn(heights []float64) (int, float64) {
	best := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}
	return best, heights[best]
}
