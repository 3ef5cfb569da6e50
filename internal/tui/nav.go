package tui

import (
	"math"

	"github.com/nikbrunner/folio/internal/layout"
	"github.com/nikbrunner/folio/internal/model"
)

// selectedIndex returns the catalog position of the selected item.
func (a App) selectedIndex() int {
	return max(model.IndexOf(a.gallery.Items(), a.selected), 0)
}

// selectIndex moves the cursor to a catalog position, clamped to the item list.
func (a *App) selectIndex(i int) {
	items := a.gallery.Items()
	if len(items) == 0 {
		return
	}
	i = min(max(i, 0), len(items)-1)
	a.selected = items[i].ID
}

// selectNeighbor moves the cursor to the adjacent column.
func (a *App) selectNeighbor(dir int) {
	grid := a.gallery.Grid()
	from, ok := grid.Find(a.selected)
	if !ok {
		return
	}
	if id, ok := neighbor(grid, from, dir); ok {
		a.selected = id
	}
}

// neighbor returns the placement in the column beside from whose vertical
// centre is closest to from's. The focused placement spans every column and
// has no neighbours.
func neighbor(grid layout.Grid, from layout.Placement, dir int) (model.ItemID, bool) {
	if from.Column < 0 {
		return "", false
	}
	target := from.Column + dir
	if target < 0 || target >= grid.Columns {
		return "", false
	}

	center := from.Y + from.Height/2
	var best model.ItemID
	bestDist := math.Inf(1)
	for _, p := range grid.Placements {
		if p.Column != target {
			continue
		}
		if d := math.Abs(p.Y + p.Height/2 - center); d < bestDist {
			best, bestDist = p.ID, d
		}
	}
	return best, best != ""
}
