package layout

// Breakpoint maps a minimum viewport width (inclusive) to a column count.
type Breakpoint struct {
	MinWidth int
	Columns  int
}

// Config holds the tunable constants of the masonry engine.
type Config struct {
	// Breakpoints are checked in order; the first whose MinWidth the viewport
	// reaches wins. Widths below every breakpoint get a single column.
	Breakpoints []Breakpoint

	// MinItemHeight is the floor for an unfocused item's height in pixels.
	MinItemHeight float64

	// FocusViewportFraction is the share of the viewport height a focused
	// item occupies at minimum.
	FocusViewportFraction float64

	// DefaultDimension substitutes a missing declared width or height.
	DefaultDimension int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Breakpoints: []Breakpoint{
			{MinWidth: 1500, Columns: 5},
			{MinWidth: 1000, Columns: 4},
			{MinWidth: 600, Columns: 3},
			{MinWidth: 400, Columns: 2},
		},
		MinItemHeight:         80,
		FocusViewportFraction: 0.9,
		DefaultDimension:      1000,
	}
}

// ColumnsForWidth returns the column count for a viewport width.
func ColumnsForWidth(viewportWidth int, breakpoints []Breakpoint) int {
	for _, bp := range breakpoints {
		if viewportWidth >= bp.MinWidth {
			return bp.Columns
		}
	}
	return 1
}
