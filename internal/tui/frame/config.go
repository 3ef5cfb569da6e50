package frame

// Config holds all sizing values for the terminal gallery.
type Config struct {
	Cell   CellConfig
	Canvas CanvasConfig
	Modal  ModalConfig
	Input  InputConfig
	Text   TextConfig
}

// CellConfig maps terminal cells to gallery pixels. The gallery lays out in
// pixels; one cell stands for Width x Height of them.
type CellConfig struct {
	Width  int
	Height int
}

// CanvasConfig holds the space taken around the card canvas.
type CanvasConfig struct {
	// HeightReduction is subtracted from terminal height for the canvas.
	// Accounts for: app padding (1) + header (1) + help bar (3) = 5
	HeightReduction int

	// WidthReduction is subtracted from terminal width for the canvas.
	// Accounts for app padding left (2) + right (2).
	WidthReduction int

	MinHeight int
	MinWidth  int

	// MinCardHeight keeps a card tall enough for its border and caption.
	MinCardHeight int
}

// ModalConfig holds overlay configuration.
type ModalConfig struct {
	// WidthPercent is the overlay width as percentage of terminal width.
	WidthPercent int

	MinWidth int
	MaxWidth int

	// SearchMaxVisible: max results shown in the search overlay.
	SearchMaxVisible int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	SearchCharLimit int
	SearchWidth     int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default frame configuration.
func DefaultConfig() Config {
	return Config{
		Cell: CellConfig{
			Width:  10,
			Height: 20,
		},
		Canvas: CanvasConfig{
			HeightReduction: 5, // app padding (1) + header (1) + help bar (3)
			WidthReduction:  4,
			MinHeight:       5,
			MinWidth:        20,
			MinCardHeight:   3,
		},
		Modal: ModalConfig{
			WidthPercent:     50,
			MinWidth:         40,
			MaxWidth:         80,
			SearchMaxVisible: 8,
		},
		Input: InputConfig{
			SearchCharLimit: 100,
			SearchWidth:     40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
