package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Header       lipgloss.Style
	Title        lipgloss.Style
	Card         lipgloss.Style // Unselected card border
	CardSelected lipgloss.Style // Card under the cursor
	CardFocused  lipgloss.Style // Expanded card
	Caption      lipgloss.Style
	Badge        lipgloss.Style // Video badge and dimensions line
	Modal        lipgloss.Style
	Match        lipgloss.Style // Fuzzy-matched runes in search results
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Empty        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "focus", "move")
	Message      lipgloss.Style
	MessageError lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}  // inactive borders
	warn := lipgloss.AdaptiveColor{Light: "#8A4A4A", Dark: "#AF7575"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Header: lipgloss.NewStyle().
			Foreground(subtle),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Card: lipgloss.NewStyle().
			Foreground(border),

		CardSelected: lipgloss.NewStyle().
			Foreground(accent),

		CardFocused: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Caption: lipgloss.NewStyle().
			Foreground(primary),

		Badge: lipgloss.NewStyle().
			Foreground(subtle),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		Match: lipgloss.NewStyle().
			Foreground(accent).
			Underline(true),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),

		Message: lipgloss.NewStyle().
			Foreground(accent),

		MessageError: lipgloss.NewStyle().
			Foreground(warn),
	}
}
