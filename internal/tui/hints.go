package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "focus")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move enter:focus"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for overlays: "Enter select  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Action []Hint
	System []Hint
}

// All returns all hints flattened in display order: Nav + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		return a.getNormalModeHints()
	case ModeSearch:
		return HintSet{
			Nav:    []Hint{{Key: "up/down", Desc: "move"}},
			Action: []Hint{{Key: "Enter", Desc: "select"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeHelp:
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		return HintSet{}
	}
}

// getNormalModeHints returns hints for browsing. The focus hint reflects
// what enter will do for the selected item.
func (a App) getNormalModeHints() HintSet {
	focusHint := Hint{Key: "enter", Desc: "focus"}
	if item, ok := a.gallery.Item(a.selected); ok {
		focused, _ := a.gallery.Focused()
		switch {
		case focused == item.ID && item.Link != "":
			focusHint.Desc = "open link"
		case focused == item.ID:
			focusHint.Desc = "unfocus"
		}
	}

	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "h/l", Desc: "column"},
		},
		Action: []Hint{
			focusHint,
			{Key: "Y", Desc: "yank"},
			{Key: "/", Desc: "search"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
	if _, ok := a.gallery.Focused(); ok {
		hints.Action = append(hints.Action, Hint{Key: "esc", Desc: "unfocus"})
	}
	return hints
}
