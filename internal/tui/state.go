package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/folio/internal/search"
	"github.com/nikbrunner/folio/internal/tui/frame"
)

// Mode is the current input mode of the app.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeHelp
)

// MessageType distinguishes status line messages.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// SearchState holds state for the caption search overlay.
type SearchState struct {
	Input   textinput.Model
	Results []search.SearchResult
	Cursor  int
}

// NewSearchState creates a new SearchState with an initialized input.
func NewSearchState(cfg frame.Config) SearchState {
	input := textinput.New()
	input.Placeholder = "Search captions..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.SearchWidth

	return SearchState{Input: input}
}

// Reset clears the search for a new session.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Results = nil
	s.Cursor = 0
}

// Move shifts the result cursor, staying within bounds.
func (s *SearchState) Move(delta int) {
	next := s.Cursor + delta
	if next >= 0 && next < len(s.Results) {
		s.Cursor = next
	}
}

// Current returns the result under the cursor.
func (s *SearchState) Current() (search.SearchResult, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Results) {
		return search.SearchResult{}, false
	}
	return s.Results[s.Cursor], true
}
