package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Underline(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Picker is a small TUI for choosing one gallery item from search results.
type Picker struct {
	results   []search.SearchResult
	query     string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker with the given search results.
func New(results []search.SearchResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.results) == 0 {
				p.cancelled = true
			} else {
				p.selected = true
			}
			return p, tea.Quit

		case tea.KeyDown:
			p.move(1)
			return p, nil

		case tea.KeyUp:
			p.move(-1)
			return p, nil
		}

		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.move(1)
			case "k":
				p.move(-1)
			case "g":
				p.cursor = 0
			case "G":
				p.cursor = max(len(p.results)-1, 0)
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

func (p *Picker) move(delta int) {
	next := p.cursor + delta
	if next >= 0 && next < len(p.results) {
		p.cursor = next
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	start, end := p.window()
	for i := start; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		badge := badgeStyle.Render(fmt.Sprintf("[%s]", result.Item.Kind()))
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, highlight(result, style), badge))
		b.WriteString(fmt.Sprintf("   %s\n", sourceStyle.Render(result.Item.Source())))
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k: move  Enter: select  q/Esc: cancel"))

	return b.String()
}

// window returns the slice of results that fits the terminal, keeping the
// cursor visible. Each result takes two lines; header and footer take five.
func (p Picker) window() (int, int) {
	visible := max((p.height-5)/2, 1)
	if len(p.results) <= visible {
		return 0, len(p.results)
	}
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	return start, min(start+visible, len(p.results))
}

// highlight renders the matched text with the fuzzy-matched runes marked.
func highlight(result search.SearchResult, base lipgloss.Style) string {
	if len(result.MatchedIndexes) == 0 {
		return base.Render(result.Text)
	}

	matched := make(map[int]bool, len(result.MatchedIndexes))
	for _, idx := range result.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range result.Text {
		if matched[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// Selected returns the chosen item. ok is false if the user cancelled.
func (p Picker) Selected() (model.MediaItem, bool) {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return model.MediaItem{}, false
	}
	return p.results[p.cursor].Item, true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
