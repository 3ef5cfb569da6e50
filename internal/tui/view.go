package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/folio/internal/layout"
	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/search"
	"github.com/nikbrunner/folio/internal/tui/frame"
)

// View implements tea.Model.
func (a App) View() string {
	switch a.mode {
	case ModeSearch:
		return a.renderSearch()
	case ModeHelp:
		return a.renderHelpOverlay()
	}
	return a.renderGallery()
}

// renderGallery creates the header, card canvas and help bar.
func (a App) renderGallery() string {
	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderCanvas(), a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders the status line above the canvas.
func (a App) renderHeader() string {
	parts := []string{
		a.styles.Title.Render("folio"),
		fmt.Sprintf("%d items", len(a.gallery.Items())),
		fmt.Sprintf("%d columns", a.gallery.Columns()),
	}
	if id, ok := a.gallery.Focused(); ok {
		if item, ok := a.gallery.Item(id); ok {
			parts = append(parts, "focused: "+search.Label(item))
		}
	}

	width, _ := frame.CanvasSize(a.width, a.height, a.frame.Canvas)
	line := strings.Join(parts, " · ")
	return a.styles.Header.Render(frame.TruncateANSIAware(line, width, a.frame.Text))
}

// renderCanvas draws every placement as a box scaled to the terminal and
// scrolls so the selected card stays visible.
func (a App) renderCanvas() string {
	width, height := frame.CanvasSize(a.width, a.height, a.frame.Canvas)

	grid := a.gallery.Grid()
	if len(grid.Placements) == 0 {
		msg := "(no items)"
		if len(a.gallery.Items()) > 0 {
			msg = "(waiting for layout...)"
		}
		return lipgloss.NewStyle().Height(height).Render(a.styles.Empty.Render(msg))
	}

	scale := frame.NewScale(grid, width, a.frame.Cell)
	rects := make([]frame.Rect, len(grid.Placements))
	total := 0
	for i, p := range grid.Placements {
		rects[i] = frame.Project(p, scale, a.frame.Canvas.MinCardHeight)
		total = max(total, rects[i].Bottom())
	}

	cv := newCanvas(width, total)
	selected := -1
	for i, p := range grid.Placements {
		if p.ID == a.selected {
			selected = i
			continue
		}
		a.drawCard(cv, p, rects[i], false)
	}

	offset := 0
	if selected >= 0 {
		// Drawn last so its border wins where cards share an edge.
		a.drawCard(cv, grid.Placements[selected], rects[selected], true)
		// Centre the visible part of the card so its caption row shows.
		r := rects[selected]
		offset = frame.CalculateViewportOffset(r.Y+min(r.H, height)/2, total, height)
	}

	lines := cv.lines(offset, offset+height, map[paint]lipgloss.Style{
		paintCard:     a.styles.Card,
		paintSelected: a.styles.CardSelected,
		paintFocused:  a.styles.CardFocused,
		paintCaption:  a.styles.Caption,
		paintBadge:    a.styles.Badge,
	})
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// drawCard draws one card: border, caption line and a detail line when
// there is room for it.
func (a App) drawCard(cv *canvas, p layout.Placement, r frame.Rect, selected bool) {
	border, pt := lipgloss.NormalBorder(), paintCard
	switch {
	case p.Focused:
		border, pt = lipgloss.DoubleBorder(), paintFocused
	case selected:
		border, pt = lipgloss.ThickBorder(), paintSelected
	}
	cv.box(r, border, pt)

	item, ok := a.gallery.Item(p.ID)
	inner := r.W - 2
	if !ok || inner <= 0 || r.H < 3 {
		return
	}

	caption, _ := frame.TruncateWithPrefix(search.Label(item), inner, a.badge(item), a.frame.Text)
	cv.text(r.X+1, r.Y+1, caption, paintCaption)

	if r.H >= 4 {
		detail, _ := frame.TruncateText(a.detail(item, p), inner, a.frame.Text)
		cv.text(r.X+1, r.Y+2, detail, paintBadge)
	}
}

// badge marks videos, showing whether playback was requested.
func (a App) badge(item model.MediaItem) string {
	if !item.IsVideo() {
		return ""
	}
	if a.renderer.Playing(item.ID) {
		return "▶ "
	}
	return "▷ "
}

// detail describes the media size and, for the focused card, its link.
func (a App) detail(item model.MediaItem, p layout.Placement) string {
	dims := item.Natural
	if !dims.Known() {
		dims = item.Declared
	}

	var parts []string
	if dims.Known() {
		parts = append(parts, fmt.Sprintf("%dx%d", dims.Width, dims.Height))
	}
	parts = append(parts, item.Kind().String())
	if p.Focused && item.Link != "" {
		parts = append(parts, "↗ "+item.Link)
	}
	return strings.Join(parts, " · ")
}

// renderHelpBar renders the message line and contextual hints.
func (a App) renderHelpBar() string {
	lines := []string{""}
	if a.messageText != "" {
		style := a.styles.Message
		if a.messageType == MessageError {
			style = a.styles.MessageError
		}
		lines[0] = style.Render(a.messageText)
	}
	lines = append(lines, a.renderHints(a.getContextualHints()))
	return strings.Join(lines, "\n")
}

// renderSearch renders the caption search overlay.
func (a App) renderSearch() string {
	modalWidth := frame.CalculateModalWidth(a.width, a.frame.Modal)
	inner := max(modalWidth-4, 1)

	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Search") + "\n\n")
	content.WriteString(a.search.Input.View() + "\n\n")

	switch {
	case a.search.Input.Value() == "":
		content.WriteString(a.styles.Empty.Render("Type to search captions"))
	case len(a.search.Results) == 0:
		content.WriteString(a.styles.Empty.Render("No matches"))
	default:
		start, end := frame.CalculateVisibleListItems(a.frame.Modal.SearchMaxVisible, a.search.Cursor, len(a.search.Results))
		for i := start; i < end; i++ {
			line := frame.TruncateANSIAware(a.highlight(a.search.Results[i]), inner-1, a.frame.Text)
			if i == a.search.Cursor {
				content.WriteString(a.styles.ItemSelected.Render(line))
			} else {
				content.WriteString(a.styles.Item.Render(line))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("\n" + a.renderHintsInline(a.getContextualHints().All()))

	modal := a.styles.Modal.Width(modalWidth).Render(strings.TrimRight(content.String(), "\n"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

// highlight renders a search result with its matched runes styled.
func (a App) highlight(result search.SearchResult) string {
	matched := make(map[int]bool, len(result.MatchedIndexes))
	for _, idx := range result.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range result.Text {
		if matched[i] {
			b.WriteString(a.styles.Match.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderHelpOverlay renders all key bindings.
func (a App) renderHelpOverlay() string {
	modalWidth := frame.CalculateModalWidth(a.width, a.frame.Modal)

	// Groups stack vertically; side by side they would not fit the modal.
	h := a.help
	h.Width = max(modalWidth-a.styles.Modal.GetHorizontalFrameSize(), 1)

	var content strings.Builder
	content.WriteString(a.styles.Title.Render("keys") + "\n\n")
	for i, group := range a.keys.FullHelp() {
		if i > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(h.FullHelpView([][]key.Binding{group}))
	}
	content.WriteString("\n\n" + a.renderHintsInline(a.getContextualHints().All()))

	modal := a.styles.Modal.Width(modalWidth).Render(content.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}
