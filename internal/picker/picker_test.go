package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/search"
)

func result(id, caption, src string) search.SearchResult {
	return search.SearchResult{
		Item: model.MediaItem{
			ID:      model.ItemID(id),
			Media:   model.Image{Src: src},
			Caption: caption,
		},
		Text: caption,
	}
}

func twoResults() []search.SearchResult {
	return []search.SearchResult{
		result("1", "Boo - Canvas 2021", "https://cdn.example.com/boo.jpg"),
		result("2", "Bison", "https://cdn.example.com/bison.jpg"),
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(p Picker, msg tea.Msg) (Picker, tea.Cmd) {
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func TestPicker_InitialState(t *testing.T) {
	p := New(twoResults(), "b")

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_NavigateDown(t *testing.T) {
	p, _ := update(New(twoResults(), "b"), runes("j"))

	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}
}

func TestPicker_NavigateUp(t *testing.T) {
	p := New(twoResults(), "b")
	p.cursor = 1

	p, _ = update(p, runes("k"))

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_BoundsCheck(t *testing.T) {
	p := New(twoResults()[:1], "b")

	p, _ = update(p, runes("k"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	p, _ = update(p, tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", p.cursor)
	}
}

func TestPicker_JumpToEnds(t *testing.T) {
	p, _ := update(New(twoResults(), "b"), runes("G"))
	if p.cursor != 1 {
		t.Errorf("expected cursor at last result, got %d", p.cursor)
	}

	p, _ = update(p, runes("g"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at first result, got %d", p.cursor)
	}
}

func TestPicker_Select(t *testing.T) {
	p := New(twoResults(), "b")
	p.cursor = 1

	p, cmd := update(p, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected quit command")
	}

	item, ok := p.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if item.ID != "2" {
		t.Errorf("expected item 2, got %s", item.ID)
	}
}

func TestPicker_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, runes("q")} {
		p, _ := update(New(twoResults(), "b"), msg)

		if !p.Cancelled() {
			t.Errorf("expected %v to cancel", msg)
		}
		if _, ok := p.Selected(); ok {
			t.Errorf("expected no selection after %v", msg)
		}
	}
}

func TestPicker_EnterWithNoResults(t *testing.T) {
	p, _ := update(New(nil, "zzz"), tea.KeyMsg{Type: tea.KeyEnter})

	if _, ok := p.Selected(); ok {
		t.Error("expected no selection from empty results")
	}
	if !p.Cancelled() {
		t.Error("expected empty selection to count as cancel")
	}
}

func TestPicker_View(t *testing.T) {
	view := New(twoResults(), "b").View()

	for _, want := range []string{"Search: b (2 results)", "bison.jpg", "[image]"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestPicker_WindowFollowsCursor(t *testing.T) {
	var results []search.SearchResult
	for i := range 20 {
		results = append(results, result(string(rune('a'+i)), "item", "x.jpg"))
	}

	p, _ := update(New(results, "item"), tea.WindowSizeMsg{Width: 80, Height: 11})
	p.cursor = 15

	start, end := p.window()
	if p.cursor < start || p.cursor >= end {
		t.Errorf("cursor %d outside window [%d, %d)", p.cursor, start, end)
	}
	if end-start != 3 {
		t.Errorf("expected 3 visible results, got %d", end-start)
	}
}
