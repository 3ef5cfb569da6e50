package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/folio/internal/layout"
	"github.com/nikbrunner/folio/internal/model"
)

// gridMsg tells the app a new layout pass is ready.
type gridMsg struct {
	grid layout.Grid
}

// Renderer receives layout passes and playback requests from the gallery
// controller and forwards them to the running program.
type Renderer struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	playing map[model.ItemID]bool
	passes  int
}

// NewRenderer creates a Renderer. Passes are counted but not forwarded until
// Attach is called.
func NewRenderer() *Renderer {
	return &Renderer{playing: make(map[model.ItemID]bool)}
}

// Attach forwards future passes to the program.
func (r *Renderer) Attach(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send = p.Send
}

// Render implements gallery.Renderer. The controller holds its lock while
// rendering and the event loop may be blocked on that same lock, so the
// message is sent from its own goroutine.
func (r *Renderer) Render(grid layout.Grid) {
	r.mu.Lock()
	r.passes++
	send := r.send
	r.mu.Unlock()

	if send != nil {
		go send(gridMsg{grid: grid})
	}
}

// RequestPlayback implements gallery.Renderer.
func (r *Renderer) RequestPlayback(item model.MediaItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playing[item.ID] = true
}

// RequestPause implements gallery.Renderer.
func (r *Renderer) RequestPause(item model.MediaItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.playing, item.ID)
}

// Playing reports whether a video was asked to play.
func (r *Renderer) Playing(id model.ItemID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing[id]
}

// Passes returns the number of layout passes received.
func (r *Renderer) Passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}
