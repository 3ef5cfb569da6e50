package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/folio/internal/layout"
	"github.com/nikbrunner/folio/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/gallery-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("gallery-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// HTMLRenderer keeps the latest layout pass and renders it as static markup.
// It satisfies gallery.Renderer.
type HTMLRenderer struct {
	mu      sync.Mutex
	items   map[model.ItemID]model.MediaItem
	grid    layout.Grid
	playing map[model.ItemID]bool
	passes  int
}

// NewHTMLRenderer creates a renderer for the given gallery items.
func NewHTMLRenderer(items []model.MediaItem) *HTMLRenderer {
	byID := make(map[model.ItemID]model.MediaItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &HTMLRenderer{
		items:   byID,
		playing: map[model.ItemID]bool{},
	}
}

// Render stores the pass. Each pass replaces the previous one wholesale.
func (r *HTMLRenderer) Render(grid layout.Grid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grid = grid
	r.passes++
}

// RequestPlayback marks a video to be written with autoplay.
func (r *HTMLRenderer) RequestPlayback(item model.MediaItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playing[item.ID] = true
}

// RequestPause clears autoplay for a video.
func (r *HTMLRenderer) RequestPause(item model.MediaItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.playing, item.ID)
}

// Passes returns how many passes were rendered.
func (r *HTMLRenderer) Passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}

// HTML returns the markup for the latest pass.
func (r *HTMLRenderer) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ExportHTML(r.grid, r.items, r.playing)
}

// ExportHTML renders a layout pass as absolutely positioned gallery cards.
// Cards follow the grid's placement order; items missing from the map are skipped.
func ExportHTML(grid layout.Grid, items map[model.ItemID]model.MediaItem, playing map[model.ItemID]bool) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<title>Gallery</title>\n")
	fmt.Fprintf(&b,
		"<div id=\"masonry-gallery\" data-columns=\"%d\" style=\"position: relative; width: 100%%; height: %spx;\">\n",
		grid.Columns, px(grid.Height),
	)

	for _, p := range grid.Placements {
		item, ok := items[p.ID]
		if !ok {
			continue
		}
		writeCard(&b, p, item, playing[p.ID])
	}

	b.WriteString("</div>\n")
	return b.String()
}

// writeCard writes one positioned card with its media and caption.
func writeCard(b *strings.Builder, p layout.Placement, item model.MediaItem, playing bool) {
	const prefix = "    "

	class := "masonry-item-wrapper"
	if p.Focused {
		class += " card-focused"
	}
	fmt.Fprintf(b,
		"%s<div class=\"%s\" data-key=\"%s\" tabindex=\"0\" role=\"button\" aria-pressed=\"%t\" style=\"position: absolute; transform: translate(%spx, %spx); width: %spx; height: %spx;\">\n",
		prefix, class, html.EscapeString(string(p.ID)), p.Focused,
		px(p.X), px(p.Y), px(p.Width), px(p.Height),
	)

	switch m := item.Media.(type) {
	case model.Video:
		attrs := "muted playsinline"
		if m.Loop {
			attrs += " loop"
		}
		if playing {
			attrs += " autoplay"
		}
		fmt.Fprintf(b,
			"%s    <div class=\"masonry-item-video\"><video src=\"%s\" %s></video></div>\n",
			prefix, html.EscapeString(m.Src), attrs,
		)
	case model.Image:
		fmt.Fprintf(b,
			"%s    <div class=\"masonry-item-img\" style=\"background-image: url('%s'); background-size: contain;\"></div>\n",
			prefix, html.EscapeString(m.Src),
		)
	}

	if item.Caption != "" {
		fmt.Fprintf(b, "%s    <div class=\"masonry-caption\">%s</div>\n", prefix, html.EscapeString(item.Caption))
	}
	if p.Focused && item.Link != "" {
		fmt.Fprintf(b,
			"%s    <a class=\"masonry-link\" href=\"%s\" target=\"_blank\" rel=\"noopener\">Open</a>\n",
			prefix, html.EscapeString(item.Link),
		)
	}

	fmt.Fprintf(b, "%s</div>\n", prefix)
}

// px formats a pixel value without trailing zeros.
func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
