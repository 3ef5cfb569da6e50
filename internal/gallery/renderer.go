package gallery

import (
	"context"

	"github.com/nikbrunner/folio/internal/layout"
	"github.com/nikbrunner/folio/internal/model"
)

// Renderer draws layout passes. Render receives every placement on every
// pass, changed or not, so implementations can skip unchanged boxes cheaply.
//
// Renderer methods are called with the controller's lock held and must not
// call back into the Controller.
type Renderer interface {
	Render(grid layout.Grid)

	// RequestPlayback asks for a focused video to start. Failures (autoplay
	// policies, missing decoders) are the renderer's to swallow.
	RequestPlayback(item model.MediaItem)

	// RequestPause asks for a video that lost focus to stop.
	RequestPause(item model.MediaItem)
}

// Preloader resolves natural dimensions keyed by media source. Entries that
// could not be resolved are absent or zero; it never fails the batch.
type Preloader interface {
	Preload(ctx context.Context, items []model.MediaItem) map[string]model.Dimensions
}

// Viewport is a sample of the display surface.
type Viewport struct {
	Width  int
	Height int

	// ContainerWidth is the measured gallery width. Zero means the gallery
	// fills the viewport.
	ContainerWidth int
}

func (v Viewport) containerWidth() int {
	if v.ContainerWidth > 0 {
		return v.ContainerWidth
	}
	return v.Width
}

// NopRenderer discards every pass.
type NopRenderer struct{}

func (NopRenderer) Render(layout.Grid)              {}
func (NopRenderer) RequestPlayback(model.MediaItem) {}
func (NopRenderer) RequestPause(model.MediaItem)    {}
