package gallery_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/folio/internal/gallery"
	"github.com/nikbrunner/folio/internal/layout"
	"github.com/nikbrunner/folio/internal/model"
)

// recordingRenderer captures every call the controller makes.
type recordingRenderer struct {
	mu       sync.Mutex
	grids    []layout.Grid
	played   []model.ItemID
	paused   []model.ItemID
	rendered chan struct{}
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{rendered: make(chan struct{}, 16)}
}

func (r *recordingRenderer) Render(grid layout.Grid) {
	r.mu.Lock()
	r.grids = append(r.grids, grid)
	r.mu.Unlock()
	select {
	case r.rendered <- struct{}{}:
	default:
	}
}

func (r *recordingRenderer) RequestPlayback(item model.MediaItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, item.ID)
}

func (r *recordingRenderer) RequestPause(item model.MediaItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = append(r.paused, item.ID)
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.grids)
}

func (r *recordingRenderer) last() layout.Grid {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.grids[len(r.grids)-1]
}

// stubPreloader returns fixed dimensions keyed by source.
type stubPreloader map[string]model.Dimensions

func (s stubPreloader) Preload(_ context.Context, _ []model.MediaItem) map[string]model.Dimensions {
	return s
}

func testItems() []model.MediaItem {
	heights := []int{700, 1000, 500, 500, 1000, 800}
	items := make([]model.MediaItem, len(heights))
	for i, h := range heights {
		var media model.Media = model.Image{Src: fmt.Sprintf("img-%d.png", i)}
		if i == 2 {
			media = model.Video{Src: "sluggish.mov", Loop: true}
		}
		items[i] = model.MediaItem{
			ID:       model.ItemID(fmt.Sprintf("item-%d", i)),
			Media:    media,
			Declared: model.Dimensions{Height: h},
		}
	}
	return items
}

func newController(t *testing.T, r gallery.Renderer, vp gallery.Viewport) *gallery.Controller {
	t.Helper()
	c, err := gallery.Init(context.Background(), gallery.Params{
		Items:          testItems(),
		Renderer:       r,
		Viewport:       vp,
		DebounceWindow: 40 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestInit_RendersFirstPass(t *testing.T) {
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})

	assert.Equal(t, r.count(), 1)
	assert.Equal(t, c.Columns(), 5)
	assert.Equal(t, len(c.Grid().Placements), 6)
	_, focused := c.Focused()
	assert.Assert(t, !focused)
}

func TestInit_ZeroWidthSkipsLayout(t *testing.T) {
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 0, Height: 900})

	assert.Equal(t, r.count(), 0)
	assert.Equal(t, c.Passes(), 0)
	assert.Equal(t, len(c.Grid().Placements), 0)
}

func TestInit_PreloadFailureFallsBackToDeclared(t *testing.T) {
	items := testItems()
	// Item 1 resolves; item 0 failed and is reported as unknown.
	pre := stubPreloader{
		items[0].Source(): {},
		items[1].Source(): {Width: 600, Height: 300},
	}

	r := newRecordingRenderer()
	c, err := gallery.Init(context.Background(), gallery.Params{
		Items:     items,
		Renderer:  r,
		Preloader: pre,
		Viewport:  gallery.Viewport{Width: 1500, Height: 900},
	})
	assert.NilError(t, err)
	defer c.Close()

	grid := c.Grid()
	failed, ok := grid.Find(items[0].ID)
	assert.Assert(t, ok)
	assert.Equal(t, failed.Height, 210.0) // 300 * 700/1000 from declared height

	resolved, ok := grid.Find(items[1].ID)
	assert.Assert(t, ok)
	assert.Equal(t, resolved.Height, 150.0) // 300 * 300/600 from natural size

	got, _ := c.Item(items[1].ID)
	assert.Equal(t, got.Natural, model.Dimensions{Width: 600, Height: 300})
	got, _ = c.Item(items[0].ID)
	assert.Assert(t, !got.Natural.Known())
}

func TestInit_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gallery.Init(ctx, gallery.Params{
		Items:     testItems(),
		Preloader: stubPreloader{},
		Viewport:  gallery.Viewport{Width: 800},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestToggleFocus_StateMachine(t *testing.T) {
	items := testItems()
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})

	// Unfocused -> Focused(a)
	assert.NilError(t, c.ToggleFocus(items[0].ID))
	id, ok := c.Focused()
	assert.Assert(t, ok)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, c.Grid().FocusedID(), items[0].ID)

	// Focused(a) -> Focused(b)
	assert.NilError(t, c.ToggleFocus(items[3].ID))
	id, _ = c.Focused()
	assert.Equal(t, id, items[3].ID)

	focusCount := 0
	for _, p := range c.Grid().Placements {
		if p.Focused {
			focusCount++
		}
	}
	assert.Equal(t, focusCount, 1)

	// Focused(b) -> Unfocused
	assert.NilError(t, c.ToggleFocus(items[3].ID))
	_, ok = c.Focused()
	assert.Assert(t, !ok)
	assert.Equal(t, c.Grid().FocusedID(), model.ItemID(""))

	// One pass per transition plus the initial one.
	assert.Equal(t, r.count(), 4)
}

func TestToggleFocus_TwiceRestoresLayout(t *testing.T) {
	items := testItems()
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1200, Height: 700})

	before := c.Grid()
	for _, item := range items {
		assert.NilError(t, c.ToggleFocus(item.ID))
		assert.NilError(t, c.ToggleFocus(item.ID))
		assert.DeepEqual(t, c.Grid(), before)
	}
}

func TestToggleFocus_UnknownItem(t *testing.T) {
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})

	err := c.ToggleFocus("nope")
	if !errors.Is(err, gallery.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
	assert.Equal(t, r.count(), 1)
}

func TestToggleFocus_VideoPlayback(t *testing.T) {
	items := testItems()
	video := items[2].ID
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})

	assert.NilError(t, c.ToggleFocus(video))
	assert.DeepEqual(t, r.played, []model.ItemID{video})

	// Focusing an image releases the video.
	assert.NilError(t, c.ToggleFocus(items[0].ID))
	assert.DeepEqual(t, r.paused, []model.ItemID{video})
	assert.DeepEqual(t, r.played, []model.ItemID{video})

	// Images never request playback.
	assert.NilError(t, c.ToggleFocus(items[0].ID))
	assert.Equal(t, len(r.played), 1)

	// Toggling the video off pauses it.
	assert.NilError(t, c.ToggleFocus(video))
	assert.NilError(t, c.ToggleFocus(video))
	assert.DeepEqual(t, r.paused, []model.ItemID{video, video})
}

func TestUnfocus(t *testing.T) {
	items := testItems()
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})

	assert.Assert(t, !c.Unfocus(), "nothing to unfocus yet")
	assert.Equal(t, r.count(), 1)

	assert.NilError(t, c.ToggleFocus(items[2].ID))
	assert.Assert(t, c.Unfocus())
	_, ok := c.Focused()
	assert.Assert(t, !ok)
	assert.DeepEqual(t, r.paused, []model.ItemID{items[2].ID})
}

func waitForRender(t *testing.T, r *recordingRenderer) {
	t.Helper()
	select {
	case <-r.rendered:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a layout pass")
	}
}

func TestResize_BurstProducesOneLayout(t *testing.T) {
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})
	<-r.rendered // initial pass

	widths := []int{1400, 1200, 900, 700, 500}
	for _, w := range widths {
		c.Resize(gallery.Viewport{Width: w, Height: 900})
		time.Sleep(8 * time.Millisecond)
	}

	waitForRender(t, r)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, r.count(), 2)
	assert.Equal(t, c.Columns(), 2)
	grid := r.last()
	assert.Equal(t, grid.Columns, 2)
	assert.Equal(t, grid.ColumnWidth, 250.0)
	assert.Equal(t, c.Viewport().Width, 500)
}

func TestResize_SameColumnsAndWidthIsNoop(t *testing.T) {
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1600, Height: 900, ContainerWidth: 1400})
	<-r.rendered

	// Viewport moves within the 5-column band and the container keeps its size.
	c.Resize(gallery.Viewport{Width: 1700, Height: 900, ContainerWidth: 1400})
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, r.count(), 1)
	assert.Equal(t, c.Viewport().Width, 1700)
}

func TestResize_KeepsFocus(t *testing.T) {
	items := testItems()
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})
	<-r.rendered

	assert.NilError(t, c.ToggleFocus(items[4].ID))
	<-r.rendered

	c.Resize(gallery.Viewport{Width: 350, Height: 600})
	waitForRender(t, r)

	id, ok := c.Focused()
	assert.Assert(t, ok)
	assert.Equal(t, id, items[4].ID)

	focused, _ := r.last().Find(items[4].ID)
	assert.Equal(t, focused.Width, 350.0)
	assert.Equal(t, focused.Height, 540.0) // max(1000/2, floor(0.9*600))
}

func TestResize_ZeroWidthThenMeasured(t *testing.T) {
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{})

	c.Resize(gallery.Viewport{Width: 800, Height: 600})
	waitForRender(t, r)

	assert.Equal(t, c.Passes(), 1)
	assert.Equal(t, c.Grid().Columns, 3)
}

func TestClose_CancelsPendingResize(t *testing.T) {
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})
	<-r.rendered

	c.Resize(gallery.Viewport{Width: 500, Height: 900})
	c.Close()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, r.count(), 1)
	assert.Equal(t, c.Columns(), 5)
}

func TestClose_IgnoresLaterResize(t *testing.T) {
	r := newRecordingRenderer()
	c := newController(t, r, gallery.Viewport{Width: 1500, Height: 900})
	<-r.rendered

	c.Close()
	c.Resize(gallery.Viewport{Width: 500, Height: 900})
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, r.count(), 1)
	assert.Equal(t, c.Columns(), 5)
	assert.Equal(t, c.Viewport().Width, 1500)
}
