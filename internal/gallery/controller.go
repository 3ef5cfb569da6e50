package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/folio/internal/layout"
	"github.com/nikbrunner/folio/internal/model"
)

// ErrUnknownItem is returned when an operation names an item the gallery does not hold.
var ErrUnknownItem = errors.New("unknown gallery item")

// Params holds parameters for initializing a gallery.
type Params struct {
	Items     []model.MediaItem
	Renderer  Renderer  // optional, discards passes if nil
	Preloader Preloader // optional, declared dimensions only if nil
	Viewport  Viewport

	Layout         *layout.Config // optional, uses default if nil
	DebounceWindow time.Duration  // optional, DefaultDebounceWindow if zero
	Logger         *zap.Logger    // optional, no-op if nil
}

// Controller owns the gallery items and focus state. It recomputes the layout
// on focus toggles and on debounced resizes and hands each pass to the
// renderer. All entry points are serialized.
type Controller struct {
	mu sync.Mutex

	items    []model.MediaItem
	cfg      layout.Config
	renderer Renderer
	resize   *Debouncer
	logger   *zap.Logger

	viewport       Viewport
	columns        int
	containerWidth int
	focused        model.ItemID // "" = unfocused

	grid   layout.Grid
	passes int
}

// Init resolves media dimensions, performs the first layout pass and returns
// the controller. The first pass is skipped when the viewport has no width
// yet; the next Resize will lay out.
func Init(ctx context.Context, params Params) (*Controller, error) {
	cfg := layout.DefaultConfig()
	if params.Layout != nil {
		cfg = *params.Layout
	}

	renderer := params.Renderer
	if renderer == nil {
		renderer = NopRenderer{}
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	items := params.Items
	if params.Preloader != nil {
		dims := params.Preloader.Preload(ctx, items)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("preload media: %w", err)
		}
		items = mergeDimensions(items, dims)

		resolved := 0
		for _, item := range items {
			if item.Natural.Known() {
				resolved++
			}
		}
		logger.Debug("media dimensions resolved",
			zap.Int("items", len(items)),
			zap.Int("resolved", resolved),
			zap.Int("fallback", len(items)-resolved),
		)
	}

	c := &Controller{
		items:          items,
		cfg:            cfg,
		renderer:       renderer,
		resize:         NewDebouncer(params.DebounceWindow),
		logger:         logger,
		viewport:       params.Viewport,
		columns:        layout.ColumnsForWidth(params.Viewport.Width, cfg.Breakpoints),
		containerWidth: params.Viewport.containerWidth(),
	}

	c.mu.Lock()
	c.relayout()
	c.mu.Unlock()

	return c, nil
}

// mergeDimensions replaces items wholesale with copies carrying natural dimensions.
func mergeDimensions(items []model.MediaItem, dims map[string]model.Dimensions) []model.MediaItem {
	result := make([]model.MediaItem, len(items))
	for i, item := range items {
		if d, ok := dims[item.Source()]; ok && d.Known() {
			item = item.WithNatural(d)
		}
		result[i] = item
	}
	return result
}

// ToggleFocus focuses the item, or unfocuses it if it already has focus.
// Focusing a different item implicitly releases the previous one.
func (c *Controller) ToggleFocus(id model.ItemID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := model.IndexOf(c.items, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	prev := c.focused
	if prev == id {
		c.focused = ""
	} else {
		c.focused = id
	}

	c.relayout()

	if prev != "" {
		c.pauseIfVideo(prev)
	}
	if c.focused != "" && c.items[idx].IsVideo() {
		c.renderer.RequestPlayback(c.items[idx])
	}

	c.logger.Debug("focus toggled",
		zap.String("item", string(id)),
		zap.String("previous", string(prev)),
		zap.Bool("focused", c.focused != ""),
	)
	return nil
}

// Unfocus clears focus, if any. It returns false when nothing was focused.
func (c *Controller) Unfocus() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.focused == "" {
		return false
	}
	prev := c.focused
	c.focused = ""
	c.relayout()
	c.pauseIfVideo(prev)
	return true
}

func (c *Controller) pauseIfVideo(id model.ItemID) {
	if idx := model.IndexOf(c.items, id); idx >= 0 && c.items[idx].IsVideo() {
		c.renderer.RequestPause(c.items[idx])
	}
}

// Resize records a viewport sample. Samples arriving within the debounce
// window collapse into one; only the last is applied. After Close it does
// nothing.
func (c *Controller) Resize(vp Viewport) {
	c.resize.Trigger(func() {
		c.applyResize(vp)
	})
}

// applyResize re-lays out when the column count or the container width
// changed. Focus is left untouched.
func (c *Controller) applyResize(vp Viewport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	columns := layout.ColumnsForWidth(vp.Width, c.cfg.Breakpoints)
	containerWidth := vp.containerWidth()
	changed := columns != c.columns || containerWidth != c.containerWidth

	c.viewport = vp
	c.columns = columns
	c.containerWidth = containerWidth

	if !changed {
		c.logger.Debug("resize without layout change",
			zap.Int("viewport_width", vp.Width),
			zap.Int("columns", columns),
		)
		return
	}
	c.relayout()
}

// relayout runs one full pass and renders it. Callers hold c.mu.
func (c *Controller) relayout() {
	grid, err := layout.Compute(c.items, layout.Params{
		ContainerWidth: float64(c.containerWidth),
		Columns:        c.columns,
		ViewportHeight: float64(c.viewport.Height),
		Focused:        c.focused,
	}, c.cfg)
	if err != nil {
		if errors.Is(err, layout.ErrNoContainerWidth) {
			c.logger.Debug("layout skipped before container was measured")
			return
		}
		c.logger.Warn("layout failed", zap.Error(err))
		return
	}

	// A focused id that vanished from the items behaves as no focus.
	if c.focused != "" && grid.FocusedID() == "" {
		c.focused = ""
	}

	c.grid = grid
	c.passes++

	c.logger.Debug("layout pass",
		zap.Int("pass", c.passes),
		zap.Int("columns", grid.Columns),
		zap.Int("container_width", c.containerWidth),
		zap.String("focused", string(c.focused)),
		zap.Int("items", len(grid.Placements)),
		zap.Float64("height", grid.Height),
	)

	c.renderer.Render(grid)
}

// Grid returns the most recent layout pass.
func (c *Controller) Grid() layout.Grid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid
}

// Focused returns the focused item ID and whether any item is focused.
func (c *Controller) Focused() (model.ItemID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused, c.focused != ""
}

// Items returns the gallery items, with resolved dimensions applied.
func (c *Controller) Items() []model.MediaItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.MediaItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns one gallery item by ID.
func (c *Controller) Item(id model.ItemID) (model.MediaItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := model.IndexOf(c.items, id); idx >= 0 {
		return c.items[idx], true
	}
	return model.MediaItem{}, false
}

// Columns returns the current column count.
func (c *Controller) Columns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.columns
}

// Viewport returns the last applied viewport sample.
func (c *Controller) Viewport() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// Passes returns how many layout passes have been rendered.
func (c *Controller) Passes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passes
}

// Close cancels any pending resize. Later Resize calls are ignored.
func (c *Controller) Close() {
	c.resize.Stop()
}
