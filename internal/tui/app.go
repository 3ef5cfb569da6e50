package tui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nikbrunner/folio/internal/gallery"
	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/search"
	"github.com/nikbrunner/folio/internal/tui/frame"
)

// ErrNoOpener is reported when a link is activated but no way to open it was configured.
var ErrNoOpener = errors.New("no URL opener configured")

// App is the main bubbletea model for the terminal gallery.
type App struct {
	gallery  *gallery.Controller
	renderer *Renderer
	keys     KeyMap
	styles   Styles
	frame    frame.Config
	help     help.Model
	logger   *zap.Logger

	copySource func(string) error
	openURL    func(string) error

	mode     Mode
	selected model.ItemID
	search   SearchState

	messageText string
	messageType MessageType

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Gallery  *gallery.Controller
	Renderer *Renderer     // optional, the renderer the gallery was initialized with
	Keys     *KeyMap       // optional, uses default if nil
	Styles   *Styles       // optional, uses default if nil
	Frame    *frame.Config // optional, uses default if nil
	Logger   *zap.Logger   // optional

	Clipboard func(string) error // optional, system clipboard if nil
	OpenURL   func(string) error // optional, links cannot be opened if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := frame.DefaultConfig()
	if params.Frame != nil {
		cfg = *params.Frame
	}

	renderer := params.Renderer
	if renderer == nil {
		renderer = NewRenderer()
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	copySource := params.Clipboard
	if copySource == nil {
		copySource = clipboard.WriteAll
	}

	openURL := params.OpenURL
	if openURL == nil {
		openURL = func(string) error { return ErrNoOpener }
	}

	app := App{
		gallery:    params.Gallery,
		renderer:   renderer,
		keys:       keys,
		styles:     styles,
		frame:      cfg,
		help:       help.New(),
		logger:     logger,
		copySource: copySource,
		openURL:    openURL,
		search:     NewSearchState(cfg),
		width:      80,
		height:     24,
	}

	if items := app.gallery.Items(); len(items) > 0 {
		app.selected = items[0].ID
	}
	return app
}

// Selected returns the ID of the item under the cursor.
func (a App) Selected() model.ItemID {
	return a.selected
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the current status line text.
func (a App) Message() string {
	return a.messageText
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resizeGallery()
		return a, nil

	case gridMsg:
		// The view reads the controller directly; the message only triggers
		// a repaint. Keep the cursor on an item that still exists.
		if _, ok := msg.grid.Find(a.selected); !ok && len(msg.grid.Placements) > 0 {
			a.selected = msg.grid.Placements[0].ID
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeHelp:
			if key.Matches(msg, a.keys.Help, a.keys.Quit, a.keys.Unfocus) {
				a.mode = ModeNormal
			}
			return a, nil
		}
		return a.updateNormal(msg)
	}

	return a, nil
}

// resizeGallery converts the canvas size to pixels and hands it to the
// controller, which debounces it.
func (a App) resizeGallery() {
	w, h := frame.CanvasSize(a.width, a.height, a.frame.Canvas)
	pw, ph := frame.PixelSize(w, h, a.frame.Cell)
	a.gallery.Resize(gallery.Viewport{Width: pw, Height: ph})
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.clearMessage()

	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.lastKeyWasG = false
			a.selectIndex(0)
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		a.selectIndex(a.selectedIndex() + 1)

	case key.Matches(msg, a.keys.Up):
		a.selectIndex(a.selectedIndex() - 1)

	case key.Matches(msg, a.keys.Bottom):
		a.selectIndex(len(a.gallery.Items()) - 1)

	case key.Matches(msg, a.keys.Left):
		a.selectNeighbor(-1)

	case key.Matches(msg, a.keys.Right):
		a.selectNeighbor(1)

	case key.Matches(msg, a.keys.Focus):
		a.activate()

	case key.Matches(msg, a.keys.Unfocus):
		if a.gallery.Unfocus() {
			a.logger.Debug("item unfocused")
		}

	case key.Matches(msg, a.keys.YankSource):
		a.yankSource()

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.search.Reset()
		return a, a.search.Input.Focus()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// activate toggles focus on the selected item. A focused item with an
// outbound link opens the link instead.
func (a *App) activate() {
	item, ok := a.gallery.Item(a.selected)
	if !ok {
		return
	}

	if focused, _ := a.gallery.Focused(); focused == item.ID && item.Link != "" {
		if err := a.openURL(item.Link); err != nil {
			a.setError(fmt.Sprintf("Open failed: %v", err))
			return
		}
		a.setMessage("Opened: " + item.Link)
		return
	}

	if err := a.gallery.ToggleFocus(item.ID); err != nil {
		a.logger.Warn("toggle focus failed", zap.String("id", string(item.ID)), zap.Error(err))
		a.setError(err.Error())
		return
	}
	a.logger.Debug("focus toggled", zap.String("id", string(item.ID)))
}

func (a *App) yankSource() {
	item, ok := a.gallery.Item(a.selected)
	if !ok {
		return
	}
	if err := a.copySource(item.Source()); err != nil {
		a.setError(fmt.Sprintf("Copy failed: %v", err))
		return
	}
	a.setMessage("Copied: " + item.Source())
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		a.mode = ModeNormal
		a.search.Input.Blur()
		return a, nil

	case tea.KeyEnter:
		if result, ok := a.search.Current(); ok {
			a.selected = result.Item.ID
		}
		a.mode = ModeNormal
		a.search.Input.Blur()
		return a, nil

	case tea.KeyDown, tea.KeyCtrlN:
		a.search.Move(1)
		return a, nil

	case tea.KeyUp, tea.KeyCtrlP:
		a.search.Move(-1)
		return a, nil
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	a.search.Results = search.FuzzySearchItems(a.gallery.Items(), a.search.Input.Value())
	a.search.Cursor = min(a.search.Cursor, max(len(a.search.Results)-1, 0))
	return a, cmd
}

func (a *App) setMessage(text string) {
	a.messageText = text
	a.messageType = MessageInfo
}

func (a *App) setError(text string) {
	a.messageText = text
	a.messageType = MessageError
}

func (a *App) clearMessage() {
	a.messageText = ""
	a.messageType = MessageNone
}
