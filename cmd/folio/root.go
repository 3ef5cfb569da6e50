package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/folio/internal/config"
	"github.com/nikbrunner/folio/internal/gallery"
	"github.com/nikbrunner/folio/internal/logging"
	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/preload"
	"github.com/nikbrunner/folio/internal/storage"
)

// cli carries the state shared by every subcommand once flags are parsed.
type cli struct {
	cfgFile  string
	logLevel string

	cfg     config.Config
	logger  *zap.Logger
	closers []func()
}

func newCLI() *cli {
	return &cli{logger: zap.NewNop()}
}

func newRootCmd() *cobra.Command {
	return newCLI().command()
}

// onClose registers fn to run once the command finishes, whether or not it
// failed.
func (c *cli) onClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// close runs the registered closers in reverse order.
func (c *cli) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *cli) command() *cobra.Command {

	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "Masonry portfolio gallery for the terminal",
		Long: `folio lays out a portfolio catalog of images and videos as a masonry
gallery. Run without a subcommand to browse it interactively.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGallery(cmd, false)
		},
	}

	rootCmd.SetVersionTemplate("folio {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (default ./folio.yaml or ~/.config/folio/folio.yaml)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		c.newGalleryCmd(),
		c.newLayoutCmd(),
		c.newRenderCmd(),
		c.newFindCmd(),
		c.newContactCmd(),
		c.newInspectCmd(),
		c.newTabCmd(),
		c.newImportCmd(),
	)
	c.closeAfterRun(rootCmd)
	return rootCmd
}

// closeAfterRun wraps every RunE in the tree so closers run on failure too;
// cobra skips post-run hooks when RunE returns an error.
func (c *cli) closeAfterRun(cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			defer c.close()
			return run(cmd, args)
		}
	}
	for _, sub := range cmd.Commands() {
		c.closeAfterRun(sub)
	}
}

// init loads configuration and builds the logger. The interactive gallery
// logs to the file sink only, since console output would corrupt the screen.
func (c *cli) init(cmd *cobra.Command) error {
	v := config.New(c.cfgFile)
	if cmd.Flags().Changed("log-level") {
		v.Set("logger.level", c.logLevel)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	c.cfg = cfg

	opts := logging.Options{Console: cmd.ErrOrStderr()}
	if interactive(cmd) {
		opts.Console = nil
	}
	logger, cleanup, err := logging.New(cfg.Logger, opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.logger = logger
	c.onClose(cleanup)
	return nil
}

func interactive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "gallery" || cmd.Name() == "find"
}

func (c *cli) loadCatalog() (*model.Catalog, error) {
	store, err := storage.OpenStorage(c.cfg.Catalog)
	if err != nil {
		return nil, err
	}
	catalog, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

// newPreloader builds a preloader backed by the configured dimension cache.
// The returned close func releases the cache.
func (c *cli) newPreloader(progress preload.ProgressFunc) (*preload.Preloader, func(), error) {
	params := preload.Params{
		Concurrency:   c.cfg.Preload.Concurrency,
		Timeout:       c.cfg.Preload.Timeout,
		RateLimit:     c.cfg.Preload.RateLimit,
		MaxProbeBytes: c.cfg.Preload.MaxProbeBytes,
		BaseDir:       c.cfg.Preload.BaseDir,
		Logger:        c.logger.Named("preload"),
		OnProgress:    progress,
	}

	closeCache := func() {}
	if c.cfg.Preload.Cache != "" {
		cache, err := storage.OpenCache(c.cfg.Preload.Cache)
		if err != nil {
			return nil, nil, fmt.Errorf("open dimension cache: %w", err)
		}
		params.Cache = cache
		closeCache = func() {
			if err := cache.Close(); err != nil {
				c.logger.Warn("close dimension cache", zap.Error(err))
			}
		}
	}
	return preload.New(params), closeCache, nil
}

// galleryParams holds what the commands vary when starting a gallery.
type galleryParams struct {
	items     []model.MediaItem
	renderer  gallery.Renderer
	viewport  gallery.Viewport
	noPreload bool
}

// openGallery initializes a controller over items, resolving dimensions first
// unless preloading is disabled.
func (c *cli) openGallery(cmd *cobra.Command, params galleryParams) (*gallery.Controller, error) {
	layoutCfg := c.cfg.Layout()
	gp := gallery.Params{
		Items:          params.items,
		Renderer:       params.renderer,
		Viewport:       params.viewport,
		Layout:         &layoutCfg,
		DebounceWindow: c.cfg.Gallery.Debounce,
		Logger:         c.logger.Named("gallery"),
	}

	if c.cfg.Preload.Enabled && !params.noPreload {
		preloader, closeCache, err := c.newPreloader(nil)
		if err != nil {
			return nil, err
		}
		defer closeCache()
		gp.Preloader = preloader
	}

	return gallery.Init(cmd.Context(), gp)
}

// viewportFlags registers the surface size flags shared by layout and render.
type viewportFlags struct {
	width     int
	height    int
	focus     string
	noPreload bool
}

func (f *viewportFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.width, "width", "W", 0, "viewport width in pixels (default from config)")
	cmd.Flags().IntVarP(&f.height, "height", "H", 0, "viewport height in pixels (default from config)")
	cmd.Flags().StringVarP(&f.focus, "focus", "f", "", "item id to focus")
	cmd.Flags().BoolVar(&f.noPreload, "no-preload", false, "use declared dimensions only")
}

func (f *viewportFlags) viewport(cfg config.Config) gallery.Viewport {
	vp := gallery.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	if f.width > 0 {
		vp.Width = f.width
	}
	if f.height > 0 {
		vp.Height = f.height
	}
	return vp
}

// applyFocus focuses the flagged item, if any.
func (f *viewportFlags) applyFocus(ctrl *gallery.Controller) error {
	if f.focus == "" {
		return nil
	}
	return ctrl.ToggleFocus(model.ItemID(f.focus))
}
