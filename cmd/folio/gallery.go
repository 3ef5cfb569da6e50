package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/folio/internal/tui"
)

func (c *cli) newGalleryCmd() *cobra.Command {
	var noPreload bool

	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Browse the gallery interactively (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGallery(cmd, noPreload)
		},
	}
	cmd.Flags().BoolVar(&noPreload, "no-preload", false, "use declared dimensions only")
	return cmd
}

// runGallery hosts a gallery controller in the terminal UI. The first pass
// is skipped until the program reports the window size.
func (c *cli) runGallery(cmd *cobra.Command, noPreload bool) error {
	catalog, err := c.loadCatalog()
	if err != nil {
		return err
	}

	if c.cfg.Preload.Enabled && !noPreload {
		fmt.Fprintf(cmd.ErrOrStderr(), "Resolving %d media sources...\n", len(catalog.Items))
	}

	renderer := tui.NewRenderer()
	ctrl, err := c.openGallery(cmd, galleryParams{
		items:     catalog.Items,
		renderer:  renderer,
		noPreload: noPreload,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	app := tui.NewApp(tui.AppParams{
		Gallery:  ctrl,
		Renderer: renderer,
		Logger:   c.logger.Named("tui"),
		OpenURL:  openURL,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	renderer.Attach(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run gallery: %w", err)
	}

	c.logger.Debug("gallery closed",
		zap.Int("passes", ctrl.Passes()),
		zap.Int("columns", ctrl.Columns()),
	)
	return nil
}
