package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/folio/internal/exporter"
	"github.com/nikbrunner/folio/internal/storage"
)

func (c *cli) newRenderCmd() *cobra.Command {
	var flags viewportFlags

	cmd := &cobra.Command{
		Use:   "render [output]",
		Short: "Render the gallery as static HTML",
		Long: `Render computes a layout pass for the configured viewport and writes the
positioned gallery markup. The output defaults to
~/Downloads/gallery-export-YYYY-MM-DD.html.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.loadCatalog()
			if err != nil {
				return err
			}

			var path string
			if len(args) > 0 {
				if path, err = storage.ExpandPath(args[0]); err != nil {
					return err
				}
			} else if path, err = exporter.DefaultExportPath(); err != nil {
				return fmt.Errorf("export path: %w", err)
			}

			renderer := exporter.NewHTMLRenderer(catalog.Items)
			ctrl, err := c.openGallery(cmd, galleryParams{
				items:     catalog.Items,
				renderer:  renderer,
				viewport:  flags.viewport(c.cfg),
				noPreload: flags.noPreload,
			})
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := flags.applyFocus(ctrl); err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(renderer.HTML()), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			c.logger.Debug("gallery rendered",
				zap.String("path", path),
				zap.Int("passes", renderer.Passes()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d items to %s\n", len(catalog.Items), path)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
