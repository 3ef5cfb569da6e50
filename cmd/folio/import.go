package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/folio/internal/importer"
	"github.com/nikbrunner/folio/internal/site"
	"github.com/nikbrunner/folio/internal/storage"
)

var errNoOutput = errors.New("no output path: pass --out or set catalog")

func (c *cli) newImportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import <site.html>",
		Short: "Build a catalog from the portfolio site markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open page: %w", err)
			}
			defer f.Close()

			page, err := importer.ParsePage(f)
			if err != nil {
				return err
			}

			catalog, err := importer.CatalogFromPage(page)
			if err != nil {
				return fmt.Errorf("build catalog: %w", err)
			}

			path := output
			if path == "" {
				path = c.cfg.Catalog
			}
			if path == "" {
				return errNoOutput
			}
			path, err = storage.ExpandPath(path)
			if err != nil {
				return err
			}
			if err := storage.NewJSONStorage(path).Save(catalog); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d items and %d hero images to %s\n", len(catalog.Items), len(catalog.Heroes), path)
			writeShopPages(out, page.ShopCards, c.cfg.Pagination.ShopPerPage)
			c.writeCarousels(out, page.Carousels)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "", "catalog file to write (default: catalog from config)")
	return cmd
}

// writeShopPages summarizes how the shop cards paginate.
func writeShopPages(w io.Writer, cards []importer.Card, perPage int) {
	if len(cards) == 0 {
		return
	}
	sections := make([]string, len(cards))
	for i, card := range cards {
		sections[i] = card.Section
	}

	pager := site.NewPager(len(cards), perPage)
	for {
		fmt.Fprintf(w, "shop page %d/%d: %s\n", pager.Current, pager.TotalPages(), strings.Join(pager.SectionLabels(sections), ", "))
		if !pager.Next() {
			break
		}
	}
}

// writeCarousels summarizes each product carousel. Carousels whose media
// list is missing or malformed are skipped.
func (c *cli) writeCarousels(w io.Writer, carousels []importer.Carousel) {
	for i, raw := range carousels {
		if raw.Invalid {
			c.logger.Warn("carousel skipped, data-media is not a JSON list", zap.Int("carousel", i))
			continue
		}
		carousel, err := site.NewCarousel(raw.Media)
		if err != nil {
			continue
		}
		videos := 0
		for _, m := range raw.Media {
			if site.IsVideo(m) {
				videos++
			}
		}
		fmt.Fprintf(w, "carousel %d: %d media, %d videos, starts at %s\n", i+1, carousel.Len(), videos, carousel.Current())
	}
}
