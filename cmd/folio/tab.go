package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/folio/internal/site"
)

func (c *cli) newTabCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "tab [hash]",
		Short: "Resolve a URL fragment to the tab it opens",
		Long: `Tab prints the tab a URL fragment selects. The home tab also shows a
randomly picked hero image and the gallery tab shows the requested page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := ""
			if len(args) > 0 {
				hash = args[0]
			}

			name := site.PickTab(hash)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%s\t%s\n", name, site.TabID(name), site.Hash(name))

			switch name {
			case "home":
				catalog, err := c.loadCatalog()
				if err != nil {
					return err
				}
				if hero, ok := site.NewHeroPicker(catalog.Heroes, nil).Pick(); ok {
					fmt.Fprintf(out, "hero\t%s\t%s\n", hero.Src, hero.Alt)
				}
			case "gallery":
				catalog, err := c.loadCatalog()
				if err != nil {
					return err
				}
				pager := site.NewPager(len(catalog.Items), c.cfg.Pagination.GalleryPerPage)
				if page > 0 && !pager.Show(page) {
					return fmt.Errorf("page %d out of range 1-%d", page, pager.TotalPages())
				}
				if pager.Hidden() {
					return nil
				}
				start, end := pager.Range()
				ids := make([]string, 0, end-start)
				for _, item := range catalog.Items[start:end] {
					ids = append(ids, string(item.ID))
				}
				fmt.Fprintf(out, "page\t%d/%d\t%s\n", pager.Current, pager.TotalPages(), strings.Join(ids, ","))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "gallery page to show")
	return cmd
}
