package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/picker"
	"github.com/nikbrunner/folio/internal/search"
)

func (c *cli) newFindCmd() *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search captions, pick a match and print or open it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFind(cmd, strings.Join(args, " "), open)
		},
	}
	cmd.Flags().BoolVarP(&open, "open", "o", false, "open the item's link (or source) in the browser")
	return cmd
}

func (c *cli) runFind(cmd *cobra.Command, query string, open bool) error {
	catalog, err := c.loadCatalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	results := search.FuzzySearchItems(catalog.Items, query)
	if len(results) == 0 {
		fmt.Fprintf(out, "No items found for '%s'\n", query)
		return nil
	}

	var selected model.MediaItem
	if len(results) == 1 {
		selected = results[0].Item
	} else {
		p := picker.New(results, query)
		program := tea.NewProgram(p,
			tea.WithContext(cmd.Context()),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.ErrOrStderr()),
		)
		finalModel, err := program.Run()
		if err != nil {
			return fmt.Errorf("run picker: %w", err)
		}

		finalPicker := finalModel.(picker.Picker)
		item, ok := finalPicker.Selected()
		if finalPicker.Cancelled() || !ok {
			return nil
		}
		selected = item
	}

	fmt.Fprintf(out, "%s\t%s\t%s\n", selected.ID, search.Label(selected), selected.Source())
	if selected.Link != "" {
		fmt.Fprintf(out, "link\t%s\n", selected.Link)
	}

	if !open {
		return nil
	}
	target := selected.Link
	if target == "" {
		target = selected.Source()
	}
	fmt.Fprintf(out, "Opening: %s\n", target)
	return openURL(target)
}
