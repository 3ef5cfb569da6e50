package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/folio/internal/layout"
	"github.com/nikbrunner/folio/internal/model"
	"github.com/nikbrunner/folio/internal/search"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type placementOutput struct {
	ID      string  `json:"id"`
	Caption string  `json:"caption"`
	Column  int     `json:"column"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Focused bool    `json:"focused,omitempty"`
}

type layoutOutput struct {
	Columns     int               `json:"columns"`
	ColumnWidth float64           `json:"column_width"`
	Height      float64           `json:"height"`
	Placements  []placementOutput `json:"placements"`
}

func (c *cli) newLayoutCmd() *cobra.Command {
	var flags viewportFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute one layout pass and print the placements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.loadCatalog()
			if err != nil {
				return err
			}

			ctrl, err := c.openGallery(cmd, galleryParams{
				items:     catalog.Items,
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

			out := newLayoutOutput(ctrl.Grid(), ctrl.Items())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			writeLayoutTable(cmd.OutOrStdout(), out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newLayoutOutput(grid layout.Grid, items []model.MediaItem) layoutOutput {
	out := layoutOutput{
		Columns:     grid.Columns,
		ColumnWidth: grid.ColumnWidth,
		Height:      grid.Height,
		Placements:  make([]placementOutput, 0, len(grid.Placements)),
	}
	for _, p := range grid.Placements {
		caption := ""
		if idx := model.IndexOf(items, p.ID); idx >= 0 {
			caption = search.Label(items[idx])
		}
		out.Placements = append(out.Placements, placementOutput{
			ID:      string(p.ID),
			Caption: caption,
			Column:  p.Column,
			X:       p.X,
			Y:       p.Y,
			Width:   p.Width,
			Height:  p.Height,
			Focused: p.Focused,
		})
	}
	return out
}

func writeLayoutTable(w io.Writer, out layoutOutput) {
	fmt.Fprintf(w, "%d columns · column width %s · height %s\n",
		out.Columns, num(out.ColumnWidth), num(out.Height))

	t := table.New().Headers("ID", "COL", "X", "Y", "W", "H", "CAPTION")
	for _, p := range out.Placements {
		col := strconv.Itoa(p.Column)
		if p.Focused {
			col = "focus"
		}
		t.Row(p.ID, col, num(p.X), num(p.Y), num(p.Width), num(p.Height), p.Caption)
	}
	fmt.Fprintln(w, t.Render())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
