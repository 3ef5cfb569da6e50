package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/folio/internal/storage"
)

var errNoCache = errors.New("no dimension cache configured (set preload.cache)")

func (c *cli) newInspectCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Probe every media source and report its natural dimensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.loadCatalog()
			if err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			progress := func(completed, total int) {
				if !quiet {
					fmt.Fprintf(errOut, "\rProbing %d/%d", completed, total)
				}
			}

			preloader, closeCache, err := c.newPreloader(progress)
			if err != nil {
				return err
			}
			defer closeCache()

			results := preloader.Resolve(cmd.Context(), catalog.Items)
			if !quiet && len(results) > 0 {
				fmt.Fprintln(errOut)
			}

			failed := 0
			t := table.New().Headers("SOURCE", "KIND", "SIZE", "CACHED", "ERROR")
			for _, r := range results {
				size := "-"
				if r.Dimensions.Known() {
					size = fmt.Sprintf("%dx%d", r.Dimensions.Width, r.Dimensions.Height)
				}
				cached := ""
				if r.Cached {
					cached = "yes"
				}
				if r.Error != "" {
					failed++
				}
				t.Row(r.Source, r.Kind.String(), size, cached, r.Error)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t.Render())
			fmt.Fprintf(out, "%d sources, %d unresolved\n", len(results), failed)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	cmd.AddCommand(c.newInspectCacheCmd())
	return cmd
}

func (c *cli) newInspectCacheCmd() *cobra.Command {
	var prune time.Duration

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "List or prune remembered probe results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Preload.Cache == "" {
				return errNoCache
			}
			cache, err := storage.OpenCache(c.cfg.Preload.Cache)
			if err != nil {
				return fmt.Errorf("open dimension cache: %w", err)
			}
			defer cache.Close()

			out := cmd.OutOrStdout()
			if prune > 0 {
				n, err := cache.Prune(time.Now().Add(-prune))
				if err != nil {
					return fmt.Errorf("prune cache: %w", err)
				}
				c.logger.Info("dimension cache pruned",
					zap.String("path", cache.Path()),
					zap.Int("removed", n),
				)
				fmt.Fprintf(out, "Removed %d entries older than %s\n", n, prune)
				return nil
			}

			entries, err := cache.Entries()
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			t := table.New().Headers("SOURCE", "SIZE", "PROBED")
			for _, e := range entries {
				probed := "-"
				if !e.ProbedAt.IsZero() {
					probed = e.ProbedAt.Local().Format(time.DateTime)
				}
				t.Row(e.Source, fmt.Sprintf("%dx%d", e.Dimensions.Width, e.Dimensions.Height), probed)
			}
			fmt.Fprintln(out, t.Render())
			fmt.Fprintf(out, "%d entries in %s\n", len(entries), cache.Path())
			return nil
		},
	}
	cmd.Flags().DurationVar(&prune, "prune", 0, "remove entries probed longer ago than this")
	return cmd
}
