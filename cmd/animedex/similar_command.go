package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"animedex/internal/app"
	"animedex/internal/catalog"
	"animedex/internal/domain/media"
	"animedex/internal/extract"
	"animedex/internal/prefs"
	"animedex/internal/similar"
)

type similarMode string

const (
	modeRecommend similarMode = "recommend"
	modeAvoid     similarMode = "avoid"
)

func newSimilarCommand(ctx *commandContext, mode similarMode) *cobra.Command {
	var limit int

	short := "List titles similar to one you watched, skipping seen and disliked ones"
	if mode == modeAvoid {
		short = "List titles similar to one you disliked, skipping seen ones"
	}

	cmd := &cobra.Command{
		Use:   string(mode) + " <key>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, st, err := ctx.openPrefs()
			if err != nil {
				return err
			}
			defer st.Close()

			records := catalog.New(catalog.NewSource(cfg.Catalog.Source)).Load(cmd.Context())
			return printSimilar(cmd.OutOrStdout(), mode, records, args[0], store, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", app.ShownMatches, "Maximum titles to print")
	return cmd
}

func printSimilar(w io.Writer, mode similarMode, records []media.Record, key string, store *prefs.Store, limit int) error {
	base, ok := app.Find(records, key)
	if !ok {
		return fmt.Errorf("no title with key %q", key)
	}

	var ms []similar.Match
	if mode == modeAvoid {
		ms = similar.Avoid(base, records, store.Seen())
	} else {
		ms = similar.Recommend(base, records, store.Seen(), store.Disliked())
	}
	if limit > 0 && len(ms) > limit {
		ms = ms[:limit]
	}

	fmt.Fprintf(w, "%s: %s\n", mode, extract.Title(base))
	if len(ms) == 0 {
		fmt.Fprintln(w, "  (no similar titles)")
		return nil
	}
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		v := extract.View(m.Record)
		year := "—"
		if v.HasYear() {
			year = strconv.Itoa(v.Year)
		}
		rows = append(rows, []string{strconv.Itoa(m.Score), v.Key, v.Title, year, v.Type, strings.Join(v.Genres, ", ")})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Score", "Key", "Title", "Year", "Type", "Genres"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
	return nil
}
