package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/w-udagawa/vlingual-cards/internal/app"
	"github.com/w-udagawa/vlingual-cards/internal/service/library"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var source string
	var showVideos bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the casts and videos of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, applySource(source), func(c context.Context, a *app.Components) error {
				st, err := a.Library.Load(c)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printStatus(out, st)

				cat := a.Library.Catalog()
				casts := cat.Casts()
				if showVideos {
					var rows [][]string
					for _, cast := range casts {
						for _, v := range cast.Videos {
							rows = append(rows, []string{cast.Name, v.ID, v.Title, strconv.Itoa(v.Count())})
						}
					}
					fmt.Fprintln(out, renderTable([]string{"Cast", "Video", "Title", "Words"}, rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
				} else {
					rows := make([][]string, 0, len(casts))
					for _, cast := range casts {
						rows = append(rows, []string{
							cast.Organization.Or("-"),
							cast.Name,
							cast.ID,
							strconv.Itoa(len(cast.Videos)),
							strconv.Itoa(cast.WordCount),
						})
					}
					fmt.Fprintln(out, renderTable([]string{"Organization", "Cast", "ID", "Videos", "Words"}, rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
				}

				for _, s := range cat.Skipped() {
					fmt.Fprintf(out, "skipped %q: no video id in %q\n", s.Term, s.VideoURL)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Dataset file path or URL (overrides config)")
	cmd.Flags().BoolVar(&showVideos, "videos", false, "List every video instead of casts")
	return cmd
}

func printStatus(out io.Writer, st library.Status) {
	switch {
	case st.Error != "":
		fmt.Fprintf(out, "Dataset unavailable (%s); showing %d sample words.\n\n", st.Error, st.Count)
	case st.Fallback:
		fmt.Fprintf(out, "No dataset configured; showing %d sample words.\n\n", st.Count)
	default:
		fmt.Fprintf(out, "Dataset %s: %d words, schema %s, %d skipped rows.\n\n", st.Source, st.Count, st.Schema, st.Skipped)
	}
}
