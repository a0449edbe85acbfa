package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/w-udagawa/vlingual-cards/internal/dataset"
)

func newCheckCommand() *cobra.Command {
	var showRecords bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a dataset CSV and report accepted and skipped rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			report, err := dataset.Parse(string(data))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Schema:       %s\n", report.Schema)
			fmt.Fprintf(out, "Records:      %d\n", len(report.Records))
			fmt.Fprintf(out, "Skipped rows: %d\n", len(report.Skipped))

			if len(report.Skipped) > 0 {
				rows := make([][]string, 0, len(report.Skipped))
				for _, s := range report.Skipped {
					rows = append(rows, []string{strconv.Itoa(s.Line), string(s.Reason), s.Detail})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable([]string{"Line", "Reason", "Detail"}, rows, []columnAlignment{alignRight}))
			}

			if showRecords && len(report.Records) > 0 {
				rows := make([][]string, 0, len(report.Records))
				for _, r := range report.Records {
					rows = append(rows, []string{
						r.Term,
						r.Translation,
						r.Difficulty.Label(),
						r.PartOfSpeech,
						r.Presenter.Or("-"),
					})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable([]string{"Term", "Translation", "Level", "Part of speech", "Cast"}, rows, nil))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showRecords, "records", false, "List accepted records")
	return cmd
}
