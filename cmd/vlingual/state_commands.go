package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/w-udagawa/vlingual-cards/internal/app"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Back up or restore persisted preferences and progress",
	}
	cmd.AddCommand(newStateExportCommand(ctx))
	cmd.AddCommand(newStateImportCommand(ctx))
	return cmd
}

func newStateExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every persisted key as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(c context.Context, a *app.Components) error {
				values, err := a.Prefs.Export(c)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(values, "", "  ")
				if err != nil {
					return fmt.Errorf("encode state: %w", err)
				}
				data = append(data, '\n')

				if outPath == "" || outPath == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(outPath, data, 0o600); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d keys to %s\n", len(values), outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newStateImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Restore a backup written by state export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			var values map[string]string
			if err := json.Unmarshal(data, &values); err != nil {
				return fmt.Errorf("decode backup: %w", err)
			}

			return ctx.withApp(cmd, nil, func(c context.Context, a *app.Components) error {
				if err := a.Prefs.Import(c, values); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d keys\n", len(values))
				return nil
			})
		},
	}
}
