package main

import (
	"github.com/spf13/cobra"

	"github.com/w-udagawa/vlingual-cards/internal/app"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// The server logs at the configured level regardless of --verbose.
			logger := app.NewLoggerTo(cmd.ErrOrStderr(), cfg.Log)
			return app.Serve(cmd.Context(), cfg, logger)
		},
	}
}
