package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/w-udagawa/vlingual-cards/internal/app"
)

func newPrefsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change persisted preferences",
	}

	order := &cobra.Command{
		Use:   "order",
		Short: "Organization display order",
	}
	order.AddCommand(newOrderShowCommand(ctx))
	order.AddCommand(newOrderSetCommand(ctx))
	order.AddCommand(newOrderResetCommand(ctx))

	cmd.AddCommand(order)
	return cmd
}

func newOrderShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored override and the resulting order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(c context.Context, a *app.Components) error {
				return printOrder(c, cmd, a)
			})
		},
	}
}

func newOrderSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <organization>...",
		Short: "Put the named organizations first, in this order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(c context.Context, a *app.Components) error {
				if err := a.Prefs.SetOrganizationOrder(c, args); err != nil {
					return err
				}
				return printOrder(c, cmd, a)
			})
		},
	}
}

func newOrderResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove the override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(c context.Context, a *app.Components) error {
				if err := a.Prefs.ResetOrganizationOrder(c); err != nil {
					return err
				}
				return printOrder(c, cmd, a)
			})
		},
	}
}

func printOrder(ctx context.Context, cmd *cobra.Command, a *app.Components) error {
	override, err := a.Prefs.OrganizationOrder(ctx)
	if err != nil {
		return err
	}
	if _, err := a.Library.Load(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(override) == 0 {
		fmt.Fprintln(out, "Override: none")
	} else {
		fmt.Fprintf(out, "Override: %s\n", strings.Join(override, ", "))
	}
	fmt.Fprintf(out, "Order:    %s\n", strings.Join(a.Library.Catalog().Organizations(), ", "))
	return nil
}
