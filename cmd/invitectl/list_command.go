package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the invite board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.client().List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(resp.Invites) == 0 {
				fmt.Fprintln(out, "Invite board is empty")
				return nil
			}
			fmt.Fprintln(out, renderBoard(resp.Invites))
			fmt.Fprintln(out, renderStats(resp.Stats))
			return nil
		},
	}
}
