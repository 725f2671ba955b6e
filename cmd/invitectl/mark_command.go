package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"promptshelf/internal/board"
)

type markTarget struct {
	code string
	slot int
}

func parseMarkArgs(args []string) ([]markTarget, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errors.New("expected CODE SLOT pairs")
	}
	targets := make([]markTarget, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		slot, err := strconv.Atoi(args[i+1])
		if err != nil || slot < 1 || slot > 4 {
			return nil, fmt.Errorf("invalid slot %q for %s: must be 1-4", args[i+1], args[i])
		}
		targets = append(targets, markTarget{
			code: strings.ToUpper(strings.TrimSpace(args[i])),
			slot: slot,
		})
	}
	return targets, nil
}

func newMarkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mark CODE SLOT [CODE SLOT ...]",
		Short: "Mark invite slots as used and print the updated board",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := parseMarkArgs(args)
			if err != nil {
				return err
			}

			api := ctx.client()
			resp, err := api.List(cmd.Context())
			if err != nil {
				return err
			}
			b := board.New(resp.Invites, api)

			out := cmd.OutOrStdout()
			failed := 0
			for _, t := range targets {
				if err := b.Mark(cmd.Context(), t.code, t.slot); err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s slot %d: %v\n", t.code, t.slot, err)
					continue
				}
				fmt.Fprintf(out, "%s slot %d marked\n", t.code, t.slot)
			}

			fmt.Fprintln(out, renderBoard(b.Rows()))
			if failed > 0 {
				return fmt.Errorf("%d of %d marks failed", failed, len(targets))
			}
			return nil
		},
	}
}
