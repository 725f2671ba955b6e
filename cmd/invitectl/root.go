package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"promptshelf/internal/client"
)

const defaultServer = "http://localhost:8080"

type commandContext struct {
	serverFlag  *string
	timeoutFlag *time.Duration
}

func (c *commandContext) serverURL() string {
	if c.serverFlag != nil {
		if s := strings.TrimSpace(*c.serverFlag); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(os.Getenv("PROMPTSHELF_SERVER")); s != "" {
		return s
	}
	return defaultServer
}

func (c *commandContext) client() *client.Client {
	var opts []client.Option
	if c.timeoutFlag != nil && *c.timeoutFlag > 0 {
		opts = append(opts, client.WithHTTPClient(&http.Client{Timeout: *c.timeoutFlag}))
	}
	return client.New(c.serverURL(), opts...)
}

func newRootCommand() *cobra.Command {
	var serverFlag string
	var timeoutFlag time.Duration

	ctx := &commandContext{serverFlag: &serverFlag, timeoutFlag: &timeoutFlag}

	rootCmd := &cobra.Command{
		Use:           "invitectl",
		Short:         "Invite code board CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "API base URL (default $PROMPTSHELF_SERVER or "+defaultServer+")")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 10*time.Second, "HTTP request timeout")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newSubmitCommand(ctx))
	rootCmd.AddCommand(newMarkCommand(ctx))

	return rootCmd
}
