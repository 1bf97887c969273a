package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved client configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := c.v.ConfigFileUsed()
			if file == "" {
				file = "(none)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API URL:     %s\n", c.v.GetString("api_url"))
			fmt.Fprintf(out, "Config file: %s\n", file)
			fmt.Fprintf(out, "Log level:   %s\n", c.v.GetString("log_level"))
			return nil
		},
	}
}
