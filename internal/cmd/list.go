package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stockroom/internal/domain"
	"github.com/vbonduro/stockroom/internal/render"
)

func (c *cli) newListCmd() *cobra.Command {
	var group, status, output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f domain.Filter
			if group != "" {
				g, err := domain.ParseGroup(group)
				if err != nil {
					return err
				}
				f.Group = g
			}
			if status != "" {
				s, err := domain.ParseStatus(status)
				if err != nil {
					return err
				}
				f.Status = s
			}
			if !render.ValidFormat(output) {
				return fmt.Errorf("%w: %q", render.ErrUnknownFormat, output)
			}

			if err := c.store.Refresh(cmd.Context()); err != nil {
				return err
			}

			items := c.store.Filtered(f)
			if output == render.FormatTable {
				return render.Table(cmd.OutOrStdout(), items)
			}
			return render.Encode(cmd.OutOrStdout(), output, items)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "only items in this group (Primary, Secondary)")
	cmd.Flags().StringVar(&status, "status", "", "only items with this status (active, inactive, archived)")
	cmd.Flags().StringVarP(&output, "output", "o", render.FormatTable, "output format (table, json, yaml)")
	return cmd
}
