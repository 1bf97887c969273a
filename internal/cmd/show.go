package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stockroom/internal/domain"
	"github.com/vbonduro/stockroom/internal/itemapi"
	"github.com/vbonduro/stockroom/internal/itemstore"
	"github.com/vbonduro/stockroom/internal/render"
)

func (c *cli) newShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			if !render.ValidFormat(output) {
				return fmt.Errorf("%w: %q", render.ErrUnknownFormat, output)
			}

			item, err := lookupItem(cmd.Context(), c.store, c.api, id)
			if err != nil {
				return err
			}
			return writeItem(cmd, output, *item)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", render.FormatTable, "output format (table, json, yaml)")
	return cmd
}

// lookupItem prefers the store's copy and fetches from the service only when
// the store does not hold the item.
func lookupItem(ctx context.Context, st *itemstore.Store, api *itemapi.API, id int64) (*domain.Item, error) {
	if it, ok := st.GetByID(id); ok {
		return &it, nil
	}
	return api.GetItem(ctx, id)
}

func parseItemID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

func writeItem(cmd *cobra.Command, output string, item domain.Item) error {
	if output == render.FormatTable {
		return render.Detail(cmd.OutOrStdout(), item)
	}
	return render.Encode(cmd.OutOrStdout(), output, item)
}
