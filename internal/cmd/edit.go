package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stockroom/internal/domain"
	"github.com/vbonduro/stockroom/internal/render"
)

var errNothingToUpdate = errors.New("nothing to update: pass at least one field flag")

func (c *cli) newEditCmd() *cobra.Command {
	var flags itemFlags
	var clearPrice bool
	var output string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an item",
		Long:  "Only the flags given on the command line are sent; other fields keep their current values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			if !render.ValidFormat(output) {
				return fmt.Errorf("%w: %q", render.ErrUnknownFormat, output)
			}
			if clearPrice && cmd.Flags().Changed("price") {
				return errors.New("--price and --clear-price cannot be used together")
			}

			patch, err := flags.patch(cmd, clearPrice)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return errNothingToUpdate
			}

			item, err := c.store.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return writeItem(cmd, output, *item)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&clearPrice, "clear-price", false, "remove the item's price")
	cmd.Flags().StringVarP(&output, "output", "o", render.FormatTable, "output format (table, json, yaml)")
	return cmd
}

// patch includes only the flags the user actually set.
func (f *itemFlags) patch(cmd *cobra.Command, clearPrice bool) (domain.ItemPatch, error) {
	changed := cmd.Flags().Changed
	p := domain.ItemPatch{ClearPrice: clearPrice}

	if changed("name") {
		p.Name = domain.Ptr(f.name)
	}
	if changed("description") {
		p.Description = domain.Ptr(f.description)
	}
	if changed("location") {
		p.Location = domain.Ptr(f.location)
	}
	if changed("tags") {
		p.Tags = domain.Ptr(f.tags)
	}
	if changed("quantity") {
		p.Quantity = domain.Ptr(f.quantity)
	}

	var errs []error
	if changed("group") {
		g, err := domain.ParseGroup(f.group)
		errs = append(errs, err)
		p.Group = &g
	}
	if changed("status") {
		s, err := domain.ParseStatus(f.status)
		errs = append(errs, err)
		p.Status = &s
	}
	if changed("priority") {
		pr, err := domain.ParsePriority(f.priority)
		errs = append(errs, err)
		p.Priority = &pr
	}
	if changed("price") {
		price, err := domain.ParsePrice(f.price)
		errs = append(errs, err)
		p.Price = &price
	}
	return p, errors.Join(errs...)
}
