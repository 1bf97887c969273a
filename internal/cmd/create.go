package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stockroom/internal/domain"
	"github.com/vbonduro/stockroom/internal/render"
)

// itemFlags are the editable item fields shared by create and edit.
type itemFlags struct {
	name        string
	description string
	group       string
	status      string
	priority    string
	price       string
	quantity    int
	location    string
	tags        string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "item name")
	fs.StringVar(&f.description, "description", "", "free-text description")
	fs.StringVar(&f.group, "group", string(domain.DefaultGroup), "group (Primary, Secondary)")
	fs.StringVar(&f.status, "status", string(domain.DefaultStatus), "status (active, inactive, archived)")
	fs.StringVar(&f.priority, "priority", string(domain.DefaultPriority), "priority (low, medium, high, urgent)")
	fs.StringVar(&f.price, "price", "", "price, e.g. 12.50")
	fs.IntVar(&f.quantity, "quantity", domain.DefaultQuantity, "quantity (at least 1)")
	fs.StringVar(&f.location, "location", "", "where the item is kept")
	fs.StringVar(&f.tags, "tags", "", "comma-separated tags")
}

func (f *itemFlags) draft() (domain.ItemDraft, error) {
	d := domain.NewItemDraft(f.name)
	d.Description = f.description
	d.Location = f.location
	d.Tags = f.tags
	d.Quantity = f.quantity

	var errs []error
	g, err := domain.ParseGroup(f.group)
	errs = append(errs, err)
	d.Group = g
	s, err := domain.ParseStatus(f.status)
	errs = append(errs, err)
	d.Status = s
	p, err := domain.ParsePriority(f.priority)
	errs = append(errs, err)
	d.Priority = p
	if f.price != "" {
		price, err := domain.ParsePrice(f.price)
		errs = append(errs, err)
		if err == nil {
			d.Price = &price
		}
	}
	return d, errors.Join(errs...)
}

func (c *cli) newCreateCmd() *cobra.Command {
	var flags itemFlags
	var output string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !render.ValidFormat(output) {
				return fmt.Errorf("%w: %q", render.ErrUnknownFormat, output)
			}
			d, err := flags.draft()
			if err != nil {
				return err
			}

			item, err := c.store.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			return writeItem(cmd, output, *item)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", render.FormatTable, "output format (table, json, yaml)")
	return cmd
}
