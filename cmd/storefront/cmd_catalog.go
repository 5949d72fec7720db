package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the catalog",
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY")
			for _, p := range c.Products {
				if category != "" && p.CategoryID != category {
					continue
				}
				stock := "-"
				if p.HasStockLimit() {
					stock = fmt.Sprint(*p.Stock)
				}
				catName := p.CategoryID
				if cat := c.FindCategory(p.CategoryID); cat != nil {
					catName = cat.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, a.price(p.Price, c.Currency), stock, catName)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&category, "category", "", "only products in this category id")

	cmd.AddCommand(list)
	return cmd
}
