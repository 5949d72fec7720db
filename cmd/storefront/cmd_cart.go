package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/pricing"
	"github.com/fjod/storefront/internal/service"
	"github.com/spf13/cobra"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show cart lines and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg := a.source.CheckoutConfig()
			q := a.checkout.Quote(c, cfg, service.DefaultForm(cfg).ShippingMethodID)
			return a.printQuote(cmd.OutOrStdout(), q)
		},
	}

	add := &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add units of a product, up to its stock",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1.0
			if len(args) == 2 {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("invalid quantity %q: %w", args[1], err)
				}
				qty = v
			}
			p, err := a.product(cmd, args[0])
			if err != nil {
				return err
			}
			before := a.cart.Count()
			if err := a.tolerate(cmd.ErrOrStderr(), a.cart.AddToCart(a.ctx, p.ID, qty, p.Stock)); err != nil {
				return err
			}
			if a.cart.Count() == before {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already at the available limit\n", p.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cart: %d item(s)\n", a.cart.Count())
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a product; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			c, err := a.catalog(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			var maxQty *int
			if p := c.FindProduct(args[0]); p != nil {
				maxQty = p.Stock
			}
			if err := a.tolerate(cmd.ErrOrStderr(), a.cart.SetQuantity(a.ctx, args[0], qty, maxQty)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cart: %d item(s)\n", a.cart.Count())
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tolerate(cmd.ErrOrStderr(), a.cart.RemoveFromCart(a.ctx, args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cart: %d item(s)\n", a.cart.Count())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tolerate(cmd.ErrOrStderr(), a.cart.ClearCart(a.ctx)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cart: empty")
			return nil
		},
	}

	cmd.AddCommand(show, add, set, remove, clearCmd)
	return cmd
}

func (a *app) product(cmd *cobra.Command, id string) (*domain.Product, error) {
	c, err := a.catalog(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	p := c.FindProduct(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", service.ErrProductNotFound, id)
	}
	return p, nil
}

func (a *app) printQuote(w io.Writer, q pricing.Quote) error {
	if len(q.Lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tUNIT\tTOTAL")
	for _, l := range q.Lines {
		if l.Product == nil {
			fmt.Fprintf(tw, "%s\t%d\t-\tno longer available\n", l.Item.ProductID, l.Item.Quantity)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.Product.Name, l.Item.Quantity,
			a.price(l.Product.Price, q.Currency), a.price(l.LineTotal, q.Currency))
	}
	fmt.Fprintln(tw, "\t\t\t")
	fmt.Fprintf(tw, "Subtotal\t\t\t%s\n", a.price(q.Totals.Subtotal, q.Currency))
	fmt.Fprintf(tw, "Shipping\t\t\t%s\n", a.price(q.Totals.Shipping, q.Currency))
	fmt.Fprintf(tw, "Tax (%s%%)\t\t\t%s\n", q.TaxRate.Shift(2).String(), a.price(q.Totals.Tax, q.Currency))
	fmt.Fprintf(tw, "Total\t\t\t%s\n", a.price(q.Totals.Total, q.Currency))
	if err := tw.Flush(); err != nil {
		return err
	}
	if err := q.Err(); err != nil {
		fmt.Fprintln(w, "warning:", err)
	}
	return nil
}
