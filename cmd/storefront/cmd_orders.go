package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Browse the order history",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders := a.orders.GetOrders(a.ctx)
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders yet.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tITEMS\tTOTAL")
			for _, o := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", o.ID, o.CreatedAt.Local().Format(time.DateTime),
					o.ItemCount(), a.price(o.Totals.Total, o.Currency))
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.orders.FindOrderByID(a.ctx, args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Order %s\n", o.ID)
			fmt.Fprintf(w, "Placed:   %s\n", o.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(w, "Customer: %s <%s> %s\n", o.Customer.FullName, o.Customer.Email, o.Customer.Phone)
			fmt.Fprintf(w, "Ship to:  %s, %s %s, %s\n", o.Customer.Address1, o.Customer.PostalCode, o.Customer.City, o.Customer.Country)
			fmt.Fprintf(w, "Shipping: %s\n", o.Shipping.Name)
			fmt.Fprintf(w, "Payment:  %s\n\n", o.Payment.Name)

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tQTY\tUNIT\tTOTAL")
			for _, it := range o.Items {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", it.Name, it.Quantity,
					a.price(it.UnitPrice, o.Currency), a.price(it.LineTotal, o.Currency))
			}
			fmt.Fprintln(tw, "\t\t\t")
			fmt.Fprintf(tw, "Subtotal\t\t\t%s\n", a.price(o.Totals.Subtotal, o.Currency))
			fmt.Fprintf(tw, "Shipping\t\t\t%s\n", a.price(o.Totals.Shipping, o.Currency))
			fmt.Fprintf(tw, "Tax\t\t\t%s\n", a.price(o.Totals.Tax, o.Currency))
			fmt.Fprintf(tw, "Total\t\t\t%s\n", a.price(o.Totals.Total, o.Currency))
			return tw.Flush()
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
