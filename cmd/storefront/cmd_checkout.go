package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fjod/storefront/internal/service"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Price the cart and place an order",
	}

	var shipping string
	quote := &cobra.Command{
		Use:   "quote",
		Short: "Show totals for a shipping method",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg := a.source.CheckoutConfig()
			if shipping == "" {
				shipping = service.DefaultForm(cfg).ShippingMethodID
			}
			if cfg.FindShipping(shipping) == nil {
				return fmt.Errorf("%w: unknown shipping method %q", service.ErrInvalidMethod, shipping)
			}
			return a.printQuote(cmd.OutOrStdout(), a.checkout.Quote(c, cfg, shipping))
		},
	}
	quote.Flags().StringVar(&shipping, "shipping", "", "shipping method id (default: first configured)")

	var form service.CheckoutForm
	place := &cobra.Command{
		Use:   "place",
		Short: "Place an order for the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg := a.source.CheckoutConfig()
			defaults := service.DefaultForm(cfg)
			if form.ShippingMethodID == "" {
				form.ShippingMethodID = defaults.ShippingMethodID
			}
			if form.PaymentMethodID == "" {
				form.PaymentMethodID = defaults.PaymentMethodID
			}
			if form.Country == "" {
				form.Country = defaults.Country
			}

			order, err := a.checkout.PlaceOrder(a.ctx, form, c, cfg)

			var ferr *service.FormError
			if errors.As(err, &ferr) {
				names := make([]string, 0, len(ferr.Fields))
				for name := range ferr.Fields {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", name, ferr.Fields[name])
				}
				return err
			}
			if order == nil {
				return err
			}
			if err := a.tolerate(cmd.ErrOrStderr(), err); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed. Total %s\n",
				order.ID, a.price(order.Totals.Total, order.Currency))
			return nil
		},
	}
	f := place.Flags()
	f.StringVar(&form.FullName, "name", "", "full name")
	f.StringVar(&form.Email, "email", "", "email address")
	f.StringVar(&form.Phone, "phone", "", "phone number")
	f.StringVar(&form.Address1, "address", "", "street address")
	f.StringVar(&form.City, "city", "", "city")
	f.StringVar(&form.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&form.Country, "country", "", "country (default "+service.DefaultCountry+")")
	f.StringVar(&form.ShippingMethodID, "shipping", "", "shipping method id (default: first configured)")
	f.StringVar(&form.PaymentMethodID, "payment", "", "payment method id (default: first configured)")

	cmd.AddCommand(quote, place)
	return cmd
}
