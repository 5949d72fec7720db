package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront cart, checkout and order history",
		Long: `storefront keeps a shopping cart and an order history in durable storage.

The catalog and checkout settings come from built-in documents, files named by
CATALOG_PATH and CHECKOUT_PATH, or an override saved with "admin catalog import".
The site's branding and home page copy work the same way with SITE_PATH and
"admin site import".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to the console")
	root.PersistentFlags().StringVar(&a.localeID, "locale", "", "display locale, e.g. es-ES or en-US (default from LOCALE)")

	root.AddCommand(
		newCatalogCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newOrdersCmd(a),
		newSiteCmd(a),
		newAdminCmd(a),
	)
	return root
}

// execute runs root and then releases whatever setup opened, also when the
// command fails.
func execute(a *app, root *cobra.Command) error {
	defer a.teardown()
	return root.Execute()
}
