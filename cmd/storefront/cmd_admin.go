package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newAdminCmd(a *app) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog administration (PIN protected)",
	}
	cmd.PersistentFlags().StringVar(&pin, "pin", "", "admin PIN")

	authorize := func() error {
		if err := a.auth.Check(pin); err != nil {
			return fmt.Errorf("wrong admin PIN: %w", err)
		}
		return nil
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the catalog override",
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the catalog with a YAML or JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			c, err := catalog.ParseCatalog(data)
			if err != nil {
				return err
			}
			if err := a.source.SetOverride(a.ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog override saved: %d product(s)\n", len(c.Products))
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the catalog in effect as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.source.Catalog(a.ctx))
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Go back to the default catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			if err := a.source.ResetOverride(a.ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "catalog override removed")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether an override is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.source.HasOverride(a.ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog: override")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog: default")
			}
			return nil
		},
	}

	catalogCmd.AddCommand(importCmd, exportCmd, resetCmd, statusCmd)
	catalogCmd.AddCommand(newProductCmds(a, authorize)...)

	hashCmd := &cobra.Command{
		Use:   "hash-pin <pin>",
		Short: "Print a bcrypt hash for ADMIN_PIN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := catalog.HashPIN(args[0], bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.AddCommand(catalogCmd, newAdminSiteCmd(a, authorize), hashCmd)
	return cmd
}

type productFlags struct {
	name        string
	description string
	price       string
	stock       int
	unlimited   bool
	category    string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price, e.g. 12.90")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "units available")
	cmd.Flags().BoolVar(&f.unlimited, "unlimited", false, "no stock limit")
	cmd.Flags().StringVar(&f.category, "category", "", "category id")
	cmd.MarkFlagsMutuallyExclusive("stock", "unlimited")
}

// patch keeps only the flags given on the command line.
func (f *productFlags) patch(cmd *cobra.Command) (catalog.ProductPatch, error) {
	var p catalog.ProductPatch
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = &f.name
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("price") {
		price, err := decimal.NewFromString(f.price)
		if err != nil {
			return p, fmt.Errorf("invalid price %q: %w", f.price, err)
		}
		p.Price = &price
	}
	if changed("stock") {
		p.Stock = &f.stock
	}
	p.UnlimitedStock = f.unlimited
	if changed("category") {
		p.CategoryID = &f.category
	}
	return p, nil
}

func newProductCmds(a *app, authorize func() error) []*cobra.Command {
	var setFlags productFlags
	setCmd := &cobra.Command{
		Use:   "set-product <id>",
		Short: "Change fields of one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			patch, err := setFlags.patch(cmd)
			if err != nil {
				return err
			}
			p, err := a.source.UpdateProduct(a.ctx, args[0], patch)
			if err != nil {
				return err
			}
			stock := "unlimited"
			if p.HasStockLimit() {
				stock = fmt.Sprint(*p.Stock)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %s, stock %s\n", p.ID, p.Name, p.Price.String(), stock)
			return nil
		},
	}
	setFlags.register(setCmd)

	var addFlags productFlags
	addCmd := &cobra.Command{
		Use:   "add-product <id>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			patch, err := addFlags.patch(cmd)
			if err != nil {
				return err
			}
			p := domain.Product{ID: args[0], Images: []string{}}
			patch.Apply(&p)
			if err := a.source.AddProduct(a.ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %s added\n", p.ID)
			return nil
		},
	}
	addFlags.register(addCmd)
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("price")
	_ = addCmd.MarkFlagRequired("category")

	removeCmd := &cobra.Command{
		Use:   "remove-product <id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			if err := a.source.RemoveProduct(a.ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %s removed\n", args[0])
			return nil
		},
	}

	return []*cobra.Command{setCmd, addCmd, removeCmd}
}

func newAdminSiteCmd(a *app, authorize func() error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage the site config override",
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace branding and home page copy with a YAML or JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			cfg, err := catalog.ParseSiteConfig(data)
			if err != nil {
				return err
			}
			if err := a.site.SetOverride(a.ctx, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "site override saved: %s\n", cfg.Brand.Name)
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the site config in effect as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.site.Site(a.ctx))
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Go back to the default site config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authorize(); err != nil {
				return err
			}
			if err := a.site.ResetOverride(a.ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "site override removed")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether an override is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.site.HasOverride(a.ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), "site: override")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "site: default")
			}
			return nil
		},
	}

	cmd.AddCommand(importCmd, exportCmd, resetCmd, statusCmd)
	return cmd
}
