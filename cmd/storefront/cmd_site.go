package main

import (
	"fmt"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func newSiteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "site",
		Short: "Show the shop's branding, home page and navigation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.site.Site(a.ctx)
			w := cmd.OutOrStdout()

			if s.Brand.LogoText != "" {
				fmt.Fprintf(w, "[%s] %s\n", s.Brand.LogoText, s.Brand.Name)
			} else {
				fmt.Fprintln(w, s.Brand.Name)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, s.Home.HeroTitle)
			if s.Home.HeroSubtitle != "" {
				fmt.Fprintln(w, s.Home.HeroSubtitle)
			}
			for _, cta := range []domain.Link{s.Home.PrimaryCTA, s.Home.SecondaryCTA} {
				if cta.Label != "" {
					fmt.Fprintf(w, "  > %s (%s)\n", cta.Label, cta.To)
				}
			}
			if len(s.Navigation) > 0 {
				fmt.Fprintln(w)
				for _, l := range s.Navigation {
					fmt.Fprintf(w, "  %s -> %s\n", l.Label, l.To)
				}
			}
			if s.Footer.Text != "" {
				fmt.Fprintln(w)
				fmt.Fprintln(w, s.Footer.Render(time.Now().Year()))
			}
			return nil
		},
	}
}
