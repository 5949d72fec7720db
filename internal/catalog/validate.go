package catalog

import (
	"fmt"
	"strings"

	"github.com/fjod/storefront/internal/domain"
	"golang.org/x/text/currency"
)

// Validate reports every problem found in c at once.
func Validate(c *domain.Catalog) error {
	var problems []string

	if _, err := currency.ParseISO(c.Currency); err != nil {
		problems = append(problems, fmt.Sprintf("unknown currency %q", c.Currency))
	}

	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		switch {
		case cat.ID == "":
			problems = append(problems, "category with empty id")
		case categories[cat.ID]:
			problems = append(problems, fmt.Sprintf("duplicate category %q", cat.ID))
		}
		categories[cat.ID] = true
	}

	products := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.ID == "" {
			problems = append(problems, fmt.Sprintf("product %q has empty id", p.Name))
			continue
		}
		if products[p.ID] {
			problems = append(problems, fmt.Sprintf("duplicate product %q", p.ID))
		}
		products[p.ID] = true

		if p.Price.IsNegative() {
			problems = append(problems, fmt.Sprintf("product %q has negative price", p.ID))
		}
		if p.Stock != nil && *p.Stock < 0 {
			problems = append(problems, fmt.Sprintf("product %q has negative stock", p.ID))
		}
		if !categories[p.CategoryID] {
			problems = append(problems, fmt.Sprintf("product %q has unknown category %q", p.ID, p.CategoryID))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}
