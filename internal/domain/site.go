package domain

import (
	"strconv"
	"strings"
)

type Link struct {
	Label string `json:"label" yaml:"label"`
	To    string `json:"to" yaml:"to"`
}

type Brand struct {
	Name     string `json:"name" yaml:"name"`
	LogoText string `json:"logoText" yaml:"logoText"`
}

type Home struct {
	HeroTitle    string `json:"heroTitle" yaml:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle" yaml:"heroSubtitle"`
	PrimaryCTA   Link   `json:"primaryCta" yaml:"primaryCta"`
	SecondaryCTA Link   `json:"secondaryCta" yaml:"secondaryCta"`
}

// Footer text may contain {{year}}.
type Footer struct {
	Text string `json:"text" yaml:"text"`
}

func (f Footer) Render(year int) string {
	return strings.ReplaceAll(f.Text, "{{year}}", strconv.Itoa(year))
}

// SiteConfig is the shop's presentation content: branding, home page copy,
// navigation and footer.
type SiteConfig struct {
	Brand      Brand  `json:"brand" yaml:"brand"`
	Home       Home   `json:"home" yaml:"home"`
	Navigation []Link `json:"navigation" yaml:"navigation"`
	Footer     Footer `json:"footer" yaml:"footer"`
}
