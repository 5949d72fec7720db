package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/pkg/logger"
	"go.uber.org/zap"
)

const SiteOverrideKey = "site-override-v1"

var ErrInvalidSiteConfig = errors.New("invalid site config")

// LoadSiteConfig reads the site document from path, or the built-in one.
func LoadSiteConfig(path string) (*domain.SiteConfig, error) {
	data, err := readDocument(path, "defaults/site.yaml")
	if err != nil {
		return nil, err
	}
	cfg, err := ParseSiteConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load site config %q: %w", path, err)
	}
	return cfg, nil
}

func ParseSiteConfig(data []byte) (*domain.SiteConfig, error) {
	var cfg domain.SiteConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSiteConfig, err)
	}
	if err := ValidateSite(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateSite requires a brand name and complete links.
func ValidateSite(cfg *domain.SiteConfig) error {
	var problems []string
	if strings.TrimSpace(cfg.Brand.Name) == "" {
		problems = append(problems, "empty brand name")
	}
	links := map[string]domain.Link{
		"home.primaryCta":   cfg.Home.PrimaryCTA,
		"home.secondaryCta": cfg.Home.SecondaryCTA,
	}
	for i, l := range cfg.Navigation {
		links[fmt.Sprintf("navigation[%d]", i)] = l
	}
	for name, l := range links {
		if (l.Label == "") != (l.To == "") {
			problems = append(problems, name+" needs both label and to")
		}
	}
	for i, l := range cfg.Navigation {
		if l.Label == "" {
			problems = append(problems, fmt.Sprintf("navigation[%d] is empty", i))
		}
	}
	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("%w: %s", ErrInvalidSiteConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SiteSource serves the site config in effect, like Source does for the
// catalog.
type SiteSource struct {
	defaults *domain.SiteConfig
	override override[domain.SiteConfig]
	log      *zap.Logger
}

func NewSiteSource(defaults *domain.SiteConfig, store repository.Store, log *zap.Logger) *SiteSource {
	return &SiteSource{
		defaults: defaults,
		override: override[domain.SiteConfig]{
			key:      SiteOverrideKey,
			what:     "site",
			store:    store,
			log:      log,
			validate: ValidateSite,
		},
		log: log,
	}
}

// Site returns a copy the caller may modify.
func (s *SiteSource) Site(ctx context.Context) *domain.SiteConfig {
	if cfg := s.override.get(ctx); cfg != nil {
		return cfg
	}
	out := *s.defaults
	out.Navigation = slices.Clone(s.defaults.Navigation)
	return &out
}

func (s *SiteSource) HasOverride(ctx context.Context) bool {
	return s.override.get(ctx) != nil
}

func (s *SiteSource) SetOverride(ctx context.Context, cfg *domain.SiteConfig) error {
	if err := s.override.set(ctx, cfg); err != nil {
		return err
	}
	logger.WithContext(ctx, s.log).Info("site override saved", zap.String("brand", cfg.Brand.Name))
	return nil
}

func (s *SiteSource) ResetOverride(ctx context.Context) error {
	return s.override.reset(ctx)
}
