// Package catalog loads the product catalog and checkout settings, and keeps
// the admin catalog override in durable storage.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/fjod/storefront/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

var ErrInvalidCatalog = errors.New("invalid catalog")

// LoadCatalog reads a catalog document from path, or the built-in one when
// path is empty. YAML and JSON documents are both accepted.
func LoadCatalog(path string) (*domain.Catalog, error) {
	data, err := readDocument(path, "defaults/catalog.yaml")
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", path, err)
	}
	return c, nil
}

// LoadCheckoutConfig reads checkout settings from path, or the built-in ones.
func LoadCheckoutConfig(path string) (*domain.CheckoutConfig, error) {
	data, err := readDocument(path, "defaults/checkout.yaml")
	if err != nil {
		return nil, err
	}

	var cfg domain.CheckoutConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("load checkout config %q: %w", path, err)
	}
	if cfg.TaxRate.IsNegative() {
		return nil, fmt.Errorf("load checkout config %q: negative tax rate", path)
	}
	return &cfg, nil
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) (*domain.Catalog, error) {
	var c domain.Catalog
	if err := decodeStrict(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func readDocument(path, fallback string) ([]byte, error) {
	if path == "" {
		return defaults.ReadFile(fallback)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
