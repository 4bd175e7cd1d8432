package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yml
var catalogYAML []byte

// CatalogEntry is one seeded category and the tags its articles draw from.
type CatalogEntry struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

// Catalog is the embedded category catalogue.
type Catalog struct {
	Categories []CatalogEntry `yaml:"categories"`
}

// LoadCatalog parses raw, or the embedded catalogue when raw is nil.
func LoadCatalog(raw []byte) (*Catalog, error) {
	if raw == nil {
		raw = catalogYAML
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse category catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("category catalog is empty")
	}
	return &c, nil
}

// TagsFor returns the tag pool of the named category.
func (c *Catalog) TagsFor(category string) []string {
	for _, e := range c.Categories {
		if e.Name == category {
			return e.Tags
		}
	}
	return nil
}
