// Package catalog holds the static hairstyle catalog: inspiration options
// grouped by gender and complexion, loaded once at startup and never
// mutated afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StyleOption is one immutable catalog entry.
type StyleOption struct {
	Name      string `json:"name"`
	Prompt    string `json:"prompt"`
	Thumbnail string `json:"thumbnail"`
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the gallery label for the option.
func (o StyleOption) DisplayName() string {
	return titleCaser.String(strings.ReplaceAll(o.Name, "_", " "))
}

// Catalog is the full style lookup keyed by (gender, complexion).
type Catalog struct {
	groups map[string]map[string][]StyleOption
}

// Load reads the catalog JSON from disk. The document shape is
// {"gender": {"complexion": [option, ...]}}.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates catalog JSON.
func Parse(raw []byte) (*Catalog, error) {
	groups := make(map[string]map[string][]StyleOption)
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	for gender, byComplexion := range groups {
		for complexion, options := range byComplexion {
			for _, option := range options {
				if strings.TrimSpace(option.Name) == "" || strings.TrimSpace(option.Prompt) == "" {
					return nil, fmt.Errorf("catalog: %s/%s: option missing name or prompt", gender, complexion)
				}
			}
		}
	}
	return &Catalog{groups: groups}, nil
}

// Options returns the entries for a demographic filter pair, nil when the
// pair has no entries.
func (c *Catalog) Options(gender, complexion string) []StyleOption {
	byComplexion, ok := c.groups[normalize(gender)]
	if !ok {
		return nil
	}
	return byComplexion[normalize(complexion)]
}

// Find locates a named option under a filter pair.
func (c *Catalog) Find(gender, complexion, name string) (StyleOption, bool) {
	for _, option := range c.Options(gender, complexion) {
		if strings.EqualFold(option.Name, name) {
			return option, true
		}
	}
	return StyleOption{}, false
}

// Len reports the total number of options across all groups.
func (c *Catalog) Len() int {
	total := 0
	for _, byComplexion := range c.groups {
		for _, options := range byComplexion {
			total += len(options)
		}
	}
	return total
}

// MarshalJSON exposes the raw grouped document, so the catalog endpoint
// serves exactly what was loaded.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.groups)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
