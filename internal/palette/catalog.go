package palette

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog is the full theme->materials table loaded from configuration,
// plus a digest over its canonical form so runs can be journaled against
// the exact palette they used.
type Catalog struct {
	byTheme map[Theme]Materials
	digest  string
}

// Load reads palettes.yaml from the config directory and validates that
// every theme is present with no empty material class.
func Load(configDir string) (*Catalog, error) {
	path := filepath.Join(configDir, "palettes.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var byName map[string]Materials
	if err := yaml.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("palettes.yaml: %w", err)
	}

	c := &Catalog{byTheme: make(map[Theme]Materials, len(themeNames))}
	for _, t := range Themes() {
		m, ok := byName[t.String()]
		if !ok {
			return nil, fmt.Errorf("palettes.yaml: missing theme %q", t)
		}
		if err := m.validate(t.String()); err != nil {
			return nil, err
		}
		c.byTheme[t] = m
	}
	for name := range byName {
		if _, err := ParseTheme(name); err != nil {
			return nil, fmt.Errorf("palettes.yaml: %w", err)
		}
	}

	digest, err := digestCatalog(c.byTheme)
	if err != nil {
		return nil, err
	}
	c.digest = digest
	return c, nil
}

// Materials returns the material table for a theme.
func (c *Catalog) Materials(t Theme) Materials {
	return c.byTheme[t]
}

// Digest identifies the loaded palette contents.
func (c *Catalog) Digest() string { return c.digest }

// digestCatalog hashes the canonical JSON form: themes in declaration order,
// struct fields in source order, so the digest is stable across yaml
// map-ordering differences.
func digestCatalog(byTheme map[Theme]Materials) (string, error) {
	canon := make([]struct {
		Theme     string    `json:"theme"`
		Materials Materials `json:"materials"`
	}, 0, len(byTheme))
	for _, t := range Themes() {
		canon = append(canon, struct {
			Theme     string    `json:"theme"`
			Materials Materials `json:"materials"`
		}{t.String(), byTheme[t]})
	}
	b, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8]), nil
}
