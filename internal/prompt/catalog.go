package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadCatalog overlays a YAML prompt file on base. An empty path returns base.
//
//	default_system: "..."
//	categories:
//	  - name: career planning
//	    system: "..."
//	    extras: ["...", "..."]
//
// When the file lists categories they replace the built-in ones; the prompt
// style always comes from base.
func LoadCatalog(path string, base *Catalog) (*Catalog, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}

	out := &Catalog{
		Style:         base.Style,
		DefaultSystem: base.DefaultSystem,
		Categories:    base.Categories,
	}
	if s := strings.TrimSpace(file.DefaultSystem); s != "" {
		out.DefaultSystem = s
	}
	if len(file.Categories) > 0 {
		cats := make([]Category, 0, len(file.Categories))
		for i, c := range file.Categories {
			c.Name = strings.TrimSpace(c.Name)
			if c.Name == "" {
				return nil, fmt.Errorf("parse prompts file: category %d has no name", i)
			}
			cats = append(cats, c)
		}
		out.Categories = cats
	}
	return out, nil
}
