package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of a catalog file:
//
//	categories:
//	  - id: organik
//	    display_name: Organik
//	    points_per_kg: 15
//	    estimate_hint: "1 kg ≈ 2 mangkuk sisa makanan"
//	presets:
//	  - name: Hanya Sisa Makanan
//	    items:
//	      - {category_id: organik, weight_kg: 1.0}
type fileFormat struct {
	Categories []WasteCategory `yaml:"categories"`
	Presets    *[]Preset       `yaml:"presets"`
}

// LoadYAML reads a catalog from r. When the document has no presets key the
// default presets are kept for every category they reference.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if doc.Presets == nil {
		return WithDefaultPresets(doc.Categories)
	}
	return New(doc.Categories, *doc.Presets)
}

// LoadFile reads a YAML catalog from path
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}
