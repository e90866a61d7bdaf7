// Package catalog holds the waste categories residents can report and the
// points each kilogram earns. A Catalog is built once at startup and never
// changes afterwards, so it is safe to share between goroutines.
package catalog

import (
	"fmt"
	"math"

	"github.com/abrezinsky/ecoheroes/internal/errors"
)

// MaxWeightKg is the largest weight a single category line may carry.
const MaxWeightKg = 5.0

// WasteCategory is one reportable waste type
type WasteCategory struct {
	ID           string  `json:"id" yaml:"id"`
	DisplayName  string  `json:"display_name" yaml:"display_name"`
	PointsPerKg  float64 `json:"points_per_kg" yaml:"points_per_kg"`
	EstimateHint string  `json:"estimate_hint" yaml:"estimate_hint"`
}

// PresetItem is a single category/weight pair inside a Preset
type PresetItem struct {
	CategoryID string  `json:"category_id" yaml:"category_id"`
	WeightKg   float64 `json:"weight_kg" yaml:"weight_kg"`
}

// Preset is a named quick-report shortcut
type Preset struct {
	Name  string       `json:"name" yaml:"name"`
	Items []PresetItem `json:"items" yaml:"items"`
}

// Catalog is the read-only category table
type Catalog struct {
	categories []WasteCategory
	index      map[string]int
	presets    []Preset
}

// New validates categories and presets and builds a Catalog.
// Category order is preserved for rendering.
func New(categories []WasteCategory, presets []Preset) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, errors.Validation("catalog has no categories")
	}

	c := &Catalog{
		categories: make([]WasteCategory, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	copy(c.categories, categories)

	for i, cat := range c.categories {
		if cat.ID == "" {
			return nil, errors.Validationf("category at position %d has no id", i)
		}
		if _, dup := c.index[cat.ID]; dup {
			return nil, errors.Validationf("duplicate category id %q", cat.ID)
		}
		if !(cat.PointsPerKg > 0) || math.IsInf(cat.PointsPerKg, 0) {
			return nil, errors.Validationf("category %q must have a positive points_per_kg, got %v", cat.ID, cat.PointsPerKg)
		}
		if cat.DisplayName == "" {
			c.categories[i].DisplayName = cat.ID
		}
		c.index[cat.ID] = i
	}

	for _, p := range presets {
		if err := c.validatePreset(p); err != nil {
			return nil, err
		}
		c.presets = append(c.presets, clonePreset(p))
	}

	return c, nil
}

// MustNew is New for static tables; it panics on invalid input.
func MustNew(categories []WasteCategory, presets []Preset) *Catalog {
	c, err := New(categories, presets)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

func (c *Catalog) validatePreset(p Preset) error {
	if p.Name == "" {
		return errors.Validation("preset has no name")
	}
	if len(p.Items) == 0 {
		return errors.Validationf("preset %q has no items", p.Name)
	}
	seen := make(map[string]bool, len(p.Items))
	for _, item := range p.Items {
		if _, ok := c.index[item.CategoryID]; !ok {
			return errors.Validationf("preset %q: %v", p.Name, errors.UnknownCategory(item.CategoryID))
		}
		if seen[item.CategoryID] {
			return errors.Validationf("preset %q lists %q twice", p.Name, item.CategoryID)
		}
		seen[item.CategoryID] = true
		if item.WeightKg < 0 || item.WeightKg > MaxWeightKg || math.IsNaN(item.WeightKg) {
			return errors.Validationf("preset %q: weight for %q must be within [0, %v]", p.Name, item.CategoryID, MaxWeightKg)
		}
	}
	return nil
}

// List returns the categories in display order. The slice is a copy.
func (c *Catalog) List() []WasteCategory {
	out := make([]WasteCategory, len(c.categories))
	copy(out, c.categories)
	return out
}

// Get returns the category with the given id
func (c *Catalog) Get(id string) (WasteCategory, bool) {
	i, ok := c.index[id]
	if !ok {
		return WasteCategory{}, false
	}
	return c.categories[i], true
}

// Has reports whether id is a known category
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// RateFor returns the points-per-kg rate for id
func (c *Catalog) RateFor(id string) (float64, error) {
	i, ok := c.index[id]
	if !ok {
		return 0, errors.UnknownCategory(id)
	}
	return c.categories[i].PointsPerKg, nil
}

// Position returns the display index of id, or -1 if unknown.
func (c *Catalog) Position(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Presets returns the quick-report shortcuts
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.presets))
	for i, p := range c.presets {
		out[i] = clonePreset(p)
	}
	return out
}

// PresetByName looks up a preset by its display name
func (c *Catalog) PresetByName(name string) (Preset, bool) {
	for _, p := range c.presets {
		if p.Name == name {
			return clonePreset(p), true
		}
	}
	return Preset{}, false
}

func clonePreset(p Preset) Preset {
	items := make([]PresetItem, len(p.Items))
	copy(items, p.Items)
	return Preset{Name: p.Name, Items: items}
}
