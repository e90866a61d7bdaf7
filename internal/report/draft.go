// Package report implements the waste-report wizard: the in-progress draft,
// the points calculation and the three-step submission flow.
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/errors"
)

// DefaultWeightKg is the weight a category gets when it is first selected.
const DefaultWeightKg = 0.5

// Step is a position in the wizard
type Step int

const (
	StepCategorySelect Step = iota
	StepWeightEntry
	StepConfirm
)

var stepNames = [...]string{"category_select", "weight_entry", "confirm"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// MarshalText encodes the step by name for JSON responses.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Item is one category line with its weight in kilograms
type Item struct {
	CategoryID string  `json:"id"`
	WeightKg   float64 `json:"weight_kg"`
}

// Draft is a single in-progress report. The selected categories are exactly
// the keys of the weights map, so a weight can never outlive its selection.
//
// A Draft is not safe for concurrent use; Wizard serializes access to it.
type Draft struct {
	catalog *catalog.Catalog
	weights map[string]float64
	notes   string
	step    Step
}

// NewDraft returns an empty draft at the category step
func NewDraft(c *catalog.Catalog) *Draft {
	return &Draft{
		catalog: c,
		weights: make(map[string]float64),
	}
}

// ToggleCategory selects id with the default weight, or deselects it and
// drops its weight if it was already selected.
func (d *Draft) ToggleCategory(id string) error {
	if !d.catalog.Has(id) {
		return errors.UnknownCategory(id)
	}
	if _, ok := d.weights[id]; ok {
		delete(d.weights, id)
		return nil
	}
	d.weights[id] = DefaultWeightKg
	return nil
}

// SetWeight stores the clamped weight for a selected category.
func (d *Draft) SetWeight(id string, kg float64) error {
	if _, ok := d.weights[id]; !ok {
		return errors.UnselectedCategory(id)
	}
	d.weights[id] = ClampWeight(kg)
	return nil
}

// ApplyPreset replaces the whole selection with the preset's items.
func (d *Draft) ApplyPreset(p catalog.Preset) error {
	next := make(map[string]float64, len(p.Items))
	for _, item := range p.Items {
		if !d.catalog.Has(item.CategoryID) {
			return errors.UnknownCategory(item.CategoryID)
		}
		next[item.CategoryID] = ClampWeight(item.WeightKg)
	}
	d.weights = next
	return nil
}

// SetNotes replaces the free-text notes
func (d *Draft) SetNotes(notes string) {
	d.notes = notes
}

// CanAdvance reports whether Advance would move the draft forward.
func (d *Draft) CanAdvance() bool {
	switch d.step {
	case StepCategorySelect:
		return len(d.weights) > 0
	case StepWeightEntry:
		return true
	default:
		return false
	}
}

// Advance moves one step forward. It returns false and leaves the draft
// unchanged when nothing is selected or the draft is already at Confirm.
func (d *Draft) Advance() bool {
	if !d.CanAdvance() {
		return false
	}
	d.step++
	return true
}

// Retreat moves one step back; it is a no-op at the first step.
func (d *Draft) Retreat() bool {
	if d.step == StepCategorySelect {
		return false
	}
	d.step--
	return true
}

// Reset empties the draft and returns it to the category step
func (d *Draft) Reset() {
	d.weights = make(map[string]float64)
	d.notes = ""
	d.step = StepCategorySelect
}

func (d *Draft) Step() Step    { return d.step }
func (d *Draft) Notes() string { return d.notes }

// IsSelected reports whether id is part of the selection
func (d *Draft) IsSelected(id string) bool {
	_, ok := d.weights[id]
	return ok
}

// Weight returns the stored weight for id
func (d *Draft) Weight(id string) (float64, bool) {
	w, ok := d.weights[id]
	return w, ok
}

// SelectedIDs lists the selection in catalog order.
func (d *Draft) SelectedIDs() []string {
	ids := make([]string, 0, len(d.weights))
	for id := range d.weights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return d.catalog.Position(ids[i]) < d.catalog.Position(ids[j])
	})
	return ids
}

// Items returns the selection with weights, in catalog order.
func (d *Draft) Items() []Item {
	ids := d.SelectedIDs()
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{CategoryID: id, WeightKg: d.weights[id]}
	}
	return items
}

// Payload serializes the draft for the gateway.
func (d *Draft) Payload(reportDate string) Payload {
	return Payload{
		Categories:  d.Items(),
		Notes:       strings.TrimSpace(d.notes),
		ReportDate:  reportDate,
		ClientTotal: ComputeTotal(d, d.catalog),
	}
}

// ClampWeight bounds kg to [0, catalog.MaxWeightKg]. NaN becomes 0.
func ClampWeight(kg float64) float64 {
	if math.IsNaN(kg) || kg < 0 {
		return 0
	}
	if kg > catalog.MaxWeightKg {
		return catalog.MaxWeightKg
	}
	return kg
}
