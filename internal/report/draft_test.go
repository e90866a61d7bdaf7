package report

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/errors"
)

func TestNewDraft_Empty(t *testing.T) {
	d := NewDraft(catalog.Default())

	assert.Equal(t, StepCategorySelect, d.Step())
	assert.Empty(t, d.SelectedIDs())
	assert.Empty(t, d.Notes())
	assert.Equal(t, 0, ComputeTotal(d, catalog.Default()))
}

func TestToggleCategory_AddsDefaultWeight(t *testing.T) {
	d := NewDraft(catalog.Default())

	require.NoError(t, d.ToggleCategory("plastik"))

	w, ok := d.Weight("plastik")
	require.True(t, ok)
	assert.Equal(t, DefaultWeightKg, w)
}

func TestToggleCategory_TwiceRestoresPriorState(t *testing.T) {
	d := NewDraft(catalog.Default())
	require.NoError(t, d.ToggleCategory("organik"))
	require.NoError(t, d.SetWeight("organik", 3.2))
	before := d.Items()

	require.NoError(t, d.ToggleCategory("kertas"))
	require.NoError(t, d.ToggleCategory("kertas"))

	if diff := cmp.Diff(before, d.Items()); diff != "" {
		t.Errorf("toggle twice changed the draft (-before +after):\n%s", diff)
	}
}

func TestToggleCategory_DeselectDropsWeight(t *testing.T) {
	d := NewDraft(catalog.Default())
	require.NoError(t, d.ToggleCategory("elektronik"))
	require.NoError(t, d.SetWeight("elektronik", 2))

	require.NoError(t, d.ToggleCategory("elektronik"))

	_, ok := d.Weight("elektronik")
	assert.False(t, ok)

	// reselecting starts from the default again
	require.NoError(t, d.ToggleCategory("elektronik"))
	w, _ := d.Weight("elektronik")
	assert.Equal(t, DefaultWeightKg, w)
}

func TestToggleCategory_UnknownID(t *testing.T) {
	d := NewDraft(catalog.Default())

	err := d.ToggleCategory("uranium")

	assert.True(t, errors.IsKind(err, errors.ErrUnknownCategory))
	assert.Empty(t, d.SelectedIDs())
}

func TestSetWeight_Unselected(t *testing.T) {
	d := NewDraft(catalog.Default())

	err := d.SetWeight("kertas", 1)

	assert.True(t, errors.IsKind(err, errors.ErrUnselectedCategory))
	_, ok := d.Weight("kertas")
	assert.False(t, ok)
}

func TestSetWeight_Clamps(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{2.5, 2.5},
		{5, 5},
		{5.01, 5},
		{100, 5},
		{math.Inf(1), 5},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}

	d := NewDraft(catalog.Default())
	require.NoError(t, d.ToggleCategory("organik"))

	for _, tt := range tests {
		require.NoError(t, d.SetWeight("organik", tt.in))
		got, _ := d.Weight("organik")
		assert.Equal(t, tt.want, got, "SetWeight(%v)", tt.in)
	}
}

func TestApplyPreset_ReplacesSelection(t *testing.T) {
	c := catalog.Default()
	d := NewDraft(c)
	require.NoError(t, d.ToggleCategory("kertas"))
	require.NoError(t, d.SetWeight("kertas", 2.0))

	p, ok := c.PresetByName("Hanya Sisa Makanan")
	require.True(t, ok)
	require.NoError(t, d.ApplyPreset(p))

	want := []Item{{CategoryID: "organik", WeightKg: 1.0}}
	if diff := cmp.Diff(want, d.Items()); diff != "" {
		t.Errorf("preset should replace, not merge (-want +got):\n%s", diff)
	}
}

func TestApplyPreset_UnknownCategoryLeavesDraft(t *testing.T) {
	d := NewDraft(catalog.Default())
	require.NoError(t, d.ToggleCategory("plastik"))

	err := d.ApplyPreset(catalog.Preset{Name: "x", Items: []catalog.PresetItem{{CategoryID: "nope", WeightKg: 1}}})

	assert.True(t, errors.IsKind(err, errors.ErrUnknownCategory))
	assert.Equal(t, []string{"plastik"}, d.SelectedIDs())
}

func TestAdvance_EmptySelectionStays(t *testing.T) {
	d := NewDraft(catalog.Default())

	assert.False(t, d.Advance())
	assert.Equal(t, StepCategorySelect, d.Step())
}

func TestAdvanceRetreat_Linear(t *testing.T) {
	d := NewDraft(catalog.Default())
	require.NoError(t, d.ToggleCategory("organik"))

	assert.True(t, d.Advance())
	assert.Equal(t, StepWeightEntry, d.Step())
	assert.True(t, d.Advance())
	assert.Equal(t, StepConfirm, d.Step())
	assert.False(t, d.Advance(), "no step after confirm")
	assert.Equal(t, StepConfirm, d.Step())

	assert.True(t, d.Retreat())
	assert.True(t, d.Retreat())
	assert.Equal(t, StepCategorySelect, d.Step())
	assert.False(t, d.Retreat(), "retreat is a no-op at the first step")
	assert.Equal(t, StepCategorySelect, d.Step())
}

func TestReset(t *testing.T) {
	d := NewDraft(catalog.Default())
	require.NoError(t, d.ToggleCategory("organik"))
	d.SetNotes("dari dapur")
	d.Advance()

	d.Reset()

	assert.Equal(t, StepCategorySelect, d.Step())
	assert.Empty(t, d.SelectedIDs())
	assert.Empty(t, d.Notes())
}

func TestSelectedIDs_CatalogOrder(t *testing.T) {
	d := NewDraft(catalog.Default())
	for _, id := range []string{"lainnya", "organik", "kaca_logam", "plastik"} {
		require.NoError(t, d.ToggleCategory(id))
	}

	assert.Equal(t, []string{"organik", "plastik", "kaca_logam", "lainnya"}, d.SelectedIDs())
}

func TestPayload(t *testing.T) {
	d := NewDraft(catalog.Default())
	require.NoError(t, d.ToggleCategory("plastik"))
	require.NoError(t, d.ToggleCategory("organik"))
	require.NoError(t, d.SetWeight("organik", 1.0))
	d.SetNotes("  botol dari arisan  ")

	got := d.Payload("2026-03-14")

	want := Payload{
		Categories: []Item{
			{CategoryID: "organik", WeightKg: 1.0},
			{CategoryID: "plastik", WeightKg: 0.5},
		},
		Notes:       "botol dari arisan",
		ReportDate:  "2026-03-14",
		ClientTotal: 25,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Payload mismatch (-want +got):\n%s", diff)
	}
}

// Random operation sequences never leave a weight without a selection or a
// weight outside [0, 5].
func TestDraft_InvariantsUnderRandomOperations(t *testing.T) {
	c := catalog.Default()
	ids := []string{"organik", "plastik", "kertas", "elektronik", "kaca_logam", "lainnya"}
	presets := c.Presets()
	rng := rand.New(rand.NewSource(42))

	d := NewDraft(c)
	for i := 0; i < 2000; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(5) {
		case 0, 1:
			require.NoError(t, d.ToggleCategory(id))
		case 2:
			err := d.SetWeight(id, rng.Float64()*14-4)
			if !d.IsSelected(id) {
				require.True(t, errors.IsKind(err, errors.ErrUnselectedCategory))
			}
		case 3:
			require.NoError(t, d.ApplyPreset(presets[rng.Intn(len(presets))]))
		case 4:
			if rng.Intn(2) == 0 {
				d.Advance()
			} else {
				d.Retreat()
			}
		}

		for _, item := range d.Items() {
			require.True(t, d.IsSelected(item.CategoryID))
			require.GreaterOrEqual(t, item.WeightKg, 0.0)
			require.LessOrEqual(t, item.WeightKg, catalog.MaxWeightKg)
		}
		for _, id := range ids {
			_, hasWeight := d.Weight(id)
			require.Equal(t, d.IsSelected(id), hasWeight)
		}
	}
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "category_select", StepCategorySelect.String())
	assert.Equal(t, "weight_entry", StepWeightEntry.String())
	assert.Equal(t, "confirm", StepConfirm.String())
	assert.Equal(t, "unknown", Step(9).String())

	b, err := StepConfirm.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "confirm", string(b))
}
