package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/ecoheroes/internal/errors"
)

func TestDefault_ListOrderAndRates(t *testing.T) {
	c := Default()

	var ids []string
	for _, cat := range c.List() {
		ids = append(ids, cat.ID)
	}
	want := []string{"organik", "plastik", "kertas", "elektronik", "kaca_logam", "lainnya"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}

	rates := map[string]float64{
		"organik": 15, "plastik": 20, "kertas": 10,
		"elektronik": 30, "kaca_logam": 18, "lainnya": 8,
	}
	for id, want := range rates {
		got, err := c.RateFor(id)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	c := Default()

	first := c.List()
	first[0].PointsPerKg = 999
	first[0].ID = "tampered"

	rate, err := c.RateFor("organik")
	require.NoError(t, err)
	assert.Equal(t, 15.0, rate)
	assert.Equal(t, "organik", c.List()[0].ID)
}

func TestRateFor_UnknownCategory(t *testing.T) {
	_, err := Default().RateFor("uranium")

	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.ErrUnknownCategory))
	assert.Contains(t, err.Error(), "uranium")
}

func TestGetAndPosition(t *testing.T) {
	c := Default()

	cat, ok := c.Get("kaca_logam")
	require.True(t, ok)
	assert.Equal(t, "Kaca & Logam", cat.DisplayName)
	assert.Equal(t, 4, c.Position("kaca_logam"))
	assert.Equal(t, -1, c.Position("nope"))
	assert.False(t, c.Has("nope"))

	_, ok = c.Get("nope")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cats    []WasteCategory
		presets []Preset
		wantMsg string
	}{
		{"empty", nil, nil, "no categories"},
		{"missing id", []WasteCategory{{PointsPerKg: 1}}, nil, "has no id"},
		{"duplicate", []WasteCategory{{ID: "a", PointsPerKg: 1}, {ID: "a", PointsPerKg: 2}}, nil, "duplicate"},
		{"zero rate", []WasteCategory{{ID: "a"}}, nil, "positive"},
		{"negative rate", []WasteCategory{{ID: "a", PointsPerKg: -3}}, nil, "positive"},
		{
			"preset unknown category",
			[]WasteCategory{{ID: "a", PointsPerKg: 1}},
			[]Preset{{Name: "p", Items: []PresetItem{{CategoryID: "b", WeightKg: 1}}}},
			`unknown category "b"`,
		},
		{
			"preset overweight",
			[]WasteCategory{{ID: "a", PointsPerKg: 1}},
			[]Preset{{Name: "p", Items: []PresetItem{{CategoryID: "a", WeightKg: 6}}}},
			"within",
		},
		{
			"preset empty",
			[]WasteCategory{{ID: "a", PointsPerKg: 1}},
			[]Preset{{Name: "p"}},
			"no items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cats, tt.presets)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.ErrValidation))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNew_DisplayNameDefaultsToID(t *testing.T) {
	c, err := New([]WasteCategory{{ID: "minyak", PointsPerKg: 12}}, nil)
	require.NoError(t, err)

	cat, _ := c.Get("minyak")
	assert.Equal(t, "minyak", cat.DisplayName)
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew(nil, nil) })
}

func TestPresets(t *testing.T) {
	c := Default()

	p, ok := c.PresetByName("Botol Plastik & Kardus")
	require.True(t, ok)
	want := []PresetItem{{CategoryID: "plastik", WeightKg: 0.5}, {CategoryID: "kertas", WeightKg: 1.2}}
	if diff := cmp.Diff(want, p.Items); diff != "" {
		t.Errorf("preset items mismatch (-want +got):\n%s", diff)
	}

	// callers get their own copy
	p.Items[0].WeightKg = 4
	again, _ := c.PresetByName("Botol Plastik & Kardus")
	assert.Equal(t, 0.5, again.Items[0].WeightKg)

	assert.Len(t, c.Presets(), 2)
	_, ok = c.PresetByName("missing")
	assert.False(t, ok)
}

func TestLoadYAML(t *testing.T) {
	doc := `
categories:
  - id: organik
    display_name: Organik
    points_per_kg: 15
    estimate_hint: "1 kg ≈ 2 mangkuk sisa makanan"
  - id: minyak
    display_name: Minyak Jelantah
    points_per_kg: 25
presets:
  - name: Jelantah
    items:
      - {category_id: minyak, weight_kg: 2}
`
	c, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)

	rate, err := c.RateFor("minyak")
	require.NoError(t, err)
	assert.Equal(t, 25.0, rate)

	presets := c.Presets()
	require.Len(t, presets, 1)
	assert.Equal(t, "Jelantah", presets[0].Name)
}

func TestLoadYAML_NoPresetsKeyKeepsUsableDefaults(t *testing.T) {
	doc := `
categories:
  - {id: organik, points_per_kg: 15}
  - {id: lainnya, points_per_kg: 8}
`
	c, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)

	presets := c.Presets()
	require.Len(t, presets, 1)
	assert.Equal(t, "Hanya Sisa Makanan", presets[0].Name)
}

func TestLoadYAML_EmptyPresetsDisablesDefaults(t *testing.T) {
	doc := `
categories:
  - {id: organik, points_per_kg: 15}
presets: []
`
	c, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, c.Presets())
}

func TestLoadYAML_Errors(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("categories: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse catalog")

	_, err = LoadYAML(strings.NewReader("categories:\n  - {id: a, points_per_kg: 1, colour: red}\n"))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = LoadFile("/nonexistent/catalog.yaml")
	assert.ErrorContains(t, err, "failed to open catalog")
}
