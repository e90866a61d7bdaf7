package catalog

// DefaultCategories is the category table used when no catalog file or feed is configured.
func DefaultCategories() []WasteCategory {
	return []WasteCategory{
		{ID: "organik", DisplayName: "Organik", PointsPerKg: 15, EstimateHint: "1 kg ≈ 2 mangkuk sisa makanan"},
		{ID: "plastik", DisplayName: "Plastik", PointsPerKg: 20, EstimateHint: "1 kg ≈ 5 botol besar"},
		{ID: "kertas", DisplayName: "Kertas", PointsPerKg: 10, EstimateHint: "1 kg ≈ 50 lembar koran"},
		{ID: "elektronik", DisplayName: "Elektronik", PointsPerKg: 30, EstimateHint: "1 kg ≈ 10 baterai AA"},
		{ID: "kaca_logam", DisplayName: "Kaca & Logam", PointsPerKg: 18, EstimateHint: "1 kg ≈ 3 kaleng minuman"},
		{ID: "lainnya", DisplayName: "Lainnya", PointsPerKg: 8, EstimateHint: "1 kg ≈ bervariasi"},
	}
}

// DefaultPresets are the quick-report shortcuts shown on the first wizard step.
func DefaultPresets() []Preset {
	return []Preset{
		{
			Name:  "Hanya Sisa Makanan",
			Items: []PresetItem{{CategoryID: "organik", WeightKg: 1.0}},
		},
		{
			Name: "Botol Plastik & Kardus",
			Items: []PresetItem{
				{CategoryID: "plastik", WeightKg: 0.5},
				{CategoryID: "kertas", WeightKg: 1.2},
			},
		},
	}
}

// Default returns the built-in catalog
func Default() *Catalog {
	return MustNew(DefaultCategories(), DefaultPresets())
}

// usablePresets keeps only the default presets whose categories all exist in cats.
func usablePresets(cats []WasteCategory) []Preset {
	known := make(map[string]bool, len(cats))
	for _, c := range cats {
		known[c.ID] = true
	}

	var out []Preset
	for _, p := range DefaultPresets() {
		ok := true
		for _, item := range p.Items {
			if !known[item.CategoryID] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// WithDefaultPresets builds a catalog from cats, keeping the default presets
// that only reference categories in cats.
func WithDefaultPresets(cats []WasteCategory) (*Catalog, error) {
	return New(cats, usablePresets(cats))
}
