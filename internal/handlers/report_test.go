package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/handlers"
	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/report"
)

type wizardView struct {
	Open       bool          `json:"open"`
	Pending    bool          `json:"pending"`
	Step       string        `json:"step"`
	Items      []report.Item `json:"items"`
	Notes      string        `json:"notes"`
	Total      int           `json:"total"`
	CanAdvance bool          `json:"can_advance"`
}

func (s *testSetup) wizard(t *testing.T, action string, body interface{}, cookie *http.Cookie) wizardView {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/report/wizard/"+action, body, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: expected 200, got %d: %s", action, rec.Code, rec.Body.String())
	}
	var view wizardView
	decode(t, rec, &view)
	return view
}

func TestGetCategories(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var categories []catalog.WasteCategory
	decode(t, rec, &categories)
	if len(categories) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(categories))
	}
	if categories[0].ID != "organik" || categories[0].PointsPerKg != 15 {
		t.Errorf("unexpected first category %+v", categories[0])
	}
}

func TestGetPresets(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodGet, "/api/presets", nil)
	var presets []catalog.Preset
	decode(t, rec, &presets)
	if len(presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(presets))
	}
	if presets[1].Name != "Botol Plastik & Kardus" {
		t.Errorf("unexpected preset %q", presets[1].Name)
	}
}

func TestWizard_RequiresLogin(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodPost, "/api/report/wizard/open", nil)
	expectError(t, rec, http.StatusUnauthorized, handlers.ErrCodeNotAuthenticated)
}

func TestWizard_PresetFlow(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.signup(t, "sari", "03", "05")

	view := setup.wizard(t, "open", nil, cookie)
	if !view.Open || view.Step != "category_select" || len(view.Items) != 0 {
		t.Fatalf("unexpected opened view %+v", view)
	}

	view = setup.wizard(t, "preset", handlers.ApplyPresetRequest{Name: "Botol Plastik & Kardus"}, cookie)
	if view.Total != 22 {
		t.Errorf("expected total 22, got %d", view.Total)
	}
	if len(view.Items) != 2 || view.Items[0].CategoryID != "plastik" || view.Items[1].CategoryID != "kertas" {
		t.Errorf("unexpected items %+v", view.Items)
	}
	if !view.CanAdvance {
		t.Error("expected to be able to advance")
	}

	if view = setup.wizard(t, "advance", nil, cookie); view.Step != "weight_entry" {
		t.Fatalf("expected weight_entry, got %s", view.Step)
	}
	setup.wizard(t, "notes", handlers.SetNotesRequest{Notes: "  dari dapur  "}, cookie)
	if view = setup.wizard(t, "advance", nil, cookie); view.Step != "confirm" {
		t.Fatalf("expected confirm, got %s", view.Step)
	}

	rec := setup.do(t, http.MethodPost, "/api/report/wizard/submit", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ReportID      string       `json:"report_id"`
		AwardedPoints int          `json:"awarded_points"`
		Toast         models.Toast `json:"toast"`
		View          wizardView   `json:"view"`
	}
	decode(t, rec, &resp)
	if resp.AwardedPoints != 22 || resp.ReportID == "" {
		t.Errorf("unexpected result %+v", resp)
	}
	if resp.Toast.Severity != "success" {
		t.Errorf("expected success toast, got %+v", resp.Toast)
	}
	if resp.View.Open || resp.View.Step != "category_select" || len(resp.View.Items) != 0 {
		t.Errorf("expected reset closed wizard, got %+v", resp.View)
	}

	if len(setup.notifier.toasts) != 1 || setup.notifier.toasts[0] != report.SuccessToast(22) {
		t.Errorf("expected one success toast, got %+v", setup.notifier.toasts)
	}

	rec = setup.do(t, http.MethodGet, "/api/reports", nil, cookie)
	var reports []models.Report
	decode(t, rec, &reports)
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Points != 22 || reports[0].Notes != "dari dapur" || len(reports[0].Items) != 2 {
		t.Errorf("unexpected stored report %+v", reports[0])
	}
}

func TestWizard_ToggleAndWeight(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.signup(t, "sari", "03", "05")
	setup.wizard(t, "open", nil, cookie)

	view := setup.wizard(t, "toggle", handlers.ToggleCategoryRequest{CategoryID: "organik"}, cookie)
	if len(view.Items) != 1 || view.Items[0].WeightKg != report.DefaultWeightKg {
		t.Fatalf("expected organik at default weight, got %+v", view.Items)
	}

	view = setup.wizard(t, "weight", handlers.SetWeightRequest{CategoryID: "organik", WeightKg: 2}, cookie)
	if view.Total != 30 {
		t.Errorf("expected 30 points, got %d", view.Total)
	}

	view = setup.wizard(t, "weight", handlers.SetWeightRequest{CategoryID: "organik", WeightKg: 12}, cookie)
	if view.Items[0].WeightKg != catalog.MaxWeightKg {
		t.Errorf("expected weight clamped to %v, got %v", catalog.MaxWeightKg, view.Items[0].WeightKg)
	}

	// deselecting drops the weight
	view = setup.wizard(t, "toggle", handlers.ToggleCategoryRequest{CategoryID: "organik"}, cookie)
	if len(view.Items) != 0 || view.Total != 0 {
		t.Errorf("expected empty selection, got %+v", view)
	}
}

func TestWizard_AdvanceWithoutSelectionStays(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.signup(t, "sari", "03", "05")
	setup.wizard(t, "open", nil, cookie)

	view := setup.wizard(t, "advance", nil, cookie)
	if view.Step != "category_select" || view.CanAdvance {
		t.Errorf("expected to stay at category_select, got %+v", view)
	}
}

func TestWizard_RetreatAndCancel(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.signup(t, "sari", "03", "05")
	setup.wizard(t, "open", nil, cookie)
	setup.wizard(t, "toggle", handlers.ToggleCategoryRequest{CategoryID: "kertas"}, cookie)
	setup.wizard(t, "advance", nil, cookie)

	view := setup.wizard(t, "retreat", nil, cookie)
	if view.Step != "category_select" || len(view.Items) != 1 {
		t.Errorf("expected selection kept at category_select, got %+v", view)
	}

	view = setup.wizard(t, "cancel", nil, cookie)
	if view.Open || len(view.Items) != 0 {
		t.Errorf("expected closed empty wizard, got %+v", view)
	}
	if len(setup.notifier.toasts) != 0 {
		t.Errorf("cancel must not notify, got %+v", setup.notifier.toasts)
	}
}

func TestWizard_Errors(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.signup(t, "sari", "03", "05")

	t.Run("closed wizard", func(t *testing.T) {
		rec := setup.do(t, http.MethodPost, "/api/report/wizard/toggle", handlers.ToggleCategoryRequest{CategoryID: "organik"}, cookie)
		expectError(t, rec, http.StatusConflict, handlers.ErrCodeConflict)

		rec = setup.do(t, http.MethodPost, "/api/report/wizard/submit", nil, cookie)
		expectError(t, rec, http.StatusConflict, handlers.ErrCodeConflict)
	})

	setup.wizard(t, "open", nil, cookie)

	tests := []struct {
		name   string
		action string
		body   interface{}
		status int
		code   string
	}{
		{"unknown category", "toggle", handlers.ToggleCategoryRequest{CategoryID: "nuklir"}, http.StatusBadRequest, handlers.ErrCodeUnknownCategory},
		{"unselected weight", "weight", handlers.SetWeightRequest{CategoryID: "kertas", WeightKg: 1}, http.StatusBadRequest, handlers.ErrCodeUnselectedCategory},
		{"unknown preset", "preset", handlers.ApplyPresetRequest{Name: "Tidak Ada"}, http.StatusNotFound, handlers.ErrCodeNotFound},
		{"submit before confirm", "submit", nil, http.StatusConflict, handlers.ErrCodeConflict},
		{"empty body", "toggle", nil, http.StatusBadRequest, handlers.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := setup.do(t, http.MethodPost, "/api/report/wizard/"+tt.action, tt.body, cookie)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestWizard_GatewayFailureKeepsDraft(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.signup(t, "sari", "03", "05")

	setup.wizard(t, "open", nil, cookie)
	setup.wizard(t, "preset", handlers.ApplyPresetRequest{Name: "Botol Plastik & Kardus"}, cookie)
	setup.wizard(t, "advance", nil, cookie)
	before := setup.wizard(t, "advance", nil, cookie)
	if before.Step != "confirm" {
		t.Fatalf("expected confirm, got %s", before.Step)
	}

	setup.gateway.failWith = errors.New("Server bank sampah sedang sibuk")
	rec := setup.do(t, http.MethodPost, "/api/report/wizard/submit", nil, cookie)
	expectError(t, rec, http.StatusBadGateway, handlers.ErrCodeGateway)
	var apiErr struct {
		Error string `json:"error"`
	}
	decode(t, rec, &apiErr)
	if apiErr.Error != "Server bank sampah sedang sibuk" {
		t.Errorf("expected gateway message passed through, got %q", apiErr.Error)
	}

	rec = setup.do(t, http.MethodGet, "/api/report/wizard", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var after wizardView
	decode(t, rec, &after)
	if !after.Open || after.Pending || after.Step != "confirm" {
		t.Errorf("expected open idle wizard at confirm, got %+v", after)
	}
	if len(after.Items) != 2 || after.Items[0] != before.Items[0] || after.Items[1] != before.Items[1] || after.Total != 22 {
		t.Errorf("expected items kept after failure, got %+v", after.Items)
	}

	if n := len(setup.notifier.toasts); n != 1 || setup.notifier.toasts[0].Severity != "error" {
		t.Errorf("expected one error toast, got %+v", setup.notifier.toasts)
	}

	// retry goes through once the gateway recovers
	setup.gateway.failWith = nil
	rec = setup.do(t, http.MethodPost, "/api/report/wizard/submit", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("retry: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWizard_OnePerUser(t *testing.T) {
	setup := newTestSetup(t)
	sari := setup.signup(t, "sari", "03", "05")
	budi := setup.signup(t, "budi", "03", "05")

	setup.wizard(t, "open", nil, sari)
	setup.wizard(t, "toggle", handlers.ToggleCategoryRequest{CategoryID: "plastik"}, sari)

	rec := setup.do(t, http.MethodGet, "/api/report/wizard", nil, budi)
	var view wizardView
	decode(t, rec, &view)
	if view.Open || len(view.Items) != 0 {
		t.Errorf("expected budi's wizard untouched, got %+v", view)
	}
}

func TestGetReports_Empty(t *testing.T) {
	setup := newTestSetup(t)
	cookie := setup.signup(t, "sari", "03", "05")

	rec := setup.do(t, http.MethodGet, "/api/reports", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty array, got %q", body)
	}
}
