package handlers

import (
	"net/http"

	"github.com/abrezinsky/ecoheroes/internal/report"
)

// ==================== Catalog ====================

func (h *Handlers) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Catalog.List())
}

func (h *Handlers) handleGetPresets(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Catalog.Presets())
}

// ==================== Report Wizard ====================

func (h *Handlers) wizard(r *http.Request) *report.Wizard {
	return h.Wizards.For(currentUserID(r))
}

// respondView writes the wizard state, or err if the action was refused
func respondView(w http.ResponseWriter, view report.View, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, view)
}

func (h *Handlers) handleWizardView(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.wizard(r).View())
}

func (h *Handlers) handleWizardOpen(w http.ResponseWriter, r *http.Request) {
	wz := h.wizard(r)
	if err := wz.Open(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wz.View())
}

func (h *Handlers) handleWizardToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	view, err := h.wizard(r).ToggleCategory(req.CategoryID)
	respondView(w, view, err)
}

func (h *Handlers) handleWizardWeight(w http.ResponseWriter, r *http.Request) {
	var req SetWeightRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	view, err := h.wizard(r).SetWeight(req.CategoryID, req.WeightKg)
	respondView(w, view, err)
}

func (h *Handlers) handleWizardPreset(w http.ResponseWriter, r *http.Request) {
	var req ApplyPresetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	view, err := h.wizard(r).ApplyPreset(req.Name)
	respondView(w, view, err)
}

func (h *Handlers) handleWizardNotes(w http.ResponseWriter, r *http.Request) {
	var req SetNotesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	view, err := h.wizard(r).SetNotes(req.Notes)
	respondView(w, view, err)
}

func (h *Handlers) handleWizardAdvance(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizard(r).Advance()
	respondView(w, view, err)
}

func (h *Handlers) handleWizardRetreat(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizard(r).Retreat()
	respondView(w, view, err)
}

func (h *Handlers) handleWizardSubmit(w http.ResponseWriter, r *http.Request) {
	wz := h.wizard(r)
	result, err := wz.Submit(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, SubmitResponse{
		Result: result,
		Toast:  report.SuccessToast(result.AwardedPoints),
		View:   wz.View(),
	})
}

func (h *Handlers) handleWizardCancel(w http.ResponseWriter, r *http.Request) {
	wz := h.wizard(r)
	if err := wz.Cancel(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wz.View())
}

// ==================== Reports ====================

func (h *Handlers) handleGetReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Reports.ListRecentReports(r.Context(), currentUserID(r), 20)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, reports)
}
