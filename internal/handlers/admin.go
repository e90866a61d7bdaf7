package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/abrezinsky/ecoheroes/internal/services"
)

// ==================== Public Pages ====================

// IndexPageData holds data for the resident app shell
type IndexPageData struct {
	InviteCode string
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.templates.Index.Execute(w, IndexPageData{})
}

// handleJoin opens the app shell with a referral code pre-filled
func (h *Handlers) handleJoin(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ref")))
	h.templates.Index.Execute(w, IndexPageData{InviteCode: code})
}

// ==================== Admin Pages ====================

func (h *Handlers) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "EcoHeroes Admin",
		PageTitle: "Ringkasan Program",
		ActiveNav: "dashboard",
	}
	h.templates.AdminDashboard.ExecuteTemplate(w, "admin", data)
}

func (h *Handlers) handleAdminSettings(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "Pengaturan",
		PageTitle: "Pengaturan",
		ActiveNav: "settings",
	}
	h.templates.AdminSettings.ExecuteTemplate(w, "admin", data)
}

// ==================== Stats ====================

func (h *Handlers) handleGetProgramStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Settings.ProgramStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, stats)
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req services.Settings
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.UpdateSettings(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Settings updated")
}

// ==================== Database Management ====================

func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, result.Message)
}

func (h *Handlers) handleSeedChallenges(w http.ResponseWriter, r *http.Request) {
	count, err := h.Challenges.SeedChallenges(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	message := "Challenges already exist"
	if count > 0 {
		message = fmt.Sprintf("Added %d challenges", count)
	}
	respondOK(w, map[string]interface{}{
		"message":     message,
		"added_count": count,
	})
}
