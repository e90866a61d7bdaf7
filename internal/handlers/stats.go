package handlers

import (
	"net/http"
)

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.FetchStats(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}

func (h *Handlers) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Dashboard.Dashboard(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, dash)
}

func (h *Handlers) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Dashboard.Profile(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, profile)
}

// handleGetLeaderboard serves ?scope=rt|user&period=week|month|all
func (h *Handlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	board, err := h.Stats.Leaderboard(r.Context(), currentUserID(r), q.Get("scope"), q.Get("period"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, board)
}
