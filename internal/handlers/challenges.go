package handlers

import (
	"net/http"

	"github.com/abrezinsky/ecoheroes/internal/services"
)

func (h *Handlers) handleGetChallenges(w http.ResponseWriter, r *http.Request) {
	list, err := h.Challenges.ListChallenges(r.Context(), currentUserID(r), r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, list)
}

func (h *Handlers) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req services.NewChallenge
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	c, err := h.Challenges.CreateChallenge(r.Context(), currentUserID(r), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, c)
}

func (h *Handlers) handleGetChallengeProgress(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	progress, err := h.Challenges.Progress(r.Context(), currentUserID(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, progress)
}

func (h *Handlers) handleJoinChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Challenges.JoinChallenge(r.Context(), currentUserID(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Tantangan diikuti")
}

func (h *Handlers) handleCompleteChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Challenges.CompleteChallenge(r.Context(), currentUserID(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Tantangan selesai")
}
