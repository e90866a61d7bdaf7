package handlers

import (
	"net/http"
)

func (h *Handlers) handleGetInvite(w http.ResponseWriter, r *http.Request) {
	invite, err := h.Invites.GetInvite(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, invite)
}

// handleGetInviteQR returns the resident's join link as a PNG QR code
func (h *Handlers) handleGetInviteQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Invites.GenerateQRImage(r.Context(), currentUserID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(png)
}
