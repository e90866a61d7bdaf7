package handlers

import (
	"net/http"

	"github.com/abrezinsky/ecoheroes/internal/chat"
)

func (h *Handlers) handleChatWelcome(w http.ResponseWriter, r *http.Request) {
	respondOK(w, ChatWelcomeResponse{
		Message:     h.Chat.Welcome(),
		Suggestions: chat.Suggestions(),
		Strategy:    h.Chat.StrategyName(),
	})
}

func (h *Handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	reply, err := h.Chat.Reply(r.Context(), req.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, reply)
}
