package handlers

import (
	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/report"
)

// SubmitResponse is returned when the wizard's report is accepted
type SubmitResponse struct {
	report.Result
	Toast models.Toast `json:"toast"`
	View  report.View  `json:"view"`
}

// ChatWelcomeResponse opens a conversation with EcoBot
type ChatWelcomeResponse struct {
	Message     models.ChatMessage `json:"message"`
	Suggestions []string           `json:"suggestions"`
	Strategy    string             `json:"strategy"`
}
