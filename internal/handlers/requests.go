package handlers

// LoginRequest represents a resident sign-in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToggleCategoryRequest selects or deselects a category in the wizard
type ToggleCategoryRequest struct {
	CategoryID string `json:"category_id"`
}

// SetWeightRequest sets the weight of a selected category
type SetWeightRequest struct {
	CategoryID string  `json:"category_id"`
	WeightKg   float64 `json:"weight_kg"`
}

// ApplyPresetRequest replaces the selection with a named preset
type ApplyPresetRequest struct {
	Name string `json:"name"`
}

// SetNotesRequest sets the free-text notes of the draft
type SetNotesRequest struct {
	Notes string `json:"notes"`
}

// ChatRequest represents a question for EcoBot
type ChatRequest struct {
	Message string `json:"message"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}
