package services

import "fmt"

// Service errors
var (
	ErrNoTablesSpecified    = &ServiceError{Message: "no tables specified"}
	ErrEmptyReport          = &ServiceError{Message: "report must contain at least one category"}
	ErrDuplicateCategory    = &ServiceError{Message: "each category may appear only once per report"}
	ErrInvalidWeight        = &ServiceError{Message: "weight must be between 0 and 5 kg"}
	ErrInvalidReportDate    = &ServiceError{Message: "report date must be formatted as YYYY-MM-DD"}
	ErrChallengeTitle       = &ServiceError{Message: "challenge title is required"}
	ErrChallengeType        = &ServiceError{Message: "invalid challenge type"}
	ErrChallengeDifficulty  = &ServiceError{Message: "invalid challenge difficulty"}
	ErrChallengeGoal        = &ServiceError{Message: "goal must be greater than zero"}
	ErrChallengePoints      = &ServiceError{Message: "points must be greater than zero"}
	ErrChallengeNotFound    = &ServiceError{Message: "challenge not found"}
	ErrChallengeNotJoined   = &ServiceError{Message: "join the challenge first"}
	ErrChallengeNotManual   = &ServiceError{Message: "only education challenges can be completed manually"}
	ErrInvalidStatus        = &ServiceError{Message: "status must be one of active, available, completed"}
	ErrInvalidScope         = &ServiceError{Message: "scope must be rt or user"}
	ErrInvalidPeriod        = &ServiceError{Message: "period must be week, month or all"}
	ErrInvalidChatStrategy  = &ServiceError{Message: "chat strategy must be keyword or gemini"}
	ErrBaseURLNotConfigured = &ServiceError{Message: "base_url not configured"}
	ErrEmailTaken           = &ServiceError{Message: "email sudah terdaftar"}
	ErrInvalidCredentials   = &ServiceError{Message: "email atau password salah"}
	ErrInvalidSignup        = &ServiceError{Message: "nama, email, dan password (minimal 6 karakter) wajib diisi"}
	ErrUnknownInviteCode    = &ServiceError{Message: "kode undangan tidak dikenal"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}
