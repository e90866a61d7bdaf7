package report

import (
	"context"

	"github.com/abrezinsky/ecoheroes/internal/models"
)

// Payload is a finalized report as handed to the Gateway
type Payload struct {
	Categories  []Item `json:"categories"`
	Notes       string `json:"notes"`
	ReportDate  string `json:"report_date"` // YYYY-MM-DD
	ClientTotal int    `json:"client_total"`
}

// Result is what the gateway awards for an accepted report
type Result struct {
	ReportID      string `json:"report_id,omitempty"`
	AwardedPoints int    `json:"awarded_points"`
}

// Gateway persists finalized reports. Submission is all-or-nothing.
type Gateway interface {
	SubmitReport(ctx context.Context, userID int64, p Payload) (Result, error)
}

// Identity is the signed-in user as seen by the wizard
type Identity struct {
	UserID int64
	Name   string
}

// IdentityProvider supplies the current user, if any.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (Identity, bool)
}

// Notifier receives user-facing feedback. It is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, userID int64, toast models.Toast)
}

// StatsSource fetches a user's pre-aggregated statistics.
type StatsSource interface {
	FetchStats(ctx context.Context, userID int64) (models.StatsSnapshot, error)
}

// NoopNotifier drops every toast
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, int64, models.Toast) {}
