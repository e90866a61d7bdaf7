package repository

import (
	"context"

	"github.com/abrezinsky/ecoheroes/internal/models"
)

// UserRepository defines user account operations
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User, passwordHash, inviteCode string, referredBy *int64) (int64, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, string, error)
	GetUserByInviteCode(ctx context.Context, code string) (*models.User, error)
	GetInviteCode(ctx context.Context, userID int64) (string, error)
	CountReferrals(ctx context.Context, userID int64) (int, error)
}

// ReportRepository defines waste report operations
type ReportRepository interface {
	InsertReport(ctx context.Context, rep *models.Report) error
	ListReportDates(ctx context.Context, userID int64, limit int) ([]string, error)
	ListRecentReports(ctx context.Context, userID int64, limit int) ([]models.Report, error)
	ReportSummary(ctx context.Context, userID int64) (points int, count int, err error)
	CategoryWeights(ctx context.Context, userID int64, since string) (map[string]float64, error)
}

// LeaderboardRepository defines ranking queries
type LeaderboardRepository interface {
	UserLeaderboard(ctx context.Context, rt, rw, since string) ([]LeaderboardRow, error)
	RTLeaderboard(ctx context.Context, since string) ([]LeaderboardRow, error)
}

// ChallengeRepository defines challenge operations
type ChallengeRepository interface {
	ListChallenges(ctx context.Context) ([]models.Challenge, error)
	GetChallenge(ctx context.Context, id int64) (*models.Challenge, error)
	CreateChallenge(ctx context.Context, c models.Challenge) (int64, error)
	CountChallenges(ctx context.Context) (int, error)
	JoinChallenge(ctx context.Context, userID, challengeID int64) error
	CompleteChallenge(ctx context.Context, userID, challengeID int64) error
	ListParticipations(ctx context.Context, userID int64) (map[int64]Participation, error)
	CountCompletedChallenges(ctx context.Context, userID int64) (int, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetProgramStats(ctx context.Context) (*ProgramStats, error)
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	UserRepository
	ReportRepository
	LeaderboardRepository
	ChallengeRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
