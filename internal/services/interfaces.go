package services

import (
	"context"

	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/report"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

// ReportServicer defines the interface for report operations
type ReportServicer interface {
	SubmitReport(ctx context.Context, userID int64, p report.Payload) (report.Result, error)
	ListRecentReports(ctx context.Context, userID int64, limit int) ([]models.Report, error)
}

// StatsServicer defines the interface for statistics and leaderboards
type StatsServicer interface {
	FetchStats(ctx context.Context, userID int64) (models.StatsSnapshot, error)
	ReportDates(ctx context.Context, userID int64, limit int) ([]string, error)
	Leaderboard(ctx context.Context, userID int64, scope, period string) (*Leaderboard, error)
}

// ChallengeServicer defines the interface for challenge operations
type ChallengeServicer interface {
	ListChallenges(ctx context.Context, userID int64, status string) ([]models.ChallengeWithProgress, error)
	Progress(ctx context.Context, userID, challengeID int64) (*ChallengeProgress, error)
	CreateChallenge(ctx context.Context, userID int64, in NewChallenge) (*models.Challenge, error)
	JoinChallenge(ctx context.Context, userID, challengeID int64) error
	CompleteChallenge(ctx context.Context, userID, challengeID int64) error
	CountCompleted(ctx context.Context, userID int64) (int, error)
	SeedChallenges(ctx context.Context) (int, error)
}

// AccountServicer defines the interface for account operations
type AccountServicer interface {
	Signup(ctx context.Context, in Signup) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// InviteServicer defines the interface for referral invites
type InviteServicer interface {
	GetInvite(ctx context.Context, userID int64) (*Invite, error)
	GenerateQRImage(ctx context.Context, userID int64) ([]byte, error)
}

// DashboardServicer defines the interface for the home and profile screens
type DashboardServicer interface {
	Dashboard(ctx context.Context, userID int64) (*Dashboard, error)
	Profile(ctx context.Context, userID int64) (*Profile, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	ChatStrategy(ctx context.Context) (string, error)
	SetChatStrategy(ctx context.Context, name string) error
	LeaderboardNote(ctx context.Context) (string, error)
	SetLeaderboardNote(ctx context.Context, note string) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	ProgramStats(ctx context.Context) (*repository.ProgramStats, error)
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// Ensure concrete types implement interfaces
var (
	_ ReportServicer    = (*ReportService)(nil)
	_ StatsServicer     = (*StatsService)(nil)
	_ ChallengeServicer = (*ChallengeService)(nil)
	_ AccountServicer   = (*AccountService)(nil)
	_ InviteServicer    = (*InviteService)(nil)
	_ DashboardServicer = (*DashboardService)(nil)
	_ SettingsServicer  = (*SettingsService)(nil)

	_ report.Gateway     = (*ReportService)(nil)
	_ report.StatsSource = (*StatsService)(nil)
)
