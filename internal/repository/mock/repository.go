package mock

import (
	"context"

	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.InsertReportError = errors.New("database error")
//	svc := services.NewReportService(log, mockRepo, catalog.Default())
//	_, err := svc.SubmitReport(ctx, userID, payload)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== User Errors =====
	CreateUserError          error
	GetUserError             error
	GetUserByEmailError      error
	GetUserByInviteCodeError error
	GetInviteCodeError       error
	CountReferralsError      error

	// ===== Report Errors =====
	InsertReportError      error
	ListReportDatesError   error
	ListRecentReportsError error
	ReportSummaryError     error
	CategoryWeightsError   error

	// ===== Leaderboard Errors =====
	UserLeaderboardError error
	RTLeaderboardError   error

	// ===== Challenge Errors =====
	ListChallengesError           error
	GetChallengeError             error
	CreateChallengeError          error
	CountChallengesError          error
	JoinChallengeError            error
	CompleteChallengeError        error
	ListParticipationsError       error
	CountCompletedChallengesError error

	// ===== Settings Errors =====
	GetSettingError      error
	SetSettingError      error
	GetProgramStatsError error
	ClearTableError      error

	// InsertReportHook runs before InsertReport delegates, e.g. to block in tests.
	InsertReportHook func()
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== User Methods =====

func (m *Repository) CreateUser(ctx context.Context, u models.User, passwordHash, inviteCode string, referredBy *int64) (int64, error) {
	if m.CreateUserError != nil {
		return 0, m.CreateUserError
	}
	return m.FullRepository.CreateUser(ctx, u, passwordHash, inviteCode, referredBy)
}

func (m *Repository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if m.GetUserError != nil {
		return nil, m.GetUserError
	}
	return m.FullRepository.GetUser(ctx, id)
}

func (m *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	if m.GetUserByEmailError != nil {
		return nil, "", m.GetUserByEmailError
	}
	return m.FullRepository.GetUserByEmail(ctx, email)
}

func (m *Repository) GetUserByInviteCode(ctx context.Context, code string) (*models.User, error) {
	if m.GetUserByInviteCodeError != nil {
		return nil, m.GetUserByInviteCodeError
	}
	return m.FullRepository.GetUserByInviteCode(ctx, code)
}

func (m *Repository) GetInviteCode(ctx context.Context, userID int64) (string, error) {
	if m.GetInviteCodeError != nil {
		return "", m.GetInviteCodeError
	}
	return m.FullRepository.GetInviteCode(ctx, userID)
}

func (m *Repository) CountReferrals(ctx context.Context, userID int64) (int, error) {
	if m.CountReferralsError != nil {
		return 0, m.CountReferralsError
	}
	return m.FullRepository.CountReferrals(ctx, userID)
}

// ===== Report Methods =====

func (m *Repository) InsertReport(ctx context.Context, rep *models.Report) error {
	if m.InsertReportHook != nil {
		m.InsertReportHook()
	}
	if m.InsertReportError != nil {
		return m.InsertReportError
	}
	return m.FullRepository.InsertReport(ctx, rep)
}

func (m *Repository) ListReportDates(ctx context.Context, userID int64, limit int) ([]string, error) {
	if m.ListReportDatesError != nil {
		return nil, m.ListReportDatesError
	}
	return m.FullRepository.ListReportDates(ctx, userID, limit)
}

func (m *Repository) ListRecentReports(ctx context.Context, userID int64, limit int) ([]models.Report, error) {
	if m.ListRecentReportsError != nil {
		return nil, m.ListRecentReportsError
	}
	return m.FullRepository.ListRecentReports(ctx, userID, limit)
}

func (m *Repository) ReportSummary(ctx context.Context, userID int64) (int, int, error) {
	if m.ReportSummaryError != nil {
		return 0, 0, m.ReportSummaryError
	}
	return m.FullRepository.ReportSummary(ctx, userID)
}

func (m *Repository) CategoryWeights(ctx context.Context, userID int64, since string) (map[string]float64, error) {
	if m.CategoryWeightsError != nil {
		return nil, m.CategoryWeightsError
	}
	return m.FullRepository.CategoryWeights(ctx, userID, since)
}

// ===== Leaderboard Methods =====

func (m *Repository) UserLeaderboard(ctx context.Context, rt, rw, since string) ([]repository.LeaderboardRow, error) {
	if m.UserLeaderboardError != nil {
		return nil, m.UserLeaderboardError
	}
	return m.FullRepository.UserLeaderboard(ctx, rt, rw, since)
}

func (m *Repository) RTLeaderboard(ctx context.Context, since string) ([]repository.LeaderboardRow, error) {
	if m.RTLeaderboardError != nil {
		return nil, m.RTLeaderboardError
	}
	return m.FullRepository.RTLeaderboard(ctx, since)
}

// ===== Challenge Methods =====

func (m *Repository) ListChallenges(ctx context.Context) ([]models.Challenge, error) {
	if m.ListChallengesError != nil {
		return nil, m.ListChallengesError
	}
	return m.FullRepository.ListChallenges(ctx)
}

func (m *Repository) GetChallenge(ctx context.Context, id int64) (*models.Challenge, error) {
	if m.GetChallengeError != nil {
		return nil, m.GetChallengeError
	}
	return m.FullRepository.GetChallenge(ctx, id)
}

func (m *Repository) CreateChallenge(ctx context.Context, c models.Challenge) (int64, error) {
	if m.CreateChallengeError != nil {
		return 0, m.CreateChallengeError
	}
	return m.FullRepository.CreateChallenge(ctx, c)
}

func (m *Repository) CountChallenges(ctx context.Context) (int, error) {
	if m.CountChallengesError != nil {
		return 0, m.CountChallengesError
	}
	return m.FullRepository.CountChallenges(ctx)
}

func (m *Repository) JoinChallenge(ctx context.Context, userID, challengeID int64) error {
	if m.JoinChallengeError != nil {
		return m.JoinChallengeError
	}
	return m.FullRepository.JoinChallenge(ctx, userID, challengeID)
}

func (m *Repository) CompleteChallenge(ctx context.Context, userID, challengeID int64) error {
	if m.CompleteChallengeError != nil {
		return m.CompleteChallengeError
	}
	return m.FullRepository.CompleteChallenge(ctx, userID, challengeID)
}

func (m *Repository) ListParticipations(ctx context.Context, userID int64) (map[int64]repository.Participation, error) {
	if m.ListParticipationsError != nil {
		return nil, m.ListParticipationsError
	}
	return m.FullRepository.ListParticipations(ctx, userID)
}

func (m *Repository) CountCompletedChallenges(ctx context.Context, userID int64) (int, error) {
	if m.CountCompletedChallengesError != nil {
		return 0, m.CountCompletedChallengesError
	}
	return m.FullRepository.CountCompletedChallenges(ctx, userID)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) GetProgramStats(ctx context.Context) (*repository.ProgramStats, error) {
	if m.GetProgramStatsError != nil {
		return nil, m.GetProgramStatsError
	}
	return m.FullRepository.GetProgramStats(ctx)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}
