package services

import (
	"context"
	stderrors "errors"
	"math"
	"strings"

	"github.com/abrezinsky/ecoheroes/internal/errors"
	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/report"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

// Challenge types
const (
	ChallengeReportingStreak = "reporting_streak"
	ChallengeEducation       = "education"
	ChallengeCommunity       = "community"
	ChallengeOrganicKg       = "organic_kg"
)

// Challenge statuses as seen by one user
const (
	StatusActive    = "active"
	StatusAvailable = "available"
	StatusCompleted = "completed"
)

var challengeTypes = map[string]bool{
	ChallengeReportingStreak: true, ChallengeEducation: true,
	ChallengeCommunity: true, ChallengeOrganicKg: true,
}

var difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

const msgLoginToCreate = "Anda harus login untuk membuat tantangan."

// ChallengeServiceRepository is the data access ChallengeService needs
type ChallengeServiceRepository interface {
	repository.ChallengeRepository
	CountReferrals(ctx context.Context, userID int64) (int, error)
	ListReportDates(ctx context.Context, userID int64, limit int) ([]string, error)
}

// ChallengeService manages challenges and each user's progress on them
type ChallengeService struct {
	log   logger.Logger
	repo  ChallengeServiceRepository
	stats report.StatsSource
}

// NewChallengeService creates a new ChallengeService
func NewChallengeService(log logger.Logger, repo ChallengeServiceRepository, stats report.StatsSource) *ChallengeService {
	return &ChallengeService{log: log, repo: repo, stats: stats}
}

// NewChallenge is the input for a user-created challenge
type NewChallenge struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Difficulty  string `json:"difficulty"`
	Goal        int    `json:"goal"`
	Points      int    `json:"points"`
}

// ChallengeProgress is the detail view of one challenge
type ChallengeProgress struct {
	models.ChallengeWithProgress
	// RecentDates are the last report dates, up to the goal, for streak challenges
	RecentDates []string `json:"recent_dates,omitempty"`
}

// ListChallenges returns the active challenges annotated for userID,
// optionally filtered by status.
func (s *ChallengeService) ListChallenges(ctx context.Context, userID int64, status string) ([]models.ChallengeWithProgress, error) {
	if status != "" && status != StatusActive && status != StatusAvailable && status != StatusCompleted {
		return nil, ErrInvalidStatus
	}

	challenges, err := s.repo.ListChallenges(ctx)
	if err != nil {
		return nil, err
	}

	annotated, err := s.annotate(ctx, userID, challenges)
	if err != nil {
		return nil, err
	}

	out := make([]models.ChallengeWithProgress, 0, len(annotated))
	for _, c := range annotated {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

// annotate computes progress and status. A joined challenge whose progress
// reaches its goal is persisted as completed.
func (s *ChallengeService) annotate(ctx context.Context, userID int64, challenges []models.Challenge) ([]models.ChallengeWithProgress, error) {
	parts, err := s.repo.ListParticipations(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.FetchStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	referrals, err := s.repo.CountReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.ChallengeWithProgress, 0, len(challenges))
	for _, c := range challenges {
		cp := models.ChallengeWithProgress{Challenge: c, Status: StatusAvailable}
		part, joined := parts[c.ID]

		switch {
		case joined && part.Completed:
			cp.Progress = c.Goal
			cp.Status = StatusCompleted
		default:
			cp.Progress = progressFor(c, stats, referrals)
			if joined {
				cp.Status = StatusActive
				if c.Type != ChallengeEducation && cp.Progress >= c.Goal {
					if err := s.repo.CompleteChallenge(ctx, userID, c.ID); err != nil {
						return nil, err
					}
					s.log.Info("Challenge completed", "user_id", userID, "challenge_id", c.ID)
					cp.Status = StatusCompleted
				}
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

func progressFor(c models.Challenge, stats models.StatsSnapshot, referrals int) int {
	var progress int
	switch c.Type {
	case ChallengeReportingStreak:
		progress = stats.CurrentStreak
	case ChallengeCommunity:
		progress = referrals
	case ChallengeOrganicKg:
		progress = int(math.Floor(stats.MonthByCategory["organik"]))
	}
	if progress > c.Goal {
		progress = c.Goal
	}
	return progress
}

// Progress returns the detail view for one challenge
func (s *ChallengeService) Progress(ctx context.Context, userID, challengeID int64) (*ChallengeProgress, error) {
	c, err := s.getActive(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	annotated, err := s.annotate(ctx, userID, []models.Challenge{*c})
	if err != nil {
		return nil, err
	}

	detail := &ChallengeProgress{ChallengeWithProgress: annotated[0]}
	if c.Type == ChallengeReportingStreak {
		dates, err := s.repo.ListReportDates(ctx, userID, c.Goal)
		if err != nil {
			return nil, err
		}
		detail.RecentDates = dates
	}
	return detail, nil
}

// CreateChallenge stores a user-created challenge. It is active immediately.
func (s *ChallengeService) CreateChallenge(ctx context.Context, userID int64, in NewChallenge) (*models.Challenge, error) {
	if userID == 0 {
		return nil, errors.Unauthenticated(msgLoginToCreate)
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Difficulty == "" {
		in.Difficulty = "easy"
	}
	switch {
	case in.Title == "":
		return nil, ErrChallengeTitle
	case !challengeTypes[in.Type]:
		return nil, ErrChallengeType
	case !difficulties[in.Difficulty]:
		return nil, ErrChallengeDifficulty
	case in.Goal <= 0:
		return nil, ErrChallengeGoal
	case in.Points <= 0:
		return nil, ErrChallengePoints
	}

	c := models.Challenge{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Difficulty:  in.Difficulty,
		Goal:        in.Goal,
		Points:      in.Points,
		CreatedBy:   &userID,
		IsActive:    true,
	}
	id, err := s.repo.CreateChallenge(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	s.log.Info("Challenge created", "challenge_id", id, "user_id", userID, "type", c.Type)
	return &c, nil
}

// JoinChallenge enrolls the user. Joining twice is harmless.
func (s *ChallengeService) JoinChallenge(ctx context.Context, userID, challengeID int64) error {
	if _, err := s.getActive(ctx, challengeID); err != nil {
		return err
	}
	return s.repo.JoinChallenge(ctx, userID, challengeID)
}

// CompleteChallenge marks an education challenge done. Other types complete
// on their own once progress reaches the goal.
func (s *ChallengeService) CompleteChallenge(ctx context.Context, userID, challengeID int64) error {
	c, err := s.getActive(ctx, challengeID)
	if err != nil {
		return err
	}
	if c.Type != ChallengeEducation {
		return ErrChallengeNotManual
	}

	parts, err := s.repo.ListParticipations(ctx, userID)
	if err != nil {
		return err
	}
	if _, joined := parts[challengeID]; !joined {
		return ErrChallengeNotJoined
	}
	return s.repo.CompleteChallenge(ctx, userID, challengeID)
}

// CountCompleted counts the user's completed challenges
func (s *ChallengeService) CountCompleted(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountCompletedChallenges(ctx, userID)
}

func (s *ChallengeService) getActive(ctx context.Context, id int64) (*models.Challenge, error) {
	c, err := s.repo.GetChallenge(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrChallengeNotFound
	}
	return c, nil
}

// SeedChallenges inserts the starter challenges into an empty table
func (s *ChallengeService) SeedChallenges(ctx context.Context) (int, error) {
	count, err := s.repo.CountChallenges(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	seeded := 0
	for _, c := range starterChallenges() {
		if _, err := s.repo.CreateChallenge(ctx, c); err != nil {
			return seeded, err
		}
		seeded++
	}
	s.log.Info("Seeded challenges", "count", seeded)
	return seeded, nil
}

func starterChallenges() []models.Challenge {
	return []models.Challenge{
		{Title: "Misi Nol Plastik", Description: "Hindari penggunaan plastik sekali pakai selama 7 hari berturut-turut",
			Type: ChallengeReportingStreak, Difficulty: "medium", Goal: 7, Points: 150, IsActive: true},
		{Title: "Raja Kompos", Description: "Buat kompos dari sampah organik minimal 5 hari dalam seminggu",
			Type: ChallengeReportingStreak, Difficulty: "hard", Goal: 5, Points: 200, IsActive: true},
		{Title: "Pelapor Konsisten", Description: "Laporkan sampah harian selama 3 hari berturut-turut",
			Type: ChallengeReportingStreak, Difficulty: "easy", Goal: 3, Points: 75, IsActive: true},
		{Title: "Ahli Daur Ulang", Description: "Pelajari 5 cara kreatif mendaur ulang botol plastik",
			Type: ChallengeEducation, Difficulty: "easy", Goal: 1, Points: 100, IsActive: true},
		{Title: "EcoHero Ambassador", Description: "Ajak 2 teman untuk bergabung dengan EcoHeroes",
			Type: ChallengeCommunity, Difficulty: "hard", Goal: 2, Points: 300, IsActive: true},
		{Title: "Sampah Organik Champion", Description: "Berhasil mengurangi sampah organik sebanyak 10kg dalam sebulan",
			Type: ChallengeOrganicKg, Difficulty: "hard", Goal: 10, Points: 250, IsActive: true},
	}
}
