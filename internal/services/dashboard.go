package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
)

const recentReportsOnProfile = 5

var motivationalMessages = []string{
	"Ayo buat hari ini lebih hijau!",
	"Setiap sampah yang dipilah berarti.",
	"Kamu sudah hebat, terus semangat!",
	"Bersama kita jaga bumi.",
	"Aksi kecilmu berdampak besar!",
}

// DashboardService assembles the home and profile screens from the other services
type DashboardService struct {
	log        logger.Logger
	accounts   AccountServicer
	stats      StatsServicer
	challenges ChallengeServicer
	reports    ReportServicer
	now        func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(log logger.Logger, accounts AccountServicer, stats StatsServicer, challenges ChallengeServicer, reports ReportServicer) *DashboardService {
	return &DashboardService{
		log:        log,
		accounts:   accounts,
		stats:      stats,
		challenges: challenges,
		reports:    reports,
		now:        time.Now,
	}
}

// SetClock overrides the clock used for the greeting (for testing)
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}

// Dashboard is the home screen
type Dashboard struct {
	Greeting   string                         `json:"greeting"`
	Name       string                         `json:"name"`
	Motivation string                         `json:"motivation"`
	Stats      models.StatsSnapshot           `json:"stats"`
	RTRank     int                            `json:"rt_rank"`
	Impact     models.Impact                  `json:"impact"`
	Challenges []models.ChallengeWithProgress `json:"challenges"`
}

// Dashboard loads the home screen. The independent reads run concurrently.
func (s *DashboardService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	var (
		user       *models.User
		stats      models.StatsSnapshot
		rtRank     int
		challenges []models.ChallengeWithProgress
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.accounts.GetUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.stats.FetchStats(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		rtRank, err = s.rtRank(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		challenges, err = s.challenges.ListChallenges(gctx, userID, StatusActive)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	return &Dashboard{
		Greeting:   Greeting(now.Hour()),
		Name:       user.Name,
		Motivation: Motivation(now),
		Stats:      stats,
		RTRank:     rtRank,
		Impact:     EstimateImpact(stats.MonthWeightKg),
		Challenges: challenges,
	}, nil
}

// Profile is the profile screen
type Profile struct {
	User                *models.User         `json:"user"`
	Stats               models.StatsSnapshot `json:"stats"`
	Badges              []models.Badge       `json:"badges"`
	EarnedBadges        int                  `json:"earned_badges"`
	CompletedChallenges int                  `json:"completed_challenges"`
	MostActiveDay       string               `json:"most_active_day"`
	RecentReports       []models.Report      `json:"recent_reports"`
}

// Profile loads the profile screen with derived badges
func (s *DashboardService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	var (
		p      Profile
		rtRank int
		dates  []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p.User, err = s.accounts.GetUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		p.Stats, err = s.stats.FetchStats(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		p.CompletedChallenges, err = s.challenges.CountCompleted(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		rtRank, err = s.rtRank(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		dates, err = s.stats.ReportDates(gctx, userID, 0)
		return err
	})
	g.Go(func() error {
		var err error
		p.RecentReports, err = s.reports.ListRecentReports(gctx, userID, recentReportsOnProfile)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.Badges = Badges(p.Stats, p.CompletedChallenges, rtRank)
	for _, b := range p.Badges {
		if b.Earned {
			p.EarnedBadges++
		}
	}
	p.MostActiveDay = MostActiveDay(dates)
	return &p, nil
}

func (s *DashboardService) rtRank(ctx context.Context, userID int64) (int, error) {
	board, err := s.stats.Leaderboard(ctx, userID, ScopeRT, PeriodMonth)
	if err != nil {
		return 0, err
	}
	// a unit without points this month is unranked
	if board.Current == nil || board.Current.Points == 0 {
		return 0, nil
	}
	return board.Current.Rank, nil
}

// Greeting picks the time-of-day greeting for an hour in 0..23
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Selamat pagi"
	case hour < 17:
		return "Selamat siang"
	default:
		return "Selamat malam"
	}
}

// Motivation rotates the motivational message once per day
func Motivation(now time.Time) string {
	return motivationalMessages[now.YearDay()%len(motivationalMessages)]
}
