package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

// Leaderboard scopes and periods
const (
	ScopeRT   = "rt"
	ScopeUser = "user"

	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

const (
	msgTopRank   = "🎉 Selamat! Kamu di peringkat teratas!"
	msgOvertake  = "Terus beraksi! Kamu hanya butuh %d poin lagi untuk menyusul %s."
	msgKeepGoing = "Terus semangat berjuang untuk lingkungan!"
)

// StatsServiceRepository is the data access StatsService needs
type StatsServiceRepository interface {
	repository.ReportRepository
	repository.LeaderboardRepository
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetSetting(ctx context.Context, key string) (string, error)
}

// StatsService aggregates per-user statistics and leaderboards
type StatsService struct {
	log     logger.Logger
	repo    StatsServiceRepository
	catalog *catalog.Catalog
	now     func() time.Time
	boards  singleflight.Group
}

// NewStatsService creates a new StatsService
func NewStatsService(log logger.Logger, repo StatsServiceRepository, c *catalog.Catalog) *StatsService {
	return &StatsService{
		log:     log,
		repo:    repo,
		catalog: c,
		now:     time.Now,
	}
}

// SetClock overrides the clock used for streaks and periods (for testing)
func (s *StatsService) SetClock(now func() time.Time) {
	s.now = now
}

// FetchStats builds the user's snapshot from their stored reports
func (s *StatsService) FetchStats(ctx context.Context, userID int64) (models.StatsSnapshot, error) {
	snap := models.StatsSnapshot{UserID: userID}

	points, count, err := s.repo.ReportSummary(ctx, userID)
	if err != nil {
		return snap, err
	}
	snap.TotalPoints = points
	snap.ReportCount = count

	dates, err := s.repo.ListReportDates(ctx, userID, 0)
	if err != nil {
		return snap, err
	}
	today := s.now()
	snap.CurrentStreak = CurrentStreak(dates, today)

	byCategory, err := s.repo.CategoryWeights(ctx, userID, "")
	if err != nil {
		return snap, err
	}
	snap.WeightByCategory = byCategory
	snap.TotalWeightKg = sumWeights(byCategory)

	month, err := s.repo.CategoryWeights(ctx, userID, periodStart(PeriodMonth, today))
	if err != nil {
		return snap, err
	}
	snap.MonthByCategory = month
	snap.MonthWeightKg = sumWeights(month)

	return snap, nil
}

// ReportDates returns up to limit distinct report dates, newest first
func (s *StatsService) ReportDates(ctx context.Context, userID int64, limit int) ([]string, error) {
	dates, err := s.repo.ListReportDates(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// CurrentStreak counts consecutive report days ending today. A streak that
// ended yesterday still counts, since today's report may not be in yet.
func CurrentStreak(dates []string, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	reported := make(map[string]bool, len(dates))
	for _, d := range dates {
		reported[d] = true
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !reported[day.Format(dateLayout)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for reported[day.Format(dateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func sumWeights(weights map[string]float64) float64 {
	var total float64
	for _, kg := range weights {
		total += kg
	}
	return math.Round(total*100) / 100
}

// periodStart returns the first date (YYYY-MM-DD) included in a period, or
// "" for all time. Weeks start on Monday.
func periodStart(period string, now time.Time) string {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset).Format(dateLayout)
	case PeriodMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout)
	default:
		return ""
	}
}

// ==================== Leaderboard ====================

// Leaderboard is a ranked view for one scope and period
type Leaderboard struct {
	Scope   string                    `json:"scope"`
	Period  string                    `json:"period"`
	Entries []models.LeaderboardEntry `json:"entries"`
	Current *models.LeaderboardEntry  `json:"current,omitempty"`
	Message string                    `json:"message,omitempty"`
	Note    string                    `json:"note,omitempty"`
}

// Leaderboard ranks either neighborhood units (scope rt) or the residents
// of the user's own unit (scope user). Empty scope and period default to
// rt and month.
func (s *StatsService) Leaderboard(ctx context.Context, userID int64, scope, period string) (*Leaderboard, error) {
	if scope == "" {
		scope = ScopeRT
	}
	if period == "" {
		period = PeriodMonth
	}
	if scope != ScopeRT && scope != ScopeUser {
		return nil, ErrInvalidScope
	}
	if period != PeriodWeek && period != PeriodMonth && period != PeriodAll {
		return nil, ErrInvalidPeriod
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := periodStart(period, s.now())
	key := fmt.Sprintf("%s|%s|%s/%s", scope, since, user.RT, user.RW)
	// the shared query must not die with whichever caller started it
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.boards.Do(key, func() (interface{}, error) {
		if scope == ScopeRT {
			return s.repo.RTLeaderboard(shared, since)
		}
		return s.repo.UserLeaderboard(shared, user.RT, user.RW, since)
	})
	if err != nil {
		return nil, err
	}

	currentID := strconv.FormatInt(user.ID, 10)
	if scope == ScopeRT {
		currentID = user.RT + "/" + user.RW
	}

	board := &Leaderboard{
		Scope:   scope,
		Period:  period,
		Entries: RankEntries(v.([]repository.LeaderboardRow), currentID),
	}
	for i := range board.Entries {
		if board.Entries[i].IsCurrentUser {
			current := board.Entries[i]
			board.Current = &current
			break
		}
	}
	board.Message = OvertakeMessage(board.Entries)

	if note, err := s.repo.GetSetting(ctx, repository.SettingLeaderboardTip); err == nil {
		board.Note = note
	}

	return board, nil
}

// RankEntries assigns competition ranks (equal points share a rank) to rows
// already sorted by points descending, and marks currentID.
func RankEntries(rows []repository.LeaderboardRow, currentID string) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, len(rows))
	for i, row := range rows {
		rank := i + 1
		if i > 0 && row.Points == rows[i-1].Points {
			rank = entries[i-1].Rank
		}
		entries[i] = models.LeaderboardEntry{
			ID:            row.ID,
			Name:          row.Name,
			Points:        row.Points,
			Rank:          rank,
			IsCurrentUser: row.ID == currentID,
		}
	}
	return entries
}

// OvertakeMessage tells the current entry how far it is from the next one up.
// It is empty when no entry is marked current.
func OvertakeMessage(entries []models.LeaderboardEntry) string {
	cur := -1
	for i, e := range entries {
		if e.IsCurrentUser {
			cur = i
			break
		}
	}
	if cur < 0 {
		return ""
	}
	// nobody tops an empty board
	if entries[cur].Rank == 1 && entries[cur].Points > 0 {
		return msgTopRank
	}
	for i := cur - 1; i >= 0; i-- {
		if entries[i].Points > entries[cur].Points {
			return fmt.Sprintf(msgOvertake, entries[i].Points-entries[cur].Points, entries[i].Name)
		}
	}
	return msgKeepGoing
}

// ==================== Derived Views ====================

// Badge thresholds
const (
	badgeWeightKg   = 10.0
	badgeStreakDays = 7
	badgeChallenges = 10
	badgeTopRank    = 3
)

// Badges derives the profile achievements. rtRank is the user's unit rank
// on the monthly RT leaderboard, or 0 when unranked.
func Badges(stats models.StatsSnapshot, completedChallenges, rtRank int) []models.Badge {
	recycled := stats.WeightByCategory["plastik"] + stats.WeightByCategory["kertas"]
	return []models.Badge{
		{ID: "first-reporter", Name: "Pelapor Pertama", Description: "Mengirim laporan pertama",
			Earned: stats.ReportCount > 0},
		{ID: "compost-hero", Name: "Pahlawan Kompos", Description: "Melaporkan 10kg sampah organik",
			Earned: stats.WeightByCategory["organik"] >= badgeWeightKg},
		{ID: "recycling-warrior", Name: "Pejuang Daur Ulang", Description: "Melaporkan 10kg sampah plastik/kertas",
			Earned: recycled >= badgeWeightKg},
		{ID: "streak-7", Name: "Streak 7 Hari", Description: "Melapor 7 hari berturut-turut",
			Earned: stats.CurrentStreak >= badgeStreakDays},
		{ID: "visionary", Name: "Visioner Lingkungan", Description: "Menyelesaikan 10 tantangan",
			Earned: completedChallenges >= badgeChallenges},
		{ID: "community-leader", Name: "Pemimpin Komunitas", Description: "Masuk 3 besar leaderboard RT",
			Earned: rtRank > 0 && rtRank <= badgeTopRank},
	}
}

// Impact factors per kilogram of sorted waste
const (
	co2KgPerKg     = 1.0
	kgPerTreeSaved = 5.0
	waterLPerKg    = 8
)

// EstimateImpact converts a month of reported kilograms into the dashboard's
// environmental estimate.
func EstimateImpact(monthKg float64) models.Impact {
	if monthKg <= 0 {
		return models.Impact{}
	}
	return models.Impact{
		CO2Kg:       math.Round(monthKg*co2KgPerKg*10) / 10,
		TreesSaved:  int(monthKg / kgPerTreeSaved),
		WaterLiters: int(math.Round(monthKg * waterLPerKg)),
	}
}

var weekdayNames = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// MostActiveDay names the weekday with the most reports. Ties go to the
// earlier weekday, Sunday first; "" when there are no valid dates.
func MostActiveDay(dates []string) string {
	var counts [7]int
	found := false
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		counts[t.Weekday()]++
		found = true
	}
	if !found {
		return ""
	}
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return weekdayNames[best]
}
