package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/errors"
	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/report"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

const dateLayout = "2006-01-02"

// Broadcaster pushes community-wide updates to connected clients
type Broadcaster interface {
	BroadcastLeaderboardUpdate()
}

// ReportService is the submission gateway: it validates finalized reports,
// recomputes their points from the catalog and persists them.
type ReportService struct {
	log         logger.Logger
	repo        repository.ReportRepository
	catalog     *catalog.Catalog
	broadcaster Broadcaster
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(log logger.Logger, repo repository.ReportRepository, c *catalog.Catalog) *ReportService {
	return &ReportService{
		log:     log,
		repo:    repo,
		catalog: c,
		now:     time.Now,
	}
}

// SetBroadcaster sets the broadcaster notified after each accepted report
func (s *ReportService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock overrides the clock used for default report dates (for testing)
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// SubmitReport validates and stores a report. The server-side total is
// authoritative; a differing client total is logged and ignored.
func (s *ReportService) SubmitReport(ctx context.Context, userID int64, p report.Payload) (report.Result, error) {
	if err := s.validate(p); err != nil {
		return report.Result{}, err
	}

	reportDate := p.ReportDate
	if reportDate == "" {
		reportDate = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, reportDate); err != nil {
		return report.Result{}, ErrInvalidReportDate
	}

	points := report.PointsFor(p.Categories, s.catalog)
	if p.ClientTotal != points {
		s.log.Warn("Client total differs from server total", "user_id", userID, "client", p.ClientTotal, "server", points)
	}

	rep := &models.Report{
		ID:         uuid.NewString(),
		UserID:     userID,
		ReportDate: reportDate,
		Notes:      strings.TrimSpace(p.Notes),
		Points:     points,
		CreatedAt:  s.now(),
	}
	for _, item := range p.Categories {
		rep.Items = append(rep.Items, models.ReportItem{CategoryID: item.CategoryID, WeightKg: item.WeightKg})
	}

	if err := s.repo.InsertReport(ctx, rep); err != nil {
		return report.Result{}, fmt.Errorf("gagal menyimpan laporan: %w", err)
	}

	s.log.Info("Report recorded", "report_id", rep.ID, "user_id", userID, "points", points, "items", len(rep.Items))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeaderboardUpdate()
	}

	return report.Result{ReportID: rep.ID, AwardedPoints: points}, nil
}

func (s *ReportService) validate(p report.Payload) error {
	if len(p.Categories) == 0 {
		return ErrEmptyReport
	}
	seen := make(map[string]bool, len(p.Categories))
	for _, item := range p.Categories {
		if !s.catalog.Has(item.CategoryID) {
			return errors.UnknownCategory(item.CategoryID)
		}
		if seen[item.CategoryID] {
			return ErrDuplicateCategory
		}
		seen[item.CategoryID] = true
		if math.IsNaN(item.WeightKg) || item.WeightKg < 0 || item.WeightKg > catalog.MaxWeightKg {
			return ErrInvalidWeight
		}
	}
	return nil
}

// ListRecentReports returns the user's latest reports, newest first
func (s *ReportService) ListRecentReports(ctx context.Context, userID int64, limit int) ([]models.Report, error) {
	reports, err := s.repo.ListRecentReports(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}
