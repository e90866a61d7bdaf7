// Package testutil provides fixtures backed by a real in-memory database.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

// NewTestRepository creates a fresh in-memory repository with the schema
// applied. It is closed when the test ends.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

// CreateResident inserts a resident named name in the given RT/RW. The email
// is name@eco.test and the invite code CODE-name.
func CreateResident(t *testing.T, repo *repository.Repository, name, rt, rw string) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(),
		models.User{Email: name + "@eco.test", Name: name, RT: rt, RW: rw},
		"hash", "CODE-"+name, nil)
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return id
}

// AddReport stores a report with a single category line
func AddReport(t *testing.T, repo *repository.Repository, userID int64, date, category string, kg float64, points int, createdAt time.Time) {
	t.Helper()
	err := repo.InsertReport(context.Background(), &models.Report{
		ID:         uuid.NewString(),
		UserID:     userID,
		ReportDate: date,
		Points:     points,
		CreatedAt:  createdAt,
		Items:      []models.ReportItem{{CategoryID: category, WeightKg: kg}},
	})
	if err != nil {
		t.Fatalf("InsertReport failed: %v", err)
	}
}
