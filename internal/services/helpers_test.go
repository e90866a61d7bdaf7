package services_test

import (
	"testing"
	"time"

	"github.com/abrezinsky/ecoheroes/internal/repository"
	"github.com/abrezinsky/ecoheroes/internal/testutil"
)

// fixedNow is Wednesday 2026-03-18 10:00 UTC
var fixedNow = time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func createUser(t *testing.T, repo *repository.Repository, name, rt, rw string) int64 {
	t.Helper()
	return testutil.CreateResident(t, repo, name, rt, rw)
}

func addReport(t *testing.T, repo *repository.Repository, userID int64, date, category string, kg float64, points int) {
	t.Helper()
	testutil.AddReport(t, repo, userID, date, category, kg, points, fixedNow)
}
