package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/abrezinsky/ecoheroes/internal/auth"
	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/chat"
	"github.com/abrezinsky/ecoheroes/internal/handlers"
	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/report"
	"github.com/abrezinsky/ecoheroes/internal/repository"
	"github.com/abrezinsky/ecoheroes/internal/services"
	"github.com/abrezinsky/ecoheroes/internal/testutil"
)

const adminPassword = "test-password"

func createTestTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":           &fstest.MapFile{Data: []byte(`<html><body><h1>EcoHeroes</h1><input name="invite_code" value="{{.InviteCode}}"></body></html>`)},
		"admin/login.html":     &fstest.MapFile{Data: []byte(`<html><body><h1>Login Page</h1>{{.Error}}</body></html>`)},
		"admin/layout.html":    &fstest.MapFile{Data: []byte(`{{define "admin"}}<html><body><h1>{{.PageTitle}}</h1>{{template "content" .}}</body></html>{{end}}`)},
		"admin/dashboard.html": &fstest.MapFile{Data: []byte(`{{define "content"}}<div>Dashboard Content</div>{{end}}`)},
		"admin/settings.html":  &fstest.MapFile{Data: []byte(`{{define "content"}}<div>Settings Content</div>{{end}}`)},
	}
}

// recordingNotifier captures wizard toasts
type recordingNotifier struct {
	toasts []models.Toast
}

func (n *recordingNotifier) Notify(_ context.Context, _ int64, toast models.Toast) {
	n.toasts = append(n.toasts, toast)
}

// switchableGateway forwards to the report service until failWith is set
type switchableGateway struct {
	next     report.Gateway
	failWith error
}

func (g *switchableGateway) SubmitReport(ctx context.Context, userID int64, p report.Payload) (report.Result, error) {
	if g.failWith != nil {
		return report.Result{}, g.failWith
	}
	return g.next.SubmitReport(ctx, userID, p)
}

type testSetup struct {
	router      chi.Router
	repo        *repository.Repository
	auth        *auth.Auth
	settings    *services.SettingsService
	challenges  *services.ChallengeService
	notifier    *recordingNotifier
	gateway     *switchableGateway
	adminCookie *http.Cookie
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	log := logger.Discard()
	cat := catalog.Default()

	accounts := services.NewAccountService(log, repo)
	accounts.SetHashCost(bcrypt.MinCost)
	reports := services.NewReportService(log, repo, cat)
	stats := services.NewStatsService(log, repo, cat)
	challenges := services.NewChallengeService(log, repo, stats)
	settings := services.NewSettingsService(log, repo)
	invites := services.NewInviteService(log, repo, settings)
	dashboard := services.NewDashboardService(log, accounts, stats, challenges, reports)

	a := auth.New(adminPassword, accounts)
	notifier := &recordingNotifier{}
	gateway := &switchableGateway{next: reports}
	wizards := report.NewRegistry(report.Deps{
		Catalog:  cat,
		Gateway:  gateway,
		Identity: auth.ContextIdentity{},
		Notifier: notifier,
		Log:      log,
	})

	svc := handlers.Services{
		Accounts:   accounts,
		Reports:    reports,
		Stats:      stats,
		Challenges: challenges,
		Dashboard:  dashboard,
		Invites:    invites,
		Settings:   settings,
		Catalog:    cat,
		Wizards:    wizards,
		Chat:       chat.NewAssistant(log, chat.NewKeywordStrategy()),
	}

	h, err := handlers.New(svc, createTestTemplatesFS(), handlers.NewStaticServer(fstest.MapFS{
		"app.css": &fstest.MapFile{Data: []byte("body{}")},
	}), a, nil, handlers.NoopHTTPLogger{})
	if err != nil {
		t.Fatalf("failed to create handlers: %v", err)
	}

	token, _ := a.LoginAdmin(adminPassword)
	return &testSetup{
		router:      h.Router(),
		repo:        repo,
		auth:        a,
		settings:    settings,
		challenges:  challenges,
		notifier:    notifier,
		gateway:     gateway,
		adminCookie: &http.Cookie{Name: auth.AdminCookieName, Value: token},
	}
}

// signup registers a resident through the API and returns their session cookie
func (s *testSetup) signup(t *testing.T, name, rt, rw string) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/signup", services.Signup{
		Name: name, Email: name + "@eco.test", Password: "rahasia", RT: rt, RW: rw,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", name, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("signup %s: no session cookie", name)
	return nil
}

// do sends a JSON request with the given cookies
func (s *testSetup) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var apiErr struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	decode(t, rec, &apiErr)
	if apiErr.Code != code {
		t.Errorf("expected code %s, got %s (%s)", code, apiErr.Code, apiErr.Error)
	}
}
