package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abrezinsky/ecoheroes/internal/models"
)

type fakeUsers map[int64]*models.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func newTestAuth() *Auth {
	return New("admin-password", fakeUsers{7: {ID: 7, Name: "Sari", RT: "03", RW: "05"}})
}

func TestNew(t *testing.T) {
	a := newTestAuth()

	if a == nil {
		t.Fatal("expected auth to be created")
	}
	if a.password != "admin-password" {
		t.Error("expected password to be set")
	}
	if a.sessions == nil {
		t.Error("expected sessions map to be initialized")
	}
}

func TestGeneratePassword_Format(t *testing.T) {
	pw := GeneratePassword()

	parts := strings.Split(pw, "-")
	if len(parts) != 3 {
		t.Errorf("expected 3 words separated by dashes, got %d parts: %s", len(parts), pw)
	}

	for _, part := range parts {
		found := false
		for _, word := range ecoWords {
			if part == word {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("word %q not in ecoWords list", part)
		}
	}
}

func TestGeneratePassword_Randomness(t *testing.T) {
	passwords := make(map[string]bool)
	for i := 0; i < 10; i++ {
		passwords[GeneratePassword()] = true
	}

	if len(passwords) < 3 {
		t.Errorf("expected more password variety, got only %d unique passwords", len(passwords))
	}
}

func TestStartSession(t *testing.T) {
	a := newTestAuth()

	token := a.StartSession(7)
	if len(token) != 64 { // 32 bytes = 64 hex chars
		t.Errorf("expected 64-char token, got %d chars", len(token))
	}

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	id, ok := a.UserIDFromRequest(req)
	if !ok || id != 7 {
		t.Errorf("expected user 7, got %d (ok=%v)", id, ok)
	}
}

func TestLoginAdmin(t *testing.T) {
	a := newTestAuth()

	if _, ok := a.LoginAdmin("wrong"); ok {
		t.Error("expected login to fail with wrong password")
	}

	token, ok := a.LoginAdmin("admin-password")
	if !ok || token == "" {
		t.Fatal("expected admin login to succeed")
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
	if !a.IsAdmin(req) {
		t.Error("expected admin session")
	}

	// An admin token is not a resident session
	req = httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	if _, ok := a.UserIDFromRequest(req); ok {
		t.Error("expected admin token to be rejected as resident session")
	}
}

func TestLoginAdmin_EmptyPasswordDisabled(t *testing.T) {
	a := New("", fakeUsers{})
	if _, ok := a.LoginAdmin(""); ok {
		t.Error("expected admin login to be disabled without a password")
	}
}

func TestLogout(t *testing.T) {
	a := newTestAuth()
	token := a.StartSession(7)

	id, ok := a.Logout(token)
	if !ok || id != 7 {
		t.Errorf("expected logout of user 7, got %d (ok=%v)", id, ok)
	}
	if _, ok := a.lookup(token); ok {
		t.Error("expected session to be invalid after logout")
	}
	if _, ok := a.Logout(token); ok {
		t.Error("expected second logout to report no session")
	}
}

func TestLookup_ExpiredSession(t *testing.T) {
	a := newTestAuth()
	token := a.StartSession(7)

	a.now = func() time.Time { return time.Now().Add(SessionExpiry + time.Minute) }

	if _, ok := a.lookup(token); ok {
		t.Error("expected expired session to be invalid")
	}

	a.mu.RLock()
	_, exists := a.sessions[token]
	a.mu.RUnlock()
	if exists {
		t.Error("expected expired session to be removed")
	}
}

func TestUserIDFromRequest_NoCookie(t *testing.T) {
	a := newTestAuth()

	if _, ok := a.UserIDFromRequest(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected false when no cookie present")
	}
}

func TestRequireAuthAPI_LoadsUser(t *testing.T) {
	a := newTestAuth()
	token := a.StartSession(7)

	var got *models.User
	handler := a.RequireAuthAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/stats", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got == nil || got.Name != "Sari" {
		t.Errorf("expected Sari in context, got %+v", got)
	}
}

func TestRequireAuthAPI_Rejects(t *testing.T) {
	a := newTestAuth()
	// Session for a user that no longer exists
	stale := a.StartSession(99)

	handler := a.RequireAuthAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	for _, token := range []string{"", "bogus", stale} {
		req := httptest.NewRequest("GET", "/api/stats", nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("token %q: expected 401, got %d", token, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "NOT_AUTHENTICATED") {
			t.Errorf("token %q: expected NOT_AUTHENTICATED code, got %s", token, rr.Body.String())
		}
	}
}

func TestRequireAdmin_RedirectsWithoutSession(t *testing.T) {
	a := newTestAuth()

	handler := a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/admin", nil))

	if rr.Code != http.StatusFound {
		t.Errorf("expected 302 redirect, got %d", rr.Code)
	}
	if rr.Header().Get("Location") != "/admin/login" {
		t.Errorf("expected redirect to /admin/login, got %s", rr.Header().Get("Location"))
	}
}

func TestRequireAdminAPI(t *testing.T) {
	a := newTestAuth()
	token, _ := a.LoginAdmin("admin-password")

	handler := a.RequireAdminAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/settings", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/admin/settings", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %s", ct)
	}
}

func TestSetSessionCookie(t *testing.T) {
	rr := httptest.NewRecorder()

	SetSessionCookie(rr, "test-token")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	cookie := cookies[0]
	if cookie.Name != CookieName {
		t.Errorf("expected cookie name %s, got %s", CookieName, cookie.Name)
	}
	if cookie.Value != "test-token" {
		t.Errorf("expected cookie value 'test-token', got %s", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly to be true")
	}
	if cookie.Path != "/" {
		t.Errorf("expected path '/', got %s", cookie.Path)
	}
}

func TestClearCookies(t *testing.T) {
	rr := httptest.NewRecorder()

	ClearSessionCookie(rr)
	ClearAdminCookie(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].Name != CookieName || cookies[1].Name != AdminCookieName {
		t.Errorf("unexpected cookie names %s, %s", cookies[0].Name, cookies[1].Name)
	}
	for _, c := range cookies {
		if c.MaxAge != -1 {
			t.Errorf("expected MaxAge -1 (delete) for %s, got %d", c.Name, c.MaxAge)
		}
	}
}

func TestContextIdentity(t *testing.T) {
	var id ContextIdentity

	if _, ok := id.CurrentUser(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}

	ctx := WithUser(context.Background(), &models.User{ID: 7, Name: "Sari"})
	ident, ok := id.CurrentUser(ctx)
	if !ok || ident.UserID != 7 || ident.Name != "Sari" {
		t.Errorf("unexpected identity %+v (ok=%v)", ident, ok)
	}

	if _, ok := id.CurrentUser(WithUser(context.Background(), nil)); ok {
		t.Error("expected nil user to mean signed out")
	}
}

func TestConcurrentSessionAccess(t *testing.T) {
	a := newTestAuth()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int64) {
			token := a.StartSession(id)
			a.lookup(token)
			a.Logout(token)
			done <- true
		}(int64(i))
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
