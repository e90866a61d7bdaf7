package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/report"
)

const (
	CookieName      = "ecoheroes_session"
	AdminCookieName = "ecoheroes_admin"
	SessionExpiry   = 24 * time.Hour
)

// Eco-themed words for admin password generation
var ecoWords = []string{
	"kompos", "daur", "hijau", "pilah", "bumi",
	"pohon", "sungai", "organik", "kertas", "botol",
	"hutan", "benih", "daun", "akar", "embun",
	"lestari", "bersih", "tunas", "rimba",
}

// UserLookup loads the account behind a session
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type session struct {
	userID  int64
	admin   bool
	expires time.Time
}

// Auth holds resident and admin sessions. Residents authenticate through
// AccountService and get a session here; the admin uses a shared password.
type Auth struct {
	password string
	users    UserLookup
	sessions map[string]session
	mu       sync.RWMutex
	now      func() time.Time
}

// New creates a new Auth instance with the given admin password
func New(password string, users UserLookup) *Auth {
	return &Auth{
		password: password,
		users:    users,
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		idx := randomInt(len(ecoWords))
		words[i] = ecoWords[idx]
	}
	return strings.Join(words, "-")
}

// StartSession issues a session token for a signed-in resident
func (a *Auth) StartSession(userID int64) string {
	return a.store(session{userID: userID})
}

// LoginAdmin validates the admin password and returns a session token if valid
func (a *Auth) LoginAdmin(password string) (string, bool) {
	if a.password == "" || password != a.password {
		return "", false
	}
	return a.store(session{admin: true}), true
}

func (a *Auth) store(s session) string {
	token := generateToken()
	s.expires = a.now().Add(SessionExpiry)
	a.mu.Lock()
	a.sessions[token] = s
	a.mu.Unlock()
	return token
}

// Logout invalidates a session token and returns the resident it belonged to
func (a *Auth) Logout(token string) (int64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[token]
	delete(a.sessions, token)
	if !ok || s.admin {
		return 0, false
	}
	return s.userID, true
}

func (a *Auth) lookup(token string) (session, bool) {
	a.mu.RLock()
	s, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return session{}, false
	}

	if a.now().After(s.expires) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return session{}, false
	}

	return s, true
}

// UserIDFromRequest returns the resident behind the request's session cookie
func (a *Auth) UserIDFromRequest(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return 0, false
	}
	s, ok := a.lookup(cookie.Value)
	if !ok || s.admin {
		return 0, false
	}
	return s.userID, true
}

// IsAdmin reports whether the request carries a valid admin session
func (a *Auth) IsAdmin(r *http.Request) bool {
	cookie, err := r.Cookie(AdminCookieName)
	if err != nil {
		return false
	}
	s, ok := a.lookup(cookie.Value)
	return ok && s.admin
}

// RequireAuthAPI loads the signed-in resident into the request context, or
// answers 401.
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := a.UserIDFromRequest(r); ok {
			user, err := a.users.GetUser(r.Context(), userID)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
				return
			}
		}
		writeUnauthorized(w, "NOT_AUTHENTICATED", "Anda harus login terlebih dahulu.")
	})
}

// RequireAdmin middleware for admin pages (redirects to login)
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.IsAdmin(r) {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "/admin/login", http.StatusFound)
	})
}

// RequireAdminAPI middleware for admin API endpoints (returns 401)
func (a *Auth) RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.IsAdmin(r) {
			next.ServeHTTP(w, r)
			return
		}
		writeUnauthorized(w, "UNAUTHORIZED", "Unauthorized - please log in")
	})
}

func writeUnauthorized(w http.ResponseWriter, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"code":"` + code + `","error":"` + msg + `"}`))
}

// SetSessionCookie sets the resident session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	setCookie(w, CookieName, token, int(SessionExpiry.Seconds()))
}

// SetAdminCookie sets the admin session cookie on the response
func SetAdminCookie(w http.ResponseWriter, token string) {
	setCookie(w, AdminCookieName, token, int(SessionExpiry.Seconds()))
}

// ClearSessionCookie removes the resident session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	setCookie(w, CookieName, "", -1)
}

// ClearAdminCookie removes the admin session cookie
func ClearAdminCookie(w http.ResponseWriter) {
	setCookie(w, AdminCookieName, "", -1)
}

func setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the signed-in user
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the user stored by RequireAuthAPI
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}

// ContextIdentity answers the wizard's identity question from the request
// context.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (report.Identity, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return report.Identity{}, false
	}
	return report.Identity{UserID: u.ID, Name: u.Name}, true
}

var _ report.IdentityProvider = ContextIdentity{}

// generateToken creates a random session token
func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}
