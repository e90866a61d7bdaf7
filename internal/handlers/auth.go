package handlers

import (
	"net/http"

	"github.com/abrezinsky/ecoheroes/internal/auth"
	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/services"
)

// currentUserID returns the resident loaded by RequireAuthAPI
func currentUserID(r *http.Request) int64 {
	if u, ok := auth.UserFromContext(r.Context()); ok {
		return u.ID
	}
	return 0
}

// ==================== Residents ====================

func (h *Handlers) startSession(w http.ResponseWriter, user *models.User) {
	token := h.Auth.StartSession(user.ID)
	auth.SetSessionCookie(w, token)
}

func (h *Handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req services.Signup
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.Accounts.Signup(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	h.startSession(w, user)
	respondCreated(w, user)
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	h.startSession(w, user)
	respondOK(w, user)
}

// handleLogout ends the session and discards the resident's open wizard
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		if userID, ok := h.Auth.Logout(cookie.Value); ok && h.Wizards != nil {
			h.Wizards.Drop(userID)
		}
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	respondOK(w, user)
}

// ==================== Admin ====================

// LoginPageData holds data for the login template
type LoginPageData struct {
	Error string
}

// handleAdminLoginPage renders the login form
func (h *Handlers) handleAdminLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.Auth.IsAdmin(r) {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	h.templates.AdminLogin.Execute(w, LoginPageData{})
}

// handleAdminLogin processes login form submission
func (h *Handlers) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")

	token, ok := h.Auth.LoginAdmin(password)
	if !ok {
		h.templates.AdminLogin.Execute(w, LoginPageData{
			Error: "Invalid password",
		})
		return
	}

	auth.SetAdminCookie(w, token)
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// handleAdminLogout clears the session and redirects to login
func (h *Handlers) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.AdminCookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearAdminCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}
