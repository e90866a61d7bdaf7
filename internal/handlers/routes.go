package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Static files (served from embedded filesystem)
	r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))

	// Pages
	r.Get("/", h.handleIndex)
	r.Get("/join", h.handleJoin)

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Public API
	r.Post("/api/auth/signup", h.handleSignup)
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/logout", h.handleLogout)
	r.Get("/api/categories", h.handleGetCategories)
	r.Get("/api/presets", h.handleGetPresets)
	r.Get("/api/chat/welcome", h.handleChatWelcome)
	r.Post("/api/chat", h.handleChat)

	// Resident API (signed in)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		r.Get("/api/me", h.handleMe)

		// Report wizard
		r.Get("/api/report/wizard", h.handleWizardView)
		r.Post("/api/report/wizard/open", h.handleWizardOpen)
		r.Post("/api/report/wizard/toggle", h.handleWizardToggle)
		r.Post("/api/report/wizard/weight", h.handleWizardWeight)
		r.Post("/api/report/wizard/preset", h.handleWizardPreset)
		r.Post("/api/report/wizard/notes", h.handleWizardNotes)
		r.Post("/api/report/wizard/advance", h.handleWizardAdvance)
		r.Post("/api/report/wizard/retreat", h.handleWizardRetreat)
		r.Post("/api/report/wizard/submit", h.handleWizardSubmit)
		r.Post("/api/report/wizard/cancel", h.handleWizardCancel)
		r.Get("/api/reports", h.handleGetReports)

		// Stats
		r.Get("/api/stats", h.handleGetStats)
		r.Get("/api/dashboard", h.handleGetDashboard)
		r.Get("/api/profile", h.handleGetProfile)
		r.Get("/api/leaderboard", h.handleGetLeaderboard)

		// Challenges
		r.Get("/api/challenges", h.handleGetChallenges)
		r.Post("/api/challenges", h.handleCreateChallenge)
		r.Get("/api/challenges/{id}/progress", h.handleGetChallengeProgress)
		r.Post("/api/challenges/{id}/join", h.handleJoinChallenge)
		r.Post("/api/challenges/{id}/complete", h.handleCompleteChallenge)

		// Invites
		r.Get("/api/invite", h.handleGetInvite)
		r.Get("/api/invite/qr", h.handleGetInviteQR)
	})

	// Admin auth (public)
	r.Get("/admin/login", h.handleAdminLoginPage)
	r.Post("/admin/login", h.handleAdminLogin)
	r.Post("/admin/logout", h.handleAdminLogout)

	// Admin pages (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdmin)
		r.Get("/admin", h.handleAdminDashboard)
		r.Get("/admin/settings", h.handleAdminSettings)
	})

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdminAPI)

		r.Get("/api/admin/stats", h.handleGetProgramStats)
		r.Get("/api/admin/settings", h.handleGetSettings)
		r.Post("/api/admin/settings", h.handleUpdateSettings)
		r.Put("/api/admin/settings", h.handleUpdateSettings)
		r.Post("/api/admin/reset-database", h.handleResetDatabase)
		r.Post("/api/admin/seed-challenges", h.handleSeedChallenges)
	})

	return r
}
