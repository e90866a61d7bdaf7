package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/ecoheroes/internal/auth"
	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/chat"
	"github.com/abrezinsky/ecoheroes/internal/handlers"
	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/report"
	"github.com/abrezinsky/ecoheroes/internal/repository"
	"github.com/abrezinsky/ecoheroes/internal/services"
	"github.com/abrezinsky/ecoheroes/internal/websocket"
	"github.com/abrezinsky/ecoheroes/pkg/catalogfeed"
)

// Config holds everything New needs to assemble the application
type Config struct {
	DBPath        string
	AdminPassword string
	// Catalog defaults to catalog.Default() when nil
	Catalog *catalog.Catalog
	// ChatStrategy overrides the saved chat_strategy setting when non-empty
	ChatStrategy string
	GeminiAPIKey string
	GeminiModel  string
	TemplatesFS  fs.FS
	StaticFS     fs.FS
}

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
	hub      *websocket.Hub
	cancel   context.CancelFunc

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg Config) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	// Initialize services
	accountService := services.NewAccountService(log, repo)
	reportService := services.NewReportService(log, repo, cat)
	statsService := services.NewStatsService(log, repo, cat)
	challengeService := services.NewChallengeService(log, repo, statsService)
	settingsService := services.NewSettingsService(log, repo)
	inviteService := services.NewInviteService(log, repo, settingsService)
	dashboardService := services.NewDashboardService(log, accountService, statsService, challengeService, reportService)

	a := auth.New(cfg.AdminPassword, accountService)

	// The hub runs until Close
	ctx, cancel := context.WithCancel(context.Background())
	hub := websocket.New(log, a.UserIDFromRequest)
	hub.Start(ctx)
	reportService.SetBroadcaster(hub)

	if n, err := challengeService.SeedChallenges(ctx); err != nil {
		log.Warn("Failed to seed challenges", "error", err)
	} else if n > 0 {
		log.Info("Starter challenges added", "count", n)
	}

	assistant := chat.NewAssistant(log, newChatStrategy(ctx, log, settingsService, cfg))

	wizards := report.NewRegistry(report.Deps{
		Catalog:  cat,
		Gateway:  reportService,
		Identity: auth.ContextIdentity{},
		Notifier: hub,
		Log:      log,
	})

	h, err := handlers.New(
		handlers.Services{
			Accounts:   accountService,
			Reports:    reportService,
			Stats:      statsService,
			Challenges: challengeService,
			Dashboard:  dashboardService,
			Invites:    inviteService,
			Settings:   settingsService,
			Catalog:    cat,
			Wizards:    wizards,
			Chat:       assistant,
		},
		cfg.TemplatesFS,
		handlers.NewStaticServer(cfg.StaticFS),
		a,
		hub,
		log,
	)
	if err != nil {
		cancel() // Stop the hub
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
		hub:      hub,
		cancel:   cancel,
	}, nil
}

// newChatStrategy picks the EcoBot backend. An unusable choice falls back to
// the keyword table so the chat keeps answering.
func newChatStrategy(ctx context.Context, log logger.Logger, settings *services.SettingsService, cfg Config) chat.Strategy {
	name := cfg.ChatStrategy
	if name == "" {
		saved, err := settings.ChatStrategy(ctx)
		if err != nil {
			log.Warn("Failed to read chat strategy setting", "error", err)
		}
		name = saved
	}

	strategy, err := chat.NewStrategy(ctx, name, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Warn("Chat strategy unavailable, using keyword answers", "strategy", name, "error", err)
		return chat.NewKeywordStrategy()
	}
	return strategy
}

// LoadCatalog resolves the category table: a YAML file wins over a feed, and
// a feed that cannot be reached falls back to the built-in catalog.
func LoadCatalog(ctx context.Context, log logger.Logger, path string, feed catalogfeed.Client) (*catalog.Catalog, error) {
	if path != "" {
		cat, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		log.Info("Catalog loaded from file", "path", path, "categories", len(cat.List()))
		return cat, nil
	}

	if feed != nil {
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		cat, err := catalogfeed.Load(ctx, feed)
		if err == nil {
			return cat, nil
		}
		log.Warn("Catalog feed unavailable, using built-in catalog", "url", feed.BaseURL(), "error", err)
	}

	return catalog.Default(), nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close stops the server, the websocket hub and the database. It is safe to
// call twice.
func (a *App) Close() {
	a.mu.Lock()
	server := a.server
	a.server = nil
	closed := a.closed
	a.closed = true
	a.mu.Unlock()

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			a.log.Warn("Server shutdown failed", "error", err)
		}
	}
	if closed {
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn("Failed to close database", "error", err)
	}
}

// Run starts the HTTP server. It returns nil after Close.
func (a *App) Run(addr string) error {
	// Set default base URL if not configured, using detected LAN IP
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.setDefaultBaseURL(baseURL)

	server := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.server = server
	a.mu.Unlock()

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Admin URL", "url", baseURL+"/admin")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, repository.SettingBaseURL)

	// Set default if empty or if current value uses localhost
	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.repo.SetSetting(ctx, repository.SettingBaseURL, baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access, so residents
// can open invite links from their phones. Private network addresses win;
// localhost is the last resort.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// IPv4 only
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
