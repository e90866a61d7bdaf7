package services

import (
	"context"
	stderrors "errors"

	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

// Chat strategies selectable at runtime
const (
	ChatKeyword = "keyword"
	ChatGemini  = "gemini"
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, repository.SettingBaseURL)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return "", nil // No default - setting not yet configured
		}
		return "", err
	}
	return value, nil
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, repository.SettingBaseURL, url)
}

// ChatStrategy returns the configured chat strategy, keyword by default
func (s *SettingsService) ChatStrategy(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, repository.SettingChatStrategy)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return ChatKeyword, nil
		}
		return "", err
	}
	if value == "" {
		return ChatKeyword, nil
	}
	return value, nil
}

// SetChatStrategy saves the chat strategy. It takes effect on restart.
func (s *SettingsService) SetChatStrategy(ctx context.Context, name string) error {
	if name != ChatKeyword && name != ChatGemini {
		return ErrInvalidChatStrategy
	}
	return s.repo.SetSetting(ctx, repository.SettingChatStrategy, name)
}

// LeaderboardNote returns the announcement shown under the leaderboard
func (s *SettingsService) LeaderboardNote(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, repository.SettingLeaderboardTip)
	if stderrors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// SetLeaderboardNote saves the leaderboard announcement
func (s *SettingsService) SetLeaderboardNote(ctx context.Context, note string) error {
	return s.repo.SetSetting(ctx, repository.SettingLeaderboardTip, note)
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// AllSettings returns the admin-visible settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	baseURL, _ := s.GetBaseURL(ctx)
	settings[repository.SettingBaseURL] = baseURL

	strategy, _ := s.ChatStrategy(ctx)
	settings[repository.SettingChatStrategy] = strategy

	note, _ := s.LeaderboardNote(ctx)
	settings[repository.SettingLeaderboardTip] = note

	return settings, nil
}

// Settings represents application settings for update operations.
// Nil fields are left unchanged.
type Settings struct {
	BaseURL         *string `json:"base_url"`
	ChatStrategy    *string `json:"chat_strategy"`
	LeaderboardNote *string `json:"leaderboard_note"`
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.ChatStrategy != nil {
		if err := s.SetChatStrategy(ctx, *settings.ChatStrategy); err != nil {
			return err
		}
	}
	if settings.BaseURL != nil {
		if err := s.SetBaseURL(ctx, *settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.LeaderboardNote != nil {
		if err := s.SetLeaderboardNote(ctx, *settings.LeaderboardNote); err != nil {
			return err
		}
	}
	return nil
}

// ProgramStats returns community-wide totals
func (s *SettingsService) ProgramStats(ctx context.Context) (*repository.ProgramStats, error) {
	return s.repo.GetProgramStats(ctx)
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"reports": true, "report_items": true, "challenges": true,
	"challenge_participants": true, "settings": true,
}

// tableDependents lists child tables that must be cleared before a parent
var tableDependents = map[string]string{
	"reports":    "report_items",
	"challenges": "challenge_participants",
}

// ResetTables validates and resets the specified database tables
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	var tablesToReset []string
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
		tablesToReset = append(tablesToReset, table)
	}

	// Auto-add child tables ahead of their parents
	for _, table := range tablesToReset {
		child, ok := tableDependents[table]
		if ok && !containsTable(tablesToReset, child) {
			tablesToReset = append([]string{child}, tablesToReset...)
		}
	}

	for _, table := range tablesToReset {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
	}

	s.log.Warn("Tables reset", "tables", tablesToReset)
	return &ResetTablesResult{
		Tables:  tablesToReset,
		Message: "Successfully deleted data from tables",
	}, nil
}

func containsTable(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
