package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

// baseURLSource is the slice of SettingsService InviteService reads
type baseURLSource interface {
	GetBaseURL(ctx context.Context) (string, error)
}

// InviteService builds referral links and their QR codes
type InviteService struct {
	log      logger.Logger
	repo     repository.UserRepository
	settings baseURLSource
}

// NewInviteService creates a new InviteService
func NewInviteService(log logger.Logger, repo repository.UserRepository, settings baseURLSource) *InviteService {
	return &InviteService{log: log, repo: repo, settings: settings}
}

// Invite is a user's referral code and the link that carries it
type Invite struct {
	Code      string `json:"code"`
	Link      string `json:"link"`
	Referrals int    `json:"referrals"`
}

// GetInvite returns the user's referral code, join link and referral count
func (s *InviteService) GetInvite(ctx context.Context, userID int64) (*Invite, error) {
	code, err := s.repo.GetInviteCode(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil || baseURL == "" {
		return nil, ErrBaseURLNotConfigured
	}

	referrals, err := s.repo.CountReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Invite{
		Code:      code,
		Link:      fmt.Sprintf("%s/join?ref=%s", strings.TrimSuffix(baseURL, "/"), url.QueryEscape(code)),
		Referrals: referrals,
	}, nil
}

// GenerateQRImage renders the user's join link as a PNG QR code
func (s *InviteService) GenerateQRImage(ctx context.Context, userID int64) ([]byte, error) {
	invite, err := s.GetInvite(ctx, userID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(invite.Link, qrcode.Medium, 256)
}
