package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
	"github.com/abrezinsky/ecoheroes/internal/repository"
)

const (
	minPasswordLen  = 6
	inviteCodeTries = 5
	bcryptCost      = bcrypt.DefaultCost
)

// AccountService handles resident sign-up and sign-in
type AccountService struct {
	log  logger.Logger
	repo repository.UserRepository
	cost int
}

// NewAccountService creates a new AccountService
func NewAccountService(log logger.Logger, repo repository.UserRepository) *AccountService {
	return &AccountService{log: log, repo: repo, cost: bcryptCost}
}

// SetHashCost sets the bcrypt cost (tests use bcrypt.MinCost)
func (s *AccountService) SetHashCost(cost int) {
	s.cost = cost
}

// Signup is the input for a new account
type Signup struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RT         string `json:"rt"`
	RW         string `json:"rw"`
	InviteCode string `json:"invite_code"`
}

// Signup creates an account. An invite code credits the referring user.
func (s *AccountService) Signup(ctx context.Context, in Signup) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || len(in.Password) < minPasswordLen {
		return nil, ErrInvalidSignup
	}

	if _, _, err := s.repo.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var referredBy *int64
	if code := strings.ToUpper(strings.TrimSpace(in.InviteCode)); code != "" {
		referrer, err := s.repo.GetUserByInviteCode(ctx, code)
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownInviteCode
		}
		if err != nil {
			return nil, err
		}
		referredBy = &referrer.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email: in.Email,
		Name:  in.Name,
		RT:    strings.TrimSpace(in.RT),
		RW:    strings.TrimSpace(in.RW),
	}

	// A duplicate here is either an invite code collision or an email
	// registered since the check above; retrying tells them apart.
	for attempt := 0; attempt < inviteCodeTries; attempt++ {
		seed := fmt.Sprintf("invite-%d-%s-%d", time.Now().UnixNano(), in.Email, attempt)
		id, err := s.repo.CreateUser(ctx, user, string(hash), GenerateReadableCode(seed), referredBy)
		if err == nil {
			s.log.Info("User signed up", "user_id", id, "rt", user.RT, "rw", user.RW, "referred", referredBy != nil)
			return s.repo.GetUser(ctx, id)
		}
		if !stderrors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		s.log.Debug("Invite code collision, retrying", "attempt", attempt+1)
	}
	return nil, ErrEmailTaken
}

// Login checks credentials and returns the user
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, hash, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *AccountService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateReadableCode creates a short, readable code from input data
// Uses only clear characters (no O/0/I/1/L) - format: XX-YYY
func GenerateReadableCode(seed string) string {
	const chars = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

	hash := sha256.Sum256([]byte(seed))
	num := binary.BigEndian.Uint64(hash[:8])

	code := make([]byte, 5)
	for i := 0; i < 5; i++ {
		code[i] = chars[num%uint64(len(chars))]
		num /= uint64(len(chars))
	}

	return fmt.Sprintf("%s-%s", string(code[:2]), string(code[2:]))
}
