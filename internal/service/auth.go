// Package service contains the business logic for the TripWeaver API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tripweaver/backend/internal/auth"
	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/repo"
)

// verificationTTL is how long an emailed verification code stays valid.
const verificationTTL = 15 * time.Minute

// CodeSender delivers verification codes to new accounts. *mail.Sender
// implements it; pass nil to disable email verification entirely.
type CodeSender interface {
	SendVerificationCode(to, code string) error
}

// AuthService implements registration, email verification, and login.
type AuthService struct {
	users  repo.UserRepo
	sender CodeSender
	secret string
	ttl    time.Duration
	log    *slog.Logger
}

// NewAuthService constructs an AuthService. sender may be nil, in which case
// new accounts are marked verified immediately (logged as a warning so a
// misconfigured mailer is visible in production).
func NewAuthService(users repo.UserRepo, sender CodeSender, secret string, ttl time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{users: users, sender: sender, secret: secret, ttl: ttl, log: log}
}

// Register creates a new account. When a mailer is configured a verification
// code is emailed and the account stays unverified until Verify is called.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return domain.User{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len(password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return domain.User{}, fmt.Errorf("%w: email already registered", domain.ErrValidation)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	if s.sender == nil {
		// No mailer: auto-verify so the account is usable, but make the
		// degraded mode visible.
		s.log.WarnContext(ctx, "mailer not configured, auto-verifying new account", "email", email)
		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
		}
		user.Verified = true
		return user, nil
	}

	code, err := generateCode()
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	if err := s.users.CreateVerification(ctx, user.ID, code, time.Now().Add(verificationTTL)); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	if err := s.sender.SendVerificationCode(user.Email, code); err != nil {
		// The account exists; the user can request a resend by registering
		// support later. Log rather than fail the whole registration.
		s.log.ErrorContext(ctx, "failed to send verification code", "email", email, "error", err)
	}

	return user, nil
}

// Verify consumes an emailed verification code and marks the account verified.
func (s *AuthService) Verify(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", domain.ErrValidation)
	}

	userID, err := s.users.ConsumeVerification(ctx, email, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired code", domain.ErrValidation)
		}
		return fmt.Errorf("service.AuthService.Verify: %w", err)
	}
	if err := s.users.MarkVerified(ctx, userID); err != nil {
		return fmt.Errorf("service.AuthService.Verify: %w", err)
	}
	return nil
}

// Login checks credentials and returns a signed session token plus the user.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
		}
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if !user.Verified {
		return "", domain.User{}, fmt.Errorf("%w: email not verified", domain.ErrUnauthorized)
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.secret, s.ttl)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return token, user, nil
}

// Me returns the account for an authenticated user ID.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return user, nil
}

// generateCode produces a 6-digit numeric verification code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
