package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/exam-manager/exam-system/internal/core/domain"
	"github.com/exam-manager/exam-system/internal/core/ports"
)

const (
	verificationLinkTTL = 60 * time.Minute
	tokenName           = "api-token"
)

// AuthDeps bundles the collaborators of AuthService.
type AuthDeps struct {
	Users    ports.UserRepository
	Actors   ports.ActorRepository
	Tokens   ports.TokenIssuer
	OTPs     ports.OTPStore
	Hasher   ports.PasswordHasher
	Notifier ports.Notifier
	Links    ports.LinkSigner
	Resets   ports.ResetTokenIssuer
	Throttle ports.Throttle
	// BaseURL is the externally reachable root used in reset links.
	BaseURL string
}

// AuthService implements registration, the two-factor login flow, and
// the email verification / password reset side channels.
type AuthService struct {
	deps AuthDeps
	log  zerolog.Logger
}

func NewAuthService(deps AuthDeps, log zerolog.Logger) *AuthService {
	return &AuthService{deps: deps, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Name == "" || in.Email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: name, email and a password of at least 8 characters are required", domain.ErrValidation)
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.deps.Users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.sendVerificationMail(ctx, user)
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login walks the first half of the state machine:
// Anonymous → CredentialsSubmitted → {Rejected | EmailUnverified | OtpPending}.
// On success an OTP is queued over mail and no session exists yet.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	user, err := s.deps.Users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	if !user.Verified() {
		return domain.ErrEmailUnverified
	}
	if !s.deps.Hasher.Verify(user.PasswordHash, password) {
		return domain.ErrBadCredentials
	}

	code, err := s.deps.OTPs.Issue(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}

	s.sendMail(ctx, user.Email, "Your one-time password",
		fmt.Sprintf("Your Exam Manager verification code is: %s", code))

	s.log.Info().Str("user_id", user.ID).Msg("otp issued")
	return nil
}

// VerifyOTP completes the state machine. The code is looked up before it
// is consumed so an unverified owner is rejected without burning it.
func (s *AuthService) VerifyOTP(ctx context.Context, code string) (string, *domain.User, error) {
	userID, err := s.deps.OTPs.Find(ctx, code)
	if err != nil {
		return "", nil, err
	}

	user, err := s.deps.Users.FindByID(ctx, userID)
	if err != nil {
		return "", nil, domain.ErrInvalidOTP
	}
	if !user.Verified() {
		return "", nil, domain.ErrEmailUnverified
	}

	// Single-use enforcement: consumption is atomic, a concurrent
	// verify of the same code fails here.
	if _, err := s.deps.OTPs.Consume(ctx, code); err != nil {
		return "", nil, err
	}

	token, err := s.deps.Tokens.Issue(ctx, user.ID, tokenName)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("otp consumed, session opened")
	return token, user, nil
}

// Logout revokes the presented token. Revoking twice is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.deps.Tokens.Revoke(ctx, token)
}

func (s *AuthService) CurrentUser(ctx context.Context, acting *domain.User) (*domain.User, *domain.Actor, error) {
	if acting == nil {
		return nil, nil, domain.ErrUnauthenticated
	}
	actor, err := s.deps.Actors.FindByUserID(ctx, acting.ID)
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			return acting, nil, nil
		}
		return nil, nil, err
	}
	return acting, actor, nil
}

func (s *AuthService) ListUsers(ctx context.Context, acting *domain.User) ([]domain.User, error) {
	if acting == nil || acting.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.deps.Users.ListByRole(ctx, domain.RoleUser)
}

func (s *AuthService) SendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(email)

	allowed, err := s.deps.Throttle.Allow(ctx, "verify:"+email)
	if err != nil {
		s.log.Warn().Err(err).Msg("throttle check failed, allowing request")
	} else if !allowed {
		return domain.ErrThrottled
	}

	user, err := s.deps.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified() {
		return domain.ErrAlreadyVerified
	}

	s.sendVerificationMail(ctx, user)
	return nil
}

func (s *AuthService) VerifyEmailLink(ctx context.Context, userID, hash string, expires int64, signature string) error {
	if err := s.deps.Links.Verify(userID, hash, expires, signature); err != nil {
		return err
	}

	user, err := s.deps.Users.FindByID(ctx, userID)
	if err != nil {
		return domain.ErrInvalidSignature
	}
	if s.deps.Links.EmailHash(user.Email) != hash {
		return domain.ErrInvalidSignature
	}

	// Idempotent: verifying an already-verified account is a no-op.
	if user.Verified() {
		return nil
	}
	if err := s.deps.Users.MarkEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.deps.Users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}

	token, err := s.deps.Resets.Issue(user.ID, user.Email)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	s.sendMail(ctx, user.Email, "Reset your password",
		fmt.Sprintf("Use this link to reset your Exam Manager password: %s/reset-password?token=%s&email=%s",
			s.deps.BaseURL, token, user.Email))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, email, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	issuedFor, err := s.deps.Resets.Verify(token)
	if err != nil || !strings.EqualFold(issuedFor, email) {
		return domain.ErrInvalidResetToken
	}

	user, err := s.deps.Users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return domain.ErrInvalidResetToken
	}

	hash, err := s.deps.Hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.deps.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *AuthService) sendVerificationMail(ctx context.Context, user *domain.User) {
	link := s.deps.Links.Sign(user.ID, user.Email, verificationLinkTTL)
	s.sendMail(ctx, user.Email, "Verify your email address",
		fmt.Sprintf("Welcome to Exam Manager. Confirm your email address: %s", link))
}

// sendMail hands the message to the notifier and never fails the caller;
// delivery is fire-and-forget.
func (s *AuthService) sendMail(ctx context.Context, to, subject, body string) {
	if err := s.deps.Notifier.Send(ctx, ports.Mail{To: to, Subject: subject, Body: body}); err != nil {
		s.log.Error().Err(err).Str("to", to).Msg("failed to queue mail")
	}
}
