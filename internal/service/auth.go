package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Jawed-lol/inkwell-sub000/internal/auth"
	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
	"github.com/Jawed-lol/inkwell-sub000/internal/mail"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// resetMessage is returned for every forgot-password request, whether or not
// the email exists, so the endpoint can't be used to enumerate accounts.
const resetMessage = "if an account with that email exists, a reset link has been sent"

// AuthService handles registration, login, profile, and password reset.
type AuthService struct {
	store         *store.Store
	tokenService  *auth.TokenService
	mailer        mail.Mailer
	frontendURL   string
	resetDuration time.Duration
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	st *store.Store,
	tokenService *auth.TokenService,
	mailer mail.Mailer,
	frontendURL string,
	resetDuration time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:         st,
		tokenService:  tokenService,
		mailer:        mailer,
		frontendURL:   frontendURL,
		resetDuration: resetDuration,
		logger:        logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the bearer token and the user's public profile.
type AuthResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// ProfileResponse is the user's public profile.
type ProfileResponse struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// ForgotPasswordRequest asks for a password reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// Register creates an account and returns a bearer token.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return &AuthResponse{
		Token: token,
		User:  profileOf(user),
	}, nil
}

// Login checks credentials and returns a bearer token. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, apperrors.InvalidCredentials("invalid email or password")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResponse{
		Token: token,
		User:  profileOf(user),
	}, nil
}

// Profile returns the authenticated user's profile.
func (s *AuthService) Profile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := profileOf(user)
	return &profile, nil
}

// ForgotPassword issues a reset token and hands the link to the mailer. The
// returned message is the same whether or not the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", formatValidationError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return resetMessage, nil
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	expiry := time.Now().Add(s.resetDuration)
	user.ResetToken = uuid.NewString()
	user.ResetTokenExpiry = &expiry
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", fmt.Errorf("save reset token: %w", err)
	}

	resetURL := s.frontendURL + "/reset-password?token=" + user.ResetToken
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		// The token is saved; a retry of the request reissues the email.
		s.logger.Error("failed to send reset email", "user_id", user.ID, "error", err)
		return "", apperrors.Internal("could not send reset email")
	}

	return resetMessage, nil
}

// ResetPassword consumes a reset token and rehashes the password.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	user, err := s.store.GetUserByResetToken(ctx, req.Token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Validation("invalid or expired reset token")
		}
		return fmt.Errorf("get user: %w", err)
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return apperrors.Validation("invalid or expired reset token")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("save password: %w", err)
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

func profileOf(user *domain.User) ProfileResponse {
	return ProfileResponse{
		Name:     user.Name,
		Email:    user.Email,
		JoinedAt: user.CreatedAt,
	}
}
