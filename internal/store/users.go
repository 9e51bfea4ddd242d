package store

import (
	"context"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
	"github.com/Jawed-lol/inkwell-sub000/internal/id"
)

// CreateUser assigns the user an ID and persists it.
// A taken email surfaces as a Conflict.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		userID, err := id.Generate(id.PrefixUser)
		if err != nil {
			return err
		}
		user.ID = userID
	}

	user.InitTimestamps()
	if user.Cart == nil {
		user.Cart = []domain.CartItem{}
	}
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}
	if user.Orders == nil {
		user.Orders = []domain.Order{}
	}

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if apperrors.Is(err, apperrors.ErrAlreadyExists) {
			return apperrors.Conflict("an account with this email already exists")
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.Users.Get(ctx, userID)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// GetUserByResetToken retrieves the user holding an active reset token.
func (s *Store) GetUserByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "reset_token", token)
}

// UpdateUser persists changes to the user document.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()
	return s.Users.Update(ctx, user.ID, user)
}
