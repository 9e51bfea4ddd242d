package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	user := &domain.User{Name: "Paul", Email: "paul@arrakis.example"}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.NotEmpty(t, user.ID)

	// Email uniqueness is case-insensitive.
	dup := &domain.User{Name: "Other Paul", Email: "PAUL@Arrakis.example"}
	err := s.CreateUser(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	user := &domain.User{Name: "Paul", Email: "paul@arrakis.example"}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByEmail(ctx, "Paul@ARRAKIS.example")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@arrakis.example")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestGetUserByResetToken(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	user := &domain.User{Name: "Paul", Email: "paul@arrakis.example"}
	require.NoError(t, s.CreateUser(ctx, user))

	expiry := time.Now().Add(time.Hour)
	user.ResetToken = "token-123"
	user.ResetTokenExpiry = &expiry
	require.NoError(t, s.UpdateUser(ctx, user))

	got, err := s.GetUserByResetToken(ctx, "token-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Consuming the token removes the index entry.
	got.ResetToken = ""
	got.ResetTokenExpiry = nil
	require.NoError(t, s.UpdateUser(ctx, got))

	_, err = s.GetUserByResetToken(ctx, "token-123")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
