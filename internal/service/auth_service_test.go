package service

import (
	"context"
	"testing"
	"time"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := NewAuthService(memory.NewStore().Users(), "test-secret", time.Hour)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "gopher", Email: "gopher@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, "gopher", resp.User.Username)
	assert.Equal(t, domain.DefaultAvatar, resp.User.Avatar)
	assert.NotEmpty(t, resp.User.PasswordHash)
	assert.NotEqual(t, "Secret123", resp.User.PasswordHash)

	id, err := svc.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id)

	login, err := svc.Login(ctx, LoginInput{Email: "gopher@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "gopher@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	svc := NewAuthService(memory.NewStore().Users(), "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "gopher", Email: "gopher@example.com", Password: "Secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "GOPHER@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Username: "gopher", Email: "new@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_VerifyToken(t *testing.T) {
	users := memory.NewStore().Users()
	svc := NewAuthService(users, "test-secret", time.Hour)

	_, err := svc.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(users, "other-secret", time.Hour)
	token, err := other.generateToken(uuid.New())
	require.NoError(t, err)
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(users, "test-secret", -time.Minute)
	token, err = expired.generateToken(uuid.New())
	require.NoError(t, err)
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
