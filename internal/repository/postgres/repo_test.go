package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alankrit98/DevLog/internal/database"
	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a running PostgreSQL; set DATABASE_URL to a disposable database.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

func createUser(t *testing.T, users *UserRepo, name string) *domain.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	u := &domain.User{
		ID:           uuid.New(),
		Username:     name + suffix,
		Email:        name + suffix + "@example.com",
		PasswordHash: "x",
		Avatar:       domain.DefaultAvatar,
		Skills:       []string{},
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepo(pool)
	u := createUser(t, users, "dup")

	err := users.Create(context.Background(), &domain.User{
		ID: uuid.New(), Username: "other" + uuid.NewString()[:8], Email: u.Email, PasswordHash: "x",
	})
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := users.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}

func TestFollowRepo_Mutuals(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	follows := NewFollowRepo(pool)
	u1, u2, u3 := createUser(t, users, "u1"), createUser(t, users, "u2"), createUser(t, users, "u3")

	require.NoError(t, follows.Follow(ctx, u1.ID, u2.ID))
	require.NoError(t, follows.Follow(ctx, u2.ID, u1.ID))
	require.NoError(t, follows.Follow(ctx, u1.ID, u3.ID))
	assert.ErrorIs(t, follows.Follow(ctx, u1.ID, u2.ID), repository.ErrConflict)

	mutuals, err := follows.ListMutuals(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{u2.ID}, mutuals)

	assert.ErrorIs(t, follows.Unfollow(ctx, u3.ID, u1.ID), repository.ErrNotFound)
}

func TestProjectRepo_ToggleLike(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	projects := NewProjectRepo(pool)
	owner, fan := createUser(t, users, "owner"), createUser(t, users, "fan")

	p := &domain.Project{
		ID: uuid.New(), Title: "React dashboard", Description: "d", Tags: []string{"go"},
		CreatorID: owner.ID, Likes: []uuid.UUID{}, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, projects.Create(ctx, p))

	liked, likes, err := projects.ToggleLike(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []uuid.UUID{fan.ID}, likes)

	liked, likes, err = projects.ToggleLike(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, likes)

	_, _, err = projects.ToggleLike(ctx, uuid.New(), fan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMessageRepo_ConversationIsSymmetric(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	messages := NewMessageRepo(pool)
	a, b := createUser(t, users, "a"), createUser(t, users, "b")

	at := time.Now().UTC().Truncate(time.Microsecond)
	for i, content := range []string{"one", "two", "three"} {
		from, to := a.ID, b.ID
		if i%2 == 1 {
			from, to = to, from
		}
		require.NoError(t, messages.Create(ctx, &domain.Message{ID: uuid.New(), SenderID: from, ReceiverID: to, Content: content, CreatedAt: at}))
	}

	ab, err := messages.ListConversation(ctx, a.ID, b.ID)
	require.NoError(t, err)
	ba, err := messages.ListConversation(ctx, b.ID, a.ID)
	require.NoError(t, err)

	require.Len(t, ab, 3)
	assert.Equal(t, ab, ba)
	assert.Equal(t, []string{"one", "two", "three"}, []string{ab[0].Content, ab[1].Content, ab[2].Content})
}
