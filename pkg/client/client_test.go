package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alankrit98/DevLog/internal/cache"
	"github.com/alankrit98/DevLog/internal/metrics"
	"github.com/alankrit98/DevLog/internal/repository/memory"
	"github.com/alankrit98/DevLog/internal/service"
	"github.com/alankrit98/DevLog/internal/storage"
	"github.com/alankrit98/DevLog/internal/transport/http/router"
	"github.com/alankrit98/DevLog/internal/transport/ws"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Client {
	t.Helper()

	logger := zap.NewNop()
	m := metrics.NewCollector("client_test")
	store := memory.NewStore()
	hub := ws.NewHub(logger, m)
	notifier := ws.NewHubNotifier(hub)

	avatars, err := storage.NewLocalStore(t.TempDir(), "http://api.test")
	require.NoError(t, err)

	notifs := service.NewNotificationService(store.Notifications(), store.Users(), cache.Nop{}, logger, m)
	notifs.SetNotifier(notifier)
	social := service.NewSocialService(store.Users(), store.Follows(), store.Projects(), store.Comments(), notifs, logger, m)
	social.SetNotifier(notifier)
	chat := service.NewChatService(store.Messages(), store.Users(), social)
	chat.SetNotifier(notifier)

	srv := httptest.NewServer(router.New(router.Deps{
		Auth:          service.NewAuthService(store.Users(), "client-secret", time.Hour),
		Projects:      service.NewProjectService(store.Projects()),
		Social:        social,
		Users:         service.NewUserService(store.Users(), store.Follows(), store.Projects(), avatars, cache.Nop{}, logger),
		Chat:          chat,
		Notifications: notifs,
		Hub:           hub,
		Metrics:       m,
		Logger:        logger,
		CORSOrigins:   []string{"*"},
	}))
	t.Cleanup(func() {
		srv.Close()
		hub.Close()
	})

	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func register(t *testing.T, c *Client, name string) *Session {
	t.Helper()
	s, err := c.Register(context.Background(), name, name+"@example.com", "Secret123")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, s.User.ID)
	return s
}

func TestClient_SessionLifecycle(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	register(t, c, "alice")

	s, err := c.Login(ctx, "alice@example.com", "Secret123")
	require.NoError(t, err)
	assert.True(t, s.LoggedIn())
	assert.NotEmpty(t, s.Token())
	assert.Equal(t, "alice", s.User.Username)

	_, err = c.Notifications(ctx, s)
	require.NoError(t, err)

	s.Logout()
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Token())

	_, err = c.Notifications(ctx, s)
	assert.ErrorIs(t, err, ErrLoggedOut)
}

func TestClient_LoginWrongPassword(t *testing.T) {
	c := newTestServer(t)
	register(t, c, "alice")

	_, err := c.Login(context.Background(), "alice@example.com", "Wrong1234")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClient_RegisterValidation(t *testing.T) {
	c := newTestServer(t)

	_, err := c.Register(context.Background(), "al", "not-an-email", "short")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Fields, "email")
}

func TestClient_FollowAndChat(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	alice := register(t, c, "alice")
	bob := register(t, c, "bob")

	require.NoError(t, c.Follow(ctx, alice, bob.User.ID))
	assert.True(t, IsCode(c.Follow(ctx, alice, bob.User.ID), "ALREADY_FOLLOWING"))

	mutuals, err := c.Mutuals(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, mutuals)

	require.NoError(t, c.Follow(ctx, bob, alice.User.ID))
	mutuals, err = c.Mutuals(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mutuals, 1)
	assert.Equal(t, bob.User.ID, mutuals[0].ID)

	_, err = c.SendMessage(ctx, alice, bob.User.ID, "hi bob")
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, bob, alice.User.ID, "hi alice")
	require.NoError(t, err)

	fromAlice, err := c.History(ctx, alice, bob.User.ID)
	require.NoError(t, err)
	fromBob, err := c.History(ctx, bob, alice.User.ID)
	require.NoError(t, err)

	require.Len(t, fromAlice, 2)
	assert.Equal(t, fromAlice, fromBob)
	assert.Equal(t, "hi bob", fromAlice[0].Content)
	assert.Equal(t, "hi alice", fromAlice[1].Content)

	require.NoError(t, c.Unfollow(ctx, bob, alice.User.ID))
	assert.True(t, IsCode(c.Unfollow(ctx, bob, alice.User.ID), "NOT_FOLLOWING"))

	notifs, err := c.Notifications(ctx, bob)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "follow", notifs[0].Type)
	require.NotNil(t, notifs[0].Sender)
	assert.Equal(t, "alice", notifs[0].Sender.Username)
}

func TestClient_ToggleLikeOptimistic(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	owner := register(t, c, "owner")
	fan := register(t, c, "fan")

	p, err := c.CreateProject(ctx, owner, NewProject{Title: "Graph explorer", Description: "neo4j UI", Tags: "go, react"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "react"}, p.Tags)

	likes := NewLikeSet(nil)
	require.NoError(t, c.ToggleLikeOptimistic(ctx, fan, p, likes))
	assert.True(t, likes.Has(fan.User.ID.String()))
	assert.Equal(t, []uuid.UUID{fan.User.ID}, p.Likes)

	require.NoError(t, c.ToggleLikeOptimistic(ctx, fan, p, likes))
	assert.False(t, likes.Has(fan.User.ID.String()))
	assert.Empty(t, p.Likes)

	// Only the like produced a notification.
	notifs, err := c.Notifications(ctx, owner)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "like", notifs[0].Type)

	found, err := c.Projects(ctx, "react")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)
}

func TestClient_ToggleLikeOptimistic_RollsBack(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	fan := register(t, c, "fan")

	missing := &Project{ID: uuid.New()}
	likes := NewLikeSet([]string{"someone"})

	err := c.ToggleLikeOptimistic(ctx, fan, missing, likes)

	assert.True(t, IsCode(err, "NOT_FOUND"))
	assert.Equal(t, NewLikeSet([]string{"someone"}), likes)
}

func TestOptimistic_Run(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		doErr   error
		want    []string
		wantErr error
	}{
		{name: "success keeps prediction", want: []string{"apply", "do"}},
		{name: "failure compensates", doErr: boom, want: []string{"apply", "do", "compensate"}, wantErr: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var steps []string
			err := Optimistic{
				Apply:      func() { steps = append(steps, "apply") },
				Do:         func(context.Context) error { steps = append(steps, "do"); return tt.doErr },
				Compensate: func() { steps = append(steps, "compensate") },
			}.Run(context.Background())

			assert.Equal(t, tt.want, steps)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeError_NonEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Projects(context.Background(), "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}
