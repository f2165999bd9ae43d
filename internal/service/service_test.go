package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/metrics"
	"github.com/alankrit98/DevLog/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recorder captures everything the services push to the real-time layer.
type recorder struct {
	mu            sync.Mutex
	notifications []domain.Notification
	messages      []domain.Message
	comments      []domain.Comment
}

func (r *recorder) NotifyNotification(n *domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *n)
}

func (r *recorder) NotifyMessage(msg *domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *msg)
}

func (r *recorder) NotifyComment(c *domain.Comment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, *c)
}

func (r *recorder) notificationsFor(recipient uuid.UUID) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipient {
			out = append(out, n)
		}
	}
	return out
}

// fakeCache is an in-process ProfileCache that counts calls.
type fakeCache struct {
	mu          sync.Mutex
	items       map[uuid.UUID]domain.PublicProfile
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[uuid.UUID]domain.PublicProfile)}
}

func (c *fakeCache) Get(_ context.Context, id uuid.UUID) (*domain.PublicProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *fakeCache) Set(_ context.Context, p domain.PublicProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[p.ID] = p
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fixture struct {
	store    *memory.Store
	cache    *fakeCache
	rec      *recorder
	notifs   *NotificationService
	social   *SocialService
	chat     *ChatService
	projects *ProjectService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	logger := zap.NewNop()
	m := metrics.NewCollector("test")
	rec := &recorder{}
	c := newFakeCache()

	notifs := NewNotificationService(store.Notifications(), store.Users(), c, logger, m)
	notifs.SetNotifier(rec)

	social := NewSocialService(store.Users(), store.Follows(), store.Projects(), store.Comments(), notifs, logger, m)
	social.SetNotifier(rec)

	chat := NewChatService(store.Messages(), store.Users(), social)
	chat.SetNotifier(rec)

	return &fixture{
		store:    store,
		cache:    c,
		rec:      rec,
		notifs:   notifs,
		social:   social,
		chat:     chat,
		projects: NewProjectService(store.Projects()),
	}
}

func (f *fixture) user(t *testing.T, username string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		Avatar:    domain.DefaultAvatar,
		Skills:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) project(t *testing.T, creator *domain.User, title, tags string) *domain.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), creator.ID, CreateProjectInput{
		Title:       title,
		Description: title + " description",
		Tags:        tags,
	})
	require.NoError(t, err)
	return p
}
