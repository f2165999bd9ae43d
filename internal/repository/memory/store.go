// Package memory is a process-local implementation of every repository. It
// backs STORAGE_BACKEND=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/google/uuid"
)

// Store holds all tables behind a single lock so joins see a consistent view.
type Store struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]*domain.User
	follows       map[edge]domain.Follow
	projects      map[uuid.UUID]*domain.Project
	comments      []domain.Comment
	messages      []domain.Message
	notifications []domain.Notification
	seq           int64
}

type edge struct {
	from, to uuid.UUID
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*domain.User),
		follows:  make(map[edge]domain.Follow),
		projects: make(map[uuid.UUID]*domain.Project),
	}
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{s} }
func (s *Store) Follows() *FollowRepo             { return &FollowRepo{s} }
func (s *Store) Projects() *ProjectRepo           { return &ProjectRepo{s} }
func (s *Store) Comments() *CommentRepo           { return &CommentRepo{s} }
func (s *Store) Messages() *MessageRepo           { return &MessageRepo{s} }
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s} }

// --- users ---

type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) || strings.EqualFold(u.Username, user.Username) {
			return repository.ErrConflict
		}
	}
	cp := *user
	cp.Skills = append([]string(nil), user.Skills...)
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.copyUser(r.s.users[id]), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return strings.EqualFold(u.Username, username) }), nil
}

func (r *UserRepo) ListProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.PublicProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	profiles := make([]domain.PublicProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			profiles = append(profiles, u.Profile())
		}
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Username < profiles[j].Username })
	return profiles, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Bio = user.Bio
	u.Skills = append([]string(nil), user.Skills...)
	u.Avatar = user.Avatar
	u.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *UserRepo) find(match func(*domain.User) bool) *domain.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			return r.s.copyUser(u)
		}
	}
	return nil
}

func (s *Store) copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Skills = append([]string(nil), u.Skills...)
	return &cp
}

// --- social graph ---

type FollowRepo struct{ s *Store }

var _ repository.FollowRepository = (*FollowRepo)(nil)

func (r *FollowRepo) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e := edge{followerID, followeeID}
	if _, ok := r.s.follows[e]; ok {
		return repository.ErrConflict
	}
	r.s.follows[e] = domain.Follow{FollowerID: followerID, FolloweeID: followeeID, CreatedAt: time.Now()}
	return nil
}

func (r *FollowRepo) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e := edge{followerID, followeeID}
	if _, ok := r.s.follows[e]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.follows, e)
	return nil
}

func (r *FollowRepo) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.follows[edge{followerID, followeeID}]
	return ok, nil
}

func (r *FollowRepo) ListFollowing(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.collect(func(f domain.Follow) (uuid.UUID, bool) { return f.FolloweeID, f.FollowerID == userID }), nil
}

func (r *FollowRepo) ListFollowers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.collect(func(f domain.Follow) (uuid.UUID, bool) { return f.FollowerID, f.FolloweeID == userID }), nil
}

func (r *FollowRepo) ListMutuals(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := []uuid.UUID{}
	for e, f := range r.s.follows {
		if e.from != userID {
			continue
		}
		if _, back := r.s.follows[edge{e.to, userID}]; back {
			ids = append(ids, f.FolloweeID)
		}
	}
	return ids, nil
}

// collect returns matching edges ordered by creation time.
func (r *FollowRepo) collect(pick func(domain.Follow) (uuid.UUID, bool)) []uuid.UUID {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var edges []domain.Follow
	for _, f := range r.s.follows {
		if _, ok := pick(f); ok {
			edges = append(edges, f)
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].CreatedAt.Before(edges[j].CreatedAt) })
	ids := make([]uuid.UUID, 0, len(edges))
	for _, f := range edges {
		id, _ := pick(f)
		ids = append(ids, id)
	}
	return ids
}

// --- projects ---

type ProjectRepo struct{ s *Store }

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *project
	cp.Tags = append([]string{}, project.Tags...)
	cp.Likes = append([]uuid.UUID{}, project.Likes...)
	r.s.projects[project.ID] = &cp
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	cp := r.s.joinProject(p)
	return &cp, nil
}

func (r *ProjectRepo) List(ctx context.Context, search string) ([]domain.Project, error) {
	return r.list(func(p *domain.Project) bool { return p.Matches(search) }), nil
}

func (r *ProjectRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Project, error) {
	return r.list(func(p *domain.Project) bool { return p.CreatorID == creatorID }), nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[project.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Title = project.Title
	p.Description = project.Description
	p.GithubLink = project.GithubLink
	p.LiveLink = project.LiveLink
	p.Tags = append([]string{}, project.Tags...)
	p.UpdatedAt = project.UpdatedAt
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.projects, id)

	kept := r.s.comments[:0]
	for _, c := range r.s.comments {
		if c.ProjectID != id {
			kept = append(kept, c)
		}
	}
	r.s.comments = kept
	return nil
}

func (r *ProjectRepo) ToggleLike(ctx context.Context, projectID, userID uuid.UUID) (bool, []uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[projectID]
	if !ok {
		return false, nil, repository.ErrNotFound
	}

	liked := true
	likes := make([]uuid.UUID, 0, len(p.Likes)+1)
	for _, id := range p.Likes {
		if id == userID {
			liked = false
			continue
		}
		likes = append(likes, id)
	}
	if liked {
		likes = append(likes, userID)
	}
	p.Likes = likes

	return liked, append([]uuid.UUID{}, likes...), nil
}

// list returns matching projects newest first.
func (r *ProjectRepo) list(match func(*domain.Project) bool) []domain.Project {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Project{}
	for _, p := range r.s.projects {
		if match(p) {
			out = append(out, r.s.joinProject(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) joinProject(p *domain.Project) domain.Project {
	cp := *p
	cp.Tags = append([]string{}, p.Tags...)
	cp.Likes = append([]uuid.UUID{}, p.Likes...)
	if u, ok := s.users[p.CreatorID]; ok {
		cp.CreatorUsername = u.Username
		cp.CreatorAvatar = u.Avatar
	}
	return cp
}

// --- comments ---

type CommentRepo struct{ s *Store }

var _ repository.CommentRepository = (*CommentRepo)(nil)

func (r *CommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[comment.ProjectID]; !ok {
		return repository.ErrNotFound
	}
	r.s.comments = append(r.s.comments, *comment)
	return nil
}

func (r *CommentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Comment{}
	for _, c := range r.s.comments {
		if c.ProjectID != projectID {
			continue
		}
		if u, ok := r.s.users[c.UserID]; ok {
			c.Username = u.Username
			c.Avatar = u.Avatar
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- direct messages ---

type MessageRepo struct{ s *Store }

var _ repository.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	msg.Seq = r.s.seq
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

func (r *MessageRepo) ListConversation(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Message{}
	for _, m := range r.s.messages {
		if m.Between(userA, userB) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

// --- notifications ---

type NotificationRepo struct{ s *Store }

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	cp.Sender = nil
	cp.ProjectTitle = ""
	r.s.notifications = append(r.s.notifications, cp)
	return nil
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.RecipientID != recipientID {
			continue
		}
		if u, ok := r.s.users[n.SenderID]; ok {
			p := u.Profile()
			n.Sender = &p
		}
		if n.ProjectID != nil {
			if p, ok := r.s.projects[*n.ProjectID]; ok {
				n.ProjectTitle = p.Title
			}
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.notifications {
		if r.s.notifications[i].RecipientID == recipientID && !r.s.notifications[i].Read {
			r.s.notifications[i].Read = true
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, item := range r.s.notifications {
		if item.RecipientID == recipientID && !item.Read {
			n++
		}
	}
	return n, nil
}
