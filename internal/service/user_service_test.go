package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/alankrit98/DevLog/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAvatars struct {
	saved map[string]string
	err   error
}

func (a *fakeAvatars) Save(_ context.Context, userID uuid.UUID, filename string, r io.Reader) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if a.saved == nil {
		a.saved = make(map[string]string)
	}
	a.saved[filename] = string(data)
	return fmt.Sprintf("http://cdn.test/uploads/%s-%s", userID, filename), nil
}

func newUserService(f *fixture, avatars AvatarStore) *UserService {
	return NewUserService(f.store.Users(), f.store.Follows(), f.store.Projects(), avatars, f.cache, zap.NewNop())
}

func TestUserService_GetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	require.NoError(t, f.social.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, f.social.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, f.social.Follow(ctx, alice.ID, bob.ID))
	f.project(t, alice, "First", "")
	f.project(t, bob, "Not hers", "")

	svc := newUserService(f, &fakeAvatars{})
	profile, err := svc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, "alice", profile.User.Username)
	assert.ElementsMatch(t, []uuid.UUID{bob.ID, carol.ID}, profile.User.Followers)
	assert.Equal(t, []uuid.UUID{bob.ID}, profile.User.Following)
	require.Len(t, profile.Projects, 1)
	assert.Equal(t, "First", profile.Projects[0].Title)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	avatars := &fakeAvatars{}
	svc := newUserService(f, avatars)

	bio, skills, avatarURL := "  gopher  ", "Go, SQL", "http://example.com/a.png"
	user, err := svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Bio: &bio, Skills: &skills, Avatar: &avatarURL}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gopher", user.Bio)
	assert.Equal(t, []string{"Go", "SQL"}, user.Skills)
	assert.Equal(t, avatarURL, user.Avatar)
	assert.Contains(t, f.cache.invalidated, alice.ID)

	user, err = svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Avatar: &avatarURL}, &AvatarUpload{
		Filename: "me.png",
		Content:  strings.NewReader("img"),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/uploads/"+alice.ID.String()+"-me.png", user.Avatar)
	assert.Equal(t, "img", avatars.saved["me.png"])

	stored, err := f.store.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Avatar, stored.Avatar)
	assert.Equal(t, "gopher", stored.Bio)
}

func TestUserService_UpdateProfileRejectsBadUpload(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	svc := newUserService(f, &fakeAvatars{err: fmt.Errorf("%w: unsupported extension", storage.ErrInvalidFile)})

	_, err := svc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{}, &AvatarUpload{
		Filename: "x.exe",
		Content:  strings.NewReader("nope"),
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "avatar", verr.Field)
}
