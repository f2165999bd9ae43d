package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_SendMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	msg, err := f.chat.SendMessage(ctx, alice.ID, bob.ID, " hi bob ")
	require.NoError(t, err)
	assert.Equal(t, "hi bob", msg.Content)
	assert.Equal(t, alice.ID, msg.SenderID)
	assert.Equal(t, bob.ID, msg.ReceiverID)

	require.Len(t, f.rec.messages, 1)
	assert.Equal(t, msg.ID, f.rec.messages[0].ID)
}

func TestChatService_SendMessageErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	_, err := f.chat.SendMessage(ctx, alice.ID, uuid.New(), "   ")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "content", verr.Field)

	_, err = f.chat.SendMessage(ctx, alice.ID, alice.ID, "note to self")
	assert.ErrorIs(t, err, ErrSelfReference)

	_, err = f.chat.SendMessage(ctx, alice.ID, uuid.New(), "anyone?")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, f.rec.messages)
}

func TestChatService_HistoryIsSymmetricAndOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	contents := []string{"one", "two", "three", "four"}
	for i, c := range contents {
		from, to := alice, bob
		if i%2 == 1 {
			from, to = bob, alice
		}
		_, err := f.chat.SendMessage(ctx, from.ID, to.ID, c)
		require.NoError(t, err)
	}
	_, err := f.chat.SendMessage(ctx, alice.ID, carol.ID, "elsewhere")
	require.NoError(t, err)

	ab, err := f.chat.GetHistory(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	ba, err := f.chat.GetHistory(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	got := make([]string, 0, len(ab))
	for _, m := range ab {
		got = append(got, m.Content)
	}
	assert.Equal(t, contents, got)
}

func TestChatService_ConversationPartnersAreMutuals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	require.NoError(t, f.social.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, f.social.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, f.social.Follow(ctx, carol.ID, alice.ID))

	partners, err := f.chat.ListConversationPartners(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.PublicProfile{bob.Profile()}, partners)
}
