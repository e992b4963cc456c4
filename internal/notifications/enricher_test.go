package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	repositories.UserRepository
	users   map[uint]models.User
	lookups int
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	f.lookups++
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func mustRow(t *testing.T, id, recipientID uint, payload models.NotificationPayload) models.Notification {
	t.Helper()
	raw, err := models.EncodePayload(payload)
	require.NoError(t, err)
	return models.Notification{
		ID:          id,
		RecipientID: recipientID,
		Type:        payload.NotificationType(),
		Payload:     raw,
	}
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()
	post, postID := newTestPost(1, "the liked post")
	users := &fakeUserRepo{users: map[uint]models.User{
		2: {ID: 2, Username: "arun"},
		3: {ID: 3, Username: "zoe"},
	}}
	enricher := NewEnricher(
		newFakeNotificationRepo(),
		users,
		&fakePostRepo{posts: map[string]*models.Post{postID: post}},
		zap.NewNop(),
	)

	t.Run("like carries actor and post", func(t *testing.T) {
		row := mustRow(t, 1, 1, models.LikePayload{LikerID: 2, PostID: postID, PostText: "the liked post"})
		entry, err := enricher.Enrich(ctx, row, nil)
		require.NoError(t, err)

		require.NotNil(t, entry.Actor)
		assert.Equal(t, "arun", entry.Actor.Username)
		require.NotNil(t, entry.Post)
		assert.Equal(t, post.ID, entry.Post.ID)
		assert.IsType(t, models.LikePayload{}, entry.Payload)
	})

	t.Run("follow carries only the actor", func(t *testing.T) {
		row := mustRow(t, 2, 1, models.FollowPayload{FollowerID: 3})
		entry, err := enricher.Enrich(ctx, row, nil)
		require.NoError(t, err)

		require.NotNil(t, entry.Actor)
		assert.Equal(t, "zoe", entry.Actor.Username)
		assert.Nil(t, entry.Post)
	})

	t.Run("deleted post leaves the field empty", func(t *testing.T) {
		row := mustRow(t, 3, 1, models.NewPostPayload{AuthorID: 2, PostID: "652f000000000000deadbeef"})
		entry, err := enricher.Enrich(ctx, row, nil)
		require.NoError(t, err)

		assert.Nil(t, entry.Post)
		require.NotNil(t, entry.Actor)
	})

	t.Run("deleted actor leaves the field empty", func(t *testing.T) {
		row := mustRow(t, 4, 1, models.FollowPayload{FollowerID: 99})
		entry, err := enricher.Enrich(ctx, row, nil)
		require.NoError(t, err)
		assert.Nil(t, entry.Actor)
	})

	t.Run("malformed payload propagates", func(t *testing.T) {
		row := models.Notification{ID: 5, Type: models.NotificationTypeLike, Payload: []byte("{broken")}
		_, err := enricher.Enrich(ctx, row, nil)
		assert.Error(t, err)
	})
}

func TestListDeduplicatesActorLookups(t *testing.T) {
	ctx := context.Background()
	const owner = uint(1)

	notifRepo := newFakeNotificationRepo()
	users := &fakeUserRepo{users: map[uint]models.User{2: {ID: 2, Username: "arun"}}}
	enricher := NewEnricher(notifRepo, users, &fakePostRepo{posts: map[string]*models.Post{}}, zap.NewNop())

	for i := 0; i < 3; i++ {
		raw, err := models.EncodePayload(models.FollowPayload{FollowerID: 2})
		require.NoError(t, err)
		require.NoError(t, notifRepo.CreateNotification(&models.Notification{
			RecipientID: owner,
			Type:        models.NotificationTypeFollow,
			EntityID:    "2",
			Payload:     raw,
		}))
	}

	entries, err := enricher.List(ctx, owner, 20, 0, false)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		require.NotNil(t, entry.Actor)
		assert.Equal(t, "arun", entry.Actor.Username)
	}
	assert.Equal(t, 1, users.lookups)
}

func TestListUnreadOnly(t *testing.T) {
	ctx := context.Background()
	const owner = uint(1)

	notifRepo := newFakeNotificationRepo()
	enricher := NewEnricher(notifRepo, &fakeUserRepo{}, &fakePostRepo{posts: map[string]*models.Post{}}, zap.NewNop())

	for i := uint(2); i <= 4; i++ {
		raw, err := models.EncodePayload(models.FollowPayload{FollowerID: i})
		require.NoError(t, err)
		require.NoError(t, notifRepo.CreateNotification(&models.Notification{
			RecipientID: owner,
			Type:        models.NotificationTypeFollow,
			Payload:     raw,
		}))
	}
	_, err := notifRepo.MarkAsRead(notifRepo.rows[0].ID, owner)
	require.NoError(t, err)

	all, err := enricher.List(ctx, owner, 20, 0, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	unread, err := enricher.List(ctx, owner, 20, 0, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)
	for _, entry := range unread {
		assert.Nil(t, entry.ReadAt)
	}
}
