package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeNotificationRepo struct {
	rows   []models.Notification
	nextID uint

	// failFor simulates a storage failure for specific recipients.
	failFor map[uint]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1, failFor: map[uint]bool{}}
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if f.failFor[n.RecipientID] {
		return fmt.Errorf("insert failed for recipient %d", n.RecipientID)
	}
	n.ID = f.nextID
	f.nextID++
	n.CreatedAt = time.Now()
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range f.rows {
		if n.RecipientID == recipientID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) (int64, error) {
	for i, n := range f.rows {
		if n.ID == notificationID && n.RecipientID == recipientID && n.ReadAt == nil {
			now := time.Now()
			f.rows[i].ReadAt = &now
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	now := time.Now()
	for i, n := range f.rows {
		if n.RecipientID == recipientID && n.ReadAt == nil {
			f.rows[i].ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteNotification(notificationID, recipientID uint) (int64, error) {
	for i, n := range f.rows {
		if n.ID == notificationID && n.RecipientID == recipientID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakePostRepo struct {
	repositories.PostRepository
	posts map[string]*models.Post
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return post, nil
}

type fakeFollowRepo struct {
	repositories.FollowRepository
	followers map[uint][]uint
}

func (f *fakeFollowRepo) GetFollowerIDs(userID uint) ([]uint, error) {
	return f.followers[userID], nil
}

func newTestPost(authorID uint, text string) (*models.Post, string) {
	id := primitive.NewObjectID()
	return &models.Post{ID: id, AuthorID: authorID, Text: text, CreatedAt: time.Now()}, id.Hex()
}

func newTestEngine(notifRepo *fakeNotificationRepo, posts map[string]*models.Post, followers map[uint][]uint) *Engine {
	return NewEngine(
		notifRepo,
		&fakePostRepo{posts: posts},
		&fakeFollowRepo{followers: followers},
		nil,
		zap.NewNop(),
	)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxLen   int
		expected string
	}{
		{
			name:     "short text",
			text:     "Hello",
			maxLen:   10,
			expected: "Hello",
		},
		{
			name:     "long text",
			text:     "This is a very long text that should be truncated",
			maxLen:   20,
			expected: "This is a very long ...",
		},
		{
			name:     "exact length",
			text:     "Exactly 10 chars",
			maxLen:   16,
			expected: "Exactly 10 chars",
		},
		{
			name:     "empty text",
			text:     "",
			maxLen:   10,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateText(tt.text, tt.maxLen)
			assert.Equal(t, tt.expected, result)
			assert.LessOrEqual(t, len(result), tt.maxLen+3) // +3 for "..."
		})
	}
}

func TestNotifyLike(t *testing.T) {
	const author, liker = uint(1), uint(2)
	post, postID := newTestPost(author, "an interesting thought")

	t.Run("notifies the author", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		engine := newTestEngine(notifRepo, map[string]*models.Post{postID: post}, nil)

		require.NoError(t, engine.NotifyLike(context.Background(), liker, postID))
		require.Len(t, notifRepo.rows, 1)

		row := notifRepo.rows[0]
		assert.Equal(t, author, row.RecipientID)
		assert.Equal(t, models.NotificationTypeLike, row.Type)
		assert.Equal(t, postID, row.EntityID)
		assert.Nil(t, row.ReadAt)

		payload, err := models.DecodePayload(row.Type, row.Payload)
		require.NoError(t, err)
		likePayload, ok := payload.(models.LikePayload)
		require.True(t, ok)
		assert.Equal(t, liker, likePayload.LikerID)
		assert.Equal(t, postID, likePayload.PostID)
		assert.Equal(t, "an interesting thought", likePayload.PostText)
	})

	t.Run("suppresses self-notification", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		engine := newTestEngine(notifRepo, map[string]*models.Post{postID: post}, nil)

		require.NoError(t, engine.NotifyLike(context.Background(), author, postID))
		assert.Empty(t, notifRepo.rows)
	})

	t.Run("fails when the post is gone", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		engine := newTestEngine(notifRepo, map[string]*models.Post{}, nil)

		assert.Error(t, engine.NotifyLike(context.Background(), liker, postID))
		assert.Empty(t, notifRepo.rows)
	})
}

func TestNotifyComment(t *testing.T) {
	const author, commenter = uint(1), uint(2)
	post, postID := newTestPost(author, "post under discussion")

	t.Run("notifies the author with both excerpts", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		engine := newTestEngine(notifRepo, map[string]*models.Post{postID: post}, nil)

		require.NoError(t, engine.NotifyComment(context.Background(), commenter, postID, "great point"))
		require.Len(t, notifRepo.rows, 1)

		payload, err := models.DecodePayload(notifRepo.rows[0].Type, notifRepo.rows[0].Payload)
		require.NoError(t, err)
		commentPayload, ok := payload.(models.CommentPayload)
		require.True(t, ok)
		assert.Equal(t, commenter, commentPayload.CommenterID)
		assert.Equal(t, "great point", commentPayload.CommentText)
		assert.Equal(t, "post under discussion", commentPayload.PostText)
	})

	t.Run("suppresses self-notification", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		engine := newTestEngine(notifRepo, map[string]*models.Post{postID: post}, nil)

		require.NoError(t, engine.NotifyComment(context.Background(), author, postID, "replying to myself"))
		assert.Empty(t, notifRepo.rows)
	})
}

func TestNotifyFollow(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	engine := newTestEngine(notifRepo, nil, nil)

	require.NoError(t, engine.NotifyFollow(context.Background(), 7, 9))
	require.Len(t, notifRepo.rows, 1)

	row := notifRepo.rows[0]
	assert.Equal(t, uint(9), row.RecipientID)
	assert.Equal(t, models.NotificationTypeFollow, row.Type)
	assert.Equal(t, "7", row.EntityID)

	payload, err := models.DecodePayload(row.Type, row.Payload)
	require.NoError(t, err)
	assert.Equal(t, models.FollowPayload{FollowerID: 7}, payload)
}

func TestNotifyNewPostFanOut(t *testing.T) {
	const author = uint(1)
	post, postID := newTestPost(author, "fresh post")

	t.Run("one notification per follower, none for the author", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		engine := newTestEngine(notifRepo,
			map[string]*models.Post{postID: post},
			map[uint][]uint{author: {2, 3, 4}})

		require.NoError(t, engine.NotifyNewPost(context.Background(), author, postID, post.Text))
		require.Len(t, notifRepo.rows, 3)

		recipients := map[uint]bool{}
		for _, row := range notifRepo.rows {
			assert.Equal(t, models.NotificationTypeNewPost, row.Type)
			recipients[row.RecipientID] = true
		}
		assert.Equal(t, map[uint]bool{2: true, 3: true, 4: true}, recipients)
		assert.False(t, recipients[author])
	})

	t.Run("a failed insert is skipped, not fatal", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		notifRepo.failFor[3] = true
		engine := newTestEngine(notifRepo,
			map[string]*models.Post{postID: post},
			map[uint][]uint{author: {2, 3, 4}})

		require.NoError(t, engine.NotifyNewPost(context.Background(), author, postID, post.Text))
		require.Len(t, notifRepo.rows, 2)
		for _, row := range notifRepo.rows {
			assert.NotEqual(t, uint(3), row.RecipientID)
		}
	})

	t.Run("no followers means no notifications", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		engine := newTestEngine(notifRepo, map[string]*models.Post{postID: post}, nil)

		require.NoError(t, engine.NotifyNewPost(context.Background(), author, postID, post.Text))
		assert.Empty(t, notifRepo.rows)
	})
}

func TestReadStateLifecycle(t *testing.T) {
	const owner = uint(5)
	ctx := context.Background()

	notifRepo := newFakeNotificationRepo()
	engine := newTestEngine(notifRepo, nil, nil)

	_, err := engine.CreateNotification(ctx, owner, "7", models.FollowPayload{FollowerID: 7})
	require.NoError(t, err)
	_, err = engine.CreateNotification(ctx, owner, "8", models.FollowPayload{FollowerID: 8})
	require.NoError(t, err)

	count, err := engine.GetUnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	t.Run("mark as read is one-way and owner-scoped", func(t *testing.T) {
		require.NoError(t, engine.MarkAsRead(ctx, notifRepo.rows[0].ID, owner))

		// second call on the same row
		err := engine.MarkAsRead(ctx, notifRepo.rows[0].ID, owner)
		assert.ErrorIs(t, err, ErrNotFoundOrAlreadyRead)

		// someone else's row
		err = engine.MarkAsRead(ctx, notifRepo.rows[1].ID, owner+1)
		assert.ErrorIs(t, err, ErrNotFoundOrAlreadyRead)

		count, err := engine.GetUnreadCount(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("mark all then a new notification brings the count back", func(t *testing.T) {
		require.NoError(t, engine.MarkAllAsRead(ctx, owner))
		count, err := engine.GetUnreadCount(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		// marking an already-clean inbox is still success
		require.NoError(t, engine.MarkAllAsRead(ctx, owner))

		_, err = engine.CreateNotification(ctx, owner, "9", models.FollowPayload{FollowerID: 9})
		require.NoError(t, err)
		count, err = engine.GetUnreadCount(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete is owner-scoped and permanent", func(t *testing.T) {
		err := engine.DeleteNotification(ctx, notifRepo.rows[0].ID, owner+1)
		assert.ErrorIs(t, err, ErrNotFound)

		id := notifRepo.rows[0].ID
		require.NoError(t, engine.DeleteNotification(ctx, id, owner))
		err = engine.DeleteNotification(ctx, id, owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
