package feed

import (
	"context"
	"testing"
	"time"

	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePostStore holds posts pre-sorted newest first, the order the real
// query returns them in.
type fakePostStore struct {
	repositories.PostRepository
	posts []models.Post
}

func (f *fakePostStore) GetPostsByAuthors(_ context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, error) {
	allowed := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = true
	}

	var matched []models.Post
	for _, p := range f.posts {
		if allowed[p.AuthorID] {
			matched = append(matched, p)
		}
	}
	if skip >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakeFollowStore struct {
	repositories.FollowRepository
	following map[uint][]uint
}

func (f *fakeFollowStore) GetFollowingIDs(userID uint) ([]uint, error) {
	return f.following[userID], nil
}

type fakeLikeStore struct {
	repositories.LikeRepository
	liked map[uint]map[string]bool
}

func (f *fakeLikeStore) GetLikedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range postIDs {
		if f.liked[userID][id] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeUserStore struct {
	repositories.UserRepository
	users map[uint]models.User
}

func (f *fakeUserStore) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestGetFeed(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// viewer 1 follows 2 and 3; user 4 is outside the graph
	newPost := func(authorID uint, text string, age time.Duration, likes int) models.Post {
		return models.Post{
			ID:         primitive.NewObjectID(),
			AuthorID:   authorID,
			Text:       text,
			LikesCount: likes,
			CreatedAt:  base.Add(-age),
		}
	}
	posts := []models.Post{
		newPost(2, "newest from a followee", 0, 3),
		newPost(1, "viewer's own post", time.Hour, 0),
		newPost(3, "older followee post", 2*time.Hour, 1),
		newPost(4, "stranger's post", 30*time.Minute, 9),
	}

	composer := NewComposer(
		&fakePostStore{posts: posts},
		&fakeFollowStore{following: map[uint][]uint{1: {2, 3}}},
		&fakeLikeStore{liked: map[uint]map[string]bool{
			1: {posts[0].ID.Hex(): true},
		}},
		&fakeUserStore{users: map[uint]models.User{
			1: {ID: 1, Username: "maya"},
			2: {ID: 2, Username: "arun"},
			3: {ID: 3, Username: "zoe"},
		}},
	)

	t.Run("followees and self, newest first, strangers excluded", func(t *testing.T) {
		entries, err := composer.GetFeed(ctx, 1, 20, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, "newest from a followee", entries[0].Text)
		assert.Equal(t, "viewer's own post", entries[1].Text)
		assert.Equal(t, "older followee post", entries[2].Text)
		for _, e := range entries {
			assert.NotEqual(t, uint(4), e.AuthorID)
		}
	})

	t.Run("entries carry author, counters and like state", func(t *testing.T) {
		entries, err := composer.GetFeed(ctx, 1, 20, 0)
		require.NoError(t, err)

		assert.Equal(t, "arun", entries[0].Author.Username)
		assert.Equal(t, 3, entries[0].LikesCount)
		assert.True(t, entries[0].IsLiked)

		assert.Equal(t, "maya", entries[1].Author.Username)
		assert.False(t, entries[1].IsLiked)
	})

	t.Run("pagination slices the merged timeline", func(t *testing.T) {
		entries, err := composer.GetFeed(ctx, 1, 2, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "newest from a followee", entries[0].Text)

		entries, err = composer.GetFeed(ctx, 1, 2, 2)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "older followee post", entries[0].Text)
	})

	t.Run("viewer with no follows still sees their own posts", func(t *testing.T) {
		entries, err := composer.GetFeed(ctx, 3, 20, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "older followee post", entries[0].Text)
		assert.False(t, entries[0].IsLiked)
	})

	t.Run("empty feed is an empty page, not an error", func(t *testing.T) {
		entries, err := composer.GetFeed(ctx, 99, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
