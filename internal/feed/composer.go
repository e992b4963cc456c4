package feed

import (
	"context"
	"fmt"

	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/repositories"
)

// Post is a feed entry: the stored post plus viewer-specific annotations.
type Post struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
}

// Composer resolves a viewer's visible-author set and assembles their feed
// page. A page costs a fixed number of queries regardless of its size: one
// for the followee ids, one for the posts (counts ride on the documents),
// one batched liked-set lookup and one batched author lookup.
type Composer struct {
	posts   repositories.PostRepository
	follows repositories.FollowRepository
	likes   repositories.LikeRepository
	users   repositories.UserRepository
}

// NewComposer creates a new Composer
func NewComposer(
	posts repositories.PostRepository,
	follows repositories.FollowRepository,
	likes repositories.LikeRepository,
	users repositories.UserRepository,
) *Composer {
	return &Composer{posts: posts, follows: follows, likes: likes, users: users}
}

// GetFeed returns posts authored by viewerID or anyone viewerID follows,
// newest first, annotated with like state for the viewer. Offset pagination
// makes no stability promise across concurrent inserts: a post created
// between two page fetches can shift result membership.
func (c *Composer) GetFeed(ctx context.Context, viewerID uint, limit, offset int) ([]Post, error) {
	authorIDs, err := c.follows.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve followed authors: %w", err)
	}
	authorIDs = append(authorIDs, viewerID)

	posts, err := c.posts.GetPostsByAuthors(ctx, authorIDs, int64(offset), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get feed posts: %w", err)
	}
	if len(posts) == 0 {
		return []Post{}, nil
	}

	postIDs := make([]string, len(posts))
	authorSet := make(map[uint]bool)
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
		authorSet[p.AuthorID] = true
	}

	likedMap, err := c.likes.GetLikedPostIDs(viewerID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve like state: %w", err)
	}

	pageAuthors := make([]uint, 0, len(authorSet))
	for id := range authorSet {
		pageAuthors = append(pageAuthors, id)
	}
	authors, err := c.users.GetUsersByIDs(pageAuthors)
	if err != nil {
		return nil, fmt.Errorf("failed to load post authors: %w", err)
	}
	authorMap := make(map[uint]models.UserCompact, len(authors))
	for _, u := range authors {
		authorMap[u.ID] = u.ToCompact()
	}

	entries := make([]Post, len(posts))
	for i, p := range posts {
		entries[i] = Post{
			Post:    p,
			Author:  authorMap[p.AuthorID],
			IsLiked: likedMap[p.ID.Hex()],
		}
	}
	return entries, nil
}
