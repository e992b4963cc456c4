package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/repositories"
	"go.uber.org/zap"
)

var (
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrAlreadyFollowing is returned when the edge already exists.
	ErrAlreadyFollowing = errors.New("already following this user")
	// ErrNotFollowing is returned when unfollowing a non-existent edge.
	ErrNotFollowing = errors.New("not following this user")
)

// Notifier is the slice of the notification engine the graph manager needs.
type Notifier interface {
	NotifyFollow(ctx context.Context, followerID, followeeID uint) error
}

// GraphManager enforces follow/unfollow invariants over the follow-edge
// store and computes per-user follow statistics.
type GraphManager struct {
	follows  repositories.FollowRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewGraphManager creates a new GraphManager. notifier may be nil, in which
// case follows produce no notifications.
func NewGraphManager(follows repositories.FollowRepository, notifier Notifier, logger *zap.Logger) *GraphManager {
	return &GraphManager{follows: follows, notifier: notifier, logger: logger}
}

// Follow creates the directed edge follower -> followee and notifies the
// followee. The insert is insert-or-ignore at the storage layer, so a race
// between two identical calls degrades to ErrAlreadyFollowing instead of a
// constraint violation.
func (m *GraphManager) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}

	created, err := m.follows.CreateFollow(&models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	})
	if err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	if !created {
		return ErrAlreadyFollowing
	}

	// Secondary, best-effort: the follow itself already succeeded.
	if m.notifier != nil {
		if err := m.notifier.NotifyFollow(ctx, followerID, followeeID); err != nil {
			m.logger.Error("failed to create follow notification",
				zap.Uint("follower_id", followerID),
				zap.Uint("followee_id", followeeID),
				zap.Error(err))
		}
	}

	return nil
}

// Unfollow removes the directed edge follower -> followee. No notification
// is generated for unfollow.
func (m *GraphManager) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	deleted, err := m.follows.DeleteFollow(followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	if !deleted {
		return ErrNotFollowing
	}
	return nil
}

// GetFollowStats returns follower/following counts for targetID plus whether
// viewerID follows them. A zero viewerID means anonymous: IsFollowing is
// false and no lookup is made.
func (m *GraphManager) GetFollowStats(ctx context.Context, targetID, viewerID uint) (*models.FollowStats, error) {
	var stats models.FollowStats
	var err error

	stats.FollowersCount, err = m.follows.GetFollowersCount(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers count: %w", err)
	}

	stats.FollowingCount, err = m.follows.GetFollowingCount(targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following count: %w", err)
	}

	if viewerID != 0 {
		stats.IsFollowing, err = m.follows.IsFollowing(viewerID, targetID)
		if err != nil {
			return nil, fmt.Errorf("failed to check follow status: %w", err)
		}
	}

	return &stats, nil
}
