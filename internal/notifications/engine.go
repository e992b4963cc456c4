package notifications

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/repositories"
	"github.com/learnloop/backend/pkg/metrics"
	"go.uber.org/zap"
)

var (
	// ErrNotFoundOrAlreadyRead is returned by MarkAsRead when no unread
	// notification matches the (id, owner) pair.
	ErrNotFoundOrAlreadyRead = errors.New("notification not found or already read")
	// ErrNotFound is returned by DeleteNotification when the row does not
	// exist or belongs to someone else.
	ErrNotFound = errors.New("notification not found")
)

// excerptLength bounds the post/comment text carried in payloads.
const excerptLength = 100

// Engine creates notifications in response to domain events and owns their
// read-state lifecycle. All triggers run synchronously inside the request
// that caused them; there is no queue or background worker.
type Engine struct {
	notifications repositories.NotificationRepository
	posts         repositories.PostRepository
	follows       repositories.FollowRepository
	unread        *UnreadCache
	logger        *zap.Logger
}

// NewEngine creates a new Engine. unread may be nil to disable caching.
func NewEngine(
	notifications repositories.NotificationRepository,
	posts repositories.PostRepository,
	follows repositories.FollowRepository,
	unread *UnreadCache,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		notifications: notifications,
		posts:         posts,
		follows:       follows,
		unread:        unread,
		logger:        logger,
	}
}

// CreateNotification is the shared primitive behind every trigger: encode
// the typed payload, persist the row, invalidate the recipient's unread
// counter.
func (e *Engine) CreateNotification(ctx context.Context, recipientID uint, entityID string, payload models.NotificationPayload) (*models.Notification, error) {
	raw, err := models.EncodePayload(payload)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		Type:        payload.NotificationType(),
		EntityID:    entityID,
		Payload:     raw,
	}
	if err := e.notifications.CreateNotification(notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	metrics.NotificationsCreated.WithLabelValues(string(notification.Type)).Inc()
	e.unread.Invalidate(ctx, recipientID)
	return notification, nil
}

// NotifyLike tells a post's author that likerID liked it. Liking your own
// post produces nothing.
func (e *Engine) NotifyLike(ctx context.Context, likerID uint, postID string) error {
	post, err := e.posts.GetPostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to get post info: %w", err)
	}

	if likerID == post.AuthorID {
		return nil
	}

	_, err = e.CreateNotification(ctx, post.AuthorID, postID, models.LikePayload{
		LikerID:  likerID,
		PostID:   postID,
		PostText: truncateText(post.Text, excerptLength),
	})
	return err
}

// NotifyComment tells a post's author that commenterID commented on it.
// Commenting on your own post produces nothing.
func (e *Engine) NotifyComment(ctx context.Context, commenterID uint, postID, commentText string) error {
	post, err := e.posts.GetPostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to get post info: %w", err)
	}

	if commenterID == post.AuthorID {
		return nil
	}

	_, err = e.CreateNotification(ctx, post.AuthorID, postID, models.CommentPayload{
		CommenterID: commenterID,
		PostID:      postID,
		CommentText: truncateText(commentText, excerptLength),
		PostText:    truncateText(post.Text, excerptLength),
	})
	return err
}

// NotifyFollow tells followeeID that followerID started following them.
// Self-follow is rejected upstream, so no guard is needed here.
func (e *Engine) NotifyFollow(ctx context.Context, followerID, followeeID uint) error {
	_, err := e.CreateNotification(ctx,
		followeeID,
		strconv.FormatUint(uint64(followerID), 10),
		models.FollowPayload{FollowerID: followerID})
	return err
}

// NotifyNewPost fans a new post out to every follower of its author, one
// notification each. Inserts are independent: a failure is counted and
// logged, then the loop moves on, so the post creation that triggered the
// fan-out is never rolled back by a delivery problem.
func (e *Engine) NotifyNewPost(ctx context.Context, authorID uint, postID, postText string) error {
	followerIDs, err := e.follows.GetFollowerIDs(authorID)
	if err != nil {
		return fmt.Errorf("failed to get followers: %w", err)
	}

	excerpt := truncateText(postText, excerptLength)
	for _, followerID := range followerIDs {
		_, err := e.CreateNotification(ctx, followerID, postID, models.NewPostPayload{
			AuthorID: authorID,
			PostID:   postID,
			PostText: excerpt,
		})
		if err != nil {
			metrics.FanoutFailures.Inc()
			e.logger.Error("failed to create new post notification",
				zap.Uint("follower_id", followerID),
				zap.String("post_id", postID),
				zap.Error(err))
		}
	}

	return nil
}

// MarkAsRead stamps one notification as read. Succeeds exactly once per
// notification; re-marking or touching someone else's row is
// ErrNotFoundOrAlreadyRead.
func (e *Engine) MarkAsRead(ctx context.Context, notificationID, ownerID uint) error {
	rows, err := e.notifications.MarkAsRead(notificationID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if rows == 0 {
		return ErrNotFoundOrAlreadyRead
	}
	e.unread.Invalidate(ctx, ownerID)
	return nil
}

// MarkAllAsRead stamps every unread notification for ownerID. Marking zero
// rows is still success.
func (e *Engine) MarkAllAsRead(ctx context.Context, ownerID uint) error {
	if err := e.notifications.MarkAllAsRead(ownerID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	e.unread.Invalidate(ctx, ownerID)
	return nil
}

// GetUnreadCount returns the owner's unread total, reading through the
// Redis counter cache when one is configured.
func (e *Engine) GetUnreadCount(ctx context.Context, ownerID uint) (int64, error) {
	if count, ok := e.unread.Get(ctx, ownerID); ok {
		return count, nil
	}

	count, err := e.notifications.GetUnreadCount(ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	e.unread.Set(ctx, ownerID, count)
	return count, nil
}

// DeleteNotification permanently removes a notification owned by ownerID.
func (e *Engine) DeleteNotification(ctx context.Context, notificationID, ownerID uint) error {
	rows, err := e.notifications.DeleteNotification(notificationID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	e.unread.Invalidate(ctx, ownerID)
	return nil
}

func truncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength] + "..."
}
