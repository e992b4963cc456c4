package notifications

import (
	"context"
	"fmt"

	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/repositories"
	"go.uber.org/zap"
)

// Enriched is a stored notification re-hydrated with display data: the
// decoded payload variant, the acting user, and the referenced post where
// the type has one. Post reflects the document's current state, not a
// snapshot from creation time.
type Enriched struct {
	models.Notification
	Payload models.NotificationPayload `json:"payload"`
	Actor   *models.UserCompact        `json:"actor,omitempty"`
	Post    *models.Post               `json:"post,omitempty"`
}

// Enricher attaches human-facing data to stored notifications by
// dispatching on type. A referenced entity that has since been deleted
// yields empty enrichment fields, never a failed listing.
type Enricher struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	posts         repositories.PostRepository
	logger        *zap.Logger
}

// NewEnricher creates a new Enricher
func NewEnricher(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	posts repositories.PostRepository,
	logger *zap.Logger,
) *Enricher {
	return &Enricher{notifications: notifications, users: users, posts: posts, logger: logger}
}

// List returns ownerID's notifications, newest first, each enriched.
func (e *Enricher) List(ctx context.Context, ownerID uint, limit, offset int, unreadOnly bool) ([]Enriched, error) {
	rows, err := e.notifications.GetByRecipientID(ownerID, limit, offset, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	enriched := make([]Enriched, 0, len(rows))
	userCache := make(map[uint]*models.UserCompact)
	for _, row := range rows {
		entry, err := e.Enrich(ctx, row, userCache)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, entry)
	}
	return enriched, nil
}

// Enrich decodes one notification's payload and loads its display data.
// userCache deduplicates actor lookups within a page; pass nil for a
// one-off call. A malformed payload is a programmer error and propagates.
func (e *Enricher) Enrich(ctx context.Context, row models.Notification, userCache map[uint]*models.UserCompact) (Enriched, error) {
	payload, err := models.DecodePayload(row.Type, row.Payload)
	if err != nil {
		return Enriched{}, fmt.Errorf("failed to decode notification %d: %w", row.ID, err)
	}

	entry := Enriched{Notification: row, Payload: payload}

	switch p := payload.(type) {
	case models.LikePayload:
		entry.Actor = e.lookupUser(p.LikerID, userCache)
		entry.Post = e.lookupPost(ctx, p.PostID)
	case models.CommentPayload:
		entry.Actor = e.lookupUser(p.CommenterID, userCache)
		entry.Post = e.lookupPost(ctx, p.PostID)
	case models.FollowPayload:
		entry.Actor = e.lookupUser(p.FollowerID, userCache)
	case models.NewPostPayload:
		entry.Post = e.lookupPost(ctx, p.PostID)
		entry.Actor = e.lookupUser(p.AuthorID, userCache)
	case models.MentionPayload:
		entry.Actor = e.lookupUser(p.MentionerID, userCache)
		entry.Post = e.lookupPost(ctx, p.PostID)
	}

	return entry, nil
}

func (e *Enricher) lookupUser(id uint, cache map[uint]*models.UserCompact) *models.UserCompact {
	if cache != nil {
		if compact, ok := cache[id]; ok {
			return compact
		}
	}
	user, err := e.users.GetUserByID(id)
	if err != nil {
		e.logger.Debug("notification actor lookup failed", zap.Uint("user_id", id), zap.Error(err))
		if cache != nil {
			cache[id] = nil
		}
		return nil
	}
	compact := user.ToCompact()
	if cache != nil {
		cache[id] = &compact
	}
	return &compact
}

func (e *Enricher) lookupPost(ctx context.Context, id string) *models.Post {
	post, err := e.posts.GetPostByID(ctx, id)
	if err != nil {
		e.logger.Debug("notification post lookup failed", zap.String("post_id", id), zap.Error(err))
		return nil
	}
	return post
}
