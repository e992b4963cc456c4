package models

import (
	"encoding/json"
	"fmt"
)

// NotificationType is the closed set of notification kinds.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeFollow  NotificationType = "follow"
	NotificationTypeNewPost NotificationType = "new_post"
	NotificationTypeMention NotificationType = "mention"
)

// NotificationPayload is the tagged union of per-type payloads. Business
// logic works with the concrete variants; JSON exists only at the
// notifications table boundary.
type NotificationPayload interface {
	NotificationType() NotificationType
}

type LikePayload struct {
	LikerID  uint   `json:"liker_id"`
	PostID   string `json:"post_id"`
	PostText string `json:"post_text"`
}

func (LikePayload) NotificationType() NotificationType { return NotificationTypeLike }

type CommentPayload struct {
	CommenterID uint   `json:"commenter_id"`
	PostID      string `json:"post_id"`
	CommentText string `json:"comment_text"`
	PostText    string `json:"post_text"`
}

func (CommentPayload) NotificationType() NotificationType { return NotificationTypeComment }

type FollowPayload struct {
	FollowerID uint `json:"follower_id"`
}

func (FollowPayload) NotificationType() NotificationType { return NotificationTypeFollow }

type NewPostPayload struct {
	AuthorID uint   `json:"author_id"`
	PostID   string `json:"post_id"`
	PostText string `json:"post_text"`
}

func (NewPostPayload) NotificationType() NotificationType { return NotificationTypeNewPost }

type MentionPayload struct {
	MentionerID uint   `json:"mentioner_id"`
	PostID      string `json:"post_id"`
}

func (MentionPayload) NotificationType() NotificationType { return NotificationTypeMention }

// EncodePayload serializes a payload variant for storage.
func EncodePayload(p NotificationPayload) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", p.NotificationType(), err)
	}
	return raw, nil
}

// DecodePayload deserializes stored JSON into the variant matching the
// notification type.
func DecodePayload(t NotificationType, raw []byte) (NotificationPayload, error) {
	decode := func(v NotificationPayload) error {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("failed to unmarshal %s payload: %w", t, err)
		}
		return nil
	}

	switch t {
	case NotificationTypeLike:
		var p LikePayload
		return p, decode(&p)
	case NotificationTypeComment:
		var p CommentPayload
		return p, decode(&p)
	case NotificationTypeFollow:
		var p FollowPayload
		return p, decode(&p)
	case NotificationTypeNewPost:
		var p NewPostPayload
		return p, decode(&p)
	case NotificationTypeMention:
		var p MentionPayload
		return p, decode(&p)
	}
	return nil, fmt.Errorf("unknown notification type %q", t)
}
