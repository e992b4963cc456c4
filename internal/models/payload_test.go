package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload NotificationPayload
	}{
		{
			name:    "like",
			payload: LikePayload{LikerID: 2, PostID: "652f1a", PostText: "hello"},
		},
		{
			name:    "comment",
			payload: CommentPayload{CommenterID: 3, PostID: "652f1a", CommentText: "nice", PostText: "hello"},
		},
		{
			name:    "follow",
			payload: FollowPayload{FollowerID: 4},
		},
		{
			name:    "new post",
			payload: NewPostPayload{AuthorID: 5, PostID: "652f1b", PostText: "fresh"},
		},
		{
			name:    "mention",
			payload: MentionPayload{MentionerID: 6, PostID: "652f1c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := EncodePayload(tt.payload)
			require.NoError(t, err)

			decoded, err := DecodePayload(tt.payload.NotificationType(), raw)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, decoded)
		})
	}
}

func TestDecodePayloadUnknownType(t *testing.T) {
	_, err := DecodePayload(NotificationType("poke"), []byte(`{}`))
	assert.ErrorContains(t, err, "unknown notification type")
}

func TestDecodePayloadMalformedJSON(t *testing.T) {
	_, err := DecodePayload(NotificationTypeLike, []byte(`{"liker_id":`))
	assert.Error(t, err)
}
