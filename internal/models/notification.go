package models

import "time"

// Notification is an append-only record in PostgreSQL telling RecipientID
// that something happened. Payload is one of the typed variants in
// payload.go, stored as JSON. ReadAt moves from NULL to a timestamp once and
// never back; rows are removed only by their owner.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"index:idx_notif_recipient_created;index:idx_notif_recipient_read"`
	Type        NotificationType `json:"type" gorm:"size:30"`
	EntityID    string           `json:"entity_id,omitempty" gorm:"size:64"` // post hex id or user id, depending on type
	Payload     []byte           `json:"-" gorm:"type:jsonb"`
	ReadAt      *time.Time       `json:"read_at" gorm:"index:idx_notif_recipient_read"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index:idx_notif_recipient_created,sort:desc"`
}
