package repositories

import (
	"time"

	"github.com/learnloop/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification storage.
// Ownership checks are baked into the queries: every mutation is scoped to
// the recipient and reports how many rows it touched, so callers can map
// zero rows to their own not-found semantics.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) (int64, error)
	MarkAllAsRead(recipientID uint) error
	DeleteNotification(notificationID, recipientID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}

// MarkAsRead stamps read_at on an unread notification owned by recipientID.
// The read_at IS NULL guard keeps the transition one-way.
func (r *postgresNotificationRepository) MarkAsRead(notificationID, recipientID uint) (int64, error) {
	now := time.Now()
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", notificationID, recipientID).
		Update("read_at", &now)
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", &now).Error
}

func (r *postgresNotificationRepository) DeleteNotification(notificationID, recipientID uint) (int64, error) {
	res := r.db.Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
