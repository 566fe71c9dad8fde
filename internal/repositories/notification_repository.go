package repositories

import (
	"github.com/nabilhq/openwall/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	// DeleteByTypeRecipientActor removes the notifications produced by a given
	// actor action so a retracted action also retracts its side effect.
	DeleteByTypeRecipientActor(ntype string, recipientID, fromID uint, fromType string) error
	GetByRecipient(recipientID uint, limit int) ([]models.Notification, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) DeleteByTypeRecipientActor(ntype string, recipientID, fromID uint, fromType string) error {
	return r.db.
		Where("type = ? AND user_id = ? AND from_id = ? AND from_type = ?", ntype, recipientID, fromID, fromType).
		Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) GetByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
