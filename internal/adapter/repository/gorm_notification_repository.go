package repository

import (
	"context"

	"gorm.io/gorm"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
)

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return conn(ctx, r.db).Omit("User").Create(notification).Error
}

func (r *gormNotificationRepository) GetByID(ctx context.Context, id uint) (*entity.Notification, error) {
	var notification entity.Notification
	if err := conn(ctx, r.db).First(&notification, id).Error; err != nil {
		return nil, notFound("Notification", err)
	}
	return &notification, nil
}

func (r *gormNotificationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*entity.Notification, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&entity.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*entity.Notification
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *gormNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Model(&entity.Notification{}).Where("id = ?", id).UpdateColumn("read", true).Error
}

func (r *gormNotificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		UpdateColumn("read", true)
	return result.RowsAffected, result.Error
}
