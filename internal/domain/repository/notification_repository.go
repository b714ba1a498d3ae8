package repository

import (
	"context"

	"ecofinds/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id uint) (*entity.Notification, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}
