package usecase

import (
	"context"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/utils"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notificationRepo: notificationRepo}
}

type NotificationPage struct {
	Page[*entity.Notification]
	UnreadCount int64
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID uint, page, limit int) (*NotificationPage, error) {
	pagination := utils.NewPaginationParams(page, limit)
	notifications, total, err := uc.notificationRepo.ListByUser(ctx, userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, errors.Internal("Failed to list notifications", err)
	}
	if notifications == nil {
		notifications = []*entity.Notification{}
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, errors.Internal("Failed to count notifications", err)
	}

	return &NotificationPage{
		Page: Page[*entity.Notification]{
			Items: notifications,
			Total: total,
			Page:  pagination.Page,
			Limit: pagination.PageSize,
		},
		UnreadCount: unread,
	}, nil
}

// MarkAsRead is a no-op for a notification that is already read.
func (uc *NotificationUseCase) MarkAsRead(ctx context.Context, userID, notificationID uint) error {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return passThrough("Failed to load notification", err)
	}
	if notification.UserID != userID {
		return errors.Forbidden("Not authorized", nil)
	}
	if notification.Read {
		return nil
	}
	if err := uc.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		return errors.Internal("Failed to mark notification as read", err)
	}
	return nil
}

func (uc *NotificationUseCase) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	updated, err := uc.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, errors.Internal("Failed to mark notifications as read", err)
	}
	return updated, nil
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}
	return count, nil
}
