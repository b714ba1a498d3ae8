package memory

import (
	"context"
	"sort"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	apperrors "ecofinds/pkg/errors"
)

type notificationRepository struct {
	s *Store
}

func NewNotificationRepository(s *Store) repository.NotificationRepository {
	return &notificationRepository{s: s}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	defer r.s.lock(ctx)()

	notification.ID = r.s.nextID()
	notification.CreatedAt = r.s.now()
	stored := *notification
	stored.User = nil
	r.s.notifications[notification.ID] = stored
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, apperrors.NotFound("Notification", nil)
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*entity.Notification, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var notifications []*entity.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			item := n
			notifications = append(notifications, &item)
		}
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID > notifications[j].ID })
	return page(notifications, limit, offset), int64(len(notifications)), nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint) error {
	defer r.s.lock(ctx)()

	n, ok := r.s.notifications[id]
	if !ok {
		return apperrors.NotFound("Notification", nil)
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	defer r.s.lock(ctx)()

	var updated int64
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.s.notifications[id] = n
			updated++
		}
	}
	return updated, nil
}
