package memory

import (
	"context"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	apperrors "ecofinds/pkg/errors"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) repository.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.s.nextID()
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.NotFound("User", nil)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *userRepository) find(match func(entity.User) bool) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if match(user) {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("User", nil)
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.NotFound("User", nil)
	}
	for id, existing := range r.s.users {
		if id != user.ID && existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	stored.Username = user.Username
	stored.FullName = user.FullName
	stored.Phone = user.Phone
	stored.Address = user.Address
	stored.UpdatedAt = r.s.now()
	r.s.users[user.ID] = stored
	user.UpdatedAt = stored.UpdatedAt
	return nil
}
