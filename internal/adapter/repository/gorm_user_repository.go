package repository

import (
	"context"

	"gorm.io/gorm"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
)

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) repository.UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, notFound("User", err)
	}
	return &user, nil
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound("User", err)
	}
	return &user, nil
}

func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := conn(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound("User", err)
	}
	return &user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *entity.User) error {
	err := conn(ctx, r.db).Model(user).Select("username", "full_name", "phone", "address", "updated_at").Updates(user).Error
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}
