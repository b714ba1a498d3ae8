package usecase

import (
	"context"
	stderrors "errors"
	"strings"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hasher   PasswordHasher
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenIssuer, hasher PasswordHasher) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
	}
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Phone    string
	Address  string
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errors.Conflict("Email already exists")
	} else if !errors.IsNotFound(err) {
		return nil, errors.Internal("Failed to check email", err)
	}

	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, errors.Conflict("Username already exists")
	} else if !errors.IsNotFound(err) {
		return nil, errors.Internal("Failed to check username", err)
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	user := &entity.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.Conflict("Email or username already exists")
		}
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, err := uc.tokens.IssueToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	logger.Info("User registered: id=%d username=%s", user.ID, user.Username)
	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, errors.Internal("Failed to load user", err)
	}

	if !uc.hasher.Compare(user.PasswordHash, password) {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	token, err := uc.tokens.IssueToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) GetProfile(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, passThrough("Failed to load user", err)
	}
	return user, nil
}

// UpdateProfileInput applies only the non-nil fields.
type UpdateProfileInput struct {
	Username *string
	FullName *string
	Phone    *string
	Address  *string
}

func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, passThrough("Failed to load user", err)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < 3 {
			return nil, errors.Validation("username", "username must be at least 3 characters")
		}
		if username != user.Username {
			if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
				return nil, errors.Conflict("Username already exists")
			} else if !errors.IsNotFound(err) {
				return nil, errors.Internal("Failed to check username", err)
			}
			user.Username = username
		}
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.Conflict("Username already exists")
		}
		return nil, errors.Internal("Failed to update profile", err)
	}
	return user, nil
}
