package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopit/pkg/logger"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/infrastructure"
	"shopit/storefront-service/internal/app/storefront/repository"
)

// UserService - профиль пользователя и администрирование пользователей
type UserService struct {
	users      repository.UserRepository
	images     infrastructure.ImageHost
	blacklist  infrastructure.TokenBlacklist
	sessionTTL time.Duration
	now        func() time.Time
}

// sessionTTL - срок жизни JWT: столько хранится отметка об отзыве токенов пользователя
func NewUserService(
	users repository.UserRepository,
	images infrastructure.ImageHost,
	blacklist infrastructure.TokenBlacklist,
	sessionTTL time.Duration,
) *UserService {
	return &UserService{
		users:      users,
		images:     images,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.GetUser(ctx, userID)
}

// UpdateProfile меняет имя и email. Новый аватар заменяет старый: сначала удаляем старый, потом загружаем.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *entity.UpdateProfileRequest) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	if req.Avatar != "" {
		if user.Avatar.PublicID != "" {
			if err := s.images.Destroy(ctx, user.Avatar.PublicID); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
			}
		}

		avatar, err := s.images.Upload(ctx, req.Avatar, infrastructure.UploadOptions{Folder: avatarFolder, Width: avatarWidth})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
		}
		user.Avatar = avatar
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateUser - изменение имени, email и роли администратором
func (s *UserService) UpdateUser(ctx context.Context, id string, req *entity.UpdateUserRequest) (*entity.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	roleChanged := req.Role != "" && req.Role != user.Role
	if req.Role != "" {
		user.Role = req.Role
	}

	// Роль зашита в JWT: старые токены отзываются до сохранения новой роли
	if roleChanged {
		if err := s.revokeSessions(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", id).Str("role", user.Role).Msg("User updated by admin")
	return user, nil
}

// DeleteUser удаляет аватар из хостинга, затем документ
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if user.Avatar.PublicID != "" {
		if err := s.images.Destroy(ctx, user.Avatar.PublicID); err != nil {
			return fmt.Errorf("%w: %v", ErrExternalService, err)
		}
	}

	if err := s.revokeSessions(ctx, id); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID string) error {
	if err := s.blacklist.RevokeUser(ctx, userID, s.now(), s.sessionTTL); err != nil {
		return fmt.Errorf("failed to revoke sessions of user %s: %w", userID, err)
	}
	logger.Info().Str("user_id", userID).Msg("User sessions revoked")
	return nil
}

func (s *UserService) save(ctx context.Context, user *entity.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
