package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopit/pkg/logger"
	"shopit/pkg/mailer"
	"shopit/pkg/metrics"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/infrastructure"
	"shopit/storefront-service/internal/app/storefront/repository"
	"shopit/storefront-service/internal/app/storefront/util"
)

const (
	avatarFolder = "users"
	avatarWidth  = 150
)

// AuthResult - пользователь и токен сессии для cookie
type AuthResult struct {
	User  *entity.User
	Token string
}

// AuthConfig - параметры сброса пароля
type AuthConfig struct {
	ResetTokenTTL time.Duration
	FrontendURL   string
}

// AuthService - регистрация, вход, сессии и восстановление пароля
type AuthService struct {
	users      repository.UserRepository
	jwtManager *util.JWTManager
	blacklist  infrastructure.TokenBlacklist
	images     infrastructure.ImageHost
	mailer     mailer.Mailer
	publisher  infrastructure.MessagePublisher
	cfg        AuthConfig
	now        func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	jwtManager *util.JWTManager,
	blacklist infrastructure.TokenBlacklist,
	images infrastructure.ImageHost,
	mail mailer.Mailer,
	publisher infrastructure.MessagePublisher,
	cfg AuthConfig,
) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		blacklist:  blacklist,
		images:     images,
		mailer:     mail,
		publisher:  publisher,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Register создает пользователя с ролью user и сразу открывает сессию
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*AuthResult, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         entity.RoleUser,
		CreatedAt:    s.now(),
	}

	if req.Avatar != "" {
		avatar, err := s.images.Upload(ctx, req.Avatar, infrastructure.UploadOptions{Folder: avatarFolder, Width: avatarWidth})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
		}
		user.Avatar = avatar
	}

	if err := s.users.Create(ctx, user); err != nil {
		if user.Avatar.PublicID != "" {
			s.destroyImage(ctx, user.Avatar.PublicID)
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.AuthRegistrations.Inc()
	logger.Info().Str("user_id", user.ID.Hex()).Msg("User registered")

	publishEvent(ctx, s.publisher, entity.ShopEvent{
		EventType: entity.EventUserRegistered,
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		Name:      user.Name,
	})

	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	return s.session(user)
}

// Logout отзывает токен до конца его срока действия. Невалидный токен просто игнорируется.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.blacklist.Revoke(ctx, token, ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

// Authenticate проверяет подпись, срок, отзыв токена и отзыв всех токенов пользователя
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.Principal, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	revoked, err := s.blacklist.IsRevoked(ctx, token, claims.UserID, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if revoked {
		return nil, ErrTokenBlacklisted
	}

	return &entity.Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Token:  token,
	}, nil
}

// ForgotPassword сохраняет sha256 токена и отправляет ссылку на сброс.
// Если письмо не ушло, токен стирается.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	raw, hashed, err := util.GenerateResetToken()
	if err != nil {
		return err
	}

	expire := s.now().Add(s.cfg.ResetTokenTTL)
	user.ResetPasswordToken = hashed
	user.ResetPasswordExpire = &expire

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", s.cfg.FrontendURL, raw)
	msg := mailer.Message{
		To:      user.Email,
		Subject: "ShopIT Password Recovery",
		Body: fmt.Sprintf("Your password reset token is as follows:\n\n%s\n\n"+
			"If you have not requested this email, then ignore it.", resetURL),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.EmailsSent.WithLabelValues("storefront-service", "password_reset", "failed").Inc()

		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if uerr := s.users.Update(ctx, user); uerr != nil {
			logger.Error().Err(uerr).Str("user_id", user.ID.Hex()).Msg("Failed to clear reset token")
		}

		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	metrics.EmailsSent.WithLabelValues("storefront-service", "password_reset", "success").Inc()
	metrics.AuthPasswordResets.WithLabelValues("requested").Inc()
	return nil
}

// ResetPassword меняет пароль по токену из письма и открывает новую сессию
func (s *AuthService) ResetPassword(ctx context.Context, rawToken string, req *entity.ResetPasswordRequest) (*AuthResult, error) {
	user, err := s.users.GetByResetToken(ctx, util.HashResetToken(rawToken), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to find reset token: %w", err)
	}

	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	metrics.AuthPasswordResets.WithLabelValues("completed").Inc()
	return s.session(user)
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID string, req *entity.UpdatePasswordRequest) (*AuthResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
		return nil, ErrWrongPassword
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = passwordHash

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	return s.session(user)
}

func (s *AuthService) session(user *entity.User) (*AuthResult, error) {
	token, err := s.jwtManager.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) destroyImage(ctx context.Context, publicID string) {
	if err := s.images.Destroy(ctx, publicID); err != nil {
		logger.Warn().Err(err).Str("public_id", publicID).Msg("Failed to destroy image")
	}
}
