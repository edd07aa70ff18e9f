package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/m0rozov/phishsight/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials возвращается одинаково для неизвестного логина и
// неверного пароля, чтобы не раскрывать, что именно не совпало.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUsernameTaken — конфликт при регистрации.
var ErrUsernameTaken = errors.New("username already taken")

// UserRepository описывает требования к хранилищу пользователей
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	CountUsers(ctx context.Context) (int, error)
}

type AuthService struct {
	repo       UserRepository
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthService(repo UserRepository, privateKey *rsa.PrivateKey, tokenTTL time.Duration, bcryptCost int, logger *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		privateKey: privateKey,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger.Named("auth-service"),
	}
}

// GenerateToken проверяет пароль и выдает RS256 JWT.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	// 1. Аутентификация (источник правды — Postgres)
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Проверка пароля (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. Формирование Claims (scopes из прав пользователя в БД)
	scopes := map[string]bool{"user": true}
	if user.IsAdmin {
		scopes["admin"] = true
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := &domain.CustomClaims{
		Username: user.Username,
		Scopes:   scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "phishsight-console",
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// 4. Подпись токена ЗАКРЫТЫМ КЛЮЧОМ (RS256)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("token issued", zap.String("username", user.Username))

	return &domain.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// Signup регистрирует нового пользователя. Самый первый пользователь
// системы получает права администратора.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", domain.ErrInvalidArgument)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidArgument)
	}

	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("signup lookup: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("signup count: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      total == 0,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("username", user.Username),
		zap.Bool("is_admin", user.IsAdmin))
	return user, nil
}
