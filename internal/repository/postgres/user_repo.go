package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m0rozov/phishsight/internal/domain"
)

// GetUserByUsername возвращает (nil, nil), если пользователь не найден.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE username = $1`

	u := &domain.User{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get user: %w", err)
	}
	return u, nil
}

// CreateUser вставляет нового пользователя. Конфликт по username — ошибка.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.IsAdmin, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create user: %w", err)
	}
	return nil
}

// CountUsers нужен для первичной инициализации: первый пользователь
// становится администратором.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count users: %w", err)
	}
	return n, nil
}
