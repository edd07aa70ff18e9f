package postgres

import (
	"context"
	"fmt"

	"github.com/m0rozov/phishsight/internal/domain"
)

func (s *Store) InsertFeedback(ctx context.Context, f *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, username, detection_id, type, comments, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		f.ID, f.Username, f.DetectionID, f.Type, f.Comments, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert feedback: %w", err)
	}
	return nil
}

func (s *Store) InsertContact(ctx context.Context, m *domain.ContactMessage) error {
	query := `
		INSERT INTO contacts (id, name, email, subject, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.Status, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert contact: %w", err)
	}
	return nil
}

// ListContacts — обращения для админской консоли, новые первыми.
func (s *Store) ListContacts(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	query := `
		SELECT id, name, email, subject, message, status, created_at
		FROM contacts ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list contacts: %w", err)
	}
	defer rows.Close()

	var out []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan contact: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateContactStatus переводит обращение по статусам new -> pending -> resolved.
func (s *Store) UpdateContactStatus(ctx context.Context, id, status string) error {
	query := `UPDATE contacts SET status = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("postgres: update contact status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("postgres: contact %s not found", id)
	}
	return nil
}
