package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m0rozov/phishsight/internal/domain"
)

// InsertDetection пишет запись детекции. Подробный результат уходит в JSONB.
func (s *Store) InsertDetection(ctx context.Context, rec *domain.DetectionRecord) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("postgres: marshal detection result: %w", err)
	}

	query := `
		INSERT INTO detections (id, username, mode, input, url_input, label, verdict, confidence, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.Username, rec.Mode, rec.Input, rec.URLInput,
		rec.Result.Label, rec.Result.Verdict, rec.Result.Confidence,
		resultJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert detection: %w", err)
	}
	return nil
}

// GetDetection возвращает (nil, nil), если записи нет.
func (s *Store) GetDetection(ctx context.Context, id string) (*domain.DetectionRecord, error) {
	query := `
		SELECT id, username, mode, input, url_input, result, created_at
		FROM detections WHERE id = $1`

	rec, err := scanDetection(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get detection: %w", err)
	}
	return rec, nil
}

// ListDetections возвращает записи пользователя, новые первыми.
// Пустой username означает все записи (админский обзор).
func (s *Store) ListDetections(ctx context.Context, username string, limit int) ([]domain.DetectionRecord, error) {
	query := `
		SELECT id, username, mode, input, url_input, result, created_at
		FROM detections
		WHERE ($1 = '' OR username = $1)
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list detections: %w", err)
	}
	defer rows.Close()

	var out []domain.DetectionRecord
	for rows.Next() {
		rec, err := scanDetection(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan detection: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// FetchEvents отдает компактные события для агрегационного ядра за окно
// от since. Пустой username — события всех пользователей.
func (s *Store) FetchEvents(ctx context.Context, username string, since time.Time) ([]domain.DetectionEvent, error) {
	query := `
		SELECT created_at, mode, verdict, confidence
		FROM detections
		WHERE ($1 = '' OR username = $1) AND created_at >= $2
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, username, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch events: %w", err)
	}
	defer rows.Close()

	var out []domain.DetectionEvent
	for rows.Next() {
		var ev domain.DetectionEvent
		if err := rows.Scan(&ev.Timestamp, &ev.Mode, &ev.Verdict, &ev.Confidence); err != nil {
			return nil, fmt.Errorf("postgres: scan event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetection(row rowScanner) (*domain.DetectionRecord, error) {
	rec := &domain.DetectionRecord{}
	var resultJSON []byte
	if err := row.Scan(
		&rec.ID, &rec.Username, &rec.Mode, &rec.Input, &rec.URLInput,
		&resultJSON, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, fmt.Errorf("decode detection result: %w", err)
	}
	return rec, nil
}
