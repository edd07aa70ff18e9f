package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/m0rozov/phishsight/internal/domain"
)

// FeedbackRepository описывает хранилище обратной связи и обращений
type FeedbackRepository interface {
	InsertFeedback(ctx context.Context, f *domain.Feedback) error
	InsertContact(ctx context.Context, m *domain.ContactMessage) error
	ListContacts(ctx context.Context, limit int) ([]domain.ContactMessage, error)
	UpdateContactStatus(ctx context.Context, id, status string) error
}

var contactStatuses = map[string]bool{"new": true, "pending": true, "resolved": true}

type FeedbackService struct {
	repo   FeedbackRepository
	logger *zap.Logger
}

func NewFeedbackService(repo FeedbackRepository, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, logger: logger.Named("feedback-service")}
}

// Submit фиксирует оценку вердикта пользователем.
func (s *FeedbackService) Submit(ctx context.Context, username, detectionID, fbType, comments string) (*domain.Feedback, error) {
	if fbType != "correct" && fbType != "incorrect" {
		return nil, fmt.Errorf("%w: feedback type must be correct or incorrect", domain.ErrInvalidArgument)
	}

	f := &domain.Feedback{
		ID:          uuid.NewString(),
		Username:    username,
		DetectionID: detectionID,
		Type:        fbType,
		Comments:    strings.TrimSpace(comments),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.InsertFeedback(ctx, f); err != nil {
		s.logger.Error("failed to persist feedback", zap.Error(err))
		return nil, fmt.Errorf("feedback database error: %w", err)
	}

	s.logger.Info("feedback recorded",
		zap.String("username", username),
		zap.String("type", fbType))
	return f, nil
}

// SubmitContact принимает обращение с публичной формы.
func (s *FeedbackService) SubmitContact(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error) {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)
	if name == "" || message == "" {
		return nil, fmt.Errorf("%w: name and message are required", domain.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidArgument)
	}

	m := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Subject:   strings.TrimSpace(subject),
		Message:   message,
		Status:    "new",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertContact(ctx, m); err != nil {
		s.logger.Error("failed to persist contact message", zap.Error(err))
		return nil, fmt.Errorf("contact database error: %w", err)
	}
	return m, nil
}

// Contacts — обращения для админской консоли.
func (s *FeedbackService) Contacts(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	msgs, err := s.repo.ListContacts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch contacts: %w", err)
	}
	if msgs == nil {
		return []domain.ContactMessage{}, nil
	}
	return msgs, nil
}

// SetContactStatus переводит обращение по статусам.
func (s *FeedbackService) SetContactStatus(ctx context.Context, id, status string) error {
	if !contactStatuses[status] {
		return fmt.Errorf("%w: unknown contact status %q", domain.ErrInvalidArgument, status)
	}
	return s.repo.UpdateContactStatus(ctx, id, status)
}
