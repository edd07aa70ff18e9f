package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/m0rozov/phishsight/internal/domain"
)

type mockFeedbackRepo struct {
	mock.Mock
}

func (m *mockFeedbackRepo) InsertFeedback(ctx context.Context, f *domain.Feedback) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFeedbackRepo) InsertContact(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockFeedbackRepo) ListContacts(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	args := m.Called(ctx, limit)
	if r := args.Get(0); r != nil {
		return r.([]domain.ContactMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFeedbackRepo) UpdateContactStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func TestSubmitFeedback(t *testing.T) {
	t.Run("valid feedback is stored", func(t *testing.T) {
		repo := new(mockFeedbackRepo)
		repo.On("InsertFeedback", mock.Anything, mock.MatchedBy(func(f *domain.Feedback) bool {
			return f.Username == "alice" && f.Type == "correct" && f.ID != ""
		})).Return(nil)

		svc := NewFeedbackService(repo, zap.NewNop())
		f, err := svc.Submit(context.Background(), "alice", "d-1", "correct", "  spot on ")
		require.NoError(t, err)
		assert.Equal(t, "spot on", f.Comments)
		repo.AssertExpectations(t)
	})

	t.Run("unknown type is invalid argument", func(t *testing.T) {
		svc := NewFeedbackService(new(mockFeedbackRepo), zap.NewNop())
		_, err := svc.Submit(context.Background(), "alice", "d-1", "meh", "")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestSubmitContact(t *testing.T) {
	svc := NewFeedbackService(new(mockFeedbackRepo), zap.NewNop())

	t.Run("bad email is rejected", func(t *testing.T) {
		_, err := svc.SubmitContact(context.Background(), "Alice", "not-an-email", "hi", "message")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		_, err := svc.SubmitContact(context.Background(), "Alice", "a@b.example", "hi", "   ")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("valid message starts in status new", func(t *testing.T) {
		repo := new(mockFeedbackRepo)
		repo.On("InsertContact", mock.Anything, mock.MatchedBy(func(m *domain.ContactMessage) bool {
			return m.Status == "new" && m.Email == "a@b.example"
		})).Return(nil)

		svc := NewFeedbackService(repo, zap.NewNop())
		m, err := svc.SubmitContact(context.Background(), "Alice", "a@b.example", "hi", "help me")
		require.NoError(t, err)
		assert.Equal(t, "new", m.Status)
	})
}

func TestSetContactStatus(t *testing.T) {
	repo := new(mockFeedbackRepo)
	repo.On("UpdateContactStatus", mock.Anything, "c-1", "resolved").Return(nil)

	svc := NewFeedbackService(repo, zap.NewNop())
	require.NoError(t, svc.SetContactStatus(context.Background(), "c-1", "resolved"))

	err := svc.SetContactStatus(context.Background(), "c-1", "closed")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
