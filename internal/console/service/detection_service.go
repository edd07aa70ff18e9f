package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/m0rozov/phishsight/internal/domain"
	"github.com/m0rozov/phishsight/internal/infra"
	"github.com/m0rozov/phishsight/internal/metrics"
)

// Analyzer — движок анализа (правиловой детектор).
type Analyzer interface {
	Analyze(mode domain.AnalysisMode, text, urlInput string) (domain.DetectionResult, error)
}

// DetectionRepository описывает требования к хранилищу детекций
type DetectionRepository interface {
	InsertDetection(ctx context.Context, rec *domain.DetectionRecord) error
	GetDetection(ctx context.Context, id string) (*domain.DetectionRecord, error)
	ListDetections(ctx context.Context, username string, limit int) ([]domain.DetectionRecord, error)
}

type DetectionService struct {
	engine  Analyzer
	repo    DetectionRepository
	rdb     *redis.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewDetectionService(engine Analyzer, repo DetectionRepository, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *DetectionService {
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &DetectionService{
		engine:  engine,
		repo:    repo,
		rdb:     rdb,
		metrics: m,
		logger:  logger.Named("detection-service"),
	}
}

// Detect прогоняет ввод через движок, сохраняет запись и шлет сигнал
// инвалидации кэша аналитики.
func (s *DetectionService) Detect(ctx context.Context, username string, mode domain.AnalysisMode, text, urlInput string) (*domain.DetectionRecord, error) {
	result, err := s.engine.Analyze(mode, text, urlInput)
	if err != nil {
		return nil, err
	}

	rec := &domain.DetectionRecord{
		ID:        uuid.NewString(),
		Username:  username,
		Mode:      mode,
		Input:     text,
		URLInput:  urlInput,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}

	// 1. Persistence Layer
	if err := s.repo.InsertDetection(ctx, rec); err != nil {
		s.logger.Error("failed to persist detection",
			zap.String("username", username),
			zap.String("mode", string(mode)),
			zap.Error(err))
		return nil, fmt.Errorf("detect database error: %w", err)
	}

	s.metrics.DetectionsTotal.WithLabelValues(string(mode), string(result.Verdict)).Inc()

	// 2. Real-time Signaling: инвалидация кэша аналитики
	if err := s.rdb.Publish(ctx, infra.RedisChanDetections, username).Err(); err != nil {
		// Кэш протухнет сам по TTL, поэтому ошибка не фатальна
		s.logger.Warn("cache invalidation signal failed",
			zap.String("channel", infra.RedisChanDetections),
			zap.Error(err))
	}

	s.logger.Info("detection recorded",
		zap.String("username", username),
		zap.String("mode", string(mode)),
		zap.String("verdict", string(result.Verdict)),
		zap.Float64("confidence", result.Confidence))

	return rec, nil
}

// History возвращает записи пользователя, новые первыми. Фронтенд всегда
// получает массив, не null.
func (s *DetectionService) History(ctx context.Context, username string, limit int) ([]domain.DetectionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	recs, err := s.repo.ListDetections(ctx, username, limit)
	if err != nil {
		s.logger.Error("failed to list detections", zap.Error(err))
		return nil, fmt.Errorf("service: could not fetch history: %w", err)
	}
	if recs == nil {
		return []domain.DetectionRecord{}, nil
	}
	return recs, nil
}

// AllHistory — админский обзор по всем пользователям.
func (s *DetectionService) AllHistory(ctx context.Context, limit int) ([]domain.DetectionRecord, error) {
	return s.History(ctx, "", limit)
}

// Get возвращает одну запись с проверкой владения: обычный пользователь
// видит только свои детекции.
func (s *DetectionService) Get(ctx context.Context, username, id string, isAdmin bool) (*domain.DetectionRecord, error) {
	rec, err := s.repo.GetDetection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch detection: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	if !isAdmin && rec.Username != username {
		return nil, nil
	}
	return rec, nil
}
