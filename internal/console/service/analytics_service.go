package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/m0rozov/phishsight/internal/analytics"
	"github.com/m0rozov/phishsight/internal/analytics/chart"
	"github.com/m0rozov/phishsight/internal/domain"
	"github.com/m0rozov/phishsight/internal/infra"
	"github.com/m0rozov/phishsight/internal/metrics"
)

// EventSource отдает события детекций для агрегации.
type EventSource interface {
	FetchEvents(ctx context.Context, username string, since time.Time) ([]domain.DetectionEvent, error)
}

// DashboardPayload — готовый ответ для дашборда: сводка + конфиги графиков.
type DashboardPayload struct {
	Summary     *domain.AnalyticsSummary `json:"summary"`
	Charts      *chart.Bundle            `json:"charts"`
	GeneratedAt time.Time                `json:"generated_at"`
}

type AnalyticsService struct {
	events EventSource
	rdb    *redis.Client

	aggCfg         analytics.Config
	cacheTTL       time.Duration
	sampleFallback bool

	metrics *metrics.Metrics
	logger  *zap.Logger

	// подменяется в тестах
	now func() time.Time
}

func NewAnalyticsService(
	events EventSource,
	rdb *redis.Client,
	aggCfg analytics.Config,
	cacheTTL time.Duration,
	sampleFallback bool,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AnalyticsService {
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	if aggCfg.WindowDays <= 0 {
		aggCfg.WindowDays = analytics.DefaultWindowDays
	}
	if aggCfg.BucketWidth <= 0 {
		aggCfg.BucketWidth = analytics.DefaultBucketWidth
	}
	if aggCfg.Location == nil {
		aggCfg.Location = time.UTC
	}
	return &AnalyticsService{
		events:         events,
		rdb:            rdb,
		aggCfg:         aggCfg,
		cacheTTL:       cacheTTL,
		sampleFallback: sampleFallback,
		metrics:        m,
		logger:         logger.Named("analytics-service"),
		now:            time.Now,
	}
}

// Dashboard собирает аналитику пользователя. Пустой username — сводка по
// всем (только для админов, проверка прав на уровне хендлера).
// Результат кэшируется в Redis на cacheTTL, инвалидация — по Pub/Sub.
func (s *AnalyticsService) Dashboard(ctx context.Context, username string) (*DashboardPayload, error) {
	cacheKey := infra.GetAnalyticsCacheKey(username)
	if username == "" {
		cacheKey = infra.RedisKeyAnalyticsAdmin
	}

	// 1. Пробуем кэш
	if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var payload DashboardPayload
		if jerr := json.Unmarshal(raw, &payload); jerr == nil {
			s.metrics.AnalyticsCache.WithLabelValues("hit").Inc()
			return &payload, nil
		}
		s.logger.Warn("corrupt analytics cache entry, rebuilding", zap.String("key", cacheKey))
	} else if !errors.Is(err, redis.Nil) {
		// Redis недоступен — считаем из базы, это не фатально
		s.metrics.AnalyticsCache.WithLabelValues("error").Inc()
		s.logger.Warn("analytics cache unavailable", zap.Error(err))
	} else {
		s.metrics.AnalyticsCache.WithLabelValues("miss").Inc()
	}

	// 2. Считаем из источника событий
	now := s.now()
	since := now.In(s.aggCfg.Location).AddDate(0, 0, -(s.aggCfg.WindowDays - 1))
	since = time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, s.aggCfg.Location)

	events, err := s.events.FetchEvents(ctx, username, since)
	if err != nil {
		s.logger.Error("failed to fetch detection events", zap.Error(err))
		return nil, fmt.Errorf("service: could not fetch events: %w", err)
	}

	sampled := false
	if len(events) == 0 && s.sampleFallback {
		// Подстановка включается ТОЛЬКО конфигом и всегда помечается
		// флагом Sampled в ответе.
		events = sampleEvents(now)
		sampled = true
		s.metrics.SampleFallbackTotal.Inc()
		s.logger.Info("serving synthetic sample dataset", zap.String("username", username))
	}

	summary, err := analytics.Summarize(events, now, s.aggCfg)
	if err != nil {
		return nil, fmt.Errorf("service: aggregation failed: %w", err)
	}
	summary.Sampled = sampled

	charts := chart.FromSummary(summary)
	payload := &DashboardPayload{
		Summary:     summary,
		Charts:      &charts,
		GeneratedAt: now.UTC(),
	}

	// 3. Кэшируем. Ошибка записи не мешает отдать ответ.
	if raw, jerr := json.Marshal(payload); jerr == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("failed to cache analytics payload", zap.Error(err))
		}
	}

	return payload, nil
}

// StartInvalidationListener — "живучая" подписка на сигналы новых
// детекций: по каждому сообщению сбрасываем кэш пользователя и админский.
// Блокируется до отмены контекста, запускать в горутине.
func (s *AnalyticsService) StartInvalidationListener(ctx context.Context) {
	for {
		pubsub := s.rdb.Subscribe(ctx, infra.RedisChanDetections)

		// Проверка успешности подписки
		if _, err := pubsub.Receive(ctx); err != nil {
			s.logger.Error("failed to subscribe",
				zap.String("chan", infra.RedisChanDetections), zap.Error(err))
			pubsub.Close()
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		ch := pubsub.Channel()

	loop:
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break loop // Канал закрыт, идем на переподключение
				}
				s.invalidate(ctx, msg.Payload)
			}
		}

		pubsub.Close()
		time.Sleep(1 * time.Second)
	}
}

func (s *AnalyticsService) invalidate(ctx context.Context, username string) {
	keys := []string{infra.RedisKeyAnalyticsAdmin}
	if username != "" {
		keys = append(keys, infra.GetAnalyticsCacheKey(username))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
		return
	}
	s.logger.Debug("analytics cache invalidated", zap.String("username", username))
}

// sampleEvents — детерминированный демонстрационный набор на последние
// две недели. Без случайности: одинаковый ввод дает одинаковый дашборд.
func sampleEvents(now time.Time) []domain.DetectionEvent {
	modes := []domain.AnalysisMode{domain.ModeEmail, domain.ModeURL, domain.ModeHybrid}

	var out []domain.DetectionEvent
	for day := 0; day < 14; day++ {
		perDay := 2 + (day*3)%5
		for i := 0; i < perDay; i++ {
			verdict := domain.VerdictSafe
			confidence := float64(60 + (day*7+i*11)%40)
			if (day+i)%3 == 0 {
				verdict = domain.VerdictPhishing
				confidence = float64(70 + (day*5+i*13)%30)
			}
			out = append(out, domain.DetectionEvent{
				Timestamp:  now.AddDate(0, 0, -day).Add(-time.Duration(2+i*3) * time.Hour),
				Mode:       modes[(day+i)%len(modes)],
				Verdict:    verdict,
				Confidence: confidence,
			})
		}
	}
	return out
}
