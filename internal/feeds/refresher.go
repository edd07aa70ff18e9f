package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ThrottleError сигнализирует, что источник фида попросил подождать
// (ответ 429 с Retry-After).
type ThrottleError struct {
	RetryAfter time.Duration
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("feed source throttled, retry after %s", e.RetryAfter)
}

// Refresher периодически тянет каталог из удаленного источника и
// подменяет содержимое Safelist. Обернут в лимитер, предохранитель и
// ретраи: источник внешний и ему нельзя доверять.
type Refresher struct {
	url      string
	interval time.Duration
	target   *Safelist
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
	lg       *zap.Logger
}

func NewRefresher(url string, interval time.Duration, target *Safelist, lg *zap.Logger) *Refresher {
	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "feed-source",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     5 * time.Minute, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})

	return &Refresher{
		url:      url,
		interval: interval,
		target:   target,
		client:   &http.Client{Timeout: 15 * time.Second},
		cb:       cb,
		limiter:  rate.NewLimiter(rate.Every(10*time.Second), 1),
		lg:       lg,
	}
}

// Run крутит цикл обновления до отмены контекста. Первое обновление —
// сразу на старте.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := r.RefreshOnce(ctx); err != nil {
			r.lg.Warn("feed refresh failed", zap.String("url", r.url), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RefreshOnce — одно обновление с полной обвязкой надежности.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	// 1. Rate Limiter
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	var payload Payload

	// 2. Circuit Breaker
	_, err := r.cb.Execute(func() (interface{}, error) {
		rt := retry.New(
			retry.Context(ctx),
			retry.Attempts(3),
			// Умный расчет задержки
			retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
				// Источник сам сказал, сколько ждать
				var tErr *ThrottleError
				if errors.As(err, &tErr) {
					return tErr.RetryAfter
				}

				// Иначе — стандартный экспоненциальный бэкофф
				return retry.BackOffDelay(n, err, config)
			}),
		)

		retryErr := rt.Do(func() error {
			tCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			var fetchErr error
			payload, fetchErr = r.fetch(tCtx)
			return fetchErr
		})

		return nil, retryErr
	})
	if err != nil {
		return err
	}

	r.target.Replace(payload)
	r.lg.Info("safelist refreshed from feed",
		zap.Int("trusted_domains", len(payload.TrustedDomains)),
		zap.Int("unsafe_phrases", len(payload.UnsafePhrases)))
	return nil
}

func (r *Refresher) fetch(ctx context.Context) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Payload{}, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := 30 * time.Second
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, convErr := strconv.Atoi(s); convErr == nil {
				wait = time.Duration(secs) * time.Second
			}
		}
		return Payload{}, &ThrottleError{RetryAfter: wait}
	}
	if resp.StatusCode != http.StatusOK {
		return Payload{}, fmt.Errorf("feed source returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Payload{}, fmt.Errorf("read feed body: %w", err)
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, fmt.Errorf("parse feed payload: %w", err)
	}
	return p, nil
}
