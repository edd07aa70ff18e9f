package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/m0rozov/phishsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(ts time.Time, mode domain.AnalysisMode, verdict domain.Verdict, conf float64) domain.DetectionEvent {
	return domain.DetectionEvent{Timestamp: ts, Mode: mode, Verdict: verdict, Confidence: conf}
}

func TestBucketByDay(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

	t.Run("window covers exactly windowDays, oldest first", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC), domain.ModeEmail, domain.VerdictPhishing, 90),
		}

		buckets, err := BucketByDay(events, now, 3, time.UTC)
		require.NoError(t, err)
		require.Len(t, buckets, 3)

		assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), buckets[0].Date)
		assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), buckets[1].Date)
		assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), buckets[2].Date)

		assert.Equal(t, []int{0, 1, 0}, []int{buckets[0].Total, buckets[1].Total, buckets[2].Total})
		assert.Equal(t, 1, buckets[1].PhishingCount)
	})

	t.Run("empty days are zero-filled, never fabricated", func(t *testing.T) {
		buckets, err := BucketByDay(nil, now, 7, time.UTC)
		require.NoError(t, err)
		require.Len(t, buckets, 7)
		for _, b := range buckets {
			assert.Zero(t, b.Total)
			assert.Zero(t, b.PhishingCount)
			assert.Zero(t, b.SafeCount)
		}
	})

	t.Run("bucket invariant total == phishing + safe", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now, domain.ModeEmail, domain.VerdictPhishing, 95),
			event(now, domain.ModeURL, domain.VerdictSafe, 10),
			event(now.Add(-24*time.Hour), domain.ModeHybrid, domain.VerdictSafe, 20),
		}

		buckets, err := BucketByDay(events, now, 30, time.UTC)
		require.NoError(t, err)

		windowTotal := 0
		for _, b := range buckets {
			assert.Equal(t, b.Total, b.PhishingCount+b.SafeCount)
			assert.GreaterOrEqual(t, b.Total, 0)
			windowTotal += b.Total
		}
		assert.Equal(t, len(events), windowTotal)
	})

	t.Run("events outside the window are ignored", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now.AddDate(0, 0, -40), domain.ModeEmail, domain.VerdictSafe, 10),
			event(now.AddDate(0, 0, 1), domain.ModeEmail, domain.VerdictSafe, 10),
			event(now, domain.ModeEmail, domain.VerdictSafe, 10),
		}

		buckets, err := BucketByDay(events, now, 30, time.UTC)
		require.NoError(t, err)

		windowTotal := 0
		for _, b := range buckets {
			windowTotal += b.Total
		}
		assert.Equal(t, 1, windowTotal)
	})

	t.Run("day boundary follows the injected timezone", func(t *testing.T) {
		kiev := time.FixedZone("EET", 2*60*60)
		// 23:30 UTC 9-го января — это уже 10-е января по EET
		events := []domain.DetectionEvent{
			event(time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC), domain.ModeURL, domain.VerdictSafe, 50),
		}

		buckets, err := BucketByDay(events, now, 3, kiev)
		require.NoError(t, err)
		assert.Equal(t, 1, buckets[2].Total)
		assert.Equal(t, 0, buckets[1].Total)
	})

	t.Run("non-positive window fails with InvalidArgument", func(t *testing.T) {
		for _, days := range []int{0, -5} {
			_, err := BucketByDay(nil, now, days, time.UTC)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		}
	})

	t.Run("nil timezone fails with InvalidArgument", func(t *testing.T) {
		_, err := BucketByDay(nil, now, 3, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("unknown verdict fails the whole aggregation", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now, domain.ModeEmail, domain.Verdict("suspicious"), 50),
		}
		buckets, err := BucketByDay(events, now, 3, time.UTC)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Nil(t, buckets)
	})
}

func TestBreakdownByMode(t *testing.T) {
	now := time.Now()

	t.Run("counts per mode", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now, domain.ModeEmail, domain.VerdictSafe, 10),
			event(now, domain.ModeURL, domain.VerdictSafe, 10),
			event(now, domain.ModeEmail, domain.VerdictPhishing, 90),
		}

		b, err := BreakdownByMode(events)
		require.NoError(t, err)
		assert.Equal(t, domain.ModeBreakdown{Email: 2, URL: 1, Hybrid: 0}, b)
		assert.Equal(t, len(events), b.Total())
	})

	t.Run("unknown mode fails with InvalidArgument", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now, domain.AnalysisMode("sms"), domain.VerdictSafe, 10),
		}
		_, err := BreakdownByMode(events)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	})
}

func TestBreakdownByVerdict(t *testing.T) {
	now := time.Now()
	events := []domain.DetectionEvent{
		event(now, domain.ModeEmail, domain.VerdictPhishing, 95),
		event(now, domain.ModeURL, domain.VerdictSafe, 15),
		event(now, domain.ModeHybrid, domain.VerdictPhishing, 80),
	}

	b, err := BreakdownByVerdict(events)
	require.NoError(t, err)
	assert.Equal(t, 2, b.PhishingCount)
	assert.Equal(t, 1, b.SafeCount)
}

func TestHistogramByConfidence(t *testing.T) {
	now := time.Now()

	t.Run("bucket counts sum to event count", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now, domain.ModeEmail, domain.VerdictSafe, 0),
			event(now, domain.ModeEmail, domain.VerdictSafe, 19.9),
			event(now, domain.ModeEmail, domain.VerdictSafe, 20),
			event(now, domain.ModeEmail, domain.VerdictPhishing, 55),
			event(now, domain.ModeEmail, domain.VerdictPhishing, 79.99),
			event(now, domain.ModeEmail, domain.VerdictPhishing, 80),
		}

		hist, err := HistogramByConfidence(events, DefaultBucketWidth)
		require.NoError(t, err)
		require.Len(t, hist, 5)

		sum := 0
		for _, b := range hist {
			sum += b.Count
		}
		assert.Equal(t, len(events), sum)

		assert.Equal(t, 2, hist[0].Count) // [0,20): 0 и 19.9
		assert.Equal(t, 1, hist[1].Count) // [20,40): 20
		assert.Equal(t, 1, hist[2].Count) // [40,60): 55
		assert.Equal(t, 1, hist[3].Count) // [60,80): 79.99
		assert.Equal(t, 1, hist[4].Count) // [80,100]: 80
	})

	t.Run("labels partition the domain", func(t *testing.T) {
		hist, err := HistogramByConfidence(nil, 20)
		require.NoError(t, err)

		labels := make([]string, len(hist))
		for i, b := range hist {
			labels[i] = b.RangeLabel
		}
		assert.Equal(t, []string{"0-20", "20-40", "40-60", "60-80", "80-100"}, labels)
	})

	t.Run("confidence 100 lands in the last bucket", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now, domain.ModeURL, domain.VerdictPhishing, 100),
		}

		hist, err := HistogramByConfidence(events, 20)
		require.NoError(t, err)
		assert.Equal(t, 1, hist[4].Count)
	})

	t.Run("out of range confidence fails with InvalidArgument", func(t *testing.T) {
		for _, conf := range []float64{-0.1, 100.1} {
			events := []domain.DetectionEvent{
				event(now, domain.ModeURL, domain.VerdictSafe, conf),
			}
			_, err := HistogramByConfidence(events, 20)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		}
	})

	t.Run("non-positive width fails with InvalidArgument", func(t *testing.T) {
		_, err := HistogramByConfidence(nil, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestActivityHeatmap(t *testing.T) {
	t.Run("empty input degenerates to 168 zero cells", func(t *testing.T) {
		cells, err := ActivityHeatmap(nil, time.UTC)
		require.NoError(t, err)
		require.Len(t, cells, domain.HeatmapCells)
		for _, c := range cells {
			assert.Zero(t, c.ActivityLevel)
		}
	})

	t.Run("cells are ordered by (day, hour)", func(t *testing.T) {
		cells, err := ActivityHeatmap(nil, time.UTC)
		require.NoError(t, err)
		for i, c := range cells {
			assert.Equal(t, i/24, c.DayOfWeek)
			assert.Equal(t, i%24, c.HourOfDay)
		}
	})

	t.Run("events land in their (day, hour) slot", func(t *testing.T) {
		// 2024-01-10 — среда (Weekday == 3)
		ts := time.Date(2024, 1, 10, 14, 5, 0, 0, time.UTC)
		events := []domain.DetectionEvent{
			event(ts, domain.ModeEmail, domain.VerdictPhishing, 90),
			event(ts.Add(10*time.Minute), domain.ModeURL, domain.VerdictSafe, 10),
		}

		cells, err := ActivityHeatmap(events, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, 2, cells[3*24+14].ActivityLevel)
	})

	t.Run("nil timezone fails with InvalidArgument", func(t *testing.T) {
		_, err := ActivityHeatmap(nil, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestPercentageOf(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		total    int
		expected string
	}{
		{"zero total guards divide by zero", 5, 0, "0%"},
		{"zero count", 0, 10, "0.0%"},
		{"one decimal place", 1, 3, "33.3%"},
		{"full share", 10, 10, "100.0%"},
		{"eighth", 1, 8, "12.5%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PercentageOf(tt.count, tt.total))
		})
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	cfg := Config{WindowDays: 7, BucketWidth: 20, Location: time.UTC}

	t.Run("full structure for valid input", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now, domain.ModeEmail, domain.VerdictPhishing, 95),
			event(now.Add(-48*time.Hour), domain.ModeURL, domain.VerdictSafe, 12),
			event(now.Add(-2*time.Hour), domain.ModeHybrid, domain.VerdictSafe, 40),
		}

		s, err := Summarize(events, now, cfg)
		require.NoError(t, err)

		assert.Equal(t, 3, s.TotalDetections)
		assert.Len(t, s.Timeline, 7)
		assert.Len(t, s.Heatmap, domain.HeatmapCells)
		assert.Equal(t, domain.ModeBreakdown{Email: 1, URL: 1, Hybrid: 1}, s.Modes)
		assert.Equal(t, "33.3%", s.PhishingShare)
		assert.Equal(t, "66.7%", s.SafeShare)
		assert.False(t, s.Sampled)
	})

	t.Run("no partial results on malformed record", func(t *testing.T) {
		events := []domain.DetectionEvent{
			event(now, domain.ModeEmail, domain.VerdictPhishing, 95),
			event(now, domain.AnalysisMode("sms"), domain.VerdictSafe, 10),
		}

		s, err := Summarize(events, now, cfg)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Nil(t, s)
	})

	t.Run("empty history yields zeroed summary", func(t *testing.T) {
		s, err := Summarize(nil, now, cfg)
		require.NoError(t, err)
		assert.Zero(t, s.TotalDetections)
		assert.Equal(t, "0%", s.PhishingShare)
		assert.Equal(t, "0%", s.SafeShare)
	})
}
