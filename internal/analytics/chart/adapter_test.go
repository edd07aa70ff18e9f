package chart

import (
	"testing"
	"time"

	"github.com/m0rozov/phishsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline(t *testing.T) {
	buckets := []domain.DailyBucket{
		{Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), Total: 0},
		{Date: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), Total: 3, PhishingCount: 1, SafeCount: 2},
		{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Total: 1, SafeCount: 1},
	}

	cfg := Timeline(buckets)

	assert.Equal(t, KindLine, cfg.Kind)
	assert.Equal(t, []string{"Jan 08", "Jan 09", "Jan 10"}, cfg.Labels)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, []float64{0, 3, 1}, cfg.Series[0].Values)
	assert.Equal(t, "primary", cfg.Series[0].ColorKey)
	assert.NotEmpty(t, cfg.Tooltip)
}

func TestDetectionRate(t *testing.T) {
	buckets := []domain.DailyBucket{
		{Date: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), Total: 3, PhishingCount: 1, SafeCount: 2},
	}

	cfg := DetectionRate(buckets)

	assert.Equal(t, KindStackedBar, cfg.Kind)
	require.Len(t, cfg.Series, 2)
	assert.Equal(t, "Phishing", cfg.Series[0].Name)
	assert.Equal(t, []float64{1}, cfg.Series[0].Values)
	assert.Equal(t, "danger", cfg.Series[0].ColorKey)
	assert.Equal(t, "Safe", cfg.Series[1].Name)
	assert.Equal(t, []float64{2}, cfg.Series[1].Values)
	assert.Equal(t, "success", cfg.Series[1].ColorKey)
}

func TestModeShare(t *testing.T) {
	cfg := ModeShare(domain.ModeBreakdown{Email: 2, URL: 1, Hybrid: 0})

	assert.Equal(t, KindDoughnut, cfg.Kind)
	assert.Equal(t, []string{"Email", "URL", "Hybrid"}, cfg.Labels)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, []float64{2, 1, 0}, cfg.Series[0].Values)
}

func TestVerdictShare(t *testing.T) {
	cfg := VerdictShare(domain.VerdictBreakdown{PhishingCount: 4, SafeCount: 6})

	assert.Equal(t, KindPie, cfg.Kind)
	assert.Equal(t, []string{"Phishing", "Safe"}, cfg.Labels)
	assert.Equal(t, []float64{4, 6}, cfg.Series[0].Values)
}

func TestConfidenceBars(t *testing.T) {
	hist := domain.ConfidenceHistogram{
		{RangeLabel: "0-20", Count: 1},
		{RangeLabel: "20-40", Count: 0},
		{RangeLabel: "40-60", Count: 2},
		{RangeLabel: "60-80", Count: 0},
		{RangeLabel: "80-100", Count: 5},
	}

	cfg := ConfidenceBars(hist)

	assert.Equal(t, KindBar, cfg.Kind)
	// отображаемая подпись — забота адаптера, не агрегатора
	assert.Equal(t, []string{"0-20%", "20-40%", "40-60%", "60-80%", "80-100%"}, cfg.Labels)
	assert.Equal(t, []float64{1, 0, 2, 0, 5}, cfg.Series[0].Values)
}

func TestHeatmap(t *testing.T) {
	cells := make([]domain.ActivityCell, domain.HeatmapCells)
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			cells[d*24+h] = domain.ActivityCell{DayOfWeek: d, HourOfDay: h}
		}
	}
	cells[3*24+14].ActivityLevel = 7

	cfg := Heatmap(cells)

	assert.Equal(t, KindScatter, cfg.Kind)
	require.Len(t, cfg.Points, domain.HeatmapCells)
	assert.Equal(t, Point{X: 14, Y: 3, V: 7}, cfg.Points[3*24+14])
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, cfg.Labels)
}

func TestFromSummary(t *testing.T) {
	s := &domain.AnalyticsSummary{
		TotalDetections: 2,
		Timeline: []domain.DailyBucket{
			{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Total: 2, PhishingCount: 1, SafeCount: 1},
		},
		Modes:      domain.ModeBreakdown{Email: 1, URL: 1},
		Verdicts:   domain.VerdictBreakdown{PhishingCount: 1, SafeCount: 1},
		Confidence: domain.ConfidenceHistogram{{RangeLabel: "0-20", Count: 2}},
		Heatmap:    make([]domain.ActivityCell, domain.HeatmapCells),
	}

	b := FromSummary(s)

	assert.Equal(t, KindLine, b.Timeline.Kind)
	assert.Equal(t, KindStackedBar, b.DetectionRate.Kind)
	assert.Equal(t, KindDoughnut, b.ModeShare.Kind)
	assert.Equal(t, KindPie, b.VerdictShare.Kind)
	assert.Equal(t, KindBar, b.Confidence.Kind)
	assert.Equal(t, KindScatter, b.Heatmap.Kind)
}
