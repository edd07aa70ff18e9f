// Package analytics — агрегационное ядро дашборда: чистые функции,
// превращающие плоский список DetectionEvent в производные ряды для
// графиков. Никакого I/O, входные срезы не мутируются, "сейчас" и
// таймзона всегда передаются параметрами — иначе день-бакеты зависят
// от машины, на которой крутится процесс.
package analytics

import (
	"fmt"
	"time"

	"github.com/m0rozov/phishsight/internal/domain"
)

// Config — параметры агрегации. Zero value непригоден: таймзона должна
// быть задана явно.
type Config struct {
	WindowDays  int
	BucketWidth int
	Location    *time.Location
}

const (
	DefaultWindowDays  = 30
	DefaultBucketWidth = 20
)

// BucketByDay раскладывает события по календарным дням. Возвращает ровно
// windowDays бакетов, покрывающих последние windowDays дней по loc,
// заканчивая днем now, старые впереди. Дни без событий дают нулевой
// бакет — пустота никогда не подменяется синтетикой.
func BucketByDay(events []domain.DetectionEvent, now time.Time, windowDays int, loc *time.Location) ([]domain.DailyBucket, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: windowDays must be positive, got %d", domain.ErrInvalidArgument, windowDays)
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: timezone is required", domain.ErrInvalidArgument)
	}

	// Стартовый день окна и индекс дат
	localNow := now.In(loc)
	start := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -(windowDays - 1))

	buckets := make([]domain.DailyBucket, windowDays)
	index := make(map[string]int, windowDays)
	for i := range buckets {
		day := start.AddDate(0, 0, i)
		buckets[i] = domain.DailyBucket{Date: day}
		index[day.Format("2006-01-02")] = i
	}

	for _, e := range events {
		if _, err := domain.ParseVerdict(string(e.Verdict)); err != nil {
			return nil, err
		}
		key := e.Timestamp.In(loc).Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			continue // событие вне окна
		}
		buckets[i].Total++
		if e.Verdict == domain.VerdictPhishing {
			buckets[i].PhishingCount++
		} else {
			buckets[i].SafeCount++
		}
	}

	return buckets, nil
}

// BreakdownByMode группирует события по режиму анализа. Неизвестный режим —
// это битая запись: возвращаем ошибку, а не выкидываем молча.
func BreakdownByMode(events []domain.DetectionEvent) (domain.ModeBreakdown, error) {
	var b domain.ModeBreakdown
	for _, e := range events {
		switch e.Mode {
		case domain.ModeEmail:
			b.Email++
		case domain.ModeURL:
			b.URL++
		case domain.ModeHybrid:
			b.Hybrid++
		default:
			return domain.ModeBreakdown{}, fmt.Errorf("%w: unknown analysis mode %q", domain.ErrInvalidArgument, e.Mode)
		}
	}
	return b, nil
}

// BreakdownByVerdict считает phishing против safe.
func BreakdownByVerdict(events []domain.DetectionEvent) (domain.VerdictBreakdown, error) {
	var b domain.VerdictBreakdown
	for _, e := range events {
		switch e.Verdict {
		case domain.VerdictPhishing:
			b.PhishingCount++
		case domain.VerdictSafe:
			b.SafeCount++
		default:
			return domain.VerdictBreakdown{}, fmt.Errorf("%w: unknown verdict %q", domain.ErrInvalidArgument, e.Verdict)
		}
	}
	return b, nil
}

// HistogramByConfidence раскладывает события по корзинам уверенности
// фиксированной ширины. Индекс — floor(confidence / width); верхняя
// граница последней корзины закрыта, поэтому confidence == 100 попадает
// в нее, а не в несуществующую следующую.
func HistogramByConfidence(events []domain.DetectionEvent, bucketWidth int) (domain.ConfidenceHistogram, error) {
	if bucketWidth <= 0 {
		return nil, fmt.Errorf("%w: bucketWidth must be positive, got %d", domain.ErrInvalidArgument, bucketWidth)
	}

	n := (100 + bucketWidth - 1) / bucketWidth
	hist := make(domain.ConfidenceHistogram, n)
	for i := 0; i < n; i++ {
		lo := i * bucketWidth
		hi := (i + 1) * bucketWidth
		if hi > 100 {
			hi = 100
		}
		hist[i].RangeLabel = fmt.Sprintf("%d-%d", lo, hi)
	}

	for _, e := range events {
		if e.Confidence < 0 || e.Confidence > 100 {
			return nil, fmt.Errorf("%w: confidence %.2f out of [0,100]", domain.ErrInvalidArgument, e.Confidence)
		}
		i := int(e.Confidence) / bucketWidth
		if i >= n {
			i = n - 1
		}
		hist[i].Count++
	}

	return hist, nil
}

// ActivityHeatmap строит недельную карту активности: ровно 168 ячеек,
// упорядоченных по (день недели, час). Пустой вход дает все нули.
// День и час берутся из таймштампа в loc — единая политика таймзоны,
// а не локальные настройки машины.
func ActivityHeatmap(events []domain.DetectionEvent, loc *time.Location) ([]domain.ActivityCell, error) {
	if loc == nil {
		return nil, fmt.Errorf("%w: timezone is required", domain.ErrInvalidArgument)
	}

	cells := make([]domain.ActivityCell, domain.HeatmapCells)
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			cells[d*24+h] = domain.ActivityCell{DayOfWeek: d, HourOfDay: h}
		}
	}

	for _, e := range events {
		t := e.Timestamp.In(loc)
		cells[int(t.Weekday())*24+t.Hour()].ActivityLevel++
	}

	return cells, nil
}

// PercentageOf форматирует долю с одним знаком после запятой.
// При нулевом знаменателе возвращает "0%" — деление на ноль здесь
// штатная ситуация (пустая история), а не ошибка.
func PercentageOf(count, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}

// Summarize собирает полный набор агрегатов за один проход по контракту
// "все или ничего": любая битая запись отменяет весь результат.
func Summarize(events []domain.DetectionEvent, now time.Time, cfg Config) (*domain.AnalyticsSummary, error) {
	timeline, err := BucketByDay(events, now, cfg.WindowDays, cfg.Location)
	if err != nil {
		return nil, err
	}
	modes, err := BreakdownByMode(events)
	if err != nil {
		return nil, err
	}
	verdicts, err := BreakdownByVerdict(events)
	if err != nil {
		return nil, err
	}
	hist, err := HistogramByConfidence(events, cfg.BucketWidth)
	if err != nil {
		return nil, err
	}
	heatmap, err := ActivityHeatmap(events, cfg.Location)
	if err != nil {
		return nil, err
	}

	total := len(events)
	return &domain.AnalyticsSummary{
		TotalDetections: total,
		Timeline:        timeline,
		Modes:           modes,
		Verdicts:        verdicts,
		Confidence:      hist,
		Heatmap:         heatmap,
		PhishingShare:   PercentageOf(verdicts.PhishingCount, total),
		SafeShare:       PercentageOf(verdicts.SafeCount, total),
	}, nil
}
