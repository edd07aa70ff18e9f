package domain

import "time"

// Производные сущности аналитики. Все пересчитываются по требованию из
// коллекции DetectionEvent и никогда не персистятся.

// DailyBucket — агрегат за один календарный день окна.
// Инвариант: Total == PhishingCount + SafeCount, Total >= 0.
type DailyBucket struct {
	Date          time.Time `json:"date"`
	Total         int       `json:"total"`
	PhishingCount int       `json:"phishing_count"`
	SafeCount     int       `json:"safe_count"`
}

// ModeBreakdown — распределение событий по режимам анализа.
// Сумма полей равна количеству событий в группе.
type ModeBreakdown struct {
	Email  int `json:"email"`
	URL    int `json:"url"`
	Hybrid int `json:"hybrid"`
}

func (m ModeBreakdown) Total() int { return m.Email + m.URL + m.Hybrid }

// VerdictBreakdown — phishing против safe.
type VerdictBreakdown struct {
	PhishingCount int `json:"phishing_count"`
	SafeCount     int `json:"safe_count"`
}

// ConfidenceBucket — одна корзина гистограммы уверенности.
// Границы корзин разбивают [0,100] без дыр и пересечений; верхняя граница
// последней корзины закрыта (confidence == 100 попадает в нее).
type ConfidenceBucket struct {
	RangeLabel string `json:"range_label"` // например "80-100"
	Count      int    `json:"count"`
}

// ConfidenceHistogram — упорядоченная последовательность корзин.
type ConfidenceHistogram []ConfidenceBucket

// ActivityCell — одна ячейка тепловой карты (день недели x час).
// Полная карта — ровно 168 ячеек, упорядоченных по (day, hour).
type ActivityCell struct {
	DayOfWeek     int `json:"day_of_week"` // 0 = воскресенье, как time.Weekday
	HourOfDay     int `json:"hour_of_day"` // 0..23
	ActivityLevel int `json:"activity_level"`
}

// HeatmapCells — число ячеек недельной карты активности.
const HeatmapCells = 7 * 24

// AnalyticsSummary — полный набор агрегатов, отдаваемый консоли за один
// запрос. Либо заполнен целиком, либо не возвращается вовсе.
type AnalyticsSummary struct {
	TotalDetections int                 `json:"total_detections"`
	Timeline        []DailyBucket       `json:"timeline"`
	Modes           ModeBreakdown       `json:"modes"`
	Verdicts        VerdictBreakdown    `json:"verdicts"`
	Confidence      ConfidenceHistogram `json:"confidence"`
	Heatmap         []ActivityCell      `json:"heatmap"`
	PhishingShare   string              `json:"phishing_share"` // "12.5%"
	SafeShare       string              `json:"safe_share"`
	Sampled         bool                `json:"sampled"` // true только при явном opt-in фолбэке
}
