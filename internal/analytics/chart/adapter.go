// Package chart — чистый маппинг производных агрегатов в декларативную
// конфигурацию для внешней рисовалки. Вся презентационная логика (подписи,
// цветовые ключи, шаблоны тултипов) живет здесь, а не в агрегаторе.
package chart

import (
	"github.com/m0rozov/phishsight/internal/domain"
)

// Kind — вид графика. Один контракт на вид.
type Kind string

const (
	KindLine       Kind = "line"        // таймлайн детекций
	KindDoughnut   Kind = "doughnut"    // доли режимов
	KindPie        Kind = "pie"         // доли вердиктов
	KindStackedBar Kind = "stacked-bar" // phishing/safe по дням
	KindBar        Kind = "bar"         // гистограмма уверенности
	KindScatter    Kind = "scatter"     // тепловая карта активности
)

// Series — один именованный ряд значений с цветовым ключом.
// Ключ семантический ("danger", "success"), конкретную палитру выбирает
// рендерер.
type Series struct {
	Name     string    `json:"name"`
	Values   []float64 `json:"values"`
	ColorKey string    `json:"color_key"`
}

// Point — точка scatter-графика (используется тепловой картой).
type Point struct {
	X int     `json:"x"`
	Y int     `json:"y"`
	V float64 `json:"v"`
}

// Config — renderer-agnostic описание графика.
type Config struct {
	Kind    Kind     `json:"kind"`
	Title   string   `json:"title"`
	Labels  []string `json:"labels,omitempty"`
	Series  []Series `json:"series,omitempty"`
	Points  []Point  `json:"points,omitempty"`
	Tooltip string   `json:"tooltip"` // шаблон вида "{label}: {value}"
}

// Timeline строит линейный график общего числа детекций по дням.
func Timeline(buckets []domain.DailyBucket) Config {
	labels := make([]string, len(buckets))
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Date.Format("Jan 02")
		values[i] = float64(b.Total)
	}

	return Config{
		Kind:    KindLine,
		Title:   "Detections Timeline",
		Labels:  labels,
		Series:  []Series{{Name: "Detections", Values: values, ColorKey: "primary"}},
		Tooltip: "{label}: {value} detections",
	}
}

// DetectionRate строит stacked-bar: phishing против safe в каждом дне.
func DetectionRate(buckets []domain.DailyBucket) Config {
	labels := make([]string, len(buckets))
	phishing := make([]float64, len(buckets))
	safe := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Date.Format("Jan 02")
		phishing[i] = float64(b.PhishingCount)
		safe[i] = float64(b.SafeCount)
	}

	return Config{
		Kind:   KindStackedBar,
		Title:  "Detection Rate",
		Labels: labels,
		Series: []Series{
			{Name: "Phishing", Values: phishing, ColorKey: "danger"},
			{Name: "Safe", Values: safe, ColorKey: "success"},
		},
		Tooltip: "{label}: {value}",
	}
}

// ModeShare строит doughnut по режимам анализа.
func ModeShare(b domain.ModeBreakdown) Config {
	return Config{
		Kind:   KindDoughnut,
		Title:  "Analysis Modes",
		Labels: []string{"Email", "URL", "Hybrid"},
		Series: []Series{{
			Name:     "Detections",
			Values:   []float64{float64(b.Email), float64(b.URL), float64(b.Hybrid)},
			ColorKey: "categorical",
		}},
		Tooltip: "{label}: {value} ({percent})",
	}
}

// VerdictShare строит pie phishing/safe.
func VerdictShare(b domain.VerdictBreakdown) Config {
	return Config{
		Kind:   KindPie,
		Title:  "Verdicts",
		Labels: []string{"Phishing", "Safe"},
		Series: []Series{{
			Name:     "Verdicts",
			Values:   []float64{float64(b.PhishingCount), float64(b.SafeCount)},
			ColorKey: "verdict",
		}},
		Tooltip: "{label}: {value} ({percent})",
	}
}

// ConfidenceBars строит bar-гистограмму уверенности. Отображаемые подписи
// корзин — презентационный выбор адаптера, агрегатор их не знает.
func ConfidenceBars(h domain.ConfidenceHistogram) Config {
	labels := make([]string, len(h))
	values := make([]float64, len(h))
	for i, b := range h {
		labels[i] = b.RangeLabel + "%"
		values[i] = float64(b.Count)
	}

	return Config{
		Kind:    KindBar,
		Title:   "Confidence Distribution",
		Labels:  labels,
		Series:  []Series{{Name: "Detections", Values: values, ColorKey: "info"}},
		Tooltip: "confidence {label}: {value}",
	}
}

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Heatmap строит scatter-карту активности: x — час, y — день недели,
// размер точки — число событий.
func Heatmap(cells []domain.ActivityCell) Config {
	points := make([]Point, len(cells))
	for i, c := range cells {
		points[i] = Point{X: c.HourOfDay, Y: c.DayOfWeek, V: float64(c.ActivityLevel)}
	}

	return Config{
		Kind:    KindScatter,
		Title:   "Weekly Activity",
		Labels:  weekdayLabels,
		Points:  points,
		Tooltip: "{day} {hour}:00: {value} detections",
	}
}

// Bundle — все графики дашборда, построенные из одного summary.
type Bundle struct {
	Timeline      Config `json:"timeline"`
	DetectionRate Config `json:"detection_rate"`
	ModeShare     Config `json:"mode_share"`
	VerdictShare  Config `json:"verdict_share"`
	Confidence    Config `json:"confidence"`
	Heatmap       Config `json:"heatmap"`
}

// FromSummary собирает полный набор конфигураций для консоли.
func FromSummary(s *domain.AnalyticsSummary) Bundle {
	return Bundle{
		Timeline:      Timeline(s.Timeline),
		DetectionRate: DetectionRate(s.Timeline),
		ModeShare:     ModeShare(s.Modes),
		VerdictShare:  VerdictShare(s.Verdicts),
		Confidence:    ConfidenceBars(s.Confidence),
		Heatmap:       Heatmap(s.Heatmap),
	}
}
