package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument — единственный класс ошибок агрегационного ядра.
// Битая запись (неизвестный mode/verdict, confidence вне [0,100]) — это
// ошибка данных, а не повод молча выкинуть событие.
var ErrInvalidArgument = errors.New("invalid argument")

// AnalysisMode — режим анализа, в котором был получен вердикт.
type AnalysisMode string

const (
	ModeEmail  AnalysisMode = "email"
	ModeURL    AnalysisMode = "url"
	ModeHybrid AnalysisMode = "hybrid"
)

// ParseAnalysisMode валидирует сырую строку из внешнего источника.
func ParseAnalysisMode(s string) (AnalysisMode, error) {
	switch AnalysisMode(s) {
	case ModeEmail, ModeURL, ModeHybrid:
		return AnalysisMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown analysis mode %q", ErrInvalidArgument, s)
}

// Verdict — бинарный итог классификации.
type Verdict string

const (
	VerdictPhishing Verdict = "phishing"
	VerdictSafe     Verdict = "safe"
)

func ParseVerdict(s string) (Verdict, error) {
	switch Verdict(s) {
	case VerdictPhishing, VerdictSafe:
		return Verdict(s), nil
	}
	return "", fmt.Errorf("%w: unknown verdict %q", ErrInvalidArgument, s)
}

// DetectionEvent — одно оцененное событие детекции. Создается детектором,
// для аналитического слоя — неизменяемый снимок.
type DetectionEvent struct {
	Timestamp  time.Time    `json:"timestamp"`
	Mode       AnalysisMode `json:"mode"`
	Verdict    Verdict      `json:"verdict"`
	Confidence float64      `json:"confidence"` // шкала [0,100]
}

// Validate проверяет событие целиком. Агрегатор зовет это перед счетом,
// чтобы не возвращать частично заполненные структуры.
func (e DetectionEvent) Validate() error {
	if _, err := ParseAnalysisMode(string(e.Mode)); err != nil {
		return err
	}
	if _, err := ParseVerdict(string(e.Verdict)); err != nil {
		return err
	}
	if e.Confidence < 0 || e.Confidence > 100 {
		return fmt.Errorf("%w: confidence %.2f out of [0,100]", ErrInvalidArgument, e.Confidence)
	}
	return nil
}
