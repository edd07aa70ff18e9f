// Package detector — правиловой движок анализа писем и ссылок.
// Каталоги фраз и доверенных доменов приходят снаружи, движок сам
// никуда не ходит и потому детерминирован.
package detector

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/m0rozov/phishsight/internal/domain"
)

// Catalog — источник списков для правил: фразы-маркеры и доверенные домены.
type Catalog interface {
	UnsafePhrases() []string
	UrgentPhrases() []string
	IsTrustedDomain(host string) bool
}

// Engine инкапсулирует правила анализа. Потокобезопасен, если
// потокобезопасен каталог.
type Engine struct {
	catalog Catalog
	lg      *zap.Logger
}

func NewEngine(catalog Catalog, lg *zap.Logger) *Engine {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Engine{catalog: catalog, lg: lg}
}

// Analyze — единая точка входа. Для email анализирует text, для url —
// urlInput, для hybrid — оба и комбинирует вердикты.
func (e *Engine) Analyze(mode domain.AnalysisMode, text, urlInput string) (domain.DetectionResult, error) {
	switch mode {
	case domain.ModeEmail:
		if strings.TrimSpace(text) == "" {
			return domain.DetectionResult{}, fmt.Errorf("%w: empty email text", domain.ErrInvalidArgument)
		}
		return e.analyzeEmail(text), nil
	case domain.ModeURL:
		if strings.TrimSpace(urlInput) == "" {
			return domain.DetectionResult{}, fmt.Errorf("%w: empty url input", domain.ErrInvalidArgument)
		}
		return e.analyzeURLInput(urlInput), nil
	case domain.ModeHybrid:
		if strings.TrimSpace(text) == "" {
			return domain.DetectionResult{}, fmt.Errorf("%w: empty email text", domain.ErrInvalidArgument)
		}
		return e.analyzeHybrid(text, urlInput), nil
	default:
		return domain.DetectionResult{}, fmt.Errorf("%w: unknown analysis mode %q", domain.ErrInvalidArgument, mode)
	}
}

// analyzeURLInput разбирает явно переданный список ссылок (по одной на
// строку) и сводит вердикт: одна фишинговая ссылка портит весь набор.
func (e *Engine) analyzeURLInput(urlInput string) domain.DetectionResult {
	findings := make([]domain.URLFinding, 0, 4)
	for _, line := range strings.Split(urlInput, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		findings = append(findings, e.AnalyzeURL(line))
	}

	res := combineFindings(findings)
	res.Explanations = explainURL(res, findings)
	return res
}

// combineFindings: worst-of по вердиктам, уверенность — среднее по
// ветке итогового вердикта.
func combineFindings(findings []domain.URLFinding) domain.DetectionResult {
	if len(findings) == 0 {
		return domain.DetectionResult{Label: "Safe", Verdict: domain.VerdictSafe, Confidence: 50}
	}

	phishing := 0
	sumPhish, sumSafe := 0.0, 0.0
	for _, f := range findings {
		if f.Verdict == domain.VerdictPhishing {
			phishing++
			sumPhish += f.Confidence
		} else {
			sumSafe += f.Confidence
		}
	}

	if phishing > 0 {
		return domain.DetectionResult{
			Label:       "Phishing",
			Verdict:     domain.VerdictPhishing,
			Confidence:  clampConfidence(sumPhish / float64(phishing)),
			URLFindings: findings,
		}
	}
	return domain.DetectionResult{
		Label:       "Safe",
		Verdict:     domain.VerdictSafe,
		Confidence:  clampConfidence(sumSafe / float64(len(findings))),
		URLFindings: findings,
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
