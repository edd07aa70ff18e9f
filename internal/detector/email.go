package detector

import (
	"strings"

	"github.com/m0rozov/phishsight/internal/domain"
)

// Пороговые веса эвристик по мета-признакам письма.
const (
	digitRatioThreshold = 0.15
	upperRatioThreshold = 0.20
	exclamThreshold     = 3
	urlCountThreshold   = 2

	suspiciousCutoff = 0.4
)

// matchedPhrases возвращает фразы каталога, найденные в тексте
// без учета регистра.
func (e *Engine) matchedPhrases(text string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, p := range e.catalog.UnsafePhrases() {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			hits = append(hits, p)
		}
	}
	return hits
}

// suspiciousScore — сумма весов сработавших эвристик, [0,1].
func suspiciousScore(meta domain.EmailMeta) float64 {
	score := 0.0
	if meta.DigitRatio > digitRatioThreshold {
		score += 0.20
	}
	if meta.UpperRatio > upperRatioThreshold {
		score += 0.20
	}
	if meta.NumExclam > exclamThreshold {
		score += 0.15
	}
	if meta.NumURLs > urlCountThreshold {
		score += 0.25
	}
	if meta.NumUrgent > 0 {
		score += 0.20
	}
	if score > 1 {
		score = 1
	}
	return score
}

// analyzeEmail: сначала жесткие правила по фразам, затем оценка по
// мета-признакам. Фразовое срабатывание — безусловный фишинг.
func (e *Engine) analyzeEmail(text string) domain.DetectionResult {
	meta := ExtractEmailMeta(text, e.catalog.UrgentPhrases())

	if hits := e.matchedPhrases(text); len(hits) > 0 {
		conf := clampConfidence(85 + 5*float64(len(hits)))
		res := domain.DetectionResult{
			Label:      "Phishing",
			Verdict:    domain.VerdictPhishing,
			Confidence: conf,
			Meta:       &meta,
		}
		res.Explanations = explainEmail(res, meta, hits)
		return res
	}

	score := suspiciousScore(meta)
	var res domain.DetectionResult
	if score > suspiciousCutoff {
		res = domain.DetectionResult{
			Label:      "Phishing",
			Verdict:    domain.VerdictPhishing,
			Confidence: clampConfidence((0.5 + score/2) * 100),
			Meta:       &meta,
		}
	} else {
		res = domain.DetectionResult{
			Label:      "Safe",
			Verdict:    domain.VerdictSafe,
			Confidence: clampConfidence((1 - score) * 100),
			Meta:       &meta,
		}
	}
	res.Explanations = explainEmail(res, meta, nil)
	return res
}
