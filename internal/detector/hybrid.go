package detector

import (
	"strings"

	"github.com/m0rozov/phishsight/internal/domain"
)

// analyzeHybrid комбинирует ветку письма и ветку ссылок. Ссылки берутся
// из отдельного поля ввода и из самого текста. Все ссылки на доверенных
// доменах перекрывают остальные сигналы: итог safe с высокой
// уверенностью. Иначе — среднее уверенностей двух веток.
func (e *Engine) analyzeHybrid(text, urlInput string) domain.DetectionResult {
	emailRes := e.analyzeEmail(text)

	urls := ExtractURLs(text)
	for _, line := range strings.Split(urlInput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}

	findings := make([]domain.URLFinding, 0, len(urls))
	allTrusted := len(urls) > 0
	for _, u := range urls {
		f := e.AnalyzeURL(u)
		findings = append(findings, f)
		if !(f.Verdict == domain.VerdictSafe && f.Confidence >= 98) {
			allTrusted = false
		}
	}

	if allTrusted {
		res := domain.DetectionResult{
			Label:       "Safe",
			Verdict:     domain.VerdictSafe,
			Confidence:  98,
			Meta:        emailRes.Meta,
			URLFindings: findings,
		}
		res.Explanations = append(res.Explanations, "all linked domains are on the trusted list")
		return res
	}

	// Уверенность ветки ссылок: фишинговая уверенность как есть,
	// safe-уверенность инвертируется в риск. Без ссылок — нейтральные 50.
	urlRisk := 50.0
	if len(findings) > 0 {
		sum := 0.0
		for _, f := range findings {
			if f.Verdict == domain.VerdictPhishing {
				sum += f.Confidence
			} else {
				sum += 100 - f.Confidence
			}
		}
		urlRisk = sum / float64(len(findings))
	}

	emailRisk := emailRes.Confidence
	if emailRes.Verdict == domain.VerdictSafe {
		emailRisk = 100 - emailRes.Confidence
	}

	risk := (emailRisk + urlRisk) / 2

	res := domain.DetectionResult{
		Meta:        emailRes.Meta,
		URLFindings: findings,
	}
	if risk >= 50 {
		res.Label = "Phishing"
		res.Verdict = domain.VerdictPhishing
		res.Confidence = clampConfidence(risk)
	} else {
		res.Label = "Safe"
		res.Verdict = domain.VerdictSafe
		res.Confidence = clampConfidence(100 - risk)
	}
	res.Explanations = append(emailRes.Explanations, explainURL(res, findings)...)
	return res
}
