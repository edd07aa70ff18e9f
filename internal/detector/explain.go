package detector

import (
	"fmt"

	"github.com/m0rozov/phishsight/internal/domain"
)

// explainEmail собирает человекочитаемые причины вердикта по письму.
func explainEmail(res domain.DetectionResult, meta domain.EmailMeta, phraseHits []string) []string {
	var out []string

	for _, p := range phraseHits {
		out = append(out, fmt.Sprintf("contains known phishing phrase %q", p))
	}

	if meta.DigitRatio > digitRatioThreshold {
		out = append(out, fmt.Sprintf("unusually high digit ratio (%.0f%%)", meta.DigitRatio*100))
	}
	if meta.UpperRatio > upperRatioThreshold {
		out = append(out, fmt.Sprintf("excessive uppercase usage (%.0f%%)", meta.UpperRatio*100))
	}
	if meta.NumExclam > exclamThreshold {
		out = append(out, fmt.Sprintf("%d exclamation marks", meta.NumExclam))
	}
	if meta.NumURLs > urlCountThreshold {
		out = append(out, fmt.Sprintf("%d links embedded in the message", meta.NumURLs))
	}
	if meta.NumUrgent > 0 {
		out = append(out, fmt.Sprintf("%d urgency markers in the text", meta.NumUrgent))
	}

	if len(out) == 0 && res.Verdict == domain.VerdictSafe {
		out = append(out, "no known phishing indicators found")
	}
	return out
}

// explainURL объясняет итог по ссылкам одной-двумя строками на находку.
func explainURL(res domain.DetectionResult, findings []domain.URLFinding) []string {
	var out []string
	for _, f := range findings {
		if f.Verdict == domain.VerdictPhishing {
			out = append(out, fmt.Sprintf("suspicious link structure: %s", f.URL))
		}
	}
	if len(out) == 0 && len(findings) > 0 && res.Verdict == domain.VerdictSafe {
		out = append(out, "no suspicious links detected")
	}
	return out
}
