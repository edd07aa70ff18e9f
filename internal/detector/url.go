package detector

import (
	"net"
	"net/url"
	"strings"

	"github.com/m0rozov/phishsight/internal/domain"
)

// NormalizeDomain приводит хост к виду для сравнения с каталогом:
// без порта, без "www.", в нижнем регистре.
func NormalizeDomain(host string) string {
	d := strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(d); err == nil {
		d = h
	}
	return strings.TrimPrefix(d, "www.")
}

// hostOf достает хост из сырой строки URL. При битом URL возвращает
// строку как есть — дальше она просто не совпадет с каталогом.
func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return NormalizeDomain(raw)
	}
	return NormalizeDomain(parsed.Host)
}

// urlRiskScore — эвристики структуры URL. Возвращает оценку [0,1].
// Замена отсутствующей URL-модели: считаем типовые маркеры фишинга.
func urlRiskScore(raw string) float64 {
	score := 0.0
	parsed, err := url.Parse(raw)
	if err != nil {
		return 0.5
	}

	host := parsed.Hostname()

	if net.ParseIP(host) != nil {
		score += 0.35 // IP вместо домена
	}
	if strings.Count(host, ".") >= 4 {
		score += 0.2 // глубокая вложенность поддоменов
	}
	if strings.Contains(host, "xn--") {
		score += 0.25 // punycode-маскировка
	}
	if strings.ContainsAny(raw, "@") {
		score += 0.25 // userinfo-трюк
	}
	if len(raw) > 120 {
		score += 0.1
	}
	if strings.Contains(strings.ToLower(parsed.Path+parsed.RawQuery), "login") ||
		strings.Contains(strings.ToLower(parsed.Path+parsed.RawQuery), "verify") {
		score += 0.15
	}

	if score > 1 {
		score = 1
	}
	return score
}

// AnalyzeURL выносит вердикт по одной ссылке. Доверенный домен из
// каталога перекрывает эвристики.
func (e *Engine) AnalyzeURL(raw string) domain.URLFinding {
	host := hostOf(raw)

	if e.catalog.IsTrustedDomain(host) {
		return domain.URLFinding{
			URL:        raw,
			Label:      "Safe URL",
			Verdict:    domain.VerdictSafe,
			Confidence: 98,
		}
	}

	risk := urlRiskScore(raw)
	if risk >= 0.5 {
		return domain.URLFinding{
			URL:        raw,
			Label:      "Phishing URL",
			Verdict:    domain.VerdictPhishing,
			Confidence: clampConfidence(risk * 100),
		}
	}

	return domain.URLFinding{
		URL:        raw,
		Label:      "Safe URL",
		Verdict:    domain.VerdictSafe,
		Confidence: clampConfidence((1 - risk) * 100),
	}
}
