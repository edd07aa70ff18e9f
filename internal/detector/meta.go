package detector

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/m0rozov/phishsight/internal/domain"
)

var urlPattern = regexp.MustCompile(`(?i)\b((?:https?://|www\.)[^\s<>"')\]]+)`)

// ExtractEmailMeta считает мета-признаки текста письма: длину, долю цифр
// и капса, восклицательные знаки, ссылки и срочные фразы из каталога.
func ExtractEmailMeta(text string, urgentPhrases []string) domain.EmailMeta {
	length := len(text)
	digits, uppers, exclam := 0, 0, 0
	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsUpper(r):
			uppers++
		case r == '!':
			exclam++
		}
	}

	denom := length
	if denom < 1 {
		denom = 1
	}

	lower := strings.ToLower(text)
	urgent := 0
	for _, p := range urgentPhrases {
		if p != "" && strings.Contains(lower, p) {
			urgent++
		}
	}

	return domain.EmailMeta{
		Length:     length,
		DigitRatio: float64(digits) / float64(denom),
		UpperRatio: float64(uppers) / float64(denom),
		NumExclam:  exclam,
		NumURLs:    len(urlPattern.FindAllString(text, -1)),
		NumUrgent:  urgent,
	}
}

// ExtractURLs вытаскивает ссылки из текста и нормализует схему:
// "www.x" превращается в "http://www.x".
func ExtractURLs(text string) []string {
	hits := urlPattern.FindAllString(text, -1)
	out := make([]string, 0, len(hits))
	for _, u := range hits {
		lu := strings.ToLower(u)
		if !strings.HasPrefix(lu, "http://") && !strings.HasPrefix(lu, "https://") {
			u = "http://" + u
		}
		out = append(out, u)
	}
	return out
}
