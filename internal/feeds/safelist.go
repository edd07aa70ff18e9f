// Package feeds — каталоги правил детектора: доверенные домены, фразы
// фишинга, маркеры срочности. Источники: встроенные значения, локальный
// JSON и периодический удаленный фид.
package feeds

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Payload — формат каталога на диске и в удаленном фиде.
type Payload struct {
	TrustedDomains []string `json:"trusted_domains"`
	UnsafePhrases  []string `json:"unsafe_phrases"`
	UrgentPhrases  []string `json:"urgent_phrases"`
}

// Safelist — потокобезопасный каталог. Чтения дешевые, обновления
// редкие (загрузка файла или приход фида).
type Safelist struct {
	mu      sync.RWMutex
	trusted map[string]struct{}
	phrases []string
	urgent  []string
}

// NewSafelist возвращает каталог со встроенными значениями по умолчанию.
func NewSafelist() *Safelist {
	s := &Safelist{}
	s.Replace(defaultPayload())
	return s
}

func defaultPayload() Payload {
	return Payload{
		TrustedDomains: []string{
			"google.com", "github.com", "microsoft.com", "apple.com",
			"amazon.com", "wikipedia.org",
		},
		UnsafePhrases: []string{
			"verify your account", "account suspended", "confirm your password",
			"unusual sign-in activity", "claim your prize", "update payment details",
		},
		UrgentPhrases: []string{
			"urgent", "immediately", "act now", "within 24 hours", "final notice",
		},
	}
}

// Replace атомарно подменяет содержимое каталога. Пустой раздел
// payload не трогает соответствующий раздел каталога.
func (s *Safelist) Replace(p Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(p.TrustedDomains) > 0 {
		trusted := make(map[string]struct{}, len(p.TrustedDomains))
		for _, d := range p.TrustedDomains {
			d = strings.ToLower(strings.TrimSpace(d))
			if d != "" {
				trusted[d] = struct{}{}
			}
		}
		s.trusted = trusted
	}
	if len(p.UnsafePhrases) > 0 {
		s.phrases = append([]string(nil), p.UnsafePhrases...)
	}
	if len(p.UrgentPhrases) > 0 {
		s.urgent = append([]string(nil), p.UrgentPhrases...)
	}
}

// LoadFile подгружает каталог из локального JSON-файла.
func (s *Safelist) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read safelist file: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("parse safelist file %s: %w", path, err)
	}
	s.Replace(p)
	return nil
}

// IsTrustedDomain: точное совпадение или поддомен доверенного домена.
func (s *Safelist) IsTrustedDomain(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.trusted[host]; ok {
		return true
	}
	for d := range s.trusted {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func (s *Safelist) UnsafePhrases() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.phrases...)
}

func (s *Safelist) UrgentPhrases() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.urgent...)
}
