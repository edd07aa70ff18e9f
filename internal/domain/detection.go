package domain

import "time"

// EmailMeta — мета-признаки текста письма, на которых работает детектор.
type EmailMeta struct {
	Length     int     `json:"length"`
	DigitRatio float64 `json:"digit_ratio"`
	UpperRatio float64 `json:"upper_ratio"`
	NumExclam  int     `json:"num_exclam"`
	NumURLs    int     `json:"num_urls"`
	NumUrgent  int     `json:"num_urgent_terms"`
}

// URLFinding — вердикт по одной ссылке, извлеченной из текста.
type URLFinding struct {
	URL        string  `json:"url"`
	Label      string  `json:"label"`
	Verdict    Verdict `json:"verdict"`
	Confidence float64 `json:"confidence"` // [0,100]
}

// DetectionResult — итог одного анализа. Для hybrid заполняются ветки.
type DetectionResult struct {
	Label        string       `json:"label"`
	Verdict      Verdict      `json:"verdict"`
	Confidence   float64      `json:"confidence"` // [0,100]
	Explanations []string     `json:"explanations,omitempty"`
	Meta         *EmailMeta   `json:"meta,omitempty"`
	URLFindings  []URLFinding `json:"url_findings,omitempty"`
}

// DetectionRecord — персистентная запись детекции. После записи неизменяема.
type DetectionRecord struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Mode      AnalysisMode    `json:"mode"`
	Input     string          `json:"input"`
	URLInput  string          `json:"url_input,omitempty"`
	Result    DetectionResult `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// Event проецирует запись в событие для агрегационного ядра.
func (r DetectionRecord) Event() DetectionEvent {
	return DetectionEvent{
		Timestamp:  r.CreatedAt,
		Mode:       r.Mode,
		Verdict:    r.Result.Verdict,
		Confidence: r.Result.Confidence,
	}
}

// Feedback — оценка пользователем корректности вердикта.
type Feedback struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DetectionID string    `json:"detection_id"`
	Type        string    `json:"type"` // "correct" или "incorrect"
	Comments    string    `json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactMessage — обращение через форму контакта.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"` // new, pending, resolved
	CreatedAt time.Time `json:"created_at"`
}
