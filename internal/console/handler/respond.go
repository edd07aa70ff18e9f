package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m0rozov/phishsight/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError маппит доменные ошибки на HTTP-статусы. Невалидный ввод —
// 400 с текстом причины, все остальное — 500 без деталей.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidArgument) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
