package handler

import (
	"net/http"
	"strconv"

	"github.com/m0rozov/phishsight/internal/console/service"
	"github.com/m0rozov/phishsight/internal/infra/auth"
)

type HistoryHandler struct {
	service *service.DetectionService
}

func NewHistoryHandler(s *service.DetectionService) *HistoryHandler {
	return &HistoryHandler{service: s}
}

func limitParam(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return n
}

// List — GET /api/v1/history. История текущего пользователя.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())

	recs, err := h.service.History(r.Context(), username, limitParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

// ListAll — GET /api/v1/admin/history. Обзор по всем пользователям.
func (h *HistoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.AllHistory(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}
