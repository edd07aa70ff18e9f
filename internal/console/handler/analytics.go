package handler

import (
	"net/http"

	"github.com/m0rozov/phishsight/internal/console/service"
	"github.com/m0rozov/phishsight/internal/infra/auth"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(s *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: s}
}

// Dashboard — GET /api/v1/analytics. Сводка и конфиги графиков по
// детекциям текущего пользователя.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	username := auth.UsernameFromContext(r.Context())

	payload, err := h.service.Dashboard(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// AdminDashboard — GET /api/v1/admin/analytics. Сводка по всем
// пользователям, доступ закрыт scope-миддлварью.
func (h *AnalyticsHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.Dashboard(r.Context(), "")
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}
