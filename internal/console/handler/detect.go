package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m0rozov/phishsight/internal/console/service"
	"github.com/m0rozov/phishsight/internal/domain"
	"github.com/m0rozov/phishsight/internal/infra/auth"
)

type DetectHandler struct {
	service *service.DetectionService
}

func NewDetectHandler(s *service.DetectionService) *DetectHandler {
	return &DetectHandler{service: s}
}

type detectRequest struct {
	Mode     string `json:"mode"`
	Text     string `json:"text"`
	URLInput string `json:"url_input"`
}

// Detect — POST /api/v1/detect. Имя пользователя берем из токена.
func (h *DetectHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	mode, err := domain.ParseAnalysisMode(req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}

	username := auth.UsernameFromContext(r.Context())
	rec, err := h.service.Detect(r.Context(), username, mode, req.Text, req.URLInput)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Get — GET /api/v1/detections/{id}. Обычный пользователь видит только свое.
func (h *DetectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	username := auth.UsernameFromContext(r.Context())
	isAdmin := auth.ScopesFromContext(r.Context())[auth.ScopeAdmin]

	rec, err := h.service.Get(r.Context(), username, id, isAdmin)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
