package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m0rozov/phishsight/internal/console/service"
	"github.com/m0rozov/phishsight/internal/infra/auth"
)

type FeedbackHandler struct {
	service *service.FeedbackService
}

func NewFeedbackHandler(s *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: s}
}

type feedbackRequest struct {
	DetectionID string `json:"detection_id"`
	Type        string `json:"type"`
	Comments    string `json:"comments"`
}

// Submit — POST /api/v1/feedback. Оценка вердикта текущим пользователем.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := auth.UsernameFromContext(r.Context())
	f, err := h.service.Submit(r.Context(), username, req.DetectionID, req.Type, req.Comments)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, f)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Contact — POST /contact. Публичная форма, токен не нужен.
func (h *FeedbackHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	m, err := h.service.SubmitContact(r.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// ListContacts — GET /api/v1/admin/contacts.
func (h *FeedbackHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.Contacts(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

type contactStatusRequest struct {
	Status string `json:"status"`
}

// SetContactStatus — POST /api/v1/admin/contacts/{id}/status.
func (h *FeedbackHandler) SetContactStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	var req contactStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := h.service.SetContactStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
