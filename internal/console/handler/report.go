package handler

import (
	"net/http"
	"time"

	"github.com/m0rozov/phishsight/internal/console/service"
	"github.com/m0rozov/phishsight/internal/infra/auth"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(s *service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Download — GET /api/v1/report. PDF-выгрузка аналитики пользователя.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, auth.UsernameFromContext(r.Context()))
}

// DownloadAll — GET /api/v1/admin/report. Сводный отчет по всем.
func (h *ReportHandler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "")
}

func (h *ReportHandler) serve(w http.ResponseWriter, r *http.Request, username string) {
	buf, err := h.service.GeneratePDF(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		"attachment; filename="+h.service.FileName(username, time.Now()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
