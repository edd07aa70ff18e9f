package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/m0rozov/phishsight/internal/domain"
)

// DashboardSource — то, что умеет собрать аналитику (обычно AnalyticsService).
type DashboardSource interface {
	Dashboard(ctx context.Context, username string) (*DashboardPayload, error)
}

// ReportService генерирует PDF-выгрузку дашборда.
type ReportService struct {
	source DashboardSource
	logger *zap.Logger
}

func NewReportService(source DashboardSource, logger *zap.Logger) *ReportService {
	return &ReportService{source: source, logger: logger.Named("report-service")}
}

// GeneratePDF собирает сводку и верстает одностраничный отчет.
func (s *ReportService) GeneratePDF(ctx context.Context, username string) (*bytes.Buffer, error) {
	payload, err := s.source.Dashboard(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	sum := payload.Summary

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(15, 98, 254)
	pdf.Cell(0, 10, "Phishing Detection Analytics Report")
	pdf.Ln(12)

	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(10, 22, 190, 30, "F")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(0, 0, 0)

	scope := username
	if scope == "" {
		scope = "all users"
	}
	pdf.SetXY(12, 25)
	pdf.Cell(0, 10, fmt.Sprintf("Scope: %s", scope))
	pdf.SetXY(120, 25)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", payload.GeneratedAt.Format("2006-01-02 15:04")))

	pdf.SetXY(12, 33)
	pdf.Cell(0, 10, fmt.Sprintf("Total detections: %d", sum.TotalDetections))
	pdf.SetXY(120, 33)
	pdf.SetFont("Arial", "B", 12)
	if sum.Verdicts.PhishingCount > sum.Verdicts.SafeCount {
		pdf.SetTextColor(250, 77, 86)
	} else {
		pdf.SetTextColor(66, 190, 101)
	}
	pdf.Cell(0, 10, fmt.Sprintf("Phishing: %s / Safe: %s", sum.PhishingShare, sum.SafeShare))

	pdf.Ln(20)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Detections by mode:")
	pdf.Ln(8)

	pdf.SetFont("Courier", "", 10)
	for _, row := range []struct {
		name  string
		count int
	}{
		{"Email", sum.Modes.Email},
		{"URL", sum.Modes.URL},
		{"Hybrid", sum.Modes.Hybrid},
	} {
		pdf.CellFormat(0, 8, fmt.Sprintf(" > %-8s %d", row.name, row.count), "0", 1, "", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Confidence distribution:")
	pdf.Ln(8)

	pdf.SetFont("Courier", "", 10)
	for _, b := range sum.Confidence {
		pdf.CellFormat(0, 8, fmt.Sprintf(" > %-8s %d", b.RangeLabel+"%", b.Count), "0", 1, "", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Daily activity:")
	pdf.Ln(8)

	pdf.SetFont("Courier", "", 9)
	for _, b := range lastBuckets(sum.Timeline, 14) {
		pdf.CellFormat(0, 6,
			fmt.Sprintf(" %s  total=%-4d phishing=%-4d safe=%d",
				b.Date.Format("2006-01-02"), b.Total, b.PhishingCount, b.SafeCount),
			"0", 1, "", false, 0, "")
	}

	if sum.Sampled {
		pdf.Ln(5)
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(120, 120, 120)
		pdf.Cell(0, 10, "Synthetic sample dataset: no real detections in the reporting window.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}

	s.logger.Info("pdf report generated",
		zap.String("scope", scope),
		zap.Int("bytes", buf.Len()),
		zap.Time("generated_at", payload.GeneratedAt))
	return &buf, nil
}

func lastBuckets(buckets []domain.DailyBucket, n int) []domain.DailyBucket {
	if len(buckets) <= n {
		return buckets
	}
	return buckets[len(buckets)-n:]
}

// FileName — имя файла выгрузки для Content-Disposition.
func (s *ReportService) FileName(username string, at time.Time) string {
	scope := username
	if scope == "" {
		scope = "all"
	}
	return fmt.Sprintf("phishsight-report-%s-%s.pdf", scope, at.Format("20060102"))
}
