package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/export"
)

type summaryRepository interface {
	Live(ctx context.Context, filter models.SummaryFilter) ([]models.SummaryRow, error)
	FromView(ctx context.Context, filter models.SummaryFilter) ([]models.SummaryRow, error)
}

// ReportService serves the attendance summary and its file exports.
type ReportService struct {
	summaries summaryRepository
	cache     *CacheService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(summaries summaryRepository, cache *CacheService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		summaries: summaries,
		cache:     cache,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// Summary returns per-student attendance totals, optionally filtered by class
// and by a case-insensitive student name fragment.
func (s *ReportService) Summary(ctx context.Context, filter models.SummaryFilter) ([]models.SummaryRow, error) {
	key := summaryCacheKey(filter)

	if s.cache.Enabled() {
		var cached []models.SummaryRow
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("summary cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	rows, err := s.summaries.FromView(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance summary")
	}
	if rows == nil {
		rows = []models.SummaryRow{}
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, rows, 0); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}

	return rows, nil
}

// Export renders the summary in the requested file format.
func (s *ReportService) Export(ctx context.Context, filter models.SummaryFilter, format models.ReportFormat) ([]byte, error) {
	rows, err := s.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := summaryDataset(rows)

	switch format {
	case models.ReportFormatCSV:
		return s.csv.Render(dataset)
	case models.ReportFormatPDF:
		return s.pdf.Render(dataset, "Attendance Summary")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// VerifyConsistency cross-checks the reporting view against a direct
// aggregation over the base tables.
func (s *ReportService) VerifyConsistency(ctx context.Context, filter models.SummaryFilter) error {
	fromView, err := s.summaries.FromView(ctx, filter)
	if err != nil {
		return err
	}
	live, err := s.summaries.Live(ctx, filter)
	if err != nil {
		return err
	}

	if len(fromView) != len(live) {
		return fmt.Errorf("summary view has %d rows, live aggregation has %d", len(fromView), len(live))
	}
	for i := range fromView {
		if fromView[i] != live[i] {
			return fmt.Errorf("summary mismatch at row %d: view %+v, live %+v", i, fromView[i], live[i])
		}
	}
	return nil
}

func summaryCacheKey(filter models.SummaryFilter) string {
	return fmt.Sprintf("reports:summary:%d:%s", filter.ClassID, strings.ToLower(filter.StudentName))
}

func summaryDataset(rows []models.SummaryRow) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"ClassName", "StudentName", "PresentCount", "TotalCount", "AttendancePct"},
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ClassName":     row.ClassName,
			"StudentName":   row.StudentName,
			"PresentCount":  strconv.Itoa(row.PresentCount),
			"TotalCount":    strconv.Itoa(row.TotalCount),
			"AttendancePct": strconv.FormatFloat(row.AttendancePercentage, 'f', 2, 64),
		})
	}
	return dataset
}
