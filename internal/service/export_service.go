package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/astanton/gradebook/internal/report"
	appErrors "github.com/astanton/gradebook/pkg/errors"
	"github.com/astanton/gradebook/pkg/export"
)

// Supported export formats.
const (
	FormatTXT = "txt"
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type reportProvider interface {
	Details(ctx context.Context, code, semester string) (*report.CourseSummary, error)
	Summary(ctx context.Context, semester string) (*report.SummaryReport, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders report views into files on disk.
type ExportService struct {
	reports   reportProvider
	storage   exportStorage
	renderers map[string]datasetRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with the standard renderers.
func NewExportService(reports reportProvider, storage exportStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports: reports,
		storage: storage,
		renderers: map[string]datasetRenderer{
			FormatTXT: export.NewTXTExporter(),
			FormatCSV: export.NewCSVExporter(),
			FormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// ExportCourse writes the full breakdown of one course and returns the path
// of the written file.
func (s *ExportService) ExportCourse(ctx context.Context, code, semester, format string) (string, error) {
	renderer, err := s.renderer(format)
	if err != nil {
		return "", err
	}
	summary, err := s.reports.Details(ctx, code, semester)
	if err != nil {
		return "", err
	}

	dataset := buildCourseDataset(summary)
	payload, err := renderer.Render(dataset)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s.%s", sanitizeFilename(summary.Code), sanitizeFilename(summary.Semester), format)
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to write export")
	}
	s.logger.Info("course exported", zap.String("course", summary.Code), zap.String("format", format), zap.String("path", path))
	return path, nil
}

// ExportAll writes the multi-course overview, optionally limited to one
// semester, and returns the path of the written file.
func (s *ExportService) ExportAll(ctx context.Context, semester, format string) (string, error) {
	renderer, err := s.renderer(format)
	if err != nil {
		return "", err
	}
	summary, err := s.reports.Summary(ctx, semester)
	if err != nil {
		return "", err
	}

	dataset := buildSummaryDataset(summary, semester)
	payload, err := renderer.Render(dataset)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to render export")
	}

	scope := "all"
	if semester != "" {
		scope = sanitizeFilename(semester)
	}
	filename := fmt.Sprintf("summary_%s.%s", scope, format)
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to write export")
	}
	s.logger.Info("summary exported", zap.String("semester", semester), zap.String("format", format), zap.String("path", path))
	return path, nil
}

func (s *ExportService) renderer(format string) (datasetRenderer, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	return renderer, nil
}

func buildCourseDataset(summary *report.CourseSummary) export.Dataset {
	headers := []string{"Category", "Weight", "Assignment", "Max Points", "Earned Points", "Percentage", "Date"}
	rows := make([]map[string]string, 0)
	for _, cat := range summary.Categories {
		if len(cat.Assignments) == 0 {
			rows = append(rows, map[string]string{
				"Category":   cat.Name,
				"Weight":     fmt.Sprintf("%.2f", cat.Weight),
				"Percentage": formatGrade(cat.Percentage),
			})
			continue
		}
		for i, a := range cat.Assignments {
			row := map[string]string{
				"Assignment":    a.Title,
				"Max Points":    fmt.Sprintf("%g", a.MaxPoints),
				"Earned Points": fmt.Sprintf("%g", a.EarnedPoints),
				"Percentage":    fmt.Sprintf("%.1f", a.Percentage),
				"Date":          a.RecordedAt.Format("2006-01-02"),
			}
			if i == 0 {
				row["Category"] = cat.Name
				row["Weight"] = fmt.Sprintf("%.2f", cat.Weight)
			}
			rows = append(rows, row)
		}
	}
	return export.Dataset{
		Title: fmt.Sprintf("%s %s", summary.Code, summary.Title),
		Meta: []string{
			fmt.Sprintf("Semester: %s", summary.Semester),
			fmt.Sprintf("Grade: %s", formatGradeWithLetter(summary.Grade, summary.Letter)),
		},
		Headers: headers,
		Rows:    rows,
	}
}

func buildSummaryDataset(summary *report.SummaryReport, semester string) export.Dataset {
	headers := []string{"Course", "Title", "Semester", "Credits", "Assignments", "Grade", "Letter"}
	rows := make([]map[string]string, 0, len(summary.Courses))
	for _, course := range summary.Courses {
		rows = append(rows, map[string]string{
			"Course":      course.Code,
			"Title":       course.Title,
			"Semester":    course.Semester,
			"Credits":     fmt.Sprintf("%d", course.CreditHours),
			"Assignments": fmt.Sprintf("%d", course.AssignmentCount),
			"Grade":       formatGrade(course.Grade),
			"Letter":      course.Letter,
		})
	}
	title := "Course Summary"
	var meta []string
	if semester != "" {
		meta = append(meta, fmt.Sprintf("Semester: %s", semester))
	}
	return export.Dataset{Title: title, Meta: meta, Headers: headers, Rows: rows}
}

func formatGrade(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatGradeWithLetter(v *float64, letter string) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f (%s)", *v, letter)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	return replacer.Replace(raw)
}
