package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/astanton/gradebook/internal/grade"
	"github.com/astanton/gradebook/internal/models"
	"github.com/astanton/gradebook/internal/report"
	appErrors "github.com/astanton/gradebook/pkg/errors"
)

type reportCourseRepo interface {
	FindByCode(ctx context.Context, code, semester string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListRow, error)
	Load(ctx context.Context, id string) (*models.Course, error)
}

// ReportService runs the grade engine over stored courses and shapes the
// results for display. All numeric computation happens in the engine; this
// service only sequences lookups, engine calls and formatter calls.
type ReportService struct {
	courses    reportCourseRepo
	windowDays int
	logger     *zap.Logger
}

// NewReportService constructs ReportService. windowDays is the default trend
// window used when the caller does not give one.
func NewReportService(courses reportCourseRepo, windowDays int, logger *zap.Logger) *ReportService {
	if windowDays <= 0 {
		windowDays = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{courses: courses, windowDays: windowDays, logger: logger}
}

// Summary lists every course (optionally one semester) with its current
// grade, and rolls courses up per semester when more than one semester has
// entries.
func (s *ReportService) Summary(ctx context.Context, semester string) (*report.SummaryReport, error) {
	rows, err := s.courses.List(ctx, models.CourseFilter{Semester: semester})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to list courses")
	}

	out := &report.SummaryReport{}
	type semesterGroup struct {
		courses []models.Course
		grades  []*float64
	}
	groups := make(map[string]*semesterGroup)
	var order []string

	for _, row := range rows {
		loaded, err := s.courses.Load(ctx, row.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to load course")
		}
		courseGrade, err := s.courseGrade(*loaded)
		if err != nil {
			return nil, err
		}
		out.Courses = append(out.Courses, report.BuildCourseOverview(row, courseGrade))

		group, seen := groups[row.Semester]
		if !seen {
			group = &semesterGroup{}
			groups[row.Semester] = group
			order = append(order, row.Semester)
		}
		group.courses = append(group.courses, row.Course)
		group.grades = append(group.grades, courseGrade)
	}

	if len(order) > 1 {
		for _, sem := range order {
			group := groups[sem]
			out.Semesters = append(out.Semesters, report.BuildSemesterOverview(
				sem, len(group.courses), meanGrade(group.grades), semesterGPA(group.courses, group.grades)))
		}
	}
	return out, nil
}

// Details returns the full per-category, per-assignment breakdown for one
// course.
func (s *ReportService) Details(ctx context.Context, code, semester string) (*report.CourseSummary, error) {
	course, err := s.loadByCode(ctx, code, semester)
	if err != nil {
		return nil, err
	}

	results := report.EngineResults{
		CategoryPercentages:   make(map[string]*float64, len(course.Categories)),
		AssignmentPercentages: make(map[string]float64),
	}
	courseGrade, err := s.courseGrade(*course)
	if err != nil {
		return nil, err
	}
	results.CourseGrade = courseGrade
	for _, cat := range course.Categories {
		value, ok, err := grade.CategoryPercentage(cat)
		if err != nil {
			return nil, err
		}
		if ok {
			v := value
			results.CategoryPercentages[cat.ID] = &v
		}
		for _, a := range cat.Assignments {
			pct, err := grade.AssignmentPercentage(a)
			if err != nil {
				return nil, err
			}
			results.AssignmentPercentages[a.ID] = pct
		}
	}

	summary := report.BuildCourseSummary(*course, results)
	return &summary, nil
}

// Trends returns the running-grade time series over the last windowDays days
// of recorded work. A non-positive windowDays selects the configured default.
func (s *ReportService) Trends(ctx context.Context, code, semester string, windowDays int) (*report.TrendReport, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}
	course, err := s.loadByCode(ctx, code, semester)
	if err != nil {
		return nil, err
	}
	points, err := grade.Trend(*course, windowDays)
	if err != nil {
		return nil, err
	}
	return &report.TrendReport{
		Code:       course.Code,
		Title:      course.Title,
		Semester:   course.Semester,
		WindowDays: windowDays,
		Points:     report.BuildTrend(points),
	}, nil
}

// Distribution returns the assignment score histogram for one course.
func (s *ReportService) Distribution(ctx context.Context, code, semester string) (*report.DistributionReport, error) {
	course, err := s.loadByCode(ctx, code, semester)
	if err != nil {
		return nil, err
	}
	buckets, err := grade.Distribution(*course)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return &report.DistributionReport{
		Code:     course.Code,
		Title:    course.Title,
		Semester: course.Semester,
		Total:    total,
		Rows:     report.BuildDistribution(buckets),
	}, nil
}

func (s *ReportService) loadByCode(ctx context.Context, code, semester string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, code, semester)
	if err != nil {
		return nil, mapCourseLookupError(err, code)
	}
	loaded, err := s.courses.Load(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to load course")
	}
	return loaded, nil
}

func (s *ReportService) courseGrade(course models.Course) (*float64, error) {
	value, ok, err := grade.CourseGrade(course)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func meanGrade(grades []*float64) *float64 {
	sum, n := 0.0, 0
	for _, g := range grades {
		if g != nil {
			sum += *g
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

func semesterGPA(courses []models.Course, grades []*float64) *float64 {
	gpa, ok := grade.SemesterGPA(courses, grades)
	if !ok {
		return nil
	}
	return &gpa
}
