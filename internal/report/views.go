package report

// SummaryReport is the top level view for the summary command: one overview
// row per course, plus a per-semester rollup when more than one semester has
// recorded courses.
type SummaryReport struct {
	Courses   []CourseOverview   `json:"courses"`
	Semesters []SemesterOverview `json:"semesters,omitempty"`
}

// TrendReport is the view for the trends command.
type TrendReport struct {
	Code       string     `json:"course_code"`
	Title      string     `json:"course_title"`
	Semester   string     `json:"semester"`
	WindowDays int        `json:"window_days"`
	Points     []TrendRow `json:"points"`
}

// DistributionReport is the view for the distribution command.
type DistributionReport struct {
	Code     string            `json:"course_code"`
	Title    string            `json:"course_title"`
	Semester string            `json:"semester"`
	Total    int               `json:"total"`
	Rows     []DistributionRow `json:"rows"`
}
