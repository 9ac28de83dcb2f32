package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "CHM343 Organic Chemistry",
		Meta:    []string{"Semester: Fall 2025"},
		Headers: []string{"Assignment", "Percentage"},
		Rows: []map[string]string{
			{"Assignment": "Midterm 1", "Percentage": "90.0"},
			{"Assignment": "Quiz 3", "Percentage": "75.0"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Assignment,Percentage", lines[0])
	require.Equal(t, "Midterm 1,90.0", lines[1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestTXTExporterRender(t *testing.T) {
	out, err := NewTXTExporter().Render(sampleDataset())
	require.NoError(t, err)

	content := string(out)
	require.Contains(t, content, "CHM343 Organic Chemistry")
	require.Contains(t, content, "Semester: Fall 2025")
	require.Contains(t, content, "Midterm 1")
	// columns align on the widest value
	require.Contains(t, content, "Assignment  Percentage")
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "%PDF"))
}
