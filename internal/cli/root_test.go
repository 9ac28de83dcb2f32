package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	appErrors "github.com/astanton/gradebook/pkg/errors"
)

func TestVersionCommand(t *testing.T) {
	root := NewRootCommand(&App{})
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "gradebook")
}

func TestParseCategoryItems(t *testing.T) {
	items, err := parseCategoryItems([]string{"Exams=0.5", "Labs=0.3", "Homework=0.2"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "Exams", items[0].Name)
	require.Equal(t, 0.5, items[0].Weight)
}

func TestParseCategoryItemsRejectsMalformed(t *testing.T) {
	_, err := parseCategoryItems([]string{"Exams"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = parseCategoryItems([]string{"Exams=half"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestFormatGrade(t *testing.T) {
	require.Equal(t, "N/A", formatGrade(nil))
	v := 90.5
	require.Equal(t, "90.5", formatGrade(&v))
}
