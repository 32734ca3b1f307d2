package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Class", "Student", "Percentage"},
		Rows: []map[string]string{
			{"Class": "CSC 1001", "Student": "Emma Davis", "Percentage": "66.67"},
			{"Class": "CSC 1001", "Student": "Liam Miller", "Percentage": "100.00"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Equal(t, "Class,Student,Percentage", lines[0])
	require.Equal(t, "CSC 1001,Emma Davis,66.67", lines[1])
	require.Equal(t, "CSC 1001,Liam Miller,100.00", lines[2])
}

func TestCSVExporterRenderMissingCellsAreEmpty(t *testing.T) {
	payload, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Class", "Student"},
		Rows:    []map[string]string{{"Class": "CSC 1001"}},
	})
	require.NoError(t, err)
	require.Contains(t, string(payload), "CSC 1001,")
}

func TestCSVExporterRejectsEmptyHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleDataset(), "Attendance Summary")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestPDFExporterRejectsEmptyHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "Attendance Summary")
	require.Error(t, err)
}
