package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Attendance",
		Headers: []string{"Store", "Hours"},
		Rows: []map[string]string{
			{"Store": "Main", "Hours": "8.00"},
			{"Store": "Annex", "Hours": "9.25"},
		},
		Summary: []string{"Total hours: 17.25"},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Equal(t, []string{"Store,Hours", "Main,8.00", "Annex,9.25"}, lines)
}

func TestExportersRequireHeaders(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatPDF, FormatXLSX} {
		_, err := Render(format, Dataset{})
		require.Error(t, err, string(format))
	}
}

func TestPDFExporterRender(t *testing.T) {
	out, err := Render(FormatPDF, sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := Render(FormatXLSX, sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("Data", "A3")
	require.NoError(t, err)
	require.Equal(t, "Annex", value)

	summary, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	require.Equal(t, "Total hours: 17.25", summary)
}

func TestFormatValid(t *testing.T) {
	require.True(t, Format("xlsx").Valid())
	require.False(t, Format("docx").Valid())
	require.Equal(t, "text/csv", FormatCSV.ContentType())
}
