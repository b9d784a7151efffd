package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDataset() Dataset {
	return Dataset{
		Title:    "Academic load",
		Subtitle: "8th EGB - A",
		Headers:  []string{"Subject", "Periods"},
		Rows: []map[string]string{
			{"Subject": "Mathematics", "Periods": "2"},
			{"Subject": "Ciencias, Naturales", "Periods": "1"},
		},
		Footer: map[string]string{"Subject": "Total", "Periods": "3"},
	}
}

func TestCSVExporterWritesFooterLast(t *testing.T) {
	out, err := NewCSVExporter().Render(loadDataset())
	require.NoError(t, err)
	assert.Equal(t, "Subject,Periods\nMathematics,2\n\"Ciencias, Naturales\",1\nTotal,3\n", string(out))
}

func TestCSVExporterDoesNotGrowCallerRows(t *testing.T) {
	data := loadDataset()
	data.Rows = make([]map[string]string, 1, 4)
	data.Rows[0] = map[string]string{"Subject": "Art", "Periods": "1"}

	_, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Nil(t, data.Rows[:cap(data.Rows)][1], "footer must not be written into spare capacity")
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(loadDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	wide := Dataset{Headers: []string{"Slot", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}}
	out, err = NewPDFExporter().Render(wide)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
