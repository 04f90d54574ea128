package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Nama", "Status"},
		Rows: []map[string]string{
			{"Nama": "Budi", "Status": "teacher-approved"},
			{"Nama": "Siti, A", "Status": "empty"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Nama,Status\nBudi,teacher-approved\n\"Siti, A\",empty\n", string(out))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterSeparatorAndBOM(t *testing.T) {
	out, err := NewCSVExporter(WithSeparator(';'), WithBOM()).Render(Dataset{
		Headers: []string{"No", "Nama"},
		Rows:    []map[string]string{{"No": "1", "Nama": "Siti; A"}, {"No": "2"}},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "No;Nama\n1;\"Siti; A\"\n2;\n", string(out[len(utf8BOM):]))
}

func TestPDFExporterRenderDocument(t *testing.T) {
	out, err := NewPDFExporter().RenderDocument(Document{
		Title:    "Rapor Karakter",
		Subtitle: []string{"Budi - 7A"},
		Footer:   "generated",
		Sections: []Section{
			{Heading: "Narasi", Paragraphs: []string{"Ananda menunjukkan perkembangan yang baik."}},
			{Heading: "Dimensi", Table: &Dataset{Headers: []string{"Dimensi", "Skor"}, Rows: []map[string]string{{"Dimensi": "Kesehatan", "Skor": "80"}}}},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().RenderDocument(Document{})
	assert.Error(t, err)
}

func TestPDFExporterRenderTable(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{Headers: []string{"A"}, Rows: []map[string]string{{"A": "1"}}}, "recap")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
