package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
)

func ptr[T any](v T) *T { return &v }

func sample() []model.Company {
	return []model.Company{
		{
			Name:        "Кофейня Бодрость",
			City:        "Москва",
			Phone:       "+7 (495) 123-45-67",
			Address:     "ул. Тверская, 1",
			Rating:      ptr(4.8),
			VotersCount: ptr(123),
			Info:        "Уютная кофейня с завтраками",
			URL:         "https://2gis.ru/moscow/firm/101?m=37.6",
		},
		{
			Name: "Безымянная точка",
			City: "Москва",
		},
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	written, err := WriteFile(sample(), path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	f, err := xlsx.OpenFile(written)
	require.NoError(t, err)

	sheet, ok := f.Sheet["Компании 2GIS"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	header := sheet.Rows[0]
	require.Len(t, header.Cells, 8)
	assert.Equal(t, "Название компании", header.Cells[0].Value)
	assert.Equal(t, "Ссылка", header.Cells[7].Value)

	first := sheet.Rows[1]
	assert.Equal(t, "Кофейня Бодрость", first.Cells[0].Value)
	assert.Equal(t, "Москва", first.Cells[1].Value)
	assert.Equal(t, "+7 (495) 123-45-67", first.Cells[2].Value)
	assert.Equal(t, "ул. Тверская, 1", first.Cells[3].Value)
	assert.Equal(t, "4.8", first.Cells[4].Value)
	assert.Equal(t, "123", first.Cells[5].Value)

	// The link formula points at the query-stripped firm URL.
	assert.Contains(t, first.Cells[7].Formula(), "https://2gis.ru/moscow/firm/101")
	assert.NotContains(t, first.Cells[7].Formula(), "m=37.6")

	// Absent fields render as the dash placeholder.
	second := sheet.Rows[2]
	assert.Equal(t, "—", second.Cells[2].Value)
	assert.Equal(t, "—", second.Cells[4].Value)
	assert.Equal(t, "—", second.Cells[7].Value)
}

func TestWriteFileAppendsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results")

	written, err := WriteFile(sample(), path)
	require.NoError(t, err)
	assert.Equal(t, path+".xlsx", written)
}

func TestWriteFileEmptyInput(t *testing.T) {
	_, err := WriteFile(nil, filepath.Join(t.TempDir(), "out.xlsx"))
	require.ErrorIs(t, err, ErrNoCompanies)
}

func TestWriteStreams(t *testing.T) {
	var buf writeCounter
	err := Write(sample(), &buf)
	require.NoError(t, err)
	assert.Positive(t, buf.n)
}

type writeCounter struct{ n int }

func (w *writeCounter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
