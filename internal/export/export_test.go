package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/export"
	"github.com/KaramelBytes/autompg-cli/internal/query"
	"github.com/KaramelBytes/autompg-cli/internal/testutil"
)

func TestWriteCSV_HeaderAndMissing(t *testing.T) {
	ds := testutil.SampleDataset(t)
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, ds))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, testutil.SampleRows+1)
	assert.Equal(t, export.Header(), rows[0])
	assert.Equal(t, "Model Year", rows[0][6])
	pinto := rows[5]
	assert.Equal(t, "ford pinto", pinto[8])
	assert.Equal(t, "?", pinto[3])
}

func TestWriteCSV_View(t *testing.T) {
	ds := testutil.SampleDataset(t)
	v := query.Apply(ds, query.Filter{}.WithManufacturer("honda"))
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, v))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	for _, r := range rows[1:] {
		assert.Equal(t, "honda", r[9])
	}
}

func TestWriteJSON_NullHorsepower(t *testing.T) {
	ds := testutil.SampleDataset(t)
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, ds))
	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, testutil.SampleRows)
	assert.Nil(t, out[4]["horsepower"])
	assert.Equal(t, "Japan", out[2]["origin"])
}

func TestWriteTable_Limit(t *testing.T) {
	ds := testutil.SampleDataset(t)
	var buf bytes.Buffer
	export.WriteTable(&buf, ds, 3)
	out := buf.String()
	assert.Contains(t, out, "Model Year")
	assert.Contains(t, out, "chevrolet chevelle malibu")
	assert.Contains(t, out, "toyota corona mark ii")
	assert.NotContains(t, out, "volkswagen 1131 deluxe sedan")
	assert.Contains(t, strings.ToLower(out), "3 of 18 rows")
}

func TestWriteXLSX_TypedCells(t *testing.T) {
	ds := testutil.SampleDataset(t)
	path := filepath.Join(t.TempDir(), "auto.xlsx")
	require.NoError(t, export.WriteXLSX(path, ds))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, testutil.SampleRows+1)
	assert.Equal(t, dataset.FieldMPG, rows[0][0])

	mpg, err := f.GetCellValue(export.SheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "18", mpg)
	hp, err := f.GetCellValue(export.SheetName, "D6")
	require.NoError(t, err)
	assert.Empty(t, hp)
	origin, err := f.GetCellValue(export.SheetName, "H4")
	require.NoError(t, err)
	assert.Equal(t, "Japan", origin)

	fields, err := f.GetRows("Fields")
	require.NoError(t, err)
	assert.Len(t, fields, len(dataset.Schema())+1)
}

func TestWriteXLSX_CreatesParentDir(t *testing.T) {
	ds := testutil.SampleDataset(t)
	dir := filepath.Join(t.TempDir(), "out", "sheets")
	path := filepath.Join(dir, "cars.xlsx")
	require.NoError(t, export.WriteXLSX(path, ds))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, testutil.SampleRows+1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cars.xlsx", entries[0].Name())
}

func TestWriteFile_ByExtension(t *testing.T) {
	ds := testutil.SampleDataset(t)
	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.json", "nested/out.xlsx"} {
		p := filepath.Join(dir, name)
		require.NoError(t, export.WriteFile(p, ds), name)
		st, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, st.Size())
		assert.True(t, export.Exists(p))
	}
	err := export.WriteFile(filepath.Join(dir, "out.parquet"), ds)
	assert.True(t, errors.Is(err, export.ErrUnsupportedFormat))
}
