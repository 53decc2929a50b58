package seeder_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docvet/internal/seeder"
)

func TestRender_KeepsColumnOrder(t *testing.T) {
	table := &seeder.Table{
		Columns: []string{"number", "short_description", "state"},
		Rows: [][]string{
			{"INC0010001", "VPN drops every hour", "2"},
			{"INC0010002", "Laptop \"won't\" boot", "1"},
		},
	}

	out, err := seeder.Render(table)
	require.NoError(t, err)

	want := `{
  "result": [
    {
      "number": "INC0010001",
      "short_description": "VPN drops every hour",
      "state": "2"
    },
    {
      "number": "INC0010002",
      "short_description": "Laptop \"won't\" boot",
      "state": "1"
    }
  ]
}
`
	assert.Equal(t, want, string(out))
}

func TestRender_Empty(t *testing.T) {
	out, err := seeder.Render(&seeder.Table{Columns: []string{"number"}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"result\": []\n}\n", string(out))
}

func TestRun_CSVAndXLSX(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/incidents.csv",
		[]byte("number,state,priority\nINC001,1,3\n\nINC002,2\n"), 0o644))

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetCellValue(sheet, "A1", "name"))
	require.NoError(t, wb.SetCellValue(sheet, "B1", "email"))
	require.NoError(t, wb.SetCellValue(sheet, "A2", "Ada"))
	require.NoError(t, wb.SetCellValue(sheet, "B2", "ada@example.com"))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "data/users.xlsx", buf.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data/README.md", []byte("#"), 0o644))

	res, err := seeder.New(fs, "data", "examples").Run()
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Equal(t, []string{"examples/incidents.json", "examples/users.json"}, res.Written)

	incidents, err := afero.ReadFile(fs, "examples/incidents.json")
	require.NoError(t, err)
	assert.Contains(t, string(incidents), `"number": "INC002",
      "state": "2",
      "priority": ""`)

	users, err := afero.ReadFile(fs, "examples/users.json")
	require.NoError(t, err)
	assert.Contains(t, string(users), `"email": "ada@example.com"`)
}

func TestRun_Skips(t *testing.T) {
	fs := afero.NewMemMapFs()

	res, err := seeder.New(fs, "data", "examples").Run()
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Contains(t, res.Reason, "not found")

	require.NoError(t, fs.MkdirAll("data", 0o755))
	res, err = seeder.New(fs, "data", "examples").Run()
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	exists, _ := afero.DirExists(fs, "examples")
	assert.False(t, exists)
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := seeder.ReadCSV(strings.NewReader("a,\"b\nc"))
	assert.Error(t, err)
}

func TestReadCSV_RowWiderThanHeader(t *testing.T) {
	_, err := seeder.ReadCSV(strings.NewReader("number,state\nINC1,New\n\nINC2,Closed,extra\n"))
	require.ErrorIs(t, err, seeder.ErrRecordLength)
	assert.Contains(t, err.Error(), "line 4")
}

func TestReadCSV_ShortRowIsPadded(t *testing.T) {
	table, err := seeder.ReadCSV(strings.NewReader("number,state\nINC1\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"INC1", ""}}, table.Rows)
}
