// Package seeder turns tabular fixtures into example API responses shaped
// like the ServiceNow table API: {"result": [row, ...]}.
package seeder

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"docvet/internal/logger"
)

// ErrRecordLength reports a data row with more fields than the header.
var ErrRecordLength = errors.New("invalid record length")

// Table is a header row plus data rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Result lists what a seeding pass produced.
type Result struct {
	// Written holds output paths in fixture name order.
	Written []string
	// Skipped is set when there was nothing to seed; Reason says why.
	Skipped bool
	Reason  string
}

// Seeder reads fixtures from DataDir and writes JSON examples to OutDir.
type Seeder struct {
	fs      afero.Fs
	dataDir string
	outDir  string
	log     *zap.SugaredLogger
}

// New creates a Seeder over fsys.
func New(fsys afero.Fs, dataDir, outDir string) *Seeder {
	return &Seeder{fs: fsys, dataDir: dataDir, outDir: outDir, log: logger.For(logger.ComponentSeeder)}
}

// Run converts every *.csv and *.xlsx fixture. A missing data directory or one
// without fixtures is skipped, not an error.
func (s *Seeder) Run() (*Result, error) {
	if ok, _ := afero.DirExists(s.fs, s.dataDir); !ok {
		return &Result{Skipped: true, Reason: fmt.Sprintf("data directory %s not found", s.dataDir)}, nil
	}

	infos, err := afero.ReadDir(s.fs, s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("listing fixtures: %w", err)
	}
	var fixtures []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(info.Name())) {
		case ".csv", ".xlsx":
			fixtures = append(fixtures, info.Name())
		}
	}
	sort.Strings(fixtures)
	if len(fixtures) == 0 {
		return &Result{Skipped: true, Reason: fmt.Sprintf("no fixtures in %s", s.dataDir)}, nil
	}

	if err := s.fs.MkdirAll(s.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	res := &Result{}
	for _, name := range fixtures {
		table, err := s.load(filepath.Join(s.dataDir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		data, err := Render(table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out := filepath.Join(s.outDir, strings.TrimSuffix(name, filepath.Ext(name))+".json")
		if err := afero.WriteFile(s.fs, out, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", out, err)
		}
		s.log.Debugw("example written", "fixture", name, "rows", len(table.Rows), "out", out)
		res.Written = append(res.Written, out)
	}
	return res, nil
}

func (s *Seeder) load(path string) (*Table, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(f)
	}
	return ReadCSV(f)
}

// ReadCSV reads a CSV fixture. Blank lines are skipped and short rows are
// padded; a row wider than the header is an error.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var records [][]string
	var lines []int
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return tableFrom(records, lines)
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return tableFrom(rows, lines)
}

// tableFrom builds a Table from records and the line each record starts on.
func tableFrom(records [][]string, lines []int) (*Table, error) {
	var rows [][]string
	var rowLines []int
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
		rowLines = append(rowLines, lines[i])
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	t := &Table{Columns: rows[0]}
	for i, rec := range rows[1:] {
		if len(rec) > len(t.Columns) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d: %w",
				rowLines[i+1], len(rec), len(t.Columns), ErrRecordLength)
		}
		row := make([]string, len(t.Columns))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Render encodes t as {"result": [...]} with keys in column order and
// two-space indentation.
func Render(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if len(t.Rows) == 0 {
		buf.WriteString("{\n  \"result\": []\n}\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("{\n  \"result\": [\n")
	for i, row := range t.Rows {
		buf.WriteString("    {\n")
		for j, col := range t.Columns {
			k, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(row[j])
			if err != nil {
				return nil, err
			}
			buf.WriteString("      ")
			buf.Write(k)
			buf.WriteString(": ")
			buf.Write(v)
			if j < len(t.Columns)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString("    }")
		if i < len(t.Rows)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("  ]\n}\n")
	return buf.Bytes(), nil
}
