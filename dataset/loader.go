// Package dataset loads the labeled cell-nuclei measurement table.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrBadDiagnosis  = errors.New("unexpected diagnosis value")
	ErrEmpty         = errors.New("dataset has no rows")
	ErrNotFinite     = errors.New("value is not a finite number")
)

const (
	idColumn        = "id"
	diagnosisColumn = "diagnosis"
)

// Diagnosis labels after mapping.
const (
	Benign    = 0
	Malignant = 1
)

var diagnosisCodes = map[string]int{
	"M": Malignant,
	"B": Benign,
}

// Record is one labeled row. Values are positional by the table schema.
type Record struct {
	ID        string
	Diagnosis int
	Values    []float64
}

// Table is the read-only measurement collection.
type Table struct {
	schema  *Schema
	records []Record
}

// Load reads the CSV at path using the default schema.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	table, err := Read(file, DefaultSchema())
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return table, nil
}

// Read parses a CSV stream. The id column and unnamed filler columns are
// dropped, and the diagnosis column is mapped M->1, B->0.
func Read(r io.Reader, schema *Schema) (*Table, error) {
	// Exports from spreadsheet tools often start with a BOM.
	bomless := transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))
	reader := csv.NewReader(bomless)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "Unnamed:") || name == idColumn {
			continue
		}
		columns[name] = i
	}

	diagIdx, ok := columns[diagnosisColumn]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, diagnosisColumn)
	}
	idIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == idColumn {
			idIdx = i
		}
	}

	positions := make([]int, schema.Len())
	for i, f := range schema.fields {
		pos, ok := columns[f.Key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, f.Key)
		}
		positions[i] = pos
	}

	records := make([]Record, 0, 512)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, idIdx, diagIdx, positions, schema)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return &Table{schema: schema, records: records}, nil
}

func parseRow(row []string, idIdx, diagIdx int, positions []int, schema *Schema) (Record, error) {
	var rec Record
	if idIdx >= 0 && idIdx < len(row) {
		rec.ID = strings.TrimSpace(row[idIdx])
	}
	if diagIdx >= len(row) {
		return rec, fmt.Errorf("%w: %s", ErrMissingColumn, diagnosisColumn)
	}
	code := strings.TrimSpace(row[diagIdx])
	label, ok := diagnosisCodes[code]
	if !ok {
		return rec, fmt.Errorf("%w: %q", ErrBadDiagnosis, code)
	}
	rec.Diagnosis = label

	rec.Values = make([]float64, len(positions))
	for i, pos := range positions {
		key := schema.fields[i].Key
		if pos >= len(row) {
			return rec, fmt.Errorf("%w: %s", ErrMissingColumn, key)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[pos]), 64)
		if err != nil {
			return rec, fmt.Errorf("field %s: %w", key, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return rec, fmt.Errorf("field %s: %w: %q", key, ErrNotFinite, row[pos])
		}
		rec.Values[i] = v
	}
	return rec, nil
}

// NewTable wraps already parsed records. Each record must carry one value per
// schema field.
func NewTable(schema *Schema, records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	for i, rec := range records {
		if len(rec.Values) != schema.Len() {
			return nil, fmt.Errorf("record %d: expected %d values, got %d", i, schema.Len(), len(rec.Values))
		}
	}
	return &Table{schema: schema, records: append([]Record(nil), records...)}, nil
}

func (t *Table) Schema() *Schema {
	return t.schema
}

func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the rows. Callers must not modify them.
func (t *Table) Records() []Record {
	return t.records
}

// Column returns every value of the field named key.
func (t *Table) Column(key string) ([]float64, error) {
	idx := t.schema.Index(key)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, key)
	}
	values := make([]float64, len(t.records))
	for i, rec := range t.records {
		values[i] = rec.Values[idx]
	}
	return values, nil
}

// Labels returns the mapped diagnosis of every row.
func (t *Table) Labels() []int {
	labels := make([]int, len(t.records))
	for i, rec := range t.records {
		labels[i] = rec.Diagnosis
	}
	return labels
}
