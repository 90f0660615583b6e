package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/retriever/core"
)

const utf8BOM = "\ufeff"

// ReadCSV reads a comma separated table whose first record is the header.
// Empty cells and textual "nan" become null cells, values that parse as
// finite numbers become number cells, everything else stays text.
func ReadCSV(r io.Reader) (*core.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}
	columns[0] = strings.TrimPrefix(columns[0], utf8BOM)

	table := &core.Table{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make([]core.Cell, len(record))
		for i, raw := range record {
			row[i] = parseCell(raw)
		}
		table.Rows = append(table.Rows, row)
	}

	if err := core.ValidateTable(table); err != nil {
		return nil, err
	}
	return table, nil
}

func parseCell(raw string) core.Cell {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, core.NullMarker) {
		return core.NullCell()
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return core.NumberCell(n)
	}
	return core.StringCell(s)
}
