package core

import (
	"strconv"
	"strings"
)

// Chunk is the indivisible unit of retrieval.
// Id is the chunk's position in the corpus and doubles as its embedding row.
type Chunk struct {
	Id     int
	Text   string
	Source string
}

// CellKind identifies which variant a Cell holds.
type CellKind int

const (
	// CellNull is a missing value.
	CellNull CellKind = iota
	// CellString holds free text.
	CellString
	// CellNumber holds a numeric value.
	CellNumber
)

// NullMarker is the string projection of a null cell.
const NullMarker = "nan"

// Cell is a loosely typed tabular value. Downstream formatting only ever
// works with its string projection.
type Cell struct {
	Kind   CellKind
	Str    string
	Number float64
}

// StringCell returns a text cell.
func StringCell(s string) Cell {
	return Cell{Kind: CellString, Str: s}
}

// NumberCell returns a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

// NullCell returns a missing value.
func NullCell() Cell {
	return Cell{Kind: CellNull}
}

// String returns the cell's string projection.
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return NullMarker
	}
}

// IsBlank reports whether the cell carries no usable value: null, empty,
// whitespace, or a textual null marker such as "nan" or "null".
func (c Cell) IsBlank() bool {
	if c.Kind == CellNull {
		return true
	}
	if c.Kind == CellNumber {
		return false
	}
	s := strings.TrimSpace(c.Str)
	if s == "" {
		return true
	}
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return true
	}
	return false
}

// Table is an ordered rowset as produced by spreadsheet and CSV loaders.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Content is either a text blob or a table. Exactly one of the two is set.
type Content struct {
	Text  string
	Table *Table
}

// TextContent wraps a text blob.
func TextContent(text string) Content {
	return Content{Text: text}
}

// TableContent wraps a table.
func TableContent(table *Table) Content {
	return Content{Table: table}
}

// IsTable reports whether the content is tabular.
func (c Content) IsTable() bool {
	return c.Table != nil
}

// Source is one named entry of a knowledge base.
type Source struct {
	Name    string
	Content Content
}

// Snapshot is a built corpus: one vector per chunk, positionally aligned.
// It is persisted and restored as a single unit.
type Snapshot struct {
	Vectors [][]float32
	Chunks  []Chunk
}

// Entities holds the coarse entities extracted from a query.
// Objects is part of the model but extraction never fills it.
type Entities struct {
	Departments []string `json:"departments"`
	Actions     []string `json:"actions"`
	Objects     []string `json:"-"`
	Names       []string `json:"names"`
}

// Prediction is the result of intent classification.
type Prediction struct {
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   Entities `json:"entities"`
}

// SearchResult is a ranked evidence chunk.
type SearchResult struct {
	Chunk    Chunk
	Distance float32
}
