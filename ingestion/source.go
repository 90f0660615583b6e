package ingestion

import (
	"fmt"
	"strings"

	"github.com/poiesic/retriever/core"
)

// EntityCategory names a kind of entity found in tables. A column whose
// header contains one of Keywords (case-insensitive) holds entity names,
// which are emitted under Label.
type EntityCategory struct {
	Label    string
	Keywords []string
}

// DefaultEntityCategories recognizes store columns.
func DefaultEntityCategories() []EntityCategory {
	return []EntityCategory{
		{Label: "Mağaza", Keywords: []string{"mağaza", "store"}},
	}
}

func textChunk(source, body string) string {
	return "Kaynak: " + source + "\nİçerik: " + body
}

func entityChunk(source, label, name, data string) string {
	return "Kaynak: " + source + "\n" + label + ": " + name + ", Data: " + data
}

// Ingest converts kb into provenance-tagged chunks, in source order, and
// registers entity names found in tables. Chunk ids are positions in the
// returned slice.
func (ix *Indexer) Ingest(kb []core.Source) ([]core.Chunk, error) {
	var chunks []core.Chunk
	emit := func(source, text string) {
		chunks = append(chunks, core.Chunk{Id: len(chunks), Text: text, Source: source})
	}

	for _, src := range kb {
		if src.Content.IsTable() {
			if err := ix.ingestTable(src.Name, src.Content.Table, emit); err != nil {
				return nil, fmt.Errorf("source %s: %w", src.Name, err)
			}
			continue
		}
		for _, piece := range ix.chunker.Split(src.Content.Text) {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			emit(src.Name, textChunk(src.Name, piece))
		}
	}

	ix.logger.Debug("knowledge base ingested", "sources", len(kb), "chunks", len(chunks))
	return chunks, nil
}

// entityColumn pairs a category with the table column that holds its names.
type entityColumn struct {
	label  string
	column int
}

func (ix *Indexer) ingestTable(source string, table *core.Table, emit func(source, text string)) error {
	if err := core.ValidateTable(table); err != nil {
		return err
	}
	if len(table.Columns) == 0 {
		return nil
	}

	entityCols := ix.entityColumns(table.Columns)
	for _, row := range table.Rows {
		emit(source, textChunk(source, formatRow(table.Columns, row, -1)))

		for _, ec := range entityCols {
			cell := row[ec.column]
			if cell.IsBlank() {
				continue
			}
			name := strings.TrimSpace(cell.String())
			emit(source, entityChunk(source, ec.label, name, formatRow(table.Columns, row, ec.column)))
			ix.registry.Register(name)
		}
	}
	return nil
}

// entityColumns finds, for each category, the first column whose header
// contains one of its keywords.
func (ix *Indexer) entityColumns(columns []string) []entityColumn {
	var out []entityColumn
	for _, cat := range ix.categories {
		for i, col := range columns {
			if headerMatches(col, cat.Keywords) {
				out = append(out, entityColumn{label: cat.Label, column: i})
				break
			}
		}
	}
	return out
}

func headerMatches(header string, keywords []string) bool {
	header = strings.ToLower(header)
	for _, kw := range keywords {
		if strings.Contains(header, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// formatRow renders "col: val, col: val", leaving out the skip column.
func formatRow(columns []string, row []core.Cell, skip int) string {
	var sb strings.Builder
	for i, col := range columns {
		if i == skip {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col)
		sb.WriteString(": ")
		sb.WriteString(row[i].String())
	}
	return sb.String()
}
