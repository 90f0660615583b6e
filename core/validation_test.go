package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshot() *Snapshot {
	return &Snapshot{
		Vectors: [][]float32{{1, 0}, {0, 1}},
		Chunks: []Chunk{
			{Id: 0, Text: "first", Source: "a.txt"},
			{Id: 1, Text: "second", Source: "a.txt"},
		},
	}
}

func TestValidateSnapshot(t *testing.T) {
	t.Run("valid snapshot", func(t *testing.T) {
		require.NoError(t, ValidateSnapshot(validSnapshot()))
	})

	t.Run("empty snapshot is valid", func(t *testing.T) {
		require.NoError(t, ValidateSnapshot(&Snapshot{}))
	})

	t.Run("nil snapshot", func(t *testing.T) {
		err := ValidateSnapshot(nil)
		assert.ErrorIs(t, err, ErrInvalidSnapshot)
	})

	t.Run("count mismatch", func(t *testing.T) {
		s := validSnapshot()
		s.Vectors = s.Vectors[:1]
		err := ValidateSnapshot(s)
		assert.ErrorIs(t, err, ErrInvalidSnapshot)
		assert.ErrorIs(t, err, ErrCountMismatch)
	})

	t.Run("id out of position", func(t *testing.T) {
		s := validSnapshot()
		s.Chunks[1].Id = 7
		assert.ErrorIs(t, ValidateSnapshot(s), ErrChunkIdMismatch)
	})

	t.Run("blank chunk text", func(t *testing.T) {
		s := validSnapshot()
		s.Chunks[0].Text = "  "
		assert.ErrorIs(t, ValidateSnapshot(s), ErrEmptyChunkText)
	})

	t.Run("ragged vectors", func(t *testing.T) {
		s := validSnapshot()
		s.Vectors[1] = []float32{1, 2, 3}
		assert.ErrorIs(t, ValidateSnapshot(s), ErrRaggedVectors)
	})
}

func TestValidateTable(t *testing.T) {
	t.Run("valid table", func(t *testing.T) {
		table := &Table{
			Columns: []string{"Mağaza", "Satış"},
			Rows:    [][]Cell{{StringCell("A"), NumberCell(1)}},
		}
		require.NoError(t, ValidateTable(table))
	})

	t.Run("nil table", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTable(nil), ErrInvalidTable)
	})

	t.Run("short row", func(t *testing.T) {
		table := &Table{
			Columns: []string{"Mağaza", "Satış"},
			Rows:    [][]Cell{{StringCell("A")}},
		}
		err := ValidateTable(table)
		assert.ErrorIs(t, err, ErrInvalidTable)
		assert.ErrorIs(t, err, ErrRowWidth)
	})
}
