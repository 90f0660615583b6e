package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_Examples(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		chunks, err := Chunk("", 4, 1)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("overlapping windows", func(t *testing.T) {
		chunks, err := Chunk("ABCDEFGHIJ", 4, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"ABCD", "DEFG", "GHIJ", "J"}, chunks)
	})

	t.Run("no overlap", func(t *testing.T) {
		chunks, err := Chunk("ABCDEFGHIJ", 5, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"ABCDE", "FGHIJ"}, chunks)
	})

	t.Run("text shorter than window", func(t *testing.T) {
		chunks, err := Chunk("abc", 1000, 150)
		require.NoError(t, err)
		assert.Equal(t, []string{"abc"}, chunks)
	})

	t.Run("windows count runes not bytes", func(t *testing.T) {
		chunks, err := Chunk("çalışan", 3, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"çal", "ışa", "n"}, chunks)
	})
}

func TestChunk_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"overlap equals size", 4, 4},
		{"overlap exceeds size", 4, 5},
		{"negative overlap", 4, -1},
		{"zero size", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Chunk("ABCDEFGHIJ", tt.size, tt.overlap)
			assert.ErrorIs(t, err, ErrInvalidChunkParams)

			_, err = New(tt.size, tt.overlap)
			assert.ErrorIs(t, err, ErrInvalidChunkParams)
		})
	}
}

// Stripping the overlap from every window but the first must give back the
// original text.
func TestChunk_Coverage(t *testing.T) {
	text := strings.Repeat("Kaynak metni, içerik ve veri. ", 37)
	params := []struct{ size, overlap int }{
		{1, 0}, {2, 1}, {7, 3}, {10, 0}, {64, 63}, {1000, 150}, {5000, 10},
	}

	for _, p := range params {
		chunks, err := Chunk(text, p.size, p.overlap)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		var b strings.Builder
		b.WriteString(chunks[0])
		for _, c := range chunks[1:] {
			r := []rune(c)
			if len(r) > p.overlap {
				b.WriteString(string(r[p.overlap:]))
			}
		}
		assert.Equal(t, text, b.String(), "size=%d overlap=%d", p.size, p.overlap)
	}
}

func TestChunker_Split(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABCD", "DEFG", "GHIJ", "J"}, c.Split("ABCDEFGHIJ"))
	assert.Empty(t, c.Split(""))
}
