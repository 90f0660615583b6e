package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/retriever/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDir_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "second")
	writeFile(t, dir, "a.md", "# first")
	writeFile(t, dir, "image.png", "binary")
	writeFile(t, dir, ".hidden.txt", "hidden")
	writeFile(t, dir, ".git/config.txt", "ignored")
	writeFile(t, dir, "sub/c.txt", "nested")

	sources, err := New().LoadDir(context.Background(), dir)
	require.NoError(t, err)

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"a.md", "b.txt", "sub/c.txt"}, names)
	assert.Equal(t, "# first", sources[0].Content.Text)
	assert.False(t, sources[0].Content.IsTable())
}

func TestLoadDir_CSVBecomesTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stores.csv", "Mağaza Adı,Satış,Not\nISTINYEPARK - NSP,100,iyi\nAKASYA,,nan\n")

	sources, err := New().LoadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	table := sources[0].Content.Table
	require.NotNil(t, table)
	assert.Equal(t, []string{"Mağaza Adı", "Satış", "Not"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, core.StringCell("ISTINYEPARK - NSP"), table.Rows[0][0])
	assert.Equal(t, core.NumberCell(100), table.Rows[0][1])
	assert.Equal(t, core.NullCell(), table.Rows[1][1])
	assert.Equal(t, core.NullCell(), table.Rows[1][2])
}

func TestLoadDir_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "kept")
	writeFile(t, dir, "b.csv", "x,y\n1,2,3\n")
	writeFile(t, dir, "c.csv", "")

	sources, err := New().LoadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "a.txt", sources[0].Name)
}

func TestLoadDir_NotADirectory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "file.txt", "x")

	_, err := New().LoadDir(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := New().LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDir_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().LoadDir(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	src, err := New().LoadFile(writeFile(t, dir, "notes.txt", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", src.Name)
	assert.Equal(t, "hello", src.Content.Text)

	_, err = New().LoadFile(writeFile(t, dir, "data.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestReadCSV(t *testing.T) {
	t.Run("header with BOM", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("\ufeffName,Value\nx,1.5\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Name", "Value"}, table.Columns)
		assert.Equal(t, core.NumberCell(1.5), table.Rows[0][1])
	})

	t.Run("header only", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("a,b\n"))
		require.NoError(t, err)
		assert.Empty(t, table.Rows)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("quoted commas stay in one cell", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("name,city\n\"Doe, Jane\",İstanbul\n"))
		require.NoError(t, err)
		assert.Equal(t, core.StringCell("Doe, Jane"), table.Rows[0][0])
	})
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		raw  string
		want core.Cell
	}{
		{"", core.NullCell()},
		{"   ", core.NullCell()},
		{"nan", core.NullCell()},
		{"NaN", core.NullCell()},
		{"42", core.NumberCell(42)},
		{" -3.25 ", core.NumberCell(-3.25)},
		{"Inf", core.StringCell("Inf")},
		{"IT", core.StringCell("IT")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCell(tt.raw))
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.txt"))
	assert.True(t, IsSupported("A.CSV"))
	assert.True(t, IsSupported("dir/readme.md"))
	assert.False(t, IsSupported("a.xlsx"))
	assert.False(t, IsSupported("noext"))
}
