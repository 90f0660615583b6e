package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poiesic/retriever/core"
)

var (
	textExtensions  = []string{".txt", ".md", ".markdown"}
	tableExtensions = []string{".csv"}
)

// SupportedExtensions returns the file extensions the loader reads.
func SupportedExtensions() []string {
	return slices.Concat(textExtensions, tableExtensions)
}

// IsSupported reports whether path has an extension the loader reads.
func IsSupported(path string) bool {
	return slices.Contains(SupportedExtensions(), strings.ToLower(filepath.Ext(path)))
}

// Loader reads knowledge base files.
type Loader struct {
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loader.
func New(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "loader")
	return l
}

// LoadDir reads every supported file under dir, recursively, in lexical
// path order. Source names are paths relative to dir using forward slashes.
// Hidden files and directories are skipped, as are unsupported extensions.
// A file that cannot be read or parsed is logged and skipped.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]core.Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	var sources []core.Source
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !IsSupported(path) {
			l.logger.Debug("skipping unsupported file", "path", path)
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = d.Name()
		}
		content, err := l.readContent(path)
		if err != nil {
			l.logger.Warn("skipping unreadable file", "path", rel, "err", err)
			return nil
		}
		sources = append(sources, core.Source{Name: filepath.ToSlash(rel), Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("knowledge base loaded", "dir", dir, "sources", len(sources))
	return sources, nil
}

// LoadFile reads a single supported file. The source is named by its base name.
func (l *Loader) LoadFile(path string) (core.Source, error) {
	if !IsSupported(path) {
		return core.Source{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}
	content, err := l.readContent(path)
	if err != nil {
		return core.Source{}, err
	}
	return core.Source{Name: filepath.Base(path), Content: content}, nil
}

func (l *Loader) readContent(path string) (core.Content, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if slices.Contains(tableExtensions, ext) {
		f, err := os.Open(path)
		if err != nil {
			return core.Content{}, err
		}
		defer f.Close()

		table, err := ReadCSV(f)
		if err != nil {
			return core.Content{}, err
		}
		return core.TableContent(table), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.Content{}, err
	}
	return core.TextContent(string(data)), nil
}
