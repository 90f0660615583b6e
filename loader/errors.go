package loader

import "errors"

var (
	// ErrNotDirectory is returned when the knowledge base path is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrUnsupportedFile is returned by LoadFile for extensions no reader handles.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrEmptyTable is returned for a CSV file without a header row.
	ErrEmptyTable = errors.New("csv has no header row")
)
