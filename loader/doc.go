// Package loader reads a knowledge base from a directory.
//
// Plain text and markdown files become text sources; CSV files become
// tables with a header row. Files are returned in lexical path order so the
// resulting corpus order is stable between runs. A Watcher reports changes
// to the directory so callers can rebuild.
package loader
