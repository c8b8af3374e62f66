// Package reader loads Apache Parquet files into engine tables.
//
// It uses the parquet-go library to read parquet files, maps the parquet
// schema onto the engine's logical types, and builds an in-memory columnar
// Table from the file's rows.
package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/colframe/table"
)

// Reader reads parquet files into tables.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader creates a new parquet reader for the specified file path.
//
// The file is opened and validated as a parquet file. Returns an error if
// the file doesn't exist or is not a valid parquet file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadTable reads the whole file into an in-memory Table. The entire file is
// loaded, so this is intended for the moderately large tables the engine
// targets, not unbounded ones.
func (r *Reader) ReadTable() (*table.Table, error) {
	schema, err := extractSchema(r.pqFile.Schema())
	if err != nil {
		return nil, err
	}

	rows := make([]table.Row, 0)
	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(map[string]interface{})
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, table.Row(row))
	}

	return table.FromRows(schema, rows)
}

// Close closes the parquet reader and releases associated resources.
//
// It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Load opens a parquet file and reads it into a Table in one step.
func Load(path string) (*table.Table, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.ReadTable()
}
