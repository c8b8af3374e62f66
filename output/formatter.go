// Package output provides formatters for rendering resolved tables.
//
// Currently supported formats:
//   - JSON Lines: one JSON object per row
//   - CSV: comma-separated values with a header row
//   - Text: an aligned plain-text table
//
// Example usage:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	if err := formatter.Format(tbl); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"io"

	"github.com/vegasq/colframe/table"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(tbl *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
