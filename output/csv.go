package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vegasq/colframe/table"
)

// CSVFormatter outputs a table as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table as CSV, header first, columns in schema order
func (c *CSVFormatter) Format(tbl *table.Table) error {
	csvWriter := csv.NewWriter(c.writer)

	columns := tbl.Schema().Names()
	if err := csvWriter.Write(columns); err != nil {
		return err
	}

	for i := 0; i < tbl.NumRows(); i++ {
		row := tbl.Row(i)
		record := make([]string, len(columns))
		for j, col := range columns {
			record[j] = formatValue(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// formatValue converts a value to string for text output. Nulls render as
// the empty string.
func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
