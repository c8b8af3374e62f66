package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/colframe/table"
)

// TextFormatter renders a table as an aligned plain-text grid.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text table formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TextFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders the table with a header row, columns in schema order
func (t *TextFormatter) Format(tbl *table.Table) error {
	w := tablewriter.NewWriter(t.writer)
	columns := tbl.Schema().Names()
	w.SetHeader(columns)
	w.SetAutoFormatHeaders(false)

	for i := 0; i < tbl.NumRows(); i++ {
		row := tbl.Row(i)
		record := make([]string, len(columns))
		for j, col := range columns {
			record[j] = formatValue(row[col])
		}
		w.Append(record)
	}

	w.Render()
	return nil
}
