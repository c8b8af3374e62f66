package reader

import (
	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/colframe/table"
)

// extractSchema maps a parquet file schema onto an engine schema. Only
// top-level fields are mapped; a group or repeated field becomes a struct or
// array column.
func extractSchema(schema *parquet.Schema) (table.Schema, error) {
	fields := make([]table.Field, 0, len(schema.Fields()))
	for _, field := range schema.Fields() {
		fields = append(fields, table.Field{
			Name:     field.Name(),
			Type:     logicalType(field),
			Nullable: field.Optional(),
		})
	}
	return table.NewSchema(fields...)
}

// logicalType converts a parquet field's type into the engine logical type.
// The logical annotation wins over the physical type when present.
func logicalType(field parquet.Field) table.LogicalType {
	if field.Repeated() {
		return table.Array
	}
	if len(field.Fields()) > 0 {
		return table.Struct
	}
	if field.Type() == nil {
		return table.Unknown
	}

	if lt := field.Type().LogicalType(); lt != nil {
		switch lt.String() {
		case "STRING", "UTF8", "ENUM", "UUID", "JSON":
			return table.String
		case "DATE":
			return table.Date
		case "TIME", "TIMESTAMP":
			return table.Timestamp
		case "BSON":
			return table.Binary
		}
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return table.Boolean
	case parquet.Int32, parquet.Int64, parquet.Int96:
		return table.Integer
	case parquet.Float, parquet.Double:
		return table.Float
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return table.Binary
	default:
		return table.Unknown
	}
}
