// Package columnar builds typed column batches directly from decoded
// row slots, skipping any row-object intermediate. A builder is
// parameterized by a resolved dictionary, an optional column
// projection, and a row-capacity hint; columns are pushed chunk-wise
// via PushRawChunk and finalized once with Finish.
package columnar

import "github.com/albertxli/ambers/format"

// ColumnType identifies the exposed output type of one batch column.
// Every numeric SPSS variable is read as Float64 on the hot path;
// Date32/Timestamp/Duration are derived from it in Finish.
type ColumnType uint8

const (
	TypeFloat64 ColumnType = iota
	TypeDate32
	TypeTimestampMicros
	TypeDurationMicros
	TypeString
)

func (t ColumnType) String() string {
	switch t {
	case TypeDate32:
		return "Date32"
	case TypeTimestampMicros:
		return "Timestamp[us]"
	case TypeDurationMicros:
		return "Duration[us]"
	case TypeString:
		return "string"
	default:
		return "f64"
	}
}

// columnTypeFor maps a temporal classification to its output type; a
// numeric variable with no temporal format stays Float64.
func columnTypeFor(temporal format.TemporalKind) ColumnType {
	switch temporal {
	case format.TemporalDate:
		return TypeDate32
	case format.TemporalTimestamp:
		return TypeTimestampMicros
	case format.TemporalDuration:
		return TypeDurationMicros
	default:
		return TypeFloat64
	}
}

// Field describes one output column.
type Field struct {
	Name string
	Type ColumnType
}

// Schema is the ordered list of output fields a batch was built under.
type Schema []Field
