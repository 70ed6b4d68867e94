package columnar

import "math"

// SPSS timestamps count seconds since 1582-10-14; Unix time counts
// seconds since 1970-01-01. These offsets convert between the two
// epochs.
const (
	spssEpochOffsetDays    = 141428
	spssEpochOffsetSeconds = 12219379200
	secondsPerDay          = 86400
	microsPerSecond        = 1_000_000
)

// Float64Column is a finished numeric column: values plus a null
// bitmap inherited unchanged from the builder.
type Float64Column struct {
	Name   string
	Values []float64
	Valid  *NullBitmap
}

// IsNull reports whether row i is null.
func (c *Float64Column) IsNull(i int) bool { return !c.Valid.IsValid(i) }

// Int32Column is a finished Date32 column: days since 1970-01-01.
type Int32Column struct {
	Name   string
	Values []int32
	Valid  *NullBitmap
}

func (c *Int32Column) IsNull(i int) bool { return !c.Valid.IsValid(i) }

// Int64Column is a finished Timestamp[us] or Duration[us] column.
type Int64Column struct {
	Name   string
	Values []int64
	Valid  *NullBitmap
}

func (c *Int64Column) IsNull(i int) bool { return !c.Valid.IsValid(i) }

// StringColumn is a finished string column. Strings are never null in
// SPSS data (a blank string reads back as "").
type StringColumn struct {
	Name   string
	Values []string
}

// Batch is the output of one Builder.Finish call: the schema it was
// built under plus one column per field, in schema order. Each column
// is exactly one of *Float64Column, *Int32Column, *Int64Column, or
// *StringColumn, matching the parallel Field.Type entry.
type Batch struct {
	Schema  Schema
	Columns []any
}

// NumRows returns the row count of the first column, or 0 for an
// empty batch.
func (b *Batch) NumRows() int {
	if len(b.Columns) == 0 {
		return 0
	}
	switch c := b.Columns[0].(type) {
	case *Float64Column:
		return len(c.Values)
	case *Int32Column:
		return len(c.Values)
	case *Int64Column:
		return len(c.Values)
	case *StringColumn:
		return len(c.Values)
	default:
		return 0
	}
}

// Finish finalizes the batch: string columns pass through unchanged,
// float columns pass through unless their field type calls for
// temporal conversion, which runs here exactly once per column rather
// than in the hot per-row loop.
func (b *Builder) Finish() *Batch {
	columns := make([]any, len(b.builders))

	for i, field := range b.schema {
		if field.Type == TypeString {
			sb := b.builders[i].(*StringBuilder)
			columns[i] = &StringColumn{Name: sb.Name(), Values: sb.Values()}

			continue
		}

		fb := b.builders[i].(*Float64Builder)
		switch field.Type {
		case TypeDate32:
			columns[i] = convertDate32(fb)
		case TypeTimestampMicros:
			columns[i] = convertMicros(fb, true)
		case TypeDurationMicros:
			columns[i] = convertMicros(fb, false)
		default:
			columns[i] = &Float64Column{Name: fb.Name(), Values: fb.Values(), Valid: fb.valid}
		}
	}

	return &Batch{Schema: b.schema, Columns: columns}
}

func convertDate32(fb *Float64Builder) *Int32Column {
	values := fb.Values()
	out := make([]int32, len(values))
	valid := NewNullBitmap(len(values))
	for i, v := range values {
		ok := fb.Valid(i) && !math.IsNaN(v) && !math.IsInf(v, 0)
		valid.Append(ok)
		if !ok {
			continue
		}
		days := v/secondsPerDay - spssEpochOffsetDays
		out[i] = int32(days)
	}

	return &Int32Column{Name: fb.Name(), Values: out, Valid: valid}
}

func convertMicros(fb *Float64Builder, subtractEpoch bool) *Int64Column {
	values := fb.Values()
	out := make([]int64, len(values))
	valid := NewNullBitmap(len(values))
	for i, v := range values {
		ok := fb.Valid(i) && !math.IsNaN(v) && !math.IsInf(v, 0)
		valid.Append(ok)
		if !ok {
			continue
		}
		seconds := v
		if subtractEpoch {
			seconds -= spssEpochOffsetSeconds
		}
		out[i] = int64(seconds * microsPerSecond)
	}

	return &Int64Column{Name: fb.Name(), Values: out, Valid: valid}
}
