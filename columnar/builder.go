package columnar

import "github.com/albertxli/ambers/internal/hash"

// ColBuilder is implemented by the two column builder variants. Keeping
// the hot loop to exactly these two keeps its instruction footprint
// small: a third variant would enlarge the per-cell dispatch that every
// column pays for, not only the columns of the new kind.
type ColBuilder interface {
	Name() string
	Len() int
}

// Float64Builder accumulates a numeric column plus its null bitmap.
// Every numeric SPSS variable, including temporal ones, is built as
// Float64; temporal conversion happens once in Finish.
type Float64Builder struct {
	name   string
	values []float64
	valid  *NullBitmap
}

// NewFloat64Builder preallocates a column of the given row capacity.
func NewFloat64Builder(name string, capacity int) *Float64Builder {
	return &Float64Builder{
		name:   name,
		values: make([]float64, 0, capacity),
		valid:  NewNullBitmap(capacity),
	}
}

func (b *Float64Builder) Name() string { return b.name }
func (b *Float64Builder) Len() int     { return len(b.values) }

// PushValue appends a non-null value.
func (b *Float64Builder) PushValue(v float64) {
	b.values = append(b.values, v)
	b.valid.Append(true)
}

// PushNull appends a null row (SYSMIS or non-finite).
func (b *Float64Builder) PushNull() {
	b.values = append(b.values, 0)
	b.valid.Append(false)
}

// Values returns the accumulated values; index i is meaningless when
// !Valid(i).
func (b *Float64Builder) Values() []float64 { return b.values }

// Valid reports whether row i holds a non-null value.
func (b *Float64Builder) Valid(i int) bool { return b.valid.IsValid(i) }

// StringBuilder accumulates a string column. When dedup is enabled
// (categorical columns backed by value labels), repeated values reuse
// one interned Go string via an xxHash64-keyed lookup with a full
// byte comparison on hash hit, adapted from the teacher's
// internal/hash + internal/collision pattern used for metric-name
// collision tracking.
type StringBuilder struct {
	name     string
	values   []string
	dedup    bool
	interned map[uint64]string
}

// NewStringBuilder preallocates a string column. dedup should be true
// only for categorical columns; plain free-text/identifier columns
// pay pure hash-lookup overhead for no benefit.
func NewStringBuilder(name string, capacity int, dedup bool) *StringBuilder {
	b := &StringBuilder{name: name, values: make([]string, 0, capacity), dedup: dedup}
	if dedup {
		b.interned = make(map[uint64]string)
	}

	return b
}

func (b *StringBuilder) Name() string { return b.name }
func (b *StringBuilder) Len() int     { return len(b.values) }

// Push appends one decoded string value.
func (b *StringBuilder) Push(s string) {
	if b.dedup {
		h := hash.ID(s)
		if existing, ok := b.interned[h]; ok {
			if existing == s {
				b.values = append(b.values, existing)

				return
			}
			// Hash collision between distinct strings: fall through
			// without interning this one, no error.
		} else {
			b.interned[h] = s
		}
	}
	b.values = append(b.values, s)
}

// Values returns the accumulated values.
func (b *StringBuilder) Values() []string { return b.values }
