package dict

import (
	"encoding/binary"
	"math"

	"github.com/albertxli/ambers/endian"
	"github.com/albertxli/ambers/errs"
)

// RawValue is the undifferentiated 8-byte value stored in a type-3
// record, before the resolver decides whether it is numeric or string
// based on the variables it is linked to.
type RawValue struct {
	Numeric float64
	Raw     [8]byte
}

// ValueLabelSet pairs value/label entries (type 3) with the 0-based
// variable slot indices they apply to (type 4).
type ValueLabelSet struct {
	Labels          []ValueLabelEntry
	VariableIndices []int
}

// ValueLabelEntry is one (value, label) pair from a type-3 record.
type ValueLabelEntry struct {
	Value RawValue
	Label []byte
}

// ParseValueLabels parses a type-3 record body. The record-type tag
// must already have been consumed.
func ParseValueLabels(r *endian.Reader) ([]ValueLabelEntry, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	entries := make([]ValueLabelEntry, 0, count)
	for i := int32(0); i < count; i++ {
		valueBytes, err := r.ReadBytes(8)
		if err != nil {
			return nil, err
		}
		var raw [8]byte
		copy(raw[:], valueBytes)

		lenByte, err := r.ReadBytes(1)
		if err != nil {
			return nil, err
		}
		labelLen := int(lenByte[0])

		paddedLen := endian.RoundUp(labelLen+1, 8) - 1
		labelData, err := r.ReadBytes(paddedLen)
		if err != nil {
			return nil, err
		}
		if labelLen > len(labelData) {
			return nil, errs.InvalidValueLabelErr("label length exceeds padded buffer")
		}

		// The raw value bytes are always interpreted little-endian here,
		// matching how SPSS writes this record regardless of file
		// byte order; string/numeric disambiguation happens later in
		// the resolver once the linked variable's type is known.
		entries = append(entries, ValueLabelEntry{
			Value: RawValue{Numeric: math.Float64frombits(binary.LittleEndian.Uint64(valueBytes)), Raw: raw},
			Label: append([]byte(nil), labelData[:labelLen]...),
		})
	}

	return entries, nil
}

// ParseValueLabelVariables parses a type-4 record body into 0-based
// variable slot indices.
func ParseValueLabelVariables(r *endian.Reader) ([]int, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errs.InvalidValueLabelErr("type 4 record with 0 variables")
	}

	indices := make([]int, 0, count)
	for i := int32(0); i < count; i++ {
		idx, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		if idx < 1 {
			return nil, errs.InvalidValueLabelErr("invalid variable index in type 4 record")
		}
		indices = append(indices, int(idx-1))
	}

	return indices, nil
}
