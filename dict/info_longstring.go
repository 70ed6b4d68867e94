package dict

import (
	"encoding/binary"
	"strings"

	"github.com/albertxli/ambers/errs"
)

// LongStringLabelSet is one variable's value-label set from subtype 21.
type LongStringLabelSet struct {
	VarName string
	Labels  []LongStringLabelEntry
}

// LongStringLabelEntry is one (value, label) pair within a subtype-21
// set; both fields are raw bytes in the file's declared encoding.
type LongStringLabelEntry struct {
	Value []byte
	Label []byte
}

// ParseLongStringLabels parses subtype 21:
//
//	repeated { i32 name_len; name; i32 label_count;
//	           repeated { i32 value_len; value; i32 label_len; label } }
func ParseLongStringLabels(data []byte) ([]LongStringLabelSet, error) {
	var result []LongStringLabelSet
	pos := 0

	for pos+4 <= len(data) {
		nameLen, err := readI32LE(data, pos)
		if err != nil {
			return nil, err
		}
		pos += 4
		if pos+nameLen > len(data) {
			break
		}
		varName := strings.TrimSpace(string(data[pos : pos+nameLen]))
		pos += nameLen

		if pos+4 > len(data) {
			break
		}
		labelCount, err := readI32LE(data, pos)
		if err != nil {
			return nil, err
		}
		pos += 4

		labels := make([]LongStringLabelEntry, 0, labelCount)
		for i := 0; i < labelCount; i++ {
			if pos+4 > len(data) {
				break
			}
			valueLen, err := readI32LE(data, pos)
			if err != nil {
				return nil, err
			}
			pos += 4
			if pos+valueLen > len(data) {
				break
			}
			value := append([]byte(nil), data[pos:pos+valueLen]...)
			pos += valueLen

			if pos+4 > len(data) {
				break
			}
			labelLen, err := readI32LE(data, pos)
			if err != nil {
				return nil, err
			}
			pos += 4
			if pos+labelLen > len(data) {
				break
			}
			label := append([]byte(nil), data[pos:pos+labelLen]...)
			pos += labelLen

			labels = append(labels, LongStringLabelEntry{Value: value, Label: label})
		}

		result = append(result, LongStringLabelSet{VarName: varName, Labels: labels})
	}

	return result, nil
}

// LongStringMissingEntry is one variable's missing-value spec from
// subtype 22.
type LongStringMissingEntry struct {
	VarName string
	Values  [][]byte
}

// ParseLongStringMissing parses subtype 22:
//
//	repeated { i32 name_len; name; u8 n_values; i32 value_len;
//	           repeated { value_len bytes } }
func ParseLongStringMissing(data []byte) ([]LongStringMissingEntry, error) {
	var result []LongStringMissingEntry
	pos := 0

	for pos+4 <= len(data) {
		nameLen, err := readI32LE(data, pos)
		if err != nil {
			return nil, err
		}
		pos += 4
		if pos+nameLen > len(data) {
			break
		}
		varName := strings.TrimSpace(string(data[pos : pos+nameLen]))
		pos += nameLen

		if pos >= len(data) {
			break
		}
		nValues := int(data[pos])
		pos++

		if pos+4 > len(data) {
			break
		}
		valueLen, err := readI32LE(data, pos)
		if err != nil {
			return nil, err
		}
		pos += 4

		values := make([][]byte, 0, nValues)
		for i := 0; i < nValues; i++ {
			if pos+valueLen > len(data) {
				break
			}
			values = append(values, append([]byte(nil), data[pos:pos+valueLen]...))
			pos += valueLen
		}

		result = append(result, LongStringMissingEntry{VarName: varName, Values: values})
	}

	return result, nil
}

func readI32LE(data []byte, pos int) (int, error) {
	if pos+4 > len(data) {
		return 0, errs.TruncatedFileErr(pos+4, len(data))
	}

	return int(int32(binary.LittleEndian.Uint32(data[pos : pos+4]))), nil
}
