package dict

import (
	"github.com/albertxli/ambers/endian"
	"github.com/albertxli/ambers/format"
)

// Info record subtypes, carried by type-7 records.
const (
	infoSubtypeMrSets            = 7
	infoSubtypeInteger           = 3
	infoSubtypeFloat             = 4
	infoSubtypeVarDisplay        = 11
	infoSubtypeLongNames         = 13
	infoSubtypeVeryLongStrings   = 14
	infoSubtypeEncoding          = 20
	infoSubtypeLongStringLabels  = 21
	infoSubtypeLongStringMissing = 22
)

// InfoHeader is the 12-byte header preceding every type-7 record's
// payload.
type InfoHeader struct {
	Subtype int32
	Size    int32
	Count   int32
}

// DataLen returns the payload length in bytes.
func (h InfoHeader) DataLen() int { return int(h.Size) * int(h.Count) }

// ParseInfoHeader parses the subtype/size/count triple. The record-type
// tag (7) must already have been consumed.
func ParseInfoHeader(r *endian.Reader) (InfoHeader, error) {
	subtype, err := r.ReadI32()
	if err != nil {
		return InfoHeader{}, err
	}
	size, err := r.ReadI32()
	if err != nil {
		return InfoHeader{}, err
	}
	count, err := r.ReadI32()
	if err != nil {
		return InfoHeader{}, err
	}

	return InfoHeader{Subtype: subtype, Size: size, Count: count}, nil
}

// IntegerInfo is the subtype-3 machine integer info record.
type IntegerInfo struct {
	VersionMajor     int32
	VersionMinor     int32
	VersionRevision  int32
	MachineCode      int32
	FloatingPointRep int32
	CompressionCode  int32
	Endianness       int32
	CharacterCode    int32
}

// ParseIntegerInfo parses a subtype-3 payload.
func ParseIntegerInfo(r *endian.Reader) (IntegerInfo, error) {
	fields := make([]int32, 8)
	for i := range fields {
		v, err := r.ReadI32()
		if err != nil {
			return IntegerInfo{}, err
		}
		fields[i] = v
	}

	return IntegerInfo{
		VersionMajor:     fields[0],
		VersionMinor:     fields[1],
		VersionRevision:  fields[2],
		MachineCode:      fields[3],
		FloatingPointRep: fields[4],
		CompressionCode:  fields[5],
		Endianness:       fields[6],
		CharacterCode:    fields[7],
	}, nil
}

// FloatInfo is the subtype-4 machine floating-point info record.
type FloatInfo struct {
	Sysmis  float64
	Highest float64
	Lowest  float64
}

// ParseFloatInfo parses a subtype-4 payload.
func ParseFloatInfo(r *endian.Reader) (FloatInfo, error) {
	sysmis, err := r.ReadF64()
	if err != nil {
		return FloatInfo{}, err
	}
	highest, err := r.ReadF64()
	if err != nil {
		return FloatInfo{}, err
	}
	lowest, err := r.ReadF64()
	if err != nil {
		return FloatInfo{}, err
	}

	return FloatInfo{Sysmis: sysmis, Highest: highest, Lowest: lowest}, nil
}

// VarDisplayEntry is one subtype-11 variable display entry.
type VarDisplayEntry struct {
	Measure   format.Measure
	Width     uint32
	Alignment format.Alignment
}

// ParseVarDisplay parses a subtype-11 payload. If count is divisible
// by 3 each entry carries (measure, width, alignment); otherwise the
// width field is absent and a default of 8 is used.
func ParseVarDisplay(r *endian.Reader, count int32) ([]VarDisplayEntry, error) {
	hasWidth := count%3 == 0
	nVars := int(count) / 3
	if !hasWidth {
		nVars = int(count) / 2
	}

	entries := make([]VarDisplayEntry, 0, nVars)
	for i := 0; i < nVars; i++ {
		measureCode, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		width := uint32(8)
		if hasWidth {
			w, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			width = uint32(w)
		}
		alignCode, err := r.ReadI32()
		if err != nil {
			return nil, err
		}

		entries = append(entries, VarDisplayEntry{
			Measure:   format.MeasureFromCode(measureCode),
			Width:     width,
			Alignment: format.AlignmentFromCode(alignCode),
		})
	}

	return entries, nil
}
