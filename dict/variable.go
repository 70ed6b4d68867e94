// Package dict parses the SAV/ZSAV dictionary section: variable
// records, value labels, documents, and the type-7 info record family,
// then resolves them into one Metadata aggregate ready for the
// columnar data phase.
package dict

import (
	"strings"

	"github.com/albertxli/ambers/endian"
	"github.com/albertxli/ambers/errs"
	"github.com/albertxli/ambers/format"
)

// VarKind distinguishes the two physical storage kinds a variable can
// have.
type VarKind uint8

const (
	VarNumeric VarKind = iota
	VarString
)

// VarType is a variable's storage type: numeric, or string of a given
// declared width (which may exceed 255 for a resolved very-long
// string).
type VarType struct {
	Kind  VarKind
	Width int
}

// NSlots returns the number of 8-byte physical row slots this type
// occupies.
func (t VarType) NSlots() int {
	if t.Kind == VarNumeric {
		return 1
	}

	return (t.Width + 7) / 8
}

// MissingKind identifies which shape of missing-value specification a
// variable carries.
type MissingKind uint8

const (
	MissingNone MissingKind = iota
	MissingDiscreteNumeric
	MissingRange
	MissingRangeAndValue
	MissingDiscreteString
)

// MissingValues is a variable's raw missing-value specification as
// stored in its type-2 record, before resolution into public
// MissingSpec values.
type MissingValues struct {
	Kind            MissingKind
	Discrete        []float64
	Low, High, Value float64
	DiscreteStrings [][]byte
}

// VariableRecord is one parsed type-2 dictionary record.
type VariableRecord struct {
	SlotIndex    int
	RawType      int32
	ShortName    string
	LongName     string
	Label        []byte
	PrintFormat  *format.SpssFormat
	WriteFormat  *format.SpssFormat
	Missing      MissingValues
	VarType      VarType
	IsGhost      bool
	Measure      format.Measure
	DisplayWidth uint32
	Alignment    format.Alignment
	NSegments    int
}

// ParseVariableRecord parses one type-2 record. The record-type i32
// tag must already have been consumed by the caller.
func ParseVariableRecord(r *endian.Reader, slotIndex int) (*VariableRecord, error) {
	rawType, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	hasLabel, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	nMissing, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	printPacked, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	writePacked, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	nameBytes, err := r.ReadBytes(8)
	if err != nil {
		return nil, err
	}
	shortName := strings.ToUpper(string(endian.TrimTrailingPadding(nameBytes)))

	var varType VarType
	isGhost := false
	switch {
	case rawType == 0:
		varType = VarType{Kind: VarNumeric}
	case rawType > 0:
		varType = VarType{Kind: VarString, Width: int(rawType)}
	default:
		varType = VarType{Kind: VarNumeric}
		isGhost = true
	}

	var label []byte
	if hasLabel == 1 {
		labelLen, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		padded := endian.RoundUp(int(labelLen), 4)
		labelBytes, err := r.ReadBytes(padded)
		if err != nil {
			return nil, err
		}
		if int(labelLen) > len(labelBytes) {
			return nil, errs.InvalidVariableErr("variable label length exceeds padded buffer")
		}
		label = append([]byte(nil), labelBytes[:labelLen]...)
	}

	missing, err := parseMissingValues(r, nMissing, varType)
	if err != nil {
		return nil, err
	}

	var printFormat, writeFormat *format.SpssFormat
	if pf, ok := format.FromPacked(printPacked); ok {
		printFormat = &pf
	}
	if wf, ok := format.FromPacked(writePacked); ok {
		writeFormat = &wf
	}

	displayWidth := uint32(8)
	if printFormat != nil {
		displayWidth = uint32(printFormat.Width)
	}

	return &VariableRecord{
		SlotIndex:    slotIndex,
		RawType:      rawType,
		ShortName:    shortName,
		LongName:     shortName,
		Label:        label,
		PrintFormat:  printFormat,
		WriteFormat:  writeFormat,
		Missing:      missing,
		VarType:      varType,
		IsGhost:      isGhost,
		Measure:      format.MeasureUnknown,
		DisplayWidth: displayWidth,
		Alignment:    format.AlignLeft,
		NSegments:    1,
	}, nil
}

func parseMissingValues(r *endian.Reader, nMissing int32, varType VarType) (MissingValues, error) {
	if nMissing == 0 {
		return MissingValues{Kind: MissingNone}, nil
	}

	absN := int(nMissing)
	isRange := absN < 0
	if isRange {
		absN = -absN
	}

	if varType.Kind == VarString {
		values := make([][]byte, 0, absN)
		for i := 0; i < absN; i++ {
			b, err := r.ReadBytes(8)
			if err != nil {
				return MissingValues{}, err
			}
			values = append(values, b)
		}

		return MissingValues{Kind: MissingDiscreteString, DiscreteStrings: values}, nil
	}

	values := make([]float64, 0, absN)
	for i := 0; i < absN; i++ {
		v, err := r.ReadF64()
		if err != nil {
			return MissingValues{}, err
		}
		values = append(values, v)
	}

	if isRange {
		switch absN {
		case 2:
			return MissingValues{Kind: MissingRange, Low: values[0], High: values[1]}, nil
		case 3:
			return MissingValues{Kind: MissingRangeAndValue, Low: values[0], High: values[1], Value: values[2]}, nil
		default:
			return MissingValues{Kind: MissingDiscreteNumeric, Discrete: values}, nil
		}
	}

	return MissingValues{Kind: MissingDiscreteNumeric, Discrete: values}, nil
}
