// Package format holds SPSS wire-format constants: the compression
// scheme codes, the SYSMIS bit pattern, the packed print/write format
// codec, and the measurement/alignment/temporal enums used throughout
// the dictionary resolver and columnar builder.
package format

import "math"

type (
	// Compression identifies the data-section compression scheme
	// declared in the file header.
	Compression uint8
	// Measure is the statistical measurement level of a variable.
	Measure uint8
	// Alignment is the display alignment of a variable.
	Alignment uint8
	// TemporalKind classifies a numeric column's print format into a
	// temporal output type, or NotTemporal for plain numerics.
	TemporalKind uint8
)

const (
	CompressionNone     Compression = 0x1 // CompressionNone represents an uncompressed data section.
	CompressionByteCode Compression = 0x2 // CompressionByteCode represents the row-wise opcode compression.
	CompressionZlib     Compression = 0x3 // CompressionZlib represents the ZSAV outer zlib envelope.
)

const (
	MeasureUnknown Measure = 0x1
	MeasureNominal Measure = 0x2
	MeasureOrdinal Measure = 0x3
	MeasureScale   Measure = 0x4
)

const (
	AlignLeft   Alignment = 0x1
	AlignRight  Alignment = 0x2
	AlignCenter Alignment = 0x3
)

const (
	NotTemporal TemporalKind = iota
	TemporalDate
	TemporalTimestamp
	TemporalDuration
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionByteCode:
		return "ByteCode"
	case CompressionZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

// CompressionFromCode maps the header's raw compression code (0/1/2)
// to a Compression value. Any other code is a hard error for the
// caller (UnsupportedCompression).
func CompressionFromCode(code int32) (Compression, bool) {
	switch code {
	case 0:
		return CompressionNone, true
	case 1:
		return CompressionByteCode, true
	case 2:
		return CompressionZlib, true
	default:
		return 0, false
	}
}

func (m Measure) String() string {
	switch m {
	case MeasureNominal:
		return "nominal"
	case MeasureOrdinal:
		return "ordinal"
	case MeasureScale:
		return "scale"
	default:
		return "unknown"
	}
}

// MeasureFromCode maps a var-display info-record measure code.
func MeasureFromCode(code int32) Measure {
	switch code {
	case 1:
		return MeasureNominal
	case 2:
		return MeasureOrdinal
	case 3:
		return MeasureScale
	default:
		return MeasureUnknown
	}
}

func (a Alignment) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "left"
	}
}

// AlignmentFromCode maps a var-display info-record alignment code.
func AlignmentFromCode(code int32) Alignment {
	switch code {
	case 1:
		return AlignRight
	case 2:
		return AlignCenter
	default:
		return AlignLeft
	}
}

// SysmisBits is the exact IEEE-754 bit pattern SPSS uses for its
// system-missing value, equal to -DBL_MAX. Detection must compare
// bits, never use a NaN test: SYSMIS is finite.
const SysmisBits uint64 = 0xFFEF_FFFF_FFFF_FFFF

// DefaultBias is the compression bias the byte-code decoder subtracts
// from small-integer opcodes (1..=251) when no header bias is given.
const DefaultBias float64 = 100.0

// Sysmis returns the SYSMIS value as a float64.
func Sysmis() float64 { return math.Float64frombits(SysmisBits) }

// IsSysmis reports whether v is bit-for-bit the SYSMIS pattern.
func IsSysmis(v float64) bool { return math.Float64bits(v) == SysmisBits }
