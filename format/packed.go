package format

import "fmt"

// FormatType identifies an SPSS print/write format family, decoded
// from the high byte of a packed format specification.
type FormatType uint8

const (
	FormatA        FormatType = 1
	FormatAHex     FormatType = 2
	FormatComma    FormatType = 3
	FormatDollar   FormatType = 4
	FormatF        FormatType = 5
	FormatIB       FormatType = 6
	FormatPIBHex   FormatType = 7
	FormatP        FormatType = 8
	FormatPIB      FormatType = 9
	FormatPK       FormatType = 10
	FormatRB       FormatType = 11
	FormatRBHex    FormatType = 12
	FormatZ        FormatType = 15
	FormatN        FormatType = 16
	FormatE        FormatType = 17
	FormatDate     FormatType = 20
	FormatTime     FormatType = 21
	FormatDateTime FormatType = 22
	FormatADate    FormatType = 23
	FormatJDate    FormatType = 24
	FormatDTime    FormatType = 25
	FormatWkday    FormatType = 26
	FormatMonth    FormatType = 27
	FormatMoyr     FormatType = 28
	FormatQyr      FormatType = 29
	FormatWkyr     FormatType = 30
	FormatPct      FormatType = 31
	FormatDot      FormatType = 32
	FormatCCA      FormatType = 33
	FormatCCB      FormatType = 34
	FormatCCC      FormatType = 35
	FormatCCD      FormatType = 36
	FormatCCE      FormatType = 37
	FormatEDate    FormatType = 38
	FormatSDate    FormatType = 39
	FormatMTime    FormatType = 40
	FormatYMDHMS   FormatType = 41
)

var formatPrefixes = map[FormatType]string{
	FormatA: "A", FormatAHex: "AHEX", FormatComma: "COMMA", FormatDollar: "DOLLAR",
	FormatF: "F", FormatIB: "IB", FormatPIBHex: "PIBHEX", FormatP: "P",
	FormatPIB: "PIB", FormatPK: "PK", FormatRB: "RB", FormatRBHex: "RBHEX",
	FormatZ: "Z", FormatN: "N", FormatE: "E", FormatDate: "DATE",
	FormatTime: "TIME", FormatDateTime: "DATETIME", FormatADate: "ADATE",
	FormatJDate: "JDATE", FormatDTime: "DTIME", FormatWkday: "WKDAY",
	FormatMonth: "MONTH", FormatMoyr: "MOYR", FormatQyr: "QYR", FormatWkyr: "WKYR",
	FormatPct: "PCT", FormatDot: "DOT", FormatCCA: "CCA", FormatCCB: "CCB",
	FormatCCC: "CCC", FormatCCD: "CCD", FormatCCE: "CCE", FormatEDate: "EDATE",
	FormatSDate: "SDATE", FormatMTime: "MTIME", FormatYMDHMS: "YMDHMS",
}

// IsString reports whether this format family denotes a string
// variable (A / AHEX).
func (f FormatType) IsString() bool {
	return f == FormatA || f == FormatAHex
}

// Prefix returns this format family's SPSS display prefix, e.g. "F"
// for FormatF or "DATE" for FormatDate.
func (f FormatType) Prefix() string {
	return formatPrefixes[f]
}

// Temporal classifies this format family into the output column kind
// it drives, per the print-format-to-temporal-kind table.
func (f FormatType) Temporal() TemporalKind {
	switch f {
	case FormatDate, FormatADate, FormatJDate, FormatEDate, FormatSDate:
		return TemporalDate
	case FormatDateTime, FormatYMDHMS:
		return TemporalTimestamp
	case FormatTime, FormatDTime, FormatMTime:
		return TemporalDuration
	default:
		return NotTemporal
	}
}

func formatTypeFromByte(b byte) (FormatType, bool) {
	ft := FormatType(b)
	if _, ok := formatPrefixes[ft]; !ok {
		return 0, false
	}

	return ft, true
}

// SpssFormat is a decoded packed print/write format: the format
// family plus display width and decimal-place count.
type SpssFormat struct {
	Type     FormatType
	Width    uint8
	Decimals uint8
}

// FromPacked decodes a packed i32 format specification laid out as
// (type << 16) | (width << 8) | decimals. Reports false if the type
// byte is not a recognized format family.
func FromPacked(packed int32) (SpssFormat, bool) {
	raw := uint32(packed)
	typeByte := byte((raw >> 16) & 0xFF)
	width := byte((raw >> 8) & 0xFF)
	decimals := byte(raw & 0xFF)

	ft, ok := formatTypeFromByte(typeByte)
	if !ok {
		return SpssFormat{}, false
	}

	return SpssFormat{Type: ft, Width: width, Decimals: decimals}, true
}

// String renders the SPSS display form, e.g. "F8.2", "A50", "DATE11".
func (f SpssFormat) String() string {
	prefix := formatPrefixes[f.Type]
	if f.Type.IsString() {
		return fmt.Sprintf("%s%d", prefix, f.Width)
	}
	if f.Decimals > 0 {
		return fmt.Sprintf("%s%d.%d", prefix, f.Width, f.Decimals)
	}

	return fmt.Sprintf("%s%d", prefix, f.Width)
}
