// Package header parses the fixed 176-byte SAV/ZSAV file prologue,
// including the endianness probe that determines the byte-order
// engine used for the rest of the file.
package header

import (
	"github.com/albertxli/ambers/endian"
	"github.com/albertxli/ambers/errs"
	"github.com/albertxli/ambers/format"
)

// Header is the parsed fixed-layout file prologue.
type Header struct {
	Magic           [4]byte
	Product         string
	NominalCaseSize int32
	Compression     format.Compression
	WeightIndex     int32
	// CaseCount is the declared row count, or nil if the file doesn't
	// know it (header field negative).
	CaseCount    *int64
	Bias         float64
	CreationDate string
	CreationTime string
	FileLabel    string
	BigEndian    bool
}

// magicZSAV and magicSAV are the only two accepted magics.
var (
	magicSAV  = [4]byte{'$', 'F', 'L', '2'}
	magicZSAV = [4]byte{'$', 'F', 'L', '3'}
)

// Parse reads the 176-byte header from r, probing endianness from the
// layout-code field and installing the resolved engine on r for all
// subsequent reads.
func Parse(r *endian.Reader) (*Header, error) {
	magicBytes, err := r.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	var magic [4]byte
	copy(magic[:], magicBytes)
	if magic != magicSAV && magic != magicZSAV {
		return nil, errs.InvalidMagicErr(magicBytes)
	}

	productBytes, err := r.ReadBytes(60)
	if err != nil {
		return nil, err
	}
	product := string(endian.TrimTrailingPadding(productBytes))

	layoutBytes, err := r.ReadBytes(4)
	if err != nil {
		return nil, err
	}

	bigEndian, ok := detectEndianness(layoutBytes)
	if !ok {
		return nil, errs.InvalidVariableErr("cannot determine endianness from layout_code bytes")
	}
	if bigEndian {
		r.SetEngine(endian.GetBigEndianEngine())
	} else {
		r.SetEngine(endian.GetLittleEndianEngine())
	}

	nominalCaseSize, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	compressionCode, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	compression, ok := format.CompressionFromCode(compressionCode)
	if !ok {
		return nil, errs.UnsupportedCompressionErr(compressionCode)
	}

	weightIndex, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	rawCaseCount, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	var caseCount *int64
	if rawCaseCount >= 0 {
		n := int64(rawCaseCount)
		caseCount = &n
	}

	bias, err := r.ReadF64()
	if err != nil {
		return nil, err
	}

	dateBytes, err := r.ReadBytes(9)
	if err != nil {
		return nil, err
	}

	timeBytes, err := r.ReadBytes(8)
	if err != nil {
		return nil, err
	}

	labelBytes, err := r.ReadBytes(64)
	if err != nil {
		return nil, err
	}

	if err := r.Skip(3); err != nil {
		return nil, err
	}

	return &Header{
		Magic:           magic,
		Product:         product,
		NominalCaseSize: nominalCaseSize,
		Compression:     compression,
		WeightIndex:     weightIndex,
		CaseCount:       caseCount,
		Bias:            bias,
		CreationDate:    string(endian.TrimTrailingPadding(dateBytes)),
		CreationTime:    string(endian.TrimTrailingPadding(timeBytes)),
		FileLabel:       string(endian.TrimTrailingPadding(labelBytes)),
		BigEndian:       bigEndian,
	}, nil
}

// detectEndianness tries the layout-code field under both byte
// orders; whichever decodes to 2 or 3 wins. Reports false if neither
// does.
func detectEndianness(layoutBytes []byte) (bigEndian, ok bool) {
	le := endian.GetLittleEndianEngine().Uint32(layoutBytes)
	be := endian.GetBigEndianEngine().Uint32(layoutBytes)

	switch int32(le) {
	case 2, 3:
		return false, true
	}
	switch int32(be) {
	case 2, 3:
		return true, true
	}

	return false, false
}

// FileFormat returns "sav" or "zsav" per the header's compression
// scheme.
func (h *Header) FileFormat() string {
	if h.Compression == format.CompressionZlib {
		return "zsav"
	}

	return "sav"
}
