// Package bytecode implements SPSS's row-wise compression: a stream
// of 1-byte opcodes packed into 8-byte control blocks, interleaved
// with inline raw-data runs. Control blocks do not align to row
// boundaries, so Decompressor carries its control-block position
// across calls to DecodeRow.
package bytecode

import (
	"encoding/binary"
	"math"

	"github.com/albertxli/ambers/errs"
	"github.com/albertxli/ambers/format"
)

const (
	opSkip         = 0
	opEndOfFile    = 252
	opRawFollows   = 253
	opEightSpaces  = 254
	opSysmis       = 255
	slotSize       = 8
	controlBlockSz = 8
)

var eightSpaces = [8]byte{' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}

// Decompressor holds the state of one bytecode-compressed data
// stream: the compression bias, the current control block and index
// into it, the read position in the input buffer, and an EOF latch.
// It is not safe for concurrent use.
type Decompressor struct {
	bias       float64
	pos        int
	control    [controlBlockSz]byte
	controlIdx int
	eof        bool
}

// NewDecompressor creates a decompressor with the given compression
// bias (typically format.DefaultBias).
func NewDecompressor(bias float64) *Decompressor {
	return &Decompressor{bias: bias, controlIdx: controlBlockSz}
}

// EOF reports whether the end-of-file opcode has been seen.
func (d *Decompressor) EOF() bool { return d.eof }

// slotKind identifies the decoded shape of one opcode.
type slotKind uint8

const (
	slotNumeric slotKind = iota
	slotRaw
	slotSpaces
	slotSysmis
)

// step decodes opcodes from input until one produces a slot, returning
// that slot's kind. opSkip codes are consumed along the way without
// producing anything; ok=false is returned only at EOF or end of input.
// It advances d.pos and d.controlIdx as it consumes control blocks and
// inline data.
func (d *Decompressor) step(input []byte) (kind slotKind, numeric float64, raw [8]byte, ok bool, err error) {
	for {
		if d.controlIdx >= controlBlockSz {
			if d.pos+controlBlockSz > len(input) {
				return 0, 0, raw, false, nil
			}
			copy(d.control[:], input[d.pos:d.pos+controlBlockSz])
			d.pos += controlBlockSz
			d.controlIdx = 0
		}

		code := d.control[d.controlIdx]
		d.controlIdx++

		switch code {
		case opSkip:
			continue
		case opEndOfFile:
			d.eof = true
			return 0, 0, raw, false, nil
		case opRawFollows:
			if d.pos+slotSize > len(input) {
				return 0, 0, raw, false, errs.TruncatedFileErr(d.pos+slotSize, len(input))
			}
			copy(raw[:], input[d.pos:d.pos+slotSize])
			d.pos += slotSize

			return slotRaw, 0, raw, true, nil
		case opEightSpaces:
			return slotSpaces, 0, raw, true, nil
		case opSysmis:
			return slotSysmis, 0, raw, true, nil
		default:
			return slotNumeric, float64(code) - d.bias, raw, true, nil
		}
	}
}

// DecodeRow decompresses one row of slotsPerRow slots directly into
// dst, writing 8 bytes per slot (dst must be len slotsPerRow*8). It
// returns the number of complete slots written; a return less than
// slotsPerRow means the input was exhausted (clean EOF if 0 slots
// were written and d.EOF() is now true; otherwise a partial/truncated
// row).
func (d *Decompressor) DecodeRow(input []byte, dst []byte, slotsPerRow int) (int, error) {
	if d.eof {
		return 0, nil
	}
	if len(dst) < slotsPerRow*slotSize {
		return 0, errs.InvalidVariableErr("DecodeRow: dst buffer too small")
	}

	written := 0
	for written < slotsPerRow {
		kind, numeric, raw, ok, err := d.step(input)
		if err != nil {
			return written, err
		}
		if !ok {
			return written, nil
		}

		slot := dst[written*slotSize : (written+1)*slotSize]
		switch kind {
		case slotNumeric:
			binary.LittleEndian.PutUint64(slot, math.Float64bits(numeric))
		case slotRaw:
			copy(slot, raw[:])
		case slotSpaces:
			copy(slot, eightSpaces[:])
		case slotSysmis:
			binary.LittleEndian.PutUint64(slot, format.SysmisBits)
		}
		written++
	}

	return written, nil
}

// Slot is the tagged-value decode result used by the slow, test-only
// path (DecodeRowSlots).
type Slot struct {
	Kind    SlotKind
	Numeric float64
	Raw     [8]byte
}

// SlotKind identifies which variant of Slot is populated.
type SlotKind uint8

const (
	SlotNumeric SlotKind = iota
	SlotRaw
	SlotSpaces
	SlotSysmis
)

// DecodeRowSlots decompresses one row as a slice of tagged Slot
// values. It exists for tests and debugging; the hot path uses
// DecodeRow, which writes raw bytes with no intermediate allocation.
func (d *Decompressor) DecodeRowSlots(input []byte, slotsPerRow int) ([]Slot, error) {
	if d.eof {
		return nil, nil
	}

	slots := make([]Slot, 0, slotsPerRow)
	for len(slots) < slotsPerRow {
		kind, numeric, raw, ok, err := d.step(input)
		if err != nil {
			return slots, err
		}
		if !ok {
			return slots, nil
		}

		switch kind {
		case slotNumeric:
			slots = append(slots, Slot{Kind: SlotNumeric, Numeric: numeric})
		case slotRaw:
			slots = append(slots, Slot{Kind: SlotRaw, Raw: raw})
		case slotSpaces:
			slots = append(slots, Slot{Kind: SlotSpaces})
		case slotSysmis:
			slots = append(slots, Slot{Kind: SlotSysmis})
		}
	}

	return slots, nil
}
