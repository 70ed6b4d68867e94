package columnar

import (
	"encoding/binary"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/albertxli/ambers/dict"
	"github.com/albertxli/ambers/endian"
	"github.com/albertxli/ambers/format"
	"github.com/albertxli/ambers/internal/pool"
)

// wideRowThreshold is the row byte footprint above which the tiled
// parallel strategy takes over from plain column-at-a-time
// parallelism, to keep each tile's working set L3-resident.
const wideRowThreshold = 12288

// parallelRowThreshold is the minimum row count, for rows at or below
// wideRowThreshold, at which column-at-a-time parallelism pays for
// its goroutine overhead.
const parallelRowThreshold = 10000

// tileByteBudget targets L3 residency for one tile of rows.
const tileByteBudget = 4 * 1024 * 1024

const minTileRows = 64

// Builder accumulates one record batch by repeatedly consuming
// contiguous raw row chunks, dispatching to a cache-aware strategy
// based on row width and count, then converting any temporal columns
// once in Finish.
type Builder struct {
	mappings     []ColumnMapping
	builders     []ColBuilder
	schema       Schema
	fileEncoding dict.FileEncoding
	rowsAppended int
}

// NewBuilder creates a builder for the given resolved dictionary and
// optional column projection (nil selects every visible variable).
func NewBuilder(rd *dict.ResolvedDictionary, projection []string, capacity int) (*Builder, error) {
	mappings, schema, err := BuildColumnMappings(rd, projection)
	if err != nil {
		return nil, err
	}

	builders := make([]ColBuilder, len(mappings))
	for i, m := range mappings {
		if m.VarType.Kind == dict.VarString {
			builders[i] = NewStringBuilder(m.Name, capacity, m.Categorical)
		} else {
			builders[i] = NewFloat64Builder(m.Name, capacity)
		}
	}

	return &Builder{
		mappings:     mappings,
		builders:     builders,
		schema:       schema,
		fileEncoding: rd.FileEncoding,
	}, nil
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int { return b.rowsAppended }

// Schema returns the output schema this builder was built under.
func (b *Builder) Schema() Schema { return b.schema }

// PushRawChunk consumes a contiguous numRows*slotsPerRow*8-byte buffer,
// dispatching to the tiled, parallel, or sequential strategy per the
// row's byte footprint and row count.
func (b *Builder) PushRawChunk(chunk []byte, numRows, slotsPerRow int) error {
	rowBytes := slotsPerRow * 8

	var err error
	switch {
	case rowBytes > wideRowThreshold:
		err = b.pushTiled(chunk, numRows, rowBytes)
	case numRows >= parallelRowThreshold:
		err = b.pushParallelColumns(chunk, 0, numRows, rowBytes)
	default:
		b.pushSequential(chunk, 0, numRows, rowBytes)
	}
	if err != nil {
		return err
	}

	b.rowsAppended += numRows

	return nil
}

// PushSlotRow appends one already-decompressed row (slotsPerRow*8
// bytes) for the byte-code/zlib compressed paths, which produce rows
// one at a time.
func (b *Builder) PushSlotRow(row []byte) {
	b.pushSequential(row, 0, 1, len(row))
	b.rowsAppended++
}

func (b *Builder) pushTiled(chunk []byte, numRows, rowBytes int) error {
	tileRows := tileByteBudget / rowBytes
	if tileRows < minTileRows {
		tileRows = minTileRows
	}

	for rowStart := 0; rowStart < numRows; rowStart += tileRows {
		n := tileRows
		if rowStart+n > numRows {
			n = numRows - rowStart
		}
		if err := b.pushParallelColumns(chunk, rowStart, n, rowBytes); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) pushParallelColumns(chunk []byte, rowStart, numRows, rowBytes int) error {
	g := new(errgroup.Group)
	for i := range b.builders {
		i := i
		g.Go(func() error {
			return b.pushColumnRange(i, chunk, rowStart, numRows, rowBytes)
		})
	}

	return g.Wait()
}

func (b *Builder) pushSequential(chunk []byte, rowStart, numRows, rowBytes int) {
	for i := range b.builders {
		_ = b.pushColumnRange(i, chunk, rowStart, numRows, rowBytes)
	}
}

func (b *Builder) pushColumnRange(col int, chunk []byte, rowStart, numRows, rowBytes int) error {
	mapping := b.mappings[col]

	if mapping.VarType.Kind == dict.VarNumeric {
		fb := b.builders[col].(*Float64Builder)
		slotOffset := mapping.StartSlot * 8
		for row := rowStart; row < rowStart+numRows; row++ {
			offset := row*rowBytes + slotOffset
			bits := binary.LittleEndian.Uint64(chunk[offset : offset+8])
			val := math.Float64frombits(bits)
			if format.IsSysmis(val) || math.IsNaN(val) || math.IsInf(val, 0) {
				fb.PushNull()
			} else {
				fb.PushValue(val)
			}
		}

		return nil
	}

	sb := b.builders[col].(*StringBuilder)
	scratch := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(scratch)

	for row := rowStart; row < rowStart+numRows; row++ {
		scratch.Reset()
		rowStartByte := row * rowBytes

		if mapping.NSegments <= 1 {
			nSlots := mapping.VarType.NSlots()
			start := rowStartByte + mapping.StartSlot*8
			scratch.MustWrite(chunk[start : start+nSlots*8])
		} else {
			slot := mapping.StartSlot
			for _, seg := range mapping.Segments {
				start := rowStartByte + slot*8
				scratch.MustWrite(chunk[start : start+seg.usefulBytes])
				slot += 32
			}
		}

		buf := scratch.Bytes()
		if len(buf) > mapping.VarType.Width {
			buf = buf[:mapping.VarType.Width]
		}
		trimmed := endian.TrimTrailingPadding(buf)
		sb.Push(b.fileEncoding.DecodeLossy(trimmed))
	}

	return nil
}
