// Package scan ties the header, dictionary, decompression, and
// columnar layers together into one streaming reader: Open parses the
// header and dictionary once, then NextBatch/CollectSingle/CollectAll
// decode rows on demand, only as far as the caller asks. Byte-code and
// zlib payloads are read (and zlib blocks inflated) in full by Open;
// uncompressed rows are read from the source batch by batch.
package scan

import (
	"io"
	"math"

	"github.com/albertxli/ambers/bytecode"
	"github.com/albertxli/ambers/columnar"
	"github.com/albertxli/ambers/dict"
	"github.com/albertxli/ambers/endian"
	"github.com/albertxli/ambers/errs"
	"github.com/albertxli/ambers/format"
	"github.com/albertxli/ambers/header"
	"github.com/albertxli/ambers/internal/options"
	"github.com/albertxli/ambers/zblock"
)

// maxChunkBytes bounds a single uncompressed read to roughly this many
// bytes, so wide files don't force a multi-gigabyte allocation and the
// working set stays manageable across repeated PushRawChunk calls.
const maxChunkBytes = 256 * 1024 * 1024

// minChunkRows is the floor on chunk size even for very wide rows.
const minChunkRows = 1024

// defaultCapacityHint caps the capacity hint when the file doesn't
// declare a case count.
const defaultCapacityHint = 1000

// capacityCeiling is the hard ceiling on any single capacity hint,
// regardless of how large a row count the caller or header requests.
const capacityCeiling = 1_000_000

// scanState distinguishes the three compression modes, each of which
// drives data-reading differently after the header/dictionary phase.
type scanState uint8

const (
	stateUncompressed scanState = iota
	stateBytecode
	stateZlib
)

// Scanner is a streaming reader over one SAV/ZSAV file. Metadata and
// dictionary are parsed immediately on Open; row data is read lazily.
type Scanner struct {
	src          io.ReadSeeker
	reader       *endian.Reader
	rd           *dict.ResolvedDictionary
	batchSize    int
	projection   []string
	rowLimit     *int
	rowsRead     int
	state        scanState
	decompressor *bytecode.Decompressor
	compressed   []byte // materialized bytecode-compressed stream (bytecode or zlib-unwrapped)
	eof          bool
}

// Open parses the header and dictionary, then prepares compression
// state: uncompressed files read directly on demand, bytecode and
// zlib files materialize their (post zlib-unwrap, for zlib)
// byte-code-compressed payload into memory immediately, matching the
// original reader's own eager-materialization strategy. Batch size,
// column projection, and row limit are set via Option values (see
// WithBatchSize, WithProjection, WithLimit).
func Open(src io.ReadSeeker, opts ...Option) (*Scanner, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	reader := endian.NewReader(src)

	h, err := header.Parse(reader)
	if err != nil {
		return nil, err
	}

	raw, err := dict.ParseDictionary(reader, h)
	if err != nil {
		return nil, err
	}

	rd, err := dict.ResolveDictionary(raw)
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		src:       src,
		reader:    reader,
		rd:        rd,
		batchSize: cfg.batchSize,
		rowLimit:  cfg.rowLimit,
	}
	if cfg.projection != nil {
		if err := s.Select(cfg.projection); err != nil {
			return nil, err
		}
	}

	switch h.Compression {
	case format.CompressionNone:
		s.state = stateUncompressed
	case format.CompressionByteCode:
		data, err := reader.ReadAll()
		if err != nil {
			return nil, err
		}
		s.state = stateBytecode
		s.compressed = data
		s.decompressor = bytecode.NewDecompressor(h.Bias)
	case format.CompressionZlib:
		zheader, err := zblock.ReadHeader(reader)
		if err != nil {
			return nil, err
		}
		trailer, err := zblock.ReadTrailer(reader, zheader)
		if err != nil {
			return nil, err
		}
		data, err := zblock.DecompressBlocks(reader, trailer)
		if err != nil {
			return nil, err
		}
		s.state = stateZlib
		s.compressed = data
		s.decompressor = bytecode.NewDecompressor(h.Bias)
	default:
		return nil, errs.UnsupportedCompressionErr(int32(h.Compression))
	}

	return s, nil
}

// Metadata returns the resolved file metadata.
func (s *Scanner) Metadata() *dict.Metadata { return s.rd.Metadata }

// Close releases the underlying source, if it implements io.Closer.
// Scanners opened over an in-memory reader (bytes.Reader and similar)
// need not call Close.
func (s *Scanner) Close() error {
	if c, ok := s.src.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

// Schema returns the output schema, respecting any projection set via
// Select.
func (s *Scanner) Schema() (columnar.Schema, error) {
	_, schema, err := columnar.BuildColumnMappings(s.rd, s.projection)

	return schema, err
}

// Select restricts subsequent reads to the named columns, in the
// given order. Returns an error if any name is not a known variable.
func (s *Scanner) Select(columns []string) error {
	if _, _, err := columnar.BuildColumnMappings(s.rd, columns); err != nil {
		return err
	}
	s.projection = columns

	return nil
}

// Limit stops reading after n rows total.
func (s *Scanner) Limit(n int) { s.rowLimit = &n }

// RowsRead reports how many rows have been read so far.
func (s *Scanner) RowsRead() int { return s.rowsRead }

func (s *Scanner) capacityHint(n int) int {
	ncases := defaultCapacityHint
	if s.rd.Header.CaseCount != nil {
		ncases = int(*s.rd.Header.CaseCount)
	}
	if n < ncases {
		ncases = n
	}
	if ncases > capacityCeiling {
		ncases = capacityCeiling
	}

	return ncases
}

// NextBatch reads up to batchSize rows (fewer at EOF or a row limit),
// returning nil with no error once there is nothing left to read.
func (s *Scanner) NextBatch() (*columnar.Batch, error) {
	if s.eof {
		return nil, nil
	}

	remaining := s.remainingRows()
	if remaining == 0 {
		s.eof = true

		return nil, nil
	}

	n := s.batchSize
	if remaining < n {
		n = remaining
	}

	batch, err := s.readBatch(n)
	if err != nil {
		return nil, err
	}
	if batch == nil || batch.NumRows() == 0 {
		s.eof = true

		return nil, nil
	}

	s.rowsRead += batch.NumRows()

	return batch, nil
}

// CollectSingle reads every remaining row (up to any row limit) as one
// batch.
func (s *Scanner) CollectSingle() (*columnar.Batch, error) {
	remaining := s.remainingRows()

	batch, err := s.readBatch(remaining)
	if err != nil {
		return nil, err
	}
	s.eof = true
	if batch == nil {
		_, schema, err := columnar.BuildColumnMappings(s.rd, s.projection)
		if err != nil {
			return nil, err
		}

		return &columnar.Batch{Schema: schema}, nil
	}
	s.rowsRead += batch.NumRows()

	return batch, nil
}

// CollectAll reads every remaining row as a sequence of batchSize
// batches.
func (s *Scanner) CollectAll() ([]*columnar.Batch, error) {
	var batches []*columnar.Batch
	for {
		batch, err := s.NextBatch()
		if err != nil {
			return nil, err
		}
		if batch == nil {
			break
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

func (s *Scanner) remainingRows() int {
	if s.rowLimit == nil {
		return math.MaxInt
	}
	if s.rowsRead >= *s.rowLimit {
		return 0
	}

	return *s.rowLimit - s.rowsRead
}

func (s *Scanner) readBatch(n int) (*columnar.Batch, error) {
	if n == 0 {
		return nil, nil
	}

	capHint := s.capacityHint(n)
	builder, err := columnar.NewBuilder(s.rd, s.projection, capHint)
	if err != nil {
		return nil, err
	}

	switch s.state {
	case stateUncompressed:
		if err := s.readUncompressed(builder, n); err != nil {
			return nil, err
		}
	default:
		if err := s.readCompressed(builder, n); err != nil {
			return nil, err
		}
	}

	if builder.Len() == 0 {
		return nil, nil
	}

	return builder.Finish(), nil
}

func (s *Scanner) readUncompressed(builder *columnar.Builder, n int) error {
	slotsPerRow := int(s.rd.Header.NominalCaseSize)
	rowBytes := slotsPerRow * 8

	chunkRows := maxChunkBytes / rowBytes
	if chunkRows < minChunkRows {
		chunkRows = minChunkRows
	}
	if hint := s.capacityHint(n); hint < chunkRows {
		chunkRows = hint
	}
	if chunkRows < 1 {
		chunkRows = 1
	}

	buf := make([]byte, chunkRows*rowBytes)

	rowsRemaining := n
	for rowsRemaining > 0 {
		toRead := chunkRows
		if rowsRemaining < toRead {
			toRead = rowsRemaining
		}
		readBytes := toRead * rowBytes

		actual, err := s.reader.ReadPartial(buf[:readBytes])
		if err != nil {
			return err
		}
		if rem := actual % rowBytes; rem != 0 {
			return errs.TruncatedFileErr(rowBytes, rem)
		}
		actualRows := actual / rowBytes
		if actualRows == 0 {
			break
		}

		if err := builder.PushRawChunk(buf[:actualRows*rowBytes], actualRows, slotsPerRow); err != nil {
			return err
		}
		rowsRemaining -= actualRows
		if actualRows < toRead {
			break // clean EOF: fewer rows in the file than requested
		}
	}

	return nil
}

func (s *Scanner) readCompressed(builder *columnar.Builder, n int) error {
	slotsPerRow := int(s.rd.Header.NominalCaseSize)
	row := make([]byte, slotsPerRow*8)

	for i := 0; i < n; i++ {
		written, err := s.decompressor.DecodeRow(s.compressed, row, slotsPerRow)
		if err != nil {
			return err
		}
		if written == 0 {
			break // clean end of stream between rows
		}
		if written < slotsPerRow {
			return errs.TruncatedFileErr(slotsPerRow, written)
		}
		builder.PushSlotRow(row)
	}

	return nil
}
