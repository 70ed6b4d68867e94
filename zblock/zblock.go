// Package zblock implements the ZSAV zlib block layer: the ZHeader/
// ZTrailer footer format and parallel decompression of the compressed
// block table into one contiguous buffer. The decompressed buffer is
// itself a byte-code-compressed stream, to be handed to package
// bytecode.
package zblock

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/sync/errgroup"

	"github.com/albertxli/ambers/endian"
	"github.com/albertxli/ambers/errs"
)

// Header is the 24-byte ZSAV zlib header, read immediately after the
// dictionary terminator.
type Header struct {
	ZHeaderOffset  int64
	ZTrailerOffset int64
	ZTrailerLength int64
}

// Trailer is the ZSAV trailer: compression parameters plus the block
// table.
type Trailer struct {
	Bias      int64
	Zero      int64
	BlockSize int32
	NBlocks   int32
	Entries   []TrailerEntry
}

// TrailerEntry locates one compressed block and its uncompressed
// counterpart.
type TrailerEntry struct {
	UncompressedOffset int64
	CompressedOffset   int64
	UncompressedSize   int32
	CompressedSize     int32
}

// ReadHeader reads the 24-byte ZHeader.
func ReadHeader(r *endian.Reader) (Header, error) {
	zheaderOffset, err := r.ReadI64()
	if err != nil {
		return Header{}, err
	}
	ztrailerOffset, err := r.ReadI64()
	if err != nil {
		return Header{}, err
	}
	ztrailerLength, err := r.ReadI64()
	if err != nil {
		return Header{}, err
	}

	return Header{
		ZHeaderOffset:  zheaderOffset,
		ZTrailerOffset: ztrailerOffset,
		ZTrailerLength: ztrailerLength,
	}, nil
}

// ReadTrailer seeks to h.ZTrailerOffset and reads the ZTrailer,
// including its block table.
func ReadTrailer(r *endian.Reader, h Header) (Trailer, error) {
	if err := r.SeekTo(h.ZTrailerOffset); err != nil {
		return Trailer{}, err
	}

	bias, err := r.ReadI64()
	if err != nil {
		return Trailer{}, err
	}
	zero, err := r.ReadI64()
	if err != nil {
		return Trailer{}, err
	}
	blockSize, err := r.ReadI32()
	if err != nil {
		return Trailer{}, err
	}
	nBlocks, err := r.ReadI32()
	if err != nil {
		return Trailer{}, err
	}

	entries := make([]TrailerEntry, 0, nBlocks)
	for i := int32(0); i < nBlocks; i++ {
		uncompressedOffset, err := r.ReadI64()
		if err != nil {
			return Trailer{}, err
		}
		compressedOffset, err := r.ReadI64()
		if err != nil {
			return Trailer{}, err
		}
		uncompressedSize, err := r.ReadI32()
		if err != nil {
			return Trailer{}, err
		}
		compressedSize, err := r.ReadI32()
		if err != nil {
			return Trailer{}, err
		}
		entries = append(entries, TrailerEntry{
			UncompressedOffset: uncompressedOffset,
			CompressedOffset:   compressedOffset,
			UncompressedSize:   uncompressedSize,
			CompressedSize:     compressedSize,
		})
	}

	return Trailer{Bias: bias, Zero: zero, BlockSize: blockSize, NBlocks: nBlocks, Entries: entries}, nil
}

// DecompressBlocks reads every compressed block named in trailer and
// decompresses them into one pre-allocated output buffer.
//
// Phase 1 (sequential I/O): seek and read each compressed block.
// Phase 2 (parallel CPU): decompress all blocks concurrently, each
// directly into its own non-overlapping window of the output buffer
// — no per-block allocation, no final concatenation copy.
func DecompressBlocks(r *endian.Reader, trailer Trailer) ([]byte, error) {
	type pending struct {
		compressed []byte
		size       int
		offset     int
	}

	blocks := make([]pending, len(trailer.Entries))
	total := 0
	for i, entry := range trailer.Entries {
		if err := r.SeekTo(entry.CompressedOffset); err != nil {
			return nil, err
		}
		compressed, err := r.ReadBytes(int(entry.CompressedSize))
		if err != nil {
			return nil, err
		}
		blocks[i] = pending{compressed: compressed, size: int(entry.UncompressedSize), offset: total}
		total += int(entry.UncompressedSize)
	}

	output := make([]byte, total)

	g := new(errgroup.Group)
	for _, b := range blocks {
		b := b
		g.Go(func() error {
			return inflateInto(b.compressed, output[b.offset:b.offset+b.size])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return output, nil
}

// inflateInto zlib-decompresses compressed into dst, requiring the
// decompressed length to match len(dst) exactly.
func inflateInto(compressed []byte, dst []byte) error {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return errs.ZlibErr(err.Error())
	}
	defer zr.Close()

	n, err := io.ReadFull(zr, dst)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return errs.ZlibErr(err.Error())
	}
	if n < len(dst) {
		return errs.ZlibErr("decompressed block shorter than its declared size")
	}
	var extra [1]byte
	if m, err := zr.Read(extra[:]); m > 0 {
		return errs.ZlibErr("decompression buffer too small")
	} else if err != nil && err != io.EOF {
		return errs.ZlibErr(err.Error())
	}

	return nil
}
