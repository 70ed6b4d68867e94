package endian

import (
	"io"
	"math"

	"github.com/albertxli/ambers/errs"
)

// Reader is an endian-aware primitive reader over a seekable byte
// stream. It is the sole point where SAV/ZSAV byte-swap decisions are
// applied: every multi-byte integer or float goes through the engine
// set by SetEngine, while raw 8-byte slot groups bypass it entirely
// (slots are swapped, if at all, only at the point a numeric value is
// pulled out of them downstream).
type Reader struct {
	src    io.ReadSeeker
	engine EndianEngine
	pos    int64
}

// NewReader wraps src with the native little-endian engine; callers
// call SetEngine once the header's endianness probe has resolved the
// real byte order.
func NewReader(src io.ReadSeeker) *Reader {
	return &Reader{src: src, engine: GetLittleEndianEngine()}
}

// SetEngine installs the byte-order engine used for all subsequent
// multi-byte reads.
func (r *Reader) SetEngine(engine EndianEngine) { r.engine = engine }

// Engine returns the currently installed byte-order engine.
func (r *Reader) Engine() EndianEngine { return r.engine }

// Pos returns the current byte offset into the stream.
func (r *Reader) Pos() int64 { return r.pos }

// SeekTo moves the stream to an absolute byte offset.
func (r *Reader) SeekTo(offset int64) error {
	n, err := r.src.Seek(offset, io.SeekStart)
	if err != nil {
		return errs.IoErr(err)
	}
	r.pos = n

	return nil
}

// ReadBytes reads exactly n bytes, failing with TruncatedFile on a
// short read.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r.src, buf)
	r.pos += int64(read)
	if err != nil {
		if read > 0 && read < n {
			return nil, errs.TruncatedFileErr(n, read)
		}

		return nil, errs.IoErr(err)
	}

	return buf, nil
}

// ReadSlot reads one raw 8-byte physical row slot, unaffected by
// endianness: slot interpretation happens downstream once the caller
// knows whether the slot holds a numeric value or string bytes.
func (r *Reader) ReadSlot() ([8]byte, error) {
	var slot [8]byte
	buf, err := r.ReadBytes(8)
	if err != nil {
		return slot, err
	}
	copy(slot[:], buf)

	return slot, nil
}

// ReadI32 reads one 4-byte signed integer under the installed engine.
func (r *Reader) ReadI32() (int32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}

	return int32(r.engine.Uint32(buf)), nil
}

// ReadI64 reads one 8-byte signed integer under the installed engine.
func (r *Reader) ReadI64() (int64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}

	return int64(r.engine.Uint64(buf)), nil
}

// ReadF64 reads one IEEE-754 binary64 under the installed engine.
func (r *Reader) ReadF64() (float64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	bits := r.engine.Uint64(buf)

	return math.Float64frombits(bits), nil
}

// ReadAll reads every remaining byte in the stream, for the
// compressed data phase where the whole rest of the file is
// materialized into memory up front.
func (r *Reader) ReadAll() ([]byte, error) {
	buf, err := io.ReadAll(r.src)
	r.pos += int64(len(buf))
	if err != nil {
		return nil, errs.IoErr(err)
	}

	return buf, nil
}

// ReadPartial fills buf as far as the stream allows, returning the
// number of bytes actually read. Unlike ReadBytes, a short read at EOF
// is not an error — the caller inspects the returned count.
func (r *Reader) ReadPartial(buf []byte) (int, error) {
	n, err := io.ReadFull(r.src, buf)
	r.pos += int64(n)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return n, errs.IoErr(err)
	}

	return n, nil
}

// Skip advances the stream by n bytes without retaining the contents.
func (r *Reader) Skip(n int64) error {
	if n == 0 {
		return nil
	}
	cur, err := r.src.Seek(n, io.SeekCurrent)
	if err != nil {
		return errs.IoErr(err)
	}
	r.pos = cur

	return nil
}

// TrimTrailingPadding strips trailing spaces (0x20) and NULs (0x00)
// from a byte slice, returning a subslice (no copy).
func TrimTrailingPadding(b []byte) []byte {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}

	return b[:end]
}

// RoundUp rounds n up to the next multiple of a.
func RoundUp(n, a int) int {
	if a <= 0 {
		return n
	}
	rem := n % a
	if rem == 0 {
		return n
	}

	return n + (a - rem)
}
