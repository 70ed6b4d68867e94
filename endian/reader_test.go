package endian

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/albertxli/ambers/errs"
	"github.com/stretchr/testify/require"
)

func TestReaderReadI32LittleEndian(t *testing.T) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 0xAABBCCDD)
	r := NewReader(bytes.NewReader(buf))
	v, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(0xAABBCCDD), v)
}

func TestReaderReadI32BigEndian(t *testing.T) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, 2)
	r := NewReader(bytes.NewReader(buf))
	r.SetEngine(GetBigEndianEngine())
	v, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(2), v)
}

func TestReaderReadF64(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(3.25))
	r := NewReader(bytes.NewReader(buf))
	v, err := r.ReadF64()
	require.NoError(t, err)
	require.Equal(t, 3.25, v)
}

func TestReaderReadSlotDoesNotSwap(t *testing.T) {
	slotBytes := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	r := NewReader(bytes.NewReader(slotBytes))
	r.SetEngine(GetBigEndianEngine())
	slot, err := r.ReadSlot()
	require.NoError(t, err)
	require.Equal(t, slotBytes, slot[:])
}

func TestReaderTruncatedFile(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3}))
	_, err := r.ReadI64()
	var e *errs.Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, errs.TruncatedFile, e.Kind())
}

func TestReaderSkipAndSeek(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}))
	require.NoError(t, r.Skip(2))
	b, err := r.ReadBytes(1)
	require.NoError(t, err)
	require.Equal(t, byte(3), b[0])

	require.NoError(t, r.SeekTo(0))
	require.Equal(t, int64(0), r.Pos())
}

func TestTrimTrailingPadding(t *testing.T) {
	require.Equal(t, []byte("hello"), TrimTrailingPadding([]byte("hello   \x00\x00")))
	require.Equal(t, []byte{}, TrimTrailingPadding([]byte("   ")))
}

func TestRoundUp(t *testing.T) {
	require.Equal(t, 8, RoundUp(5, 8))
	require.Equal(t, 8, RoundUp(8, 8))
	require.Equal(t, 16, RoundUp(9, 8))
}
