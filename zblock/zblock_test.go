package zblock

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/albertxli/ambers/endian"
	"github.com/stretchr/testify/require"
)

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestReadHeaderAndTrailerRoundTrip(t *testing.T) {
	block1 := bytes.Repeat([]byte{0x41}, 100)
	block2 := bytes.Repeat([]byte{0x42}, 50)
	compressed1 := zlibCompress(t, block1)
	compressed2 := zlibCompress(t, block2)

	var file bytes.Buffer
	// ZHeader (24 bytes) at offset 0
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], 0)
	file.Write(tmp[:])
	trailerOffsetPos := file.Len()
	file.Write(tmp[:]) // placeholder for ztrailer_offset
	file.Write(tmp[:]) // ztrailer_length placeholder

	compressedOffset1 := int64(file.Len())
	file.Write(compressed1)
	compressedOffset2 := int64(file.Len())
	file.Write(compressed2)

	ztrailerOffset := int64(file.Len())
	binary.LittleEndian.PutUint64(tmp[:], 100) // bias
	file.Write(tmp[:])
	binary.LittleEndian.PutUint64(tmp[:], 0) // zero
	file.Write(tmp[:])
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], 1<<20)
	file.Write(tmp4[:]) // block_size
	binary.LittleEndian.PutUint32(tmp4[:], 2)
	file.Write(tmp4[:]) // n_blocks

	writeEntry := func(uOff, cOff int64, uSize, cSize int32) {
		binary.LittleEndian.PutUint64(tmp[:], uint64(uOff))
		file.Write(tmp[:])
		binary.LittleEndian.PutUint64(tmp[:], uint64(cOff))
		file.Write(tmp[:])
		binary.LittleEndian.PutUint32(tmp4[:], uint32(uSize))
		file.Write(tmp4[:])
		binary.LittleEndian.PutUint32(tmp4[:], uint32(cSize))
		file.Write(tmp4[:])
	}
	writeEntry(0, compressedOffset1, int32(len(block1)), int32(len(compressed1)))
	writeEntry(int64(len(block1)), compressedOffset2, int32(len(block2)), int32(len(compressed2)))

	raw := file.Bytes()
	binary.LittleEndian.PutUint64(raw[trailerOffsetPos:], uint64(ztrailerOffset))

	r := endian.NewReader(bytes.NewReader(raw))
	h, err := ReadHeader(r)
	require.NoError(t, err)
	require.Equal(t, ztrailerOffset, h.ZTrailerOffset)

	trailer, err := ReadTrailer(r, h)
	require.NoError(t, err)
	require.Equal(t, int32(2), trailer.NBlocks)
	require.Len(t, trailer.Entries, 2)

	out, err := DecompressBlocks(r, trailer)
	require.NoError(t, err)
	require.Equal(t, append(append([]byte{}, block1...), block2...), out)
}

func TestDecompressBlocksParallelMatchesSerial(t *testing.T) {
	var file bytes.Buffer
	var tmp [8]byte
	file.Write(tmp[:])
	trailerOffsetPos := file.Len()
	file.Write(tmp[:])
	file.Write(tmp[:])

	blocks := make([][]byte, 6)
	compressedBlocks := make([][]byte, 6)
	offsets := make([]int64, 6)
	for i := range blocks {
		blocks[i] = bytes.Repeat([]byte{byte('A' + i)}, 1000+i*17)
		compressedBlocks[i] = zlibCompress(t, blocks[i])
	}
	for i, c := range compressedBlocks {
		offsets[i] = int64(file.Len())
		file.Write(c)
	}

	ztrailerOffset := int64(file.Len())
	binary.LittleEndian.PutUint64(tmp[:], 100)
	file.Write(tmp[:])
	binary.LittleEndian.PutUint64(tmp[:], 0)
	file.Write(tmp[:])
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], 1<<20)
	file.Write(tmp4[:])
	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(blocks)))
	file.Write(tmp4[:])

	uOff := int64(0)
	for i := range blocks {
		binary.LittleEndian.PutUint64(tmp[:], uint64(uOff))
		file.Write(tmp[:])
		binary.LittleEndian.PutUint64(tmp[:], uint64(offsets[i]))
		file.Write(tmp[:])
		binary.LittleEndian.PutUint32(tmp4[:], uint32(len(blocks[i])))
		file.Write(tmp4[:])
		binary.LittleEndian.PutUint32(tmp4[:], uint32(len(compressedBlocks[i])))
		file.Write(tmp4[:])
		uOff += int64(len(blocks[i]))
	}

	raw := file.Bytes()
	binary.LittleEndian.PutUint64(raw[trailerOffsetPos:], uint64(ztrailerOffset))

	r := endian.NewReader(bytes.NewReader(raw))
	h, err := ReadHeader(r)
	require.NoError(t, err)
	trailer, err := ReadTrailer(r, h)
	require.NoError(t, err)
	require.Equal(t, int32(len(blocks)), trailer.NBlocks)

	out, err := DecompressBlocks(r, trailer)
	require.NoError(t, err)

	var want bytes.Buffer
	for _, b := range blocks {
		want.Write(b)
	}
	require.Equal(t, want.Bytes(), out)
}
