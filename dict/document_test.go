package dict

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/albertxli/ambers/endian"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	var buf bytes.Buffer
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], 2)
	buf.Write(n[:])

	line1 := []byte("This is a note")
	buf.Write(line1)
	buf.Write(bytes.Repeat([]byte{' '}, documentLineLen-len(line1)))

	line2 := []byte("Second line")
	buf.Write(line2)
	buf.Write(bytes.Repeat([]byte{' '}, documentLineLen-len(line2)))

	r := endian.NewReader(bytes.NewReader(buf.Bytes()))
	lines, err := ParseDocument(r)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "This is a note", string(lines[0]))
	require.Equal(t, "Second line", string(lines[1]))
}
