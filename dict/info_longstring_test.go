package dict

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeI32LE(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func TestParseLongStringLabels(t *testing.T) {
	var buf bytes.Buffer
	name := []byte("BIGVAR")
	writeI32LE(&buf, int32(len(name)))
	buf.Write(name)
	writeI32LE(&buf, 2) // label count

	value1 := []byte("AAAAAAAAAA")
	label1 := []byte("First")
	writeI32LE(&buf, int32(len(value1)))
	buf.Write(value1)
	writeI32LE(&buf, int32(len(label1)))
	buf.Write(label1)

	value2 := []byte("BBBBBBBBBB")
	label2 := []byte("Second")
	writeI32LE(&buf, int32(len(value2)))
	buf.Write(value2)
	writeI32LE(&buf, int32(len(label2)))
	buf.Write(label2)

	sets, err := ParseLongStringLabels(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Equal(t, "BIGVAR", sets[0].VarName)
	require.Len(t, sets[0].Labels, 2)
	require.Equal(t, "First", string(sets[0].Labels[0].Label))
	require.Equal(t, value2, sets[0].Labels[1].Value)
}

func TestParseLongStringMissing(t *testing.T) {
	var buf bytes.Buffer
	name := []byte("BIGVAR")
	writeI32LE(&buf, int32(len(name)))
	buf.Write(name)
	buf.WriteByte(2) // n_values
	writeI32LE(&buf, 10)
	buf.Write([]byte("MISSING1  "))
	buf.Write([]byte("MISSING2  "))

	entries, err := ParseLongStringMissing(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "BIGVAR", entries[0].VarName)
	require.Len(t, entries[0].Values, 2)
	require.Equal(t, []byte("MISSING1  "), entries[0].Values[0])
}
