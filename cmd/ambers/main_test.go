package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeSavFixture builds a minimal uncompressed one-variable SAV file,
// mirroring the fixture builders in scan and the root package tests.
func writeSavFixture(t *testing.T, ages []float64) string {
	t.Helper()

	var buf bytes.Buffer
	order := binary.LittleEndian

	buf.WriteString("$FL2")
	product := []byte("ambers test")
	buf.Write(product)
	buf.Write(bytes.Repeat([]byte{' '}, 60-len(product)))

	var tmp [8]byte
	order.PutUint32(tmp[:4], 2)
	buf.Write(tmp[:4])
	order.PutUint32(tmp[:4], 1)
	buf.Write(tmp[:4])
	order.PutUint32(tmp[:4], 0)
	buf.Write(tmp[:4])
	order.PutUint32(tmp[:4], 0)
	buf.Write(tmp[:4])
	order.PutUint32(tmp[:4], uint32(len(ages)))
	buf.Write(tmp[:4])
	order.PutUint64(tmp[:8], math.Float64bits(100.0))
	buf.Write(tmp[:8])
	buf.WriteString("01 Jan 24")
	buf.WriteString("14:30:00")
	label := []byte("Test file")
	buf.Write(label)
	buf.Write(bytes.Repeat([]byte{' '}, 64-len(label)))
	buf.Write(make([]byte, 3))

	writeI32 := func(v int32) {
		var b [4]byte
		order.PutUint32(b[:], uint32(v))
		buf.Write(b[:])
	}
	writeI32(2)
	writeI32(0)
	writeI32(0)
	writeI32(0)
	printFmt := int32(5<<16 | 8<<8 | 2)
	writeI32(printFmt)
	writeI32(printFmt)
	buf.WriteString("AGE     ")
	writeI32(999)
	writeI32(0)

	for _, age := range ages {
		var b [8]byte
		order.PutUint64(b[:], math.Float64bits(age))
		buf.Write(b[:])
	}

	path := t.TempDir() + "/fixture.sav"
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	return path
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = orig

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestRunDumpPrintsFileSummaryAndVariables(t *testing.T) {
	path := writeSavFixture(t, []float64{18, 25, 62})

	out := captureStdout(t, func() {
		require.NoError(t, runDump(path))
	})

	require.Contains(t, out, "AGE")
	require.Contains(t, out, "compression:")
	require.Contains(t, out, "columns:")
}

func TestRunDumpMissingFileReturnsError(t *testing.T) {
	err := runDump("/no/such/file.sav")
	require.Error(t, err)
}

func TestDumpCommandWiring(t *testing.T) {
	path := writeSavFixture(t, []float64{1})

	root := newRootCmd()
	root.SetArgs([]string{"dump", path})
	root.SetOut(io.Discard)

	out := captureStdout(t, func() {
		require.NoError(t, root.Execute())
	})

	require.Contains(t, out, "variables")
}
