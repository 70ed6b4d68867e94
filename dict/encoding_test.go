package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodingFromCodePageKnown(t *testing.T) {
	require.Equal(t, "utf-8", EncodingFromCodePage(65001).Name)
	require.Equal(t, "windows-1252", EncodingFromCodePage(1252).Name)
	require.Equal(t, "shift_jis", EncodingFromCodePage(932).Name)
}

func TestEncodingFromCodePageUnknownDefaultsWindows1252(t *testing.T) {
	require.Equal(t, "windows-1252", EncodingFromCodePage(99999).Name)
}

func TestEncodingFromNameUTF8(t *testing.T) {
	enc := EncodingFromName("UTF-8")
	require.True(t, enc.isUTF8)
}

func TestDecodeLossyWindows1252(t *testing.T) {
	enc := EncodingFromCodePage(1252)
	// "café" in windows-1252: 63 61 66 e9
	s := enc.DecodeLossy([]byte{0x63, 0x61, 0x66, 0xe9})
	require.Equal(t, "café", s)
}

func TestDecodeLossyUTF8Passthrough(t *testing.T) {
	enc := EncodingFromCodePage(65001)
	s := enc.DecodeLossy([]byte("Hello, world!"))
	require.Equal(t, "Hello, world!", s)
}
