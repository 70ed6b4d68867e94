package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSysmisIsNegativeMax(t *testing.T) {
	val := Sysmis()
	require.True(t, !math.IsInf(val, 0) && !math.IsNaN(val))
	require.Less(t, val, 0.0)
	require.Equal(t, -math.MaxFloat64, val)
}

func TestIsSysmis(t *testing.T) {
	require.True(t, IsSysmis(Sysmis()))
	require.False(t, IsSysmis(0.0))
	require.False(t, IsSysmis(math.NaN())) // a regular NaN is not SYSMIS
}

func TestFormatDecodeNumeric(t *testing.T) {
	packed := int32(5<<16 | 8<<8 | 2) // F8.2
	f, ok := FromPacked(packed)
	require.True(t, ok)
	require.Equal(t, FormatF, f.Type)
	require.EqualValues(t, 8, f.Width)
	require.EqualValues(t, 2, f.Decimals)
	require.Equal(t, "F8.2", f.String())
}

func TestFormatDecodeString(t *testing.T) {
	packed := int32(1<<16 | 50<<8 | 0) // A50
	f, ok := FromPacked(packed)
	require.True(t, ok)
	require.Equal(t, FormatA, f.Type)
	require.Equal(t, "A50", f.String())
	require.True(t, f.Type.IsString())
}

func TestFormatDecodeDateNoDecimals(t *testing.T) {
	packed := int32(20<<16 | 11<<8 | 0) // DATE11
	f, ok := FromPacked(packed)
	require.True(t, ok)
	require.Equal(t, "DATE11", f.String())
	require.Equal(t, TemporalDate, f.Type.Temporal())
}

func TestFormatUnknownType(t *testing.T) {
	_, ok := FromPacked(int32(99 << 16))
	require.False(t, ok)
}

func TestTemporalClassification(t *testing.T) {
	require.Equal(t, TemporalDate, FormatADate.Temporal())
	require.Equal(t, TemporalTimestamp, FormatDateTime.Temporal())
	require.Equal(t, TemporalTimestamp, FormatYMDHMS.Temporal())
	require.Equal(t, TemporalDuration, FormatMTime.Temporal())
	require.Equal(t, NotTemporal, FormatF.Temporal())
}

func TestCompressionFromCode(t *testing.T) {
	c, ok := CompressionFromCode(0)
	require.True(t, ok)
	require.Equal(t, CompressionNone, c)

	c, ok = CompressionFromCode(2)
	require.True(t, ok)
	require.Equal(t, CompressionZlib, c)

	_, ok = CompressionFromCode(99)
	require.False(t, ok)
}

func TestMeasureAndAlignmentFromCode(t *testing.T) {
	require.Equal(t, MeasureNominal, MeasureFromCode(1))
	require.Equal(t, MeasureOrdinal, MeasureFromCode(2))
	require.Equal(t, MeasureScale, MeasureFromCode(3))
	require.Equal(t, MeasureUnknown, MeasureFromCode(0))

	require.Equal(t, AlignRight, AlignmentFromCode(1))
	require.Equal(t, AlignCenter, AlignmentFromCode(2))
	require.Equal(t, AlignLeft, AlignmentFromCode(0))
}
