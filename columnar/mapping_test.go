package columnar

import (
	"testing"

	"github.com/albertxli/ambers/dict"
	"github.com/albertxli/ambers/format"
	"github.com/stretchr/testify/require"
)

func numericVar(name string, slot int, ft format.FormatType) *dict.VariableRecord {
	return &dict.VariableRecord{
		SlotIndex:   slot,
		LongName:    name,
		ShortName:   name,
		VarType:     dict.VarType{Kind: dict.VarNumeric, Width: 0},
		PrintFormat: &format.SpssFormat{Type: ft, Width: 8, Decimals: 2},
		NSegments:   1,
	}
}

func stringVar(name string, slot, width, nSegments int) *dict.VariableRecord {
	return &dict.VariableRecord{
		SlotIndex: slot,
		LongName:  name,
		ShortName: name,
		VarType:   dict.VarType{Kind: dict.VarString, Width: width},
		NSegments: nSegments,
	}
}

func resolvedDict(vars ...*dict.VariableRecord) *dict.ResolvedDictionary {
	meta := &dict.Metadata{
		VariableValueLabels: make(map[string]*dict.OrderedMap[dict.Value, string]),
	}
	return &dict.ResolvedDictionary{
		Variables:    vars,
		FileEncoding: dict.EncodingFromName("utf-8"),
		Metadata:     meta,
	}
}

func TestBuildColumnMappingsPlainNumeric(t *testing.T) {
	rd := resolvedDict(numericVar("AGE", 0, format.FormatF))
	mappings, schema, err := BuildColumnMappings(rd, nil)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	require.Equal(t, "AGE", mappings[0].Name)
	require.Equal(t, TypeFloat64, schema[0].Type)
}

func TestBuildColumnMappingsTemporal(t *testing.T) {
	rd := resolvedDict(numericVar("BIRTH", 0, format.FormatADate))
	mappings, schema, err := BuildColumnMappings(rd, nil)
	require.NoError(t, err)
	require.Equal(t, format.TemporalDate, mappings[0].Temporal)
	require.Equal(t, TypeDate32, schema[0].Type)
}

func TestBuildColumnMappingsShortString(t *testing.T) {
	rd := resolvedDict(stringVar("NAME", 1, 10, 1))
	mappings, schema, err := BuildColumnMappings(rd, nil)
	require.NoError(t, err)
	require.Equal(t, TypeString, schema[0].Type)
	require.Nil(t, mappings[0].Segments)
}

func TestBuildColumnMappingsVLSSegments(t *testing.T) {
	// width 500 -> 2 segments: primary holds 255 useful bytes, the
	// final (only) ghost segment holds the remaining 245.
	rd := resolvedDict(stringVar("COMMENTS", 2, 500, 2))
	mappings, _, err := BuildColumnMappings(rd, nil)
	require.NoError(t, err)
	require.Len(t, mappings[0].Segments, 2)
	require.Equal(t, 255, mappings[0].Segments[0].usefulBytes)
	require.Equal(t, 245, mappings[0].Segments[1].usefulBytes)
}

func TestBuildColumnMappingsVLSThreeSegments(t *testing.T) {
	// width 700 -> 3 segments: primary 255, one ghost at 252, final
	// ghost holds the remaining 193.
	rd := resolvedDict(stringVar("NOTES", 2, 700, 3))
	mappings, _, err := BuildColumnMappings(rd, nil)
	require.NoError(t, err)
	require.Len(t, mappings[0].Segments, 3)
	require.Equal(t, 255, mappings[0].Segments[0].usefulBytes)
	require.Equal(t, 252, mappings[0].Segments[1].usefulBytes)
	require.Equal(t, 193, mappings[0].Segments[2].usefulBytes)
}

func TestBuildColumnMappingsProjectionMissing(t *testing.T) {
	rd := resolvedDict(numericVar("AGE", 0, format.FormatF))
	_, _, err := BuildColumnMappings(rd, []string{"NOPE"})
	require.Error(t, err)
}

func TestBuildColumnMappingsProjectionOrder(t *testing.T) {
	rd := resolvedDict(
		numericVar("AGE", 0, format.FormatF),
		numericVar("WEIGHT", 1, format.FormatF),
	)
	mappings, _, err := BuildColumnMappings(rd, []string{"WEIGHT", "AGE"})
	require.NoError(t, err)
	require.Equal(t, "WEIGHT", mappings[0].Name)
	require.Equal(t, "AGE", mappings[1].Name)
}

func TestBuildColumnMappingsCategorical(t *testing.T) {
	rd := resolvedDict(stringVar("GENDER", 0, 1, 1))
	labels := dict.NewOrderedMap[dict.Value, string]()
	labels.Set(dict.StringValue("M"), "Male")
	labels.Set(dict.StringValue("F"), "Female")
	rd.Metadata.VariableValueLabels["GENDER"] = labels
	mappings, _, err := BuildColumnMappings(rd, nil)
	require.NoError(t, err)
	require.True(t, mappings[0].Categorical)
}
