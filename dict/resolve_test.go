package dict

import (
	"testing"

	"github.com/albertxli/ambers/format"
	"github.com/albertxli/ambers/header"
	"github.com/stretchr/testify/require"
)

func numericVar(shortName string, slot int) *VariableRecord {
	pf := format.SpssFormat{Type: format.FormatF, Width: 8, Decimals: 2}

	return &VariableRecord{
		SlotIndex:   slot,
		ShortName:   shortName,
		LongName:    shortName,
		VarType:     VarType{Kind: VarNumeric},
		PrintFormat: &pf,
		Measure:     format.MeasureUnknown,
		Alignment:   format.AlignLeft,
		Missing:     MissingValues{Kind: MissingNone},
	}
}

func TestResolveDictionaryBasic(t *testing.T) {
	h := &header.Header{
		FileLabel:   "Survey",
		Compression: format.CompressionByteCode,
		WeightIndex: 0,
	}
	age := numericVar("AGE", 0)
	raw := &RawDictionary{
		Header:    h,
		Variables: []*VariableRecord{age},
		LongNames: []LongNamePair{{ShortName: "AGE", LongName: "RespondentAge"}},
	}

	resolved, err := ResolveDictionary(raw)
	require.NoError(t, err)
	require.Len(t, resolved.Variables, 1)
	require.Equal(t, "RespondentAge", resolved.Metadata.VariableNames[0])
	require.Equal(t, "sav", resolved.Metadata.FileFormat)
	require.Equal(t, "Survey", resolved.Metadata.FileLabel)
	require.Equal(t, "F8.2", resolved.Metadata.SpssVariableTypes["RespondentAge"])
	require.Equal(t, "f64", resolved.Metadata.GoVariableTypes["RespondentAge"])
}

func TestResolveDictionaryGhostVariablesExcluded(t *testing.T) {
	h := &header.Header{Compression: format.CompressionByteCode}
	visible := numericVar("AGE", 0)
	ghost := numericVar("DUMMY", 1)
	ghost.IsGhost = true
	ghost.RawType = -1

	raw := &RawDictionary{Header: h, Variables: []*VariableRecord{visible, ghost}}
	resolved, err := ResolveDictionary(raw)
	require.NoError(t, err)
	require.Len(t, resolved.Variables, 1)
	require.Equal(t, 1, resolved.Metadata.NumberColumns)
}

func TestResolveDictionaryVeryLongStrings(t *testing.T) {
	h := &header.Header{Compression: format.CompressionByteCode}
	seg1 := &VariableRecord{SlotIndex: 0, ShortName: "BIGVAR", LongName: "BIGVAR", VarType: VarType{Kind: VarString, Width: 255}}
	seg2 := &VariableRecord{SlotIndex: 32, ShortName: "BIGVAR00002", LongName: "BIGVAR00002", VarType: VarType{Kind: VarString, Width: 255}}

	raw := &RawDictionary{
		Header:          h,
		Variables:       []*VariableRecord{seg1, seg2},
		VeryLongStrings: []VeryLongStringEntry{{Name: "BIGVAR", TrueWidth: 300}},
	}

	resolved, err := ResolveDictionary(raw)
	require.NoError(t, err)
	require.Len(t, resolved.Variables, 1)
	require.Equal(t, 300, resolved.Variables[0].VarType.Width)
	require.True(t, seg2.IsGhost)
}

func TestResolveDictionaryValueLabelsStringVsNumeric(t *testing.T) {
	h := &header.Header{Compression: format.CompressionByteCode}
	sexVar := &VariableRecord{SlotIndex: 0, ShortName: "SEX", LongName: "SEX", VarType: VarType{Kind: VarNumeric}}

	raw := &RawDictionary{
		Header:    h,
		Variables: []*VariableRecord{sexVar},
		ValueLabelSets: []ValueLabelSet{
			{
				Labels: []ValueLabelEntry{
					{Value: RawValue{Numeric: 1.0}, Label: []byte("Male")},
					{Value: RawValue{Numeric: 2.0}, Label: []byte("Female")},
				},
				VariableIndices: []int{0},
			},
		},
	}

	resolved, err := ResolveDictionary(raw)
	require.NoError(t, err)
	labels := resolved.Metadata.VariableValueLabels["SEX"]
	male, ok := labels.Get(NumericValue(1.0))
	require.True(t, ok)
	require.Equal(t, "Male", male)
	female, ok := labels.Get(NumericValue(2.0))
	require.True(t, ok)
	require.Equal(t, "Female", female)

	entries := labels.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, NumericValue(1.0), entries[0].Key)
	require.Equal(t, NumericValue(2.0), entries[1].Key)
}

func TestResolveDictionaryWeightVariable(t *testing.T) {
	h := &header.Header{Compression: format.CompressionByteCode, WeightIndex: 1}
	w := numericVar("WEIGHT", 0)

	raw := &RawDictionary{Header: h, Variables: []*VariableRecord{w}}
	resolved, err := ResolveDictionary(raw)
	require.NoError(t, err)
	require.NotNil(t, resolved.Metadata.WeightVariable)
	require.Equal(t, "WEIGHT", *resolved.Metadata.WeightVariable)
}

func TestResolveDictionaryMrSets(t *testing.T) {
	h := &header.Header{Compression: format.CompressionByteCode}
	v1 := numericVar("AD6R1", 0)
	v2 := numericVar("AD6R2", 1)

	raw := &RawDictionary{
		Header:    h,
		Variables: []*VariableRecord{v1, v2},
		MrSets: []RawMrSet{
			{Name: "AD6", Type: MrMultipleDichotomy, CountedValue: "1", HasCounted: true, Label: "AD6 label", VarNames: []string{"ad6r1", "ad6r2"}},
		},
	}

	resolved, err := ResolveDictionary(raw)
	require.NoError(t, err)
	mrSet, ok := resolved.Metadata.MrSets.Get("AD6")
	require.True(t, ok)
	require.Equal(t, []string{"AD6R1", "AD6R2"}, mrSet.Variables)
}
