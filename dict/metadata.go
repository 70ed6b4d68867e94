package dict

import (
	"fmt"
	"math"

	"github.com/albertxli/ambers/format"
)

// ValueKind distinguishes the two possible value-label key kinds.
type ValueKind uint8

const (
	ValueNumeric ValueKind = iota
	ValueString
)

// Value is a value-label map key: either a numeric value or a string.
// As a map key a Value is compared with Go's ==, so numeric keys use
// float64 equality, not the raw bit pattern: SYSMIS and other finite
// sentinels match themselves, but a NaN key never matches any lookup,
// and +0 and -0 are the same key.
type Value struct {
	Kind    ValueKind
	Numeric float64
	Str     string
}

// NumericValue constructs a numeric Value.
func NumericValue(v float64) Value { return Value{Kind: ValueNumeric, Numeric: v} }

// StringValue constructs a string Value.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

func (v Value) String() string {
	if v.Kind == ValueString {
		return v.Str
	}
	if v.Numeric == math.Trunc(v.Numeric) && !math.IsInf(v.Numeric, 0) {
		return fmt.Sprintf("%d", int64(v.Numeric))
	}

	return fmt.Sprintf("%g", v.Numeric)
}

// MissingSpecKind identifies which shape of missing-value rule a
// MissingSpec carries.
type MissingSpecKind uint8

const (
	SpecValue MissingSpecKind = iota
	SpecRange
	SpecStringValue
)

// MissingSpec is one public missing-value rule for a variable. A
// variable may carry several (e.g. a range plus one discrete value).
type MissingSpec struct {
	Kind  MissingSpecKind
	Value float64
	Lo    float64
	Hi    float64
	Str   string
}

// missingToSpecs expands one variable's raw MissingValues into the
// public MissingSpec list.
func missingToSpecs(mv MissingValues) []MissingSpec {
	switch mv.Kind {
	case MissingDiscreteNumeric:
		specs := make([]MissingSpec, len(mv.Discrete))
		for i, v := range mv.Discrete {
			specs[i] = MissingSpec{Kind: SpecValue, Value: v}
		}

		return specs
	case MissingRange:
		return []MissingSpec{{Kind: SpecRange, Lo: mv.Low, Hi: mv.High}}
	case MissingRangeAndValue:
		return []MissingSpec{
			{Kind: SpecRange, Lo: mv.Low, Hi: mv.High},
			{Kind: SpecValue, Value: mv.Value},
		}
	case MissingDiscreteString:
		specs := make([]MissingSpec, len(mv.DiscreteStrings))
		for i, b := range mv.DiscreteStrings {
			specs[i] = MissingSpec{Kind: SpecStringValue, Str: trimRight(string(b))}
		}

		return specs
	default:
		return nil
	}
}

func trimRight(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}

	return s[:end]
}

// MrSet is a resolved multiple-response set: variable names are long
// names, ready for the public API.
type MrSet struct {
	Name         string
	Label        string
	Type         MrType
	CountedValue string
	HasCounted   bool
	Variables    []string
}

// Metadata is the fully resolved dictionary: everything a caller needs
// to interpret the data section without touching raw dictionary
// records again.
//
// CreationTime is the header's creation date and time joined by one
// space. The header carries no separate modification stamp, so
// ModificationTime is always equal to CreationTime.
type Metadata struct {
	FileLabel        string
	FileEncoding     string
	Compression      format.Compression
	CreationTime     string
	ModificationTime string
	Notes            []string
	NumberRows       *int64
	NumberColumns    int
	FileFormat       string

	VariableNames []string

	VariableLabels       map[string]string
	SpssVariableTypes    map[string]string
	GoVariableTypes      map[string]string
	VariableValueLabels  map[string]*OrderedMap[Value, string]
	VariableAlignment    map[string]format.Alignment
	VariableStorageWidth map[string]int
	VariableDisplayWidth map[string]uint32
	VariableMeasure      map[string]format.Measure
	VariableMissing      map[string][]MissingSpec

	// MrSets preserves subtype-7 declaration order; it is keyed by set
	// name, not variable name, so VariableNames's ordering guarantee
	// does not cover it.
	MrSets         *OrderedMap[string, MrSet]
	WeightVariable *string
}

func newMetadata() *Metadata {
	return &Metadata{
		FileFormat:           "sav",
		VariableLabels:       make(map[string]string),
		SpssVariableTypes:    make(map[string]string),
		GoVariableTypes:      make(map[string]string),
		VariableValueLabels:  make(map[string]*OrderedMap[Value, string]),
		VariableAlignment:    make(map[string]format.Alignment),
		VariableStorageWidth: make(map[string]int),
		VariableDisplayWidth: make(map[string]uint32),
		VariableMeasure:      make(map[string]format.Measure),
		VariableMissing:      make(map[string][]MissingSpec),
		MrSets:               NewOrderedMap[string, MrSet](),
	}
}

// Label returns a variable's label, if any.
func (m *Metadata) Label(name string) (string, bool) {
	l, ok := m.VariableLabels[name]

	return l, ok
}

// ValueLabels returns a variable's value-label map, in declaration
// order, if any.
func (m *Metadata) ValueLabels(name string) (*OrderedMap[Value, string], bool) {
	v, ok := m.VariableValueLabels[name]

	return v, ok
}

// Format returns a variable's SPSS print-format string, if any.
func (m *Metadata) Format(name string) (string, bool) {
	f, ok := m.SpssVariableTypes[name]

	return f, ok
}

// Measure returns a variable's measurement level, if any.
func (m *Metadata) Measure(name string) (format.Measure, bool) {
	v, ok := m.VariableMeasure[name]

	return v, ok
}
