package dict

import (
	"github.com/albertxli/ambers/endian"
	"github.com/albertxli/ambers/errs"
	"github.com/albertxli/ambers/header"
)

// Dictionary record types, read as the leading i32 tag of each record.
const (
	recordTypeVariable        = 2
	recordTypeValueLabel      = 3
	recordTypeValueLabelVars  = 4
	recordTypeDocument        = 6
	recordTypeInfo            = 7
	recordTypeDictTermination = 999
)

// RawDictionary is every dictionary record parsed in file order,
// before resolution into Metadata.
type RawDictionary struct {
	Header            *header.Header
	Variables         []*VariableRecord
	ValueLabelSets    []ValueLabelSet
	DocumentLines     [][]byte
	IntegerInfo       *IntegerInfo
	FloatInfo         *FloatInfo
	VarDisplay        []VarDisplayEntry
	LongNames         []LongNamePair
	VeryLongStrings   []VeryLongStringEntry
	EncodingName      string
	LongStringLabels  []LongStringLabelSet
	LongStringMissing []LongStringMissingEntry
	MrSets            []RawMrSet
}

// ParseDictionary reads the dictionary section from the current
// stream position (immediately after the 176-byte header) through the
// type-999 termination record.
func ParseDictionary(r *endian.Reader, h *header.Header) (*RawDictionary, error) {
	raw := &RawDictionary{Header: h}
	slotIndex := 0

	for {
		recordType, err := r.ReadI32()
		if err != nil {
			return nil, err
		}

		switch recordType {
		case recordTypeVariable:
			v, err := ParseVariableRecord(r, slotIndex)
			if err != nil {
				return nil, err
			}
			slotIndex++
			raw.Variables = append(raw.Variables, v)

		case recordTypeValueLabel:
			labels, err := ParseValueLabels(r)
			if err != nil {
				return nil, err
			}
			nextType, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			if nextType != recordTypeValueLabelVars {
				return nil, errs.InvalidValueLabelErr("expected type 4 record after type 3")
			}
			indices, err := ParseValueLabelVariables(r)
			if err != nil {
				return nil, err
			}
			raw.ValueLabelSets = append(raw.ValueLabelSets, ValueLabelSet{
				Labels:          labels,
				VariableIndices: indices,
			})

		case recordTypeDocument:
			lines, err := ParseDocument(r)
			if err != nil {
				return nil, err
			}
			raw.DocumentLines = append(raw.DocumentLines, lines...)

		case recordTypeInfo:
			infoHeader, err := ParseInfoHeader(r)
			if err != nil {
				return nil, err
			}
			if err := parseInfoRecord(r, infoHeader, raw); err != nil {
				return nil, err
			}

		case recordTypeDictTermination:
			if _, err := r.ReadI32(); err != nil {
				return nil, err
			}

			return raw, nil

		default:
			return nil, errs.UnexpectedRecordTypeErr(recordType)
		}
	}
}

func parseInfoRecord(r *endian.Reader, h InfoHeader, raw *RawDictionary) error {
	switch h.Subtype {
	case infoSubtypeMrSets:
		data, err := r.ReadBytes(h.DataLen())
		if err != nil {
			return err
		}
		raw.MrSets = ParseMrSets(data)

	case infoSubtypeInteger:
		info, err := ParseIntegerInfo(r)
		if err != nil {
			return err
		}
		raw.IntegerInfo = &info

	case infoSubtypeFloat:
		info, err := ParseFloatInfo(r)
		if err != nil {
			return err
		}
		raw.FloatInfo = &info

	case infoSubtypeVarDisplay:
		entries, err := ParseVarDisplay(r, h.Count)
		if err != nil {
			return err
		}
		raw.VarDisplay = entries

	case infoSubtypeLongNames:
		data, err := r.ReadBytes(h.DataLen())
		if err != nil {
			return err
		}
		raw.LongNames = ParseLongVarNames(data)

	case infoSubtypeVeryLongStrings:
		data, err := r.ReadBytes(h.DataLen())
		if err != nil {
			return err
		}
		raw.VeryLongStrings = ParseVeryLongStrings(data)

	case infoSubtypeEncoding:
		data, err := r.ReadBytes(h.DataLen())
		if err != nil {
			return err
		}
		raw.EncodingName = ParseEncodingRecord(data)

	case infoSubtypeLongStringLabels:
		data, err := r.ReadBytes(h.DataLen())
		if err != nil {
			return err
		}
		labels, err := ParseLongStringLabels(data)
		if err != nil {
			return err
		}
		raw.LongStringLabels = labels

	case infoSubtypeLongStringMissing:
		data, err := r.ReadBytes(h.DataLen())
		if err != nil {
			return err
		}
		entries, err := ParseLongStringMissing(data)
		if err != nil {
			return err
		}
		raw.LongStringMissing = entries

	default:
		return r.Skip(int64(h.DataLen()))
	}

	return nil
}
