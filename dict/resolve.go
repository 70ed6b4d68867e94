package dict

import (
	"strconv"
	"strings"

	"github.com/albertxli/ambers/format"
	"github.com/albertxli/ambers/header"
)

// ResolvedDictionary is the dictionary ready for data reading: ghost
// (continuation) variables filtered out, long names applied, very
// long strings reassembled, and metadata fully built.
type ResolvedDictionary struct {
	Header       *header.Header
	Variables    []*VariableRecord
	FileEncoding FileEncoding
	Metadata     *Metadata
}

// ResolveDictionary turns a RawDictionary into a ResolvedDictionary,
// running the full resolution sequence: encoding, long names, very
// long strings, display info, metadata assembly, value labels, long
// string labels/missing, and multiple-response sets.
func ResolveDictionary(raw *RawDictionary) (*ResolvedDictionary, error) {
	variables := raw.Variables

	// 1. Character encoding.
	fileEncoding := determineEncoding(raw.EncodingName, raw.IntegerInfo)

	// 2. Long variable names (subtype 13).
	longNames := make(map[string]string, len(raw.LongNames))
	for _, pair := range raw.LongNames {
		longNames[pair.ShortName] = pair.LongName
	}
	for _, v := range variables {
		if longName, ok := longNames[v.ShortName]; ok {
			v.LongName = longName
		}
	}

	// 3. Very long strings (subtype 14): named segment records beyond
	// the first are marked as ghosts.
	vlsWidths := make(map[string]int, len(raw.VeryLongStrings))
	for _, e := range raw.VeryLongStrings {
		vlsWidths[e.Name] = e.TrueWidth
	}
	for i := range variables {
		trueWidth, ok := vlsWidths[variables[i].ShortName]
		if !ok {
			continue
		}
		variables[i].VarType = VarType{Kind: VarString, Width: trueWidth}
		// The primary segment holds 255 content bytes, every ghost
		// segment after it holds 252: nSegments = 1 + ceil((width-255)/252).
		nSegments := 1 + (trueWidth-4)/252
		variables[i].NSegments = nSegments

		if nSegments > 1 {
			segmentsFound := 1
			j := i + 1
			for j < len(variables) && segmentsFound < nSegments {
				if !variables[j].IsGhost {
					variables[j].IsGhost = true
					segmentsFound++
				}
				j++
			}
		}
	}

	// 4. Variable display info (subtype 11): one entry per
	// non-continuation record, including named VLS segment records
	// now marked as ghosts.
	displayIdx := 0
	for varIdx := 0; varIdx < len(variables); varIdx++ {
		if variables[varIdx].RawType == -1 {
			continue
		}
		if displayIdx < len(raw.VarDisplay) {
			entry := raw.VarDisplay[displayIdx]
			if !variables[varIdx].IsGhost {
				variables[varIdx].Measure = entry.Measure
				variables[varIdx].DisplayWidth = entry.Width
				variables[varIdx].Alignment = entry.Alignment
			}
		}
		displayIdx++
	}

	// 5. Build metadata.
	meta := newMetadata()
	meta.FileLabel = raw.Header.FileLabel
	meta.FileEncoding = fileEncoding.Name
	meta.Compression = raw.Header.Compression
	meta.CreationTime = raw.Header.CreationDate + " " + raw.Header.CreationTime
	meta.ModificationTime = meta.CreationTime
	meta.NumberRows = raw.Header.CaseCount
	meta.FileFormat = raw.Header.FileFormat()

	for _, line := range raw.DocumentLines {
		meta.Notes = append(meta.Notes, fileEncoding.DecodeLossy(line))
	}

	visible := make([]*VariableRecord, 0, len(variables))
	for _, v := range variables {
		if !v.IsGhost {
			visible = append(visible, v)
		}
	}
	meta.NumberColumns = len(visible)

	for _, v := range visible {
		name := v.LongName
		meta.VariableNames = append(meta.VariableNames, name)

		if v.Label != nil {
			label := strings.TrimRight(fileEncoding.DecodeLossy(v.Label), " �")
			if label != "" {
				meta.VariableLabels[name] = label
			}
		}

		if v.PrintFormat != nil {
			var formatStr string
			if v.VarType.Kind == VarString && v.VarType.Width > 255 {
				formatStr = v.PrintFormat.Type.Prefix() + strconv.Itoa(v.VarType.Width)
			} else {
				formatStr = v.PrintFormat.String()
			}
			meta.SpssVariableTypes[name] = formatStr
		}

		var goType string
		switch {
		case v.VarType.Kind == VarNumeric && v.PrintFormat != nil:
			switch v.PrintFormat.Type.Temporal() {
			case format.TemporalDate:
				goType = "Date32"
			case format.TemporalTimestamp:
				goType = "Timestamp[us]"
			case format.TemporalDuration:
				goType = "Duration[us]"
			default:
				goType = "f64"
			}
		case v.VarType.Kind == VarNumeric:
			goType = "f64"
		default:
			goType = "string"
		}
		meta.GoVariableTypes[name] = goType

		meta.VariableMeasure[name] = v.Measure

		displayWidth := v.DisplayWidth
		if v.VarType.Kind == VarString && v.VarType.Width > 255 && displayWidth == 0 {
			displayWidth = uint32(v.VarType.Width)
		}
		meta.VariableDisplayWidth[name] = displayWidth
		meta.VariableAlignment[name] = v.Alignment

		var storageWidth int
		switch {
		case v.VarType.Kind == VarNumeric:
			storageWidth = 8
		case v.VarType.Width > 255:
			storageWidth = v.VarType.Width
		default:
			storageWidth = roundUp8(v.VarType.Width)
		}
		meta.VariableStorageWidth[name] = storageWidth

		specs := missingToSpecs(v.Missing)
		if len(specs) > 0 {
			meta.VariableMissing[name] = specs
		}
	}

	if raw.Header.WeightIndex > 0 {
		weightSlot := int(raw.Header.WeightIndex - 1)
		for _, v := range variables {
			if v.SlotIndex == weightSlot {
				weightName := v.LongName
				meta.WeightVariable = &weightName

				break
			}
		}
	}

	// 6. Resolve value labels (types 3+4).
	slotToName := make(map[int]string, len(visible))
	for _, v := range visible {
		slotToName[v.SlotIndex] = v.LongName
	}
	slotToType := make(map[int]VarType, len(variables))
	for _, v := range variables {
		slotToType[v.SlotIndex] = v.VarType
	}

	// The first linked variable's type decides whether a set's values
	// are decoded as strings or numbers; a set linked to variables of
	// mixed types is decoded entirely under that first variable's type.
	for _, set := range raw.ValueLabelSets {
		isString := false
		if len(set.VariableIndices) > 0 {
			if t, ok := slotToType[set.VariableIndices[0]]; ok {
				isString = t.Kind == VarString
			}
		}

		resolved := NewOrderedMap[Value, string]()
		for _, entry := range set.Labels {
			var value Value
			if isString {
				value = StringValue(fileEncoding.DecodeLossy(trimRightBytes(entry.Value.Raw[:])))
			} else {
				value = NumericValue(entry.Value.Numeric)
			}
			label := strings.TrimRight(fileEncoding.DecodeLossy(entry.Label), " �")
			resolved.Set(value, label)
		}

		for _, slotIdx := range set.VariableIndices {
			if varName, ok := slotToName[slotIdx]; ok {
				meta.VariableValueLabels[varName] = resolved
			}
		}
	}

	// 7. Long string value labels (subtype 21).
	for _, set := range raw.LongStringLabels {
		labels := NewOrderedMap[Value, string]()
		for _, entry := range set.Labels {
			value := StringValue(fileEncoding.DecodeLossy(trimRightBytes(entry.Value)))
			label := strings.TrimRight(fileEncoding.DecodeLossy(entry.Label), " �")
			labels.Set(value, label)
		}
		if labels.Len() > 0 {
			meta.VariableValueLabels[set.VarName] = labels
		}
	}

	// 8. Long string missing values (subtype 22).
	for _, entry := range raw.LongStringMissing {
		specs := make([]MissingSpec, 0, len(entry.Values))
		for _, v := range entry.Values {
			specs = append(specs, MissingSpec{Kind: SpecStringValue, Str: fileEncoding.DecodeLossy(trimRightBytes(v))})
		}
		if len(specs) > 0 {
			meta.VariableMissing[entry.VarName] = specs
		}
	}

	// 9. Multiple response sets (subtype 7): short names -> long names.
	shortToLong := make(map[string]string, len(visible))
	for _, v := range visible {
		shortToLong[v.ShortName] = v.LongName
	}
	for _, rawMr := range raw.MrSets {
		resolvedVars := make([]string, 0, len(rawMr.VarNames))
		for _, short := range rawMr.VarNames {
			if long, ok := shortToLong[strings.ToUpper(short)]; ok {
				resolvedVars = append(resolvedVars, long)
			}
		}
		if len(resolvedVars) > 0 {
			meta.MrSets.Set(rawMr.Name, MrSet{
				Name:         rawMr.Name,
				Label:        rawMr.Label,
				Type:         rawMr.Type,
				CountedValue: rawMr.CountedValue,
				HasCounted:   rawMr.HasCounted,
				Variables:    resolvedVars,
			})
		}
	}

	return &ResolvedDictionary{
		Header:       raw.Header,
		Variables:    visible,
		FileEncoding: fileEncoding,
		Metadata:     meta,
	}, nil
}

func determineEncoding(encodingName string, integerInfo *IntegerInfo) FileEncoding {
	if encodingName != "" {
		return EncodingFromName(encodingName)
	}
	if integerInfo != nil {
		return EncodingFromCodePage(integerInfo.CharacterCode)
	}

	return defaultEncoding
}

func trimRightBytes(b []byte) []byte {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}

	return b[:end]
}

func roundUp8(n int) int {
	if n%8 == 0 {
		return n
	}

	return n + (8 - n%8)
}
