package dict

import (
	"strconv"
	"strings"
)

// MrType distinguishes the two kinds of SPSS multiple-response set.
type MrType uint8

const (
	MrMultipleDichotomy MrType = iota
	MrMultipleCategory
)

// RawMrSet is one multiple-response set as parsed from subtype 7,
// still carrying short variable names that must be resolved to long
// names by the dictionary resolver.
type RawMrSet struct {
	Name         string
	Type         MrType
	CountedValue string
	HasCounted   bool
	Label        string
	VarNames     []string
}

// ParseMrSets parses subtype 7: newline-separated set definitions.
//
//	$NAME=Dn counted_value label_len label var1 var2 ...   (dichotomy)
//	$NAME=C label_len label var1 var2 ...                  (category)
//
// n is the byte length of counted_value and label_len the byte length
// of the label text that follows it, each written as ASCII digits.
func ParseMrSets(data []byte) []RawMrSet {
	var sets []RawMrSet
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.Trim(strings.Trim(line, "\x00"), " ")
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}
		if set, ok := parseOneMrSet(line); ok {
			sets = append(sets, set)
		}
	}

	return sets
}

func parseOneMrSet(text string) (RawMrSet, bool) {
	text = strings.TrimPrefix(text, "$")

	eqPos := strings.IndexByte(text, '=')
	if eqPos < 0 {
		return RawMrSet{}, false
	}
	name := text[:eqPos]
	rest := text[eqPos+1:]
	if rest == "" {
		return RawMrSet{}, false
	}

	typeChar := rest[0]
	rest = rest[1:]

	var mrType MrType
	var countedValue string
	var hasCounted bool
	var afterCV string

	switch typeChar {
	case 'D', 'E':
		cvLen, afterLen, ok := parseAsciiNumber(rest)
		if !ok {
			return RawMrSet{}, false
		}
		afterSpace := strings.TrimPrefix(afterLen, " ")
		if len(afterSpace) < cvLen {
			return RawMrSet{}, false
		}
		countedValue = afterSpace[:cvLen]
		hasCounted = true
		afterCV = afterSpace[cvLen:]
		mrType = MrMultipleDichotomy
	case 'C':
		afterCV = rest
		mrType = MrMultipleCategory
	default:
		return RawMrSet{}, false
	}

	trimmed := strings.TrimLeft(afterCV, " \t")
	labelLen, afterLabelLen, ok := parseAsciiNumber(trimmed)
	if !ok {
		return RawMrSet{}, false
	}
	afterSpace := strings.TrimPrefix(afterLabelLen, " ")

	if len(afterSpace) < labelLen {
		label := strings.TrimSpace(afterSpace)
		return RawMrSet{
			Name:         name,
			Type:         mrType,
			CountedValue: countedValue,
			HasCounted:   hasCounted,
			Label:        label,
		}, true
	}

	label := afterSpace[:labelLen]
	remainder := afterSpace[labelLen:]
	varNames := strings.Fields(remainder)

	return RawMrSet{
		Name:         name,
		Type:         mrType,
		CountedValue: countedValue,
		HasCounted:   hasCounted,
		Label:        label,
		VarNames:     varNames,
	}, true
}

// parseAsciiNumber reads a run of ASCII digits from the start of s,
// returning the parsed value and the remaining string.
func parseAsciiNumber(s string) (int, string, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, s, false
	}

	return n, s[end:], true
}
