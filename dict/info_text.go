package dict

import (
	"strconv"
	"strings"
)

// LongNamePair is one short-name/long-name mapping from subtype 13.
type LongNamePair struct {
	ShortName string
	LongName  string
}

// ParseLongVarNames parses subtype 13:
// SHORT_NAME=LongVariableName\tSHORT2=LongName2\t...
func ParseLongVarNames(data []byte) []LongNamePair {
	var result []LongNamePair
	for _, pair := range strings.Split(string(data), "\t") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		short, long, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		result = append(result, LongNamePair{
			ShortName: strings.ToUpper(strings.TrimSpace(short)),
			LongName:  strings.TrimSpace(long),
		})
	}

	return result
}

// VeryLongStringEntry is one variable/true-width pair from subtype 14.
type VeryLongStringEntry struct {
	Name      string
	TrueWidth int
}

// ParseVeryLongStrings parses subtype 14:
// VARNAME=WIDTH\0\tVARNAME2=WIDTH2\0\t...
func ParseVeryLongStrings(data []byte) []VeryLongStringEntry {
	var result []VeryLongStringEntry
	for _, entry := range strings.FieldsFunc(string(data), func(r rune) bool { return r == 0 || r == '\t' }) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, widthStr, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		width, err := strconv.Atoi(strings.TrimSpace(widthStr))
		if err != nil {
			continue
		}
		result = append(result, VeryLongStringEntry{
			Name:      strings.ToUpper(strings.TrimSpace(name)),
			TrueWidth: width,
		})
	}

	return result
}

// ParseEncodingRecord parses subtype 20: a raw IANA encoding name
// string with no further structure.
func ParseEncodingRecord(data []byte) string {
	return strings.TrimSpace(string(data))
}
