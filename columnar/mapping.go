package columnar

import (
	"github.com/albertxli/ambers/dict"
	"github.com/albertxli/ambers/errs"
	"github.com/albertxli/ambers/format"
)

// vlsSegment is the pre-computed useful-byte count for one very-long-
// string segment.
type vlsSegment struct {
	usefulBytes int
}

// Very-long-string segments: the primary segment holds 255 content
// bytes, every ghost segment after it holds 252, and the final segment
// holds whatever remains of the declared width.
const (
	vlsPrimarySegmentBytes = 255
	vlsGhostSegmentBytes   = 252
)

// ColumnMapping is the pre-computed, per-output-column binding from a
// resolved variable to its physical slot layout.
type ColumnMapping struct {
	Name        string
	StartSlot   int
	VarType     dict.VarType
	NSegments   int
	Segments    []vlsSegment
	Categorical bool
	Temporal    format.TemporalKind
}

// BuildColumnMappings resolves the projection (nil means every visible
// variable, in dictionary order) into column mappings plus the output
// schema they drive.
func BuildColumnMappings(rd *dict.ResolvedDictionary, projection []string) ([]ColumnMapping, Schema, error) {
	vars := rd.Variables
	if projection != nil {
		byName := make(map[string]*dict.VariableRecord, len(rd.Variables))
		for _, v := range rd.Variables {
			byName[v.LongName] = v
		}
		vars = make([]*dict.VariableRecord, 0, len(projection))
		for _, name := range projection {
			v, ok := byName[name]
			if !ok {
				return nil, nil, errs.InvalidVariableErr("column not found: " + name)
			}
			vars = append(vars, v)
		}
	}

	mappings := make([]ColumnMapping, 0, len(vars))
	schema := make(Schema, 0, len(vars))

	for _, v := range vars {
		var segments []vlsSegment
		if v.NSegments > 1 {
			width := v.VarType.Width
			segments = make([]vlsSegment, v.NSegments)
			for seg := 0; seg < v.NSegments; seg++ {
				var useful int
				switch {
				case seg == 0:
					useful = vlsPrimarySegmentBytes
				case seg == v.NSegments-1:
					useful = width - vlsPrimarySegmentBytes - (v.NSegments-2)*vlsGhostSegmentBytes
				default:
					useful = vlsGhostSegmentBytes
				}
				segments[seg] = vlsSegment{usefulBytes: useful}
			}
		}

		temporal := format.NotTemporal
		if v.VarType.Kind == dict.VarNumeric && v.PrintFormat != nil {
			temporal = v.PrintFormat.Type.Temporal()
		}

		_, categorical := rd.Metadata.ValueLabels(v.LongName)

		colType := TypeString
		if v.VarType.Kind == dict.VarNumeric {
			colType = columnTypeFor(temporal)
		}

		mappings = append(mappings, ColumnMapping{
			Name:        v.LongName,
			StartSlot:   v.SlotIndex,
			VarType:     v.VarType,
			NSegments:   v.NSegments,
			Segments:    segments,
			Categorical: categorical && v.VarType.Kind == dict.VarString,
			Temporal:    temporal,
		})
		schema = append(schema, Field{Name: v.LongName, Type: colType})
	}

	return mappings, schema, nil
}
