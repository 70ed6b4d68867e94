package dict

import "github.com/albertxli/ambers/endian"

const documentLineLen = 80

// ParseDocument parses a type-6 document record into its constituent
// 80-character lines, each trimmed of trailing padding. The
// record-type tag must already have been consumed.
func ParseDocument(r *endian.Reader) ([][]byte, error) {
	nLines, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	lines := make([][]byte, 0, nLines)
	for i := int32(0); i < nLines; i++ {
		raw, err := r.ReadBytes(documentLineLen)
		if err != nil {
			return nil, err
		}
		lines = append(lines, append([]byte(nil), endian.TrimTrailingPadding(raw)...))
	}

	return lines, nil
}
