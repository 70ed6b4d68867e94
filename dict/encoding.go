package dict

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// FileEncoding is the character encoding resolved for one SAV file:
// every text field in the dictionary (variable names, labels,
// documents, value labels) is decoded through it.
type FileEncoding struct {
	Name   string
	enc    encoding.Encoding
	isUTF8 bool
}

var defaultEncoding = FileEncoding{Name: "windows-1252", enc: charmap.Windows1252}

// EncodingFromCodePage maps an SPSS/IANA code-page number (the
// subtype-3 integer info record's character_code field) to a
// FileEncoding. Unknown code pages fall back to windows-1252, SPSS's
// historical Windows default.
func EncodingFromCodePage(codePage int32) FileEncoding {
	switch codePage {
	case 437:
		return FileEncoding{Name: "IBM437", enc: charmap.CodePage437}
	case 850:
		return FileEncoding{Name: "windows-1252", enc: charmap.Windows1252}
	case 874:
		return FileEncoding{Name: "windows-874", enc: charmap.Windows874}
	case 932:
		return FileEncoding{Name: "shift_jis", enc: japanese.ShiftJIS}
	case 936:
		return FileEncoding{Name: "gbk", enc: simplifiedchinese.GBK}
	case 949:
		return FileEncoding{Name: "euc-kr", enc: korean.EUCKR}
	case 950:
		return FileEncoding{Name: "big5", enc: traditionalchinese.Big5}
	case 1200:
		return FileEncoding{Name: "utf-16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	case 1201:
		return FileEncoding{Name: "utf-16be", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	case 1250:
		return FileEncoding{Name: "windows-1250", enc: charmap.Windows1250}
	case 1251:
		return FileEncoding{Name: "windows-1251", enc: charmap.Windows1251}
	case 1252:
		return FileEncoding{Name: "windows-1252", enc: charmap.Windows1252}
	case 1253:
		return FileEncoding{Name: "windows-1253", enc: charmap.Windows1253}
	case 1254:
		return FileEncoding{Name: "windows-1254", enc: charmap.Windows1254}
	case 1255:
		return FileEncoding{Name: "windows-1255", enc: charmap.Windows1255}
	case 1256:
		return FileEncoding{Name: "windows-1256", enc: charmap.Windows1256}
	case 1257:
		return FileEncoding{Name: "windows-1257", enc: charmap.Windows1257}
	case 1258:
		return FileEncoding{Name: "windows-1258", enc: charmap.Windows1258}
	case 20127: // US-ASCII
		return FileEncoding{Name: "windows-1252", enc: charmap.Windows1252}
	case 20936:
		return FileEncoding{Name: "gbk", enc: simplifiedchinese.GBK}
	case 28591: // ISO-8859-1, mapped to windows-1252 per WHATWG
		return FileEncoding{Name: "windows-1252", enc: charmap.Windows1252}
	case 28592:
		return FileEncoding{Name: "iso-8859-2", enc: charmap.ISO8859_2}
	case 28593:
		return FileEncoding{Name: "iso-8859-3", enc: charmap.ISO8859_3}
	case 28594:
		return FileEncoding{Name: "iso-8859-4", enc: charmap.ISO8859_4}
	case 28595:
		return FileEncoding{Name: "iso-8859-5", enc: charmap.ISO8859_5}
	case 28596:
		return FileEncoding{Name: "iso-8859-6", enc: charmap.ISO8859_6}
	case 28597:
		return FileEncoding{Name: "iso-8859-7", enc: charmap.ISO8859_7}
	case 28598:
		return FileEncoding{Name: "iso-8859-8", enc: charmap.ISO8859_8}
	case 28599: // ISO-8859-9, approximated by windows-1254
		return FileEncoding{Name: "windows-1254", enc: charmap.Windows1254}
	case 28603:
		return FileEncoding{Name: "iso-8859-13", enc: charmap.ISO8859_13}
	case 28605:
		return FileEncoding{Name: "iso-8859-15", enc: charmap.ISO8859_15}
	case 50220:
		return FileEncoding{Name: "iso-2022-jp", enc: japanese.ISO2022JP}
	case 51932:
		return FileEncoding{Name: "euc-jp", enc: japanese.EUCJP}
	case 51949:
		return FileEncoding{Name: "euc-kr", enc: korean.EUCKR}
	case 52936: // HZ-GB-2312, approximated by GBK
		return FileEncoding{Name: "gbk", enc: simplifiedchinese.GBK}
	case 54936:
		return FileEncoding{Name: "gb18030", enc: simplifiedchinese.GB18030}
	case 65001:
		return FileEncoding{Name: "utf-8", isUTF8: true}
	default:
		return defaultEncoding
	}
}

// EncodingFromName maps an encoding name string (the subtype-20
// encoding record) to a FileEncoding via the WHATWG label registry.
func EncodingFromName(name string) FileEncoding {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "utf-8" || normalized == "utf8" {
		return FileEncoding{Name: "utf-8", isUTF8: true}
	}

	enc, err := htmlindex.Get(normalized)
	if err != nil {
		return defaultEncoding
	}

	canonicalName, err := htmlindex.Name(enc)
	if err != nil || canonicalName == "" {
		canonicalName = normalized
	}

	return FileEncoding{Name: canonicalName, enc: enc}
}

// DecodeLossy decodes b under f, replacing any byte sequence the
// encoding cannot represent with the Unicode replacement character.
func (f FileEncoding) DecodeLossy(b []byte) string {
	if f.isUTF8 {
		if utf8.Valid(b) {
			return string(b)
		}

		return strings.ToValidUTF8(string(b), "�")
	}

	decoded, err := f.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(decoded), "�")
	}

	return string(decoded)
}
