package dicomio

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decoders maps DICOM Specific Character Set terms to their single-byte
// decoders. ISO_IR 192 is UTF-8 and needs no conversion.
var decoders = map[string]*charmap.Charmap{
	"ISO_IR 100": charmap.ISO8859_1,
	"ISO_IR 101": charmap.ISO8859_2,
	"ISO_IR 144": charmap.ISO8859_5,
	"ISO_IR 148": charmap.ISO8859_9,
}

// normalizeText converts s to UTF-8 according to the dataset's declared
// character set. Strings that are already valid UTF-8 pass through
// untouched, so datasets the parser decoded itself are never re-decoded.
// Unknown character sets degrade to replacing invalid bytes rather than
// failing the whole document.
func normalizeText(charset, s string) string {
	if utf8.ValidString(s) {
		return s
	}
	cm, ok := decoders[charset]
	if !ok {
		return string([]rune(s))
	}
	decoded, err := cm.NewDecoder().String(s)
	if err != nil {
		return string([]rune(s))
	}
	return decoded
}
