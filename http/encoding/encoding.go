// Package encoding bridges two views of the same bytes. The wire view maps every byte
// 0-255 onto exactly one rune (ISO-8859-1), so text-oriented processing of a message
// head can never corrupt anything. The text view is plain UTF-8, as humans and file
// systems see it.
package encoding

import (
	"unicode/utf8"

	"github.com/indigo-web/utils/uf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	wire = charmap.ISO8859_1
	text = unicode.UTF8
)

// DecodeWire turns raw bytes into their wire-safe string. Every byte becomes a single
// rune, therefore the operation never fails.
func DecodeWire(b []byte) string {
	decoded, err := wire.NewDecoder().Bytes(b)
	if err != nil {
		// ISO-8859-1 covers the whole byte range
		panic("BUG: ISO-8859-1 decoder failed: " + err.Error())
	}

	return uf.B2S(decoded)
}

// EncodeWire is the inverse of DecodeWire. It fails if the string contains runes
// outside the byte range.
func EncodeWire(s string) ([]byte, error) {
	return wire.NewEncoder().Bytes(uf.S2B(s))
}

// TextToWire re-interprets UTF-8 text as a wire string, so its bytes can travel through
// wire-oriented processing untouched.
func TextToWire(s string) string {
	return DecodeWire(uf.S2B(s))
}

// WireToText reverts TextToWire.
func WireToText(s string) (string, error) {
	b, err := EncodeWire(s)
	if err != nil {
		return "", err
	}

	return DecodeText(b), nil
}

// EncodeText returns the UTF-8 representation of the text.
func EncodeText(s string) []byte {
	return []byte(s)
}

// DecodeText interprets bytes as UTF-8 text. Invalid sequences are replaced by U+FFFD.
func DecodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	decoded, _ := text.NewDecoder().Bytes(b)
	return uf.B2S(decoded)
}

// ValidText reports whether the bytes are a well-formed UTF-8 text.
func ValidText(b []byte) bool {
	return utf8.Valid(b)
}
