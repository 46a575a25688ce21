// Package secret converts hidden text to and from the payload bytes carried in an image.
package secret

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Replacement is substituted for every byte that is not part of a valid UTF-8 sequence.
const Replacement = "�"

// Encode returns the UTF-8 bytes of src. Ill-formed sequences in src are replaced
// with U+FFFD so that the payload is always valid UTF-8.
func Encode(src string) ([]byte, error) {
	return unicode.UTF8.NewEncoder().Bytes([]byte(src))
}

// Decode interprets payload as UTF-8. It never fails: invalid sequences
// decode to U+FFFD.
func Decode(payload []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(payload)
	if err != nil {
		return strings.ToValidUTF8(string(payload), Replacement)
	}
	return string(out)
}
