// Package sanitize provides the default free-text argument sanitizer applied
// by the endpoint registry: markup is stripped, control characters removed
// and whitespace collapsed.
package sanitize

import (
	"strings"
	"unicode"
)

// Text strips tags and percent-encoded control octets, drops control
// characters and whitespace-normalizes the result.
func Text(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	inTag := false
	for _, r := range value {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag:
			// skip tag contents
		case unicode.IsControl(r) && !unicode.IsSpace(r):
			// dropped outright; whitespace runes fall through and collapse
		default:
			b.WriteRune(r)
		}
	}

	cleaned := stripEncodedOctets(b.String())
	return strings.Join(strings.Fields(cleaned), " ")
}

// stripEncodedOctets removes %xx sequences the way the host sanitizer does,
// so encoded control characters cannot survive a round trip.
func stripEncodedOctets(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for i := 0; i < len(value); i++ {
		if value[i] == '%' && i+2 < len(value) && isHexDigit(value[i+1]) && isHexDigit(value[i+2]) {
			i += 2
			continue
		}
		b.WriteByte(value[i])
	}
	return b.String()
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
