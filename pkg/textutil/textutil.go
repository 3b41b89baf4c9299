// Package textutil provides small text helpers shared by the converters:
// binary detection and line arithmetic.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in text.
// A final line without a trailing newline counts. Empty text has no lines.
func CountLines(text string) int {
	if text == "" {
		return 0
	}

	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}

	return lines
}

// LineAt returns the 1-based line holding the byte at offset. Offsets past
// the end are clamped.
func LineAt(text string, offset int) int {
	offset = max(0, min(offset, len(text)))

	return strings.Count(text[:offset], "\n") + 1
}
