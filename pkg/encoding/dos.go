// Package encoding provides text encoding utilities for DOS-era game data files.
package encoding

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DOSToUTF8 converts code page 437 bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func DOSToUTF8(data []byte) string {
	decoder := charmap.CodePage437.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToDOS converts a UTF-8 string to code page 437 bytes.
// Characters with no CP437 mapping are replaced with '?'.
func UTF8ToDOS(s string) []byte {
	encoder := charmap.CodePage437.NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// FixedStringToUTF8 converts a fixed-size CP437 field to a UTF-8 string.
// Everything from the first null byte on is dropped.
func FixedStringToUTF8(data []byte) string {
	if nullIdx := bytes.IndexByte(data, 0); nullIdx >= 0 {
		data = data[:nullIdx]
	}
	return DOSToUTF8(data)
}

// UTF8ToFixedString converts a UTF-8 string to a fixed-size CP437 field padded with nulls.
func UTF8ToFixedString(s string, size int) []byte {
	result := make([]byte, size)
	copy(result, UTF8ToDOS(s))
	return result
}
