package formats

import (
	"errors"
	"fmt"

	"github.com/Faultbox/wolfmap/pkg/cursor"
)

// Plane compression errors.
var (
	ErrCorruptData = errors.New("corrupt compressed data")
)

// Carmack compression tags, stored in the high byte of a word.
const (
	NearTag = 0xA7
	FarTag  = 0xA8
)

// CarmackExpand undoes the near/far back-reference stage of a compressed plane.
// The first word of source is the expanded length in bytes.
func CarmackExpand(source []byte) ([]byte, error) {
	r := cursor.New(source)

	header, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading carmack length: %w", err)
	}
	length := int(header) / 2
	dest := make([]byte, 0, int(header))

	for length > 0 {
		pair, err := r.Read(2)
		if err != nil {
			return nil, err
		}
		low, high := pair[0], pair[1]

		if high != NearTag && high != FarTag {
			dest = append(dest, low, high)
			length--
			continue
		}

		count := int(low)
		if count == 0 {
			// Escaped word whose high byte happens to equal a tag.
			b, err := r.ReadUint8()
			if err != nil {
				return nil, err
			}
			dest = append(dest, b, high)
			length--
			continue
		}

		var copyPtr int
		if high == NearTag {
			offset, err := r.ReadUint8()
			if err != nil {
				return nil, err
			}
			copyPtr = len(dest) - int(offset)*2
		} else {
			offset, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			copyPtr = int(offset) * 2
		}

		if count > length {
			return nil, fmt.Errorf("%w: copy of %d words with %d remaining", ErrCorruptData, count, length)
		}
		length -= count

		// Source and destination may overlap; copy word by word.
		for ; count > 0; count-- {
			if copyPtr < 0 || copyPtr+2 > len(dest) {
				return nil, fmt.Errorf("%w: back-reference %d outside output of %d bytes", ErrCorruptData, copyPtr, len(dest))
			}
			dest = append(dest, dest[copyPtr], dest[copyPtr+1])
			copyPtr += 2
		}
	}

	if r.Tell() != r.Len() {
		return nil, fmt.Errorf("%w: carmack stream ended at %d of %d", ErrCorruptData, r.Tell(), r.Len())
	}
	return dest, nil
}

// RLEWExpand undoes the run-length stage over 16-bit words.
// The first word of source is the expanded length in bytes.
func RLEWExpand(source []byte, rlewTag uint16) ([]uint16, error) {
	r := cursor.New(source)

	header, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading rlew length: %w", err)
	}
	length := int(header) / 2
	dest := make([]uint16, 0, length)

	for length > 0 {
		value, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}

		if value != rlewTag {
			dest = append(dest, value)
			length--
			continue
		}

		count, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		value, err = r.ReadUint16()
		if err != nil {
			return nil, err
		}
		if int(count) > length {
			return nil, fmt.Errorf("%w: run of %d words with %d remaining", ErrCorruptData, count, length)
		}
		length -= int(count)
		for i := 0; i < int(count); i++ {
			dest = append(dest, value)
		}
	}

	if r.Tell() != r.Len() {
		return nil, fmt.Errorf("%w: rlew stream ended at %d of %d", ErrCorruptData, r.Tell(), r.Len())
	}
	return dest, nil
}

// ExpandPlane runs both stages over a raw plane and reshapes the result
// into rows of width codes.
func ExpandPlane(raw []byte, rlewTag uint16, width, height int) ([][]uint16, error) {
	carmacked, err := CarmackExpand(raw)
	if err != nil {
		return nil, fmt.Errorf("carmack expand: %w", err)
	}
	words, err := RLEWExpand(carmacked, rlewTag)
	if err != nil {
		return nil, fmt.Errorf("rlew expand: %w", err)
	}
	if len(words) != width*height {
		return nil, fmt.Errorf("%w: plane has %d tiles, expected %dx%d", ErrCorruptData, len(words), width, height)
	}

	rows := make([][]uint16, height)
	for y := range rows {
		rows[y] = words[y*width : (y+1)*width]
	}
	return rows, nil
}
