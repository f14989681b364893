package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/wolfmap/pkg/encoding"
)

// maxNearCount bounds both the run length and the distance of a near copy.
const maxNearCount = 255

// RLEWCompress encodes words with the run-length stage. Runs of three or more
// equal words, and any word equal to the tag, are written as tag/count/value.
func RLEWCompress(words []uint16, rlewTag uint16) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint16(len(words)*2))

	for i := 0; i < len(words); {
		run := 1
		for i+run < len(words) && words[i+run] == words[i] && run < 0xFFFF {
			run++
		}
		if run >= 3 || words[i] == rlewTag {
			binary.Write(buf, binary.LittleEndian, []uint16{rlewTag, uint16(run), words[i]})
		} else {
			for j := 0; j < run; j++ {
				binary.Write(buf, binary.LittleEndian, words[i])
			}
		}
		i += run
	}
	return buf.Bytes()
}

// CarmackCompress encodes data with near back-references. data must have an
// even length. Far references are never emitted.
func CarmackCompress(data []byte) []byte {
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[i*2:])
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint16(len(words)*2))

	for i := 0; i < len(words); {
		bestLen, bestDist := 0, 0
		for dist := 1; dist <= maxNearCount && dist <= i; dist++ {
			n := 0
			for i+n < len(words) && n < maxNearCount && words[i-dist+n] == words[i+n] {
				n++
			}
			if n > bestLen {
				bestLen, bestDist = n, dist
			}
		}

		if bestLen >= 2 {
			buf.Write([]byte{byte(bestLen), NearTag, byte(bestDist)})
			i += bestLen
			continue
		}

		low, high := byte(words[i]), byte(words[i]>>8)
		if high == NearTag || high == FarTag {
			buf.Write([]byte{0, high, low})
		} else {
			buf.Write([]byte{low, high})
		}
		i++
	}
	return buf.Bytes()
}

// CompressPlane applies RLEW then Carmack compression to a row-major plane.
func CompressPlane(rows [][]uint16, rlewTag uint16) []byte {
	var words []uint16
	for _, row := range rows {
		words = append(words, row...)
	}
	return CarmackCompress(RLEWCompress(words, rlewTag))
}

// BuildMapArchive encodes maps into MAPHEAD and GAMEMAPS images.
// A nil entry leaves an empty slot. The third plane is written empty.
func BuildMapArchive(rlewTag uint16, maps []*GameMap) (mapHead, gameMaps []byte, err error) {
	data := new(bytes.Buffer)
	data.WriteString("TED5v1.0")

	offsets := make([]uint32, len(maps))
	for i, gm := range maps {
		if gm == nil {
			continue
		}

		var starts [MapPlanes]uint32
		var lengths [MapPlanes]uint16
		for plane := 0; plane < MapPlanes; plane++ {
			rows := make([][]uint16, gm.Height)
			for y := range rows {
				rows[y] = make([]uint16, gm.Width)
			}
			if plane < UsedPlanes {
				rows = gm.Tiles[plane]
			}
			packed := CompressPlane(rows, rlewTag)
			if len(packed) > 0xFFFF {
				return nil, nil, fmt.Errorf("map %d plane %d too large: %d bytes", i, plane, len(packed))
			}
			starts[plane] = uint32(data.Len())
			lengths[plane] = uint16(len(packed))
			data.Write(packed)
		}

		offsets[i] = uint32(data.Len())
		binary.Write(data, binary.LittleEndian, starts)
		binary.Write(data, binary.LittleEndian, lengths)
		binary.Write(data, binary.LittleEndian, []uint16{uint16(gm.Width), uint16(gm.Height)})
		data.Write(encoding.UTF8ToFixedString(gm.Name, MapNameLength))
	}

	head := new(bytes.Buffer)
	binary.Write(head, binary.LittleEndian, rlewTag)
	binary.Write(head, binary.LittleEndian, offsets)
	return head.Bytes(), data.Bytes(), nil
}

// BuildVSwap encodes wall pages into a VSWAP image with no sprite or sound pages.
// Each page must be TextureSize*TextureSize column-major palette indices.
func BuildVSwap(walls [][]byte) []byte {
	count := len(walls)
	headerSize := 6 + count*6

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, []uint16{uint16(count), uint16(count), uint16(count)})

	offset := uint32(headerSize)
	for _, page := range walls {
		binary.Write(buf, binary.LittleEndian, offset)
		offset += uint32(len(page))
	}
	for _, page := range walls {
		binary.Write(buf, binary.LittleEndian, uint16(len(page)))
	}
	for _, page := range walls {
		buf.Write(page)
	}
	return buf.Bytes()
}
