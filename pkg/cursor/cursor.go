// Package cursor provides sequential little-endian reads over a byte buffer or file.
package cursor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrOutOfBounds is returned when a read or seek would pass the end of the data.
var ErrOutOfBounds = errors.New("read out of bounds")

// Reader is a positioned reader with typed helpers.
// It is backed either by an in-memory buffer or by an open file.
type Reader struct {
	src  io.ReadSeeker
	file *os.File
	size int64
	pos  int64
}

// New returns a Reader over data.
func New(data []byte) *Reader {
	return &Reader{
		src:  bytes.NewReader(data),
		size: int64(len(data)),
	}
}

// Open opens a file for cursor reads. The caller must Close it.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return &Reader{
		src:  file,
		file: file,
		size: info.Size(),
	}, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Len returns the total size of the underlying data.
func (r *Reader) Len() int64 {
	return r.size
}

// Tell returns the current position.
func (r *Reader) Tell() int64 {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int64 {
	return r.size - r.pos
}

// Seek repositions the cursor. whence is io.SeekStart, io.SeekCurrent or io.SeekEnd.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = r.pos + offset
	case io.SeekEnd:
		target = r.size + offset
	default:
		return r.pos, fmt.Errorf("invalid whence: %d", whence)
	}

	if target < 0 || target > r.size {
		return r.pos, fmt.Errorf("%w: seek to %d (size %d)", ErrOutOfBounds, target, r.size)
	}

	if _, err := r.src.Seek(target, io.SeekStart); err != nil {
		return r.pos, err
	}
	r.pos = target
	return r.pos, nil
}

// Read returns the next n bytes. A negative n reads everything that remains.
func (r *Reader) Read(n int) ([]byte, error) {
	if n < 0 {
		n = int(r.Remaining())
	}
	if int64(n) > r.Remaining() {
		return nil, fmt.Errorf("%w: read %d bytes at %d (size %d)", ErrOutOfBounds, n, r.pos, r.size)
	}

	buf := make([]byte, n)
	read, err := io.ReadFull(r.src, buf)
	r.pos += int64(read)
	if err != nil {
		// A short read from a file that shrank underneath us is just as fatal.
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, err)
	}
	return buf, nil
}

// ReadUint8 reads an unsigned byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian unsigned short.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian unsigned int.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint16Array reads count shorts. If count <= 0 it reads as many as remain.
func (r *Reader) ReadUint16Array(count int) ([]uint16, error) {
	if count <= 0 {
		count = int(r.Remaining() / 2)
	}
	b, err := r.Read(count * 2)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out, nil
}

// ReadUint32Array reads count ints. If count <= 0 it reads as many as remain.
func (r *Reader) ReadUint32Array(count int) ([]uint32, error) {
	if count <= 0 {
		count = int(r.Remaining() / 4)
	}
	b, err := r.Read(count * 4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out, nil
}

// ReadText reads a fixed-length text field and strips trailing null bytes.
func (r *Reader) ReadText(length int) ([]byte, error) {
	b, err := r.Read(length)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(b, "\x00"), nil
}
