package xfs

import (
	"bytes"
	"encoding/binary"
	"io"
)

// reader wraps a byte slice for sequential big-endian struct decoding,
// mirroring the teacher's own use of encoding/binary against in-memory
// buffers rather than decoding field-by-field off the wire.
type reader struct {
	br *bytes.Reader
}

func newReader(buf []byte) *reader {
	return &reader{br: bytes.NewReader(buf)}
}

// Decode reads binary.Size(v) bytes into v using big-endian byte order,
// the wire order for every XFS on-disk structure.
func (r *reader) Decode(v interface{}) error {
	return binary.Read(r.br, binary.BigEndian, v)
}

// Uint16 reads a single big-endian uint16.
func (r *reader) Uint16() (uint16, error) {
	var v uint16
	err := binary.Read(r.br, binary.BigEndian, &v)
	return v, err
}

// Uint32 reads a single big-endian uint32.
func (r *reader) Uint32() (uint32, error) {
	var v uint32
	err := binary.Read(r.br, binary.BigEndian, &v)
	return v, err
}

// Uint64 reads a single big-endian uint64.
func (r *reader) Uint64() (uint64, error) {
	var v uint64
	err := binary.Read(r.br, binary.BigEndian, &v)
	return v, err
}

// Bytes reads n raw bytes without byte-swapping.
func (r *reader) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(r.br, b)
	return b, err
}

// Skip advances the reader by n bytes.
func (r *reader) Skip(n int64) error {
	_, err := r.br.Seek(n, 1)
	return err
}

// Pos returns the current read offset into the underlying buffer.
func (r *reader) Pos() int64 {
	pos, _ := r.br.Seek(0, 1)
	return pos
}
