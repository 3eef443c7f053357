package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReaderSequentialDecode(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x00, 0x00, 0x02, 0x2a, 0xaa, 0xbb}
	r := newReader(buf)

	u16, err := r.Uint16()
	assert.NoError(t, err)
	assert.Equal(t, uint16(1), u16)

	u32, err := r.Uint32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x0000022a), u32)

	b, err := r.Bytes(2)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, b)
}

func TestReaderUint32AndBytes(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x01, 0x00, 'h', 'i'}
	r := newReader(buf)

	u32, err := r.Uint32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(256), u32)

	b, err := r.Bytes(2)
	assert.NoError(t, err)
	assert.Equal(t, "hi", string(b))
}

func TestReaderSkipAndPos(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5}
	r := newReader(buf)

	assert.Equal(t, int64(0), r.Pos())
	assert.NoError(t, r.Skip(3))
	assert.Equal(t, int64(3), r.Pos())

	b, err := r.Bytes(1)
	assert.NoError(t, err)
	assert.Equal(t, byte(3), b[0])
}

func TestReaderUint64(t *testing.T) {
	buf := []byte{0, 0, 0, 0, 0, 0, 1, 0}
	r := newReader(buf)

	u64, err := r.Uint64()
	assert.NoError(t, err)
	assert.Equal(t, uint64(256), u64)
}

func TestReaderShortBufferReturnsError(t *testing.T) {
	r := newReader([]byte{0x01})
	_, err := r.Uint32()
	assert.Error(t, err)
}

func TestReaderDecodeStruct(t *testing.T) {
	type pair struct {
		A uint16
		B uint32
	}

	buf := []byte{0x00, 0x02, 0x00, 0x00, 0x00, 0x03}
	r := newReader(buf)

	var p pair
	assert.NoError(t, r.Decode(&p))
	assert.Equal(t, pair{A: 2, B: 3}, p)
}
