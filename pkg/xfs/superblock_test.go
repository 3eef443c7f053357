package xfs

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadSuperblock(t *testing.T) {
	buf := make([]byte, binary.Size(SuperBlock{}))
	binary.BigEndian.PutUint32(buf[0:4], SBMagicNumber)
	binary.BigEndian.PutUint32(buf[4:8], 4096)               // block size
	binary.BigEndian.PutUint64(buf[56:64], 128)               // root inode
	binary.BigEndian.PutUint32(buf[84:88], 1<<20)             // AG blocks
	binary.BigEndian.PutUint32(buf[88:92], 4)                 // AG count
	binary.BigEndian.PutUint16(buf[104:106], 256)             // inode size
	buf[120] = 12 // block size log2
	buf[122] = 8  // inode size log2
	buf[124] = 20 // AG blocks log2

	dev := writeTempDevice(t, buf)

	sb, geo, err := LoadSuperblock(dev)
	assert.NoError(t, err)
	assert.Equal(t, uint32(SBMagicNumber), sb.MagicNumber)
	assert.Equal(t, uint64(128), sb.RootInode)
	assert.Equal(t, uint32(4), sb.AGCount)
	assert.Equal(t, uint8(12), geo.BlockLog)
	assert.Equal(t, uint8(8), geo.InodeLog)
	assert.Equal(t, uint64(1<<20), geo.AGBlocks)
}

func TestLoadSuperblockBadMagic(t *testing.T) {
	buf := make([]byte, binary.Size(SuperBlock{}))
	dev := writeTempDevice(t, buf)

	_, _, err := LoadSuperblock(dev)
	assert.Error(t, err)
	var badSB *BadSuperblockError
	assert.ErrorAs(t, err, &badSB)
}
