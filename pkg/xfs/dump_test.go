package xfs

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpExtentsRegularFile(t *testing.T) {
	geo := &Geometry{BlockLog: 6, InodeLog: 0, AGBlkLog: 20, InopBLog: 0, AGBlocks: 1 << 20, BlockSize: 64, InodeSize: 116}

	// blkno 3 (byte offset 192) is chosen so the data block doesn't overlap
	// the inode's own fork region (bytes 100-116 at iadr 0).
	const dataBlkno = 3

	rec := ExtentRecord{StartOff: 0, StartBlock: dataBlkno, BlockCount: 1, State: ExtentNorm}
	l0, l1 := PackExtent(rec)
	fork := make([]byte, 16)
	binary.BigEndian.PutUint64(fork[0:8], l0)
	binary.BigEndian.PutUint64(fork[8:16], l1)

	content := []byte("hello world!!!!")
	block := make([]byte, 64)
	copy(block, content)

	data := make([]byte, 64*4)
	copy(data[100:116], fork)
	copy(data[dataBlkno*64:dataBlkno*64+64], block)

	dev := writeTempDevice(t, data)
	inode := &InodeCore{Mode: modeRegular | 0644, Version: 2, Format: InodeFormatExtents, NExtents: 1, Size: int64(len(content))}

	var out bytes.Buffer
	err := Dump(dev, geo, 0, inode, &out, nil)
	assert.NoError(t, err)
	assert.Equal(t, content, out.Bytes())
}

func TestDumpLocalSymlink(t *testing.T) {
	// BlockSize (not InodeSize) bounds a LOCAL symlink target's length, per
	// xfsr-dump.c's dump_symlink_local: len <= sb_blocksize - INO_DATA_FORK_OFFSET.
	geo := &Geometry{BlockLog: 12, InodeLog: 0, AGBlkLog: 20, InopBLog: 0, AGBlocks: 1 << 20, BlockSize: 4096, InodeSize: 116}

	target := []byte("../target")
	data := make([]byte, 100+16)
	copy(data[100:], target)

	dev := writeTempDevice(t, data)
	inode := &InodeCore{Mode: modeSymlink | 0777, Version: 2, Format: InodeFormatLocal, Size: int64(len(target))}

	var out bytes.Buffer
	err := Dump(dev, geo, 0, inode, &out, nil)
	assert.NoError(t, err)
	assert.Equal(t, target, out.Bytes())
}

func TestDumpLocalSymlinkTooLong(t *testing.T) {
	geo := &Geometry{BlockLog: 12, InodeLog: 0, AGBlkLog: 20, InopBLog: 0, AGBlocks: 1 << 20, BlockSize: 4096, InodeSize: 116}

	data := make([]byte, 200)
	dev := writeTempDevice(t, data)
	inode := &InodeCore{Mode: modeSymlink | 0777, Version: 2, Format: InodeFormatLocal, Size: 9000}

	var out bytes.Buffer
	err := Dump(dev, geo, 0, inode, &out, nil)
	assert.Error(t, err)
	var corruptErr *CorruptDirectoryError
	assert.ErrorAs(t, err, &corruptErr)
}

// TestDumpExtentsMultiExtentTrailingPreallocation covers an extent list
// whose first extent holds more blocks than fsize needs (the tail is a
// partial block) followed by a second extent representing speculative
// preallocation beyond EOF. The partial tail must come from the first
// extent's second block, not get clobbered by the second extent's seek.
func TestDumpExtentsMultiExtentTrailingPreallocation(t *testing.T) {
	geo := &Geometry{BlockLog: 6, InodeLog: 0, AGBlkLog: 20, InopBLog: 0, AGBlocks: 1 << 20, BlockSize: 64, InodeSize: 148}

	const blkA0 = 3  // first extent, block 0
	const blkA1 = 4  // first extent, block 1 (only 16 of its bytes are needed)
	const blkB0 = 10 // second (trailing, unread) extent

	recA := ExtentRecord{StartOff: 0, StartBlock: blkA0, BlockCount: 2, State: ExtentNorm}
	recB := ExtentRecord{StartOff: 2, StartBlock: blkB0, BlockCount: 1, State: ExtentNorm}
	l0a, l1a := PackExtent(recA)
	l0b, l1b := PackExtent(recB)

	fork := make([]byte, 32)
	binary.BigEndian.PutUint64(fork[0:8], l0a)
	binary.BigEndian.PutUint64(fork[8:16], l1a)
	binary.BigEndian.PutUint64(fork[16:24], l0b)
	binary.BigEndian.PutUint64(fork[24:32], l1b)

	data := make([]byte, 64*12)
	copy(data[100:132], fork)

	blockA0 := bytes.Repeat([]byte("A"), 64)
	blockA1 := bytes.Repeat([]byte("B"), 64)
	blockB0 := bytes.Repeat([]byte("X"), 64) // must never appear in the output
	copy(data[blkA0*64:blkA0*64+64], blockA0)
	copy(data[blkA1*64:blkA1*64+64], blockA1)
	copy(data[blkB0*64:blkB0*64+64], blockB0)

	dev := writeTempDevice(t, data)

	const fsize = 64 + 16 // full first block plus 16 bytes of the second
	inode := &InodeCore{Mode: modeRegular | 0644, Version: 2, Format: InodeFormatExtents, NExtents: 2, Size: fsize}

	var out bytes.Buffer
	err := Dump(dev, geo, 0, inode, &out, nil)
	assert.NoError(t, err)

	want := append(bytes.Repeat([]byte("A"), 64), bytes.Repeat([]byte("B"), 16)...)
	assert.Equal(t, want, out.Bytes())
}

func TestDumpBTreeSingleLeaf(t *testing.T) {
	// InodeSize is large enough that the fork buffer (InodeSize-100 bytes)
	// comfortably covers the bmap root header, key area, and one leaf
	// pointer (4 + BmdrKeyAreaSize + 8 bytes).
	geo := &Geometry{BlockLog: 6, InodeLog: 0, AGBlkLog: 20, InopBLog: 0, AGBlocks: 1 << 20, BlockSize: 64, InodeSize: 184}

	const leafBlkno = 4
	const dataBlkno = 5

	ptrOff := 4 + BmdrKeyAreaSize
	root := make([]byte, ptrOff+8)
	binary.BigEndian.PutUint16(root[0:2], 1) // level
	binary.BigEndian.PutUint16(root[2:4], 1) // numrecs
	binary.BigEndian.PutUint64(root[ptrOff:ptrOff+8], leafBlkno)

	rec := ExtentRecord{StartOff: 0, StartBlock: dataBlkno, BlockCount: 1, State: ExtentNorm}
	l0, l1 := PackExtent(rec)

	leaf := make([]byte, 64)
	binary.BigEndian.PutUint32(leaf[0:4], BmapLeafMagic)
	binary.BigEndian.PutUint64(leaf[8:16], BmapLeafSiblingSentinel)
	binary.BigEndian.PutUint64(leaf[16:24], BmapLeafSiblingSentinel)
	binary.BigEndian.PutUint64(leaf[0x18:0x18+8], l0)
	binary.BigEndian.PutUint64(leaf[0x18+8:0x18+16], l1)

	content := []byte("btree-backed file contents")
	dataBlock := make([]byte, 64)
	copy(dataBlock, content)

	data := make([]byte, 64*6)
	copy(data[100:100+len(root)], root)
	copy(data[leafBlkno*64:leafBlkno*64+64], leaf)
	copy(data[dataBlkno*64:dataBlkno*64+64], dataBlock)

	dev := writeTempDevice(t, data)
	inode := &InodeCore{Mode: modeRegular | 0644, Version: 2, Format: InodeFormatBTree, Size: int64(len(content))}

	var out bytes.Buffer
	err := Dump(dev, geo, 0, inode, &out, nil)
	assert.NoError(t, err)
	assert.Equal(t, content, out.Bytes())
}
