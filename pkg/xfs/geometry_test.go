package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testGeometry() *Geometry {
	return &Geometry{
		BlockLog:  12, // 4096-byte blocks
		InodeLog:  8,  // 256-byte inodes
		AGBlkLog:  20, // 2^20 blocks per AG
		InopBLog:  4,  // 16 inodes per block
		AGBlocks:  1 << 20,
		BlockSize: 4096,
		InodeSize: 256,
	}
}

func TestInoIadrRoundTrip(t *testing.T) {
	g := testGeometry()

	for _, ino := range []uint64{128, 1 << 24, (1 << 24) + 5000, 3 << 24} {
		iadr := g.InoToIadr(ino)
		got := g.IadrToIno(iadr)
		assert.Equal(t, ino, got, "round trip for ino %d", ino)
	}
}

func TestInoToIadrSecondAG(t *testing.T) {
	g := testGeometry()

	inobits := g.AGBlkLog + g.InopBLog
	ino := uint64(1)<<inobits | 7 // AG 1, in-AG inode index 7

	iadr := g.InoToIadr(ino)
	wantBlockAdr := g.AGBlocks << g.InopBLog
	assert.Equal(t, wantBlockAdr+7, iadr)
}

func TestBlknoToBlkadr(t *testing.T) {
	g := testGeometry()

	blkno := uint64(2)<<g.AGBlkLog | 99
	blkadr := g.BlknoToBlkadr(blkno)
	assert.Equal(t, 2*g.AGBlocks+99, blkadr)
}

func TestOffsetHelpers(t *testing.T) {
	g := testGeometry()

	assert.Equal(t, int64(5)<<g.InodeLog, g.IadrOffset(5))
	assert.Equal(t, int64(3)<<g.BlockLog, g.BlkadrOffset(3))
}
