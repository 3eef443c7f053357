package xfs

// Geometry derives every address conversion from the superblock's
// allocation-group layout. It is a pure value: once loaded it never
// changes, and every method here does arithmetic only, no I/O.
type Geometry struct {
	BlockLog  uint8 // log2(block size in bytes)
	InodeLog  uint8 // log2(inode size in bytes)
	AGBlkLog  uint8 // log2(blocks per allocation group)
	InopBLog  uint8 // log2(inodes per block)
	AGBlocks  uint64
	BlockSize uint64
	InodeSize uint64
}

// NewGeometry derives a Geometry from decoded superblock fields. AGBlocks
// must be the superblock's actual per-AG block count (the final AG may be
// shorter on disk, but geometry math uses the nominal count throughout, as
// the on-disk format itself does).
func NewGeometry(sb *SuperBlock) *Geometry {
	return &Geometry{
		BlockLog:  sb.BlockSizeLogarithmic,
		InodeLog:  sb.InodeSizeLogarithmic,
		AGBlkLog:  sb.AGBlocksLogarithmic,
		InopBLog:  sb.InodesPerBlockLogarithmic,
		AGBlocks:  uint64(sb.AGBlocks),
		BlockSize: uint64(sb.BlockSize),
		InodeSize: uint64(sb.InodeSize),
	}
}

func maskLow(bits uint8) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// InoToIadr converts an inode number into an inode address (inode-size
// units), packing the AG index out of the high bits of ino and the in-AG
// inode block position into `agblocks << inopblog` units.
func (g *Geometry) InoToIadr(ino uint64) uint64 {
	inobits := g.AGBlkLog + g.InopBLog
	ag := ino >> inobits
	return (ag*g.AGBlocks)<<g.InopBLog + (ino & maskLow(inobits))
}

// IadrToIno is the inverse of InoToIadr: converts an inode address back
// into an inode number by recovering which AG the byte offset falls in.
func (g *Geometry) IadrToIno(iadr uint64) uint64 {
	inobits := g.AGBlkLog + g.InopBLog
	adr := iadr << g.InodeLog
	blkadr := adr >> g.BlockLog
	ag := blkadr / g.AGBlocks
	agAdr := (ag * g.AGBlocks) << g.BlockLog
	rAdr := adr - agAdr
	return (rAdr >> g.InodeLog) | (ag << inobits)
}

// BlknoToBlkadr converts a filesystem block number (AG-relative bits packed
// with AG index) into a linear block address.
func (g *Geometry) BlknoToBlkadr(blkno uint64) uint64 {
	ag := blkno >> g.AGBlkLog
	return ag*g.AGBlocks + (blkno & maskLow(g.AGBlkLog))
}

// IadrOffset returns the device byte offset of an inode address.
func (g *Geometry) IadrOffset(iadr uint64) int64 {
	return int64(iadr << g.InodeLog)
}

// BlkadrOffset returns the device byte offset of a block address.
func (g *Geometry) BlkadrOffset(blkadr uint64) int64 {
	return int64(blkadr << g.BlockLog)
}

// InoOffset is a convenience composing InoToIadr and IadrOffset.
func (g *Geometry) InoOffset(ino uint64) int64 {
	return g.IadrOffset(g.InoToIadr(ino))
}

// BlknoOffset is a convenience composing BlknoToBlkadr and BlkadrOffset.
func (g *Geometry) BlknoOffset(blkno uint64) int64 {
	return g.BlkadrOffset(g.BlknoToBlkadr(blkno))
}
